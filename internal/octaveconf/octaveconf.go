// Package octaveconf loads the pipeline-wide defaults: strict mode and the
// emitter settings, which the façade turns into lexer/parser/emitter
// options, plus an unknown-fields policy and a per-invocation timeout
// recommendation, which are loaded and checked but not applied by the
// façade (the validator takes its policy from the schema's POLICY block).
// Grounded in conduit's internal/cli/config.Load,
// adapted from a single Conduit project file to a single OCTAVE pipeline
// config file.
package octaveconf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/octave-lang/octave/internal/octave/schema"
)

// Config is the pipeline's tunable defaults, unmarshaled from octave.yml (or
// octave.yaml) plus environment variable overrides.
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Emit     EmitConfig     `mapstructure:"emit"`
}

// PipelineConfig controls lexer/parser behavior (Strict) and carries the
// unknown-fields policy and timeout defaults.
type PipelineConfig struct {
	Strict                bool   `mapstructure:"strict"`
	UnknownFieldsPolicy   string `mapstructure:"unknown_fields_policy"`
	InvocationTimeoutSecs int    `mapstructure:"invocation_timeout_seconds"`
}

// EmitConfig controls the emitter's default serialization settings.
type EmitConfig struct {
	IndentWidth           int  `mapstructure:"indent_width"`
	StripComments         bool `mapstructure:"strip_comments"`
	CanonicalizeOperators bool `mapstructure:"canonicalize_operators"`
}

// InvocationTimeout returns the configured per-invocation timeout as a
// time.Duration.
func (c *Config) InvocationTimeout() time.Duration {
	return time.Duration(c.Pipeline.InvocationTimeoutSecs) * time.Second
}

// Load loads pipeline defaults from octave.yml/octave.yaml in the current
// directory, falling back to built-in defaults when no config file exists,
// and allowing environment variables to override either.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("pipeline.strict", false)
	v.SetDefault("pipeline.unknown_fields_policy", schema.PolicyAllow)
	v.SetDefault("pipeline.invocation_timeout_seconds", 30)
	v.SetDefault("emit.indent_width", 2)
	v.SetDefault("emit.strip_comments", false)
	v.SetDefault("emit.canonicalize_operators", true)

	v.SetConfigName("octave")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("OCTAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read octave config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal octave config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Pipeline.UnknownFieldsPolicy {
	case schema.PolicyReject, schema.PolicyWarn, schema.PolicyAllow:
	default:
		return fmt.Errorf("pipeline.unknown_fields_policy must be one of REJECT, WARN, ALLOW, got: %s",
			cfg.Pipeline.UnknownFieldsPolicy)
	}
	if cfg.Pipeline.InvocationTimeoutSecs <= 0 {
		return fmt.Errorf("pipeline.invocation_timeout_seconds must be positive, got: %d",
			cfg.Pipeline.InvocationTimeoutSecs)
	}
	if cfg.Emit.IndentWidth <= 0 {
		return fmt.Errorf("emit.indent_width must be positive, got: %d", cfg.Emit.IndentWidth)
	}
	return nil
}

// Package config loads labprep settings from defaults, an optional YAML
// file, LABPREP_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/labprep/internal/llm"
	"github.com/abhisek/labprep/internal/session"
	"github.com/abhisek/labprep/internal/tutor"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the decoded application configuration.
type Config struct {
	LLM       LLMConfig        `mapstructure:"llm"`
	Tutor     GenerationConfig `mapstructure:"tutor"`
	Evaluator EvaluatorConfig  `mapstructure:"evaluator"`
	Session   SessionConfig    `mapstructure:"session"`
	Catalog   CatalogConfig    `mapstructure:"catalog"`
	DB        DBConfig         `mapstructure:"db"`
	Log       LogConfig        `mapstructure:"log"`
	Metrics   MetricsConfig    `mapstructure:"metrics"`
}

// LLMConfig overrides the environment-derived provider settings.
// Credentials never come from the config file.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" validate:"omitempty,oneof=openai openai-responses anthropic gemini openrouter mock"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxAttempts int           `mapstructure:"max_attempts" validate:"min=1,max=5"`
}

// GenerationConfig holds token and sampling settings for one LLM call.
type GenerationConfig struct {
	MaxTokens   int     `mapstructure:"max_tokens" validate:"min=1,max=4096"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// EvaluatorConfig adds the structured verdict switch.
type EvaluatorConfig struct {
	GenerationConfig `mapstructure:",squash"`

	Structured bool `mapstructure:"structured"`
}

// SessionConfig holds gating and readiness thresholds.
type SessionConfig struct {
	MinMessages    int     `mapstructure:"min_messages" validate:"gte=0"`
	ReadinessRatio float64 `mapstructure:"readiness_ratio" validate:"gte=0,lte=1"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"db":           "db.path",
	"catalog":      "catalog.path",
	"log-level":    "log.level",
	"metrics-addr": "metrics.addr",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.max_attempts", 1)

	rc := tutor.DefaultResponderConfig()
	v.SetDefault("tutor.max_tokens", rc.MaxTokens)
	v.SetDefault("tutor.temperature", rc.Temperature)

	ec := tutor.DefaultEvaluatorConfig()
	v.SetDefault("evaluator.max_tokens", ec.MaxTokens)
	v.SetDefault("evaluator.temperature", ec.Temperature)
	v.SetDefault("evaluator.structured", ec.Structured)

	sc := session.DefaultConfig()
	v.SetDefault("session.min_messages", sc.MinMessages)
	v.SetDefault("session.readiness_ratio", sc.ReadinessRatio)

	v.SetDefault("catalog.path", "")
	v.SetDefault("db.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.addr", "")
}

// DefaultPath returns $XDG_CONFIG_HOME/labprep/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "labprep", "config.yaml"), nil
}

// Load reads the configuration. An explicit path must exist; the default
// path is optional. Flags that were set on the command line win over
// everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LABPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if def, err := DefaultPath(); err == nil {
		if _, statErr := os.Stat(def); statErr == nil {
			v.SetConfigFile(def)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", def, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ApplyLLM overlays provider, model, timeout and attempts onto base.
func (c *Config) ApplyLLM(base llm.Config) llm.Config {
	if c.LLM.Provider != "" && c.LLM.Provider != base.Provider {
		base.SetProvider(c.LLM.Provider)
	}
	if c.LLM.Model != "" {
		base.SetModel(c.LLM.Model)
	}
	if c.LLM.Timeout > 0 {
		base.Timeout = c.LLM.Timeout
	}
	base.Retry.MaxAttempts = c.LLM.MaxAttempts
	return base
}

// SessionConfig returns the controller thresholds.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		MinMessages:    c.Session.MinMessages,
		ReadinessRatio: c.Session.ReadinessRatio,
	}
}

// ResponderConfig returns tutor reply settings.
func (c *Config) ResponderConfig() tutor.Config {
	return tutor.Config{MaxTokens: c.Tutor.MaxTokens, Temperature: c.Tutor.Temperature}
}

// EvaluatorConfig returns evaluator settings.
func (c *Config) EvaluatorConfig() tutor.EvaluatorConfig {
	return tutor.EvaluatorConfig{
		Config:     tutor.Config{MaxTokens: c.Evaluator.MaxTokens, Temperature: c.Evaluator.Temperature},
		Structured: c.Evaluator.Structured,
	}
}

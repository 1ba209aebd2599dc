// Package config loads service configuration from defaults, an optional config
// file, a .env file and ALME_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/alme-learn/alme/internal/llm"
)

// EnvPrefix prefixes every environment variable the service reads.
const EnvPrefix = "ALME"

// devJWTSecret is only accepted outside production mode.
const devJWTSecret = "alme-dev-secret"

type Config struct {
	Mode   string       `mapstructure:"mode"`
	DBPath string       `mapstructure:"db"`
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`

	// LLM comes from the ALME_*/provider API key variables, not the config file.
	LLM llm.Config `mapstructure:"-"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Production reports whether the service runs in production mode.
func (c Config) Production() bool {
	m := strings.ToLower(c.Mode)
	return m == "prod" || m == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "dev")
	v.SetDefault("db", "")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("auth.jwt_secret", devJWTSecret)
	v.SetDefault("auth.token_ttl", 24*time.Hour)
}

// Load reads configuration. configFile may be empty. A .env file in the working
// directory is loaded when present; variables already set in the environment win.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Env values for list keys arrive as one comma-separated string.
	if raw := os.Getenv(EnvPrefix + "_SERVER_CORS_ORIGINS"); raw != "" {
		cfg.Server.CORSOrigins = splitList(raw)
	}

	cfg.LLM = resolveLLM()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveLLM prefers an explicit ALME_LLM_PROVIDER, then the first provider
// whose standard API key is set. With neither, the provider is left empty and
// callers fall back to canned replies.
func resolveLLM() llm.Config {
	if os.Getenv("ALME_LLM_PROVIDER") != "" {
		return llm.ConfigFromEnv()
	}
	if cfg, ok := llm.DiscoverConfig(); ok {
		return cfg
	}
	cfg := llm.DefaultConfig()
	cfg.Provider = ""
	return cfg
}

// Validate checks values that would make the service unusable.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token TTL must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%s_AUTH_JWT_SECRET is required", EnvPrefix)
	}
	if c.Production() && c.Auth.JWTSecret == devJWTSecret {
		return fmt.Errorf("%s_AUTH_JWT_SECRET must be set in production mode", EnvPrefix)
	}
	if c.LLM.Provider != "" {
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("llm: %w", err)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. REMEMBERME_SERVER_PORT.
// Most fields also answer to an unprefixed alias (PORT, MONGODB_URI, GEMINI_API_KEY).
const EnvPrefix = "REMEMBERME"

// Config holds all rememberme configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Bind        string   `yaml:"bind" envconfig:"BIND"`
	Port        int      `yaml:"port" envconfig:"PORT"`
	CORSOrigins []string `yaml:"cors_origins" envconfig:"CORS_ORIGINS"`
}

type DatabaseConfig struct {
	Driver    string `yaml:"driver" envconfig:"DB_DRIVER"` // "sqlite" or "mongo"
	Path      string `yaml:"path" envconfig:"SQLITE_PATH"`
	MongoURI  string `yaml:"mongo_uri" envconfig:"MONGODB_URI"`
	MongoName string `yaml:"mongo_database" envconfig:"MONGODB_DATABASE"`
}

type LLMConfig struct {
	Provider     string        `yaml:"provider" envconfig:"LLM_PROVIDER"` // "gemini", "anthropic", "ollama"
	Model        string        `yaml:"model" envconfig:"LLM_MODEL"`       // empty picks the provider default
	GeminiKey    string        `yaml:"gemini_key" envconfig:"GEMINI_API_KEY"`
	GeminiURL    string        `yaml:"gemini_url" envconfig:"GEMINI_URL"`
	AnthropicKey string        `yaml:"anthropic_key" envconfig:"ANTHROPIC_API_KEY"`
	OllamaURL    string        `yaml:"ollama_url" envconfig:"OLLAMA_URL"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"LLM_TIMEOUT"`

	// BreakerFailures trips the circuit after this many consecutive
	// provider failures. Zero disables the breaker.
	BreakerFailures uint32        `yaml:"breaker_failures" envconfig:"LLM_BREAKER_FAILURES"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" envconfig:"LLM_BREAKER_COOLDOWN"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" envconfig:"LOG_PRETTY"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind:        "0.0.0.0",
			Port:        5000,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:    "sqlite",
			Path:      "", // resolved at runtime via sqlite.DefaultDBPath()
			MongoName: "rememberme",
		},
		LLM: LLMConfig{
			Provider:        "gemini",
			GeminiURL:       "https://generativelanguage.googleapis.com",
			OllamaURL:       "http://localhost:11434",
			Timeout:         60 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and finally the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// No default tags on the struct: envconfig only touches fields whose
	// variable is actually set, so file values survive.
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("process environment: %w", err)
	}

	// A Mongo URI alone is enough to pick the document store, matching how
	// the service has always been deployed.
	if cfg.Database.MongoURI != "" && os.Getenv("DB_DRIVER") == "" && os.Getenv(EnvPrefix+"_DATABASE_DB_DRIVER") == "" {
		cfg.Database.Driver = "mongo"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and providers.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
	case "mongo":
		if c.Database.MongoURI == "" {
			return errors.New("mongo driver requires MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	switch c.LLM.Provider {
	case "gemini", "anthropic", "ollama":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.LLM.Provider)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

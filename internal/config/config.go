// Package config loads the application settings from a YAML file with
// environment variable overrides for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings is the full application configuration.
type Settings struct {
	OpenAI     OpenAI     `yaml:"openai"`
	Qdrant     Qdrant     `yaml:"qdrant"`
	SMTP       SMTP       `yaml:"smtp"`
	Checkpoint Checkpoint `yaml:"checkpoint"`
	Agent      Agent      `yaml:"agent"`
	Log        Log        `yaml:"log"`
}

// OpenAI configures the completion and embedding client.
type OpenAI struct {
	// APIKey is overridable via OPENAI_API_KEY.
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Qdrant configures the vector search backend.
type Qdrant struct {
	URL string `yaml:"url"`
	// APIKey is overridable via QDRANT_API_KEY.
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
	// QueryVariants is how many reformulated queries supplement each search.
	// Zero disables multi-query expansion.
	QueryVariants int `yaml:"query_variants"`
}

// SMTP configures guide delivery by email.
type SMTP struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	From string `yaml:"from"`
	// Password is overridable via SMTP_PASSWORD.
	Password string `yaml:"password"`
}

// Checkpoint configures conversation persistence.
type Checkpoint struct {
	// Path is the SQLite database file. Empty means in-memory only.
	Path string `yaml:"path"`
}

// Agent configures conversation behavior.
type Agent struct {
	MaxReformulations int `yaml:"max_reformulations"`
}

// Log configures logging output.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Defaults returns the settings used when a field is absent.
func Defaults() Settings {
	return Settings{
		Qdrant: Qdrant{
			URL:        "http://localhost:6333",
			Collection: "Tide",
		},
		SMTP: SMTP{Port: 587},
		Agent: Agent{
			MaxReformulations: 2,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads settings from a YAML file, fills in defaults, and applies
// environment overrides. An empty path loads defaults and environment only.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	s.applyEnv()

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// applyEnv overrides settings from the environment. Secrets are expected to
// come from here rather than the config file.
func (s *Settings) applyEnv() {
	setString(&s.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&s.OpenAI.Model, "OPENAI_MODEL")
	setString(&s.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&s.Qdrant.URL, "QDRANT_URL")
	setString(&s.Qdrant.APIKey, "QDRANT_API_KEY")
	setString(&s.Qdrant.Collection, "QDRANT_COLLECTION")
	setString(&s.SMTP.Host, "SMTP_HOST")
	setInt(&s.SMTP.Port, "SMTP_PORT")
	setString(&s.SMTP.From, "SMTP_FROM")
	setString(&s.SMTP.Password, "SMTP_PASSWORD")
	setString(&s.Checkpoint.Path, "CHECKPOINT_PATH")
	setString(&s.Log.Level, "LOG_LEVEL")
}

// Validate checks that required settings are present and consistent.
func (s Settings) Validate() error {
	var errs []error

	if s.OpenAI.APIKey == "" {
		errs = append(errs, errors.New("openai api key is required (set OPENAI_API_KEY)"))
	}
	if s.Qdrant.URL == "" {
		errs = append(errs, errors.New("qdrant url is required"))
	}
	if s.Qdrant.Collection == "" {
		errs = append(errs, errors.New("qdrant collection is required"))
	}
	if s.Qdrant.QueryVariants < 0 {
		errs = append(errs, errors.New("qdrant query_variants cannot be negative"))
	}
	if s.SMTP.Port <= 0 || s.SMTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid smtp port: %d", s.SMTP.Port))
	}
	if s.Agent.MaxReformulations < 0 {
		errs = append(errs, errors.New("agent max_reformulations cannot be negative"))
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level: %q", s.Log.Level))
	}

	return errors.Join(errs...)
}

// MailEnabled reports whether SMTP delivery is configured.
func (s Settings) MailEnabled() bool {
	return s.SMTP.Host != "" && s.SMTP.From != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for lifestory configuration.
	DefaultConfigDir = ".lifestory"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultSessionFile is the default session file name.
	DefaultSessionFile = "session.yaml"
	// DefaultDatabaseFile is the SQLite file used when store.sqlite.path is empty.
	DefaultDatabaseFile = "lifestory.db"
	// DefaultGeminiEmbeddingModel is used when embedder.provider is gemini.
	DefaultGeminiEmbeddingModel = "gemini-embedding-001"
)

// Store providers.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreBadger   = "badger"
	StoreMemory   = "memory"
)

// Recall backends.
const (
	RecallQdrant  = "qdrant"
	RecallChromem = "chromem"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Store    StoreConfig    `yaml:"store,omitempty"`
	Auth     AuthConfig     `yaml:"auth,omitempty"`
	LLM      LLMConfig      `yaml:"llm,omitempty"`
	Embedder EmbedderConfig `yaml:"embedder,omitempty"`
	Speech   SpeechConfig   `yaml:"speech,omitempty"`
	Recall   RecallConfig   `yaml:"recall,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Provider string         `yaml:"provider,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	Badger   BadgerConfig   `yaml:"badger,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite row store.
type SQLiteConfig struct {
	// Path is the database file. Relative paths are resolved against the base path.
	Path string `yaml:"path,omitempty"`
}

// PostgresConfig holds configuration for the Postgres row store.
type PostgresConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

// BadgerConfig holds configuration for the Badger document store.
type BadgerConfig struct {
	Path string `yaml:"path,omitempty"`
}

// AuthConfig holds identity settings.
type AuthConfig struct {
	// RequireVerification rejects sign-in until the email is verified.
	RequireVerification bool `yaml:"require_verification,omitempty"`
}

// LLMConfig holds configuration for the LLM provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	// BaseURL points at an OpenAI-compatible server; empty uses api.openai.com.
	BaseURL  string `yaml:"base_url,omitempty"`
}

// EmbedderConfig holds configuration for the embedding provider.
type EmbedderConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
}

// SpeechConfig holds configuration for voice capture.
type SpeechConfig struct {
	Locale string `yaml:"locale,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// RecallConfig selects and configures the semantic search index.
type RecallConfig struct {
	Backend string        `yaml:"backend,omitempty"`
	Qdrant  QdrantConfig  `yaml:"qdrant,omitempty"`
	Chromem ChromemConfig `yaml:"chromem,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant vector database.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// ChromemConfig holds configuration for the embedded chromem index.
type ChromemConfig struct {
	// Path persists the index; empty keeps it in memory.
	Path string `yaml:"path,omitempty"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Provider: StoreSQLite,
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Embedder: EmbedderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Speech: SpeechConfig{
			Locale: "zh-CN",
			Model:  "whisper-1",
		},
		Recall: RecallConfig{
			Backend: RecallChromem,
			Qdrant: QdrantConfig{
				Host:       "localhost",
				Port:       6334,
				Collection: "life_events",
			},
		},
	}
}

// Demo returns the configuration used when no config file exists: an
// in-memory store owned by the demo user.
func Demo() *Config {
	cfg := Default()
	cfg.Store.Provider = StoreMemory
	cfg.applyEnvOverrides()
	return cfg
}

// Load loads configuration from the .lifestory directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'lifestory init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyProviderDefaults()

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDemo loads the config file, falling back to Demo when none exists.
// demo reports whether the fallback was used.
func LoadOrDemo(basePath string) (cfg *Config, demo bool, err error) {
	if !Exists(basePath) {
		return Demo(), true, nil
	}
	cfg, err = Load(basePath)
	return cfg, false, err
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Provider {
	case StoreSQLite, StorePostgres, StoreBadger, StoreMemory:
	default:
		return fmt.Errorf("invalid store.provider %q (valid: sqlite, postgres, badger, memory)", c.Store.Provider)
	}
	if c.Store.Provider == StorePostgres && c.Store.Postgres.DSN == "" {
		return fmt.Errorf("store.postgres.dsn is required (or set LIFESTORY_POSTGRES_DSN)")
	}
	switch c.Embedder.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("invalid embedder.provider %q (valid: openai, gemini)", c.Embedder.Provider)
	}
	switch c.Recall.Backend {
	case RecallQdrant, RecallChromem:
	default:
		return fmt.Errorf("invalid recall.backend %q (valid: qdrant, chromem)", c.Recall.Backend)
	}
	return nil
}

// applyProviderDefaults swaps in the gemini embedding model when the
// provider is gemini but the model was left at the OpenAI default.
func (c *Config) applyProviderDefaults() {
	if c.Embedder.Provider == "gemini" && (c.Embedder.Model == "" || c.Embedder.Model == Default().Embedder.Model) {
		c.Embedder.Model = DefaultGeminiEmbeddingModel
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
		if c.Embedder.Provider == "openai" && c.Embedder.APIKey == "" {
			c.Embedder.APIKey = key
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if c.Embedder.Provider == "gemini" && c.Embedder.APIKey == "" {
			c.Embedder.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		if c.Recall.Qdrant.APIKey == "" {
			c.Recall.Qdrant.APIKey = key
		}
	}
	if dsn := os.Getenv("LIFESTORY_POSTGRES_DSN"); dsn != "" {
		if c.Store.Postgres.DSN == "" {
			c.Store.Postgres.DSN = dsn
		}
	}
}

// ConfigDir returns the path to the .lifestory config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SessionFilePath returns the path to the session file.
func SessionFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultSessionFile)
}

// SQLitePath returns the database file for cfg, resolved against basePath.
func SQLitePath(basePath string, cfg *Config) string {
	return resolve(basePath, cfg.Store.SQLite.Path, DefaultDatabaseFile)
}

// BadgerPath returns the Badger directory for cfg, resolved against basePath.
func BadgerPath(basePath string, cfg *Config) string {
	return resolve(basePath, cfg.Store.Badger.Path, "badger")
}

// ChromemPath returns the chromem persistence directory, or "" for in-memory.
func ChromemPath(basePath string, cfg *Config) string {
	if cfg.Recall.Chromem.Path == "" {
		return ""
	}
	return resolve(basePath, cfg.Recall.Chromem.Path, "")
}

func resolve(basePath, path, fallback string) string {
	if path == "" {
		return filepath.Join(basePath, DefaultConfigDir, fallback)
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basePath, path)
}

// Exists checks if a lifestory config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeName converts a user id or label to a valid collection suffix.
func SanitizeName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// CollectionForUser creates a per-user collection name for the embedded index.
func CollectionForUser(userID string) string {
	return "life_events_" + SanitizeName(userID)
}

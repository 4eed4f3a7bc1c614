package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the meme search engine.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Server    ServerConfig    `yaml:"server"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "deepseek", "jina", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-ada-002"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for the API key
	BaseURL   string `yaml:"base_url"`    // Only used by the ollama provider
	Dimension int    `yaml:"dimension"`
}

// StoreConfig holds document store configuration.
type StoreConfig struct {
	Path          string `yaml:"path"`           // Database file; empty means <dir>/.memesearch/memes.db
	SubCollection string `yaml:"sub_collection"` // Must match between write and read paths
	BatchSize     int    `yaml:"batch_size"`
	MaxRetries    int    `yaml:"max_retries"`
}

// CorpusConfig maps partitions to their description files.
type CorpusConfig struct {
	// Pattern discovers corpus files under the target directory; each
	// matching file becomes the partition named after its basename.
	Pattern string `yaml:"pattern"`
	// Partitions overrides discovery with an explicit partition -> file map.
	Partitions map[string]string `yaml:"partitions"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// SearchConfig holds query-time configuration.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-ada-002",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 1536,
		},
		Store: StoreConfig{
			SubCollection: "memes",
			BatchSize:     25,
			MaxRetries:    5,
		},
		Corpus: CorpusConfig{
			Pattern: "description/*.json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Search: SearchConfig{
			TopK: 25,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, overlaying the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for memesearch.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "memesearch.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".memesearch", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDBPath returns the database path for a target directory, honoring an
// explicit override from the config.
func (c *Config) StoreDBPath(dir string) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(dir, ".memesearch", "memes.db")
}

// EnsureDataDir ensures the .memesearch directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".memesearch"), 0755)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ablackcat04/software-studio-final/config"
	"github.com/ablackcat04/software-studio-final/internal/adapter/embedding"
	"github.com/ablackcat04/software-studio-final/internal/adapter/store"
	"github.com/ablackcat04/software-studio-final/internal/port"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "memesearch",
	Short: "Meme search engine - ingest meme descriptions and query them by similarity",
	Long: `memesearch ingests short text descriptions of memes, embeds them with an
OpenAI-compatible model, persists them in a local document store partitioned
by folder, and answers nearest-neighbor queries over the embeddings.

Example usage:
  memesearch ingest ./assets          # Embed and store all description files
  memesearch query -q "being late"    # Find the best matching memes
  memesearch serve                    # Expose search over HTTP`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./memesearch.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}

// newEmbedder builds the configured embedding client.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "deepseek":
		return embedding.NewDeepSeekEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "jina":
		return embedding.NewJinaEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// openStore opens the document store for the target directory.
func openStore(cfg *config.Config, dir string) (*store.BoltStore, error) {
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return store.NewBoltStore(cfg.StoreDBPath(dir), port.RetryPolicy{
		MaxRetries: cfg.Store.MaxRetries,
		Backoff:    port.ExponentialBackoff,
	})
}

package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ablackcat04/software-studio-final/internal/server"
	"github.com/ablackcat04/software-studio-final/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve similarity search over HTTP",
	Long: `Run an HTTP server exposing POST /search and GET /health.

The search endpoint accepts {"query": "...", "top_k": 25, "partitions": ["all"]}
and returns a JSON array of matches ordered by descending score.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, err := openStore(cfg, rootDir)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	searchUC := usecase.NewSearchUseCase(st, embedder, cfg.Store.SubCollection, cfg.Search.TopK)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv, err := server.New(server.Config{
		Addr:        addr,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, searchUC)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Listening on %s\n", addr)
	return srv.Start(ctx)
}

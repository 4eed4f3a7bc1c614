package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ablackcat04/software-studio-final/internal/adapter/corpus"
	"github.com/ablackcat04/software-studio-final/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Embed and store meme descriptions",
	Long: `Read meme description files, embed each description, and write the
resulting documents into the local store, one partition per file.

Re-running is safe: keys that already exist in a partition are skipped
without spending an embedding call.

Examples:
  memesearch ingest .                 # Use corpus pattern from config
  memesearch ingest ./assets/images   # Ingest a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	// Explicit partition mapping wins over pattern discovery.
	byPartition := cfg.Corpus.Partitions
	var partitions []string
	if len(byPartition) > 0 {
		for p := range byPartition {
			partitions = append(partitions, p)
		}
		sort.Strings(partitions)
	} else {
		byPartition, partitions, err = corpus.Discover(path, cfg.Corpus.Pattern)
		if err != nil {
			return err
		}
	}
	if len(partitions) == 0 {
		return fmt.Errorf("no corpus files found under %s (pattern %q)", path, cfg.Corpus.Pattern)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	st, err := openStore(cfg, GetRootDir())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	ingestUC := usecase.NewIngestUseCase(st, embedder, cfg.Store.SubCollection, cfg.Store.BatchSize)

	for _, partition := range partitions {
		records, err := corpus.Load(byPartition[partition])
		if err != nil {
			return err
		}

		fmt.Printf("Ingesting %d records into partition %q...\n", len(records), partition)

		bar := progressbar.NewOptions(len(records),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Ingesting %s[reset]", partition)),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)

		report, runErr := ingestUC.Ingest(partition, records, func(visited, total int, key string) {
			bar.Set(visited)
		})

		fmt.Printf("\nPartition %q:\n", partition)
		fmt.Printf("  Processed:     %d\n", report.Processed)
		fmt.Printf("  Skipped:       %d (already stored)\n", report.Skipped)
		fmt.Printf("  Failed:        %d\n", report.Failed)
		if report.NotAttempted > 0 {
			fmt.Printf("  Not attempted: %d (run halted)\n", report.NotAttempted)
		}
		fmt.Printf("  Total:         %d\n", report.Total)

		if runErr != nil {
			return runErr
		}
	}

	fmt.Printf("\nStore: %s\n", cfg.StoreDBPath(GetRootDir()))
	return nil
}

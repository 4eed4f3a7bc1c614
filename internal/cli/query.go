package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ablackcat04/software-studio-final/internal/usecase"
)

var (
	queryText       string
	queryTopK       int
	queryPartitions []string
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find memes matching a free-text query",
	Long: `Embed the query text and rank stored memes by cosine similarity.

Examples:
  memesearch query -q "when the deadline is tomorrow"
  memesearch query -q "awkward silence" -k 10 -p mygo -p popular --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().StringSliceVarP(&queryPartitions, "partition", "p", nil, "restrict to partitions (default all)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	if _, err := os.Stat(cfg.StoreDBPath(rootDir)); os.IsNotExist(err) {
		return fmt.Errorf("no store found. Run 'memesearch ingest' first")
	}

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

	results, err := searchUC.Search(queryText, queryTopK, queryPartitions)
	if err != nil {
		return err
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%d. %s/%s  score=%.4f\n", i+1, r.PartitionID, r.ID, r.Score)
		fmt.Printf("   %s\n", firstLine(r.Description))
	}
	return nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

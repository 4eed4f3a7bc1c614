package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ablackcat04/software-studio-final/internal/domain"
)

// record is the on-disk shape of one corpus entry.
type record struct {
	Text     string   `json:"text"`
	Examples []string `json:"examples"`
}

// Load parses a corpus file: a JSON object keyed by meme id, each value
// carrying the primary text and its usage examples. Records come back in
// file order; validation is left to the ingestion pipeline so malformed
// entries still show up in its failed count.
func Load(path string) ([]domain.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("corpus %s: expected a JSON object, got %v", path, tok)
	}

	var records []domain.SourceRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus %s: %w", path, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("corpus %s: unexpected token %v", path, keyTok)
		}

		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("corpus %s: failed to decode record %q: %w", path, key, err)
		}

		records = append(records, domain.SourceRecord{
			Key:      key,
			Text:     rec.Text,
			Examples: rec.Examples,
		})
	}

	return records, nil
}

// Discover finds corpus files under dir matching the doublestar pattern and
// maps each to a partition named after the file's basename without extension.
// Partitions come back sorted for a stable run order.
func Discover(dir, pattern string) (map[string]string, []string, error) {
	if pattern == "" {
		pattern = "**/*.json"
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid corpus pattern %q: %w", pattern, err)
	}

	byPartition := make(map[string]string, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		partition := strings.TrimSuffix(base, filepath.Ext(base))
		if partition == "" {
			continue
		}
		byPartition[partition] = filepath.Join(dir, filepath.FromSlash(m))
	}

	partitions := make([]string, 0, len(byPartition))
	for p := range byPartition {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)

	return byPartition, partitions, nil
}

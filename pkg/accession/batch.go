// Package accession provides batching and family classification for
// sequence accession numbers ahead of Entrez requests.
package accession

import (
	"fmt"
)

// DefaultBatchSize is the maximum number of accessions submitted in a
// single epost or efetch request. NCBI rejects or truncates oversized
// identifier lists, so callers should not exceed this without reason.
const DefaultBatchSize = 100

// SplitBatches deduplicates ids (first occurrence wins) and splits them
// into ordered batches of at most size elements. Every batch except
// possibly the last has exactly size elements; an empty input yields an
// empty batch list.
func SplitBatches(ids []string, size int) ([][]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var batches [][]string
	for start := 0; start < len(unique); start += size {
		end := start + size
		if end > len(unique) {
			end = len(unique)
		}
		batches = append(batches, unique[start:end])
	}

	return batches, nil
}

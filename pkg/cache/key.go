package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Key identifies one direct-fetch payload: the target database, the
// record section and format, and the accession batch.
type Key struct {
	// DB is the Entrez database name (e.g. "nucleotide", "protein").
	DB string

	// Section selects the record view (rettype, e.g. "ft", "fasta").
	Section string

	// Format selects the serialization (retmode, "text" or "xml").
	Format string

	// IDs is the accession batch. Order does not affect the key.
	IDs []string
}

// String generates a deterministic cache key string. The identifier set
// is sorted and hashed so that equal batches map to equal keys
// regardless of order, and keys stay short for large batches.
//
// Format: entrez:db:section:format:sha256(sorted ids)
func (k Key) String() string {
	ids := make([]string, len(k.IDs))
	copy(ids, k.IDs)
	sort.Strings(ids)

	sum := sha256.Sum256([]byte(strings.Join(ids, ",")))

	return strings.Join([]string{
		"entrez", k.DB, k.Section, k.Format, hex.EncodeToString(sum[:]),
	}, ":")
}

package accession

import (
	"regexp"
)

// Classifier partitions accession numbers into a direct-fetch-only subset
// and a bulk-eligible subset. Every input accession must land in exactly
// one of the two outputs.
type Classifier func(ids []string) (direct, bulk []string)

// WGS master and scaffold accessions carry a 4- or 6-letter project
// prefix, a 2-digit assembly version, and at least 6 digits of sequence
// numbering, e.g. CABD02000001 or JAACYZ010000001.1.
var wgsPattern = regexp.MustCompile(`^[A-Z]{4}(?:[A-Z]{2})?\d{2}\d{6,}(?:\.\d+)?$`)

// IsWGS reports whether acc belongs to the whole-genome-shotgun accession
// family. WGS records are not addressable through the epost/efetch
// history protocol and must be fetched directly.
func IsWGS(acc string) bool {
	return wgsPattern.MatchString(acc)
}

// SplitWGS partitions ids into WGS accessions (direct-fetch-only) and all
// remaining accessions (bulk-eligible). It is the default Classifier used
// by the search orchestrator.
func SplitWGS(ids []string) (wgs, rest []string) {
	for _, id := range ids {
		if IsWGS(id) {
			wgs = append(wgs, id)
		} else {
			rest = append(rest, id)
		}
	}
	return wgs, rest
}

package accession

import (
	"testing"
)

func TestIsWGS(t *testing.T) {
	tests := []struct {
		acc  string
		want bool
	}{
		{"CABD02000001", true},
		{"AAAA01000001", true},
		{"JAACYZ010000001", true},
		{"JAACYZ010000001.1", true},
		{"AAAA00000000", true},
		// Ordinary nucleotide/protein accessions.
		{"NC_000913", false},
		{"NM_001301717", false},
		{"AB123456", false},
		{"WP_000000001.1", false},
		{"U00096", false},
		{"", false},
		// Letter prefix of the wrong length.
		{"ABC01000001", false},
	}

	for _, tt := range tests {
		if got := IsWGS(tt.acc); got != tt.want {
			t.Errorf("IsWGS(%q) = %v, want %v", tt.acc, got, tt.want)
		}
	}
}

func TestSplitWGS_Totality(t *testing.T) {
	ids := []string{
		"CABD02000001", "JAACYZ010000001", "AAAA01000001", "AAAB01000002", "AAAC01000003",
		"NC_000913", "NM_001301717", "U00096",
	}

	wgs, rest := SplitWGS(ids)

	if len(wgs) != 5 {
		t.Errorf("got %d WGS accessions, want 5: %v", len(wgs), wgs)
	}
	if len(rest) != 3 {
		t.Errorf("got %d ordinary accessions, want 3: %v", len(rest), rest)
	}
	if len(wgs)+len(rest) != len(ids) {
		t.Errorf("partition lost accessions: %d + %d != %d", len(wgs), len(rest), len(ids))
	}

	inWGS := make(map[string]bool)
	for _, id := range wgs {
		inWGS[id] = true
	}
	for _, id := range rest {
		if inWGS[id] {
			t.Errorf("accession %s in both subsets", id)
		}
	}
}

package parser

import (
	"strings"
	"testing"
)

func TestProteinFASTA_Parse(t *testing.T) {
	payload := `>NP_414542.1 thr operon leader peptide [Escherichia coli]
MKRISTTITTTITITTGNGAG
>ref|AAC73112.1| homoserine kinase
MVKVYAPASSANMSVGFDVL
GAAVTPVD
`

	p := NewProteinFASTA()
	if err := p.Parse(strings.NewReader(payload)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.Complete() {
		t.Error("FASTA parser should always be complete")
	}

	seqs := p.Sequences()
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences, want 2: %v", len(seqs), seqs)
	}
	if seqs["NP_414542.1"] != "MKRISTTITTTITITTGNGAG" {
		t.Errorf("NP_414542.1 = %q", seqs["NP_414542.1"])
	}
	// Multi-line sequences concatenate; seqid decoration is stripped.
	if seqs["AAC73112.1"] != "MVKVYAPASSANMSVGFDVLGAAVTPVD" {
		t.Errorf("AAC73112.1 = %q", seqs["AAC73112.1"])
	}
}

func TestProteinFASTA_AccumulatesAcrossPages(t *testing.T) {
	p := NewProteinFASTA()

	pages := []string{
		">WP_000001.1 first\nAAAA\n",
		">WP_000002.1 second\nCCCC\n",
	}
	for _, page := range pages {
		if err := p.Parse(strings.NewReader(page)); err != nil {
			t.Fatalf("Parse: %v", err)
		}
	}

	if len(p.Sequences()) != 2 {
		t.Errorf("got %d sequences, want 2", len(p.Sequences()))
	}
}

func TestProteinFASTA_EmptyPayload(t *testing.T) {
	p := NewProteinFASTA()
	if err := p.Parse(strings.NewReader("")); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Sequences()) != 0 {
		t.Errorf("got %d sequences for empty payload", len(p.Sequences()))
	}
}

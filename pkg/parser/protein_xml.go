package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ProteinInfo is one protein record extracted from a GenPept XML
// payload.
type ProteinInfo struct {
	Accession string
	Name      string
	Organism  string
	Length    int
	Sequence  string
}

// gbSeq mirrors the fields of interest in a GBSeq element
// (rettype "gp", retmode "xml").
type gbSeq struct {
	Locus            string `xml:"GBSeq_locus"`
	Length           int    `xml:"GBSeq_length"`
	Definition       string `xml:"GBSeq_definition"`
	Organism         string `xml:"GBSeq_organism"`
	AccessionVersion string `xml:"GBSeq_accession-version"`
	PrimaryAccession string `xml:"GBSeq_primary-accession"`
	Sequence         string `xml:"GBSeq_sequence"`
}

// ProteinXML parses GenPept XML payloads into a protein info set,
// deduplicated by accession across pages.
type ProteinXML struct {
	complete bool
	infos    []ProteinInfo
	seen     map[string]struct{}
}

// NewProteinXML creates a GenPept XML parser.
func NewProteinXML() *ProteinXML {
	return &ProteinXML{
		complete: true,
		seen:     make(map[string]struct{}),
	}
}

// Complete reports whether every payload so far decoded cleanly.
func (p *ProteinXML) Complete() bool {
	return p.complete
}

// ProteinInfoSet returns the accumulated protein records.
func (p *ProteinXML) ProteinInfoSet() []ProteinInfo {
	return p.infos
}

// Parse streams GBSeq elements out of one GBSet payload. A syntax error
// marks the parse incomplete; records decoded before the error are kept.
func (p *ProteinXML) Parse(r io.Reader) error {
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			p.complete = false
			return fmt.Errorf("decode GBSet: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "GBSeq" {
			continue
		}

		var seq gbSeq
		if err := decoder.DecodeElement(&seq, &start); err != nil {
			p.complete = false
			return fmt.Errorf("decode GBSeq: %w", err)
		}

		accession := seq.AccessionVersion
		if accession == "" {
			accession = seq.PrimaryAccession
		}
		if accession == "" {
			accession = seq.Locus
		}
		if _, dup := p.seen[accession]; dup {
			continue
		}
		p.seen[accession] = struct{}{}

		p.infos = append(p.infos, ProteinInfo{
			Accession: accession,
			Name:      seq.Definition,
			Organism:  seq.Organism,
			Length:    seq.Length,
			Sequence:  strings.ToUpper(seq.Sequence),
		})
	}
}

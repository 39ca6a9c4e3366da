package parser

import (
	"encoding/xml"
	"fmt"
	"io"
)

// SeqStatus is the current status of one sequence record as reported by
// the document summary view: "live", "replaced", "suppressed", or
// "withdrawn". ReplacedBy names the superseding accession when the
// record has been replaced.
type SeqStatus struct {
	Accession  string
	Status     string
	ReplacedBy string
}

// docSum mirrors one DocSum element of an eSummaryResult payload.
type docSum struct {
	ID    string       `xml:"Id"`
	Items []docSumItem `xml:"Item"`
}

type docSumItem struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:",chardata"`
}

// DocSummary parses eSummary XML payloads (rettype "docsum") into
// sequence status records.
type DocSummary struct {
	complete bool
	statuses []SeqStatus
}

// NewDocSummary creates a document summary parser.
func NewDocSummary() *DocSummary {
	return &DocSummary{complete: true}
}

// Complete reports whether every payload so far decoded cleanly.
func (p *DocSummary) Complete() bool {
	return p.complete
}

// SeqStatuses returns the accumulated status records.
func (p *DocSummary) SeqStatuses() []SeqStatus {
	return p.statuses
}

// Parse streams DocSum elements out of one eSummaryResult payload.
func (p *DocSummary) Parse(r io.Reader) error {
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			p.complete = false
			return fmt.Errorf("decode eSummaryResult: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "DocSum" {
			continue
		}

		var doc docSum
		if err := decoder.DecodeElement(&doc, &start); err != nil {
			p.complete = false
			return fmt.Errorf("decode DocSum: %w", err)
		}

		status := SeqStatus{}
		caption := ""
		for _, item := range doc.Items {
			switch item.Name {
			case "AccessionVersion":
				status.Accession = item.Value
			case "Caption":
				caption = item.Value
			case "Status":
				status.Status = item.Value
			case "ReplacedBy":
				status.ReplacedBy = item.Value
			}
		}
		if status.Accession == "" {
			status.Accession = caption
		}

		p.statuses = append(p.statuses, status)
	}
}

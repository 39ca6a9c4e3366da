package parser

import (
	"bufio"
	"io"
	"strings"
)

// ProteinFASTA parses FASTA text payloads (rettype "fasta") into a map
// of protein accession to amino acid sequence.
type ProteinFASTA struct {
	seqs map[string]string

	current string
	seq     strings.Builder
}

// NewProteinFASTA creates a FASTA sequence parser.
func NewProteinFASTA() *ProteinFASTA {
	return &ProteinFASTA{
		seqs: make(map[string]string),
	}
}

// Complete always reports true: FASTA payloads have no structure beyond
// headers and sequence lines, so any page either parses or is empty.
func (p *ProteinFASTA) Complete() bool {
	return true
}

// Sequences returns the accumulated accession to sequence map.
func (p *ProteinFASTA) Sequences() map[string]string {
	return p.seqs
}

// Parse consumes one FASTA payload. Records never straddle page
// boundaries (efetch pages split between records), so each call flushes
// its final record.
func (p *ProteinFASTA) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			p.flush()
			p.current = fastaHeaderAccession(line)
			continue
		}
		if p.current == "" {
			continue
		}
		p.seq.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	p.flush()
	return nil
}

func (p *ProteinFASTA) flush() {
	if p.current == "" {
		return
	}
	if seq := p.seq.String(); seq != "" {
		p.seqs[p.current] = seq
	}
	p.current = ""
	p.seq.Reset()
}

// fastaHeaderAccession extracts the accession from a FASTA defline,
// handling both ">ACC.V description" and the older ">ref|ACC.V|" seqid
// form.
func fastaHeaderAccession(line string) string {
	header := strings.TrimPrefix(line, ">")
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return stripSeqIDDecoration(fields[0])
}

package parser

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// CDSRegion is one interval of a coding sequence on its nucleotide
// record. Complement marks intervals annotated on the reverse strand
// (start greater than end in the feature table). Partial5/Partial3 carry
// the '<' and '>' partialness markers.
type CDSRegion struct {
	Start      int
	End        int
	Complement bool
	Partial5   bool
	Partial3   bool
}

// Length returns the number of bases the region spans.
func (r CDSRegion) Length() int {
	if r.Complement {
		return r.Start - r.End + 1
	}
	return r.End - r.Start + 1
}

// CDSGroup is the ordered interval set of one CDS feature, keyed to the
// nucleotide accession it was annotated on.
type CDSGroup struct {
	Accession string
	ProteinID string
	Regions   []CDSRegion
}

// Length returns the total coding length across all regions.
func (g CDSGroup) Length() int {
	total := 0
	for _, r := range g.Regions {
		total += r.Length()
	}
	return total
}

// LengthFilter is an inclusive coding-length range. A CDS passes a filter
// set when its total length falls inside any of the ranges; an empty
// filter set passes everything.
type LengthFilter struct {
	Min int
	Max int
}

func (f LengthFilter) matches(length int) bool {
	return length >= f.Min && length <= f.Max
}

// FeatureTableCDS parses Entrez feature-table text (rettype "ft") and
// accumulates, per nucleotide accession, the interval groups of every
// CDS feature together with the protein accessions they encode.
type FeatureTableCDS struct {
	filters  []LengthFilter
	complete bool

	groups     map[string][]CDSGroup
	proteinIDs map[string]struct{}
	order      []string

	logger zerolog.Logger
}

// NewFeatureTableCDS creates a feature-table CDS parser. filters may be
// nil to accept every CDS regardless of coding length.
func NewFeatureTableCDS(filters []LengthFilter) *FeatureTableCDS {
	return &FeatureTableCDS{
		filters:    filters,
		complete:   true,
		groups:     make(map[string][]CDSGroup),
		proteinIDs: make(map[string]struct{}),
		logger:     log.With().Str("component", "ft-cds-parser").Logger(),
	}
}

// Complete reports whether every payload so far was structurally sound.
func (p *FeatureTableCDS) Complete() bool {
	return p.complete
}

// CDSRegionGroups returns the accumulated CDS groups keyed by nucleotide
// accession.
func (p *FeatureTableCDS) CDSRegionGroups() map[string][]CDSGroup {
	return p.groups
}

// TargetProteinIDs returns the protein accessions of every kept CDS, in
// first-seen order.
func (p *FeatureTableCDS) TargetProteinIDs() []string {
	return p.order
}

// Parse consumes one feature-table payload. A structural problem (a
// malformed interval bound, or feature data before any record header)
// clears the completeness flag and stops consuming; it does not return
// an error because partial results stay valid.
func (p *FeatureTableCDS) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	accession := ""
	var current *CDSGroup

	flush := func() {
		if current == nil {
			return
		}
		p.keep(*current)
		current = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, ">Feature") {
			flush()
			accession = featureHeaderAccession(line)
			if accession == "" {
				p.fail("feature header without accession", line)
				return nil
			}
			continue
		}

		if accession == "" {
			p.fail("feature data before record header", line)
			return nil
		}

		fields := strings.Split(line, "\t")

		switch {
		case len(fields) >= 3 && fields[0] != "" && fields[2] != "":
			// New feature: start, stop, key.
			flush()
			if fields[2] != "CDS" {
				continue
			}
			region, ok := parseRegion(fields[0], fields[1])
			if !ok {
				p.fail("malformed CDS interval", line)
				return nil
			}
			current = &CDSGroup{Accession: accession, Regions: []CDSRegion{region}}

		case len(fields) == 2 && fields[0] != "":
			// Interval continuation of the current feature.
			if current == nil {
				continue
			}
			region, ok := parseRegion(fields[0], fields[1])
			if !ok {
				p.fail("malformed CDS interval", line)
				return nil
			}
			current.Regions = append(current.Regions, region)

		case len(fields) >= 4 && fields[0] == "" && fields[3] != "":
			// Qualifier line: three empty columns, name, optional value.
			if current == nil || fields[3] != "protein_id" || len(fields) < 5 {
				continue
			}
			current.ProteinID = stripSeqIDDecoration(fields[4])
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	flush()
	return nil
}

// keep applies the length filters and records a finished CDS group.
func (p *FeatureTableCDS) keep(group CDSGroup) {
	if len(p.filters) > 0 {
		length := group.Length()
		matched := false
		for _, f := range p.filters {
			if f.matches(length) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}
	}

	p.groups[group.Accession] = append(p.groups[group.Accession], group)
	if group.ProteinID != "" {
		if _, seen := p.proteinIDs[group.ProteinID]; !seen {
			p.proteinIDs[group.ProteinID] = struct{}{}
			p.order = append(p.order, group.ProteinID)
		}
	}
}

func (p *FeatureTableCDS) fail(reason, line string) {
	p.complete = false
	p.logger.Error().
		Str("reason", reason).
		Str("line", line).
		Msg("Feature table parse incomplete")
}

// featureHeaderAccession extracts the accession from a ">Feature" header
// such as ">Feature ref|NC_000913.3|" or ">Feature gb|U00096.3|".
func featureHeaderAccession(line string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(line, ">Feature"))
	if rest == "" {
		return ""
	}
	rest = strings.Fields(rest)[0]
	if strings.Contains(rest, "|") {
		parts := strings.Split(rest, "|")
		// seqid form db|accession|, take the accession part
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
		return ""
	}
	return rest
}

// parseRegion parses one start/stop column pair. Partialness markers are
// stripped; a start greater than the stop means the reverse strand.
func parseRegion(startField, endField string) (CDSRegion, bool) {
	region := CDSRegion{}

	start := strings.TrimSpace(startField)
	end := strings.TrimSpace(endField)

	if strings.HasPrefix(start, "<") || strings.HasPrefix(start, ">") {
		region.Partial5 = true
		start = start[1:]
	}
	if strings.HasPrefix(end, ">") || strings.HasPrefix(end, "<") {
		region.Partial3 = true
		end = end[1:]
	}

	s, err := strconv.Atoi(start)
	if err != nil {
		return region, false
	}
	e, err := strconv.Atoi(end)
	if err != nil {
		return region, false
	}

	region.Start = s
	region.End = e
	region.Complement = s > e
	return region, true
}

// stripSeqIDDecoration reduces a qualifier value such as
// "ref|NP_414542.1|" or "gb|AAC73112.1|" to the bare accession.
func stripSeqIDDecoration(value string) string {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "|") {
		return value
	}
	for _, part := range strings.Split(value, "|") {
		if part == "" {
			continue
		}
		// skip the database tag, return the first accession-like part
		switch part {
		case "ref", "gb", "emb", "dbj", "sp", "pir", "prf", "tpg", "tpe", "tpd", "lcl":
			continue
		}
		return part
	}
	return value
}

package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seqfetch/entrez-client/pkg/accession"
	"github.com/seqfetch/entrez-client/pkg/client"
	"github.com/seqfetch/entrez-client/pkg/parser"
)

// ErrParseIncomplete is returned when a record parser signals a
// structural problem. The orchestration stops; results accumulated so
// far remain readable through the parser's accessors.
var ErrParseIncomplete = errors.New("record parsing incomplete")

// Prometheus metrics for search orchestration.
var (
	searchBatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_search_batches_total",
		Help: "Total processed accession batches by fetch mode",
	}, []string{"mode"})

	searchAbortsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_search_aborts_total",
		Help: "Total aborted search runs by cause",
	}, []string{"cause"})
)

// Entrez database names used by the public search operations.
const (
	dbNucleotide = "nucleotide"
	dbProtein    = "protein"
)

// Config holds orchestrator tuning. The delays are politeness throttles
// against the E-utilities rate window, not correctness requirements.
type Config struct {
	// PostBatchSize is the number of accessions per epost batch.
	PostBatchSize int

	// PostBatchDelay is the pause after finishing a posted batch's pages.
	PostBatchDelay time.Duration

	// DirectBatchDelay is the pause after each direct fetch batch.
	DirectBatchDelay time.Duration

	// Classifier partitions accessions into direct-fetch-only and
	// bulk-eligible subsets. Defaults to accession.SplitWGS.
	Classifier accession.Classifier
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		PostBatchSize:    accession.DefaultBatchSize,
		PostBatchDelay:   3 * time.Second,
		DirectBatchDelay: 5 * time.Second,
		Classifier:       accession.SplitWGS,
	}
}

// Searcher runs batched Entrez searches against one client.
//
// A Searcher itself is stateless across runs, but each run owns its
// parser for the duration of the call; parsers must not be shared
// between concurrent runs.
type Searcher struct {
	client *client.Client
	config Config
	logger zerolog.Logger
}

// New creates a Searcher. Zero config fields fall back to defaults.
func New(c *client.Client, cfg Config) *Searcher {
	def := DefaultConfig()
	if cfg.PostBatchSize <= 0 {
		cfg.PostBatchSize = def.PostBatchSize
	}
	if cfg.Classifier == nil {
		cfg.Classifier = def.Classifier
	}

	return &Searcher{
		client: c,
		config: cfg,
		logger: log.With().Str("component", "entrez-search").Logger(),
	}
}

// CDSResult is the outcome of a CDS search: the interval groups of every
// kept CDS keyed by nucleotide accession, the protein accessions they
// encode, and whether parsing ran to completion.
type CDSResult struct {
	RegionGroups map[string][]parser.CDSGroup
	ProteinIDs   []string
	Complete     bool
}

// TargetCDSByNucleotide searches the coding regions annotated on the
// given nucleotide accessions. filters optionally restricts results by
// total coding length. Partial results are returned alongside the error
// when the run aborts.
func (s *Searcher) TargetCDSByNucleotide(ctx context.Context, ids []string, filters []parser.LengthFilter) (CDSResult, error) {
	sink := parser.NewFeatureTableCDS(filters)
	err := s.run(ctx, ids, sink, dbNucleotide, "ft", "text")

	return CDSResult{
		RegionGroups: sink.CDSRegionGroups(),
		ProteinIDs:   sink.TargetProteinIDs(),
		Complete:     sink.Complete(),
	}, err
}

// ProteinInfo searches the protein records for the given protein
// accessions.
func (s *Searcher) ProteinInfo(ctx context.Context, ids []string) ([]parser.ProteinInfo, error) {
	sink := parser.NewProteinXML()
	err := s.run(ctx, ids, sink, dbProtein, "gp", "xml")
	return sink.ProteinInfoSet(), err
}

// ProteinSequences searches the amino acid sequences for the given
// protein accessions.
func (s *Searcher) ProteinSequences(ctx context.Context, ids []string) (map[string]string, error) {
	sink := parser.NewProteinFASTA()
	err := s.run(ctx, ids, sink, dbProtein, "fasta", "text")
	return sink.Sequences(), err
}

// NucleotideStatus retrieves the current status of the given nucleotide
// accessions, including the replacing accession for superseded records.
func (s *Searcher) NucleotideStatus(ctx context.Context, ids []string) ([]parser.SeqStatus, error) {
	return s.seqStatus(ctx, ids, dbNucleotide)
}

// ProteinStatus retrieves the current status of the given protein
// accessions.
func (s *Searcher) ProteinStatus(ctx context.Context, ids []string) ([]parser.SeqStatus, error) {
	return s.seqStatus(ctx, ids, dbProtein)
}

func (s *Searcher) seqStatus(ctx context.Context, ids []string, db string) ([]parser.SeqStatus, error) {
	sink := parser.NewDocSummary()
	err := s.run(ctx, ids, sink, db, "docsum", "xml")
	return sink.SeqStatuses(), err
}

// run is the generic batched search. It classifies the identifier set,
// walks the bulk subset through post + paginated fetch and the direct
// subset through direct fetch, and feeds every payload to sink. Any
// failure stops the whole remaining orchestration.
func (s *Searcher) run(ctx context.Context, ids []string, sink parser.RecordParser, db, section, format string) error {
	direct, bulk := s.config.Classifier(ids)

	s.logger.Info().
		Str("db", db).
		Str("section", section).
		Int("bulk", len(bulk)).
		Int("direct", len(direct)).
		Msg("Starting batched search")

	bulkBatches, err := accession.SplitBatches(bulk, s.config.PostBatchSize)
	if err != nil {
		return err
	}

	for i, batch := range bulkBatches {
		session, err := s.client.Post(ctx, db, batch)
		if err != nil {
			searchAbortsTotal.WithLabelValues("post").Inc()
			return fmt.Errorf("post batch %d/%d: %w", i+1, len(bulkBatches), err)
		}
		for _, msg := range session.Errors {
			s.logger.Warn().Str("db", db).Str("detail", msg).Msg("epost reported identifier problem")
		}

		pages := (len(batch) + client.FetchPageSize - 1) / client.FetchPageSize
		for page := 0; page < pages; page++ {
			payload, err := s.client.FetchHistory(ctx, db, session, section, format, page*client.FetchPageSize)
			if err != nil {
				searchAbortsTotal.WithLabelValues("fetch").Inc()
				return fmt.Errorf("fetch page %d of batch %d/%d: %w", page+1, i+1, len(bulkBatches), err)
			}
			if err := feed(sink, payload); err != nil {
				searchAbortsTotal.WithLabelValues("parse").Inc()
				return err
			}
		}

		searchBatchesTotal.WithLabelValues("bulk").Inc()

		if err := s.pause(ctx, s.config.PostBatchDelay); err != nil {
			return err
		}
	}

	directBatches, err := accession.SplitBatches(direct, client.FetchPageSize)
	if err != nil {
		return err
	}

	for i, batch := range directBatches {
		payload, err := s.client.FetchDirect(ctx, db, batch, section, format)
		if err != nil {
			searchAbortsTotal.WithLabelValues("fetch").Inc()
			return fmt.Errorf("direct fetch batch %d/%d: %w", i+1, len(directBatches), err)
		}
		if err := feed(sink, payload); err != nil {
			searchAbortsTotal.WithLabelValues("parse").Inc()
			return err
		}

		searchBatchesTotal.WithLabelValues("direct").Inc()

		if err := s.pause(ctx, s.config.DirectBatchDelay); err != nil {
			return err
		}
	}

	return nil
}

// feed hands one payload to the sink and honors its completeness signal.
func feed(sink parser.RecordParser, payload []byte) error {
	if err := sink.Parse(bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if !sink.Complete() {
		return ErrParseIncomplete
	}
	return nil
}

// pause sleeps the politeness delay, honoring context cancellation.
func (s *Searcher) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

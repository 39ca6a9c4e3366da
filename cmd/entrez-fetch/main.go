// Command entrez-fetch runs one batched Entrez search from the command
// line: it reads an accession list, executes the selected operation, and
// writes the results as JSON or FASTA.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/seqfetch/entrez-client/pkg/client"
	"github.com/seqfetch/entrez-client/pkg/logging"
	"github.com/seqfetch/entrez-client/pkg/parser"
	"github.com/seqfetch/entrez-client/pkg/search"
)

func main() {
	var (
		mode     = flag.String("mode", "", "operation: cds, protein-info, protein-seq, nt-status, protein-status")
		email    = flag.String("email", getEnv("ENTREZ_EMAIL", ""), "contact email address sent to NCBI")
		tool     = flag.String("tool", getEnv("ENTREZ_TOOL", "entrez-fetch"), "tool name sent to NCBI")
		in       = flag.String("in", "", "accession list file, one accession per line (- for stdin)")
		out      = flag.String("out", "-", "output file (- for stdout)")
		redisURL = flag.String("redis", getEnv("REDIS_URL", ""), "Redis address enabling the direct-fetch payload cache")
		logLevel = flag.String("log-level", getEnv("LOG_LEVEL", "info"), "log level: debug, info, warn, error")
		pretty   = flag.Bool("pretty", false, "human-readable log output")
		filters  = flag.String("cds-length", "", "CDS length filters for -mode cds, e.g. 30-100,200-500")
	)
	flag.Parse()

	logging.Setup(logging.Config{Level: logging.LogLevel(*logLevel), Pretty: *pretty})

	if *mode == "" {
		log.Fatal("-mode is required")
	}
	if *in == "" {
		log.Fatal("-in is required")
	}

	ids, err := readAccessions(*in)
	if err != nil {
		log.Fatalf("Failed to read accession list: %v", err)
	}
	if len(ids) == 0 {
		log.Fatal("Accession list is empty")
	}

	cfg := client.DefaultConfig(*tool, *email)
	if *redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: *redisURL})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		cfg.Redis = redisClient
		defer redisClient.Close()
	}

	entrezClient, err := client.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create Entrez client: %v", err)
	}
	searcher := search.New(entrezClient, search.DefaultConfig())

	output := os.Stdout
	if *out != "-" {
		output, err = os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer output.Close()
	}

	if err := run(context.Background(), searcher, *mode, *filters, ids, output); err != nil {
		// Partial results are already written; the exit code flags the
		// interrupted run.
		log.Printf("Search aborted: %v", err)
		os.Exit(1)
	}
}

// run executes one operation and writes whatever results the run
// produced, complete or not.
func run(ctx context.Context, s *search.Searcher, mode, filterSpec string, ids []string, out io.Writer) error {
	switch mode {
	case "cds":
		lengthFilters, err := parseLengthFilters(filterSpec)
		if err != nil {
			return err
		}
		result, err := s.TargetCDSByNucleotide(ctx, ids, lengthFilters)
		if werr := writeJSON(out, result); werr != nil {
			return werr
		}
		return err

	case "protein-info":
		infos, err := s.ProteinInfo(ctx, ids)
		if werr := writeJSON(out, infos); werr != nil {
			return werr
		}
		return err

	case "protein-seq":
		seqs, err := s.ProteinSequences(ctx, ids)
		if werr := writeFASTA(out, seqs); werr != nil {
			return werr
		}
		return err

	case "nt-status":
		statuses, err := s.NucleotideStatus(ctx, ids)
		if werr := writeJSON(out, statuses); werr != nil {
			return werr
		}
		return err

	case "protein-status":
		statuses, err := s.ProteinStatus(ctx, ids)
		if werr := writeJSON(out, statuses); werr != nil {
			return werr
		}
		return err

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// readAccessions reads one accession per line, skipping blank lines and
// # comments.
func readAccessions(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, scanner.Err()
}

// parseLengthFilters parses "min-max,min-max" filter specs.
func parseLengthFilters(spec string) ([]parser.LengthFilter, error) {
	if spec == "" {
		return nil, nil
	}

	var filters []parser.LengthFilter
	for _, part := range strings.Split(spec, ",") {
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid length filter %q, want min-max", part)
		}
		min, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid length filter %q: %v", part, err)
		}
		max, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid length filter %q: %v", part, err)
		}
		if min > max {
			return nil, fmt.Errorf("invalid length filter %q: min exceeds max", part)
		}
		filters = append(filters, parser.LengthFilter{Min: min, Max: max})
	}
	return filters, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeFASTA writes sequences in deterministic accession order, wrapped
// at 70 columns.
func writeFASTA(w io.Writer, seqs map[string]string) error {
	accessions := make([]string, 0, len(seqs))
	for acc := range seqs {
		accessions = append(accessions, acc)
	}
	sort.Strings(accessions)

	for _, acc := range accessions {
		if _, err := fmt.Fprintf(w, ">%s\n", acc); err != nil {
			return err
		}
		seq := seqs[acc]
		for len(seq) > 0 {
			n := 70
			if len(seq) < n {
				n = len(seq)
			}
			if _, err := fmt.Fprintln(w, seq[:n]); err != nil {
				return err
			}
			seq = seq[n:]
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

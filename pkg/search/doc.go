// Package search implements the batched Entrez search orchestrator.
//
// An identifier set is first partitioned into bulk-eligible accessions
// and WGS accessions. Bulk accessions go through the two-phase protocol:
// each batch is posted (epost), then paged out of the resulting session
// (efetch with query_key/WebEnv). WGS accessions cannot use the session
// protocol and are fetched directly per batch. Every payload is fed to a
// record parser that accumulates typed results.
//
// Orchestration is fully sequential and fail-fast: the first failed
// post, failed fetch, parser error, or incomplete-parse signal stops the
// entire remaining run. Results accumulated up to that point stay
// readable; the returned error tells the caller they are partial.
package search

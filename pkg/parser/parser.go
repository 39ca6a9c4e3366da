// Package parser provides the record parsers fed by the search
// orchestrator. Each parser consumes raw efetch payloads page by page,
// accumulates typed results, and reports whether parsing is still
// structurally sound.
package parser

import (
	"io"
)

// RecordParser is the sink the orchestrator feeds fetched payloads to.
//
// Parse consumes one page or batch of raw response data and accumulates
// into internal state; it is called repeatedly within one orchestration.
// Complete reports false once the parser hits an unrecoverable structural
// problem, at which point the entire remaining orchestration must stop.
// Accumulated results remain readable after an incomplete parse.
type RecordParser interface {
	Parse(r io.Reader) error
	Complete() bool
}

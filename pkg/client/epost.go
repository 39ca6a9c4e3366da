package client

import (
	"encoding/xml"
	"fmt"
)

// ePostResult mirrors the epost response document:
//
//	<ePostResult>
//	  <QueryKey>1</QueryKey>
//	  <WebEnv>MCID_...</WebEnv>
//	  <ERROR>...</ERROR>
//	</ePostResult>
type ePostResult struct {
	XMLName  xml.Name `xml:"ePostResult"`
	QueryKey string   `xml:"QueryKey"`
	WebEnv   string   `xml:"WebEnv"`
	Errors   []string `xml:"ERROR"`
}

// parseEPostResult decodes an epost response into a Session. ERROR
// elements are carried through on the session; they flag individual
// identifiers the service could not post and do not fail the call. A
// response without a query key and web environment is a protocol error.
func parseEPostResult(payload []byte) (*Session, error) {
	var result ePostResult
	if err := xml.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("decode ePostResult: %w", err)
	}

	if result.QueryKey == "" || result.WebEnv == "" {
		return nil, fmt.Errorf("ePostResult missing query key or web environment")
	}

	return &Session{
		QueryKey: result.QueryKey,
		WebEnv:   result.WebEnv,
		Errors:   result.Errors,
	}, nil
}

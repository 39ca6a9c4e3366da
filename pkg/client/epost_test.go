package client

import (
	"testing"
)

func TestParseEPostResult(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<ePostResult>
  <QueryKey>1</QueryKey>
  <WebEnv>MCID_64a1b2</WebEnv>
</ePostResult>`)

	session, err := parseEPostResult(body)
	if err != nil {
		t.Fatalf("parseEPostResult: %v", err)
	}
	if session.QueryKey != "1" {
		t.Errorf("QueryKey = %q, want 1", session.QueryKey)
	}
	if session.WebEnv != "MCID_64a1b2" {
		t.Errorf("WebEnv = %q, want MCID_64a1b2", session.WebEnv)
	}
	if len(session.Errors) != 0 {
		t.Errorf("Errors = %v, want none", session.Errors)
	}
}

func TestParseEPostResult_ErrorsArePassThrough(t *testing.T) {
	// ERROR elements flag individual identifiers; they do not fail the
	// call as long as a session was issued.
	body := []byte(`<ePostResult>
  <InvalidIdList><Id>BADACC</Id></InvalidIdList>
  <ERROR>ID list is empty for some members</ERROR>
  <QueryKey>2</QueryKey>
  <WebEnv>MCID_77</WebEnv>
</ePostResult>`)

	session, err := parseEPostResult(body)
	if err != nil {
		t.Fatalf("parseEPostResult: %v", err)
	}
	if len(session.Errors) != 1 {
		t.Fatalf("Errors = %v, want 1 entry", session.Errors)
	}
}

func TestParseEPostResult_MissingSession(t *testing.T) {
	body := []byte(`<ePostResult><ERROR>empty id list</ERROR></ePostResult>`)

	if _, err := parseEPostResult(body); err == nil {
		t.Error("expected error for response without query key and web environment")
	}
}

func TestParseEPostResult_Malformed(t *testing.T) {
	if _, err := parseEPostResult([]byte("<unclosed")); err == nil {
		t.Error("expected error for malformed XML")
	}
}

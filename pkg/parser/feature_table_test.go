package parser

import (
	"strings"
	"testing"
)

const sampleFeatureTable = ">Feature ref|NC_000913.3|\n" +
	"190\t255\tgene\n" +
	"\t\t\tgene\tthrL\n" +
	"190\t255\tCDS\n" +
	"\t\t\tproduct\tthr operon leader peptide\n" +
	"\t\t\tprotein_id\tref|NP_414542.1|\n" +
	"337\t2799\tCDS\n" +
	"\t\t\tproduct\taspartokinase I\n" +
	"\t\t\tprotein_id\tref|NP_414543.1|\n" +
	">Feature gb|U00096.3|\n" +
	"2801\t3733\tCDS\n" +
	"3734\t3800\n" +
	"\t\t\tproduct\thomoserine kinase\n" +
	"\t\t\tprotein_id\tgb|AAC73112.1|\n" +
	"5683\t5020\tCDS\n" +
	"\t\t\tprotein_id\tgb|AAC73113.1|\n"

func TestFeatureTableCDS_Parse(t *testing.T) {
	p := NewFeatureTableCDS(nil)

	if err := p.Parse(strings.NewReader(sampleFeatureTable)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.Complete() {
		t.Fatal("parse should be complete")
	}

	groups := p.CDSRegionGroups()
	if len(groups["NC_000913.3"]) != 2 {
		t.Errorf("NC_000913.3 has %d CDS groups, want 2", len(groups["NC_000913.3"]))
	}
	if len(groups["U00096.3"]) != 2 {
		t.Errorf("U00096.3 has %d CDS groups, want 2", len(groups["U00096.3"]))
	}

	first := groups["NC_000913.3"][0]
	if first.ProteinID != "NP_414542.1" {
		t.Errorf("first CDS protein = %q, want NP_414542.1", first.ProteinID)
	}
	if first.Length() != 66 {
		t.Errorf("first CDS length = %d, want 66", first.Length())
	}

	// Multi-interval CDS: two regions joined.
	joined := groups["U00096.3"][0]
	if len(joined.Regions) != 2 {
		t.Fatalf("joined CDS has %d regions, want 2", len(joined.Regions))
	}
	if joined.Length() != (3733-2801+1)+(3800-3734+1) {
		t.Errorf("joined CDS length = %d", joined.Length())
	}

	// Reverse strand: start greater than end.
	rev := groups["U00096.3"][1]
	if !rev.Regions[0].Complement {
		t.Error("CDS with start > end should be marked complement")
	}
	if rev.Regions[0].Length() != 5683-5020+1 {
		t.Errorf("complement CDS length = %d", rev.Regions[0].Length())
	}

	wantProteins := []string{"NP_414542.1", "NP_414543.1", "AAC73112.1", "AAC73113.1"}
	got := p.TargetProteinIDs()
	if len(got) != len(wantProteins) {
		t.Fatalf("protein ids = %v, want %v", got, wantProteins)
	}
	for i, want := range wantProteins {
		if got[i] != want {
			t.Errorf("protein id %d = %q, want %q", i, got[i], want)
		}
	}
}

func TestFeatureTableCDS_LengthFilters(t *testing.T) {
	// Keep only short leader peptides.
	p := NewFeatureTableCDS([]LengthFilter{{Min: 30, Max: 100}})

	if err := p.Parse(strings.NewReader(sampleFeatureTable)); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	groups := p.CDSRegionGroups()
	if len(groups["NC_000913.3"]) != 1 {
		t.Fatalf("NC_000913.3 has %d CDS groups after filtering, want 1", len(groups["NC_000913.3"]))
	}
	if groups["NC_000913.3"][0].Length() != 66 {
		t.Errorf("kept CDS length = %d, want 66", groups["NC_000913.3"][0].Length())
	}
	if _, present := groups["U00096.3"]; present {
		t.Error("U00096.3 groups should be filtered out entirely")
	}
}

func TestFeatureTableCDS_PartialMarkers(t *testing.T) {
	payload := ">Feature ref|NC_999999.1|\n" +
		"<1\t>300\tCDS\n" +
		"\t\t\tprotein_id\tref|YP_000001.1|\n"

	p := NewFeatureTableCDS(nil)
	if err := p.Parse(strings.NewReader(payload)); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	groups := p.CDSRegionGroups()["NC_999999.1"]
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	region := groups[0].Regions[0]
	if !region.Partial5 || !region.Partial3 {
		t.Errorf("partial markers not captured: %+v", region)
	}
	if region.Start != 1 || region.End != 300 {
		t.Errorf("bounds = %d..%d, want 1..300", region.Start, region.End)
	}
}

func TestFeatureTableCDS_MalformedIntervalIncomplete(t *testing.T) {
	payload := ">Feature ref|NC_000913.3|\n" +
		"190\t255\tCDS\n" +
		"\t\t\tprotein_id\tref|NP_414542.1|\n" +
		"garbage\tbounds\tCDS\n"

	p := NewFeatureTableCDS(nil)
	if err := p.Parse(strings.NewReader(payload)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Complete() {
		t.Error("malformed interval should clear the completeness flag")
	}

	// Accumulated partial results stay readable.
	if len(p.CDSRegionGroups()["NC_000913.3"]) != 1 {
		t.Errorf("partial results lost: %v", p.CDSRegionGroups())
	}
}

func TestFeatureTableCDS_DataBeforeHeaderIncomplete(t *testing.T) {
	payload := "190\t255\tCDS\n"

	p := NewFeatureTableCDS(nil)
	if err := p.Parse(strings.NewReader(payload)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Complete() {
		t.Error("feature data before any record header should clear the completeness flag")
	}
}

func TestFeatureTableCDS_AccumulatesAcrossPages(t *testing.T) {
	page1 := ">Feature ref|NC_000001.1|\n" +
		"10\t60\tCDS\n" +
		"\t\t\tprotein_id\tref|NP_000001.1|\n"
	page2 := ">Feature ref|NC_000002.1|\n" +
		"20\t70\tCDS\n" +
		"\t\t\tprotein_id\tref|NP_000002.1|\n"

	p := NewFeatureTableCDS(nil)
	for _, page := range []string{page1, page2} {
		if err := p.Parse(strings.NewReader(page)); err != nil {
			t.Fatalf("Parse: %v", err)
		}
	}

	if len(p.CDSRegionGroups()) != 2 {
		t.Errorf("got %d accessions, want 2", len(p.CDSRegionGroups()))
	}
	if len(p.TargetProteinIDs()) != 2 {
		t.Errorf("got %d protein ids, want 2", len(p.TargetProteinIDs()))
	}
}

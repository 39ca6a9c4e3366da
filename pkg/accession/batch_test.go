package accession

import (
	"fmt"
	"testing"
)

func TestSplitBatches_Sizes(t *testing.T) {
	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("NM_%06d", i)
	}

	batches, err := SplitBatches(ids, 100)
	if err != nil {
		t.Fatalf("SplitBatches: %v", err)
	}

	wantSizes := []int{100, 100, 50}
	if len(batches) != len(wantSizes) {
		t.Fatalf("got %d batches, want %d", len(batches), len(wantSizes))
	}
	for i, want := range wantSizes {
		if len(batches[i]) != want {
			t.Errorf("batch %d has %d elements, want %d", i, len(batches[i]), want)
		}
	}
}

func TestSplitBatches_Partition(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "B", "A"}

	batches, err := SplitBatches(ids, 2)
	if err != nil {
		t.Fatalf("SplitBatches: %v", err)
	}

	seen := make(map[string]int)
	total := 0
	for _, batch := range batches {
		if len(batch) == 0 {
			t.Error("empty batch in output")
		}
		if len(batch) > 2 {
			t.Errorf("batch exceeds size limit: %v", batch)
		}
		for _, id := range batch {
			seen[id]++
			total++
		}
	}

	// Duplicates collapse: 5 unique accessions, each exactly once.
	if total != 5 {
		t.Errorf("got %d elements across batches, want 5", total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("accession %s appears %d times, want 1", id, n)
		}
	}
}

func TestSplitBatches_Empty(t *testing.T) {
	batches, err := SplitBatches(nil, 100)
	if err != nil {
		t.Fatalf("SplitBatches: %v", err)
	}
	if len(batches) != 0 {
		t.Errorf("got %d batches for empty input, want 0", len(batches))
	}
}

func TestSplitBatches_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := SplitBatches([]string{"A"}, size); err == nil {
			t.Errorf("SplitBatches(size=%d) = nil error, want error", size)
		}
	}
}

func TestSplitBatches_SingleShortBatch(t *testing.T) {
	batches, err := SplitBatches([]string{"A", "B", "C"}, 100)
	if err != nil {
		t.Fatalf("SplitBatches: %v", err)
	}
	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Errorf("got %v, want one batch of 3", batches)
	}
}

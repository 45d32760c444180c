package counter

import (
	"fmt"
	"reflect"
	"testing"

	"FwSpectra/internal/model"
)

func sampleRecords() []model.LogRecord {
	var recs []model.LogRecord
	for i := 0; i < 90; i++ {
		recs = append(recs, model.LogRecord{SrcIP: "192.168.1.10", DstIP: "10.0.0.5", SrcPort: "40000", DstPort: "443"})
	}
	for i := 0; i < 10; i++ {
		recs = append(recs, model.LogRecord{SrcIP: "192.168.1.11", DstIP: "10.0.0.9", SrcPort: "40001", DstPort: "443"})
	}
	return recs
}

func TestMergeCommutativity(t *testing.T) {
	recs := sampleRecords()

	// 1. Count everything sequentially as the reference.
	reference := New()
	reference.CountBatch(recs)

	// 2. Partition into batches and merge partials in several orders.
	batches := [][]model.LogRecord{recs[:7], recs[7:40], recs[40:40], recs[40:]}
	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}}

	for _, order := range orders {
		total := New()
		for _, i := range order {
			partial := New()
			partial.CountBatch(batches[i])
			total.Merge(partial)
		}
		if !reflect.DeepEqual(total.Snapshot().Tables, reference.Snapshot().Tables) {
			t.Errorf("merge order %v produced different tables", order)
		}
	}
}

func TestCountRecordSkipsEmptyFields(t *testing.T) {
	c := New()
	c.CountRecord(model.LogRecord{DstPort: "22"})
	c.CountRecord(model.LogRecord{SrcIP: "10.1.1.1"})

	if got := c.TopN(model.CategoryDstPort, 10); len(got) != 1 || got[0].Key != "22" {
		t.Errorf("unexpected dst port table: %v", got)
	}
	if got := c.TopN(model.CategoryDstIP, 10); len(got) != 0 {
		t.Errorf("expected empty dst IP table, got %v", got)
	}
}

func TestTopNIdempotent(t *testing.T) {
	c := New()
	c.CountBatch(sampleRecords())

	first := c.TopN(model.CategorySrcIP, 5)
	for i := 0; i < 3; i++ {
		if got := c.TopN(model.CategorySrcIP, 5); !reflect.DeepEqual(got, first) {
			t.Fatalf("TopN changed between calls: %v vs %v", got, first)
		}
	}
}

func TestTopNTieBreakDeterministic(t *testing.T) {
	// Equal counts must rank in lexical key order.
	tbl := Table{"10.0.0.9": 5, "10.0.0.1": 5, "10.0.0.5": 5}
	got := tbl.TopN(3)
	want := []model.TopEntry{
		{Key: "10.0.0.1", Count: 5},
		{Key: "10.0.0.5", Count: 5},
		{Key: "10.0.0.9", Count: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopN = %v, want %v", got, want)
	}
}

func TestTableTotalAndMerge(t *testing.T) {
	a := Table{"80": 3, "22": 1}
	b := Table{"22": 2, "443": 4}
	a.Merge(b)

	want := Table{"80": 3, "22": 3, "443": 4}
	if !reflect.DeepEqual(a, want) {
		t.Errorf("merged table = %v, want %v", a, want)
	}
	if a.Total() != 10 {
		t.Errorf("Total = %d, want 10", a.Total())
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	c := New()
	c.CountRecord(model.LogRecord{DstIP: "10.0.0.5"})

	snap := c.Snapshot()
	c.CountRecord(model.LogRecord{DstIP: "10.0.0.5"})

	if snap.Tables[model.CategoryDstIP]["10.0.0.5"] != 1 {
		t.Errorf("snapshot mutated by later ingestion")
	}
}

func TestReset(t *testing.T) {
	c := New()
	c.CountBatch(sampleRecords())
	c.AddBadRows(3)

	c.Reset()

	for _, cat := range model.Categories {
		if got := c.TopN(cat, 10); len(got) != 0 {
			t.Errorf("table %s not empty after reset: %v", cat, got)
		}
	}
	if c.BadRows() != 0 {
		t.Errorf("bad rows not cleared: %d", c.BadRows())
	}
}

func TestConcurrentPartialMerge(t *testing.T) {
	// Many goroutines merging partials must agree with sequential counting.
	recs := sampleRecords()
	reference := New()
	reference.CountBatch(recs)

	total := New()
	done := make(chan struct{})
	const workers = 8
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			partial := New()
			for i := w; i < len(recs); i += workers {
				partial.CountRecord(recs[i])
			}
			total.Merge(partial)
		}(w)
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	if !reflect.DeepEqual(total.Snapshot().Tables, reference.Snapshot().Tables) {
		t.Errorf("concurrent merge diverged from sequential counting")
	}
}

func BenchmarkCountBatch(b *testing.B) {
	recs := make([]model.LogRecord, 1000)
	for i := range recs {
		recs[i] = model.LogRecord{
			SrcIP:   fmt.Sprintf("192.168.%d.%d", i%4, i%251),
			DstIP:   fmt.Sprintf("10.0.%d.%d", i%8, i%251),
			SrcPort: fmt.Sprintf("%d", 1024+i),
			DstPort: "443",
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := New()
		c.CountBatch(recs)
	}
}

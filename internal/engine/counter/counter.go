package counter

import (
	"sync"

	"FwSpectra/internal/model"
)

// Counter owns the four running frequency tables plus the malformed-row
// counter. A single Counter is the exclusive accumulation point for one
// analysis: workers count into private partial Counters and fold them in
// through Merge, so the only synchronization needed is around that merge.
type Counter struct {
	mu      sync.RWMutex
	tables  map[model.Category]Table
	badRows uint64
}

// Snapshot is an independent copy of a Counter's state, safe to read while
// further ingestion mutates the original.
type Snapshot struct {
	Tables  map[model.Category]Table
	BadRows uint64
}

// New creates an empty Counter.
func New() *Counter {
	return &Counter{tables: emptyTables()}
}

func emptyTables() map[model.Category]Table {
	m := make(map[model.Category]Table, len(model.Categories))
	for _, cat := range model.Categories {
		m[cat] = make(Table)
	}
	return m
}

// CountRecord folds one extracted record into the tables. Empty fields
// contribute nothing.
func (c *Counter) CountRecord(rec model.LogRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec.SrcIP != "" {
		c.tables[model.CategorySrcIP].Add(rec.SrcIP)
	}
	if rec.DstIP != "" {
		c.tables[model.CategoryDstIP].Add(rec.DstIP)
	}
	if rec.SrcPort != "" {
		c.tables[model.CategorySrcPort].Add(rec.SrcPort)
	}
	if rec.DstPort != "" {
		c.tables[model.CategoryDstPort].Add(rec.DstPort)
	}
}

// CountBatch folds a whole batch of records into the tables under one lock
// acquisition.
func (c *Counter) CountBatch(recs []model.LogRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range recs {
		if rec.SrcIP != "" {
			c.tables[model.CategorySrcIP].Add(rec.SrcIP)
		}
		if rec.DstIP != "" {
			c.tables[model.CategoryDstIP].Add(rec.DstIP)
		}
		if rec.SrcPort != "" {
			c.tables[model.CategorySrcPort].Add(rec.SrcPort)
		}
		if rec.DstPort != "" {
			c.tables[model.CategoryDstPort].Add(rec.DstPort)
		}
	}
}

// Merge folds a partial Counter into c. Merging is commutative, so partials
// built on independent workers can arrive in any order.
func (c *Counter) Merge(partial *Counter) {
	partial.mu.RLock()
	defer partial.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for cat, t := range partial.tables {
		c.tables[cat].Merge(t)
	}
	c.badRows += partial.badRows
}

// AddBadRows records n malformed rows skipped during extraction.
func (c *Counter) AddBadRows(n uint64) {
	c.mu.Lock()
	c.badRows += n
	c.mu.Unlock()
}

// BadRows returns the number of malformed rows seen so far.
func (c *Counter) BadRows() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.badRows
}

// TopN returns the n highest-count entries for one category, highest first.
// Without intervening ingestion, repeated calls return identical results.
func (c *Counter) TopN(cat model.Category, n int) []model.TopEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[cat]
	if !ok {
		return nil
	}
	return t.TopN(n)
}

// Snapshot returns a deep copy of the four tables and the bad-row count.
// Suggestion runs work on snapshots so they never block or race ingestion.
func (c *Counter) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := &Snapshot{
		Tables:  make(map[model.Category]Table, len(c.tables)),
		BadRows: c.badRows,
	}
	for cat, t := range c.tables {
		snap.Tables[cat] = t.Clone()
	}
	return snap
}

// Reset clears all tables and the bad-row counter, preparing for a new
// measurement period.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = emptyTables()
	c.badRows = 0
}

package counter

import (
	"sort"

	"FwSpectra/internal/model"
)

// Table is an associative frequency accumulator mapping a string key (an IP
// address or a port, as text) to its occurrence count. Merging two tables
// sums counts per key, so merge order and grouping never affect the result.
type Table map[string]uint64

// Add increments the count for key by one.
func (t Table) Add(key string) {
	t[key]++
}

// AddN increments the count for key by n.
func (t Table) AddN(key string, n uint64) {
	t[key] += n
}

// Merge folds other into t. The operation is commutative and associative.
func (t Table) Merge(other Table) {
	for k, c := range other {
		t[k] += c
	}
}

// Total returns the sum of all counts in the table.
func (t Table) Total() uint64 {
	var total uint64
	for _, c := range t {
		total += c
	}
	return total
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// SortedEntries returns all entries ordered by descending count. Ties are
// broken by ascending lexical key order so repeated calls over the same
// table always produce the same ranking.
func (t Table) SortedEntries() []model.TopEntry {
	entries := make([]model.TopEntry, 0, len(t))
	for k, c := range t {
		entries = append(entries, model.TopEntry{Key: k, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// TopN returns the n highest-count entries, highest first.
func (t Table) TopN(n int) []model.TopEntry {
	entries := t.SortedEntries()
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

package model

// LogRecord holds the four fields extracted from a single firewall log row.
// Values are kept as the raw strings found in the log; an empty string marks
// a field that was absent from the row.
type LogRecord struct {
	SrcIP   string `json:"srcip"`
	DstIP   string `json:"dstip"`
	SrcPort string `json:"srcport"`
	DstPort string `json:"dstport"`
}

// Empty reports whether no field was extracted at all.
func (r LogRecord) Empty() bool {
	return r.SrcIP == "" && r.DstIP == "" && r.SrcPort == "" && r.DstPort == ""
}

// TopEntry is one ranked (key, count) pair from a frequency table.
type TopEntry struct {
	Key   string `json:"key"`
	Count uint64 `json:"count"`
}

// Category identifies one of the four frequency tables kept by the counter.
type Category string

const (
	CategorySrcIP   Category = "srcip"
	CategoryDstIP   Category = "dstip"
	CategorySrcPort Category = "srcport"
	CategoryDstPort Category = "dstport"
)

// Categories lists the four categories in display order.
var Categories = []Category{CategorySrcIP, CategoryDstIP, CategorySrcPort, CategoryDstPort}

// Valid reports whether c names one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySrcIP, CategoryDstIP, CategorySrcPort, CategoryDstPort:
		return true
	}
	return false
}

// DisplayName returns the human-readable table heading for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategorySrcIP:
		return "Source IP"
	case CategoryDstIP:
		return "Destination IP"
	case CategorySrcPort:
		return "Source Port"
	case CategoryDstPort:
		return "Destination Port"
	}
	return string(c)
}

// Report bundles everything a report renderer or API handler needs from one
// analysis pass: the four top-N tables, the malformed-row count, and the
// ordered rule suggestions.
type Report struct {
	Tables      map[Category][]TopEntry `json:"tables"`
	BadRows     uint64                  `json:"bad_rows"`
	Suggestions []string                `json:"suggestions"`
}

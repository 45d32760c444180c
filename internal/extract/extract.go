package extract

import (
	"strings"

	"FwSpectra/internal/model"
)

// The four canonical field names recognized in firewall logs.
const (
	FieldSrcIP   = "srcip"
	FieldDstIP   = "dstip"
	FieldSrcPort = "srcport"
	FieldDstPort = "dstport"
)

// DirectExtractor reads the four canonical fields from fixed column
// positions, resolved once from the source's header row.
type DirectExtractor struct {
	srcIP   int
	dstIP   int
	srcPort int
	dstPort int
}

// NewDirectExtractor resolves the canonical column positions from a header
// row. ok is false unless all four canonical columns are present, in which
// case the caller should fall back to token extraction.
func NewDirectExtractor(header []string) (*DirectExtractor, bool) {
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	e := &DirectExtractor{}
	for _, f := range []struct {
		name string
		pos  *int
	}{
		{FieldSrcIP, &e.srcIP},
		{FieldDstIP, &e.dstIP},
		{FieldSrcPort, &e.srcPort},
		{FieldDstPort, &e.dstPort},
	} {
		i, found := idx[f.name]
		if !found {
			return nil, false
		}
		*f.pos = i
	}
	return e, true
}

// Extract reads the four columns verbatim. Rows shorter than the resolved
// positions simply yield empty fields for the missing columns.
func (e *DirectExtractor) Extract(row []string) (model.LogRecord, bool) {
	rec := model.LogRecord{
		SrcIP:   cell(row, e.srcIP),
		DstIP:   cell(row, e.dstIP),
		SrcPort: cell(row, e.srcPort),
		DstPort: cell(row, e.dstPort),
	}
	return rec, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// TokenExtractor parses each cell of a row as a key=value token (value
// optionally double-quoted) and extracts the four canonical keys if present.
type TokenExtractor struct{}

// Extract builds a key/value map from the row's tokens. ok is false when no
// token at all parsed as key=value; such a row is malformed.
func (TokenExtractor) Extract(row []string) (model.LogRecord, bool) {
	fields := make(map[string]string, len(row))
	for _, tok := range row {
		k, v, found := strings.Cut(tok, "=")
		if !found {
			continue
		}
		fields[strings.TrimSpace(k)] = strings.Trim(v, `" `)
	}
	if len(fields) == 0 {
		return model.LogRecord{}, false
	}
	return model.LogRecord{
		SrcIP:   fields[FieldSrcIP],
		DstIP:   fields[FieldDstIP],
		SrcPort: fields[FieldSrcPort],
		DstPort: fields[FieldDstPort],
	}, true
}

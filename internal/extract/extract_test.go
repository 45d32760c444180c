package extract

import "testing"

func TestDirectExtractor(t *testing.T) {
	header := []string{"time", "srcip", "dstip", "srcport", "dstport", "action"}
	e, ok := NewDirectExtractor(header)
	if !ok {
		t.Fatalf("expected direct extractor for header %v", header)
	}

	rec, ok := e.Extract([]string{"12:00", "10.0.0.1", "10.0.0.2", "1234", "443", "allow"})
	if !ok {
		t.Fatalf("extraction failed for a well-formed row")
	}
	if rec.SrcIP != "10.0.0.1" || rec.DstIP != "10.0.0.2" || rec.SrcPort != "1234" || rec.DstPort != "443" {
		t.Errorf("unexpected record: %+v", rec)
	}

	// Short rows yield empty fields, not failures.
	rec, ok = e.Extract([]string{"12:00", "10.0.0.1"})
	if !ok {
		t.Fatalf("short row should still extract")
	}
	if rec.SrcIP != "10.0.0.1" || rec.DstIP != "" {
		t.Errorf("unexpected record for short row: %+v", rec)
	}
}

func TestDirectExtractorMissingColumns(t *testing.T) {
	if _, ok := NewDirectExtractor([]string{"srcip", "dstip", "srcport"}); ok {
		t.Errorf("expected no direct extractor when dstport is missing")
	}
	if _, ok := NewDirectExtractor(nil); ok {
		t.Errorf("expected no direct extractor for empty header")
	}
}

func TestTokenExtractor(t *testing.T) {
	var e TokenExtractor

	rec, ok := e.Extract([]string{`srcip=192.168.1.10`, `dstip="8.8.8.8"`, `srcport=5353`, `dstport=53`, `proto=udp`})
	if !ok {
		t.Fatalf("extraction failed for key=value row")
	}
	if rec.SrcIP != "192.168.1.10" || rec.DstIP != "8.8.8.8" || rec.SrcPort != "5353" || rec.DstPort != "53" {
		t.Errorf("unexpected record: %+v", rec)
	}

	// Missing canonical keys are allowed as long as something parsed.
	rec, ok = e.Extract([]string{"action=deny", "dstport=22"})
	if !ok {
		t.Fatalf("row with only some keys should extract")
	}
	if rec.DstPort != "22" || rec.SrcIP != "" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestTokenExtractorMalformed(t *testing.T) {
	var e TokenExtractor
	for _, row := range [][]string{
		{},
		{"no tokens here", "just text"},
	} {
		if _, ok := e.Extract(row); ok {
			t.Errorf("row %v should be malformed", row)
		}
	}
}

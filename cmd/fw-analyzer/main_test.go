package main

import (
	"os"
	"path/filepath"
	"testing"

	"FwSpectra/internal/config"
	"FwSpectra/internal/source/csvsource"
)

func TestNewSourceSelectsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fw.csv")
	if err := os.WriteFile(path, []byte("srcip,dstip,srcport,dstport\n"), 0644); err != nil {
		t.Fatalf("Failed to write temp log: %v", err)
	}

	src, cleanup, err := newSource(&config.Config{}, "csv", path)
	if err != nil {
		t.Fatalf("newSource failed: %v", err)
	}
	defer cleanup()

	if _, ok := src.(*csvsource.Reader); !ok {
		t.Errorf("expected a csvsource.Reader, got %T", src)
	}
}

func TestNewSourceRequiresPath(t *testing.T) {
	for _, sourceType := range []string{"csv", "pcap"} {
		if _, _, err := newSource(&config.Config{}, sourceType, ""); err == nil {
			t.Errorf("%s source without a path should fail", sourceType)
		}
	}
}

func TestNewSourceUnknownType(t *testing.T) {
	if _, _, err := newSource(&config.Config{}, "syslog", "x"); err == nil {
		t.Errorf("unknown source type should fail")
	}
}

func TestNewSourcePcapBadFile(t *testing.T) {
	if _, _, err := newSource(&config.Config{}, "pcap", filepath.Join(t.TempDir(), "absent.pcap")); err == nil {
		t.Errorf("missing pcap file should fail")
	}
}

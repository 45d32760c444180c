package cluster

import (
	"net/netip"
	"testing"

	"FwSpectra/internal/engine/counter"
)

func TestBuildBucketsAndOrder(t *testing.T) {
	dst := counter.Table{
		"10.0.1.5":  10,
		"10.0.1.7":  5,
		"10.0.2.9":  30,
		"not-an-ip": 4,
	}

	clusters := Build(dst)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}

	// Heaviest bucket first.
	if want := netip.MustParsePrefix("10.0.2.0/24"); clusters[0].Prefix != want {
		t.Errorf("first cluster = %s, want %s", clusters[0].Prefix, want)
	}
	if clusters[0].Weight != 30 {
		t.Errorf("first cluster weight = %d, want 30", clusters[0].Weight)
	}

	if want := netip.MustParsePrefix("10.0.1.0/24"); clusters[1].Prefix != want {
		t.Errorf("second cluster = %s, want %s", clusters[1].Prefix, want)
	}
	if clusters[1].Weight != 15 {
		t.Errorf("second cluster weight = %d, want 15", clusters[1].Weight)
	}
	if clusters[1].Members["10.0.1.5"] != 10 || clusters[1].Members["10.0.1.7"] != 5 {
		t.Errorf("unexpected member table: %v", clusters[1].Members)
	}
}

func TestBuildDeterministicTieBreak(t *testing.T) {
	dst := counter.Table{
		"10.0.9.1": 10,
		"10.0.3.1": 10,
	}
	for i := 0; i < 5; i++ {
		clusters := Build(dst)
		if len(clusters) != 2 {
			t.Fatalf("expected 2 clusters, got %d", len(clusters))
		}
		if clusters[0].Prefix.String() != "10.0.3.0/24" {
			t.Fatalf("tie-break not deterministic: first cluster %s", clusters[0].Prefix)
		}
	}
}

func TestBuildEmptyTable(t *testing.T) {
	if clusters := Build(counter.Table{}); len(clusters) != 0 {
		t.Errorf("expected no clusters for an empty table, got %v", clusters)
	}
}

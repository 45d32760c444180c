// Package cluster groups destination addresses into /24 buckets, the
// granularity unit for candidate rules.
package cluster

import (
	"net/netip"
	"sort"

	"FwSpectra/internal/engine/counter"
)

// Cluster is one /24 bucket: its network, the total traffic weight of its
// members, and the per-member frequency table used to derive the bucket's
// own best network.
type Cluster struct {
	Prefix  netip.Prefix
	Weight  uint64
	Members counter.Table
}

const bucketBits = 24

// Build partitions a destination-IP table into /24 buckets, ordered by
// descending total weight. Ties are broken by ascending lexical order of the
// bucket's network string so the emission order is deterministic.
// Unparseable addresses are skipped. IPv6 destinations are grouped on their
// leading 24 bits the same way.
func Build(dst counter.Table) []Cluster {
	buckets := make(map[netip.Prefix]*Cluster)
	for ip, cnt := range dst {
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			continue
		}
		p, err := addr.Prefix(bucketBits)
		if err != nil {
			continue
		}
		b, ok := buckets[p]
		if !ok {
			b = &Cluster{Prefix: p, Members: make(counter.Table)}
			buckets[p] = b
		}
		b.Weight += cnt
		b.Members.AddN(ip, cnt)
	}

	clusters := make([]Cluster, 0, len(buckets))
	for _, b := range buckets {
		clusters = append(clusters, *b)
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Weight != clusters[j].Weight {
			return clusters[i].Weight > clusters[j].Weight
		}
		return clusters[i].Prefix.String() < clusters[j].Prefix.String()
	})
	return clusters
}

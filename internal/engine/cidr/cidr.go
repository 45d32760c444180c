// Package cidr computes enclosing networks and coverage-threshold subsets
// over weighted address tables.
package cidr

import (
	"net/netip"
	"sort"

	"FwSpectra/internal/model"
)

// parsePrefix accepts either a CIDR string or a bare address, which is
// treated as a host-length prefix.
func parsePrefix(s string) (netip.Prefix, bool) {
	if p, err := netip.ParsePrefix(s); err == nil {
		return p.Masked(), true
	}
	if a, err := netip.ParseAddr(s); err == nil {
		return netip.PrefixFrom(a, a.BitLen()), true
	}
	return netip.Prefix{}, false
}

// subnetOf reports whether p is contained in sup.
func subnetOf(p, sup netip.Prefix) bool {
	return p.Bits() >= sup.Bits() && sup.Contains(p.Addr())
}

// widen shortens a prefix by one bit and re-masks its base address.
func widen(p netip.Prefix) netip.Prefix {
	return netip.PrefixFrom(p.Addr(), p.Bits()-1).Masked()
}

// collapse reduces a set of prefixes of one address family to the minimal
// disjoint set covering the same addresses: contained prefixes are dropped
// and adjacent sibling prefixes are merged, repeatedly, until stable.
func collapse(nets []netip.Prefix) []netip.Prefix {
	for {
		sort.Slice(nets, func(i, j int) bool {
			if c := nets[i].Addr().Compare(nets[j].Addr()); c != 0 {
				return c < 0
			}
			return nets[i].Bits() < nets[j].Bits()
		})

		merged := false
		out := nets[:0]
		for _, n := range nets {
			if len(out) > 0 {
				last := out[len(out)-1]
				if subnetOf(n, last) {
					merged = true
					continue
				}
				// Two siblings sharing a parent collapse into the parent.
				if last.Bits() == n.Bits() && last.Bits() > 0 {
					parent := widen(last)
					if subnetOf(n, parent) {
						out[len(out)-1] = parent
						merged = true
						continue
					}
				}
			}
			out = append(out, n)
		}
		nets = out
		if !merged {
			return nets
		}
	}
}

// Supernet returns the smallest single network containing every parseable
// address or CIDR in the list. Unparseable entries are excluded; ok is false
// when nothing parses or the entries mix address families. The widening loop
// always terminates: the worst case is prefix length zero, which contains
// everything.
func Supernet(addrs []string) (netip.Prefix, bool) {
	var nets []netip.Prefix
	for _, s := range addrs {
		p, ok := parsePrefix(s)
		if !ok {
			continue
		}
		if len(nets) > 0 && nets[0].Addr().Is4() != p.Addr().Is4() {
			return netip.Prefix{}, false
		}
		nets = append(nets, p)
	}
	if len(nets) == 0 {
		return netip.Prefix{}, false
	}

	collapsed := collapse(nets)
	sup := collapsed[0]
	for _, n := range collapsed[1:] {
		for !subnetOf(n, sup) {
			sup = widen(sup)
		}
	}
	return sup, true
}

// ThresholdSubset walks entries in the given descending-weight order and
// returns the shortest prefix of keys whose cumulative weight share reaches
// target, along with the coverage actually achieved. An empty table yields
// an empty selection at 0.0; an unreachable target yields the full list at
// coverage 1.0.
func ThresholdSubset(entries []model.TopEntry, target float64) ([]string, float64) {
	if len(entries) == 0 {
		return nil, 0.0
	}
	var total uint64
	for _, e := range entries {
		total += e.Count
	}
	if total == 0 {
		return nil, 0.0
	}

	var cum uint64
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		cum += e.Count
		keys = append(keys, e.Key)
		if float64(cum)/float64(total) >= target {
			break
		}
	}
	return keys, float64(cum) / float64(total)
}

// BestNetwork selects the keys covering threshold of the table's weight and
// computes their supernet. The network is rejected (ok false) when it cannot
// be computed or when its prefix length falls below minPrefixLen, i.e. the
// network would be broader than policy allows. The achieved coverage is
// returned either way so callers can fall back to explicit address lists.
func BestNetwork(entries []model.TopEntry, threshold float64, minPrefixLen int) (netip.Prefix, float64, bool) {
	keys, cov := ThresholdSubset(entries, threshold)
	if len(keys) == 0 {
		return netip.Prefix{}, cov, false
	}
	sup, ok := Supernet(keys)
	if !ok || sup.Bits() < minPrefixLen {
		return netip.Prefix{}, cov, false
	}
	return sup, cov, true
}

// Package suggest turns accumulated frequency tables into a condensed,
// ordered list of firewall allow-rule suggestions.
package suggest

import (
	"fmt"
	"strings"

	"FwSpectra/internal/engine/cidr"
	"FwSpectra/internal/engine/cluster"
	"FwSpectra/internal/engine/counter"
	"FwSpectra/internal/model"
)

// Policy constants. Source blocks broader than a /21 and destination blocks
// broader than a /20 are never suggested; ports seen fewer than
// rarePortCutoff times are flagged as anomalies.
const (
	SrcMinPrefixLen = 21
	DstMinPrefixLen = 20

	rarePortCutoff   = 5
	rarePortsShown   = 10
	fallbackIPsShown = 3
)

// Options control one suggestion run. Zero values are replaced by the
// defaults below.
type Options struct {
	MaxPorts       int     // max ports listed per rule
	MinPortShare   float64 // min share of dst-port traffic for a port to qualify
	MaxRules       int     // hard cap on emitted rules
	TargetCoverage float64 // stop once this share of dst traffic is covered
	IPThreshold    float64 // coverage target for best-network selection
}

// Defaults returns the standard option set.
func Defaults() Options {
	return Options{
		MaxPorts:       3,
		MinPortShare:   0.01,
		MaxRules:       10,
		TargetCoverage: 0.80,
		IPThreshold:    0.9,
	}
}

func (o Options) withDefaults() Options {
	d := Defaults()
	if o.MaxPorts <= 0 {
		o.MaxPorts = d.MaxPorts
	}
	if o.MinPortShare <= 0 {
		o.MinPortShare = d.MinPortShare
	}
	if o.MaxRules <= 0 {
		o.MaxRules = d.MaxRules
	}
	if o.TargetCoverage <= 0 {
		o.TargetCoverage = d.TargetCoverage
	}
	if o.IPThreshold <= 0 {
		o.IPThreshold = d.IPThreshold
	}
	return o
}

// Run computes the ordered suggestion list from a counter snapshot. It never
// fails: every degenerate input degrades to an informative message instead.
func Run(snap *counter.Snapshot, opts Options) []string {
	opts = opts.withDefaults()

	srcTable := snap.Tables[model.CategorySrcIP]
	dstTable := snap.Tables[model.CategoryDstIP]
	dstPorts := snap.Tables[model.CategoryDstPort]

	var suggestions []string

	// Source scope: best network up to a /21, else an explicit top list.
	srcScope, srcCov := sourceScope(srcTable, opts.IPThreshold)

	// Dominant destination ports. Without at least one qualifying port there
	// is nothing to build a rule from.
	ports := dominantPorts(dstPorts, opts.MinPortShare, opts.MaxPorts)
	if len(ports) == 0 {
		return []string{"No destination port exceeds the minimum share threshold."}
	}
	portList := strings.Join(ports, ", ")

	// One candidate rule per /24 destination cluster, heaviest first.
	totalDst := dstTable.Total()
	var covered uint64
	seen := make(map[string]struct{})

	for _, cl := range cluster.Build(dstTable) {
		dstNet, dstCov, ok := cidr.BestNetwork(cl.Members.SortedEntries(), opts.IPThreshold, DstMinPrefixLen)
		if !ok {
			continue
		}
		key := dstNet.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		suggestions = append(suggestions, fmt.Sprintf(
			"Allow %s -> %s on [%s] (src %.0f%%, dst %.0f%%)",
			srcScope, dstNet, portList, srcCov*100, dstCov*100))

		covered += cl.Weight
		if totalDst > 0 && float64(covered)/float64(totalDst) >= opts.TargetCoverage {
			break
		}
		if len(suggestions) >= opts.MaxRules {
			break
		}
	}

	if note, ok := rarePortNote(dstPorts); ok {
		suggestions = append(suggestions, note)
	}

	if len(suggestions) == 0 {
		return []string{"No patterns met the thresholds."}
	}
	return suggestions
}

// sourceScope returns the source descriptor for every rule: the best
// enclosing network when one satisfies the /21 floor, otherwise a
// comma-joined list of the top addresses needed to reach the threshold,
// capped at three shown.
func sourceScope(src counter.Table, threshold float64) (string, float64) {
	entries := src.SortedEntries()
	net, cov, ok := cidr.BestNetwork(entries, threshold, SrcMinPrefixLen)
	if ok {
		return net.String(), cov
	}
	tops, cov := cidr.ThresholdSubset(entries, threshold)
	scope := strings.Join(truncate(tops, fallbackIPsShown), ", ")
	if len(tops) > fallbackIPsShown {
		scope += "…"
	}
	return scope, cov
}

// dominantPorts ranks destination ports by descending count and keeps those
// whose individual share of total port traffic reaches minShare, capped at
// maxPorts.
func dominantPorts(dstPorts counter.Table, minShare float64, maxPorts int) []string {
	total := dstPorts.Total()
	if total == 0 {
		return nil
	}
	var ports []string
	for _, e := range dstPorts.SortedEntries() {
		if float64(e.Count)/float64(total) < minShare {
			break
		}
		ports = append(ports, e.Key)
		if len(ports) == maxPorts {
			break
		}
	}
	return ports
}

// rarePortNote lists destination ports observed fewer than five times, up to
// ten shown. Omitted entirely when no port is rare.
func rarePortNote(dstPorts counter.Table) (string, bool) {
	var rare []string
	for _, e := range dstPorts.SortedEntries() {
		if e.Count < rarePortCutoff {
			rare = append(rare, e.Key)
		}
	}
	if len(rare) == 0 {
		return "", false
	}
	note := "Rare destination ports (<5 hits): " + strings.Join(truncate(rare, rarePortsShown), ", ")
	if len(rare) > rarePortsShown {
		note += " …"
	}
	return note, true
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

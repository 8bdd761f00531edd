package routing

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/merchops/backend/internal/domain/partner"
)

// MatchTier classifies how a line item got its manufacturer
type MatchTier string

const (
	// MatchTierAuto means the full capability and quantity filters matched
	MatchTierAuto MatchTier = "auto"
	// MatchTierFallback means the filters were relaxed to any eligible vendor
	MatchTierFallback MatchTier = "fallback"
	// MatchTierManual means an administrator assigned the manufacturer
	MatchTierManual MatchTier = "manual"
	// MatchTierUnmatched means no eligible manufacturer exists
	MatchTierUnmatched MatchTier = "unmatched"
)

// Requirements describe what a line item needs from a manufacturer
type Requirements struct {
	// Capabilities the manufacturer must support. Empty means any vendor
	// can produce the item.
	Capabilities []string
	Quantity     int
}

// MatchResult is the outcome of matching one line item against the pool.
// Absence of a match is a normal result, not an error.
type MatchResult struct {
	Manufacturer *partner.Manufacturer
	Tier         MatchTier
	Reason       string
}

// Match selects a manufacturer for the given requirements out of the candidate
// pool. It is a pure function: no side effects, and deterministic for a fixed
// pool (ties on lead time are broken by lowest manufacturer ID).
//
// Filtering order:
//  1. keep only active manufacturers accepting new orders
//  2. keep only those whose capability set covers the required tags
//  3. keep only those whose minimum order quantity fits the item quantity
//  4. if 2 or 3 empties the set, relax back to the result of 1 (fallback tier)
//  5. if even 1 yields nothing, the item is unmatched
func Match(req Requirements, pool []partner.Manufacturer) MatchResult {
	eligible := make([]*partner.Manufacturer, 0, len(pool))
	for i := range pool {
		if pool[i].Eligible() {
			eligible = append(eligible, &pool[i])
		}
	}
	if len(eligible) == 0 {
		return MatchResult{
			Tier:   MatchTierUnmatched,
			Reason: "no active manufacturer is accepting new orders",
		}
	}

	capable := make([]*partner.Manufacturer, 0, len(eligible))
	for _, m := range eligible {
		if m.Supports(req.Capabilities) {
			capable = append(capable, m)
		}
	}

	if len(capable) == 0 {
		best := closest(eligible)
		return MatchResult{
			Manufacturer: best,
			Tier:         MatchTierFallback,
			Reason: fmt.Sprintf("no manufacturer supports capability %s; relaxed to any eligible vendor, selected %s",
				strings.Join(req.Capabilities, ", "), best.Name),
		}
	}

	fitting := make([]*partner.Manufacturer, 0, len(capable))
	for _, m := range capable {
		if m.MinOrderQty <= req.Quantity {
			fitting = append(fitting, m)
		}
	}

	if len(fitting) == 0 {
		best := closest(eligible)
		return MatchResult{
			Manufacturer: best,
			Tier:         MatchTierFallback,
			Reason: fmt.Sprintf("no capable manufacturer accepts quantity %d; relaxed to any eligible vendor, selected %s",
				req.Quantity, best.Name),
		}
	}

	best := closest(fitting)
	return MatchResult{
		Manufacturer: best,
		Tier:         MatchTierAuto,
		Reason: fmt.Sprintf("%d manufacturer(s) passed capability and quantity filters; selected %s (lead time %d days)",
			len(fitting), best.Name, best.LeadTimeDays),
	}
}

// closest picks the candidate with the lowest lead time, breaking ties by
// lowest ID so that repeated matches over the same pool are stable.
func closest(candidates []*partner.Manufacturer) *partner.Manufacturer {
	best := candidates[0]
	for _, m := range candidates[1:] {
		if m.LeadTimeDays < best.LeadTimeDays {
			best = m
			continue
		}
		if m.LeadTimeDays == best.LeadTimeDays && bytes.Compare(m.ID[:], best.ID[:]) < 0 {
			best = m
		}
	}
	return best
}

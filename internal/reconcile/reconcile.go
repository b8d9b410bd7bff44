// Package reconcile recomputes a requirement's aggregate counters from its
// current set of assignments. Both operations are pure and idempotent: the
// same assignment set always yields the same output, and results fully
// replace the stored lines and summary rather than patching them, so every
// mutation path produces consistent counters.
package reconcile

import (
	"procurement/internal/model"
)

// ComputeLines rebuilds every line's assigned/received/pending/completed
// counters by summing over the assignment set. A cancelled assignment keeps
// only its received portion in the ledger: goods already delivered stay
// counted, while the unreceived assigned quantity flows back into pending.
// The input slice is not modified; a fresh slice is returned and must
// replace the requirement's stored lines wholesale.
func ComputeLines(lines []model.LineItem, assignments []model.Assignment) []model.LineItem {
	assignedByProduct := make(map[string]int, len(lines))
	receivedByProduct := make(map[string]int, len(lines))

	for _, a := range assignments {
		for _, al := range a.Lines {
			if a.Status == model.AssignmentStatusCancelled {
				assignedByProduct[al.ProductID] += al.Received
				receivedByProduct[al.ProductID] += al.Received
				continue
			}
			assignedByProduct[al.ProductID] += al.Assigned
			receivedByProduct[al.ProductID] += al.Received
		}
	}

	out := make([]model.LineItem, len(lines))
	for i, li := range lines {
		li.Assigned = assignedByProduct[li.ProductID]
		li.Received = receivedByProduct[li.ProductID]
		li.Pending = li.Requested - li.Assigned
		if li.Pending < 0 {
			li.Pending = 0
		}
		li.Completed = li.Received >= li.Requested
		out[i] = li
	}
	return out
}

// ComputeSummary derives the requirement-level rollup: distinct assignment
// owners, quantity totals, and overall completion percentage.
func ComputeSummary(lines []model.LineItem, assignments []model.Assignment) model.Summary {
	parties := make(map[string]struct{}, len(assignments))
	active := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		parties[a.PartyID.String()] = struct{}{}
		if a.Status != model.AssignmentStatusCancelled {
			active[a.PartyID.String()] = struct{}{}
		}
	}

	s := model.Summary{
		TotalParties:  len(parties),
		ActiveParties: len(active),
	}
	for _, li := range lines {
		s.TotalRequestedQty += li.Requested
		s.TotalAssignedQty += li.Assigned
		s.TotalReceivedQty += li.Received
	}
	if s.TotalRequestedQty > 0 {
		s.PercentComplete = int(float64(s.TotalReceivedQty)/float64(s.TotalRequestedQty)*100 + 0.5)
	}
	return s
}

// AllLinesCompleted reports whether every line has received at least its
// requested quantity. An empty line set never counts as completed.
func AllLinesCompleted(lines []model.LineItem) bool {
	if len(lines) == 0 {
		return false
	}
	for _, li := range lines {
		if !li.Completed {
			return false
		}
	}
	return true
}

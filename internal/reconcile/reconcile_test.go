package reconcile

import (
	"testing"

	"procurement/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func line(productID string, requested int) model.LineItem {
	return model.LineItem{
		ProductID: productID,
		Requested: requested,
		Pending:   requested,
	}
}

func assignment(status string, lines ...model.AssignmentLine) model.Assignment {
	return model.Assignment{
		ID:      "ASG-test",
		PartyID: uuid.New(),
		Status:  status,
		Lines:   lines,
	}
}

func TestComputeLinesSumsAcrossAssignments(t *testing.T) {
	lines := []model.LineItem{line("A", 10), line("B", 4)}
	assignments := []model.Assignment{
		assignment(model.AssignmentStatusPending,
			model.AssignmentLine{ProductID: "A", Assigned: 3},
			model.AssignmentLine{ProductID: "B", Assigned: 2, Received: 1},
		),
		assignment(model.AssignmentStatusPurchased,
			model.AssignmentLine{ProductID: "A", Assigned: 4, Received: 2},
		),
	}

	out := ComputeLines(lines, assignments)

	require.Equal(t, 7, out[0].Assigned)
	require.Equal(t, 2, out[0].Received)
	require.Equal(t, 3, out[0].Pending)
	require.False(t, out[0].Completed)

	require.Equal(t, 2, out[1].Assigned)
	require.Equal(t, 1, out[1].Received)
	require.Equal(t, 2, out[1].Pending)
}

func TestComputeLinesPendingNeverNegative(t *testing.T) {
	lines := []model.LineItem{line("A", 5)}
	assignments := []model.Assignment{
		assignment(model.AssignmentStatusPending, model.AssignmentLine{ProductID: "A", Assigned: 4}),
		assignment(model.AssignmentStatusPending, model.AssignmentLine{ProductID: "A", Assigned: 4}),
	}

	out := ComputeLines(lines, assignments)

	require.Equal(t, 8, out[0].Assigned)
	require.Equal(t, 0, out[0].Pending)
}

func TestComputeLinesCancelledKeepsReceivedOnly(t *testing.T) {
	// Cancelling assigned=10 received=3 on requested=10 raises pending by 7
	// and leaves received untouched.
	lines := []model.LineItem{line("A", 10)}
	active := []model.Assignment{
		assignment(model.AssignmentStatusInTransit, model.AssignmentLine{ProductID: "A", Assigned: 10, Received: 3}),
	}

	before := ComputeLines(lines, active)
	require.Equal(t, 0, before[0].Pending)
	require.Equal(t, 3, before[0].Received)

	cancelled := []model.Assignment{
		assignment(model.AssignmentStatusCancelled, model.AssignmentLine{ProductID: "A", Assigned: 10, Received: 3}),
	}

	after := ComputeLines(lines, cancelled)
	require.Equal(t, 3, after[0].Assigned)
	require.Equal(t, 3, after[0].Received)
	require.Equal(t, 7, after[0].Pending)
}

func TestComputeLinesCompletion(t *testing.T) {
	lines := []model.LineItem{line("A", 5)}
	assignments := []model.Assignment{
		assignment(model.AssignmentStatusReceived, model.AssignmentLine{ProductID: "A", Assigned: 5, Received: 5}),
	}

	out := ComputeLines(lines, assignments)
	require.True(t, out[0].Completed)
	require.Equal(t, 0, out[0].Pending)
}

func TestComputeLinesToleratesReceivedWithoutAssigned(t *testing.T) {
	// Historical data sometimes recorded receipts without an assigned bump;
	// reconciliation must normalize, not crash.
	lines := []model.LineItem{line("A", 5)}
	assignments := []model.Assignment{
		assignment(model.AssignmentStatusReceived, model.AssignmentLine{ProductID: "A", Assigned: 0, Received: 3}),
	}

	out := ComputeLines(lines, assignments)
	require.Equal(t, 0, out[0].Assigned)
	require.Equal(t, 3, out[0].Received)
	require.Equal(t, 5, out[0].Pending)
}

func TestComputeLinesIdempotent(t *testing.T) {
	lines := []model.LineItem{line("A", 10), line("B", 6)}
	assignments := []model.Assignment{
		assignment(model.AssignmentStatusPending, model.AssignmentLine{ProductID: "A", Assigned: 3, Received: 1}),
		assignment(model.AssignmentStatusCancelled, model.AssignmentLine{ProductID: "B", Assigned: 4, Received: 2}),
	}

	first := ComputeLines(lines, assignments)
	second := ComputeLines(first, assignments)
	require.Equal(t, first, second)

	sum1 := ComputeSummary(first, assignments)
	sum2 := ComputeSummary(second, assignments)
	require.Equal(t, sum1, sum2)
}

func TestComputeSummary(t *testing.T) {
	partyA := uuid.New()
	partyB := uuid.New()

	lines := []model.LineItem{line("A", 10), line("B", 10)}
	assignments := []model.Assignment{
		{ID: "a1", PartyID: partyA, Status: model.AssignmentStatusPending,
			Lines: []model.AssignmentLine{{ProductID: "A", Assigned: 6, Received: 3}}},
		{ID: "a2", PartyID: partyA, Status: model.AssignmentStatusInTransit,
			Lines: []model.AssignmentLine{{ProductID: "B", Assigned: 4, Received: 2}}},
		{ID: "a3", PartyID: partyB, Status: model.AssignmentStatusCancelled,
			Lines: []model.AssignmentLine{{ProductID: "B", Assigned: 5}}},
	}

	computed := ComputeLines(lines, assignments)
	summary := ComputeSummary(computed, assignments)

	require.Equal(t, 2, summary.TotalParties)
	require.Equal(t, 1, summary.ActiveParties)
	require.Equal(t, 20, summary.TotalRequestedQty)
	require.Equal(t, 10, summary.TotalAssignedQty)
	require.Equal(t, 5, summary.TotalReceivedQty)
	require.Equal(t, 25, summary.PercentComplete)
}

func TestComputeSummaryZeroRequested(t *testing.T) {
	summary := ComputeSummary(nil, nil)
	require.Equal(t, 0, summary.PercentComplete)
}

func TestAllLinesCompleted(t *testing.T) {
	require.False(t, AllLinesCompleted(nil))

	done := []model.LineItem{{ProductID: "A", Requested: 2, Received: 2, Completed: true}}
	require.True(t, AllLinesCompleted(done))

	mixed := append(done, model.LineItem{ProductID: "B", Requested: 3, Received: 1})
	require.False(t, AllLinesCompleted(mixed))
}

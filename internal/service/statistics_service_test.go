package service

import (
	"context"
	"testing"

	"procurement/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetStatistics(t *testing.T) {
	partyA := uuid.New()
	partyB := uuid.New()
	cost := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}

	records := []model.Requirement{
		// Unassigned.
		{
			ID: uuid.New(), Number: "REQ-2026-0001", Status: model.RequirementStatusPending,
			Lines: model.LineItems{{ProductID: "P-1", Requested: 5}},
		},
		// Partially assigned, one active assignment per party plus one
		// cancelled assignment whose costs must not count.
		{
			ID: uuid.New(), Number: "REQ-2026-0002", Status: model.RequirementStatusInProgress,
			Lines: model.LineItems{{ProductID: "P-1", Requested: 10, Assigned: 6}},
			Assignments: model.Assignments{
				{ID: "a1", PartyID: partyA, PartyCode: "AA", PartyName: "Ana Alva", Status: model.AssignmentStatusPurchased,
					Lines:            []model.AssignmentLine{{ProductID: "P-1", Assigned: 4}},
					EstimatedCostUSD: cost("100"), RealCostUSD: cost("90"), FreightCostUSD: cost("12.50")},
				{ID: "a2", PartyID: partyB, PartyCode: "BB", PartyName: "Beto Blas", Status: model.AssignmentStatusPending,
					Lines:            []model.AssignmentLine{{ProductID: "P-1", Assigned: 2}},
					EstimatedCostUSD: cost("40")},
				{ID: "a3", PartyID: partyB, PartyCode: "BB", PartyName: "Beto Blas", Status: model.AssignmentStatusCancelled,
					Lines:            []model.AssignmentLine{{ProductID: "P-1", Assigned: 9}},
					EstimatedCostUSD: cost("999")},
			},
		},
		// Fully assigned; partyA appears again so its requirement count is 2.
		{
			ID: uuid.New(), Number: "REQ-2026-0003", Status: model.RequirementStatusCompleted,
			Lines: model.LineItems{{ProductID: "P-2", Requested: 3, Assigned: 3, Received: 3, Completed: true}},
			Assignments: model.Assignments{
				{ID: "a4", PartyID: partyA, PartyCode: "AA", PartyName: "Ana Alva", Status: model.AssignmentStatusReceived,
					Lines:       []model.AssignmentLine{{ProductID: "P-2", Assigned: 3, Received: 3}},
					RealCostUSD: cost("30")},
			},
		},
		// Malformed: no status. Skipped, never aborts the scan.
		{
			ID:    uuid.New(),
			Lines: model.LineItems{{ProductID: "P-9", Requested: 1}},
		},
	}

	reqRepo := new(mockRequirementRepo)
	reqRepo.On("ScanAll", mock.Anything).Return(records, nil)
	svc := NewStatisticsService(reqRepo)

	stats, err := svc.GetStatistics(context.Background())

	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalRequirements)
	require.Equal(t, 1, stats.SkippedRequirements)
	require.Equal(t, 1, stats.CountsByStatus[model.RequirementStatusPending])
	require.Equal(t, 1, stats.CountsByStatus[model.RequirementStatusInProgress])
	require.Equal(t, 1, stats.CountsByStatus[model.RequirementStatusCompleted])
	require.Equal(t, 1, stats.Unassigned)
	require.Equal(t, 1, stats.PartiallyAssigned)
	require.Equal(t, 1, stats.FullyAssigned)

	require.True(t, stats.TotalEstimatedUSD.Equal(decimal.RequireFromString("140")))
	require.True(t, stats.TotalRealUSD.Equal(decimal.RequireFromString("120")))
	require.True(t, stats.TotalFreightUSD.Equal(decimal.RequireFromString("12.50")))

	require.Len(t, stats.PartyRollups, 2)
	// Sorted by party code.
	require.Equal(t, "AA", stats.PartyRollups[0].PartyCode)
	require.Equal(t, 2, stats.PartyRollups[0].RequirementCount)
	require.Equal(t, 7, stats.PartyRollups[0].TotalAssignedQty)
	require.Equal(t, "BB", stats.PartyRollups[1].PartyCode)
	require.Equal(t, 1, stats.PartyRollups[1].RequirementCount)
	require.Equal(t, 2, stats.PartyRollups[1].TotalAssignedQty)
}

func TestGetStatisticsEmpty(t *testing.T) {
	reqRepo := new(mockRequirementRepo)
	reqRepo.On("ScanAll", mock.Anything).Return([]model.Requirement{}, nil)
	svc := NewStatisticsService(reqRepo)

	stats, err := svc.GetStatistics(context.Background())

	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalRequirements)
	require.Empty(t, stats.PartyRollups)
	require.True(t, stats.TotalEstimatedUSD.IsZero())
}

package model

import (
	"github.com/shopspring/decimal"
)

// StatisticsResponse aggregates fleet-wide requirement counts and cost totals
type StatisticsResponse struct {
	TotalRequirements   int             `json:"total_requirements"`
	CountsByStatus      map[string]int  `json:"counts_by_status"`
	Unassigned          int             `json:"unassigned"`
	PartiallyAssigned   int             `json:"partially_assigned"`
	FullyAssigned       int             `json:"fully_assigned"`
	TotalEstimatedUSD   decimal.Decimal `json:"total_estimated_usd"`
	TotalRealUSD        decimal.Decimal `json:"total_real_usd"`
	TotalFreightUSD     decimal.Decimal `json:"total_freight_usd"`
	PartyRollups        []PartyRollup   `json:"party_rollups"`
	SkippedRequirements int             `json:"skipped_requirements"` // Malformed records ignored by the scan
}

// PartyRollup summarizes one responsible party's activity across all
// requirements, derived from every non-cancelled assignment.
type PartyRollup struct {
	PartyID           string          `json:"party_id"`
	PartyName         string          `json:"party_name"`
	PartyCode         string          `json:"party_code"`
	RequirementCount  int             `json:"requirement_count"`
	TotalAssignedQty  int             `json:"total_assigned_qty"`
	TotalEstimatedUSD decimal.Decimal `json:"total_estimated_usd"`
}

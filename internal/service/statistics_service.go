package service

import (
	"context"
	"fmt"
	"sort"

	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/shopspring/decimal"
)

// StatisticsService derives fleet-wide rollups by scanning every
// requirement. Read-only and unbounded, so not for hot paths. Malformed
// records are skipped and counted, never aborting the whole scan.
type StatisticsService interface {
	GetStatistics(ctx context.Context) (model.StatisticsResponse, error)
}

type statisticsService struct {
	reqRepo repository.RequirementRepository
}

func NewStatisticsService(reqRepo repository.RequirementRepository) StatisticsService {
	return &statisticsService{reqRepo: reqRepo}
}

func (s *statisticsService) GetStatistics(ctx context.Context) (model.StatisticsResponse, error) {
	requirements, err := s.reqRepo.ScanAll(ctx)
	if err != nil {
		return model.StatisticsResponse{}, fmt.Errorf("failed to scan requirements: %w", err)
	}

	response := model.StatisticsResponse{
		CountsByStatus:    make(map[string]int),
		TotalEstimatedUSD: decimal.Zero,
		TotalRealUSD:      decimal.Zero,
		TotalFreightUSD:   decimal.Zero,
	}
	rollups := make(map[string]*model.PartyRollup)

	for _, req := range requirements {
		if !wellFormed(req) {
			response.SkippedRequirements++
			continue
		}

		response.TotalRequirements++
		response.CountsByStatus[req.Status]++

		totalRequested, totalAssigned := 0, 0
		for _, li := range req.Lines {
			totalRequested += li.Requested
			totalAssigned += li.Assigned
		}
		switch {
		case totalAssigned == 0:
			response.Unassigned++
		case totalAssigned < totalRequested:
			response.PartiallyAssigned++
		default:
			response.FullyAssigned++
		}

		seenParty := make(map[string]bool, len(req.Assignments))
		for _, a := range req.Assignments {
			if a.Status == model.AssignmentStatusCancelled {
				continue
			}
			if a.EstimatedCostUSD != nil {
				response.TotalEstimatedUSD = response.TotalEstimatedUSD.Add(*a.EstimatedCostUSD)
			}
			if a.RealCostUSD != nil {
				response.TotalRealUSD = response.TotalRealUSD.Add(*a.RealCostUSD)
			}
			if a.FreightCostUSD != nil {
				response.TotalFreightUSD = response.TotalFreightUSD.Add(*a.FreightCostUSD)
			}

			key := a.PartyID.String()
			rollup, ok := rollups[key]
			if !ok {
				rollup = &model.PartyRollup{
					PartyID:           key,
					PartyName:         a.PartyName,
					PartyCode:         a.PartyCode,
					TotalEstimatedUSD: decimal.Zero,
				}
				rollups[key] = rollup
			}
			if !seenParty[key] {
				rollup.RequirementCount++
				seenParty[key] = true
			}
			for _, al := range a.Lines {
				rollup.TotalAssignedQty += al.Assigned
			}
			if a.EstimatedCostUSD != nil {
				rollup.TotalEstimatedUSD = rollup.TotalEstimatedUSD.Add(*a.EstimatedCostUSD)
			}
		}
	}

	response.PartyRollups = make([]model.PartyRollup, 0, len(rollups))
	for _, r := range rollups {
		response.PartyRollups = append(response.PartyRollups, *r)
	}
	sort.Slice(response.PartyRollups, func(i, j int) bool {
		return response.PartyRollups[i].PartyCode < response.PartyRollups[j].PartyCode
	})

	return response, nil
}

// wellFormed filters out records the scan cannot safely aggregate
func wellFormed(req model.Requirement) bool {
	if req.Status == "" {
		return false
	}
	for _, li := range req.Lines {
		if li.ProductID == "" || li.Requested < 0 {
			return false
		}
	}
	return true
}

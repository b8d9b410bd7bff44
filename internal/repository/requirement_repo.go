package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"procurement/internal/model"
	"procurement/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequirementRepository persists whole Requirement aggregates. Reads return
// the full document; Save replaces lines, assignments, and summary together
// under an optimistic version check.
type RequirementRepository interface {
	Create(ctx context.Context, req *model.Requirement) error
	Save(ctx context.Context, req *model.Requirement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Requirement, error)
	List(ctx context.Context, page, limit int, status string) ([]model.Requirement, int64, error)
	ScanAll(ctx context.Context) ([]model.Requirement, error)
	NextNumber(ctx context.Context, year int) (string, error)
}

type requirementRepository struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) RequirementRepository {
	return &requirementRepository{db: db}
}

func (r *requirementRepository) Create(ctx context.Context, req *model.Requirement) error {
	return GetDB(ctx, r.db).Create(req).Error
}

// Save performs a compare-and-swap full-document write: the row is replaced
// only if its stored version still matches the one the aggregate was read
// at. A stale version returns ConflictError so the caller can re-fetch and
// retry the whole operation.
func (r *requirementRepository) Save(ctx context.Context, req *model.Requirement) error {
	result := GetDB(ctx, r.db).Model(&model.Requirement{}).
		Where("id = ? AND version = ?", req.ID, req.Version).
		Updates(map[string]interface{}{
			"status":       req.Status,
			"priority":     req.Priority,
			"notes":        req.Notes,
			"lines":        req.Lines,
			"assignments":  req.Assignments,
			"summary":      req.Summary,
			"approved_by":  req.ApprovedBy,
			"approved_at":  req.ApprovedAt,
			"completed_at": req.CompletedAt,
			"cancelled_at": req.CancelledAt,
			"version":      req.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.Conflict("requirement", req.ID.String())
	}
	req.Version++
	return nil
}

func (r *requirementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Requirement, error) {
	var req model.Requirement
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepository) List(ctx context.Context, page, limit int, status string) ([]model.Requirement, int64, error) {
	var reqs []model.Requirement
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Requirement{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}

func (r *requirementRepository) ScanAll(ctx context.Context) ([]model.Requirement, error) {
	var reqs []model.Requirement
	if err := GetDB(ctx, r.db).Order("created_at asc").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// NextNumber allocates the next REQ-YYYY-NNNN number for the given year by
// scanning existing numbers and taking max+1. A pg advisory lock on the year
// prefix keeps concurrent writers from reserving the same sequence.
func (r *requirementRepository) NextNumber(ctx context.Context, year int) (string, error) {
	db := GetDB(ctx, r.db)
	prefix := fmt.Sprintf("REQ-%d-", year)

	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var numbers []string
	if err := db.Model(&model.Requirement{}).
		Where("number LIKE ?", prefix+"%").
		Pluck("number", &numbers).Error; err != nil {
		return "", err
	}

	maxSeq := 0
	for _, n := range numbers {
		seqPart := strings.TrimPrefix(n, prefix)
		if seq, err := strconv.Atoi(seqPart); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}

	return fmt.Sprintf("%s%04d", prefix, maxSeq+1), nil
}

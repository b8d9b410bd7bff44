package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"procurement/internal/model"
	"procurement/internal/repository"
	"procurement/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePartyRequest struct {
	Name          string     `json:"name" binding:"required"`
	Code          string     `json:"code" binding:"required"`
	IsTraveler    bool       `json:"is_traveler"`
	NextTripDate  *time.Time `json:"next_trip_date"`
	ContactPerson string     `json:"contact_person"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email" binding:"omitempty,email"`
}

type UpdatePartyRequest struct {
	Name          *string    `json:"name"`
	IsTraveler    *bool      `json:"is_traveler"`
	NextTripDate  *time.Time `json:"next_trip_date"`
	ContactPerson *string    `json:"contact_person"`
	Phone         *string    `json:"phone"`
	Email         *string    `json:"email" binding:"omitempty,email"`
	IsActive      *bool      `json:"is_active"`
}

// PartyService manages the directory of responsible parties
type PartyService interface {
	Create(ctx context.Context, userID string, req CreatePartyRequest) (*model.ResponsibleParty, error)
	Update(ctx context.Context, userID, id string, req UpdatePartyRequest) (*model.ResponsibleParty, error)
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, id string) (*model.ResponsibleParty, error)
	List(ctx context.Context, page, limit int, travelersOnly bool) ([]model.ResponsibleParty, int64, error)
}

type partyService struct {
	partyRepo repository.PartyRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewPartyService(
	partyRepo repository.PartyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) PartyService {
	return &partyService{
		partyRepo: partyRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

func (s *partyService) Create(ctx context.Context, userID string, req CreatePartyRequest) (*model.ResponsibleParty, error) {
	if _, err := s.partyRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, apperr.Validation("party code already exists: %s", req.Code)
	}

	party := &model.ResponsibleParty{
		Name:          req.Name,
		Code:          req.Code,
		IsTraveler:    req.IsTraveler,
		NextTripDate:  req.NextTripDate,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		IsActive:      true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.partyRepo.Create(txCtx, party); createErr != nil {
			return fmt.Errorf("failed to create party: %w", createErr)
		}
		return s.auditParty(txCtx, userID, model.ActionCreateParty, party, req)
	})
	if err != nil {
		return nil, err
	}

	return party, nil
}

func (s *partyService) Update(ctx context.Context, userID, id string, req UpdatePartyRequest) (*model.ResponsibleParty, error) {
	party, err := s.findParty(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.IsTraveler != nil {
		party.IsTraveler = *req.IsTraveler
	}
	if req.NextTripDate != nil {
		party.NextTripDate = req.NextTripDate
	}
	if req.ContactPerson != nil {
		party.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	if req.Email != nil {
		party.Email = *req.Email
	}
	if req.IsActive != nil {
		party.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.partyRepo.Update(txCtx, party); updateErr != nil {
			return fmt.Errorf("failed to update party: %w", updateErr)
		}
		return s.auditParty(txCtx, userID, model.ActionUpdateParty, party, req)
	})
	if err != nil {
		return nil, err
	}

	return party, nil
}

func (s *partyService) Delete(ctx context.Context, userID, id string) error {
	party, err := s.findParty(ctx, id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.partyRepo.Delete(txCtx, party.ID); deleteErr != nil {
			return fmt.Errorf("failed to delete party: %w", deleteErr)
		}
		return s.auditParty(txCtx, userID, model.ActionDeleteParty, party, map[string]bool{"deleted": true})
	})
}

func (s *partyService) Get(ctx context.Context, id string) (*model.ResponsibleParty, error) {
	return s.findParty(ctx, id)
}

func (s *partyService) List(ctx context.Context, page, limit int, travelersOnly bool) ([]model.ResponsibleParty, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.partyRepo.List(ctx, page, limit, travelersOnly)
}

func (s *partyService) findParty(ctx context.Context, id string) (*model.ResponsibleParty, error) {
	partyID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid party id: %s", id)
	}
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("responsible party", id)
		}
		return nil, fmt.Errorf("failed to load party: %w", err)
	}
	return party, nil
}

func (s *partyService) auditParty(ctx context.Context, userID, action string, party *model.ResponsibleParty, details interface{}) error {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     parseUserID(userID),
		Action:     action,
		EntityID:   party.ID.String(),
		EntityName: party.Name,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

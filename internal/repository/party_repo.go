package repository

import (
	"context"

	"procurement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartyRepository is the directory of responsible parties
type PartyRepository interface {
	Create(ctx context.Context, party *model.ResponsibleParty) error
	Update(ctx context.Context, party *model.ResponsibleParty) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ResponsibleParty, error)
	FindByCode(ctx context.Context, code string) (*model.ResponsibleParty, error)
	List(ctx context.Context, page, limit int, travelersOnly bool) ([]model.ResponsibleParty, int64, error)
}

type partyRepository struct {
	db *gorm.DB
}

func NewPartyRepository(db *gorm.DB) PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Create(ctx context.Context, party *model.ResponsibleParty) error {
	return GetDB(ctx, r.db).Create(party).Error
}

func (r *partyRepository) Update(ctx context.Context, party *model.ResponsibleParty) error {
	return GetDB(ctx, r.db).Save(party).Error
}

func (r *partyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ResponsibleParty{}).Error
}

func (r *partyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ResponsibleParty, error) {
	var party model.ResponsibleParty
	if err := GetDB(ctx, r.db).First(&party, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) FindByCode(ctx context.Context, code string) (*model.ResponsibleParty, error) {
	var party model.ResponsibleParty
	if err := GetDB(ctx, r.db).Where("code = ?", code).First(&party).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *partyRepository) List(ctx context.Context, page, limit int, travelersOnly bool) ([]model.ResponsibleParty, int64, error) {
	var parties []model.ResponsibleParty
	var total int64

	db := GetDB(ctx, r.db).Model(&model.ResponsibleParty{})
	if travelersOnly {
		db = db.Where("is_traveler = ?", true)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&parties).Error; err != nil {
		return nil, 0, err
	}

	return parties, total, nil
}

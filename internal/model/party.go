package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResponsibleParty is an actor who can fulfill part of a requirement:
// a traveling buyer or a warehouse.
type ResponsibleParty struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Code          string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	IsTraveler    bool           `gorm:"default:false;index" json:"is_traveler"`
	NextTripDate  *time.Time     `json:"next_trip_date"` // Only meaningful for travelers
	ContactPerson string         `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string         `gorm:"type:varchar(50)" json:"phone"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRequirement  = "CREATE_REQUIREMENT"
	ActionApproveRequirement = "APPROVE_REQUIREMENT"
	ActionAssignResponsible  = "ASSIGN_RESPONSIBLE"
	ActionUpdateAssignment   = "UPDATE_ASSIGNMENT"
	ActionCancelAssignment   = "CANCEL_ASSIGNMENT"
	ActionLinkPurchaseOrder  = "LINK_PURCHASE_ORDER"
	ActionLinkTransfer       = "LINK_TRANSFER"
	ActionMarkReceived       = "MARK_RECEIVED"
	ActionCreateParty        = "CREATE_PARTY"
	ActionUpdateParty        = "UPDATE_PARTY"
	ActionDeleteParty        = "DELETE_PARTY"
)

// AuditLog tracks Who, What, and When for every lifecycle mutation
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable for automated callers
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Requirement/assignment/party reference
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable label, e.g. REQ-2026-0001
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

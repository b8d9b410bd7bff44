package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequirementStatus constants
const (
	RequirementStatusPending    = "PENDING"
	RequirementStatusApproved   = "APPROVED"
	RequirementStatusInProgress = "IN_PROGRESS"
	RequirementStatusCompleted  = "COMPLETED"
	RequirementStatusCancelled  = "CANCELLED"
)

// RequirementPriority constants (informational, never constrains allocation)
const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// AssignmentStatus constants. RECEIVED and CANCELLED are terminal.
const (
	AssignmentStatusPending       = "PENDING"
	AssignmentStatusPurchasing    = "PURCHASING"
	AssignmentStatusPurchased     = "PURCHASED"
	AssignmentStatusInUSWarehouse = "IN_US_WAREHOUSE"
	AssignmentStatusInTransit     = "IN_TRANSIT"
	AssignmentStatusReceived      = "RECEIVED"
	AssignmentStatusCancelled     = "CANCELLED"
)

// Requirement is the root aggregate: a registered need for specified product
// quantities, fulfilled over time by zero or more assignments. Lines,
// assignments, and summary are stored as jsonb documents and always written
// back together as one row.
type Requirement struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number      string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"` // REQ-YYYY-NNNN
	Status      string      `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	Priority    string      `gorm:"type:varchar(10);default:'NORMAL'" json:"priority"`
	Notes       string      `gorm:"type:text" json:"notes"`
	Lines       LineItems   `gorm:"type:jsonb" json:"lines"`
	Assignments Assignments `gorm:"type:jsonb" json:"assignments"`
	Summary     Summary     `gorm:"type:jsonb" json:"summary"`
	Version     int         `gorm:"not null;default:1" json:"version"`
	CreatedBy   *uuid.UUID  `gorm:"type:uuid" json:"created_by"`
	ApprovedBy  *uuid.UUID  `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt  *time.Time  `json:"approved_at"`
	CompletedAt *time.Time  `json:"completed_at"`
	CancelledAt *time.Time  `json:"cancelled_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// LineItem is the per-product quantity ledger inside a requirement.
// Requested is fixed at creation; the aggregate counters (Assigned, Received,
// Pending, Completed) are owned by reconciliation and fully rewritten after
// every assignment mutation.
type LineItem struct {
	ProductID             string           `json:"product_id"`
	SKU                   string           `json:"sku"`
	Brand                 string           `json:"brand"`
	Name                  string           `json:"name"`
	Requested             int              `json:"requested"`
	Assigned              int              `json:"assigned"`
	Received              int              `json:"received"`
	Pending               int              `json:"pending"`
	Completed             bool             `json:"completed"`
	EstimatedUnitPriceUSD *decimal.Decimal `json:"estimated_unit_price_usd,omitempty"`
	TargetSalePricePEN    *decimal.Decimal `json:"target_sale_price_pen,omitempty"`
}

// PendingQuantity resolves the line's pending quantity, falling back to
// requested - assigned for legacy documents persisted before the pending
// counter existed.
func (li LineItem) PendingQuantity() int {
	if li.Pending > 0 {
		return li.Pending
	}
	if remaining := li.Requested - li.Assigned; remaining > 0 {
		return remaining
	}
	return 0
}

// Assignment is one responsible party's promise against a subset of the
// requirement's lines, tracked through its own lifecycle. Assignments are
// append-only: cancellation is a state transition, never a removal.
type Assignment struct {
	ID                  string           `json:"id"` // ASG-<unixmilli>-<hex>
	PartyID             uuid.UUID        `json:"party_id"`
	PartyName           string           `json:"party_name"`
	PartyCode           string           `json:"party_code"`
	PartyIsTraveler     bool             `json:"party_is_traveler"`
	Status              string           `json:"status"`
	Lines               []AssignmentLine `json:"lines"`
	AssignedAt          time.Time        `json:"assigned_at"`
	EstimatedPurchaseAt *time.Time       `json:"estimated_purchase_at,omitempty"`
	PurchasedAt         *time.Time       `json:"purchased_at,omitempty"`
	EstimatedArrivalAt  *time.Time       `json:"estimated_arrival_at,omitempty"`
	ReceivedAt          *time.Time       `json:"received_at,omitempty"`
	PurchaseOrderRef    string           `json:"purchase_order_ref,omitempty"`
	TransferRef         string           `json:"transfer_ref,omitempty"`
	EstimatedCostUSD    *decimal.Decimal `json:"estimated_cost_usd,omitempty"`
	RealCostUSD         *decimal.Decimal `json:"real_cost_usd,omitempty"`
	FreightCostUSD      *decimal.Decimal `json:"freight_cost_usd,omitempty"`
	Notes               string           `json:"notes,omitempty"`
}

// IsTerminal reports whether the assignment can no longer change state.
func (a Assignment) IsTerminal() bool {
	return a.Status == AssignmentStatusReceived || a.Status == AssignmentStatusCancelled
}

// AssignmentLine records the quantities one assignment promises and delivers
// for a single product. Received replaces (never increments) on update.
type AssignmentLine struct {
	ProductID        string           `json:"product_id"`
	Assigned         int              `json:"assigned"`
	Received         int              `json:"received"`
	RealUnitPriceUSD *decimal.Decimal `json:"real_unit_price_usd,omitempty"`
	SourceOrderRef   string           `json:"source_order_ref,omitempty"`
}

// Summary is the cached reconciliation output. Always derivable from lines
// and assignments, never the source of truth.
type Summary struct {
	TotalParties      int `json:"total_parties"`
	ActiveParties     int `json:"active_parties"`
	TotalRequestedQty int `json:"total_requested_qty"`
	TotalAssignedQty  int `json:"total_assigned_qty"`
	TotalReceivedQty  int `json:"total_received_qty"`
	PercentComplete   int `json:"percent_complete"`
}

// --- jsonb column types ---

// LineItems stores the line ledger as a single jsonb document
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *LineItems) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Assignments stores the assignment list as a single jsonb document
type Assignments []Assignment

func (a Assignments) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Assignments) Scan(value interface{}) error {
	return scanJSON(value, a)
}

func (s Summary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Summary) Scan(value interface{}) error {
	return scanJSON(value, s)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

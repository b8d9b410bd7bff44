package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"procurement/internal/model"
	"procurement/internal/reconcile"
	"procurement/internal/repository"
	ws "procurement/internal/websocket"
	"procurement/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type RequirementLineRequest struct {
	ProductID             string           `json:"product_id" binding:"required"`
	SKU                   string           `json:"sku"`
	Brand                 string           `json:"brand"`
	Name                  string           `json:"name" binding:"required"`
	Requested             int              `json:"requested"`
	EstimatedUnitPriceUSD *decimal.Decimal `json:"estimated_unit_price_usd"`
	TargetSalePricePEN    *decimal.Decimal `json:"target_sale_price_pen"`
}

type CreateRequirementRequest struct {
	Priority string                   `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	Notes    string                   `json:"notes"`
	Lines    []RequirementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type AssignLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type AssignResponsibleRequest struct {
	PartyID             string              `json:"party_id" binding:"required"`
	Lines               []AssignLineRequest `json:"lines" binding:"required,min=1,dive"`
	EstimatedPurchaseAt *time.Time          `json:"estimated_purchase_at"`
	EstimatedArrivalAt  *time.Time          `json:"estimated_arrival_at"`
	EstimatedCostUSD    *decimal.Decimal    `json:"estimated_cost_usd"`
	Notes               string              `json:"notes"`
}

type ReceivedLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Received  int    `json:"received"`
}

// UpdateAssignmentRequest is a partial patch: only non-nil fields are
// applied. Received quantities replace the stored values per product.
type UpdateAssignmentRequest struct {
	Status              *string               `json:"status" binding:"omitempty,oneof=PENDING PURCHASING PURCHASED IN_US_WAREHOUSE IN_TRANSIT RECEIVED"`
	EstimatedPurchaseAt *time.Time            `json:"estimated_purchase_at"`
	PurchasedAt         *time.Time            `json:"purchased_at"`
	EstimatedArrivalAt  *time.Time            `json:"estimated_arrival_at"`
	ReceivedAt          *time.Time            `json:"received_at"`
	PurchaseOrderRef    *string               `json:"purchase_order_ref"`
	TransferRef         *string               `json:"transfer_ref"`
	EstimatedCostUSD    *decimal.Decimal      `json:"estimated_cost_usd"`
	RealCostUSD         *decimal.Decimal      `json:"real_cost_usd"`
	FreightCostUSD      *decimal.Decimal      `json:"freight_cost_usd"`
	Notes               *string               `json:"notes"`
	ReceivedQuantities  []ReceivedLineRequest `json:"received_quantities" binding:"omitempty,dive"`
}

type CancelAssignmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type LinkPurchaseOrderRequest struct {
	OrderRef    string           `json:"order_ref" binding:"required"`
	PurchasedAt *time.Time       `json:"purchased_at"`
	RealCostUSD *decimal.Decimal `json:"real_cost_usd"`
}

type LinkTransferRequest struct {
	TransferRef        string     `json:"transfer_ref" binding:"required"`
	EstimatedArrivalAt *time.Time `json:"estimated_arrival_at"`
}

type MarkReceivedRequest struct {
	ReceivedAt *time.Time            `json:"received_at"`
	Lines      []ReceivedLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RequirementEvent is the payload broadcast over the websocket hub
type RequirementEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// RequirementService is the only writer of Requirement aggregates. Every
// operation is read-modify-write: load the full document, mutate in memory,
// reconcile, and persist lines, assignments, and summary together or not at
// all.
type RequirementService interface {
	Create(ctx context.Context, userID string, req CreateRequirementRequest) (*model.Requirement, error)
	Get(ctx context.Context, id string) (*model.Requirement, error)
	List(ctx context.Context, page, limit int, status string) ([]model.Requirement, int64, error)
	Approve(ctx context.Context, userID, id string) (*model.Requirement, error)
	AssignResponsible(ctx context.Context, userID, id string, req AssignResponsibleRequest) (*model.Assignment, error)
	UpdateAssignment(ctx context.Context, userID, id, assignmentID string, req UpdateAssignmentRequest) (*model.Requirement, error)
	CancelAssignment(ctx context.Context, userID, id, assignmentID, reason string) (*model.Requirement, error)
	LinkPurchaseOrder(ctx context.Context, userID, id, assignmentID string, req LinkPurchaseOrderRequest) (*model.Requirement, error)
	LinkTransfer(ctx context.Context, userID, id, assignmentID string, req LinkTransferRequest) (*model.Requirement, error)
	MarkReceived(ctx context.Context, userID, id, assignmentID string, req MarkReceivedRequest) (*model.Requirement, error)
}

type requirementService struct {
	reqRepo   repository.RequirementRepository
	partyRepo repository.PartyRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewRequirementService(
	reqRepo repository.RequirementRepository,
	partyRepo repository.PartyRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RequirementService {
	return &requirementService{
		reqRepo:   reqRepo,
		partyRepo: partyRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		hub:       hub,
	}
}

func (s *requirementService) Create(ctx context.Context, userID string, req CreateRequirementRequest) (*model.Requirement, error) {
	seen := make(map[string]bool, len(req.Lines))
	lines := make(model.LineItems, 0, len(req.Lines))
	for _, lr := range req.Lines {
		if lr.Requested <= 0 {
			return nil, apperr.Validation("requested quantity must be positive for product %s", lr.ProductID)
		}
		if seen[lr.ProductID] {
			return nil, apperr.Validation("duplicate product in requirement: %s", lr.ProductID)
		}
		seen[lr.ProductID] = true

		lines = append(lines, model.LineItem{
			ProductID:             lr.ProductID,
			SKU:                   lr.SKU,
			Brand:                 lr.Brand,
			Name:                  lr.Name,
			Requested:             lr.Requested,
			Pending:               lr.Requested,
			EstimatedUnitPriceUSD: lr.EstimatedUnitPriceUSD,
			TargetSalePricePEN:    lr.TargetSalePricePEN,
		})
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	requirement := &model.Requirement{
		Status:      model.RequirementStatusPending,
		Priority:    priority,
		Notes:       req.Notes,
		Lines:       lines,
		Assignments: model.Assignments{},
		Summary:     reconcile.ComputeSummary(lines, nil),
		Version:     1,
		CreatedBy:   parseUserID(userID),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, numErr := s.reqRepo.NextNumber(txCtx, time.Now().Year())
		if numErr != nil {
			return fmt.Errorf("failed to allocate requirement number: %w", numErr)
		}
		requirement.Number = number

		if createErr := s.reqRepo.Create(txCtx, requirement); createErr != nil {
			return fmt.Errorf("failed to create requirement: %w", createErr)
		}

		return s.audit(txCtx, userID, model.ActionCreateRequirement, requirement, map[string]interface{}{
			"number":   requirement.Number,
			"priority": requirement.Priority,
			"lines":    len(requirement.Lines),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish("requirement_created", requirement)
	return requirement, nil
}

func (s *requirementService) Get(ctx context.Context, id string) (*model.Requirement, error) {
	return s.load(ctx, id)
}

func (s *requirementService) List(ctx context.Context, page, limit int, status string) ([]model.Requirement, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.reqRepo.List(ctx, page, limit, status)
}

func (s *requirementService) Approve(ctx context.Context, userID, id string) (*model.Requirement, error) {
	requirement, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if requirement.Status != model.RequirementStatusPending {
		return nil, apperr.InvalidState("cannot approve requirement %s in status %s", requirement.Number, requirement.Status)
	}

	now := time.Now()
	requirement.Status = model.RequirementStatusApproved
	requirement.ApprovedBy = parseUserID(userID)
	requirement.ApprovedAt = &now

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if saveErr := s.reqRepo.Save(txCtx, requirement); saveErr != nil {
			return saveErr
		}
		return s.audit(txCtx, userID, model.ActionApproveRequirement, requirement, map[string]interface{}{
			"number": requirement.Number,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish("requirement_approved", requirement)
	return requirement, nil
}

func (s *requirementService) AssignResponsible(ctx context.Context, userID, id string, req AssignResponsibleRequest) (*model.Assignment, error) {
	requirement, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if requirement.Status == model.RequirementStatusCompleted || requirement.Status == model.RequirementStatusCancelled {
		return nil, apperr.InvalidState("cannot assign to requirement %s in status %s", requirement.Number, requirement.Status)
	}

	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		return nil, apperr.Validation("invalid party id: %s", req.PartyID)
	}
	party, err := s.partyRepo.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("responsible party", req.PartyID)
		}
		return nil, fmt.Errorf("failed to look up party: %w", err)
	}

	linesByProduct := make(map[string]model.LineItem, len(requirement.Lines))
	for _, li := range requirement.Lines {
		linesByProduct[li.ProductID] = li
	}

	assignmentLines := make([]model.AssignmentLine, 0, len(req.Lines))
	for _, alr := range req.Lines {
		if alr.Quantity <= 0 {
			return nil, apperr.Validation("assigned quantity must be positive for product %s", alr.ProductID)
		}
		line, ok := linesByProduct[alr.ProductID]
		if !ok {
			return nil, apperr.Validation("product %s is not part of requirement %s", alr.ProductID, requirement.Number)
		}
		if pending := line.PendingQuantity(); alr.Quantity > pending {
			return nil, &apperr.InsufficientQuantityError{
				ProductID: alr.ProductID,
				Requested: alr.Quantity,
				Pending:   pending,
			}
		}
		assignmentLines = append(assignmentLines, model.AssignmentLine{
			ProductID: alr.ProductID,
			Assigned:  alr.Quantity,
		})
	}

	estimatedArrival := req.EstimatedArrivalAt
	if estimatedArrival == nil && party.IsTraveler {
		estimatedArrival = party.NextTripDate
	}

	assignment := model.Assignment{
		ID:                  newAssignmentID(),
		PartyID:             party.ID,
		PartyName:           party.Name,
		PartyCode:           party.Code,
		PartyIsTraveler:     party.IsTraveler,
		Status:              model.AssignmentStatusPending,
		Lines:               assignmentLines,
		AssignedAt:          time.Now(),
		EstimatedPurchaseAt: req.EstimatedPurchaseAt,
		EstimatedArrivalAt:  estimatedArrival,
		EstimatedCostUSD:    req.EstimatedCostUSD,
		Notes:               req.Notes,
	}

	requirement.Assignments = append(requirement.Assignments, assignment)
	s.reconcileAggregate(requirement)

	if requirement.Status == model.RequirementStatusPending || requirement.Status == model.RequirementStatusApproved {
		requirement.Status = model.RequirementStatusInProgress
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if saveErr := s.reqRepo.Save(txCtx, requirement); saveErr != nil {
			return saveErr
		}
		return s.audit(txCtx, userID, model.ActionAssignResponsible, requirement, map[string]interface{}{
			"assignment_id": assignment.ID,
			"party_code":    party.Code,
			"lines":         len(assignmentLines),
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish("responsible_assigned", requirement)
	return &requirement.Assignments[len(requirement.Assignments)-1], nil
}

func (s *requirementService) UpdateAssignment(ctx context.Context, userID, id, assignmentID string, req UpdateAssignmentRequest) (*model.Requirement, error) {
	return s.patchAssignment(ctx, userID, id, assignmentID, model.ActionUpdateAssignment, "assignment_updated", req)
}

func (s *requirementService) CancelAssignment(ctx context.Context, userID, id, assignmentID, reason string) (*model.Requirement, error) {
	requirement, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := findAssignment(requirement.Assignments, assignmentID)
	if idx < 0 {
		return nil, apperr.NotFound("assignment", assignmentID)
	}

	assignment := &requirement.Assignments[idx]
	if assignment.Status == model.AssignmentStatusReceived {
		return nil, apperr.InvalidState("cannot cancel a received assignment")
	}
	if assignment.Status == model.AssignmentStatusCancelled {
		return nil, apperr.InvalidState("assignment %s is already cancelled", assignmentID)
	}

	assignment.Status = model.AssignmentStatusCancelled
	if reason != "" {
		if assignment.Notes != "" {
			assignment.Notes += "\n"
		}
		assignment.Notes += "Cancelled: " + reason
	}

	// Reconciliation keeps only the received portion of a cancelled
	// assignment, so each line's unreceived assigned quantity flows back
	// into pending here.
	s.reconcileAggregate(requirement)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if saveErr := s.reqRepo.Save(txCtx, requirement); saveErr != nil {
			return saveErr
		}
		return s.audit(txCtx, userID, model.ActionCancelAssignment, requirement, map[string]interface{}{
			"assignment_id": assignmentID,
			"reason":        reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish("assignment_cancelled", requirement)
	return requirement, nil
}

func (s *requirementService) LinkPurchaseOrder(ctx context.Context, userID, id, assignmentID string, req LinkPurchaseOrderRequest) (*model.Requirement, error) {
	purchasedAt := req.PurchasedAt
	if purchasedAt == nil {
		now := time.Now()
		purchasedAt = &now
	}
	status := model.AssignmentStatusPurchased
	patch := UpdateAssignmentRequest{
		Status:           &status,
		PurchasedAt:      purchasedAt,
		PurchaseOrderRef: &req.OrderRef,
		RealCostUSD:      req.RealCostUSD,
	}
	return s.patchAssignment(ctx, userID, id, assignmentID, model.ActionLinkPurchaseOrder, "purchase_order_linked", patch)
}

func (s *requirementService) LinkTransfer(ctx context.Context, userID, id, assignmentID string, req LinkTransferRequest) (*model.Requirement, error) {
	status := model.AssignmentStatusInTransit
	patch := UpdateAssignmentRequest{
		Status:             &status,
		TransferRef:        &req.TransferRef,
		EstimatedArrivalAt: req.EstimatedArrivalAt,
	}
	return s.patchAssignment(ctx, userID, id, assignmentID, model.ActionLinkTransfer, "transfer_linked", patch)
}

func (s *requirementService) MarkReceived(ctx context.Context, userID, id, assignmentID string, req MarkReceivedRequest) (*model.Requirement, error) {
	receivedAt := req.ReceivedAt
	if receivedAt == nil {
		now := time.Now()
		receivedAt = &now
	}
	status := model.AssignmentStatusReceived
	patch := UpdateAssignmentRequest{
		Status:             &status,
		ReceivedAt:         receivedAt,
		ReceivedQuantities: req.Lines,
	}
	return s.patchAssignment(ctx, userID, id, assignmentID, model.ActionMarkReceived, "assignment_received", patch)
}

// patchAssignment applies a partial update to one assignment, reconciles the
// aggregate, advances the requirement to COMPLETED when every line is done,
// and persists everything in one transaction.
func (s *requirementService) patchAssignment(ctx context.Context, userID, id, assignmentID, action, event string, req UpdateAssignmentRequest) (*model.Requirement, error) {
	requirement, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := findAssignment(requirement.Assignments, assignmentID)
	if idx < 0 {
		return nil, apperr.NotFound("assignment", assignmentID)
	}

	assignment := &requirement.Assignments[idx]
	if req.Status != nil && *req.Status != assignment.Status && assignment.IsTerminal() {
		return nil, apperr.InvalidState("assignment %s is %s and cannot change state", assignmentID, assignment.Status)
	}

	if err := applyPatch(assignment, req); err != nil {
		return nil, err
	}

	s.reconcileAggregate(requirement)

	if reconcile.AllLinesCompleted(requirement.Lines) && requirement.Status != model.RequirementStatusCompleted {
		now := time.Now()
		requirement.Status = model.RequirementStatusCompleted
		requirement.CompletedAt = &now
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if saveErr := s.reqRepo.Save(txCtx, requirement); saveErr != nil {
			return saveErr
		}
		details := map[string]interface{}{
			"assignment_id": assignmentID,
		}
		if req.Status != nil {
			details["status"] = *req.Status
		}
		return s.audit(txCtx, userID, action, requirement, details)
	})
	if err != nil {
		return nil, err
	}

	s.publish(event, requirement)
	return requirement, nil
}

// applyPatch copies only the fields present in the request onto the
// assignment. Received quantities replace the stored value for their
// product; the engine deliberately does not reject received > assigned so
// that over-receipt corrections recorded in the field stay representable.
func applyPatch(assignment *model.Assignment, req UpdateAssignmentRequest) error {
	if req.Status != nil {
		assignment.Status = *req.Status
	}
	if req.EstimatedPurchaseAt != nil {
		assignment.EstimatedPurchaseAt = req.EstimatedPurchaseAt
	}
	if req.PurchasedAt != nil {
		assignment.PurchasedAt = req.PurchasedAt
	}
	if req.EstimatedArrivalAt != nil {
		assignment.EstimatedArrivalAt = req.EstimatedArrivalAt
	}
	if req.ReceivedAt != nil {
		assignment.ReceivedAt = req.ReceivedAt
	}
	if req.PurchaseOrderRef != nil {
		assignment.PurchaseOrderRef = *req.PurchaseOrderRef
	}
	if req.TransferRef != nil {
		assignment.TransferRef = *req.TransferRef
	}
	if req.EstimatedCostUSD != nil {
		assignment.EstimatedCostUSD = req.EstimatedCostUSD
	}
	if req.RealCostUSD != nil {
		assignment.RealCostUSD = req.RealCostUSD
	}
	if req.FreightCostUSD != nil {
		assignment.FreightCostUSD = req.FreightCostUSD
	}
	if req.Notes != nil {
		assignment.Notes = *req.Notes
	}

	for _, rl := range req.ReceivedQuantities {
		if rl.Received < 0 {
			return apperr.Validation("received quantity cannot be negative for product %s", rl.ProductID)
		}
		found := false
		for i := range assignment.Lines {
			if assignment.Lines[i].ProductID == rl.ProductID {
				assignment.Lines[i].Received = rl.Received
				found = true
				break
			}
		}
		if !found {
			return apperr.Validation("product %s is not part of assignment %s", rl.ProductID, assignment.ID)
		}
	}
	return nil
}

// --- helpers ---

func (s *requirementService) load(ctx context.Context, id string) (*model.Requirement, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid requirement id: %s", id)
	}
	requirement, err := s.reqRepo.FindByID(ctx, reqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("requirement", id)
		}
		return nil, fmt.Errorf("failed to load requirement: %w", err)
	}
	return requirement, nil
}

func (s *requirementService) reconcileAggregate(requirement *model.Requirement) {
	requirement.Lines = reconcile.ComputeLines(requirement.Lines, requirement.Assignments)
	requirement.Summary = reconcile.ComputeSummary(requirement.Lines, requirement.Assignments)
}

func (s *requirementService) audit(ctx context.Context, userID, action string, requirement *model.Requirement, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     parseUserID(userID),
		Action:     action,
		EntityID:   requirement.ID.String(),
		EntityName: requirement.Number,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *requirementService) publish(event string, requirement *model.Requirement) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(RequirementEvent{
		Event: event,
		Data: map[string]interface{}{
			"requirement_id": requirement.ID.String(),
			"number":         requirement.Number,
			"status":         requirement.Status,
			"summary":        requirement.Summary,
		},
	})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}

func parseUserID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}

func newAssignmentID() string {
	return fmt.Sprintf("ASG-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func findAssignment(assignments []model.Assignment, id string) int {
	for i := range assignments {
		if assignments[i].ID == id {
			return i
		}
	}
	return -1
}

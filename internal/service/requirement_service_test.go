package service

import (
	"context"
	"testing"
	"time"

	"procurement/internal/model"
	"procurement/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- mocks ---

type mockRequirementRepo struct {
	mock.Mock
}

func (m *mockRequirementRepo) Create(ctx context.Context, req *model.Requirement) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockRequirementRepo) Save(ctx context.Context, req *model.Requirement) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockRequirementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Requirement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Requirement), args.Error(1)
}

func (m *mockRequirementRepo) List(ctx context.Context, page, limit int, status string) ([]model.Requirement, int64, error) {
	args := m.Called(ctx, page, limit, status)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Requirement), args.Get(1).(int64), args.Error(2)
}

func (m *mockRequirementRepo) ScanAll(ctx context.Context) ([]model.Requirement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Requirement), args.Error(1)
}

func (m *mockRequirementRepo) NextNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

type mockPartyRepo struct {
	mock.Mock
}

func (m *mockPartyRepo) Create(ctx context.Context, party *model.ResponsibleParty) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *mockPartyRepo) Update(ctx context.Context, party *model.ResponsibleParty) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *mockPartyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPartyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ResponsibleParty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResponsibleParty), args.Error(1)
}

func (m *mockPartyRepo) FindByCode(ctx context.Context, code string) (*model.ResponsibleParty, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResponsibleParty), args.Error(1)
}

func (m *mockPartyRepo) List(ctx context.Context, page, limit int, travelersOnly bool) ([]model.ResponsibleParty, int64, error) {
	args := m.Called(ctx, page, limit, travelersOnly)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.ResponsibleParty), args.Get(1).(int64), args.Error(2)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, page, limit int, action string) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, page, limit, action)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

// stubTxManager runs the function directly; repository mocks do not care
// about the transaction context.
type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type serviceFixture struct {
	reqRepo   *mockRequirementRepo
	partyRepo *mockPartyRepo
	auditRepo *mockAuditRepo
	svc       RequirementService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		reqRepo:   new(mockRequirementRepo),
		partyRepo: new(mockPartyRepo),
		auditRepo: new(mockAuditRepo),
	}
	f.svc = NewRequirementService(f.reqRepo, f.partyRepo, f.auditRepo, stubTxManager{}, nil)
	return f
}

func storedRequirement(status string, lines ...model.LineItem) *model.Requirement {
	return &model.Requirement{
		ID:          uuid.New(),
		Number:      "REQ-2026-0007",
		Status:      status,
		Priority:    model.PriorityNormal,
		Lines:       lines,
		Assignments: model.Assignments{},
		Version:     1,
	}
}

// --- tests ---

func TestCreateRequirement(t *testing.T) {
	f := newFixture()
	userID := uuid.NewString()

	f.reqRepo.On("NextNumber", mock.Anything, time.Now().Year()).Return("REQ-2026-0001", nil)
	f.reqRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Requirement")).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	req, err := f.svc.Create(context.Background(), userID, CreateRequirementRequest{
		Lines: []RequirementLineRequest{
			{ProductID: "P-1", Name: "Widget", Requested: 10},
			{ProductID: "P-2", Name: "Gadget", Requested: 3},
		},
	})

	require.NoError(t, err)
	require.Equal(t, "REQ-2026-0001", req.Number)
	require.Equal(t, model.RequirementStatusPending, req.Status)
	require.Equal(t, model.PriorityNormal, req.Priority)
	require.Equal(t, 10, req.Lines[0].Pending)
	require.Equal(t, 13, req.Summary.TotalRequestedQty)
	require.Equal(t, 0, req.Summary.TotalParties)
	f.reqRepo.AssertExpectations(t)
	f.auditRepo.AssertExpectations(t)
}

func TestCreateRequirementDuplicateProduct(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), uuid.NewString(), CreateRequirementRequest{
		Lines: []RequirementLineRequest{
			{ProductID: "P-1", Name: "Widget", Requested: 2},
			{ProductID: "P-1", Name: "Widget again", Requested: 5},
		},
	})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	f.reqRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRequirementNonPositiveQuantity(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), uuid.NewString(), CreateRequirementRequest{
		Lines: []RequirementLineRequest{{ProductID: "P-1", Name: "Widget", Requested: 0}},
	})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestApproveRequiresPending(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 5, Pending: 5})
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := f.svc.Approve(context.Background(), uuid.NewString(), stored.ID.String())

	var serr *apperr.InvalidStateError
	require.ErrorAs(t, err, &serr)
	f.reqRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApprove(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	stored := storedRequirement(model.RequirementStatusPending,
		model.LineItem{ProductID: "P-1", Requested: 5, Pending: 5})
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	req, err := f.svc.Approve(context.Background(), userID.String(), stored.ID.String())

	require.NoError(t, err)
	require.Equal(t, model.RequirementStatusApproved, req.Status)
	require.NotNil(t, req.ApprovedAt)
	require.Equal(t, userID, *req.ApprovedBy)
}

func TestAssignResponsible(t *testing.T) {
	f := newFixture()
	trip := time.Now().AddDate(0, 0, 14)
	party := &model.ResponsibleParty{
		ID:           uuid.New(),
		Name:         "Maria Torres",
		Code:         "MT",
		IsTraveler:   true,
		NextTripDate: &trip,
	}
	stored := storedRequirement(model.RequirementStatusApproved,
		model.LineItem{ProductID: "P-1", Requested: 10, Pending: 10})

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.partyRepo.On("FindByID", mock.Anything, party.ID).Return(party, nil)
	f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	assignment, err := f.svc.AssignResponsible(context.Background(), uuid.NewString(), stored.ID.String(), AssignResponsibleRequest{
		PartyID: party.ID.String(),
		Lines:   []AssignLineRequest{{ProductID: "P-1", Quantity: 6}},
	})

	require.NoError(t, err)
	require.Equal(t, model.AssignmentStatusPending, assignment.Status)
	require.Equal(t, "MT", assignment.PartyCode)
	// Traveler assignments default the arrival estimate to the next trip.
	require.NotNil(t, assignment.EstimatedArrivalAt)
	require.True(t, assignment.EstimatedArrivalAt.Equal(trip))

	require.Equal(t, model.RequirementStatusInProgress, stored.Status)
	require.Equal(t, 6, stored.Lines[0].Assigned)
	require.Equal(t, 4, stored.Lines[0].Pending)
	require.Equal(t, 1, stored.Summary.TotalParties)
}

func TestAssignResponsibleInsufficientQuantity(t *testing.T) {
	f := newFixture()
	party := &model.ResponsibleParty{ID: uuid.New(), Name: "Jose Diaz", Code: "JD"}
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 5, Pending: 5})

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.partyRepo.On("FindByID", mock.Anything, party.ID).Return(party, nil)

	_, err := f.svc.AssignResponsible(context.Background(), uuid.NewString(), stored.ID.String(), AssignResponsibleRequest{
		PartyID: party.ID.String(),
		Lines:   []AssignLineRequest{{ProductID: "P-1", Quantity: 6}},
	})

	var qerr *apperr.InsufficientQuantityError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, "P-1", qerr.ProductID)
	require.Equal(t, 6, qerr.Requested)
	require.Equal(t, 5, qerr.Pending)
	f.reqRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAssignResponsiblePartyNotFound(t *testing.T) {
	f := newFixture()
	partyID := uuid.New()
	stored := storedRequirement(model.RequirementStatusApproved,
		model.LineItem{ProductID: "P-1", Requested: 10, Pending: 10})

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.partyRepo.On("FindByID", mock.Anything, partyID).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.AssignResponsible(context.Background(), uuid.NewString(), stored.ID.String(), AssignResponsibleRequest{
		PartyID: partyID.String(),
		Lines:   []AssignLineRequest{{ProductID: "P-1", Quantity: 1}},
	})

	var nferr *apperr.NotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestAssignResponsibleClosedRequirement(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusCompleted,
		model.LineItem{ProductID: "P-1", Requested: 10, Received: 10, Completed: true})
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := f.svc.AssignResponsible(context.Background(), uuid.NewString(), stored.ID.String(), AssignResponsibleRequest{
		PartyID: uuid.NewString(),
		Lines:   []AssignLineRequest{{ProductID: "P-1", Quantity: 1}},
	})

	var serr *apperr.InvalidStateError
	require.ErrorAs(t, err, &serr)
}

func TestCancelAssignmentReturnsUnreceivedToPending(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 10, Received: 3})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusInTransit,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 10, Received: 3}},
	}}

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	req, err := f.svc.CancelAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", "traveler trip cancelled")

	require.NoError(t, err)
	require.Equal(t, model.AssignmentStatusCancelled, req.Assignments[0].Status)
	require.Contains(t, req.Assignments[0].Notes, "traveler trip cancelled")
	require.Equal(t, 3, req.Lines[0].Received)
	require.Equal(t, 7, req.Lines[0].Pending)
	require.Equal(t, 0, req.Summary.ActiveParties)
}

func TestCancelAssignmentRejectsReceived(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 10, Received: 10, Completed: true})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusReceived,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 10, Received: 10}},
	}}
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := f.svc.CancelAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", "too late")

	var serr *apperr.InvalidStateError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, model.AssignmentStatusReceived, stored.Assignments[0].Status)
	f.reqRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCancelAssignmentAlreadyCancelled(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Pending: 10})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusCancelled,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 10}},
	}}
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := f.svc.CancelAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", "again")

	var serr *apperr.InvalidStateError
	require.ErrorAs(t, err, &serr)
}

func TestMarkReceivedCompletesRequirement(t *testing.T) {
	for _, initial := range []string{
		model.RequirementStatusPending,
		model.RequirementStatusApproved,
		model.RequirementStatusInProgress,
	} {
		t.Run(initial, func(t *testing.T) {
			f := newFixture()
			stored := storedRequirement(initial,
				model.LineItem{ProductID: "P-1", Requested: 4, Assigned: 4})
			stored.Assignments = model.Assignments{{
				ID:      "ASG-1",
				PartyID: uuid.New(),
				Status:  model.AssignmentStatusInTransit,
				Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 4}},
			}}

			f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
			f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
			f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

			req, err := f.svc.MarkReceived(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", MarkReceivedRequest{
				Lines: []ReceivedLineRequest{{ProductID: "P-1", Received: 4}},
			})

			require.NoError(t, err)
			require.Equal(t, model.AssignmentStatusReceived, req.Assignments[0].Status)
			require.NotNil(t, req.Assignments[0].ReceivedAt)
			require.Equal(t, model.RequirementStatusCompleted, req.Status)
			require.NotNil(t, req.CompletedAt)
			require.Equal(t, 100, req.Summary.PercentComplete)
		})
	}
}

func TestUpdateAssignmentReplacesReceivedQuantities(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 6, Received: 4})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusInTransit,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 6, Received: 4}},
	}}

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	req, err := f.svc.UpdateAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", UpdateAssignmentRequest{
		ReceivedQuantities: []ReceivedLineRequest{{ProductID: "P-1", Received: 2}},
	})

	require.NoError(t, err)
	require.Equal(t, 2, req.Assignments[0].Lines[0].Received)
	require.Equal(t, 2, req.Lines[0].Received)
}

func TestUpdateAssignmentAllowsOverReceipt(t *testing.T) {
	// Over-receipt corrections recorded in the field are representable:
	// received above assigned is accepted and pending stays clamped at zero.
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 10})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusInTransit,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 10}},
	}}

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	req, err := f.svc.UpdateAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", UpdateAssignmentRequest{
		ReceivedQuantities: []ReceivedLineRequest{{ProductID: "P-1", Received: 12}},
	})

	require.NoError(t, err)
	require.Equal(t, 12, req.Lines[0].Received)
	require.Equal(t, 0, req.Lines[0].Pending)
	require.True(t, req.Lines[0].Completed)
}

func TestUpdateAssignmentRejectsNegativeReceived(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 6})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusPending,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 6}},
	}}
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := f.svc.UpdateAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", UpdateAssignmentRequest{
		ReceivedQuantities: []ReceivedLineRequest{{ProductID: "P-1", Received: -1}},
	})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateAssignmentUnknownProduct(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 6})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusPending,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 6}},
	}}
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := f.svc.UpdateAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", UpdateAssignmentRequest{
		ReceivedQuantities: []ReceivedLineRequest{{ProductID: "P-9", Received: 1}},
	})

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateAssignmentTerminalStatusLocked(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 6, Received: 6})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusReceived,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 6, Received: 6}},
	}}
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	status := model.AssignmentStatusInTransit
	_, err := f.svc.UpdateAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", UpdateAssignmentRequest{
		Status: &status,
	})

	var serr *apperr.InvalidStateError
	require.ErrorAs(t, err, &serr)
}

func TestUpdateAssignmentNotFound(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Pending: 10})
	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	_, err := f.svc.UpdateAssignment(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-missing", UpdateAssignmentRequest{})

	var nferr *apperr.NotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestGetInvalidID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Get(context.Background(), "not-a-uuid")

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGetNotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.reqRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Get(context.Background(), id.String())

	var nferr *apperr.NotFoundError
	require.ErrorAs(t, err, &nferr)
}

func TestLinkPurchaseOrder(t *testing.T) {
	f := newFixture()
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 6})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusPurchasing,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 6}},
	}}

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	req, err := f.svc.LinkPurchaseOrder(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", LinkPurchaseOrderRequest{
		OrderRef: "PO-2026-0042",
	})

	require.NoError(t, err)
	require.Equal(t, model.AssignmentStatusPurchased, req.Assignments[0].Status)
	require.Equal(t, "PO-2026-0042", req.Assignments[0].PurchaseOrderRef)
	require.NotNil(t, req.Assignments[0].PurchasedAt)
}

func TestLinkTransfer(t *testing.T) {
	f := newFixture()
	eta := time.Now().AddDate(0, 0, 7)
	stored := storedRequirement(model.RequirementStatusInProgress,
		model.LineItem{ProductID: "P-1", Requested: 10, Assigned: 6})
	stored.Assignments = model.Assignments{{
		ID:      "ASG-1",
		PartyID: uuid.New(),
		Status:  model.AssignmentStatusInUSWarehouse,
		Lines:   []model.AssignmentLine{{ProductID: "P-1", Assigned: 6}},
	}}

	f.reqRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	f.reqRepo.On("Save", mock.Anything, stored).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	req, err := f.svc.LinkTransfer(context.Background(), uuid.NewString(), stored.ID.String(), "ASG-1", LinkTransferRequest{
		TransferRef:        "TRF-0099",
		EstimatedArrivalAt: &eta,
	})

	require.NoError(t, err)
	require.Equal(t, model.AssignmentStatusInTransit, req.Assignments[0].Status)
	require.Equal(t, "TRF-0099", req.Assignments[0].TransferRef)
}

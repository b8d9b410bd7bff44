package handler

import (
	"errors"
	"net/http"

	"procurement/internal/middleware"
	"procurement/internal/service"
	"procurement/pkg/apperr"
	"procurement/pkg/pagination"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequirementHandler struct {
	requirementService service.RequirementService
}

func NewRequirementHandler(requirementService service.RequirementService) *RequirementHandler {
	return &RequirementHandler{requirementService: requirementService}
}

func (h *RequirementHandler) RegisterRoutes(router *gin.RouterGroup) {
	reqs := router.Group("/api/requirements")
	reqs.Use(middleware.RequireRole("admin", "buyer", "staff"))
	{
		reqs.GET("", h.ListRequirements)
		reqs.POST("", h.CreateRequirement)
		reqs.GET("/:id", h.GetRequirement)
		reqs.POST("/:id/approve", h.ApproveRequirement)
		reqs.POST("/:id/assignments", h.AssignResponsible)
		reqs.PATCH("/:id/assignments/:assignmentId", h.UpdateAssignment)
		reqs.POST("/:id/assignments/:assignmentId/cancel", h.CancelAssignment)
		reqs.POST("/:id/assignments/:assignmentId/purchase-order", h.LinkPurchaseOrder)
		reqs.POST("/:id/assignments/:assignmentId/transfer", h.LinkTransfer)
		reqs.POST("/:id/assignments/:assignmentId/receive", h.MarkReceived)
	}
}

// statusForError maps domain error kinds to HTTP status codes
func statusForError(err error) int {
	var validationErr *apperr.ValidationError
	var notFoundErr *apperr.NotFoundError
	var invalidStateErr *apperr.InvalidStateError
	var insufficientErr *apperr.InsufficientQuantityError
	var conflictErr *apperr.ConflictError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &invalidStateErr):
		return http.StatusConflict
	case errors.As(err, &insufficientErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusForError(err)
	c.JSON(status, response.Error(status, err.Error()))
}

// ListRequirements retrieves paginated requirements
// @Summary      List requirements
// @Description  Retrieves a paginated list of requirements, optionally filtered by status
// @Tags         requirements
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by requirement status"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/requirements [get]
func (h *RequirementHandler) ListRequirements(c *gin.Context) {
	params := pagination.Parse(c)
	status := c.Query("status")

	requirements, total, err := h.requirementService.List(c.Request.Context(), params.Page, params.Limit, status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, requirements, params.Meta(total)))
}

// CreateRequirement registers a new procurement requirement
// @Summary      Create requirement
// @Description  Creates a requirement with its product lines, all pending
// @Tags         requirements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRequirementRequest  true  "Create Requirement Payload"
// @Success      201      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/requirements [post]
func (h *RequirementHandler) CreateRequirement(c *gin.Context) {
	var req service.CreateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	requirement, err := h.requirementService.Create(c.Request.Context(), userID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, requirement))
}

// GetRequirement retrieves one requirement aggregate by id
// @Summary      Get requirement
// @Description  Retrieves a requirement with lines, assignments, and summary
// @Tags         requirements
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requirement ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/requirements/{id} [get]
func (h *RequirementHandler) GetRequirement(c *gin.Context) {
	requirement, err := h.requirementService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requirement))
}

// ApproveRequirement transitions a pending requirement to approved
// @Summary      Approve requirement
// @Description  Approves a pending requirement, recording approver and timestamp
// @Tags         requirements
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Requirement ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      409  {object}  response.Response
// @Router       /api/requirements/{id}/approve [post]
func (h *RequirementHandler) ApproveRequirement(c *gin.Context) {
	userID := c.GetString("userID")

	requirement, err := h.requirementService.Approve(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requirement))
}

// AssignResponsible creates a new assignment covering pending quantities
// @Summary      Assign responsible party
// @Description  Assigns a responsible party to cover part of the requirement's pending quantities
// @Tags         requirements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Requirement ID"
// @Param        payload  body      service.AssignResponsibleRequest  true  "Assign Responsible Payload"
// @Success      201      {object}  response.Response{data=object}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/requirements/{id}/assignments [post]
func (h *RequirementHandler) AssignResponsible(c *gin.Context) {
	var req service.AssignResponsibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	assignment, err := h.requirementService.AssignResponsible(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, assignment))
}

// UpdateAssignment applies a partial patch to one assignment
// @Summary      Update assignment
// @Description  Applies only the supplied fields; received quantities replace stored values
// @Tags         requirements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id            path      string                           true  "Requirement ID"
// @Param        assignmentId  path      string                           true  "Assignment ID"
// @Param        payload       body      service.UpdateAssignmentRequest  true  "Update Assignment Payload"
// @Success      200           {object}  response.Response{data=object}
// @Failure      404           {object}  response.Response
// @Router       /api/requirements/{id}/assignments/{assignmentId} [patch]
func (h *RequirementHandler) UpdateAssignment(c *gin.Context) {
	var req service.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	requirement, err := h.requirementService.UpdateAssignment(c.Request.Context(), userID, c.Param("id"), c.Param("assignmentId"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requirement))
}

// CancelAssignment cancels an assignment and returns unreceived quantities to pending
// @Summary      Cancel assignment
// @Description  Cancels a non-received assignment, returning unreceived assigned quantities to the pending pool
// @Tags         requirements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id            path      string                           true  "Requirement ID"
// @Param        assignmentId  path      string                           true  "Assignment ID"
// @Param        payload       body      service.CancelAssignmentRequest  true  "Cancel Assignment Payload"
// @Success      200           {object}  response.Response{data=object}
// @Failure      409           {object}  response.Response
// @Router       /api/requirements/{id}/assignments/{assignmentId}/cancel [post]
func (h *RequirementHandler) CancelAssignment(c *gin.Context) {
	var req service.CancelAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	requirement, err := h.requirementService.CancelAssignment(c.Request.Context(), userID, c.Param("id"), c.Param("assignmentId"), req.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requirement))
}

// LinkPurchaseOrder records the purchase event with its order reference
// @Summary      Link purchase order
// @Description  Marks the assignment purchased and attaches the purchase order reference
// @Tags         requirements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id            path      string                            true  "Requirement ID"
// @Param        assignmentId  path      string                            true  "Assignment ID"
// @Param        payload       body      service.LinkPurchaseOrderRequest  true  "Link Purchase Order Payload"
// @Success      200           {object}  response.Response{data=object}
// @Router       /api/requirements/{id}/assignments/{assignmentId}/purchase-order [post]
func (h *RequirementHandler) LinkPurchaseOrder(c *gin.Context) {
	var req service.LinkPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	requirement, err := h.requirementService.LinkPurchaseOrder(c.Request.Context(), userID, c.Param("id"), c.Param("assignmentId"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requirement))
}

// LinkTransfer records the transit event with its transfer reference
// @Summary      Link transfer
// @Description  Marks the assignment in transit and attaches the transfer reference
// @Tags         requirements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id            path      string                      true  "Requirement ID"
// @Param        assignmentId  path      string                      true  "Assignment ID"
// @Param        payload       body      service.LinkTransferRequest true  "Link Transfer Payload"
// @Success      200           {object}  response.Response{data=object}
// @Router       /api/requirements/{id}/assignments/{assignmentId}/transfer [post]
func (h *RequirementHandler) LinkTransfer(c *gin.Context) {
	var req service.LinkTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	requirement, err := h.requirementService.LinkTransfer(c.Request.Context(), userID, c.Param("id"), c.Param("assignmentId"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requirement))
}

// MarkReceived records received quantities and may complete the requirement
// @Summary      Mark assignment received
// @Description  Records per-product received quantities (replacing stored values) and marks the assignment received
// @Tags         requirements
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id            path      string                       true  "Requirement ID"
// @Param        assignmentId  path      string                       true  "Assignment ID"
// @Param        payload       body      service.MarkReceivedRequest  true  "Mark Received Payload"
// @Success      200           {object}  response.Response{data=object}
// @Router       /api/requirements/{id}/assignments/{assignmentId}/receive [post]
func (h *RequirementHandler) MarkReceived(c *gin.Context) {
	var req service.MarkReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	requirement, err := h.requirementService.MarkReceived(c.Request.Context(), userID, c.Param("id"), c.Param("assignmentId"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requirement))
}

package handler

import (
	"net/http"

	"procurement/internal/middleware"
	"procurement/internal/service"
	"procurement/pkg/pagination"
	"procurement/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartyHandler struct {
	partyService service.PartyService
}

func NewPartyHandler(partyService service.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

func (h *PartyHandler) RegisterRoutes(router *gin.RouterGroup) {
	parties := router.Group("/api/parties")
	parties.Use(middleware.RequireRole("admin", "buyer", "staff"))
	{
		parties.GET("", h.ListParties)
		parties.GET("/:id", h.GetParty)
	}
	adminOnly := router.Group("/api/parties")
	adminOnly.Use(middleware.RequireRole("admin"))
	{
		adminOnly.POST("", h.CreateParty)
		adminOnly.PUT("/:id", h.UpdateParty)
		adminOnly.DELETE("/:id", h.DeleteParty)
	}
}

// ListParties retrieves paginated responsible parties
// @Summary      List responsible parties
// @Description  Retrieves a paginated list of responsible parties, optionally only travelers
// @Tags         parties
// @Security     BearerAuth
// @Produce      json
// @Param        page       query     int   false  "Page number (default 1)"
// @Param        limit      query     int   false  "Number of items per page (default 20)"
// @Param        travelers  query     bool  false  "Only traveling buyers"
// @Success      200        {object}  response.Response{data=object}
// @Router       /api/parties [get]
func (h *PartyHandler) ListParties(c *gin.Context) {
	params := pagination.Parse(c)
	travelersOnly := c.Query("travelers") == "true"

	parties, total, err := h.partyService.List(c.Request.Context(), params.Page, params.Limit, travelersOnly)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, parties, params.Meta(total)))
}

// GetParty retrieves one responsible party by id
// @Summary      Get responsible party
// @Tags         parties
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Party ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /api/parties/{id} [get]
func (h *PartyHandler) GetParty(c *gin.Context) {
	party, err := h.partyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, party))
}

// CreateParty registers a new responsible party
// @Summary      Create responsible party
// @Tags         parties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePartyRequest  true  "Create Party Payload"
// @Success      201      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/parties [post]
func (h *PartyHandler) CreateParty(c *gin.Context) {
	var req service.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	party, err := h.partyService.Create(c.Request.Context(), userID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, party))
}

// UpdateParty updates an existing responsible party
// @Summary      Update responsible party
// @Tags         parties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Party ID"
// @Param        payload  body      service.UpdatePartyRequest  true  "Update Party Payload"
// @Success      200      {object}  response.Response{data=object}
// @Failure      404      {object}  response.Response
// @Router       /api/parties/{id} [put]
func (h *PartyHandler) UpdateParty(c *gin.Context) {
	var req service.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := c.GetString("userID")

	party, err := h.partyService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, party))
}

// DeleteParty soft deletes a responsible party
// @Summary      Delete responsible party
// @Tags         parties
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Party ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/parties/{id} [delete]
func (h *PartyHandler) DeleteParty(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.partyService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Party deleted successfully"))
}

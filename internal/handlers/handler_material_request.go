package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// materialRequestHandler handles HTTP requests for the material request workflow.
type materialRequestHandler struct {
	requestService portssvc.MaterialRequestSvcFacade
}

func newMaterialRequestHandler(rs portssvc.MaterialRequestSvcFacade) *materialRequestHandler {
	return &materialRequestHandler{requestService: rs}
}

// registerMaterialRequestRoutes registers routes for the material request workflow.
func registerMaterialRequestRoutes(rg *gin.RouterGroup, rs portssvc.MaterialRequestSvcFacade) {
	h := newMaterialRequestHandler(rs)

	requests := rg.Group("/material-requests")
	{
		requests.POST("", h.createRequest)
		requests.GET("", h.listRequests)
		requests.GET("/:id", h.getRequest)
		requests.POST("/:id/approve", h.approveRequest)
		requests.POST("/:id/reject", h.rejectRequest)
		requests.POST("/:id/issue", h.issueRequest)
		requests.POST("/:id/cancel", h.cancelRequest)
	}
}

// createRequest godoc
// @Summary Open a material request
// @Tags material-requests
// @Accept json
// @Produce json
// @Param request body dto.CreateMaterialRequestRequest true "Request details"
// @Success 201 {object} dto.MaterialRequestResponse
// @Failure 404 {object} map[string]string "Material or project not found"
// @Security BearerAuth
// @Router /material-requests [post]
func (h *materialRequestHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMaterialRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create material request")
		return
	}

	logger.Info("Material request created", slog.String("request_id", request.RequestID), slog.String("request_no", request.RequestNo))
	c.JSON(http.StatusCreated, dto.ToMaterialRequestResponse(request))
}

// getRequest godoc
// @Summary Get a material request by ID
// @Tags material-requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.MaterialRequestResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Security BearerAuth
// @Router /material-requests/{id} [get]
func (h *materialRequestHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.GetRequestByID(c.Request.Context(), actor.CompanyID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve material request")
		return
	}
	c.JSON(http.StatusOK, dto.ToMaterialRequestResponse(request))
}

// listRequests godoc
// @Summary List material requests
// @Tags material-requests
// @Produce json
// @Param projectID query string false "Project filter"
// @Param status query string false "Status filter"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListMaterialRequestsResponse
// @Security BearerAuth
// @Router /material-requests [get]
func (h *materialRequestHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListMaterialRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListRequests", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.requestService.ListRequests(c.Request.Context(), actor.CompanyID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list material requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// approveRequest godoc
// @Summary Approve a material request
// @Description Moves PENDING to APPROVED and reserves stock atomically
// @Tags material-requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.MaterialRequestResponse
// @Failure 409 {object} map[string]string "Insufficient stock or wrong status"
// @Security BearerAuth
// @Router /material-requests/{id}/approve [post]
func (h *materialRequestHandler) approveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.ApproveRequest(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve material request")
		return
	}

	logger.Info("Material request approved", slog.String("request_id", request.RequestID))
	c.JSON(http.StatusOK, dto.ToMaterialRequestResponse(request))
}

// rejectRequest godoc
// @Summary Reject a material request
// @Tags material-requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.MaterialRequestResponse
// @Failure 409 {object} map[string]string "Not in PENDING status"
// @Security BearerAuth
// @Router /material-requests/{id}/reject [post]
func (h *materialRequestHandler) rejectRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.RejectRequest(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject material request")
		return
	}

	logger.Info("Material request rejected", slog.String("request_id", request.RequestID))
	c.JSON(http.StatusOK, dto.ToMaterialRequestResponse(request))
}

// issueRequest godoc
// @Summary Issue an approved material request
// @Description Consumes the reservation and posts the material expense
// @Tags material-requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.MaterialRequestResponse
// @Failure 409 {object} map[string]string "Not in APPROVED status"
// @Security BearerAuth
// @Router /material-requests/{id}/issue [post]
func (h *materialRequestHandler) issueRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.IssueRequest(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue material request")
		return
	}

	logger.Info("Material request issued", slog.String("request_id", request.RequestID))
	c.JSON(http.StatusOK, dto.ToMaterialRequestResponse(request))
}

// cancelRequest godoc
// @Summary Cancel a material request
// @Description Allowed from PENDING or APPROVED; an approved cancellation releases the reservation
// @Tags material-requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.MaterialRequestResponse
// @Failure 409 {object} map[string]string "Already issued, rejected or cancelled"
// @Security BearerAuth
// @Router /material-requests/{id}/cancel [post]
func (h *materialRequestHandler) cancelRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	request, err := h.requestService.CancelRequest(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel material request")
		return
	}

	logger.Info("Material request cancelled", slog.String("request_id", request.RequestID))
	c.JSON(http.StatusOK, dto.ToMaterialRequestResponse(request))
}

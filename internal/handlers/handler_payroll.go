package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// payrollHandler handles HTTP requests for workers and payroll settlement.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

func newPayrollHandler(ps portssvc.PayrollSvcFacade) *payrollHandler {
	return &payrollHandler{payrollService: ps}
}

// registerPayrollRoutes registers routes related to workers and payroll.
func registerPayrollRoutes(rg *gin.RouterGroup, ps portssvc.PayrollSvcFacade) {
	h := newPayrollHandler(ps)

	workers := rg.Group("/workers")
	{
		workers.POST("", h.createWorker)
		workers.GET("", h.listWorkers)
		workers.GET("/:id", h.getWorker)
		workers.PUT("/:id", h.updateWorker)
		workers.POST("/:id/attendance", h.markAttendance)
		workers.DELETE("/:id/attendance/:date", h.removeAttendance)
		workers.POST("/:id/advances", h.addAdvance)
		workers.GET("/:id/settlement-preview", h.previewSettlement)
		workers.POST("/:id/settle", h.settleWorker)
	}
}

// createWorker godoc
// @Summary Register a worker
// @Tags workers
// @Accept json
// @Produce json
// @Param worker body dto.CreateWorkerRequest true "Worker details"
// @Success 201 {object} dto.WorkerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /workers [post]
func (h *payrollHandler) createWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateWorker", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	worker, err := h.payrollService.CreateWorker(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create worker")
		return
	}

	logger.Info("Worker created", slog.String("worker_id", worker.WorkerID), slog.String("worker_no", worker.WorkerNo))
	c.JSON(http.StatusCreated, dto.ToWorkerResponse(worker))
}

// getWorker godoc
// @Summary Get a worker by ID
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id} [get]
func (h *payrollHandler) getWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	worker, err := h.payrollService.GetWorkerByID(c.Request.Context(), actor.CompanyID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve worker")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// listWorkers godoc
// @Summary List workers
// @Tags workers
// @Produce json
// @Param activeOnly query bool false "Only active workers"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListWorkersResponse
// @Security BearerAuth
// @Router /workers [get]
func (h *payrollHandler) listWorkers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params struct {
		ActiveOnly bool    `form:"activeOnly"`
		Limit      int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
		NextToken  *string `form:"nextToken"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListWorkers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.payrollService.ListWorkers(c.Request.Context(), actor.CompanyID, params.ActiveOnly, params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list workers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateWorker godoc
// @Summary Update a worker's profile
// @Tags workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param worker body dto.UpdateWorkerRequest true "Fields to update"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id} [put]
func (h *payrollHandler) updateWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateWorker", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	worker, err := h.payrollService.UpdateWorker(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update worker")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// markAttendance godoc
// @Summary Mark attendance for a day
// @Description Overwrites a prior unpaid entry for the same day; paid days cannot be edited
// @Tags workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param attendance body dto.MarkAttendanceRequest true "Attendance details"
// @Success 200 {object} dto.WorkerResponse
// @Failure 409 {object} map[string]string "Day already settled"
// @Security BearerAuth
// @Router /workers/{id}/attendance [post]
func (h *payrollHandler) markAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkAttendance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	worker, err := h.payrollService.MarkAttendance(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark attendance")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// removeAttendance godoc
// @Summary Remove an attendance entry
// @Description Deletes the unpaid entry for one calendar day (YYYY-MM-DD)
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Param date path string true "Calendar day (YYYY-MM-DD)"
// @Success 200 {object} dto.WorkerResponse
// @Failure 404 {object} map[string]string "No entry for day"
// @Failure 409 {object} map[string]string "Day already settled"
// @Security BearerAuth
// @Router /workers/{id}/attendance/{date} [delete]
func (h *payrollHandler) removeAttendance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		logger.Warn("Invalid attendance date", slog.String("date", c.Param("date")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	worker, err := h.payrollService.RemoveAttendance(c.Request.Context(), actor, c.Param("id"), day)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to remove attendance")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// addAdvance godoc
// @Summary Record an advance to a worker
// @Tags workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param advance body dto.AddAdvanceRequest true "Advance details"
// @Success 200 {object} dto.WorkerResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Security BearerAuth
// @Router /workers/{id}/advances [post]
func (h *payrollHandler) addAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AddAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddAdvance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	worker, err := h.payrollService.AddAdvance(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add advance")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

// previewSettlement godoc
// @Summary Preview the pending settlement
// @Description Computes earnings, deductions and net payable without mutating the ledger
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} dto.SettlementPreviewResponse
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /workers/{id}/settlement-preview [get]
func (h *payrollHandler) previewSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	preview, err := h.payrollService.PreviewSettlement(c.Request.Context(), actor.CompanyID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to preview settlement")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettlementPreviewResponse(preview))
}

// settleWorker godoc
// @Summary Run a settlement cycle for a worker
// @Description Pays out, marks attendance and advances settled, carries dues forward and posts the wages expense
// @Tags workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param settlement body dto.SettleWorkerRequest true "Settlement details"
// @Success 200 {object} dto.WorkerResponse
// @Failure 400 {object} map[string]string "Nothing to settle"
// @Security BearerAuth
// @Router /workers/{id}/settle [post]
func (h *payrollHandler) settleWorker(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SettleWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SettleWorker", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	worker, err := h.payrollService.SettleWorker(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to settle worker")
		return
	}

	logger.Info("Worker settled", slog.String("worker_id", worker.WorkerID))
	c.JSON(http.StatusOK, dto.ToWorkerResponse(worker))
}

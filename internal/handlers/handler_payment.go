package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// paymentHandler handles HTTP requests for the payment request workflow.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers routes for the payment request workflow.
func registerPaymentRoutes(rg *gin.RouterGroup, ps portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(ps)

	payments := rg.Group("/payment-requests")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/verify", h.verifyPayment)
		payments.POST("/:id/release", h.releasePayment)
		payments.POST("/:id/reject", h.rejectPayment)
	}
}

// createPayment godoc
// @Summary Open a payment request
// @Description Creates a PENDING request and locks its amount against the project budget
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequestRequest true "Payment request details"
// @Success 201 {object} dto.PaymentRequestResponse
// @Failure 404 {object} map[string]string "Vendor or project not found"
// @Security BearerAuth
// @Router /payment-requests [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment request")
		return
	}

	logger.Info("Payment request created", slog.String("payment_id", payment.PaymentID), slog.String("request_no", payment.RequestNo))
	c.JSON(http.StatusCreated, dto.ToPaymentRequestResponse(payment))
}

// getPayment godoc
// @Summary Get a payment request by ID
// @Tags payment-requests
// @Produce json
// @Param id path string true "Payment request ID"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 404 {object} map[string]string "Payment request not found"
// @Security BearerAuth
// @Router /payment-requests/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), actor.CompanyID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payment request")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(payment))
}

// listPayments godoc
// @Summary List payment requests
// @Tags payment-requests
// @Produce json
// @Param projectID query string false "Project filter"
// @Param vendorID query string false "Vendor filter"
// @Param status query string false "Status filter"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPaymentRequestsResponse
// @Security BearerAuth
// @Router /payment-requests [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.paymentService.ListPayments(c.Request.Context(), actor.CompanyID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payment requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// verifyPayment godoc
// @Summary Verify a pending payment request
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param id path string true "Payment request ID"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 409 {object} map[string]string "Not in PENDING status"
// @Security BearerAuth
// @Router /payment-requests/{id}/verify [post]
func (h *paymentHandler) verifyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to verify payment request")
		return
	}

	logger.Info("Payment request verified", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(payment))
}

// releasePayment godoc
// @Summary Release a verified payment
// @Description Converts the budget lock to actual spend, shrinks vendor payables and posts the settled expense
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param id path string true "Payment request ID"
// @Param release body dto.ReleasePaymentRequest true "Payment mode and reference"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 409 {object} map[string]string "Not in VERIFIED status"
// @Security BearerAuth
// @Router /payment-requests/{id}/release [post]
func (h *paymentHandler) releasePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReleasePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReleasePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.ReleasePayment(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to release payment")
		return
	}

	logger.Info("Payment released", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(payment))
}

// rejectPayment godoc
// @Summary Reject a payment request
// @Description Allowed from PENDING or VERIFIED; releases the budget lock
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param id path string true "Payment request ID"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 409 {object} map[string]string "Already released or rejected"
// @Security BearerAuth
// @Router /payment-requests/{id}/reject [post]
func (h *paymentHandler) rejectPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.RejectPayment(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject payment request")
		return
	}

	logger.Info("Payment request rejected", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(payment))
}

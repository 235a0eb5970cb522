package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// purchaseOrderHandler handles HTTP requests for the purchase order workflow.
type purchaseOrderHandler struct {
	poService portssvc.PurchaseOrderSvcFacade
}

func newPurchaseOrderHandler(ps portssvc.PurchaseOrderSvcFacade) *purchaseOrderHandler {
	return &purchaseOrderHandler{poService: ps}
}

// registerPurchaseOrderRoutes registers routes for the purchase order workflow.
func registerPurchaseOrderRoutes(rg *gin.RouterGroup, ps portssvc.PurchaseOrderSvcFacade) {
	h := newPurchaseOrderHandler(ps)

	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.createPO)
		orders.GET("", h.listPOs)
		orders.GET("/:id", h.getPO)
		orders.POST("/:id/submit", h.submitPO)
		orders.POST("/:id/approve", h.approvePOLevel)
		orders.POST("/:id/reject", h.rejectPO)
		orders.POST("/:id/issue", h.issuePO)
		orders.POST("/:id/in-transit", h.markPOInTransit)
		orders.POST("/:id/deliveries", h.recordDelivery)
		orders.POST("/:id/close", h.closePO)
		orders.POST("/:id/cancel", h.cancelPO)
	}
}

// createPO godoc
// @Summary Create a purchase order
// @Description Opens a DRAFT order after checking the vendor's credit limit
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param order body dto.CreatePurchaseOrderRequest true "Order details"
// @Success 201 {object} dto.PurchaseOrderResponse
// @Failure 400 {object} map[string]string "Credit limit exceeded or blacklisted vendor"
// @Security BearerAuth
// @Router /purchase-orders [post]
func (h *purchaseOrderHandler) createPO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePO", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.CreatePO(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create purchase order")
		return
	}

	logger.Info("Purchase order created", slog.String("po_id", po.POID), slog.String("po_number", po.PONumber))
	c.JSON(http.StatusCreated, dto.ToPurchaseOrderResponse(po))
}

// getPO godoc
// @Summary Get a purchase order by ID
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /purchase-orders/{id} [get]
func (h *purchaseOrderHandler) getPO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.GetPOByID(c.Request.Context(), actor.CompanyID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve purchase order")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// listPOs godoc
// @Summary List purchase orders
// @Tags purchase-orders
// @Produce json
// @Param projectID query string false "Project filter"
// @Param vendorID query string false "Vendor filter"
// @Param status query string false "Status filter"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPurchaseOrdersResponse
// @Security BearerAuth
// @Router /purchase-orders [get]
func (h *purchaseOrderHandler) listPOs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPurchaseOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListPOs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.poService.ListPOs(c.Request.Context(), actor.CompanyID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list purchase orders")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// submitPO godoc
// @Summary Submit a draft order for approval
// @Description Moves DRAFT to PENDING_APPROVAL and attaches the approval ladder
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Not in DRAFT status"
// @Security BearerAuth
// @Router /purchase-orders/{id}/submit [post]
func (h *purchaseOrderHandler) submitPO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.SubmitPO(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to submit purchase order")
		return
	}

	logger.Info("Purchase order submitted", slog.String("po_id", po.POID))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// approvePOLevel godoc
// @Summary Approve one rung of the order's approval ladder
// @Description When every rung is approved the order auto-promotes to APPROVED
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param approval body dto.ApprovePORequest true "Approval level and comments"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Level already approved or wrong status"
// @Security BearerAuth
// @Router /purchase-orders/{id}/approve [post]
func (h *purchaseOrderHandler) approvePOLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApprovePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApprovePOLevel", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.ApprovePOLevel(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve purchase order")
		return
	}

	logger.Info("Purchase order approval recorded", slog.String("po_id", po.POID), slog.Int("level", req.Level), slog.String("status", string(po.Status)))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// rejectPO godoc
// @Summary Reject a purchase order under approval
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Not in PENDING_APPROVAL status"
// @Security BearerAuth
// @Router /purchase-orders/{id}/reject [post]
func (h *purchaseOrderHandler) rejectPO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.RejectPO(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject purchase order")
		return
	}

	logger.Info("Purchase order rejected", slog.String("po_id", po.POID))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// issuePO godoc
// @Summary Issue an approved order to the vendor
// @Description Grows the vendor's outstanding payables by the grand total
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Not in APPROVED status"
// @Security BearerAuth
// @Router /purchase-orders/{id}/issue [post]
func (h *purchaseOrderHandler) issuePO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.IssuePO(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue purchase order")
		return
	}

	logger.Info("Purchase order issued", slog.String("po_id", po.POID))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// markPOInTransit godoc
// @Summary Mark an issued order in transit
// @Tags purchase-orders
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Not in ISSUED status"
// @Security BearerAuth
// @Router /purchase-orders/{id}/in-transit [post]
func (h *purchaseOrderHandler) markPOInTransit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.MarkPOInTransit(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark purchase order in transit")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// recordDelivery godoc
// @Summary Record a goods receipt against the order
// @Description Adds delivered quantities to stock as priced batches; the order completes when every line is fully received
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param delivery body dto.RecordDeliveryRequest true "Delivered items"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Order not issued or in transit"
// @Security BearerAuth
// @Router /purchase-orders/{id}/deliveries [post]
func (h *purchaseOrderHandler) recordDelivery(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordDelivery", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.RecordDelivery(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record delivery")
		return
	}

	logger.Info("Delivery recorded", slog.String("po_id", po.POID), slog.String("delivery_status", string(po.DeliveryStatus)))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// closePO godoc
// @Summary Force-close a purchase order
// @Description Allowed from any non-terminal state
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Already closed or cancelled"
// @Security BearerAuth
// @Router /purchase-orders/{id}/close [post]
func (h *purchaseOrderHandler) closePO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.ClosePO(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close purchase order")
		return
	}

	logger.Info("Purchase order closed", slog.String("po_id", po.POID))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

// cancelPO godoc
// @Summary Cancel a purchase order
// @Description Refused once goods have been received; reverses payables if the order was issued
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Success 200 {object} dto.PurchaseOrderResponse
// @Failure 409 {object} map[string]string "Deliveries recorded or terminal status"
// @Security BearerAuth
// @Router /purchase-orders/{id}/cancel [post]
func (h *purchaseOrderHandler) cancelPO(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	po, err := h.poService.CancelPO(c.Request.Context(), actor, c.Param("id"), bindOptionalNote(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to cancel purchase order")
		return
	}

	logger.Info("Purchase order cancelled", slog.String("po_id", po.POID))
	c.JSON(http.StatusOK, dto.ToPurchaseOrderResponse(po))
}

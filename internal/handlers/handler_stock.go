package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// stockHandler handles HTTP requests for inventory stock.
type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(ss portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: ss}
}

// registerStockRoutes registers routes related to stock.
func registerStockRoutes(rg *gin.RouterGroup, ss portssvc.StockSvcFacade) {
	h := newStockHandler(ss)

	stock := rg.Group("/stock")
	{
		stock.GET("", h.listStock)
		stock.GET("/low", h.listLowStock)
		stock.GET("/:materialID", h.getStock)
		stock.POST("/adjust", h.adjustStock)
		stock.PUT("/:materialID/reorder-level", h.setReorderLevel)
	}
}

// listStock godoc
// @Summary List all stock records
// @Tags stock
// @Produce json
// @Success 200 {array} dto.StockResponse
// @Security BearerAuth
// @Router /stock [get]
func (h *stockHandler) listStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	records, err := h.stockService.ListStock(c.Request.Context(), actor.CompanyID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponses(records))
}

// listLowStock godoc
// @Summary List stock at or below reorder level
// @Tags stock
// @Produce json
// @Success 200 {array} dto.StockResponse
// @Security BearerAuth
// @Router /stock/low [get]
func (h *stockHandler) listLowStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	records, err := h.stockService.ListLowStock(c.Request.Context(), actor.CompanyID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list low stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponses(records))
}

// getStock godoc
// @Summary Get the stock record for a material
// @Tags stock
// @Produce json
// @Param materialID path string true "Material ID"
// @Success 200 {object} dto.StockResponse
// @Failure 404 {object} map[string]string "No stock record for material"
// @Security BearerAuth
// @Router /stock/{materialID} [get]
func (h *stockHandler) getStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	record, err := h.stockService.GetStockByMaterial(c.Request.Context(), actor.CompanyID, c.Param("materialID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponse(record))
}

// adjustStock godoc
// @Summary Apply a manual stock adjustment
// @Description ADD, WASTE or DAMAGE only; reservations and deliveries are driven by their workflows
// @Tags stock
// @Accept json
// @Produce json
// @Param adjustment body dto.AdjustStockRequest true "Adjustment details"
// @Success 200 {object} dto.StockResponse
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Security BearerAuth
// @Router /stock/adjust [post]
func (h *stockHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	record, err := h.stockService.AdjustStock(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to adjust stock")
		return
	}

	logger.Info("Stock adjusted", slog.String("material_id", req.MaterialID), slog.String("kind", string(req.Kind)))
	c.JSON(http.StatusOK, dto.ToStockResponse(record))
}

// setReorderLevel godoc
// @Summary Set the reorder level for a material
// @Tags stock
// @Accept json
// @Produce json
// @Param materialID path string true "Material ID"
// @Param level body dto.SetReorderLevelRequest true "New reorder level"
// @Success 200 {object} dto.StockResponse
// @Failure 404 {object} map[string]string "No stock record for material"
// @Security BearerAuth
// @Router /stock/{materialID}/reorder-level [put]
func (h *stockHandler) setReorderLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetReorderLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetReorderLevel", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	record, err := h.stockService.SetReorderLevel(c.Request.Context(), actor, c.Param("materialID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to set reorder level")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockResponse(record))
}

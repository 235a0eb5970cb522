package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// materialHandler handles HTTP requests for the material master.
type materialHandler struct {
	materialService portssvc.MaterialSvcFacade
}

func newMaterialHandler(ms portssvc.MaterialSvcFacade) *materialHandler {
	return &materialHandler{materialService: ms}
}

// registerMaterialRoutes registers routes related to the material master.
func registerMaterialRoutes(rg *gin.RouterGroup, ms portssvc.MaterialSvcFacade) {
	h := newMaterialHandler(ms)

	materials := rg.Group("/materials")
	{
		materials.POST("", h.createMaterial)
		materials.GET("", h.listMaterials)
		materials.GET("/:id", h.getMaterial)
		materials.PUT("/:id", h.updateMaterial)
	}
}

// createMaterial godoc
// @Summary Register a material
// @Tags materials
// @Accept json
// @Produce json
// @Param material body dto.CreateMaterialRequest true "Material details"
// @Success 201 {object} dto.MaterialResponse
// @Failure 409 {object} map[string]string "Duplicate item code"
// @Security BearerAuth
// @Router /materials [post]
func (h *materialHandler) createMaterial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMaterial", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	material, err := h.materialService.CreateMaterial(c.Request.Context(), actor, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create material")
		return
	}

	logger.Info("Material created", slog.String("material_id", material.MaterialID), slog.String("item_code", material.ItemCode))
	c.JSON(http.StatusCreated, dto.ToMaterialResponse(material))
}

// getMaterial godoc
// @Summary Get a material by ID
// @Tags materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} dto.MaterialResponse
// @Failure 404 {object} map[string]string "Material not found"
// @Security BearerAuth
// @Router /materials/{id} [get]
func (h *materialHandler) getMaterial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	material, err := h.materialService.GetMaterialByID(c.Request.Context(), actor.CompanyID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve material")
		return
	}
	c.JSON(http.StatusOK, dto.ToMaterialResponse(material))
}

// listMaterials godoc
// @Summary List materials
// @Tags materials
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListMaterialsResponse
// @Security BearerAuth
// @Router /materials [get]
func (h *materialHandler) listMaterials(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params struct {
		Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
		NextToken *string `form:"nextToken"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListMaterials", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	resp, err := h.materialService.ListMaterials(c.Request.Context(), actor.CompanyID, params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list materials")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateMaterial godoc
// @Summary Update a material
// @Tags materials
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param material body dto.UpdateMaterialRequest true "Fields to update"
// @Success 200 {object} dto.MaterialResponse
// @Failure 404 {object} map[string]string "Material not found"
// @Security BearerAuth
// @Router /materials/{id} [put]
func (h *materialHandler) updateMaterial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateMaterial", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := mustActor(c, logger)
	if !ok {
		return
	}

	material, err := h.materialService.UpdateMaterial(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update material")
		return
	}
	c.JSON(http.StatusOK, dto.ToMaterialResponse(material))
}

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// materialService manages the material master registry.
type materialService struct {
	BaseService
	materialRepo portsrepo.MaterialRepositoryFacade
}

// NewMaterialService creates a new material master service.
func NewMaterialService(materialRepo portsrepo.MaterialRepositoryFacade, notifier portssvc.Notifier) portssvc.MaterialSvcFacade {
	return &materialService{
		BaseService:  BaseService{Notifier: notifier},
		materialRepo: materialRepo,
	}
}

var _ portssvc.MaterialSvcFacade = (*materialService)(nil)

func (s *materialService) GetMaterialByID(ctx context.Context, companyID, materialID string) (*domain.MaterialMaster, error) {
	return s.materialRepo.FindMaterialByID(ctx, companyID, materialID)
}

func (s *materialService) ListMaterials(ctx context.Context, companyID string, limit int, nextToken *string) (*dto.ListMaterialsResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	materials, next, err := s.materialRepo.ListMaterials(ctx, companyID, limit, nextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListMaterialsResponse{
		Materials: dto.ToMaterialResponses(materials),
		NextToken: next,
	}, nil
}

func (s *materialService) CreateMaterial(ctx context.Context, actor domain.Actor, req dto.CreateMaterialRequest) (*domain.MaterialMaster, error) {
	logger := s.GetLogger(ctx)

	now := time.Now().UTC()
	material := domain.MaterialMaster{
		MaterialID:     uuid.NewString(),
		CompanyID:      actor.CompanyID,
		ItemCode:       req.ItemCode,
		Name:           req.Name,
		Category:       req.Category,
		Unit:           req.Unit,
		Brand:          req.Brand,
		Grade:          req.Grade,
		Specifications: req.Specifications,
		AuditFields:    newAuditFields(actor, now),
	}

	if err := s.materialRepo.SaveMaterial(ctx, material); err != nil {
		logger.Warn("Failed to create material", slog.String("error", err.Error()), slog.String("item_code", req.ItemCode))
		return nil, err
	}

	logger.Info("Material created", slog.String("material_id", material.MaterialID), slog.String("item_code", material.ItemCode))
	return &material, nil
}

func (s *materialService) UpdateMaterial(ctx context.Context, actor domain.Actor, materialID string, req dto.UpdateMaterialRequest) (*domain.MaterialMaster, error) {
	material, err := s.materialRepo.FindMaterialByID(ctx, actor.CompanyID, materialID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		material.Name = *req.Name
	}
	if req.Category != nil {
		material.Category = *req.Category
	}
	if req.Unit != nil {
		material.Unit = *req.Unit
	}
	if req.Brand != nil {
		material.Brand = *req.Brand
	}
	if req.Grade != nil {
		material.Grade = *req.Grade
	}
	if req.Specifications != nil {
		material.Specifications = *req.Specifications
	}
	touchAudit(&material.AuditFields, actor, time.Now().UTC())

	if err := s.materialRepo.UpdateMaterial(ctx, *material); err != nil {
		return nil, err
	}
	return material, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// stockService implements the stock ledger.
type stockService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	stockRepo    portsrepo.StockRepositoryFacade
	materialRepo portsrepo.MaterialRepositoryFacade
}

// NewStockService creates a new stock ledger service.
func NewStockService(
	txManager portsrepo.TransactionManager,
	stockRepo portsrepo.StockRepositoryFacade,
	materialRepo portsrepo.MaterialRepositoryFacade,
	notifier portssvc.Notifier,
) portssvc.StockSvcFacade {
	return &stockService{
		BaseService:  BaseService{Notifier: notifier},
		txManager:    txManager,
		stockRepo:    stockRepo,
		materialRepo: materialRepo,
	}
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

func (s *stockService) GetStockByMaterial(ctx context.Context, companyID, materialID string) (*domain.StockRecord, error) {
	return s.stockRepo.FindStockByMaterial(ctx, companyID, materialID)
}

func (s *stockService) ListStock(ctx context.Context, companyID string) ([]domain.StockRecord, error) {
	return s.stockRepo.ListStock(ctx, companyID)
}

func (s *stockService) ListLowStock(ctx context.Context, companyID string) ([]domain.StockRecord, error) {
	return s.stockRepo.ListLowStock(ctx, companyID)
}

func (s *stockService) AdjustStock(ctx context.Context, actor domain.Actor, req dto.AdjustStockRequest) (*domain.StockRecord, error) {
	logger := s.GetLogger(ctx)

	switch req.Kind {
	case domain.AdjustAdd, domain.AdjustWaste, domain.AdjustDamage:
	default:
		return nil, fmt.Errorf("%w: adjustment %s is workflow-driven and cannot be applied manually", apperrors.ErrValidation, req.Kind)
	}

	var record *domain.StockRecord
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.materialRepo.FindMaterialByID(ctx, actor.CompanyID, req.MaterialID); err != nil {
			return err
		}

		var err error
		record, err = s.stockRepo.FindStockByMaterialForUpdate(ctx, actor.CompanyID, req.MaterialID)
		created := false
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) || req.Kind != domain.AdjustAdd {
				return err
			}
			record = s.newStockRecord(actor, req.MaterialID)
			created = true
		}

		if err := record.Apply(req.Kind, req.Quantity); err != nil {
			return err
		}
		if req.Kind == domain.AdjustAdd && req.Batch != nil {
			record.Batches = append(record.Batches, domain.Batch{
				BatchNumber: req.Batch.BatchNumber,
				Quantity:    req.Quantity,
				UnitCost:    req.Batch.UnitCost,
				MfgDate:     req.Batch.MfgDate,
				ExpiryDate:  req.Batch.ExpiryDate,
			})
		}

		now := time.Now().UTC()
		record.Timeline = append(record.Timeline, domain.StockTimelineEntry{
			Action:      string(req.Kind),
			Quantity:    req.Quantity,
			Date:        now,
			PerformedBy: actor.UserID,
			ProjectID:   req.ProjectID,
			Note:        req.Note,
		})
		touchAudit(&record.AuditFields, actor, now)

		if created {
			return s.stockRepo.SaveStock(ctx, *record)
		}
		return s.stockRepo.UpdateStock(ctx, *record)
	})
	if err != nil {
		logger.Warn("Failed to adjust stock", slog.String("error", err.Error()), slog.String("material_id", req.MaterialID), slog.String("kind", string(req.Kind)))
		return nil, err
	}

	logger.Info("Stock adjusted", slog.String("material_id", req.MaterialID), slog.String("kind", string(req.Kind)), slog.String("quantity", req.Quantity.String()))
	s.notifyLowStock(ctx, actor, record)
	return record, nil
}

func (s *stockService) SetReorderLevel(ctx context.Context, actor domain.Actor, materialID string, req dto.SetReorderLevelRequest) (*domain.StockRecord, error) {
	if req.ReorderLevel.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: reorder level must not be negative", apperrors.ErrValidation)
	}

	var record *domain.StockRecord
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.stockRepo.FindStockByMaterialForUpdate(ctx, actor.CompanyID, materialID)
		if err != nil {
			return err
		}
		record.ReorderLevel = req.ReorderLevel
		touchAudit(&record.AuditFields, actor, time.Now().UTC())
		return s.stockRepo.UpdateStock(ctx, *record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *stockService) newStockRecord(actor domain.Actor, materialID string) *domain.StockRecord {
	now := time.Now().UTC()
	return &domain.StockRecord{
		StockID:     uuid.NewString(),
		CompanyID:   actor.CompanyID,
		MaterialID:  materialID,
		AuditFields: newAuditFields(actor, now),
	}
}

// notifyLowStock raises an alert when available stock sits at or below the
// reorder level.
func (s *stockService) notifyLowStock(ctx context.Context, actor domain.Actor, record *domain.StockRecord) {
	if record == nil || !record.BelowReorderLevel() {
		return
	}
	s.notify(ctx, actor, "", "LOW_STOCK_ALERT", fmt.Sprintf("Material %s is below reorder level", record.MaterialID), map[string]any{
		"materialID":     record.MaterialID,
		"availableStock": record.AvailableStock,
		"reorderLevel":   record.ReorderLevel,
	})
}

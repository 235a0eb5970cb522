package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new chart-of-accounts service.
func NewAccountService(txManager portsrepo.TransactionManager, accountRepo portsrepo.AccountRepositoryFacade, notifier portssvc.Notifier) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: BaseService{Notifier: notifier},
		txManager:   txManager,
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, companyID, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, companyID)
}

func (s *accountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   actor.CompanyID,
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		AuditFields: newAuditFields(actor, now),
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		if existing, err := s.accountRepo.FindAccountByCode(ctx, actor.CompanyID, req.Code); err == nil && existing != nil {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
		}
		return s.accountRepo.SaveAccount(ctx, account)
	})
	if err != nil {
		logger.Warn("Failed to create account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// SeedDefaultAccounts installs the default chart. A company that already has
// accounts is returned as-is.
func (s *accountService) SeedDefaultAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	logger := s.GetLogger(ctx)

	var seeded []domain.Account
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.accountRepo.ListAccounts(ctx, actor.CompanyID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			seeded = existing
			return nil
		}

		now := time.Now().UTC()
		defaults := domain.DefaultChartOfAccounts()
		for i := range defaults {
			defaults[i].AccountID = uuid.NewString()
			defaults[i].CompanyID = actor.CompanyID
			defaults[i].AuditFields = newAuditFields(actor, now)
		}
		if err := s.accountRepo.SaveAccounts(ctx, defaults); err != nil {
			return err
		}
		seeded = defaults
		return nil
	})
	if err != nil {
		logger.Error("Failed to seed default accounts", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Chart of accounts ready", slog.Int("count", len(seeded)))
	return seeded, nil
}

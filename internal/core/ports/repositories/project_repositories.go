package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// ProjectReader defines read operations for projects.
type ProjectReader interface {
	// FindProjectByID retrieves a project by its unique identifier.
	FindProjectByID(ctx context.Context, companyID, projectID string) (*domain.Project, error)

	// ListProjects retrieves a paginated list of projects for a company.
	ListProjects(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Project, *string, error)
}

// ProjectWriter defines write operations for projects.
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProject replaces general project fields. It never touches
	// LockedAmount or ActualSpend; those move only through AdjustBudgetFigures.
	UpdateProject(ctx context.Context, project domain.Project) error

	// AdjustBudgetFigures atomically adds the given deltas to the project's
	// locked amount and actual spend. Deltas may be negative.
	AdjustBudgetFigures(ctx context.Context, companyID, projectID string, lockedDelta, spendDelta decimal.Decimal) error

	// FindProjectByIDForUpdate retrieves a project and locks its row for the
	// duration of the surrounding database transaction.
	FindProjectByIDForUpdate(ctx context.Context, companyID, projectID string) (*domain.Project, error)
}

// ProjectRepositoryFacade combines all project repository interfaces.
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

// PgxProjectRepository persists projects and their budget figures.
type PgxProjectRepository struct {
	pool *pgxpool.Pool
}

// NewPgxProjectRepository creates a new repository for project data.
func NewPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{pool: pool}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

const projectColumns = `
	project_id, company_id, name, location, client, budget, approved_budget,
	revised_budget, contingency_fund, locked_amount, actual_spend, start_date,
	end_date, status, progress, created_at, created_by, last_updated_at,
	last_updated_by
`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	err := row.Scan(
		&project.ProjectID,
		&project.CompanyID,
		&project.Name,
		&project.Location,
		&project.Client,
		&project.Budget,
		&project.ApprovedBudget,
		&project.RevisedBudget,
		&project.ContingencyFund,
		&project.LockedAmount,
		&project.ActualSpend,
		&project.StartDate,
		&project.EndDate,
		&project.Status,
		&project.Progress,
		&project.CreatedAt,
		&project.CreatedBy,
		&project.LastUpdatedAt,
		&project.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// SaveProject persists a new project.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		project.ProjectID,
		project.CompanyID,
		project.Name,
		project.Location,
		project.Client,
		project.Budget,
		project.ApprovedBudget,
		project.RevisedBudget,
		project.ContingencyFund,
		project.LockedAmount,
		project.ActualSpend,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Progress,
		project.CreatedAt,
		project.CreatedBy,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project %s: %w", project.ProjectID, err)
	}
	return nil
}

// UpdateProject replaces general project fields. The locked amount and actual
// spend columns are deliberately absent; they move only through
// AdjustBudgetFigures.
func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	query := `
		UPDATE projects
		SET name = $3, location = $4, client = $5, budget = $6,
		    approved_budget = $7, revised_budget = $8, contingency_fund = $9,
		    start_date = $10, end_date = $11, status = $12, progress = $13,
		    last_updated_at = $14, last_updated_by = $15
		WHERE company_id = $1 AND project_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		project.CompanyID,
		project.ProjectID,
		project.Name,
		project.Location,
		project.Client,
		project.Budget,
		project.ApprovedBudget,
		project.RevisedBudget,
		project.ContingencyFund,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Progress,
		project.LastUpdatedAt,
		project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", project.ProjectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustBudgetFigures atomically adds deltas to the project's locked amount
// and actual spend.
func (r *PgxProjectRepository) AdjustBudgetFigures(ctx context.Context, companyID, projectID string, lockedDelta, spendDelta decimal.Decimal) error {
	query := `
		UPDATE projects
		SET locked_amount = locked_amount + $3, actual_spend = actual_spend + $4
		WHERE company_id = $1 AND project_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query, companyID, projectID, lockedDelta, spendDelta)
	if err != nil {
		return fmt.Errorf("failed to adjust budget figures for project %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindProjectByID retrieves a project by its unique identifier.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, companyID, projectID string) (*domain.Project, error) {
	return r.findProject(ctx, companyID, projectID, false)
}

// FindProjectByIDForUpdate retrieves a project and locks its row.
func (r *PgxProjectRepository) FindProjectByIDForUpdate(ctx context.Context, companyID, projectID string) (*domain.Project, error) {
	return r.findProject(ctx, companyID, projectID, true)
}

func (r *PgxProjectRepository) findProject(ctx context.Context, companyID, projectID string, forUpdate bool) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE company_id = $1 AND project_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	project, err := scanProject(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	return project, nil
}

// ListProjects retrieves a page of projects, newest first.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Project, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE company_id = $1`
	args := []any{companyID}
	if token != nil {
		args = append(args, token.CreatedAt, token.ID)
		query += fmt.Sprintf(" AND (created_at, project_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, project_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	var next *string
	if len(projects) == limit {
		last := projects[len(projects)-1]
		next = encodePageToken(last.CreatedAt, last.ProjectID)
	}
	return projects, next, nil
}

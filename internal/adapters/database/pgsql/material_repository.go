package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitesutra/construction_erp_app/internal/apperrors"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
)

// PgxMaterialRepository persists the material master registry.
type PgxMaterialRepository struct {
	pool *pgxpool.Pool
}

// NewPgxMaterialRepository creates a new repository for material master data.
func NewPgxMaterialRepository(pool *pgxpool.Pool) portsrepo.MaterialRepositoryFacade {
	return &PgxMaterialRepository{pool: pool}
}

var _ portsrepo.MaterialRepositoryFacade = (*PgxMaterialRepository)(nil)

const materialColumns = `
	material_id, company_id, item_code, name, category, unit, brand, grade,
	specifications, created_at, created_by, last_updated_at, last_updated_by
`

func scanMaterial(row pgx.Row) (*domain.MaterialMaster, error) {
	var material domain.MaterialMaster
	err := row.Scan(
		&material.MaterialID,
		&material.CompanyID,
		&material.ItemCode,
		&material.Name,
		&material.Category,
		&material.Unit,
		&material.Brand,
		&material.Grade,
		&material.Specifications,
		&material.CreatedAt,
		&material.CreatedBy,
		&material.LastUpdatedAt,
		&material.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// SaveMaterial persists a new material. A duplicate (company_id, item_code)
// pair maps to ErrDuplicate.
func (r *PgxMaterialRepository) SaveMaterial(ctx context.Context, material domain.MaterialMaster) error {
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		material.MaterialID,
		material.CompanyID,
		material.ItemCode,
		material.Name,
		material.Category,
		material.Unit,
		material.Brand,
		material.Grade,
		material.Specifications,
		material.CreatedAt,
		material.CreatedBy,
		material.LastUpdatedAt,
		material.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert material %s: %w", material.MaterialID, err)
	}
	return nil
}

// UpdateMaterial replaces mutable material fields.
func (r *PgxMaterialRepository) UpdateMaterial(ctx context.Context, material domain.MaterialMaster) error {
	query := `
		UPDATE materials
		SET name = $3, category = $4, unit = $5, brand = $6, grade = $7,
		    specifications = $8, last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $1 AND material_id = $2;
	`
	tag, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		material.CompanyID,
		material.MaterialID,
		material.Name,
		material.Category,
		material.Unit,
		material.Brand,
		material.Grade,
		material.Specifications,
		material.LastUpdatedAt,
		material.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update material %s: %w", material.MaterialID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindMaterialByID retrieves a material by its unique identifier.
func (r *PgxMaterialRepository) FindMaterialByID(ctx context.Context, companyID, materialID string) (*domain.MaterialMaster, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE company_id = $1 AND material_id = $2;`
	material, err := scanMaterial(querierFrom(ctx, r.pool).QueryRow(ctx, query, companyID, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find material %s: %w", materialID, err)
	}
	return material, nil
}

// ListMaterials retrieves a page of materials, newest first.
func (r *PgxMaterialRepository) ListMaterials(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.MaterialMaster, *string, error) {
	token, err := decodePageToken(nextToken)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + materialColumns + ` FROM materials WHERE company_id = $1`
	args := []any{companyID}
	if token != nil {
		args = append(args, token.CreatedAt, token.ID)
		query += fmt.Sprintf(" AND (created_at, material_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, material_id DESC LIMIT $%d", len(args))

	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	materials := []domain.MaterialMaster{}
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan material row: %w", err)
		}
		materials = append(materials, *material)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating material rows: %w", err)
	}

	var next *string
	if len(materials) == limit {
		last := materials[len(materials)-1]
		next = encodePageToken(last.CreatedAt, last.MaterialID)
	}
	return materials, next, nil
}

package repositories

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// MaterialReader defines read operations for the material master.
type MaterialReader interface {
	// FindMaterialByID retrieves a material by its unique identifier.
	FindMaterialByID(ctx context.Context, companyID, materialID string) (*domain.MaterialMaster, error)

	// ListMaterials retrieves a paginated list of materials for a company.
	ListMaterials(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.MaterialMaster, *string, error)
}

// MaterialWriter defines write operations for the material master.
type MaterialWriter interface {
	// SaveMaterial persists a new material.
	SaveMaterial(ctx context.Context, material domain.MaterialMaster) error

	// UpdateMaterial replaces mutable material fields.
	UpdateMaterial(ctx context.Context, material domain.MaterialMaster) error
}

// MaterialRepositoryFacade combines all material master repository interfaces.
type MaterialRepositoryFacade interface {
	MaterialReader
	MaterialWriter
}

// MaterialRequestReader defines read operations for material requests.
type MaterialRequestReader interface {
	// FindRequestByID retrieves a material request by its unique identifier.
	FindRequestByID(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error)

	// ListRequests retrieves a paginated list of requests for a company,
	// optionally filtered by project and status.
	ListRequests(ctx context.Context, companyID string, filter MaterialRequestFilter, limit int, nextToken *string) ([]domain.MaterialRequest, *string, error)
}

// MaterialRequestFilter narrows a material request listing.
type MaterialRequestFilter struct {
	ProjectID *string
	Status    *domain.MaterialRequestStatus
}

// MaterialRequestWriter defines write operations for material requests.
type MaterialRequestWriter interface {
	// SaveRequest persists a new material request.
	SaveRequest(ctx context.Context, request domain.MaterialRequest) error

	// UpdateRequest replaces the status, actors and timeline of a request.
	UpdateRequest(ctx context.Context, request domain.MaterialRequest) error

	// FindRequestByIDForUpdate retrieves a request and locks its row for the
	// duration of the surrounding database transaction.
	FindRequestByIDForUpdate(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error)
}

// MaterialRequestRepositoryFacade combines all material request repository interfaces.
type MaterialRequestRepositoryFacade interface {
	MaterialRequestReader
	MaterialRequestWriter
}

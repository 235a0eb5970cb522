package services

import (
	"context"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/dto"
)

// MaterialReaderSvc defines read operations for the material master.
type MaterialReaderSvc interface {
	// GetMaterialByID retrieves a specific material by its ID.
	GetMaterialByID(ctx context.Context, companyID, materialID string) (*domain.MaterialMaster, error)

	// ListMaterials retrieves a paginated list of materials.
	ListMaterials(ctx context.Context, companyID string, limit int, nextToken *string) (*dto.ListMaterialsResponse, error)
}

// MaterialWriterSvc defines write operations for the material master.
type MaterialWriterSvc interface {
	// CreateMaterial registers a new material.
	CreateMaterial(ctx context.Context, actor domain.Actor, req dto.CreateMaterialRequest) (*domain.MaterialMaster, error)

	// UpdateMaterial edits material master fields.
	UpdateMaterial(ctx context.Context, actor domain.Actor, materialID string, req dto.UpdateMaterialRequest) (*domain.MaterialMaster, error)
}

// MaterialSvcFacade combines all material master service interfaces.
type MaterialSvcFacade interface {
	MaterialReaderSvc
	MaterialWriterSvc
}

// MaterialRequestReaderSvc defines read operations for material requests.
type MaterialRequestReaderSvc interface {
	// GetRequestByID retrieves a specific material request by its ID.
	GetRequestByID(ctx context.Context, companyID, requestID string) (*domain.MaterialRequest, error)

	// ListRequests retrieves a paginated, filtered list of requests.
	ListRequests(ctx context.Context, companyID string, params dto.ListMaterialRequestsParams) (*dto.ListMaterialRequestsResponse, error)
}

// MaterialRequestWriterSvc defines the material request workflow transitions.
type MaterialRequestWriterSvc interface {
	// CreateRequest opens a new request in PENDING with an assigned number.
	CreateRequest(ctx context.Context, actor domain.Actor, req dto.CreateMaterialRequestRequest) (*domain.MaterialRequest, error)

	// ApproveRequest moves PENDING to APPROVED and reserves the quantity
	// against site stock in the same database transaction.
	ApproveRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error)

	// RejectRequest moves PENDING to REJECTED.
	RejectRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error)

	// IssueRequest moves APPROVED to ISSUED, consumes the reservation and
	// posts a material expense at the latest batch unit cost.
	IssueRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error)

	// CancelRequest moves PENDING or APPROVED to CANCELLED, releasing any
	// reservation an approval made.
	CancelRequest(ctx context.Context, actor domain.Actor, requestID string, remarks string) (*domain.MaterialRequest, error)
}

// MaterialRequestSvcFacade combines all material request service interfaces.
type MaterialRequestSvcFacade interface {
	MaterialRequestReaderSvc
	MaterialRequestWriterSvc
}

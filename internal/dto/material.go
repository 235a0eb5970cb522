package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
)

// CreateMaterialRequest defines the data needed to register a material.
type CreateMaterialRequest struct {
	ItemCode       string `json:"itemCode" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Category       string `json:"category" binding:"required"`
	Unit           string `json:"unit" binding:"required"`
	Brand          string `json:"brand"`
	Grade          string `json:"grade"`
	Specifications string `json:"specifications"`
}

// UpdateMaterialRequest defines the fields allowed to change on a material.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateMaterialRequest struct {
	Name           *string `json:"name"`
	Category       *string `json:"category"`
	Unit           *string `json:"unit"`
	Brand          *string `json:"brand"`
	Grade          *string `json:"grade"`
	Specifications *string `json:"specifications"`
}

// MaterialResponse defines the data returned for a material master entry.
type MaterialResponse struct {
	MaterialID     string    `json:"materialID"`
	ItemCode       string    `json:"itemCode"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Unit           string    `json:"unit"`
	Brand          string    `json:"brand,omitempty"`
	Grade          string    `json:"grade,omitempty"`
	Specifications string    `json:"specifications,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListMaterialsResponse is a page of materials plus the token for the next page.
type ListMaterialsResponse struct {
	Materials []MaterialResponse `json:"materials"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// CreateMaterialRequestRequest defines the data needed to open a material request.
type CreateMaterialRequestRequest struct {
	MaterialID string                 `json:"materialID" binding:"required"`
	ProjectID  string                 `json:"projectID" binding:"required"`
	Quantity   decimal.Decimal        `json:"quantity" binding:"required"`
	Priority   domain.RequestPriority `json:"priority" binding:"omitempty,oneof=NORMAL URGENT CRITICAL"`
	Purpose    string                 `json:"purpose"`
}

// ListMaterialRequestsParams carries list filters and pagination.
type ListMaterialRequestsParams struct {
	ProjectID *string                       `form:"projectID"`
	Status    *domain.MaterialRequestStatus `form:"status"`
	Limit     int                           `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string                       `form:"nextToken"`
}

// MaterialRequestResponse defines the data returned for a material request.
type MaterialRequestResponse struct {
	RequestID  string                       `json:"requestID"`
	RequestNo  string                       `json:"requestNo"`
	MaterialID string                       `json:"materialID"`
	ProjectID  string                       `json:"projectID"`
	Quantity   decimal.Decimal              `json:"quantity"`
	Status     domain.MaterialRequestStatus `json:"status"`
	Priority   domain.RequestPriority       `json:"priority"`
	Purpose    string                       `json:"purpose,omitempty"`
	Remarks    string                       `json:"remarks,omitempty"`
	Requester  string                       `json:"requester"`
	Approver   string                       `json:"approver,omitempty"`
	Issuer     string                       `json:"issuer,omitempty"`
	Timeline   []TimelineEntryResponse      `json:"timeline"`
	CreatedAt  time.Time                    `json:"createdAt"`
}

// ListMaterialRequestsResponse is a page of requests plus the token for the next page.
type ListMaterialRequestsResponse struct {
	Requests  []MaterialRequestResponse `json:"requests"`
	NextToken *string                   `json:"nextToken,omitempty"`
}

// ToMaterialResponse converts a domain.MaterialMaster to its response form.
func ToMaterialResponse(m *domain.MaterialMaster) MaterialResponse {
	return MaterialResponse{
		MaterialID:     m.MaterialID,
		ItemCode:       m.ItemCode,
		Name:           m.Name,
		Category:       m.Category,
		Unit:           m.Unit,
		Brand:          m.Brand,
		Grade:          m.Grade,
		Specifications: m.Specifications,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMaterialResponses converts a slice of materials.
func ToMaterialResponses(materials []domain.MaterialMaster) []MaterialResponse {
	responses := make([]MaterialResponse, len(materials))
	for i := range materials {
		responses[i] = ToMaterialResponse(&materials[i])
	}
	return responses
}

// ToMaterialRequestResponse converts a domain.MaterialRequest to its response form.
func ToMaterialRequestResponse(r *domain.MaterialRequest) MaterialRequestResponse {
	return MaterialRequestResponse{
		RequestID:  r.RequestID,
		RequestNo:  r.RequestNo,
		MaterialID: r.MaterialID,
		ProjectID:  r.ProjectID,
		Quantity:   r.Quantity,
		Status:     r.Status,
		Priority:   r.Priority,
		Purpose:    r.Purpose,
		Remarks:    r.Remarks,
		Requester:  r.Requester,
		Approver:   r.Approver,
		Issuer:     r.Issuer,
		Timeline:   ToTimelineResponses(r.Timeline),
		CreatedAt:  r.CreatedAt,
	}
}

// ToMaterialRequestResponses converts a slice of material requests.
func ToMaterialRequestResponses(requests []domain.MaterialRequest) []MaterialRequestResponse {
	responses := make([]MaterialRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToMaterialRequestResponse(&requests[i])
	}
	return responses
}

package property

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/casita/internal/property"
)

type propertyResponse struct {
	ID           uuid.UUID       `json:"id"`
	OwnerID      *uuid.UUID      `json:"owner_id,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Address      string          `json:"address"`
	MonthlyPrice int64           `json:"monthly_price"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    int             `json:"bathrooms"`
	SizeSqm      float64         `json:"size_sqm"`
	IsAvailable  bool            `json:"is_available"`
	Status       property.Status `json:"status"`
	Images       []string        `json:"images"`
	CreatedAt    time.Time       `json:"created_at"`
}

type listResponse struct {
	Properties []propertyResponse `json:"properties"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
}

func toResponse(p *property.Property) propertyResponse {
	return propertyResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Name:         p.Name,
		Description:  p.Description,
		Address:      p.Address,
		MonthlyPrice: p.MonthlyPrice,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SizeSqm:      p.SizeSqm,
		IsAvailable:  p.IsAvailable,
		Status:       p.Status,
		Images:       p.Images,
		CreatedAt:    p.CreatedAt,
	}
}

func toListResponse(result *property.ListResult) listResponse {
	resp := listResponse{
		Properties: make([]propertyResponse, len(result.Properties)),
		Total:      result.Total,
		Page:       result.Page,
		PerPage:    result.PerPage,
	}

	for i, p := range result.Properties {
		resp.Properties[i] = toResponse(p)
	}

	return resp
}

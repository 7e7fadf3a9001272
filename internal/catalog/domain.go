package catalog

import (
	"time"

	"todoai-api/internal/common"

	"gorm.io/datatypes"
)

// ProviderIdentity is the administrable record of one AI vendor. Records are
// disabled through IsActive rather than deleted while referenced.
type ProviderIdentity struct {
	ID               common.ProviderID           `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name             string                      `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description      string                      `gorm:"type:text" json:"description"`
	Free             bool                        `gorm:"not null;default:false" json:"isFree"`
	Models           datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"models"`
	TokenURL         string                      `gorm:"type:varchar(500)" json:"tokenUrl,omitempty"`
	DocumentationURL string                      `gorm:"type:varchar(500)" json:"documentationUrl,omitempty"`
	IsActive         bool                        `gorm:"not null" json:"isActive"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for the ProviderIdentity model
func (ProviderIdentity) TableName() string {
	return "providers"
}

// CreateInput holds the fields accepted when creating a provider
type CreateInput struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Free             bool     `json:"isFree"`
	Models           []string `json:"models" binding:"required"`
	TokenURL         string   `json:"tokenUrl"`
	DocumentationURL string   `json:"documentationUrl"`
	IsActive         *bool    `json:"isActive"`
}

// UpdateInput changes only the fields that are set
type UpdateInput struct {
	Description      *string  `json:"description"`
	Free             *bool    `json:"isFree"`
	Models           []string `json:"models"`
	TokenURL         *string  `json:"tokenUrl"`
	DocumentationURL *string  `json:"documentationUrl"`
	IsActive         *bool    `json:"isActive"`
}

// ListFilter selects a page of providers
type ListFilter struct {
	Page       int
	Limit      int
	ActiveOnly bool
}

// Page is one page of providers with the total row count
type Page struct {
	Items      []ProviderIdentity `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps paging values
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	return f
}

// Offset is the row offset of the page
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// vendorLinks are the token and documentation pages of built-in vendors
var vendorLinks = map[string][2]string{
	"huggingface": {"https://huggingface.co/settings/tokens", "https://huggingface.co/docs/api-inference"},
	"openrouter":  {"https://openrouter.ai/keys", "https://openrouter.ai/docs"},
	"gemini":      {"https://aistudio.google.com/app/apikey", "https://ai.google.dev/docs"},
}

package catalog

import (
	"context"

	"todoai-api/internal/common"
)

// Repository persists provider records
type Repository interface {
	Create(ctx context.Context, p *ProviderIdentity) error
	GetByID(ctx context.Context, id common.ProviderID) (*ProviderIdentity, error)
	GetByName(ctx context.Context, name string) (*ProviderIdentity, error)
	List(ctx context.Context, filter ListFilter) ([]ProviderIdentity, int64, error)
	ListActive(ctx context.Context) ([]ProviderIdentity, error)
	Update(ctx context.Context, p *ProviderIdentity) error
	Delete(ctx context.Context, id common.ProviderID) error
}

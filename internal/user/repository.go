package user

import (
	"context"

	"todoai-api/internal/common"
)

// Repository persists users
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id common.UserID) (*User, error)
	UpdateAIIntegration(ctx context.Context, id common.UserID, integration AIIntegration) (*User, error)
}

package user

import (
	"context"
	"errors"

	"todoai-api/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gormRepository implements Repository using GORM
type gormRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormRepository creates a new GORM-based user repository
func NewGormRepository(db *gorm.DB, logger *zap.Logger) Repository {
	return &gormRepository{db: db, logger: logger}
}

func (r *gormRepository) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = common.UserID(common.NewID())
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return common.WrapRepositoryError(err, "create user")
	}
	r.logger.Info("User created", zap.String("userID", string(u.ID)), zap.Bool("anonymous", u.IsAnonymous))
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id common.UserID) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "User", ID: string(id)}
		}
		return nil, common.WrapRepositoryError(err, "get user")
	}
	return &u, nil
}

func (r *gormRepository) UpdateAIIntegration(ctx context.Context, id common.UserID, integration AIIntegration) (*User, error) {
	result := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"ai_integration_type": integration.Vendor,
		"ai_token":            integration.Token,
		"ai_model":            integration.Model,
	})
	if result.Error != nil {
		return nil, common.WrapRepositoryError(result.Error, "update ai integration")
	}
	if result.RowsAffected == 0 {
		return nil, common.NotFoundError{Resource: "User", ID: string(id)}
	}

	r.logger.Info("AI integration updated",
		zap.String("userID", string(id)),
		zap.String("vendor", integration.Vendor))
	return r.GetByID(ctx, id)
}

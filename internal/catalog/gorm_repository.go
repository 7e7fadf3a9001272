package catalog

import (
	"context"
	"errors"

	"todoai-api/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gormRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormRepository creates a new GORM-based provider repository
func NewGormRepository(db *gorm.DB, logger *zap.Logger) Repository {
	return &gormRepository{db: db, logger: logger}
}

func (r *gormRepository) Create(ctx context.Context, p *ProviderIdentity) error {
	if p.ID == "" {
		p.ID = common.ProviderID(common.NewID())
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ConflictError{Resource: "Provider", Key: p.Name}
		}
		return common.WrapRepositoryError(err, "create provider")
	}
	r.logger.Info("Provider created", zap.String("providerID", string(p.ID)), zap.String("name", p.Name))
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id common.ProviderID) (*ProviderIdentity, error) {
	var p ProviderIdentity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "Provider", ID: string(id)}
		}
		return nil, common.WrapRepositoryError(err, "get provider")
	}
	return &p, nil
}

func (r *gormRepository) GetByName(ctx context.Context, name string) (*ProviderIdentity, error) {
	var p ProviderIdentity
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundError{Resource: "Provider", ID: name}
		}
		return nil, common.WrapRepositoryError(err, "get provider by name")
	}
	return &p, nil
}

func (r *gormRepository) List(ctx context.Context, filter ListFilter) ([]ProviderIdentity, int64, error) {
	filter = filter.Normalize()

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&ProviderIdentity{})
		if filter.ActiveOnly {
			q = q.Where("is_active = ?", true)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, common.WrapRepositoryError(err, "count providers")
	}

	var providers []ProviderIdentity
	err := scoped().Order("name ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&providers).Error
	if err != nil {
		return nil, 0, common.WrapRepositoryError(err, "list providers")
	}
	return providers, total, nil
}

func (r *gormRepository) ListActive(ctx context.Context) ([]ProviderIdentity, error) {
	var providers []ProviderIdentity
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&providers).Error
	if err != nil {
		return nil, common.WrapRepositoryError(err, "list active providers")
	}
	return providers, nil
}

func (r *gormRepository) Update(ctx context.Context, p *ProviderIdentity) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return common.WrapRepositoryError(err, "update provider")
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id common.ProviderID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ProviderIdentity{})
	if result.Error != nil {
		return common.WrapRepositoryError(result.Error, "delete provider")
	}
	if result.RowsAffected == 0 {
		return common.NotFoundError{Resource: "Provider", ID: string(id)}
	}
	r.logger.Info("Provider deleted", zap.String("providerID", string(id)))
	return nil
}

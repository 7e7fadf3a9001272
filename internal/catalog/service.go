package catalog

import (
	"context"
	"errors"
	"math"
	"strings"

	"todoai-api/internal/common"
	"todoai-api/internal/llm"

	"go.uber.org/zap"
)

// Service administers provider records
type Service interface {
	Create(ctx context.Context, in CreateInput) (*ProviderIdentity, error)
	List(ctx context.Context, filter ListFilter) (*Page, error)
	ListActive(ctx context.Context) ([]ProviderIdentity, error)
	GetByID(ctx context.Context, id common.ProviderID) (*ProviderIdentity, error)
	GetByName(ctx context.Context, name string) (*ProviderIdentity, error)
	Update(ctx context.Context, id common.ProviderID, in UpdateInput) (*ProviderIdentity, error)
	ToggleStatus(ctx context.Context, id common.ProviderID) (*ProviderIdentity, error)
	Delete(ctx context.Context, id common.ProviderID) error
	Seed(ctx context.Context, catalogs []llm.Catalog) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*ProviderIdentity, error) {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if name == "" {
		return nil, common.ValidationError{Field: "name", Message: "name is required"}
	}
	models, err := cleanModels(in.Models)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, common.ConflictError{Resource: "Provider", Key: name}
	} else if !isNotFound(err) {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	p := &ProviderIdentity{
		ID:               common.ProviderID(common.NewID()),
		Name:             name,
		Description:      strings.TrimSpace(in.Description),
		Free:             in.Free,
		Models:           models,
		TokenURL:         strings.TrimSpace(in.TokenURL),
		DocumentationURL: strings.TrimSpace(in.DocumentationURL),
		IsActive:         active,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter = filter.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ProviderIdentity{}
	}
	return &Page{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *service) ListActive(ctx context.Context) ([]ProviderIdentity, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) GetByID(ctx context.Context, id common.ProviderID) (*ProviderIdentity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*ProviderIdentity, error) {
	return s.repo.GetByName(ctx, strings.ToLower(strings.TrimSpace(name)))
}

func (s *service) Update(ctx context.Context, id common.ProviderID, in UpdateInput) (*ProviderIdentity, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Free != nil {
		p.Free = *in.Free
	}
	if in.Models != nil {
		models, err := cleanModels(in.Models)
		if err != nil {
			return nil, err
		}
		p.Models = models
	}
	if in.TokenURL != nil {
		p.TokenURL = strings.TrimSpace(*in.TokenURL)
	}
	if in.DocumentationURL != nil {
		p.DocumentationURL = strings.TrimSpace(*in.DocumentationURL)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ToggleStatus(ctx context.Context, id common.ProviderID) (*ProviderIdentity, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsActive = !p.IsActive
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Provider status toggled", zap.String("name", p.Name), zap.Bool("active", p.IsActive))
	return p, nil
}

func (s *service) Delete(ctx context.Context, id common.ProviderID) error {
	return s.repo.Delete(ctx, id)
}

// Seed creates a record for every catalog entry that has none. Existing
// records are left untouched so administrator changes survive restarts.
func (s *service) Seed(ctx context.Context, catalogs []llm.Catalog) error {
	for _, c := range catalogs {
		_, err := s.repo.GetByName(ctx, c.Vendor)
		if err == nil {
			continue
		}
		if !isNotFound(err) {
			return err
		}

		links := vendorLinks[c.Vendor]
		p := &ProviderIdentity{
			ID:               common.ProviderID(common.NewID()),
			Name:             c.Vendor,
			Description:      c.Description,
			Free:             c.Free,
			Models:           append([]string(nil), c.Models...),
			TokenURL:         links[0],
			DocumentationURL: links[1],
			IsActive:         true,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		s.logger.Info("Seeded provider", zap.String("name", c.Vendor))
	}
	return nil
}

func cleanModels(models []string) ([]string, error) {
	out := make([]string, 0, len(models))
	for _, m := range models {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, common.ValidationError{Field: "models", Message: "at least one model is required"}
	}
	return out, nil
}

func isNotFound(err error) bool {
	var nf common.NotFoundError
	return errors.As(err, &nf)
}

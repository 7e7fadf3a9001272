package user

import (
	"context"
	"fmt"
	"strings"

	"todoai-api/internal/common"

	"go.uber.org/zap"
)

// VendorChecker reports which AI vendors can be configured
type VendorChecker interface {
	IsSupported(vendor string) bool
	Vendors() []string
}

// Service manages users and their stored AI credential
type Service interface {
	CreateUser(ctx context.Context, name string) (*User, error)
	GetUser(ctx context.Context, id common.UserID) (*User, error)
	ConfigureAIIntegration(ctx context.Context, id common.UserID, integration AIIntegration) (*User, error)
	GetUserCredential(ctx context.Context, id common.UserID) (Credential, error)
}

type service struct {
	repo    Repository
	vendors VendorChecker
	logger  *zap.Logger
}

func NewService(repo Repository, vendors VendorChecker, logger *zap.Logger) Service {
	return &service{repo: repo, vendors: vendors, logger: logger}
}

// CreateUser creates a user, anonymous when name is empty
func (s *service) CreateUser(ctx context.Context, name string) (*User, error) {
	name = strings.TrimSpace(name)
	u := &User{
		ID:          common.UserID(common.NewID()),
		Name:        name,
		IsAnonymous: name == "",
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id common.UserID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ConfigureAIIntegration(ctx context.Context, id common.UserID, integration AIIntegration) (*User, error) {
	integration.Vendor = strings.ToLower(strings.TrimSpace(integration.Vendor))
	integration.Token = strings.TrimSpace(integration.Token)
	integration.Model = strings.TrimSpace(integration.Model)

	if !s.vendors.IsSupported(integration.Vendor) {
		return nil, common.ValidationError{
			Field:   "aiIntegrationType",
			Message: fmt.Sprintf("unsupported AI provider '%s', supported providers: %s", integration.Vendor, strings.Join(s.vendors.Vendors(), ", ")),
		}
	}
	if integration.Token == "" {
		return nil, common.ValidationError{Field: "aiToken", Message: "AI token is required"}
	}

	return s.repo.UpdateAIIntegration(ctx, id, integration)
}

// GetUserCredential returns the stored credential. A user without a token
// yields an empty APIKey, not an error.
func (s *service) GetUserCredential(ctx context.Context, id common.UserID) (Credential, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Credential{}, err
	}
	return Credential{APIKey: u.AIToken, Vendor: u.AIIntegrationType, Model: u.AIModel}, nil
}

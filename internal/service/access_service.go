package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/repository"
)

// ResourceType names the resources the access predicates understand.
type ResourceType string

const (
	ResourceOrder   ResourceType = "order"
	ResourceRequest ResourceType = "request"
	ResourceProfile ResourceType = "profile"
)

// IdentityResolver yields the authenticated identity for the current request,
// or nil when unauthenticated. Satisfied by auth.Resolver.
type IdentityResolver interface {
	Resolve(ctx context.Context) *dto.UserDTO
}

// AccessService evaluates whether an identity may touch a resource. It loads
// ownership projections only — id pairs, never full records — so a denied
// check never costs a full fetch.
type AccessService struct {
	orders   repository.OrderRepository
	requests repository.RequestRepository
	logger   *zap.Logger
}

// NewAccessService constructs the service.
func NewAccessService(orders repository.OrderRepository, requests repository.RequestRepository, logger *zap.Logger) *AccessService {
	return &AccessService{orders: orders, requests: requests, logger: logger}
}

// CanAccessResource reports whether the identity owns the resource or holds
// the admin role. Unknown resource types fail closed, admin or not. Storage
// failures are logged and count as denial.
func (s *AccessService) CanAccessResource(ctx context.Context, ident *dto.UserDTO, resource ResourceType, id string) bool {
	if ident == nil {
		return false
	}
	switch resource {
	case ResourceProfile:
		return ident.ID == id || ident.Role == domain.RoleAdmin
	case ResourceOrder:
		if ident.Role == domain.RoleAdmin {
			return true
		}
		own, err := s.orders.GetOwnership(ctx, id)
		if err != nil {
			s.logDenied(err, resource, id)
			return false
		}
		return ident.ID == own.UserID || ident.ID == own.CreatorID
	case ResourceRequest:
		if ident.Role == domain.RoleAdmin {
			return true
		}
		own, err := s.requests.GetOwnership(ctx, id)
		if err != nil {
			s.logDenied(err, resource, id)
			return false
		}
		return ident.ID == own.FanID || ident.ID == own.CreatorID
	default:
		return false
	}
}

func (s *AccessService) logDenied(err error, resource ResourceType, id string) {
	if errors.Is(err, pgx.ErrNoRows) {
		return
	}
	s.logger.Warn("ownership lookup failed",
		zap.String("resource", string(resource)),
		zap.String("id", id),
		zap.Error(err))
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/api/dto"
	"github.com/spec-kit/creator-platform/internal/domain"
)

func TestCanAccessResource(t *testing.T) {
	orders := &stubOrderRepo{ownership: map[string]*domain.OrderOwnership{
		"o1": {UserID: "u1", CreatorID: "c1", Status: domain.OrderStatusPending, CreatedAt: time.Now()},
	}}
	requests := &stubRequestRepo{ownership: map[string]*domain.RequestOwnership{
		"r1": {FanID: "u1", CreatorID: "c1"},
	}}
	svc := NewAccessService(orders, requests, zap.NewNop())

	ident := func(id string, role domain.Role) *dto.UserDTO {
		return &dto.UserDTO{ID: id, Role: role}
	}

	cases := []struct {
		name     string
		ident    *dto.UserDTO
		resource ResourceType
		id       string
		want     bool
	}{
		{"nil identity", nil, ResourceOrder, "o1", false},

		{"own profile", ident("p1", domain.RoleFan), ResourceProfile, "p1", true},
		{"other profile", ident("p1", domain.RoleFan), ResourceProfile, "p2", false},
		{"admin on any profile", ident("a1", domain.RoleAdmin), ResourceProfile, "p2", true},

		{"order placing user", ident("u1", domain.RoleFan), ResourceOrder, "o1", true},
		{"order fulfilling creator", ident("c1", domain.RoleCreator), ResourceOrder, "o1", true},
		{"order stranger", ident("u2", domain.RoleFan), ResourceOrder, "o1", false},
		{"order admin", ident("a1", domain.RoleAdmin), ResourceOrder, "o1", true},
		{"order missing", ident("u1", domain.RoleFan), ResourceOrder, "nope", false},

		{"request fan", ident("u1", domain.RoleFan), ResourceRequest, "r1", true},
		{"request creator", ident("c1", domain.RoleCreator), ResourceRequest, "r1", true},
		{"request stranger", ident("u2", domain.RoleFan), ResourceRequest, "r1", false},

		{"unknown type fails closed", ident("u1", domain.RoleFan), ResourceType("listing"), "x", false},
		{"unknown type fails closed for admin", ident("a1", domain.RoleAdmin), ResourceType("listing"), "x", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.CanAccessResource(context.Background(), tc.ident, tc.resource, tc.id)
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanAccessResource_StorageFailureDenies(t *testing.T) {
	orders := &stubOrderRepo{ownershipErr: errors.New("timeout")}
	svc := NewAccessService(orders, &stubRequestRepo{}, zap.NewNop())

	ident := &dto.UserDTO{ID: "u1", Role: domain.RoleFan}
	if svc.CanAccessResource(context.Background(), ident, ResourceOrder, "o1") {
		t.Error("storage failure must deny")
	}
}

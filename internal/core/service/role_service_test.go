package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/comedor/admin-api/internal/core/domain"
	"github.com/comedor/admin-api/internal/core/ports"
)

func TestRoleService_ListRoles(t *testing.T) {
	roles := newStubRoleRepo(domain.RoleStudent, domain.RoleAdmin)
	svc := NewRoleService(roles, newStubUserRepo(roles), zerolog.Nop())

	got, err := svc.ListRoles(context.Background())
	if err != nil {
		t.Fatalf("ListRoles: %v", err)
	}
	if len(got) != 2 || got[0].Name != domain.RoleAdmin {
		t.Fatalf("unexpected roles: %+v", got)
	}
}

func TestRoleService_DeleteRole(t *testing.T) {
	roles := newStubRoleRepo(domain.RoleAdmin, domain.RolePartner, "chef")
	users := newStubUserRepo(roles)
	svc := NewRoleService(roles, users, zerolog.Nop())
	userSvc := NewUserService(UserServiceDeps{
		Users:     users,
		Roles:     roles,
		Generator: &stubGenerator{},
		Hasher:    stubHasher{},
		Notifier:  &recordingNotifier{},
	}, zerolog.Nop())

	if _, err := userSvc.CreateUser(context.Background(), ports.CreateUserInput{Username: "ana", Email: "ana@example.com", RoleName: domain.RoleAdmin}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	t.Run("in use", func(t *testing.T) {
		err := svc.DeleteRole(context.Background(), domain.RoleAdmin)
		if !errors.Is(err, domain.ErrRoleInUse) {
			t.Fatalf("expected ErrRoleInUse, got %v", err)
		}
		if _, ok := roles.byName[domain.RoleAdmin]; !ok {
			t.Fatal("role must survive")
		}
	})

	t.Run("unused", func(t *testing.T) {
		if err := svc.DeleteRole(context.Background(), "chef"); err != nil {
			t.Fatalf("DeleteRole: %v", err)
		}
		if _, ok := roles.byName["chef"]; ok {
			t.Fatal("role not deleted")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if err := svc.DeleteRole(context.Background(), "ghost"); !errors.Is(err, domain.ErrRoleNotFound) {
			t.Fatalf("expected ErrRoleNotFound, got %v", err)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		roles.findErr = errors.New("connection reset")
		defer func() { roles.findErr = nil }()
		if err := svc.DeleteRole(context.Background(), domain.RolePartner); !errors.Is(err, domain.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
	})
}

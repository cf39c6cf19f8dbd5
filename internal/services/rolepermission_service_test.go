package services

import (
	"testing"

	"workshop-management-backend/internal/cache"
)

func TestCan(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewRolePermissionService(repo, cache.NewMemoryCache(), cfg)

	role := seedRole(t, repo, "staff", "checkin.perform", "checkin.search")
	user := seedUser(t, repo, role, "Staff User", "staff@example.com", "x", true)
	inactive := seedUser(t, repo, role, "Gone User", "gone@example.com", "x", false)

	t.Run("Allowed", func(t *testing.T) {
		allowed, err := svc.Can(user.ID.String(), "checkin.perform")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed {
			t.Error("expected staff to perform check-in")
		}
	})

	t.Run("Denied", func(t *testing.T) {
		allowed, err := svc.Can(user.ID.String(), "workshops.delete")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allowed {
			t.Error("expected route outside the allow list to be denied")
		}
	})

	t.Run("InactiveUser", func(t *testing.T) {
		allowed, err := svc.Can(inactive.ID.String(), "checkin.perform")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if allowed {
			t.Error("expected inactive user to be denied")
		}
	})

	t.Run("EmptyArguments", func(t *testing.T) {
		if allowed, _ := svc.Can("", "checkin.perform"); allowed {
			t.Error("expected empty user id to be denied")
		}
		if allowed, _ := svc.Can(user.ID.String(), ""); allowed {
			t.Error("expected empty route name to be denied")
		}
	})
}

func TestSetPermissionsInvalidatesCache(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewRolePermissionService(repo, cache.NewMemoryCache(), cfg)

	role := seedRole(t, repo, "staff")
	user := seedUser(t, repo, role, "Staff User", "staff@example.com", "x", true)

	// Denied decision lands in the cache
	allowed, err := svc.Can(user.ID.String(), "workshops.list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("expected denial before grant")
	}

	if err := svc.SetPermissions(role.ID.String(), []string{"workshops.list"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	allowed, err = svc.Can(user.ID.String(), "workshops.list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected grant to take effect immediately after SetPermissions")
	}
}

func TestClearUserCache(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewRolePermissionService(repo, cache.NewMemoryCache(), cfg)

	role := seedRole(t, repo, "staff", "checkin.perform")
	user := seedUser(t, repo, role, "Staff User", "staff@example.com", "x", true)

	allowed, err := svc.Can(user.ID.String(), "checkin.perform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("expected initial grant")
	}

	// Deactivate directly; the cached grant would mask it
	if err := repo.DB.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	svc.ClearUserCache(user.ID.String())

	allowed, err = svc.Can(user.ID.String(), "checkin.perform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("expected denial after deactivation and cache clear")
	}
}

func TestSetPermissionsReplacesList(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewRolePermissionService(repo, cache.NewMemoryCache(), cfg)

	role := seedRole(t, repo, "staff", "checkin.perform", "checkin.undo")

	if err := svc.SetPermissions(role.ID.String(), []string{"checkin.search"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	permissions, err := svc.GetPermissions(role.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(permissions) != 1 || permissions[0].RouteName != "checkin.search" {
		t.Errorf("expected wholesale replacement, got %+v", permissions)
	}
}

package services

import (
	"testing"

	"workshop-management-backend/internal/utils"
)

func TestLogin(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewAuthService(repo, cfg)

	role := seedRole(t, repo, "admin")
	hash, err := utils.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	seedUser(t, repo, role, "Admin", "admin@example.com", hash, true)

	inactiveHash, _ := utils.HashPassword("secret123")
	seedUser(t, repo, role, "Former Admin", "former@example.com", inactiveHash, false)

	t.Run("Success", func(t *testing.T) {
		result, err := svc.Login("Admin@Example.com", "secret123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Token == "" {
			t.Error("expected a signed token")
		}
		if result.User.Email != "admin@example.com" {
			t.Errorf("unexpected user: %q", result.User.Email)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		if _, err := svc.Login("admin@example.com", "nope-nope"); err == nil {
			t.Fatal("expected wrong-password rejection")
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		if _, err := svc.Login("ghost@example.com", "secret123"); err == nil {
			t.Fatal("expected unknown-email rejection")
		}
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		if _, err := svc.Login("former@example.com", "secret123"); err == nil {
			t.Fatal("expected inactive-account rejection")
		}
	})
}

func TestExportUserRows(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewAuthService(repo, cfg)

	role := seedRole(t, repo, "staff")
	seedUser(t, repo, role, "Active User", "active@example.com", "x", true)
	seedUser(t, repo, role, "Former User", "former@example.com", "x", false)

	header, rows, err := svc.ExportRows()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(header) != 5 || header[3] != "is_active" {
		t.Errorf("unexpected header: %v", header)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	byEmail := make(map[string][]string, len(rows))
	for _, row := range rows {
		byEmail[row[1]] = row
	}

	active := byEmail["active@example.com"]
	if active == nil || active[2] != "staff" || active[3] != "yes" {
		t.Errorf("unexpected active row: %v", active)
	}
	if active[4] == "" {
		t.Error("expected created_at column to be filled")
	}

	former := byEmail["former@example.com"]
	if former == nil || former[3] != "no" {
		t.Errorf("unexpected inactive row: %v", former)
	}
}

func TestCreateUser(t *testing.T) {
	repo, cfg := newTestRepo(t)
	svc := NewAuthService(repo, cfg)

	role := seedRole(t, repo, "staff")

	user, err := svc.CreateUser(CreateUserRequest{
		Name:     "New Staff",
		Email:    "Staff@Example.com",
		Password: "secret123",
		RoleID:   role.ID.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "staff@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.Password == "secret123" {
		t.Error("expected password to be hashed")
	}

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.CreateUser(CreateUserRequest{
			Name:     "Other",
			Email:    "staff@example.com",
			Password: "secret123",
			RoleID:   role.ID.String(),
		})
		if err == nil {
			t.Fatal("expected duplicate email rejection")
		}
	})

	t.Run("ShortPassword", func(t *testing.T) {
		_, err := svc.CreateUser(CreateUserRequest{
			Name:     "Short",
			Email:    "short@example.com",
			Password: "abc",
			RoleID:   role.ID.String(),
		})
		if err == nil {
			t.Fatal("expected short password rejection")
		}
	})

	t.Run("UnknownRole", func(t *testing.T) {
		_, err := svc.CreateUser(CreateUserRequest{
			Name:     "Lost",
			Email:    "lost@example.com",
			Password: "secret123",
			RoleID:   "00000000-0000-0000-0000-000000000000",
		})
		if err == nil {
			t.Fatal("expected unknown role rejection")
		}
	})
}

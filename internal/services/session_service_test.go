package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

func newSessionFixture(t *testing.T) (SessionService, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	svc := NewSessionService(repo, testLogger())
	return svc, repo
}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionFixture(t)

	if err := svc.Login(ctx, "student-1", models.RoleStudent); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	role, err := svc.CurrentRole(ctx, "student-1")
	if err != nil {
		t.Fatalf("CurrentRole failed: %v", err)
	}
	if role != models.RoleStudent {
		t.Errorf("expected %s, got %s", models.RoleStudent, role)
	}

	if err := svc.Login(ctx, "", models.RoleStudent); !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest for empty subject, got %v", err)
	}
	if err := svc.Login(ctx, "student-1", "superuser"); !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest for unknown role, got %v", err)
	}
	if err := svc.Login(ctx, "student-1", models.RoleNone); !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest for the empty role, got %v", err)
	}
}

func TestSessionService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionFixture(t)

	if err := svc.Login(ctx, "faculty-1", models.RoleFaculty); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := svc.Logout(ctx, "faculty-1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	role, err := svc.CurrentRole(ctx, "faculty-1")
	if err != nil {
		t.Fatalf("CurrentRole failed: %v", err)
	}
	if role != models.RoleNone {
		t.Errorf("expected cleared role, got %s", role)
	}

	// Logging out twice is harmless.
	if err := svc.Logout(ctx, "faculty-1"); err != nil {
		t.Errorf("repeated logout failed: %v", err)
	}
}

func TestSessionService_ResolveAccess(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, svc SessionService, subject string, role models.UserRole) {
		t.Helper()
		if err := svc.Login(ctx, subject, role); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
	}

	t.Run("role reaches its own area", func(t *testing.T) {
		svc, _ := newSessionFixture(t)
		login(t, svc, "student-1", models.RoleStudent)

		decision, err := svc.ResolveAccess(ctx, "student-1", "/userdashboard/reports")
		if err != nil {
			t.Fatalf("ResolveAccess failed: %v", err)
		}
		if !decision.Allowed {
			t.Errorf("expected access, got redirect to %s", decision.Redirect)
		}
		if decision.Role != models.RoleStudent {
			t.Errorf("decision should carry the role, got %s", decision.Role)
		}
	})

	t.Run("wrong role lands on its own dashboard", func(t *testing.T) {
		svc, _ := newSessionFixture(t)
		login(t, svc, "company-1", models.RoleCompany)

		decision, err := svc.ResolveAccess(ctx, "company-1", "/scaddashboard")
		if err != nil {
			t.Fatalf("ResolveAccess failed: %v", err)
		}
		if decision.Allowed {
			t.Error("company must not reach the SCAD area")
		}
		if decision.Redirect != "/companydashboard" {
			t.Errorf("expected redirect to /companydashboard, got %s", decision.Redirect)
		}
	})

	t.Run("no session lands on login", func(t *testing.T) {
		svc, _ := newSessionFixture(t)

		decision, err := svc.ResolveAccess(ctx, "stranger", "/facultydashboard")
		if err != nil {
			t.Fatalf("ResolveAccess failed: %v", err)
		}
		if decision.Allowed {
			t.Error("anonymous access must be denied")
		}
		if decision.Redirect != "/login" {
			t.Errorf("expected redirect to /login, got %s", decision.Redirect)
		}
	})

	t.Run("public paths stay open", func(t *testing.T) {
		svc, _ := newSessionFixture(t)

		decision, err := svc.ResolveAccess(ctx, "stranger", "/about")
		if err != nil {
			t.Fatalf("ResolveAccess failed: %v", err)
		}
		if !decision.Allowed {
			t.Errorf("expected public path allowed, got redirect to %s", decision.Redirect)
		}
	})

	t.Run("each dashboard admits exactly its role", func(t *testing.T) {
		cases := []struct {
			role models.UserRole
			path string
		}{
			{models.RoleStudent, "/userdashboard"},
			{models.RoleScad, "/scaddashboard"},
			{models.RoleCompany, "/companydashboard"},
			{models.RoleFaculty, "/facultydashboard"},
		}

		for _, tc := range cases {
			svc, _ := newSessionFixture(t)
			login(t, svc, "subject", tc.role)

			for _, other := range cases {
				decision, err := svc.ResolveAccess(ctx, "subject", other.path)
				if err != nil {
					t.Fatalf("ResolveAccess failed: %v", err)
				}
				if other.role == tc.role && !decision.Allowed {
					t.Errorf("%s denied its own area %s", tc.role, other.path)
				}
				if other.role != tc.role && decision.Allowed {
					t.Errorf("%s reached foreign area %s", tc.role, other.path)
				}
			}
		}
	})
}

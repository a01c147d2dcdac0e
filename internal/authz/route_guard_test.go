package authz

import (
	"testing"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

func TestCanAccess(t *testing.T) {
	t.Run("public route is reachable by everyone", func(t *testing.T) {
		for _, role := range []models.UserRole{models.RoleNone, models.RoleStudent, models.RoleScad, models.RoleFaculty, models.RoleCompany} {
			if !CanAccess(nil, role) {
				t.Errorf("public route rejected role %s", role)
			}
		}
	})

	t.Run("none never passes a guarded route", func(t *testing.T) {
		for i := range Rules {
			if CanAccess(&Rules[i], models.RoleNone) {
				t.Errorf("RoleNone allowed on %s", Rules[i].Path)
			}
		}
	})

	t.Run("role passes iff listed in the rule", func(t *testing.T) {
		roles := []models.UserRole{models.RoleStudent, models.RoleScad, models.RoleFaculty, models.RoleCompany}
		for i := range Rules {
			rule := &Rules[i]
			allowed := make(map[models.UserRole]bool)
			for _, r := range rule.AllowedRoles {
				allowed[r] = true
			}
			for _, role := range roles {
				if got := CanAccess(rule, role); got != allowed[role] {
					t.Errorf("CanAccess(%s, %s) = %v, want %v", rule.Path, role, got, allowed[role])
				}
			}
		}
	})
}

func TestFind(t *testing.T) {
	cases := []struct {
		path string
		want string // expected rule path, "" for public
	}{
		{"/", ""},
		{"/login", ""},
		{"/about", ""},
		{"/userdashboard", "/userdashboard"},
		{"/userdashboard/accepted", "/userdashboard"},
		{"/userdashboard/internship", "/userdashboard/internship"},
		{"/userdashboard/internship/42", "/userdashboard/internship"},
		{"/scaddashboard/statistics", "/scaddashboard/statistics"},
		{"/companydashboardX", ""}, // prefix match requires a path boundary
	}

	for _, tc := range cases {
		rule := Find(tc.path)
		switch {
		case tc.want == "" && rule != nil:
			t.Errorf("Find(%s) = %s, want public", tc.path, rule.Path)
		case tc.want != "" && (rule == nil || rule.Path != tc.want):
			t.Errorf("Find(%s) = %v, want rule %s", tc.path, rule, tc.want)
		}
	}
}

func TestResolveRedirect(t *testing.T) {
	cases := map[models.UserRole]string{
		models.RoleStudent: "/userdashboard",
		models.RoleScad:    "/scaddashboard",
		models.RoleFaculty: "/facultydashboard",
		models.RoleCompany: "/companydashboard",
		models.RoleNone:    "/login",
	}
	for role, want := range cases {
		if got := ResolveRedirect(role); got != want {
			t.Errorf("ResolveRedirect(%s) = %s, want %s", role, got, want)
		}
	}

	// Wrong-role access ends up on the subject's own landing page, not on
	// the login page: a student asking for the company dashboard.
	rule := Find("/companydashboard")
	if CanAccess(rule, models.RoleStudent) {
		t.Fatal("student should not reach /companydashboard")
	}
	if got := ResolveRedirect(models.RoleStudent); got != "/userdashboard" {
		t.Errorf("student redirect = %s, want /userdashboard", got)
	}

	// Unauthenticated access to a guarded route goes to /login.
	rule = Find("/userdashboard")
	if CanAccess(rule, models.RoleNone) {
		t.Fatal("RoleNone should not reach /userdashboard")
	}
	if got := ResolveRedirect(models.RoleNone); got != LoginPath {
		t.Errorf("none redirect = %s, want %s", got, LoginPath)
	}
}

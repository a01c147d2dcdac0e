// Package authz holds the static route table for the dashboard surface and
// the pure access decisions the route-guard middleware applies to it.
package authz

import (
	"strings"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

// RouteRule maps a route path to the set of roles allowed to reach it.
// Routes without a rule are public.
type RouteRule struct {
	Path         string
	AllowedRoles []models.UserRole
}

// LoginPath is where unauthenticated subjects are sent.
const LoginPath = "/login"

// Per-role landing pages, used both after login and when a subject requests
// a view its role cannot reach.
var landingPages = map[models.UserRole]string{
	models.RoleStudent: "/userdashboard",
	models.RoleScad:    "/scaddashboard",
	models.RoleFaculty: "/facultydashboard",
	models.RoleCompany: "/companydashboard",
}

// Rules is the fixed routing table. Loaded once, never mutated. Public pages
// (home, about, contact, login, onboarding) carry no rule on purpose.
var Rules = []RouteRule{
	{Path: "/userdashboard", AllowedRoles: []models.UserRole{models.RoleStudent}},
	{Path: "/userdashboard/internship", AllowedRoles: []models.UserRole{models.RoleStudent}},
	{Path: "/userdashboard/history", AllowedRoles: []models.UserRole{models.RoleStudent}},
	{Path: "/userdashboard/workshops", AllowedRoles: []models.UserRole{models.RoleStudent}},
	{Path: "/userdashboard/reports", AllowedRoles: []models.UserRole{models.RoleStudent}},
	{Path: "/scaddashboard", AllowedRoles: []models.UserRole{models.RoleScad}},
	{Path: "/scaddashboard/reports", AllowedRoles: []models.UserRole{models.RoleScad}},
	{Path: "/scaddashboard/workshops", AllowedRoles: []models.UserRole{models.RoleScad}},
	{Path: "/scaddashboard/statistics", AllowedRoles: []models.UserRole{models.RoleScad}},
	{Path: "/companydashboard", AllowedRoles: []models.UserRole{models.RoleCompany}},
	{Path: "/companydashboard/posts", AllowedRoles: []models.UserRole{models.RoleCompany}},
	{Path: "/companydashboard/interns", AllowedRoles: []models.UserRole{models.RoleCompany}},
	{Path: "/facultydashboard", AllowedRoles: []models.UserRole{models.RoleFaculty}},
	{Path: "/facultydashboard/reports", AllowedRoles: []models.UserRole{models.RoleFaculty}},
}

// Find returns the rule for path, matching the longest registered prefix so
// that parameterized sub-paths (e.g. /userdashboard/:status) inherit the
// parent rule. Nil means the path is public.
func Find(path string) *RouteRule {
	var match *RouteRule
	for i := range Rules {
		rule := &Rules[i]
		if path == rule.Path || strings.HasPrefix(path, rule.Path+"/") {
			if match == nil || len(rule.Path) > len(match.Path) {
				match = rule
			}
		}
	}
	return match
}

// CanAccess decides whether role may reach the route guarded by rule.
// A nil rule is a public route. RoleNone never passes a guarded route.
func CanAccess(rule *RouteRule, role models.UserRole) bool {
	if rule == nil {
		return true
	}
	if role == models.RoleNone {
		return false
	}
	for _, allowed := range rule.AllowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// ResolveRedirect returns the landing page for role. Authenticated subjects
// land on their own dashboard, so a wrong-role request is redirected there
// rather than to the login page; the distinction keeps "unauthorized" from
// looking like "unauthenticated".
func ResolveRedirect(role models.UserRole) string {
	if page, ok := landingPages[role]; ok {
		return page
	}
	return LoginPath
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/internship-service/internal/authz"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

type sessionService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewSessionService(repo repositories.Repository, logger *slog.Logger) SessionService {
	return &sessionService{
		repo:   repo,
		logger: logger,
	}
}

func (s *sessionService) Login(ctx context.Context, subject string, role models.UserRole) error {
	if subject == "" {
		return ErrBadRequest
	}
	if !role.Valid() || role == models.RoleNone {
		return fmt.Errorf("%w: invalid role %q", ErrBadRequest, role)
	}

	if err := s.repo.Session().SetRole(ctx, subject, role); err != nil {
		return fmt.Errorf("failed to store session role: %w", err)
	}

	s.logger.Info("Session opened", "subject", subject, "role", role)
	return nil
}

// Logout clears the stored role. Logging out an already logged-out subject
// succeeds.
func (s *sessionService) Logout(ctx context.Context, subject string) error {
	if err := s.repo.Session().SetRole(ctx, subject, models.RoleNone); err != nil {
		return fmt.Errorf("failed to clear session role: %w", err)
	}

	s.logger.Info("Session closed", "subject", subject)
	return nil
}

func (s *sessionService) CurrentRole(ctx context.Context, subject string) (models.UserRole, error) {
	return s.repo.Session().GetRole(ctx, subject)
}

func (s *sessionService) ResolveAccess(ctx context.Context, subject string, path string) (*AccessDecision, error) {
	role, err := s.repo.Session().GetRole(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to read session role: %w", err)
	}

	rule := authz.Find(path)
	if authz.CanAccess(rule, role) {
		return &AccessDecision{Allowed: true, Role: role}, nil
	}

	// Unauthorized users land on their own dashboard, unauthenticated ones
	// on login. The denial itself is silent.
	decision := &AccessDecision{
		Allowed:  false,
		Redirect: authz.ResolveRedirect(role),
		Role:     role,
	}

	s.logger.Debug("Navigation denied",
		"subject", subject,
		"path", path,
		"role", role,
		"redirect", decision.Redirect)
	return decision, nil
}

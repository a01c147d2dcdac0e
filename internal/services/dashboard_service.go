package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/internship-service/internal/export"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

type dashboardService struct {
	repo     repositories.Repository
	logger   *slog.Logger
	exporter *export.ExcelExporter
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:     repo,
		logger:   logger,
		exporter: export.NewExcelExporter(logger),
	}
}

func (s *dashboardService) GetCycleStats(ctx context.Context, userID string) (*repositories.CycleStats, error) {
	stats, err := s.repo.Dashboard().GetCycleStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle stats: %w", err)
	}
	return stats, nil
}

func (s *dashboardService) ExportApplications(ctx context.Context, userID string) (*excelize.File, error) {
	s.logger.Info("Exporting applications", "user_id", userID)

	apps, _, err := s.repo.Application().List(ctx, repositories.ApplicationFilters{
		IncludeRemoved: true,
		Limit:          -1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for export: %w", err)
	}

	return s.exporter.ExportApplications(apps)
}

func (s *dashboardService) ExportCycleStats(ctx context.Context, userID string) (*excelize.File, error) {
	stats, err := s.repo.Dashboard().GetCycleStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle stats: %w", err)
	}
	return s.exporter.ExportCycleStats(stats)
}

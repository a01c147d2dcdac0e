package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-service/internal/cache"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewDashboardPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.DashboardRepository {
	helper := cache.NewCacheHelper(nil, cache.StatsCacheConfig.Prefix)
	if cacheManager != nil {
		helper = cacheManager.Stats
	}
	return &DashboardPostgreSQL{db: db, cache: helper}
}

type statusCount struct {
	Status string
	Count  int
}

// GetCycleStats aggregates the numbers shown on the SCAD dashboard.
// Results are cached briefly since the queries fan out over five tables.
func (d *DashboardPostgreSQL) GetCycleStats(ctx context.Context) (*repositories.CycleStats, error) {
	stats := &repositories.CycleStats{}
	err := d.cache.CacheOrExecute(ctx, "cycle", stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return d.computeCycleStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (d *DashboardPostgreSQL) computeCycleStats(ctx context.Context) (*repositories.CycleStats, error) {
	stats := &repositories.CycleStats{
		ApplicationsByState: make(map[models.ReviewStatus]int),
		ReportsByStatus:     make(map[models.ReportStatus]int),
		PostsByStatus:       make(map[models.PostStatus]int),
	}

	var appCounts []statusCount
	err := d.db.WithContext(ctx).Model(&models.InternshipApplication{}).
		Select("status, COUNT(*) as count").
		Where("removed_at IS NULL").
		Group("status").
		Scan(&appCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	for _, c := range appCounts {
		stats.ApplicationsByState[models.ReviewStatus(c.Status)] = c.Count
		stats.TotalApplications += c.Count
	}

	type internCounts struct {
		Current   int
		Completed int
		Evaluated int
	}
	var interns internCounts
	err = d.db.WithContext(ctx).Model(&models.InternshipApplication{}).
		Select(
			"COUNT(*) FILTER (WHERE is_current_intern) as current, "+
				"COUNT(*) FILTER (WHERE is_completed) as completed, "+
				"COUNT(*) FILTER (WHERE is_evaluated) as evaluated").
		Where("removed_at IS NULL").
		Scan(&interns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count interns: %w", err)
	}
	stats.CurrentInterns = interns.Current
	stats.CompletedInterns = interns.Completed
	stats.EvaluatedInterns = interns.Evaluated

	var reportCounts []statusCount
	err = d.db.WithContext(ctx).Model(&models.InternshipReport{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&reportCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	for _, c := range reportCounts {
		stats.ReportsByStatus[models.ReportStatus(c.Status)] = c.Count
	}

	var appealed int64
	err = d.db.WithContext(ctx).Model(&models.InternshipReport{}).
		Where("appealed = ?", true).
		Count(&appealed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count appealed reports: %w", err)
	}
	stats.AppealedReports = int(appealed)

	var postCounts []statusCount
	err = d.db.WithContext(ctx).Model(&models.InternshipPost{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&postCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	for _, c := range postCounts {
		stats.PostsByStatus[models.PostStatus(c.Status)] = c.Count
	}

	var signups int64
	err = d.db.WithContext(ctx).Model(&models.WorkshopRegistration{}).
		Count(&signups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count workshop signups: %w", err)
	}
	stats.WorkshopSignups = int(signups)

	var certs int64
	err = d.db.WithContext(ctx).Model(&models.WorkshopRegistration{}).
		Where("certificate_issued = ?", true).
		Count(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count certificates: %w", err)
	}
	stats.CertificatesIssued = int(certs)

	return stats, nil
}

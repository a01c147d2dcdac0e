package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-service/internal/cache"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

type ApplicationPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewApplicationPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ApplicationRepository {
	return &ApplicationPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *ApplicationPostgreSQL) Create(ctx context.Context, app *models.InternshipApplication) error {
	if err := a.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Application, "list:*")
	return nil
}

func (a *ApplicationPostgreSQL) GetByID(ctx context.Context, id uint) (*models.InternshipApplication, error) {
	var app models.InternshipApplication
	err := a.db.WithContext(ctx).
		Preload("Post").
		Preload("Student").
		First(&app, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (a *ApplicationPostgreSQL) Update(ctx context.Context, app *models.InternshipApplication) error {
	if err := a.db.WithContext(ctx).Save(app).Error; err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Application, fmt.Sprintf("id:%d", app.ID))
	cache.SafeInvalidatePattern(ctx, a.cacheManager.Application, "list:*")
	return nil
}

func (a *ApplicationPostgreSQL) List(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.InternshipApplication, int64, error) {
	query := a.db.WithContext(ctx).Model(&models.InternshipApplication{})
	query = applyApplicationFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query = applySorting(query, filters.SortBy, filters.SortOrder, "created_at")
	query = applyPagination(query, filters.Limit, filters.Offset)

	var apps []*models.InternshipApplication
	if err := query.Preload("Post").Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, total, nil
}

// ListCurrentInterns excludes pending-removal records: an unmarked intern
// leaves the active view immediately, before the removal timer commits.
func (a *ApplicationPostgreSQL) ListCurrentInterns(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.InternshipApplication, int64, error) {
	current := true
	notPending := false
	filters.IsCurrentIntern = &current
	filters.PendingRemoval = &notPending
	filters.IncludeRemoved = false
	return a.List(ctx, filters)
}

func applyApplicationFilters(query *gorm.DB, filters repositories.ApplicationFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PostID != nil {
		query = query.Where("post_id = ?", *filters.PostID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.IsCurrentIntern != nil {
		query = query.Where("is_current_intern = ?", *filters.IsCurrentIntern)
	}
	if filters.PendingRemoval != nil {
		query = query.Where("pending_removal = ?", *filters.PendingRemoval)
	}
	if !filters.IncludeRemoved {
		query = query.Where("removed_at IS NULL")
	}
	return query
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-service/internal/cache"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

type WorkshopPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewWorkshopPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.WorkshopRepository {
	return &WorkshopPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (w *WorkshopPostgreSQL) Create(ctx context.Context, workshop *models.Workshop) error {
	if err := w.db.WithContext(ctx).Create(workshop).Error; err != nil {
		return fmt.Errorf("failed to create workshop: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, w.cacheManager.Workshop, "list:*")
	return nil
}

func (w *WorkshopPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Workshop, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var workshop models.Workshop

	err := w.cacheManager.Workshop.CacheOrExecute(ctx, cacheKey, &workshop, cache.WorkshopCacheConfig.TTL, func() (interface{}, error) {
		var dbWorkshop models.Workshop
		if err := w.db.WithContext(ctx).First(&dbWorkshop, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get workshop: %w", err)
		}
		return &dbWorkshop, nil
	})
	if err != nil {
		return nil, err
	}

	return &workshop, nil
}

func (w *WorkshopPostgreSQL) Update(ctx context.Context, workshop *models.Workshop) error {
	if err := w.db.WithContext(ctx).Save(workshop).Error; err != nil {
		return fmt.Errorf("failed to update workshop: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, w.cacheManager.Workshop, fmt.Sprintf("id:%d", workshop.ID))
	cache.SafeInvalidatePattern(ctx, w.cacheManager.Workshop, "list:*")
	return nil
}

func (w *WorkshopPostgreSQL) List(ctx context.Context, filters repositories.WorkshopFilters) ([]*models.Workshop, int64, error) {
	query := w.db.WithContext(ctx).Model(&models.Workshop{})

	if filters.Upcoming != nil && *filters.Upcoming {
		query = query.Where("starts_at > ?", time.Now())
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count workshops: %w", err)
	}

	query = applyPagination(query.Order("starts_at ASC"), filters.Limit, filters.Offset)

	var workshops []*models.Workshop
	if err := query.Find(&workshops).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list workshops: %w", err)
	}

	return workshops, total, nil
}

func (w *WorkshopPostgreSQL) Register(ctx context.Context, reg *models.WorkshopRegistration) error {
	if err := w.db.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("failed to register for workshop: %w", err)
	}
	return nil
}

func (w *WorkshopPostgreSQL) GetRegistration(ctx context.Context, workshopID uint, studentID string) (*models.WorkshopRegistration, error) {
	var reg models.WorkshopRegistration
	err := w.db.WithContext(ctx).
		Where("workshop_id = ? AND student_id = ?", workshopID, studentID).
		First(&reg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}

func (w *WorkshopPostgreSQL) UpdateRegistration(ctx context.Context, reg *models.WorkshopRegistration) error {
	if err := w.db.WithContext(ctx).Save(reg).Error; err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	return nil
}

func (w *WorkshopPostgreSQL) ListRegistrations(ctx context.Context, workshopID uint) ([]*models.WorkshopRegistration, error) {
	var regs []*models.WorkshopRegistration
	err := w.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Order("created_at ASC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

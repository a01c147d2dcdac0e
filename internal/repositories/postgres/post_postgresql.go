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

type PostPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewPostPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.PostRepository {
	return &PostPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// ===== DRAFTS =====

func (p *PostPostgreSQL) CreateDraft(ctx context.Context, draft *models.PostDraft) error {
	if err := p.db.WithContext(ctx).Create(draft).Error; err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}
	return nil
}

func (p *PostPostgreSQL) GetDraft(ctx context.Context, id uint) (*models.PostDraft, error) {
	var draft models.PostDraft
	if err := p.db.WithContext(ctx).First(&draft, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return &draft, nil
}

func (p *PostPostgreSQL) UpdateDraft(ctx context.Context, draft *models.PostDraft) error {
	if err := p.db.WithContext(ctx).Save(draft).Error; err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	return nil
}

// DeleteDraft removes the draft permanently. Drafts are not soft-deleted;
// deletion within a collection is irreversible.
func (p *PostPostgreSQL) DeleteDraft(ctx context.Context, id uint) error {
	result := p.db.WithContext(ctx).Delete(&models.PostDraft{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete draft: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (p *PostPostgreSQL) ListDrafts(ctx context.Context, companyID string) ([]*models.PostDraft, error) {
	var drafts []*models.PostDraft
	err := p.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("last_edited_at DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return drafts, nil
}

// ===== POSTS =====

func (p *PostPostgreSQL) CreatePost(ctx context.Context, post *models.InternshipPost) error {
	if err := p.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Post, "list:*")
	return nil
}

func (p *PostPostgreSQL) GetPost(ctx context.Context, id uint) (*models.InternshipPost, error) {
	var post models.InternshipPost
	if err := p.db.WithContext(ctx).Preload("Company").First(&post, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (p *PostPostgreSQL) UpdatePost(ctx context.Context, post *models.InternshipPost) error {
	if err := p.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Post, fmt.Sprintf("id:%d", post.ID))
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Post, "list:*")
	return nil
}

func (p *PostPostgreSQL) DeletePost(ctx context.Context, id uint) error {
	result := p.db.WithContext(ctx).Unscoped().Delete(&models.InternshipPost{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Post, fmt.Sprintf("id:%d", id))
	cache.SafeInvalidatePattern(ctx, p.cacheManager.Post, "list:*")
	return nil
}

func (p *PostPostgreSQL) ListPosts(ctx context.Context, filters repositories.PostFilters) ([]*models.InternshipPost, int64, error) {
	query := p.db.WithContext(ctx).Model(&models.InternshipPost{})

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CompanyID != nil {
		query = query.Where("company_id = ?", *filters.CompanyID)
	}
	if filters.IsPaid != nil {
		query = query.Where("is_paid = ?", *filters.IsPaid)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query = applySorting(query, filters.SortBy, filters.SortOrder, "published_at")
	query = applyPagination(query, filters.Limit, filters.Offset)

	var posts []*models.InternshipPost
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}

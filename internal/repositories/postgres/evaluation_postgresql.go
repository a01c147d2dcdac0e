package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

type EvaluationPostgreSQL struct {
	db *gorm.DB
}

func NewEvaluationPostgreSQL(db *gorm.DB) repositories.EvaluationRepository {
	return &EvaluationPostgreSQL{db: db}
}

func (e *EvaluationPostgreSQL) Create(ctx context.Context, eval *models.Evaluation) error {
	if err := e.db.WithContext(ctx).Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (e *EvaluationPostgreSQL) GetByEvaluatorAndApplication(ctx context.Context, evaluatorID string, applicationID uint) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := e.db.WithContext(ctx).
		Where("evaluator_id = ? AND application_id = ?", evaluatorID, applicationID).
		First(&eval).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return &eval, nil
}

func (e *EvaluationPostgreSQL) ListByApplication(ctx context.Context, applicationID uint) ([]*models.Evaluation, error) {
	var evals []*models.Evaluation
	err := e.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

func (e *EvaluationPostgreSQL) ListByEvaluator(ctx context.Context, evaluatorID string) ([]*models.Evaluation, error) {
	var evals []*models.Evaluation
	err := e.db.WithContext(ctx).
		Preload("Application").
		Where("evaluator_id = ?", evaluatorID).
		Order("created_at ASC").
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations by evaluator: %w", err)
	}
	return evals, nil
}

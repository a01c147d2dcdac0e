package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

type AppointmentPostgreSQL struct {
	db *gorm.DB
}

func NewAppointmentPostgreSQL(db *gorm.DB) repositories.AppointmentRepository {
	return &AppointmentPostgreSQL{db: db}
}

func (a *AppointmentPostgreSQL) Create(ctx context.Context, appt *models.Appointment) error {
	if err := a.db.WithContext(ctx).Create(appt).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (a *AppointmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := a.db.WithContext(ctx).First(&appt, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

func (a *AppointmentPostgreSQL) Update(ctx context.Context, appt *models.Appointment) error {
	if err := a.db.WithContext(ctx).Save(appt).Error; err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (a *AppointmentPostgreSQL) ListByUser(ctx context.Context, userID string) ([]*models.Appointment, error) {
	var appts []*models.Appointment
	err := a.db.WithContext(ctx).
		Where("student_id = ? OR officer_id = ?", userID, userID).
		Order("scheduled_at ASC").
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

func (a *AppointmentPostgreSQL) CreateCall(ctx context.Context, call *models.VideoCall) error {
	if err := a.db.WithContext(ctx).Create(call).Error; err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}
	return nil
}

func (a *AppointmentPostgreSQL) GetCall(ctx context.Context, id uint) (*models.VideoCall, error) {
	var call models.VideoCall
	if err := a.db.WithContext(ctx).First(&call, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get call: %w", err)
	}
	return &call, nil
}

func (a *AppointmentPostgreSQL) UpdateCall(ctx context.Context, call *models.VideoCall) error {
	if err := a.db.WithContext(ctx).Save(call).Error; err != nil {
		return fmt.Errorf("failed to update call: %w", err)
	}
	return nil
}

// GetActiveCall returns the connecting or connected call for an
// appointment, if any.
func (a *AppointmentPostgreSQL) GetActiveCall(ctx context.Context, appointmentID uint) (*models.VideoCall, error) {
	var call models.VideoCall
	err := a.db.WithContext(ctx).
		Where("appointment_id = ? AND status IN ?", appointmentID,
			[]models.CallStatus{models.CallConnecting, models.CallConnected}).
		Order("initiated_at DESC").
		First(&call).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active call: %w", err)
	}
	return &call, nil
}

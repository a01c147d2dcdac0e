package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

func newNotificationFixture(t *testing.T) (NotificationService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewNotificationService(repo, logger, validator.New(), publisher)
	return svc, repo, publisher
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newNotificationFixture(t)

	liveType := models.NotificationLive
	entry, err := svc.Notify(ctx, &NotificationCreateRequest{
		UserID:  "student-1",
		Message: "The workshop \"Resume Clinic\" is live now",
		Type:    &liveType,
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if entry.ID == 0 {
		t.Error("expected notification id assigned")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventNotificationCreated {
		t.Errorf("expected a single %s event, got %v", events.EventNotificationCreated, published)
	}
	if published[0].Version != "1.0" {
		t.Errorf("unexpected event version %s", published[0].Version)
	}

	t.Run("blank message fails validation", func(t *testing.T) {
		_, err := svc.Notify(ctx, &NotificationCreateRequest{UserID: "student-1", Message: "   "})
		var vErrs ValidationErrors
		if !errors.As(err, &vErrs) {
			t.Errorf("expected ValidationErrors, got %v", err)
		}
	})

	t.Run("unknown type fails validation", func(t *testing.T) {
		badType := models.NotificationType("carrier_pigeon")
		_, err := svc.Notify(ctx, &NotificationCreateRequest{
			UserID: "student-1", Message: "hello", Type: &badType,
		})
		var vErrs ValidationErrors
		if !errors.As(err, &vErrs) {
			t.Errorf("expected ValidationErrors, got %v", err)
		}
	})
}

func TestNotificationService_Remove(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newNotificationFixture(t)

	entry, err := svc.Notify(ctx, &NotificationCreateRequest{
		UserID:  "student-1",
		Message: "You earned a certificate for \"Leadership Workshop\"",
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	// Someone else cannot remove it.
	if err := svc.Remove(ctx, entry.ID, "student-2"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound for a foreign notification, got %v", err)
	}

	if err := svc.Remove(ctx, entry.ID, "student-1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	list, err := svc.ListForUser(ctx, "student-1")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list after removal, got %d", len(list))
	}

	if err := svc.Remove(ctx, entry.ID, "student-1"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound on repeat removal, got %v", err)
	}
}

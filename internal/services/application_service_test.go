package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

func newApplicationFixture(t *testing.T) (ApplicationService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewApplicationService(repo, logger, validator.New(), publisher)
	return svc, repo, publisher
}

func seedApplication(t *testing.T, repo *mockRepository, app *models.InternshipApplication) uint {
	t.Helper()
	if err := repo.Application().Create(context.Background(), app); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app.ID
}

func TestApplicationService_SelectReview(t *testing.T) {
	ctx := context.Background()

	t.Run("selecting a status sets it", func(t *testing.T) {
		svc, repo, publisher := newApplicationFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1", JobTitle: "Backend Intern",
			ApplicantName: "Mina", ApplicantEmail: "mina@example.com",
			Status: models.ReviewNone,
		})

		resp, err := svc.SelectReview(ctx, id, &ReviewSelectRequest{Status: models.ReviewAccepted}, "company-1")
		if err != nil {
			t.Fatalf("SelectReview failed: %v", err)
		}
		if resp.Status != models.ReviewAccepted {
			t.Errorf("expected status %s, got %s", models.ReviewAccepted, resp.Status)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != events.EventApplicationReviewed {
			t.Errorf("expected event type %s, got %s", events.EventApplicationReviewed, published[0].Type)
		}
		if published[0].Source != "internship-service" {
			t.Errorf("unexpected event source %s", published[0].Source)
		}
	})

	t.Run("reselecting the same status toggles it off", func(t *testing.T) {
		svc, repo, _ := newApplicationFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1", Status: models.ReviewRejected,
		})

		resp, err := svc.SelectReview(ctx, id, &ReviewSelectRequest{Status: models.ReviewRejected}, "company-1")
		if err != nil {
			t.Fatalf("SelectReview failed: %v", err)
		}
		if resp.Status != models.ReviewNone {
			t.Errorf("expected toggle back to %s, got %s", models.ReviewNone, resp.Status)
		}
	})

	t.Run("leaving accepted clears the current intern flag", func(t *testing.T) {
		svc, repo, _ := newApplicationFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1",
			Status: models.ReviewAccepted, IsCurrentIntern: true,
		})

		resp, err := svc.SelectReview(ctx, id, &ReviewSelectRequest{Status: models.ReviewRejected}, "company-1")
		if err != nil {
			t.Fatalf("SelectReview failed: %v", err)
		}
		if resp.Status != models.ReviewRejected {
			t.Errorf("expected status %s, got %s", models.ReviewRejected, resp.Status)
		}
		if resp.IsCurrentIntern {
			t.Error("expected current intern flag to be cleared")
		}
	})

	t.Run("finalizing an accepted application clears the current intern flag", func(t *testing.T) {
		svc, repo, _ := newApplicationFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1",
			Status: models.ReviewAccepted, IsCurrentIntern: true,
		})

		// Finalizing an accepted application leaves acceptance behind, so
		// the intern flag must drop too.
		resp, err := svc.SelectReview(ctx, id, &ReviewSelectRequest{Status: models.ReviewFinalized}, "company-1")
		if err != nil {
			t.Fatalf("SelectReview failed: %v", err)
		}
		if resp.IsCurrentIntern {
			t.Error("expected current intern flag to be cleared when leaving accepted")
		}
	})

	t.Run("removed application is gone", func(t *testing.T) {
		svc, repo, _ := newApplicationFixture(t)
		removedAt := time.Now()
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1",
			Status: models.ReviewAccepted, RemovedAt: &removedAt,
		})

		_, err := svc.SelectReview(ctx, id, &ReviewSelectRequest{Status: models.ReviewRejected}, "company-1")
		if !errors.Is(err, ErrApplicationRemoved) {
			t.Errorf("expected ErrApplicationRemoved, got %v", err)
		}
	})

	t.Run("unknown application", func(t *testing.T) {
		svc, _, _ := newApplicationFixture(t)
		_, err := svc.SelectReview(ctx, 9999, &ReviewSelectRequest{Status: models.ReviewAccepted}, "company-1")
		if !errors.Is(err, ErrApplicationNotFound) {
			t.Errorf("expected ErrApplicationNotFound, got %v", err)
		}
	})

	t.Run("invalid status fails validation", func(t *testing.T) {
		svc, repo, publisher := newApplicationFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1", Status: models.ReviewNone,
		})

		_, err := svc.SelectReview(ctx, id, &ReviewSelectRequest{Status: "maybe"}, "company-1")
		if err == nil {
			t.Fatal("expected validation error")
		}
		var vErrs ValidationErrors
		if !errors.As(err, &vErrs) {
			t.Errorf("expected ValidationErrors, got %T: %v", err, err)
		}
		if got := len(publisher.GetPublishedEvents()); got != 0 {
			t.Errorf("expected no events on validation failure, got %d", got)
		}
	})
}

func TestApplicationService_GetByID(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newApplicationFixture(t)
	id := seedApplication(t, repo, &models.InternshipApplication{
		PostID: 1, StudentID: "student-1", Status: models.ReviewAccepted,
	})

	resp, err := svc.GetByID(ctx, id, "company-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if resp.ID != id {
		t.Errorf("expected id %d, got %d", id, resp.ID)
	}

	if _, err := svc.GetByID(ctx, id+100, "company-1"); !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("expected ErrApplicationNotFound, got %v", err)
	}
}

func TestApplicationService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newApplicationFixture(t)

	seedApplication(t, repo, &models.InternshipApplication{PostID: 1, StudentID: "s1", Status: models.ReviewAccepted})
	seedApplication(t, repo, &models.InternshipApplication{PostID: 1, StudentID: "s2", Status: models.ReviewRejected})
	removedAt := time.Now()
	seedApplication(t, repo, &models.InternshipApplication{PostID: 1, StudentID: "s3", Status: models.ReviewNone, RemovedAt: &removedAt})

	resp, err := svc.List(ctx, repositories.ApplicationFilters{}, "company-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected removed application excluded, got total %d", resp.Total)
	}
}

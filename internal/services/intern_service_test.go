package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/internship-service/internal/deferred"
	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

const testRemovalDelay = 30 * time.Millisecond

func newInternFixture(t *testing.T) (InternService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	runner := deferred.NewRunner()
	t.Cleanup(runner.Close)
	svc := NewInternService(repo, logger, validator.New(), publisher, runner, testRemovalDelay)
	return svc, repo, publisher
}

func currentIntern(t *testing.T, repo *mockRepository) uint {
	t.Helper()
	return seedApplication(t, repo, &models.InternshipApplication{
		PostID: 1, StudentID: "student-1", JobTitle: "Data Intern",
		Status: models.ReviewAccepted, IsCurrentIntern: true,
	})
}

func loadApplication(t *testing.T, repo *mockRepository, id uint) *models.InternshipApplication {
	t.Helper()
	app, err := repo.Application().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load application %d: %v", id, err)
	}
	return app
}

func TestInternService_MarkCurrent(t *testing.T) {
	ctx := context.Background()
	svc, repo, publisher := newInternFixture(t)
	id := seedApplication(t, repo, &models.InternshipApplication{
		PostID: 1, StudentID: "student-1", Status: models.ReviewAccepted,
	})

	if err := svc.MarkCurrent(ctx, id, "company-1"); err != nil {
		t.Fatalf("MarkCurrent failed: %v", err)
	}

	app := loadApplication(t, repo, id)
	if !app.IsCurrentIntern {
		t.Error("expected intern to be marked current")
	}
	if app.PendingRemoval {
		t.Error("expected no pending removal after marking")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventInternMarked {
		t.Errorf("expected a single %s event, got %v", events.EventInternMarked, published)
	}
}

func TestInternService_RemovalWindow(t *testing.T) {
	ctx := context.Background()

	t.Run("unmark leaves intern pending until the window closes", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := currentIntern(t, repo)

		if err := svc.UnmarkCurrent(ctx, id, "company-1"); err != nil {
			t.Fatalf("UnmarkCurrent failed: %v", err)
		}

		app := loadApplication(t, repo, id)
		if !app.PendingRemoval {
			t.Error("expected pending removal inside the window")
		}
		if app.RemovedAt != nil {
			t.Error("expected removal not committed yet")
		}

		waitFor(t, time.Second, func() bool {
			return loadApplication(t, repo, id).RemovedAt != nil
		})

		app = loadApplication(t, repo, id)
		if app.IsCurrentIntern || app.PendingRemoval {
			t.Error("expected flags cleared after the removal committed")
		}
	})

	t.Run("undo within the window restores the intern", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := currentIntern(t, repo)

		if err := svc.UnmarkCurrent(ctx, id, "company-1"); err != nil {
			t.Fatalf("UnmarkCurrent failed: %v", err)
		}
		if err := svc.UndoRemoval(ctx, id, "company-1"); err != nil {
			t.Fatalf("UndoRemoval failed: %v", err)
		}

		app := loadApplication(t, repo, id)
		if !app.IsCurrentIntern || app.PendingRemoval {
			t.Error("expected intern restored after undo")
		}

		// The cancelled timer must not fire later.
		time.Sleep(2 * testRemovalDelay)
		if app := loadApplication(t, repo, id); app.RemovedAt != nil {
			t.Error("cancelled removal still committed")
		}
	})

	t.Run("undo after the window is a quiet no-op", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := currentIntern(t, repo)

		if err := svc.UnmarkCurrent(ctx, id, "company-1"); err != nil {
			t.Fatalf("UnmarkCurrent failed: %v", err)
		}
		waitFor(t, time.Second, func() bool {
			return loadApplication(t, repo, id).RemovedAt != nil
		})

		if err := svc.UndoRemoval(ctx, id, "company-1"); err != nil {
			t.Fatalf("expected late undo to succeed silently, got %v", err)
		}
		if app := loadApplication(t, repo, id); app.IsCurrentIntern {
			t.Error("late undo must not resurrect a removed intern")
		}
	})

	t.Run("undo with nothing pending is a no-op", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := currentIntern(t, repo)

		if err := svc.UndoRemoval(ctx, id, "company-1"); err != nil {
			t.Fatalf("expected no-op undo to succeed, got %v", err)
		}
	})

	t.Run("unmark requires a current intern", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1", Status: models.ReviewAccepted,
		})

		if err := svc.UnmarkCurrent(ctx, id, "company-1"); !errors.Is(err, ErrNotCurrentIntern) {
			t.Errorf("expected ErrNotCurrentIntern, got %v", err)
		}
	})

	t.Run("re-marking during the window acts as an undo", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := currentIntern(t, repo)

		if err := svc.UnmarkCurrent(ctx, id, "company-1"); err != nil {
			t.Fatalf("UnmarkCurrent failed: %v", err)
		}
		if err := svc.MarkCurrent(ctx, id, "company-1"); err != nil {
			t.Fatalf("MarkCurrent failed: %v", err)
		}

		time.Sleep(2 * testRemovalDelay)
		app := loadApplication(t, repo, id)
		if !app.IsCurrentIntern || app.RemovedAt != nil {
			t.Error("expected re-mark to cancel the scheduled removal")
		}
	})
}

func TestInternService_ListCurrent(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	runner := deferred.NewRunner()
	t.Cleanup(runner.Close)
	// A wide window keeps the removal timer from firing mid-test.
	svc := NewInternService(repo, logger, validator.New(), publisher, runner, time.Minute)

	activeID := currentIntern(t, repo)
	pendingID := currentIntern(t, repo)

	if err := svc.UnmarkCurrent(ctx, pendingID, "company-1"); err != nil {
		t.Fatalf("UnmarkCurrent failed: %v", err)
	}

	// The pending-removal intern leaves the active view immediately, before
	// the timer commits anything.
	resp, err := svc.ListCurrent(ctx, repositories.ApplicationFilters{}, "company-1")
	if err != nil {
		t.Fatalf("ListCurrent failed: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected only the active intern listed, got %d", resp.Total)
	}
	if resp.Applications[0].ID != activeID {
		t.Errorf("expected application %d, got %d", activeID, resp.Applications[0].ID)
	}

	if err := svc.UndoRemoval(ctx, pendingID, "company-1"); err != nil {
		t.Fatalf("UndoRemoval failed: %v", err)
	}
	resp, err = svc.ListCurrent(ctx, repositories.ApplicationFilters{}, "company-1")
	if err != nil {
		t.Fatalf("ListCurrent failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected the restored intern back in the view, got %d", resp.Total)
	}
}

func TestInternService_UndoRacingWindowClose(t *testing.T) {
	ctx := context.Background()

	// An undo landing at the expiry instant must leave the record in one of
	// the two legal end states, never a half-applied mix.
	for i := 0; i < 20; i++ {
		repo := newMockRepository()
		logger := testLogger()
		publisher := events.NewMockEventPublisher(logger)
		runner := deferred.NewRunner()
		svc := NewInternService(repo, logger, validator.New(), publisher, runner, 5*time.Millisecond)
		id := currentIntern(t, repo)

		if err := svc.UnmarkCurrent(ctx, id, "company-1"); err != nil {
			t.Fatalf("UnmarkCurrent failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if err := svc.UndoRemoval(ctx, id, "company-1"); err != nil {
			t.Fatalf("UndoRemoval failed: %v", err)
		}

		waitFor(t, time.Second, func() bool {
			app := loadApplication(t, repo, id)
			return !app.PendingRemoval
		})

		app := loadApplication(t, repo, id)
		restored := app.IsCurrentIntern && app.RemovedAt == nil
		removed := !app.IsCurrentIntern && app.RemovedAt != nil
		if !restored && !removed {
			t.Fatalf("inconsistent record after racing undo: current=%v pending=%v removed=%v",
				app.IsCurrentIntern, app.PendingRemoval, app.RemovedAt != nil)
		}
		runner.Close()
	}
}

func TestInternService_ToggleCompleted(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newInternFixture(t)
	id := currentIntern(t, repo)

	resp, err := svc.ToggleCompleted(ctx, id, "company-1")
	if err != nil {
		t.Fatalf("ToggleCompleted failed: %v", err)
	}
	if !resp.IsCompleted {
		t.Error("expected completed after first toggle")
	}
	if !resp.CanEvaluate {
		t.Error("expected evaluation to open once completed")
	}

	resp, err = svc.ToggleCompleted(ctx, id, "company-1")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if resp.IsCompleted {
		t.Error("expected second toggle to clear completion")
	}

	otherID := seedApplication(t, repo, &models.InternshipApplication{
		PostID: 1, StudentID: "student-2", Status: models.ReviewAccepted,
	})
	if _, err := svc.ToggleCompleted(ctx, otherID, "company-1"); !errors.Is(err, ErrNotCurrentIntern) {
		t.Errorf("expected ErrNotCurrentIntern for non-intern, got %v", err)
	}
}

func TestInternService_Evaluate(t *testing.T) {
	ctx := context.Background()

	validRequest := func(id uint) *EvaluationCreateRequest {
		return &EvaluationCreateRequest{
			ApplicationID: id,
			Performance:   4,
			Comments:      "Reliable, ramped up quickly on the ETL pipeline.",
			Recommended:   true,
		}
	}

	t.Run("evaluates a completed intern once", func(t *testing.T) {
		svc, repo, publisher := newInternFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1",
			Status: models.ReviewAccepted, IsCurrentIntern: true, IsCompleted: true,
		})

		eval, err := svc.Evaluate(ctx, validRequest(id), "company-1")
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if eval.EvaluatorID != "company-1" {
			t.Errorf("unexpected evaluator %s", eval.EvaluatorID)
		}

		app := loadApplication(t, repo, id)
		if !app.IsEvaluated {
			t.Error("expected the evaluated flag to stick")
		}

		found := false
		for _, event := range publisher.GetPublishedEvents() {
			if event.Type == events.EventInternEvaluated {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s event", events.EventInternEvaluated)
		}

		// The flag is one-way: a second evaluation by anyone is refused.
		if _, err := svc.Evaluate(ctx, validRequest(id), "company-2"); !errors.Is(err, ErrAlreadyEvaluated) {
			t.Errorf("expected ErrAlreadyEvaluated, got %v", err)
		}
	})

	t.Run("refuses a removed record even when its completed flag survived", func(t *testing.T) {
		svc, repo, publisher := newInternFixture(t)
		removedAt := time.Now()
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1",
			Status: models.ReviewAccepted, IsCompleted: true, RemovedAt: &removedAt,
		})

		if _, err := svc.Evaluate(ctx, validRequest(id), "company-1"); !errors.Is(err, ErrApplicationRemoved) {
			t.Errorf("expected ErrApplicationRemoved, got %v", err)
		}
		if app := loadApplication(t, repo, id); app.IsEvaluated {
			t.Error("removed record must not gain an evaluation")
		}
		if got := len(publisher.GetPublishedEvents()); got != 0 {
			t.Errorf("expected no events for a refused evaluation, got %d", got)
		}
	})

	t.Run("refuses an incomplete internship", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1",
			Status: models.ReviewAccepted, IsCurrentIntern: true,
		})

		if _, err := svc.Evaluate(ctx, validRequest(id), "company-1"); !errors.Is(err, ErrInternNotCompleted) {
			t.Errorf("expected ErrInternNotCompleted, got %v", err)
		}
	})

	t.Run("performance must stay on the 1 to 5 scale", func(t *testing.T) {
		svc, repo, _ := newInternFixture(t)
		id := seedApplication(t, repo, &models.InternshipApplication{
			PostID: 1, StudentID: "student-1",
			Status: models.ReviewAccepted, IsCurrentIntern: true, IsCompleted: true,
		})

		req := validRequest(id)
		req.Performance = 6
		_, err := svc.Evaluate(ctx, req, "company-1")
		var vErrs ValidationErrors
		if !errors.As(err, &vErrs) {
			t.Errorf("expected ValidationErrors, got %v", err)
		}
	})
}

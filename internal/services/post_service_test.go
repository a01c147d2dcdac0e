package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/internship-service/internal/events"
	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/validator"
)

func newPostFixture(t *testing.T) (PostService, *mockRepository, *events.MockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	svc := NewPostService(repo, logger, validator.New(), publisher)
	return svc, repo, publisher
}

func TestPostService_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, publisher := newPostFixture(t)

	weeks := 12
	draft, err := svc.CreateDraft(ctx, &DraftCreateRequest{
		Title:         "Summer Backend Internship",
		Body:          "Work on the billing pipeline.",
		DurationWeeks: &weeks,
		IsPaid:        true,
	}, "company-1")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	if draft.IsFinalized {
		t.Error("new draft must not be finalized")
	}
	if draft.CanPublish {
		t.Error("unfinalized draft must not be publishable")
	}

	// Publishing before finalize is refused.
	if _, err := svc.Publish(ctx, draft.ID, "company-1"); !errors.Is(err, ErrDraftNotFinalized) {
		t.Errorf("expected ErrDraftNotFinalized, got %v", err)
	}

	finalized, err := svc.FinalizeDraft(ctx, draft.ID, "company-1")
	if err != nil {
		t.Fatalf("FinalizeDraft failed: %v", err)
	}
	if !finalized.IsFinalized || !finalized.CanPublish {
		t.Error("finalized draft should be publishable")
	}

	post, err := svc.Publish(ctx, draft.ID, "company-1")
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if post.Status != models.PostPending {
		t.Errorf("published post should await moderation, got %s", post.Status)
	}
	if post.Title != "Summer Backend Internship" {
		t.Errorf("post should carry the draft content, got %q", post.Title)
	}

	// The draft is consumed by publishing.
	if _, err := svc.GetDraft(ctx, draft.ID, "company-1"); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("expected draft gone after publish, got %v", err)
	}

	found := false
	for _, event := range publisher.GetPublishedEvents() {
		if event.Type == events.EventPostPublished {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s event", events.EventPostPublished)
	}
}

func TestPostService_DraftOwnership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPostFixture(t)

	draft, err := svc.CreateDraft(ctx, &DraftCreateRequest{Title: "QA Internship"}, "company-1")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	_, err = svc.GetDraft(ctx, draft.ID, "company-2")
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError for a foreign draft, got %v", err)
	}

	if _, err := svc.Publish(ctx, draft.ID, "company-2"); !errors.As(err, &permErr) {
		t.Errorf("expected PermissionError on foreign publish, got %v", err)
	}
}

func TestPostService_TwoStepDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfirmed draft delete changes nothing", func(t *testing.T) {
		svc, _, _ := newPostFixture(t)
		draft, err := svc.CreateDraft(ctx, &DraftCreateRequest{Title: "Design Internship"}, "company-1")
		if err != nil {
			t.Fatalf("CreateDraft failed: %v", err)
		}

		if err := svc.DeleteDraft(ctx, draft.ID, "company-1", false); !errors.Is(err, ErrDeleteNotConfirmed) {
			t.Errorf("expected ErrDeleteNotConfirmed, got %v", err)
		}
		if _, err := svc.GetDraft(ctx, draft.ID, "company-1"); err != nil {
			t.Errorf("draft should survive an unconfirmed delete: %v", err)
		}

		if err := svc.DeleteDraft(ctx, draft.ID, "company-1", true); err != nil {
			t.Fatalf("confirmed delete failed: %v", err)
		}
		if _, err := svc.GetDraft(ctx, draft.ID, "company-1"); !errors.Is(err, ErrDraftNotFound) {
			t.Errorf("expected draft gone after confirmed delete, got %v", err)
		}
	})

	t.Run("unconfirmed post delete changes nothing", func(t *testing.T) {
		svc, repo, publisher := newPostFixture(t)
		post := &models.InternshipPost{CompanyID: "company-1", Title: "Ops Internship", Status: models.PostAccepted}
		if err := repo.Post().CreatePost(ctx, post); err != nil {
			t.Fatalf("seed post: %v", err)
		}

		if err := svc.DeletePost(ctx, post.ID, "company-1", false); !errors.Is(err, ErrDeleteNotConfirmed) {
			t.Errorf("expected ErrDeleteNotConfirmed, got %v", err)
		}
		if got := len(publisher.GetPublishedEvents()); got != 0 {
			t.Errorf("unconfirmed delete must not publish events, got %d", got)
		}

		if err := svc.DeletePost(ctx, post.ID, "company-1", true); err != nil {
			t.Fatalf("confirmed delete failed: %v", err)
		}
		if _, err := svc.GetPost(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
			t.Errorf("expected post gone, got %v", err)
		}
	})

	t.Run("only the owner may delete a post", func(t *testing.T) {
		svc, repo, _ := newPostFixture(t)
		post := &models.InternshipPost{CompanyID: "company-1", Title: "ML Internship", Status: models.PostAccepted}
		if err := repo.Post().CreatePost(ctx, post); err != nil {
			t.Fatalf("seed post: %v", err)
		}

		err := svc.DeletePost(ctx, post.ID, "company-2", true)
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})
}

func TestPostService_Moderate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newPostFixture(t)
	post := &models.InternshipPost{CompanyID: "company-1", Title: "Cloud Internship", Status: models.PostPending}
	if err := repo.Post().CreatePost(ctx, post); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	if err := svc.Moderate(ctx, post.ID, &PostModerateRequest{Status: models.PostFlagged}, "scad-1"); err != nil {
		t.Fatalf("Moderate failed: %v", err)
	}
	updated, err := svc.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if updated.Status != models.PostFlagged {
		t.Errorf("expected %s, got %s", models.PostFlagged, updated.Status)
	}

	if err := svc.Moderate(ctx, post.ID, &PostModerateRequest{Status: "trending"}, "scad-1"); err == nil {
		t.Error("expected unknown status to fail validation")
	}
}

func TestPostService_UpdateDraft(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPostFixture(t)

	draft, err := svc.CreateDraft(ctx, &DraftCreateRequest{Title: "Original title"}, "company-1")
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	title := "Revised title"
	paid := true
	updated, err := svc.UpdateDraft(ctx, draft.ID, &DraftUpdateRequest{Title: &title, IsPaid: &paid}, "company-1")
	if err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}
	if updated.Title != title || !updated.IsPaid {
		t.Errorf("expected partial update applied, got title=%q paid=%v", updated.Title, updated.IsPaid)
	}
}

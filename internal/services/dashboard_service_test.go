package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

func TestDashboardService_GetCycleStats(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := NewDashboardService(repo, testLogger())

	seedApplication(t, repo, &models.InternshipApplication{
		PostID: 1, StudentID: "s1",
		Status: models.ReviewAccepted, IsCurrentIntern: true, IsCompleted: true,
	})
	seedApplication(t, repo, &models.InternshipApplication{
		PostID: 1, StudentID: "s2", Status: models.ReviewRejected,
	})
	seedReport(t, repo, &models.InternshipReport{
		StudentID: "s1", Status: models.ReportRejected, Appealed: true,
	})

	stats, err := svc.GetCycleStats(ctx, "scad-1")
	if err != nil {
		t.Fatalf("GetCycleStats failed: %v", err)
	}
	if stats.TotalApplications != 2 {
		t.Errorf("expected 2 applications, got %d", stats.TotalApplications)
	}
	if stats.CurrentInterns != 1 || stats.CompletedInterns != 1 {
		t.Errorf("unexpected intern counts: %+v", stats)
	}
	if stats.AppealedReports != 1 {
		t.Errorf("expected 1 appealed report, got %d", stats.AppealedReports)
	}
}

func TestDashboardService_ExportApplications(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := NewDashboardService(repo, testLogger())

	seedApplication(t, repo, &models.InternshipApplication{
		PostID: 1, StudentID: "s1", JobTitle: "Backend Intern",
		ApplicantName: "Mina", Status: models.ReviewAccepted,
	})

	file, err := svc.ExportApplications(ctx, "scad-1")
	if err != nil {
		t.Fatalf("ExportApplications failed: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Applications")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	// Header plus one data row.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestDashboardService_ExportCycleStats(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	svc := NewDashboardService(repo, testLogger())

	file, err := svc.ExportCycleStats(ctx, "scad-1")
	if err != nil {
		t.Fatalf("ExportCycleStats failed: %v", err)
	}
	defer file.Close()
}

package repositories

import (
	"time"

	"github.com/SAP-F-2025/internship-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ApplicationFilters struct {
	Status          *models.ReviewStatus `json:"status"`
	PostID          *uint                `json:"post_id"`
	StudentID       *string              `json:"student_id"`
	IsCurrentIntern *bool                `json:"is_current_intern"`
	PendingRemoval  *bool                `json:"pending_removal"`
	IncludeRemoved  bool                 `json:"include_removed"`
	Limit           int                  `json:"limit"`
	Offset          int                  `json:"offset"`
	SortBy          string               `json:"sort_by"`    // "created_at", "job_title"
	SortOrder       string               `json:"sort_order"` // "asc", "desc"
}

type ReportFilters struct {
	Status    *models.ReportStatus `json:"status"`
	StudentID *string              `json:"student_id"`
	Appealed  *bool                `json:"appealed"`
	DateFrom  *time.Time           `json:"date_from"`
	DateTo    *time.Time           `json:"date_to"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
}

type PostFilters struct {
	Status    *models.PostStatus `json:"status"`
	CompanyID *string            `json:"company_id"`
	IsPaid    *bool              `json:"is_paid"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`
	SortOrder string             `json:"sort_order"`
}

type WorkshopFilters struct {
	Upcoming  *bool   `json:"upcoming"`
	CreatedBy *string `json:"created_by"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type CycleStats struct {
	TotalApplications   int                          `json:"total_applications"`
	ApplicationsByState map[models.ReviewStatus]int  `json:"applications_by_status"`
	CurrentInterns      int                          `json:"current_interns"`
	CompletedInterns    int                          `json:"completed_interns"`
	EvaluatedInterns    int                          `json:"evaluated_interns"`
	ReportsByStatus     map[models.ReportStatus]int  `json:"reports_by_status"`
	AppealedReports     int                          `json:"appealed_reports"`
	PostsByStatus       map[models.PostStatus]int    `json:"posts_by_status"`
	WorkshopSignups     int                          `json:"workshop_signups"`
	CertificatesIssued  int                          `json:"certificates_issued"`
}

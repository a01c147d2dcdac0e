package services

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

// mockRepository is a shared in-memory Repository for service tests. All
// sub-repositories read and write the same store under one mutex, and
// WithTransaction simply runs the callback against the same store.
type mockRepository struct {
	mu sync.Mutex

	applications  map[uint]*models.InternshipApplication
	evaluations   map[uint]*models.Evaluation
	reports       map[uint]*models.InternshipReport
	comments      map[uint][]*models.ReportComment
	drafts        map[uint]*models.PostDraft
	posts         map[uint]*models.InternshipPost
	notifications map[uint]*models.Notification
	workshops     map[uint]*models.Workshop
	registrations map[uint]*models.WorkshopRegistration
	appointments  map[uint]*models.Appointment
	calls         map[uint]*models.VideoCall
	roles         map[string]models.UserRole

	nextID uint
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		applications:  make(map[uint]*models.InternshipApplication),
		evaluations:   make(map[uint]*models.Evaluation),
		reports:       make(map[uint]*models.InternshipReport),
		comments:      make(map[uint][]*models.ReportComment),
		drafts:        make(map[uint]*models.PostDraft),
		posts:         make(map[uint]*models.InternshipPost),
		notifications: make(map[uint]*models.Notification),
		workshops:     make(map[uint]*models.Workshop),
		registrations: make(map[uint]*models.WorkshopRegistration),
		appointments:  make(map[uint]*models.Appointment),
		calls:         make(map[uint]*models.VideoCall),
		roles:         make(map[string]models.UserRole),
	}
}

func (m *mockRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *mockRepository) Application() repositories.ApplicationRepository   { return &mockApplications{m} }
func (m *mockRepository) Evaluation() repositories.EvaluationRepository     { return &mockEvaluations{m} }
func (m *mockRepository) Report() repositories.ReportRepository             { return &mockReports{m} }
func (m *mockRepository) Post() repositories.PostRepository                 { return &mockPosts{m} }
func (m *mockRepository) Notification() repositories.NotificationRepository { return &mockNotifications{m} }
func (m *mockRepository) Workshop() repositories.WorkshopRepository         { return &mockWorkshops{m} }
func (m *mockRepository) Appointment() repositories.AppointmentRepository   { return &mockAppointments{m} }
func (m *mockRepository) User() repositories.UserRepository                 { return &mockUsers{} }
func (m *mockRepository) Session() repositories.SessionRepository           { return &mockSessions{m} }
func (m *mockRepository) Dashboard() repositories.DashboardRepository       { return &mockDashboard{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

func copyOf[T any](v *T) *T {
	c := *v
	return &c
}

// ===== APPLICATIONS =====

type mockApplications struct{ m *mockRepository }

func (r *mockApplications) Create(ctx context.Context, app *models.InternshipApplication) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if app.ID == 0 {
		app.ID = r.m.id()
	}
	r.m.applications[app.ID] = copyOf(app)
	return nil
}

func (r *mockApplications) GetByID(ctx context.Context, id uint) (*models.InternshipApplication, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	app, ok := r.m.applications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOf(app), nil
}

func (r *mockApplications) Update(ctx context.Context, app *models.InternshipApplication) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.applications[app.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.applications[app.ID] = copyOf(app)
	return nil
}

func (r *mockApplications) List(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.InternshipApplication, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.InternshipApplication
	for _, app := range r.m.applications {
		if !filters.IncludeRemoved && app.RemovedAt != nil {
			continue
		}
		if filters.Status != nil && app.Status != *filters.Status {
			continue
		}
		if filters.IsCurrentIntern != nil && app.IsCurrentIntern != *filters.IsCurrentIntern {
			continue
		}
		if filters.PendingRemoval != nil && app.PendingRemoval != *filters.PendingRemoval {
			continue
		}
		out = append(out, copyOf(app))
	}
	return out, int64(len(out)), nil
}

func (r *mockApplications) ListCurrentInterns(ctx context.Context, filters repositories.ApplicationFilters) ([]*models.InternshipApplication, int64, error) {
	current := true
	notPending := false
	filters.IsCurrentIntern = &current
	filters.PendingRemoval = &notPending
	filters.IncludeRemoved = false
	return r.List(ctx, filters)
}

// ===== EVALUATIONS =====

type mockEvaluations struct{ m *mockRepository }

func (r *mockEvaluations) Create(ctx context.Context, eval *models.Evaluation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if eval.ID == 0 {
		eval.ID = r.m.id()
	}
	r.m.evaluations[eval.ID] = copyOf(eval)
	return nil
}

func (r *mockEvaluations) GetByEvaluatorAndApplication(ctx context.Context, evaluatorID string, applicationID uint) (*models.Evaluation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, eval := range r.m.evaluations {
		if eval.EvaluatorID == evaluatorID && eval.ApplicationID == applicationID {
			return copyOf(eval), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockEvaluations) ListByApplication(ctx context.Context, applicationID uint) ([]*models.Evaluation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Evaluation
	for _, eval := range r.m.evaluations {
		if eval.ApplicationID == applicationID {
			out = append(out, copyOf(eval))
		}
	}
	return out, nil
}

func (r *mockEvaluations) ListByEvaluator(ctx context.Context, evaluatorID string) ([]*models.Evaluation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Evaluation
	for _, eval := range r.m.evaluations {
		if eval.EvaluatorID == evaluatorID {
			out = append(out, copyOf(eval))
		}
	}
	return out, nil
}

// ===== REPORTS =====

type mockReports struct{ m *mockRepository }

func (r *mockReports) Create(ctx context.Context, report *models.InternshipReport) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if report.ID == 0 {
		report.ID = r.m.id()
	}
	r.m.reports[report.ID] = copyOf(report)
	return nil
}

func (r *mockReports) GetByID(ctx context.Context, id uint) (*models.InternshipReport, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	report, ok := r.m.reports[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOf(report), nil
}

func (r *mockReports) Update(ctx context.Context, report *models.InternshipReport) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.reports[report.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.reports[report.ID] = copyOf(report)
	return nil
}

func (r *mockReports) List(ctx context.Context, filters repositories.ReportFilters) ([]*models.InternshipReport, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.InternshipReport
	for _, report := range r.m.reports {
		if filters.Status != nil && report.Status != *filters.Status {
			continue
		}
		if filters.Appealed != nil && report.Appealed != *filters.Appealed {
			continue
		}
		if filters.StudentID != nil && report.StudentID != *filters.StudentID {
			continue
		}
		out = append(out, copyOf(report))
	}
	return out, int64(len(out)), nil
}

func (r *mockReports) AddComment(ctx context.Context, comment *models.ReportComment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if comment.ID == 0 {
		comment.ID = r.m.id()
	}
	r.m.comments[comment.ReportID] = append(r.m.comments[comment.ReportID], copyOf(comment))
	return nil
}

func (r *mockReports) ListComments(ctx context.Context, reportID uint) ([]*models.ReportComment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*models.ReportComment, 0, len(r.m.comments[reportID]))
	for _, comment := range r.m.comments[reportID] {
		out = append(out, copyOf(comment))
	}
	return out, nil
}

// ===== POSTS =====

type mockPosts struct{ m *mockRepository }

func (r *mockPosts) CreateDraft(ctx context.Context, draft *models.PostDraft) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if draft.ID == 0 {
		draft.ID = r.m.id()
	}
	r.m.drafts[draft.ID] = copyOf(draft)
	return nil
}

func (r *mockPosts) GetDraft(ctx context.Context, id uint) (*models.PostDraft, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	draft, ok := r.m.drafts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOf(draft), nil
}

func (r *mockPosts) UpdateDraft(ctx context.Context, draft *models.PostDraft) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.drafts[draft.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.drafts[draft.ID] = copyOf(draft)
	return nil
}

func (r *mockPosts) DeleteDraft(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.drafts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.drafts, id)
	return nil
}

func (r *mockPosts) ListDrafts(ctx context.Context, companyID string) ([]*models.PostDraft, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.PostDraft
	for _, draft := range r.m.drafts {
		if draft.CompanyID == companyID {
			out = append(out, copyOf(draft))
		}
	}
	return out, nil
}

func (r *mockPosts) CreatePost(ctx context.Context, post *models.InternshipPost) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if post.ID == 0 {
		post.ID = r.m.id()
	}
	r.m.posts[post.ID] = copyOf(post)
	return nil
}

func (r *mockPosts) GetPost(ctx context.Context, id uint) (*models.InternshipPost, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	post, ok := r.m.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOf(post), nil
}

func (r *mockPosts) UpdatePost(ctx context.Context, post *models.InternshipPost) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.posts[post.ID] = copyOf(post)
	return nil
}

func (r *mockPosts) DeletePost(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.posts, id)
	return nil
}

func (r *mockPosts) ListPosts(ctx context.Context, filters repositories.PostFilters) ([]*models.InternshipPost, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.InternshipPost
	for _, post := range r.m.posts {
		if filters.Status != nil && post.Status != *filters.Status {
			continue
		}
		if filters.CompanyID != nil && post.CompanyID != *filters.CompanyID {
			continue
		}
		out = append(out, copyOf(post))
	}
	return out, int64(len(out)), nil
}

// ===== NOTIFICATIONS =====

type mockNotifications struct{ m *mockRepository }

func (r *mockNotifications) Create(ctx context.Context, entry *models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if entry.ID == 0 {
		entry.ID = r.m.id()
	}
	r.m.notifications[entry.ID] = copyOf(entry)
	return nil
}

func (r *mockNotifications) Delete(ctx context.Context, id uint, userID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	entry, ok := r.m.notifications[id]
	if !ok || entry.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.m.notifications, id)
	return nil
}

func (r *mockNotifications) ListByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Notification
	for _, entry := range r.m.notifications {
		if entry.UserID == userID {
			out = append(out, copyOf(entry))
		}
	}
	return out, nil
}

// ===== WORKSHOPS =====

type mockWorkshops struct{ m *mockRepository }

func (r *mockWorkshops) Create(ctx context.Context, workshop *models.Workshop) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if workshop.ID == 0 {
		workshop.ID = r.m.id()
	}
	r.m.workshops[workshop.ID] = copyOf(workshop)
	return nil
}

func (r *mockWorkshops) GetByID(ctx context.Context, id uint) (*models.Workshop, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	workshop, ok := r.m.workshops[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOf(workshop), nil
}

func (r *mockWorkshops) Update(ctx context.Context, workshop *models.Workshop) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.workshops[workshop.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.workshops[workshop.ID] = copyOf(workshop)
	return nil
}

func (r *mockWorkshops) List(ctx context.Context, filters repositories.WorkshopFilters) ([]*models.Workshop, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Workshop
	for _, workshop := range r.m.workshops {
		out = append(out, copyOf(workshop))
	}
	return out, int64(len(out)), nil
}

func (r *mockWorkshops) Register(ctx context.Context, reg *models.WorkshopRegistration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if reg.ID == 0 {
		reg.ID = r.m.id()
	}
	r.m.registrations[reg.ID] = copyOf(reg)
	return nil
}

func (r *mockWorkshops) GetRegistration(ctx context.Context, workshopID uint, studentID string) (*models.WorkshopRegistration, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, reg := range r.m.registrations {
		if reg.WorkshopID == workshopID && reg.StudentID == studentID {
			return copyOf(reg), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockWorkshops) UpdateRegistration(ctx context.Context, reg *models.WorkshopRegistration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.registrations[reg.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.registrations[reg.ID] = copyOf(reg)
	return nil
}

func (r *mockWorkshops) ListRegistrations(ctx context.Context, workshopID uint) ([]*models.WorkshopRegistration, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.WorkshopRegistration
	for _, reg := range r.m.registrations {
		if reg.WorkshopID == workshopID {
			out = append(out, copyOf(reg))
		}
	}
	return out, nil
}

// ===== APPOINTMENTS =====

type mockAppointments struct{ m *mockRepository }

func (r *mockAppointments) Create(ctx context.Context, appt *models.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if appt.ID == 0 {
		appt.ID = r.m.id()
	}
	r.m.appointments[appt.ID] = copyOf(appt)
	return nil
}

func (r *mockAppointments) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	appt, ok := r.m.appointments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOf(appt), nil
}

func (r *mockAppointments) Update(ctx context.Context, appt *models.Appointment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.appointments[appt.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.appointments[appt.ID] = copyOf(appt)
	return nil
}

func (r *mockAppointments) ListByUser(ctx context.Context, userID string) ([]*models.Appointment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Appointment
	for _, appt := range r.m.appointments {
		if appt.StudentID == userID || appt.OfficerID == userID {
			out = append(out, copyOf(appt))
		}
	}
	return out, nil
}

func (r *mockAppointments) CreateCall(ctx context.Context, call *models.VideoCall) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if call.ID == 0 {
		call.ID = r.m.id()
	}
	r.m.calls[call.ID] = copyOf(call)
	return nil
}

func (r *mockAppointments) GetCall(ctx context.Context, id uint) (*models.VideoCall, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	call, ok := r.m.calls[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyOf(call), nil
}

func (r *mockAppointments) UpdateCall(ctx context.Context, call *models.VideoCall) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.calls[call.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.calls[call.ID] = copyOf(call)
	return nil
}

func (r *mockAppointments) GetActiveCall(ctx context.Context, appointmentID uint) (*models.VideoCall, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, call := range r.m.calls {
		if call.AppointmentID != appointmentID {
			continue
		}
		if call.Status == models.CallConnecting || call.Status == models.CallConnected {
			return copyOf(call), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// ===== USERS =====

type mockUsers struct{}

func (r *mockUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (r *mockUsers) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

// ===== SESSIONS =====

type mockSessions struct{ m *mockRepository }

func (r *mockSessions) GetRole(ctx context.Context, subject string) (models.UserRole, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	role, ok := r.m.roles[subject]
	if !ok {
		return models.RoleNone, nil
	}
	return role, nil
}

func (r *mockSessions) SetRole(ctx context.Context, subject string, role models.UserRole) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if role == models.RoleNone {
		delete(r.m.roles, subject)
		return nil
	}
	r.m.roles[subject] = role
	return nil
}

// ===== DASHBOARD =====

type mockDashboard struct{ m *mockRepository }

func (r *mockDashboard) GetCycleStats(ctx context.Context) (*repositories.CycleStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stats := &repositories.CycleStats{
		TotalApplications:   len(r.m.applications),
		ApplicationsByState: make(map[models.ReviewStatus]int),
		ReportsByStatus:     make(map[models.ReportStatus]int),
		PostsByStatus:       make(map[models.PostStatus]int),
	}
	for _, app := range r.m.applications {
		stats.ApplicationsByState[app.Status]++
		if app.IsCurrentIntern {
			stats.CurrentInterns++
		}
		if app.IsCompleted {
			stats.CompletedInterns++
		}
		if app.IsEvaluated {
			stats.EvaluatedInterns++
		}
	}
	for _, report := range r.m.reports {
		stats.ReportsByStatus[report.Status]++
		if report.Appealed {
			stats.AppealedReports++
		}
	}
	for _, post := range r.m.posts {
		stats.PostsByStatus[post.Status]++
	}
	stats.WorkshopSignups = len(r.m.registrations)
	for _, reg := range r.m.registrations {
		if reg.CertificateIssued {
			stats.CertificatesIssued++
		}
	}
	return stats, nil
}

// ===== TEST HELPERS =====

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

package export

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/internship-service/internal/models"
	"github.com/SAP-F-2025/internship-service/internal/repositories"
)

// ExcelExporter builds the spreadsheets the SCAD office downloads at the
// end of an internship cycle.
type ExcelExporter struct {
	logger *slog.Logger
}

func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

const applicationsSheet = "Applications"

// ExportApplications writes one row per application with its review status
// and intern lifecycle flags.
func (e *ExcelExporter) ExportApplications(apps []*models.InternshipApplication) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(applicationsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headers := []string{"ID", "Job Title", "Applicant", "Email", "Status", "Current Intern", "Completed", "Evaluated"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(applicationsSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(applicationsSheet, "A1", lastCol, headerStyle)
	}

	for i, app := range apps {
		row := i + 2
		values := []interface{}{
			app.ID,
			app.JobTitle,
			app.ApplicantName,
			app.ApplicantEmail,
			string(app.Status),
			app.IsCurrentIntern,
			app.IsCompleted,
			app.IsEvaluated,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(applicationsSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	e.logger.Debug("built applications export", "rows", len(apps))
	return f, nil
}

const statsSheet = "Cycle Summary"

// ExportCycleStats writes the dashboard aggregates as a two-column summary.
func (e *ExcelExporter) ExportCycleStats(stats *repositories.CycleStats) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(statsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	rows := [][2]interface{}{
		{"Total applications", stats.TotalApplications},
		{"Current interns", stats.CurrentInterns},
		{"Completed interns", stats.CompletedInterns},
		{"Evaluated interns", stats.EvaluatedInterns},
		{"Appealed reports", stats.AppealedReports},
		{"Workshop signups", stats.WorkshopSignups},
		{"Certificates issued", stats.CertificatesIssued},
	}
	for status, count := range stats.ApplicationsByState {
		rows = append(rows, [2]interface{}{fmt.Sprintf("Applications %s", status), count})
	}
	for status, count := range stats.ReportsByStatus {
		rows = append(rows, [2]interface{}{fmt.Sprintf("Reports %s", status), count})
	}
	for status, count := range stats.PostsByStatus {
		rows = append(rows, [2]interface{}{fmt.Sprintf("Posts %s", status), count})
	}

	for i, row := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(statsSheet, labelCell, row[0]); err != nil {
			return nil, fmt.Errorf("failed to write label: %w", err)
		}
		if err := f.SetCellValue(statsSheet, valueCell, row[1]); err != nil {
			return nil, fmt.Errorf("failed to write value: %w", err)
		}
	}

	return f, nil
}

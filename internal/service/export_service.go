package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/catequesis-api/internal/models"
	"github.com/noah-isme/catequesis-api/pkg/export"
)

// ReportFormat enumerates the supported export formats.
type ReportFormat string

// Supported export formats.
const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ParseReportFormat converts a raw string into a report format.
func ParseReportFormat(raw string) (ReportFormat, error) {
	switch ReportFormat(raw) {
	case ReportFormatCSV, ReportFormatPDF:
		return ReportFormat(raw), nil
	case "":
		return ReportFormatCSV, nil
	}
	return "", fmt.Errorf("unknown report format %q", raw)
}

type reportProvider interface {
	FinancialReport(ctx context.Context, filter models.FinancialReportFilter) (*models.FinancialReport, error)
	AcademicReport(ctx context.Context, filter models.AcademicReportFilter) (*models.AcademicReport, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries rendered report bytes plus download metadata.
type ExportResult struct {
	Payload     []byte
	Filename    string
	ContentType string
}

// ExportService renders financial and academic reports into downloadable
// CSV or PDF documents.
type ExportService struct {
	reports reportProvider
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{reports: reports, csv: csv, pdf: pdf, logger: logger}
}

// ExportFinancialReport renders the financial report in the given format.
func (s *ExportService) ExportFinancialReport(ctx context.Context, filter models.FinancialReportFilter, format ReportFormat) (*ExportResult, error) {
	report, err := s.reports.FinancialReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	dataset := financialDataset(report)
	return s.render(dataset, "Financial Report", "financial_report", format)
}

// ExportAcademicReport renders the academic report in the given format.
func (s *ExportService) ExportAcademicReport(ctx context.Context, filter models.AcademicReportFilter, format ReportFormat) (*ExportResult, error) {
	report, err := s.reports.AcademicReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	dataset := academicDataset(report)
	return s.render(dataset, "Academic Report", "academic_report", format)
}

func (s *ExportService) render(dataset export.Dataset, title, prefix string, format ReportFormat) (*ExportResult, error) {
	var payload []byte
	var err error
	contentType := "text/csv"
	switch format {
	case ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().UTC().Format("20060102_150405")
	return &ExportResult{
		Payload:     payload,
		Filename:    fmt.Sprintf("%s_%s.%s", prefix, timestamp, format),
		ContentType: contentType,
	}, nil
}

func financialDataset(report *models.FinancialReport) export.Dataset {
	rows := []map[string]string{
		{"Metric": "Total Enrollments", "Value": fmt.Sprintf("%d", report.TotalEnrollments)},
		{"Metric": "Expected Total", "Value": fmt.Sprintf("%.2f", report.ExpectedTotal)},
		{"Metric": "Collected Total", "Value": fmt.Sprintf("%.2f", report.CollectedTotal)},
		{"Metric": "Pending Total", "Value": fmt.Sprintf("%.2f", report.PendingTotal)},
		{"Metric": "Discount Total", "Value": fmt.Sprintf("%.2f", report.DiscountTotal)},
		{"Metric": "Collection Rate (%)", "Value": fmt.Sprintf("%.2f", report.CollectionRate)},
		{"Metric": "Overdue Enrollments", "Value": fmt.Sprintf("%d", report.OverdueCount)},
	}
	statuses := make([]string, 0, len(report.ByPaymentStatus))
	for status := range report.ByPaymentStatus {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		rows = append(rows, map[string]string{
			"Metric": fmt.Sprintf("Status %s", status),
			"Value":  fmt.Sprintf("%d", report.ByPaymentStatus[models.PaymentStatus(status)]),
		})
	}
	return export.Dataset{Headers: []string{"Metric", "Value"}, Rows: rows}
}

func academicDataset(report *models.AcademicReport) export.Dataset {
	rows := []map[string]string{
		{"Metric": "Total Enrollments", "Value": fmt.Sprintf("%d", report.TotalEnrollments)},
		{"Metric": "Average Attendance (%)", "Value": fmt.Sprintf("%.2f", report.AvgAttendance)},
		{"Metric": "Average Grade", "Value": fmt.Sprintf("%.2f", report.AvgGrade)},
		{"Metric": "Meet Attendance Requirement", "Value": fmt.Sprintf("%d", report.MeetAttendanceReq)},
		{"Metric": "Meet Grade Requirement", "Value": fmt.Sprintf("%d", report.MeetGradeReq)},
		{"Metric": "Eligible For Graduation", "Value": fmt.Sprintf("%d", report.EligibleCount)},
	}
	for _, band := range []string{models.BandAttendance90to100, models.BandAttendance80to89, models.BandAttendance70to79, models.BandAttendanceBelow70, models.BandNoData} {
		rows = append(rows, map[string]string{
			"Metric": fmt.Sprintf("Attendance %s", band),
			"Value":  fmt.Sprintf("%d", report.AttendanceBands[band]),
		})
	}
	for _, band := range []string{models.BandGrade9to10, models.BandGrade8to89, models.BandGrade7to79, models.BandGradeBelow7, models.BandNoData} {
		rows = append(rows, map[string]string{
			"Metric": fmt.Sprintf("Grades %s", band),
			"Value":  fmt.Sprintf("%d", report.GradeBands[band]),
		})
	}
	return export.Dataset{Headers: []string{"Metric", "Value"}, Rows: rows}
}

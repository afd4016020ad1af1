package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"MC-REPORT/internal"
	"MC-REPORT/internal/mapping"
	"MC-REPORT/internal/models"
	"MC-REPORT/internal/render"
	"MC-REPORT/internal/storage"

	"github.com/google/uuid"
)

type ReportService struct {
	storageClient   storage.Client
	templateService *TemplateService
	contextProvider ContextProvider
	pdfService      *PDFService
	statsService    *StatisticsService
}

func NewReportService(storageClient storage.Client, templateService *TemplateService, contextProvider ContextProvider, pdfService *PDFService, statsService *StatisticsService) *ReportService {
	return &ReportService{
		storageClient:   storageClient,
		templateService: templateService,
		contextProvider: contextProvider,
		pdfService:      pdfService,
		statsService:    statsService,
	}
}

// GenerateRequest carries one report-generation request. Values are the
// caller's manual field values; auto-fill overlays them only where the data
// context actually resolves. Report is extra report-scoped data passed
// through to the resolver's report namespace.
type GenerateRequest struct {
	PatientID string                 `json:"patient_id"`
	VisitID   string                 `json:"visit_id"`
	Values    map[string]string      `json:"values"`
	Report    map[string]interface{} `json:"report"`
}

// GenerateResult is the outcome of a generation. UnresolvedRequired lists
// required fields that ended up without a value; generation still succeeds,
// the caller decides whether that is acceptable.
type GenerateResult struct {
	Report             *models.GeneratedReport
	UnresolvedRequired []string
}

// Generate renders a report from a stored template and a data context,
// stores the HTML (and PDF when the converter is available) and persists
// the report row with the substituted values.
func (s *ReportService) Generate(ctx context.Context, templateID string, req GenerateRequest) (*GenerateResult, error) {
	template, err := s.templateService.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	doc := models.DocumentFromModel(template)

	dc, err := s.contextProvider.FetchContext(ctx, req.PatientID, req.VisitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data context: %w", err)
	}
	dc.Report = req.Report

	values := mapping.Resolve(doc.DynamicFields, dc, req.Values)

	var unresolved []string
	for _, f := range doc.DynamicFields {
		if f.Required && values[f.FieldName] == "" {
			unresolved = append(unresolved, f.FieldName)
		}
	}
	if len(unresolved) > 0 {
		log.Printf("report generation: required fields without a value: %s", strings.Join(unresolved, ", "))
	}

	// The persisted static content is the authoritative layout; re-render
	// only when a legacy row predates it.
	body := template.StaticContent
	if body == "" {
		body = render.Body(doc)
	}

	page, err := render.Page(template.TemplateName, render.Substitute(body, values), time.Now())
	if err != nil {
		return nil, err
	}

	reportID := uuid.New().String()
	htmlObject := storage.ReportHTMLObjectName(reportID)
	result, err := s.storageClient.UploadFile(ctx, strings.NewReader(page), htmlObject, "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to store report HTML: %w", err)
	}

	report := &models.GeneratedReport{
		ID:              reportID,
		TemplateID:      template.ID,
		PatientID:       req.PatientID,
		VisitID:         req.VisitID,
		StoragePathHTML: htmlObject,
		FileSize:        result.Size,
		Status:          "completed",
	}

	valuesJSON, err := json.Marshal(values)
	if err != nil {
		s.storageClient.DeleteFile(ctx, htmlObject)
		return nil, fmt.Errorf("failed to marshal report values: %w", err)
	}
	report.Values = string(valuesJSON)

	// PDF conversion is best effort: the HTML artifact alone is a complete
	// report, so a Gotenberg outage degrades rather than fails.
	if s.pdfService != nil {
		if pdfPath, size, err := s.convertAndStorePDF(ctx, reportID, page); err != nil {
			log.Printf("Warning: PDF conversion failed for report %s: %v", reportID, err)
		} else {
			report.StoragePathPDF = pdfPath
			report.FileSize += size
		}
	}

	if err := internal.DB.Create(report).Error; err != nil {
		s.storageClient.DeleteFile(ctx, htmlObject)
		if report.StoragePathPDF != "" {
			s.storageClient.DeleteFile(ctx, report.StoragePathPDF)
		}
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	if s.statsService != nil {
		s.statsService.RecordEvent(EventReportGenerated, template.ID)
	}

	return &GenerateResult{Report: report, UnresolvedRequired: unresolved}, nil
}

func (s *ReportService) convertAndStorePDF(ctx context.Context, reportID, page string) (string, int64, error) {
	pdfReader, err := s.pdfService.ConvertHTMLToPDF(ctx, page)
	if err != nil {
		return "", 0, err
	}
	defer pdfReader.Close()

	pdfObject := storage.ReportPDFObjectName(reportID)
	result, err := s.storageClient.UploadFile(ctx, pdfReader, pdfObject, "application/pdf")
	if err != nil {
		return "", 0, fmt.Errorf("failed to store report PDF: %w", err)
	}
	return pdfObject, result.Size, nil
}

func (s *ReportService) GetReport(reportID string) (*models.GeneratedReport, error) {
	var report models.GeneratedReport
	if err := internal.DB.First(&report, "id = ?", reportID).Error; err != nil {
		return nil, fmt.Errorf("report not found: %w", err)
	}
	return &report, nil
}

// GetReports lists generated reports, optionally filtered by template or
// patient, newest first.
func (s *ReportService) GetReports(templateID, patientID string, limit, offset int) ([]models.GeneratedReport, int64, error) {
	query := internal.DB.Model(&models.GeneratedReport{})
	if templateID != "" {
		query = query.Where("template_id = ?", templateID)
	}
	if patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var reports []models.GeneratedReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reports: %w", err)
	}

	return reports, total, nil
}

// GetReportReader streams a report artifact in the requested format.
func (s *ReportService) GetReportReader(ctx context.Context, reportID, format string) (io.ReadCloser, string, string, error) {
	report, err := s.GetReport(reportID)
	if err != nil {
		return nil, "", "", err
	}

	var objectName, filename, mimeType string
	switch format {
	case "pdf":
		if report.StoragePathPDF == "" {
			return nil, "", "", fmt.Errorf("no PDF available for report %s", reportID)
		}
		objectName = report.StoragePathPDF
		filename = fmt.Sprintf("report_%s.pdf", reportID)
		mimeType = "application/pdf"
	default:
		objectName = report.StoragePathHTML
		filename = fmt.Sprintf("report_%s.html", reportID)
		mimeType = "text/html"
	}

	reader, err := s.storageClient.ReadFile(ctx, objectName)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read report artifact: %w", err)
	}

	return reader, filename, mimeType, nil
}

// Regenerate re-renders a report from its template using the values stored
// at generation time. Useful after a template's static layout was fixed. The
// new report supersedes the old one: once the fresh artifacts are persisted,
// the original row and its stored objects are removed, so repeated
// regenerations never accumulate duplicates.
func (s *ReportService) Regenerate(ctx context.Context, reportID string) (*models.GeneratedReport, error) {
	report, err := s.GetReport(reportID)
	if err != nil {
		return nil, err
	}

	var values map[string]string
	if report.Values != "" {
		if err := json.Unmarshal([]byte(report.Values), &values); err != nil {
			return nil, fmt.Errorf("failed to parse stored report values: %w", err)
		}
	}

	result, err := s.Generate(ctx, report.TemplateID, GenerateRequest{
		PatientID: report.PatientID,
		VisitID:   report.VisitID,
		Values:    values,
	})
	if err != nil {
		return nil, err
	}

	if err := s.DeleteReport(ctx, reportID); err != nil {
		log.Printf("Warning: failed to remove superseded report %s: %v", reportID, err)
	}

	return result.Report, nil
}

// DeleteReport removes the stored artifacts and soft-deletes the row.
// Artifact deletion failures are logged, not fatal; the row disappears
// either way.
func (s *ReportService) DeleteReport(ctx context.Context, reportID string) error {
	report, err := s.GetReport(reportID)
	if err != nil {
		return err
	}

	if report.StoragePathHTML != "" {
		if err := s.storageClient.DeleteFile(ctx, report.StoragePathHTML); err != nil {
			log.Printf("Warning: failed to delete report HTML %s: %v", report.StoragePathHTML, err)
		}
	}
	if report.StoragePathPDF != "" {
		if err := s.storageClient.DeleteFile(ctx, report.StoragePathPDF); err != nil {
			log.Printf("Warning: failed to delete report PDF %s: %v", report.StoragePathPDF, err)
		}
	}

	return internal.DB.Delete(report).Error
}

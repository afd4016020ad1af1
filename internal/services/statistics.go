package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"MC-REPORT/internal"
	"MC-REPORT/internal/models"

	"github.com/google/uuid"
)

const (
	EventTemplateSaved   = models.EventTemplateSaved
	EventReportGenerated = models.EventReportGenerated
)

type StatisticsService struct{}

func NewStatisticsService() *StatisticsService {
	return &StatisticsService{}
}

// RecordEvent records one occurrence of an event, both globally and per
// template. Statistics are advisory; a failed increment is logged and never
// surfaces to the triggering request.
func (s *StatisticsService) RecordEvent(eventType models.EventType, templateID string) {
	if err := s.incrementStat(eventType, ""); err != nil {
		log.Printf("Warning: failed to record global %s stat: %v", eventType, err)
	}
	if templateID != "" {
		if err := s.incrementStat(eventType, templateID); err != nil {
			log.Printf("Warning: failed to record %s stat for template %s: %v", eventType, templateID, err)
		}
	}
}

// incrementStat increments the count for a specific event type and optional template
// It uses upsert logic to either create a new record or increment existing one
func (s *StatisticsService) incrementStat(eventType models.EventType, templateID string) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var stat models.Statistics
	query := internal.DB.Where("event_type = ? AND date = ?", eventType, today)

	if templateID != "" {
		query = query.Where("template_id = ?", templateID)
	} else {
		query = query.Where("template_id IS NULL OR template_id = ''")
	}

	result := query.First(&stat)

	if result.Error != nil {
		// Record doesn't exist, create new one
		stat = models.Statistics{
			ID:         uuid.New().String(),
			EventType:  eventType,
			TemplateID: templateID,
			Date:       today,
			Count:      1,
		}
		if err := internal.DB.Create(&stat).Error; err != nil {
			// Handle race condition - another request might have created it
			// Try to increment instead
			return s.incrementExisting(eventType, templateID, today)
		}
		return nil
	}

	return internal.DB.Model(&stat).UpdateColumn("count", stat.Count+1).Error
}

// incrementExisting handles the case where a record was created by another request
func (s *StatisticsService) incrementExisting(eventType models.EventType, templateID string, date time.Time) error {
	query := internal.DB.Model(&models.Statistics{}).
		Where("event_type = ? AND date = ?", eventType, date)

	if templateID != "" {
		query = query.Where("template_id = ?", templateID)
	} else {
		query = query.Where("template_id IS NULL OR template_id = ''")
	}

	return query.UpdateColumn("count", internal.DB.Raw("count + 1")).Error
}

// GetSummary returns total counts for all event types.
// The generated_reports table is the source of truth for report counts;
// the statistics table only fills in when rows predate stat tracking.
func (s *StatisticsService) GetSummary() (*models.StatisticsSummary, error) {
	summary := &models.StatisticsSummary{}

	var saves int64
	if err := internal.DB.Model(&models.Statistics{}).
		Where("event_type = ? AND (template_id IS NULL OR template_id = '')", models.EventTemplateSaved).
		Select("COALESCE(SUM(count), 0)").
		Scan(&saves).Error; err != nil {
		return nil, fmt.Errorf("failed to get template save count: %w", err)
	}
	summary.TotalTemplateSaves = saves

	var historicalReports int64
	if err := internal.DB.Model(&models.GeneratedReport{}).
		Where("deleted_at IS NULL").
		Count(&historicalReports).Error; err != nil {
		log.Printf("Warning: failed to get historical report count: %v", err)
	}

	var realtimeReports int64
	if err := internal.DB.Model(&models.Statistics{}).
		Where("event_type = ? AND (template_id IS NULL OR template_id = '')", models.EventReportGenerated).
		Select("COALESCE(SUM(count), 0)").
		Scan(&realtimeReports).Error; err != nil {
		return nil, fmt.Errorf("failed to get report count: %w", err)
	}

	// Use the higher value to avoid double counting when stat tracking
	// started after reports already existed.
	if historicalReports > realtimeReports {
		summary.TotalReportsGenerated = historicalReports
	} else {
		summary.TotalReportsGenerated = realtimeReports
	}

	return summary, nil
}

// GetTemplateStats returns statistics for all templates that have either
// generated reports or recorded events.
func (s *StatisticsService) GetTemplateStats() ([]models.TemplateStatistics, error) {
	var historicalTemplateIDs []string
	if err := internal.DB.Model(&models.GeneratedReport{}).
		Where("deleted_at IS NULL AND template_id IS NOT NULL AND template_id != ''").
		Distinct("template_id").
		Pluck("template_id", &historicalTemplateIDs).Error; err != nil {
		log.Printf("Warning: failed to get historical template IDs: %v", err)
	}

	var statsTemplateIDs []string
	if err := internal.DB.Model(&models.Statistics{}).
		Where("template_id IS NOT NULL AND template_id != ''").
		Distinct("template_id").
		Pluck("template_id", &statsTemplateIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to get template IDs from stats: %w", err)
	}

	templateIDSet := make(map[string]bool)
	for _, id := range historicalTemplateIDs {
		templateIDSet[id] = true
	}
	for _, id := range statsTemplateIDs {
		templateIDSet[id] = true
	}

	var stats []models.TemplateStatistics
	for templateID := range templateIDSet {
		templateStat, err := s.GetStatsByTemplate(templateID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *templateStat)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].ReportsGenerated > stats[j].ReportsGenerated
	})

	return stats, nil
}

// GetStatsByTemplate returns statistics for a specific template
func (s *StatisticsService) GetStatsByTemplate(templateID string) (*models.TemplateStatistics, error) {
	templateStat := &models.TemplateStatistics{
		TemplateID: templateID,
	}

	var template models.ReportTemplate
	if err := internal.DB.Select("template_name").Where("id = ?", templateID).First(&template).Error; err == nil {
		templateStat.TemplateName = template.TemplateName
	} else {
		// Template was deleted - mark it
		templateStat.TemplateName = "(deleted template)"
	}

	var saves int64
	if err := internal.DB.Model(&models.Statistics{}).
		Where("event_type = ? AND template_id = ?", models.EventTemplateSaved, templateID).
		Select("COALESCE(SUM(count), 0)").
		Scan(&saves).Error; err != nil {
		return nil, fmt.Errorf("failed to get template save count: %w", err)
	}
	templateStat.TemplateSaves = saves

	var historicalReports int64
	internal.DB.Model(&models.GeneratedReport{}).
		Where("deleted_at IS NULL AND template_id = ?", templateID).
		Count(&historicalReports)

	var statsReports int64
	if err := internal.DB.Model(&models.Statistics{}).
		Where("event_type = ? AND template_id = ?", models.EventReportGenerated, templateID).
		Select("COALESCE(SUM(count), 0)").
		Scan(&statsReports).Error; err != nil {
		return nil, fmt.Errorf("failed to get report count: %w", err)
	}
	if historicalReports > statsReports {
		templateStat.ReportsGenerated = historicalReports
	} else {
		templateStat.ReportsGenerated = statsReports
	}

	return templateStat, nil
}

// GetTimeSeries returns time-based statistics for a specific event type.
// days is the number of days to look back.
func (s *StatisticsService) GetTimeSeries(eventType models.EventType, days int, templateID string) (*models.TimeSeriesData, error) {
	startDate := time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	dateCountMap := make(map[string]int64)

	// For report generation, the generated_reports table carries events
	// that predate stat tracking.
	if eventType == models.EventReportGenerated {
		var historicalResults []struct {
			Date  time.Time
			Count int64
		}

		reportQuery := internal.DB.Model(&models.GeneratedReport{}).
			Where("deleted_at IS NULL AND created_at >= ?", startDate)

		if templateID != "" {
			reportQuery = reportQuery.Where("template_id = ?", templateID)
		}

		if err := reportQuery.
			Select("DATE(created_at) as date, COUNT(*) as count").
			Group("DATE(created_at)").
			Scan(&historicalResults).Error; err != nil {
			log.Printf("Warning: failed to get historical time series: %v", err)
		} else {
			for _, r := range historicalResults {
				dateCountMap[r.Date.Format("2006-01-02")] = r.Count
			}
		}
	}

	query := internal.DB.Model(&models.Statistics{}).
		Where("event_type = ? AND date >= ?", eventType, startDate)

	if templateID != "" {
		query = query.Where("template_id = ?", templateID)
	} else {
		query = query.Where("template_id IS NULL OR template_id = ''")
	}

	var statsResults []struct {
		Date  time.Time
		Count int64
	}

	if err := query.
		Select("date, SUM(count) as count").
		Group("date").
		Order("date ASC").
		Scan(&statsResults).Error; err != nil {
		return nil, fmt.Errorf("failed to get time series data: %w", err)
	}

	// Merge, taking the higher count per day to avoid double counting.
	for _, r := range statsResults {
		dateStr := r.Date.Format("2006-01-02")
		if existing, ok := dateCountMap[dateStr]; !ok || r.Count > existing {
			dateCountMap[dateStr] = r.Count
		}
	}

	data := &models.TimeSeriesData{
		EventType:  string(eventType),
		DataPoints: make([]models.TimeSeriesPoint, 0, len(dateCountMap)),
	}

	dates := make([]string, 0, len(dateCountMap))
	for dateStr := range dateCountMap {
		dates = append(dates, dateStr)
	}
	sort.Strings(dates)

	var total int64
	for _, dateStr := range dates {
		count := dateCountMap[dateStr]
		data.DataPoints = append(data.DataPoints, models.TimeSeriesPoint{
			Date:  dateStr,
			Count: count,
		})
		total += count
	}
	data.Total = total

	return data, nil
}

// GetTrends returns time-based statistics for all event types
func (s *StatisticsService) GetTrends(days int, templateID string) (map[string]*models.TimeSeriesData, error) {
	eventTypes := []models.EventType{models.EventTemplateSaved, models.EventReportGenerated}
	trends := make(map[string]*models.TimeSeriesData)

	for _, et := range eventTypes {
		data, err := s.GetTimeSeries(et, days, templateID)
		if err != nil {
			return nil, err
		}
		trends[string(et)] = data
	}

	return trends, nil
}

package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/facilitydesk/backend/internal/models"
	"gorm.io/gorm"
)

// DefaultOverdueWindow is how long a report may sit in the initial
// state before it counts as overdue.
const DefaultOverdueWindow = 7 * 24 * time.Hour

// StatsService computes read-only aggregations over the non-deleted
// report set. Counting happens in memory over the filtered rows, which
// keeps the bucketing rules (overdue, zero-filled months) in one place
// instead of in dialect-specific SQL.
type StatsService struct {
	db           *gorm.DB
	catalog      *CatalogService
	overdueAfter time.Duration
	now          func() time.Time
}

func NewStatsService(db *gorm.DB, catalog *CatalogService, overdueAfter time.Duration) *StatsService {
	if overdueAfter <= 0 {
		overdueAfter = DefaultOverdueWindow
	}
	return &StatsService{db: db, catalog: catalog, overdueAfter: overdueAfter, now: time.Now}
}

type StatsFilters struct {
	ReporterID    *uint
	DashboardType *string
}

type StateCount struct {
	StateID uint   `json:"stateId"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

type MonthBucket struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Summary struct {
	Total   int          `json:"total"`
	ByState []StateCount `json:"byState"`
	Overdue int          `json:"overdue"`
	Today   int          `json:"today"`
}

// Summary counts the filtered reports per state, plus overdue (still in
// the initial state past the configured window) and today's intake. An
// empty report set yields a zeroed summary.
func (ss *StatsService) Summary(filters StatsFilters) (*Summary, error) {
	reports, err := ss.load(filters)
	if err != nil {
		return nil, err
	}

	states, err := ss.catalog.ListStates(nil)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(reports), ByState: make([]StateCount, 0, len(states))}

	counts := make(map[uint]int, len(states))
	for _, report := range reports {
		counts[report.StateID]++
	}
	for _, state := range states {
		summary.ByState = append(summary.ByState, StateCount{
			StateID: state.ID,
			Name:    state.Name,
			Count:   counts[state.ID],
		})
	}

	var initialID uint
	if len(states) > 0 {
		initial, err := ss.catalog.InitialState()
		if err != nil {
			return nil, err
		}
		initialID = initial.ID
	}

	now := ss.now()
	cutoff := now.Add(-ss.overdueAfter)
	year, month, day := now.Date()
	for _, report := range reports {
		if report.StateID == initialID && initialID != 0 && report.CreatedAt.Before(cutoff) {
			summary.Overdue++
		}
		ry, rm, rd := report.CreatedAt.Date()
		if ry == year && rm == month && rd == day {
			summary.Today++
		}
	}

	return summary, nil
}

// MonthlyTrend buckets report creation over the trailing 12 calendar
// months, oldest first, with empty months explicitly zero-filled.
func (ss *StatsService) MonthlyTrend(filters StatsFilters) ([]MonthBucket, error) {
	now := ss.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	reports, err := ss.load(filters)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for _, report := range reports {
		if report.CreatedAt.Before(start) {
			continue
		}
		counts[report.CreatedAt.Year()*100+int(report.CreatedAt.Month())]++
	}

	buckets := make([]MonthBucket, 0, 12)
	for i := 0; i < 12; i++ {
		month := start.AddDate(0, i, 0)
		buckets = append(buckets, MonthBucket{
			Year:  month.Year(),
			Month: int(month.Month()),
			Count: counts[month.Year()*100+int(month.Month())],
		})
	}
	return buckets, nil
}

// CategoryDistribution counts the filtered reports per category name,
// most frequent first.
func (ss *StatsService) CategoryDistribution(filters StatsFilters) ([]CategoryCount, error) {
	reports, err := ss.load(filters)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, report := range reports {
		counts[report.Category.Name]++
	}

	distribution := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		distribution = append(distribution, CategoryCount{Category: name, Count: count})
	}
	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].Category < distribution[j].Category
	})
	return distribution, nil
}

func (ss *StatsService) load(filters StatsFilters) ([]models.Report, error) {
	query := ss.db.Model(&models.Report{}).
		Preload("Category").
		Preload("State").
		Where("reports.deleted = ?", false)

	if filters.ReporterID != nil {
		query = query.Where("reports.reporter_id = ?", *filters.ReporterID)
	}
	if filters.DashboardType != nil {
		query = query.Joins("JOIN categories ON categories.id = reports.category_id").
			Where("categories.dashboard_type = ?", *filters.DashboardType)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to load reports for statistics: %w", err)
	}
	return reports, nil
}

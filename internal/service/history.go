package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yashkg31/hisaab-kitaab/internal/models"
)

// Time frame literals for history queries
const (
	TimeFrameMonth = "month"
	TimeFrameYear  = "year"
)

// GetHistoryData returns a dense income/expense series for charting. The
// month frame yields one entry per calendar day, the year frame one per
// month (0-11), both ascending and zero-filled for periods with no
// activity. A period with no rollup rows at all yields an empty series.
func (s *DefaultService) GetHistoryData(
	ctx context.Context,
	userID string,
	timeFrame string,
	month, year int,
) ([]models.HistoryPeriod, error) {
	switch timeFrame {
	case TimeFrameMonth:
		return s.getMonthHistoryData(ctx, userID, month, year)
	case TimeFrameYear:
		return s.getYearHistoryData(ctx, userID, year)
	default:
		return nil, fmt.Errorf("%w: bad time frame %q", ErrInvalidInput, timeFrame)
	}
}

func (s *DefaultService) getMonthHistoryData(
	ctx context.Context,
	userID string,
	month, year int,
) ([]models.HistoryPeriod, error) {
	rows, err := s.repo.GetMonthHistory(ctx, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("error getting month history: %w", err)
	}

	if len(rows) == 0 {
		return []models.HistoryPeriod{}, nil
	}

	totalsByDay := make(map[int]models.MonthHistory, len(rows))
	for _, row := range rows {
		totalsByDay[row.Day] = row
	}

	days := daysInMonth(month, year)
	history := make([]models.HistoryPeriod, 0, days)
	for day := 1; day <= days; day++ {
		entry := models.HistoryPeriod{
			Year:  year,
			Month: month,
			Day:   day,
		}
		if row, ok := totalsByDay[day]; ok {
			entry.Income = row.Income
			entry.Expense = row.Expense
		}
		history = append(history, entry)
	}

	return history, nil
}

func (s *DefaultService) getYearHistoryData(
	ctx context.Context,
	userID string,
	year int,
) ([]models.HistoryPeriod, error) {
	rows, err := s.repo.GetYearHistory(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("error getting year history: %w", err)
	}

	if len(rows) == 0 {
		return []models.HistoryPeriod{}, nil
	}

	totalsByMonth := make(map[int]models.YearHistory, len(rows))
	for _, row := range rows {
		totalsByMonth[row.Month] = row
	}

	history := make([]models.HistoryPeriod, 0, 12)
	for month := 0; month < 12; month++ {
		entry := models.HistoryPeriod{
			Year:  year,
			Month: month,
		}
		if row, ok := totalsByMonth[month]; ok {
			entry.Income = row.Income
			entry.Expense = row.Expense
		}
		history = append(history, entry)
	}

	return history, nil
}

// GetHistoryPeriods lists the years for which any rollup data exists.
// Users with no data get the current year so period selectors always
// have something to show.
func (s *DefaultService) GetHistoryPeriods(ctx context.Context, userID string) ([]int, error) {
	years, err := s.repo.GetHistoryYears(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting history periods: %w", err)
	}

	if len(years) == 0 {
		return []int{time.Now().UTC().Year()}, nil
	}

	return years, nil
}

// GetBalanceStats sums the raw ledger over an arbitrary date range. The
// rollups are not used here: they are keyed at day/month granularity and
// cannot serve unaligned ranges.
func (s *DefaultService) GetBalanceStats(
	ctx context.Context,
	userID string,
	from, to time.Time,
) (*models.BalanceStatsResponse, error) {
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}

	income, expense, err := s.repo.GetBalanceStats(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error getting balance stats: %w", err)
	}

	return &models.BalanceStatsResponse{
		Status:  "success",
		Income:  income,
		Expense: expense,
		Balance: income - expense,
	}, nil
}

// GetCategoriesStats returns per-category amount sums over a date range,
// largest first.
func (s *DefaultService) GetCategoriesStats(
	ctx context.Context,
	userID string,
	from, to time.Time,
) ([]models.CategoryStats, error) {
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}

	stats, err := s.repo.GetCategoriesStats(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error getting categories stats: %w", err)
	}

	if stats == nil {
		stats = []models.CategoryStats{}
	}

	return stats, nil
}

// daysInMonth returns the number of days in the given 0-based month,
// accounting for leap years. time.Date normalizes day 0 to the last day
// of the preceding month.
func daysInMonth(month, year int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

package services

import (
	"context"
	"fmt"

	"tracker/internal/api"
	"tracker/internal/core"
)

type BreakdownResult struct {
	Result
	Breakdown core.MonthlyBreakdown
}

// MonthlyBreakdownService fetches the combined single-month view. Unlike
// the paginated expense list, the whole month arrives in one response so
// summary, list and charts always describe the same state.
type MonthlyBreakdownService struct {
	client *api.Client
}

func NewMonthlyBreakdownService(client *api.Client) *MonthlyBreakdownService {
	return &MonthlyBreakdownService{client: client}
}

func emptyBreakdown() core.MonthlyBreakdown {
	return core.MonthlyBreakdown{
		Expenses:             []core.ExpenseWithCategory{},
		CategoryDistribution: []core.CategoryShare{},
		DailyBreakdown:       []core.SeriesPoint{},
	}
}

// Breakdown returns the month's summary, expenses, category distribution
// and daily trend for (month, year). Month must be 1-12.
func (s *MonthlyBreakdownService) Breakdown(ctx context.Context, token string, month, year int) BreakdownResult {
	empty := BreakdownResult{Breakdown: emptyBreakdown()}

	if month < 1 || month > 12 {
		empty.Result = fail(fmt.Sprintf("invalid month %d", month))
		return empty
	}

	env, err := s.client.Post(ctx, token, "/api/monthly-breakdown", monthYearPayload{Month: month, Year: year})
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch monthly breakdown. Please try again.")
		return empty
	}
	if !env.Status {
		empty.Result = fail(env.Message)
		return empty
	}

	var payload struct {
		Summary              core.MonthlySummary  `json:"summary"`
		Expenses             []wireExpense        `json:"expenses"`
		CategoryDistribution []core.CategoryShare `json:"categoryDistribution"`
		DailyBreakdown       []core.SeriesPoint   `json:"dailyBreakdown"`
	}
	if err := env.DecodeData(&payload); err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch monthly breakdown. Please try again.")
		return empty
	}
	expenses, err := mapExpenses(payload.Expenses)
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch monthly breakdown. Please try again.")
		return empty
	}

	breakdown := core.MonthlyBreakdown{
		Summary:              payload.Summary,
		Expenses:             expenses,
		CategoryDistribution: payload.CategoryDistribution,
		DailyBreakdown:       payload.DailyBreakdown,
	}
	if breakdown.CategoryDistribution == nil {
		breakdown.CategoryDistribution = []core.CategoryShare{}
	}
	if breakdown.DailyBreakdown == nil {
		breakdown.DailyBreakdown = []core.SeriesPoint{}
	}
	return BreakdownResult{Result: ok(env.Message), Breakdown: breakdown}
}

package services

import (
	"context"

	"tracker/internal/api"
	"tracker/internal/core"
)

type DashboardResult struct {
	Result
	Data core.DashboardData
}

// DashboardService fetches the dashboard snapshot. The aggregate is
// computed entirely server-side; the client holds it only as component
// state and refetches after every mutation instead of patching locally.
type DashboardService struct {
	client *api.Client
}

func NewDashboardService(client *api.Client) *DashboardService {
	return &DashboardService{client: client}
}

func emptyDashboard() core.DashboardData {
	return core.DashboardData{
		RecentExpenses:      []core.ExpenseWithCategory{},
		ExpenseDistribution: []core.CategoryShare{},
		MonthlyExpensesData: []core.SeriesPoint{},
	}
}

// Snapshot returns the complete dashboard read-model: stats, recent
// expenses, distribution and the monthly series.
func (s *DashboardService) Snapshot(ctx context.Context, token string) DashboardResult {
	empty := DashboardResult{Data: emptyDashboard()}

	env, err := s.client.Post(ctx, token, "/api/expenses/dashboard", nil)
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch dashboard data. Please try again.")
		return empty
	}
	if !env.Status {
		empty.Result = fail(env.Message)
		return empty
	}

	var payload struct {
		Stats               core.DashboardStats  `json:"stats"`
		RecentExpenses      []wireExpense        `json:"recentExpenses"`
		ExpenseDistribution []core.CategoryShare `json:"expenseDistribution"`
		MonthlyExpensesData []core.SeriesPoint   `json:"monthlyExpensesData"`
	}
	if err := env.DecodeData(&payload); err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch dashboard data. Please try again.")
		return empty
	}
	recent, err := mapExpenses(payload.RecentExpenses)
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch dashboard data. Please try again.")
		return empty
	}

	data := core.DashboardData{
		Stats:               payload.Stats,
		RecentExpenses:      recent,
		ExpenseDistribution: payload.ExpenseDistribution,
		MonthlyExpensesData: payload.MonthlyExpensesData,
	}
	if data.ExpenseDistribution == nil {
		data.ExpenseDistribution = []core.CategoryShare{}
	}
	if data.MonthlyExpensesData == nil {
		data.MonthlyExpensesData = []core.SeriesPoint{}
	}
	return DashboardResult{Result: ok(env.Message), Data: data}
}

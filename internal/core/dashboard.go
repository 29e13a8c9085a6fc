package core

import "github.com/shopspring/decimal"

type (
	// DashboardStats is the aggregate header computed entirely by the
	// backend; the client treats it as a read-only snapshot.
	DashboardStats struct {
		TotalExpenses     decimal.Decimal `json:"totalExpenses"`
		ThisMonthExpenses decimal.Decimal `json:"thisMonthExpenses"`
		LastMonthExpenses decimal.Decimal `json:"lastMonthExpenses"`
		PercentageChange  decimal.Decimal `json:"percentageChange"`
	}

	// SeriesPoint is a single point of a time series chart.
	SeriesPoint struct {
		Date   string          `json:"date"`
		Amount decimal.Decimal `json:"amount"`
	}

	// CategoryShare is one slice of a category distribution chart. Color
	// may be filled by the backend or resolved client-side.
	CategoryShare struct {
		Name  string          `json:"name"`
		Value decimal.Decimal `json:"value"`
		Color string          `json:"color,omitempty"`
	}

	DashboardData struct {
		Stats               DashboardStats        `json:"stats"`
		RecentExpenses      []ExpenseWithCategory `json:"recentExpenses"`
		ExpenseDistribution []CategoryShare       `json:"expenseDistribution"`
		MonthlyExpensesData []SeriesPoint         `json:"monthlyExpensesData"`
	}

	ChartData struct {
		MonthlyData          []SeriesPoint   `json:"monthlyData"`
		CategoryDistribution []CategoryShare `json:"categoryDistribution"`
	}

	MonthlySummary struct {
		TotalSpent    decimal.Decimal `json:"totalSpent"`
		TotalExpenses int             `json:"totalExpenses"`
		AveragePerDay decimal.Decimal `json:"averagePerDay"`
		DaysInMonth   int             `json:"daysInMonth"`
	}

	// MonthlyBreakdown is the combined single-month view: summary,
	// expense list, category distribution and daily trend arrive in one
	// response so the page updates atomically.
	MonthlyBreakdown struct {
		Summary              MonthlySummary        `json:"summary"`
		Expenses             []ExpenseWithCategory `json:"expenses"`
		CategoryDistribution []CategoryShare       `json:"categoryDistribution"`
		DailyBreakdown       []SeriesPoint         `json:"dailyBreakdown"`
	}

	// DateRange is an optional half-open filter for chart data.
	DateRange struct {
		StartDate string `json:"startDate,omitempty"`
		EndDate   string `json:"endDate,omitempty"`
	}
)

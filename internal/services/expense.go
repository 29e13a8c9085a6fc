package services

import (
	"context"
	"strings"
	"time"

	"tracker/internal/api"
	"tracker/internal/cache"
	"tracker/internal/core"
)

type (
	ExpenseListResult struct {
		Result
		Expenses   []core.ExpenseWithCategory
		Pagination core.Pagination
	}

	ExpenseResult struct {
		Result
		Expense core.ExpenseWithCategory
	}

	CategoryListResult struct {
		Result
		Categories []core.Category
	}

	CategoryResult struct {
		Result
		Category core.Category
	}

	ChartResult struct {
		Result
		Chart core.ChartData
	}

	ExportResult struct {
		Result
		CSV []byte
	}
)

// ExpenseService covers CRUD and aggregation over expenses and
// categories. The category list is cached per session for a short TTL
// and invalidated when a category is created.
type ExpenseService struct {
	client     *api.Client
	categories *cache.TTLCache[[]core.Category]
}

func NewExpenseService(client *api.Client, categories *cache.TTLCache[[]core.Category]) *ExpenseService {
	return &ExpenseService{client: client, categories: categories}
}

// List returns one page of expenses matching filter. Category filters by
// exact id; month filters by calendar month of any year.
func (s *ExpenseService) List(ctx context.Context, token string, page, limit int, filter core.ExpenseFilter) ExpenseListResult {
	empty := ExpenseListResult{
		Expenses:   []core.ExpenseWithCategory{},
		Pagination: core.Pagination{Page: page, Limit: limit, TotalPages: 1},
	}

	env, err := s.client.Post(ctx, token, "/api/expenses/list", listPayload{
		Page:     page,
		Limit:    limit,
		Category: filter.Category,
		Month:    filter.Month,
	})
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch expenses. Please try again.")
		return empty
	}
	if !env.Status {
		empty.Result = fail(env.Message)
		return empty
	}

	var ws []wireExpense
	if err := env.DecodeData(&ws); err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch expenses. Please try again.")
		return empty
	}
	expenses, err := mapExpenses(ws)
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch expenses. Please try again.")
		return empty
	}

	out := ExpenseListResult{Result: ok(env.Message), Expenses: expenses, Pagination: empty.Pagination}
	if env.Pagination != nil {
		out.Pagination = *env.Pagination
	}
	return out
}

func (s *ExpenseService) Get(ctx context.Context, token, id string) ExpenseResult {
	env, err := s.client.Post(ctx, token, "/api/expenses/get", map[string]string{"expenseId": id})
	if err != nil {
		return ExpenseResult{Result: failWith(ctx, err, "Failed to fetch expense. Please try again.")}
	}
	if !env.Status {
		return ExpenseResult{Result: fail(env.Message)}
	}
	return s.decodeExpense(ctx, env, "Failed to fetch expense. Please try again.")
}

// Create submits a new expense. Invalid input is rejected before any
// network call is made.
func (s *ExpenseService) Create(ctx context.Context, token string, in core.ExpenseInput) ExpenseResult {
	if err := in.Validate(time.Now().UTC()); err != nil {
		return ExpenseResult{Result: fail(err.Error())}
	}

	env, err := s.client.Post(ctx, token, "/api/expenses", expensePayload{
		Title:    strings.TrimSpace(in.Title),
		Amount:   in.Amount,
		Category: in.CategoryID,
		Date:     in.Date,
	})
	if err != nil {
		return ExpenseResult{Result: failWith(ctx, err, "Failed to create expense. Please try again.")}
	}
	if !env.Status {
		return ExpenseResult{Result: fail(env.Message)}
	}
	return s.decodeExpense(ctx, env, "Failed to create expense. Please try again.")
}

// Update replaces the editable fields of an existing expense. The same
// client-side validation as Create applies.
func (s *ExpenseService) Update(ctx context.Context, token, id string, in core.ExpenseInput) ExpenseResult {
	if err := in.Validate(time.Now().UTC()); err != nil {
		return ExpenseResult{Result: fail(err.Error())}
	}

	payload := struct {
		ExpenseID string `json:"expenseId"`
		expensePayload
	}{
		ExpenseID: id,
		expensePayload: expensePayload{
			Title:    strings.TrimSpace(in.Title),
			Amount:   in.Amount,
			Category: in.CategoryID,
			Date:     in.Date,
		},
	}

	env, err := s.client.Post(ctx, token, "/api/expenses/update", payload)
	if err != nil {
		return ExpenseResult{Result: failWith(ctx, err, "Failed to update expense. Please try again.")}
	}
	if !env.Status {
		return ExpenseResult{Result: fail(env.Message)}
	}
	return s.decodeExpense(ctx, env, "Failed to update expense. Please try again.")
}

// Delete removes an expense permanently. Deleting an unknown id reports
// the backend's message with Status=false, never a panic or error.
func (s *ExpenseService) Delete(ctx context.Context, token, id string) Result {
	env, err := s.client.Post(ctx, token, "/api/expenses/delete", map[string]string{"expenseId": id})
	if err != nil {
		return failWith(ctx, err, "Failed to delete expense. Please try again.")
	}
	if !env.Status {
		return fail(env.Message)
	}
	return ok(env.Message)
}

// Categories lists the user's categories, serving from cache when fresh.
func (s *ExpenseService) Categories(ctx context.Context, token string) CategoryListResult {
	if s.categories != nil {
		if cached, hit := s.categories.Get(token); hit {
			return CategoryListResult{Result: ok(""), Categories: cached}
		}
	}

	empty := CategoryListResult{Categories: []core.Category{}}
	env, err := s.client.Post(ctx, token, "/api/categories", nil)
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch categories. Please try again.")
		return empty
	}
	if !env.Status {
		empty.Result = fail(env.Message)
		return empty
	}

	var ws []wireCategory
	if err := env.DecodeData(&ws); err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch categories. Please try again.")
		return empty
	}
	categories := make([]core.Category, 0, len(ws))
	for _, w := range ws {
		if err := w.validate(); err != nil {
			empty.Result = failWith(ctx, err, "Failed to fetch categories. Please try again.")
			return empty
		}
		categories = append(categories, w.toCore())
	}

	if s.categories != nil {
		s.categories.Set(token, categories)
	}
	return CategoryListResult{Result: ok(env.Message), Categories: categories}
}

// CreateCategory adds a category. The name is trimmed and must be at
// least two characters; duplicate-name rejection stays server-side.
func (s *ExpenseService) CreateCategory(ctx context.Context, token, name string) CategoryResult {
	name = strings.TrimSpace(name)
	if err := core.ValidateCategoryName(name); err != nil {
		return CategoryResult{Result: fail(err.Error())}
	}

	env, err := s.client.Post(ctx, token, "/api/categories/create", map[string]string{"name": name})
	if err != nil {
		return CategoryResult{Result: failWith(ctx, err, "Failed to create category. Please try again.")}
	}
	if !env.Status {
		return CategoryResult{Result: fail(env.Message)}
	}

	var w wireCategory
	if err := env.DecodeData(&w); err != nil {
		return CategoryResult{Result: failWith(ctx, err, "Failed to create category. Please try again.")}
	}
	if err := w.validate(); err != nil {
		return CategoryResult{Result: failWith(ctx, err, "Failed to create category. Please try again.")}
	}

	if s.categories != nil {
		s.categories.Delete(token)
	}
	return CategoryResult{Result: ok(env.Message), Category: w.toCore()}
}

// ChartData returns the monthly trend and category distribution for the
// expense overview chart, optionally bounded by dateRange.
func (s *ExpenseService) ChartData(ctx context.Context, token string, dateRange *core.DateRange) ChartResult {
	empty := ChartResult{Chart: core.ChartData{
		MonthlyData:          []core.SeriesPoint{},
		CategoryDistribution: []core.CategoryShare{},
	}}

	var payload any
	if dateRange != nil {
		payload = dateRange
	}
	env, err := s.client.Post(ctx, token, "/api/expenses/chart-data", payload)
	if err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch chart data. Please try again.")
		return empty
	}
	if !env.Status {
		empty.Result = fail(env.Message)
		return empty
	}

	var chart core.ChartData
	if err := env.DecodeData(&chart); err != nil {
		empty.Result = failWith(ctx, err, "Failed to fetch chart data. Please try again.")
		return empty
	}
	if chart.MonthlyData == nil {
		chart.MonthlyData = []core.SeriesPoint{}
	}
	if chart.CategoryDistribution == nil {
		chart.CategoryDistribution = []core.CategoryShare{}
	}
	return ChartResult{Result: ok(env.Message), Chart: chart}
}

// Export asks the backend for a CSV of the expenses matching filter. No
// CSV is assembled client-side; the body is streamed through as-is.
func (s *ExpenseService) Export(ctx context.Context, token string, filter core.ExpenseFilter) ExportResult {
	body, err := s.client.PostRaw(ctx, token, "/api/expenses/export", exportPayload{
		Category: filter.Category,
		Month:    filter.Month,
	})
	if err != nil {
		return ExportResult{Result: failWith(ctx, err, "Failed to export expenses. Please try again.")}
	}
	return ExportResult{Result: ok(""), CSV: body}
}

func (s *ExpenseService) decodeExpense(ctx context.Context, env api.Envelope, message string) ExpenseResult {
	var w wireExpense
	if err := env.DecodeData(&w); err != nil {
		return ExpenseResult{Result: failWith(ctx, err, message)}
	}
	if err := w.validate(); err != nil {
		return ExpenseResult{Result: failWith(ctx, err, message)}
	}
	return ExpenseResult{Result: ok(env.Message), Expense: w.toCore()}
}

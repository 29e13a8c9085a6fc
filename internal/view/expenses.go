package view

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tracker/internal/api"
	"tracker/internal/core"
	"tracker/internal/services"
	"tracker/internal/styles"
)

const defaultPageSize = 10

// ExpenseRow pairs an expense with everything its table row needs to
// render: the resolved category style and the formatted amount.
type ExpenseRow struct {
	core.ExpenseWithCategory
	Style       styles.Style
	AmountLabel string
}

// ExpenseListState drives the expenses page: a filterable, paginated
// table plus the add/edit forms, the category picker and the trend
// charts.
type ExpenseListState struct {
	Status

	svc    *services.ExpenseService
	styles styles.Resolver
	token  string

	Page   int
	Limit  int
	Filter core.ExpenseFilter

	Expenses   []core.ExpenseWithCategory
	Pagination core.Pagination
	Categories []core.Category
	Chart      core.ChartData

	// Editing is the expense loaded into the edit form, nil when the
	// page shows the add form instead.
	Editing *core.ExpenseWithCategory
}

func NewExpenseListState(svc *services.ExpenseService, resolver styles.Resolver, token string) *ExpenseListState {
	return &ExpenseListState{
		svc:    svc,
		styles: resolver,
		token:  token,
		Page:   1,
		Limit:  defaultPageSize,
	}
}

// Load fetches the table page, the category list and the chart data
// concurrently. An expired session on any branch cancels the others.
func (s *ExpenseListState) Load(ctx context.Context) {
	s.clear()

	var (
		list  services.ExpenseListResult
		cats  services.CategoryListResult
		chart services.ChartResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list = s.svc.List(gctx, s.token, s.Page, s.Limit, s.Filter)
		if list.Unauthorized {
			return api.ErrUnauthorized
		}
		return nil
	})
	g.Go(func() error {
		cats = s.svc.Categories(gctx, s.token)
		if cats.Unauthorized {
			return api.ErrUnauthorized
		}
		return nil
	})
	g.Go(func() error {
		chart = s.svc.ChartData(gctx, s.token, nil)
		if chart.Unauthorized {
			return api.ErrUnauthorized
		}
		return nil
	})
	_ = g.Wait()

	if s.note(list.Result) {
		s.Expenses = list.Expenses
		s.Pagination = list.Pagination
	}
	if s.note(cats.Result) {
		s.Categories = cats.Categories
	}
	if s.note(chart.Result) {
		s.Chart = chart.Chart
	}
}

// ApplyFilter replaces the active filter and jumps back to the first
// page. Changing a filter on page 5 of the old result set must not strand
// the user on a page the new set may not have.
func (s *ExpenseListState) ApplyFilter(ctx context.Context, f core.ExpenseFilter) {
	s.Filter = f
	s.Page = 1
	s.reloadTable(ctx)
}

// GoToPage moves to page n of the current filter. Pages out of range are
// served as an empty page, mirroring the backend.
func (s *ExpenseListState) GoToPage(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	s.Page = n
	s.reloadTable(ctx)
}

func (s *ExpenseListState) reloadTable(ctx context.Context) {
	s.clear()
	list := s.svc.List(ctx, s.token, s.Page, s.Limit, s.Filter)
	if s.note(list.Result) {
		s.Expenses = list.Expenses
		s.Pagination = list.Pagination
	}
}

// Create submits a new expense and, on success, refetches the page so the
// table reflects the server's ordering and pagination rather than a local
// guess. On failure the page is still loaded so the table renders next
// to the error.
func (s *ExpenseListState) Create(ctx context.Context, in core.ExpenseInput) bool {
	s.clear()
	res := s.svc.Create(ctx, s.token, in)
	if !s.flash(res.Result) {
		s.reloadKeepingError(ctx)
		return false
	}
	s.refresh(ctx, res.Message)
	return true
}

// Update edits an existing expense, then refetches.
func (s *ExpenseListState) Update(ctx context.Context, id string, in core.ExpenseInput) bool {
	s.clear()
	res := s.svc.Update(ctx, s.token, id, in)
	if !s.flash(res.Result) {
		s.reloadKeepingError(ctx)
		return false
	}
	s.refresh(ctx, res.Message)
	return true
}

// Delete removes an expense, then refetches.
func (s *ExpenseListState) Delete(ctx context.Context, id string) bool {
	s.clear()
	res := s.svc.Delete(ctx, s.token, id)
	if !s.flash(res) {
		s.reloadKeepingError(ctx)
		return false
	}
	s.refresh(ctx, res.Message)
	return true
}

// reloadKeepingError reloads the page data after a failed mutation while
// keeping the mutation's error message on top.
func (s *ExpenseListState) reloadKeepingError(ctx context.Context) {
	errMsg, unauth := s.Error, s.Unauthorized
	s.Load(ctx)
	if errMsg != "" {
		s.Error = errMsg
	}
	s.Unauthorized = s.Unauthorized || unauth
}

// refresh reloads everything after a successful mutation, keeping the
// flash message from the mutation rather than the reload.
func (s *ExpenseListState) refresh(ctx context.Context, flash string) {
	s.Load(ctx)
	if s.Error == "" {
		s.Flash = flash
	}
}

// BeginEdit loads one expense into the edit form alongside the table.
func (s *ExpenseListState) BeginEdit(ctx context.Context, id string) {
	res := s.svc.Get(ctx, s.token, id)
	if !s.note(res.Result) {
		return
	}
	s.Editing = &res.Expense
}

// AddCategory creates a category and refetches the category list so the
// picker includes it immediately.
func (s *ExpenseListState) AddCategory(ctx context.Context, name string) bool {
	s.clear()
	res := s.svc.CreateCategory(ctx, s.token, name)
	if !s.flash(res.Result) {
		return false
	}
	cats := s.svc.Categories(ctx, s.token)
	if s.note(cats.Result) {
		s.Categories = cats.Categories
		s.Flash = res.Message
	}
	return true
}

// Export returns the CSV for the current filter. Pagination does not
// apply: the export always covers every matching expense.
func (s *ExpenseListState) Export(ctx context.Context) ([]byte, bool) {
	s.clear()
	res := s.svc.Export(ctx, s.token, s.Filter)
	if !s.note(res.Result) {
		return nil, false
	}
	return res.CSV, true
}

// Rows returns the expenses decorated for rendering.
func (s *ExpenseListState) Rows() []ExpenseRow {
	rows := make([]ExpenseRow, 0, len(s.Expenses))
	for _, e := range s.Expenses {
		rows = append(rows, ExpenseRow{
			ExpenseWithCategory: e,
			Style:               s.styles.Resolve(e.Category.Name),
			AmountLabel:         core.FormatAmount(e.Amount),
		})
	}
	return rows
}

// HasPrev and HasNext drive the pager controls.
func (s *ExpenseListState) HasPrev() bool { return s.Page > 1 }

func (s *ExpenseListState) HasNext() bool { return s.Page < s.Pagination.TotalPages }

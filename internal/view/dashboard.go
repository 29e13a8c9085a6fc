package view

import (
	"context"

	"tracker/internal/core"
	"tracker/internal/services"
	"tracker/internal/styles"
)

// DashboardState drives the dashboard page: the stats header, the recent
// expenses table and the two charts. The whole snapshot comes from a
// single backend aggregate, so a reload replaces everything at once.
type DashboardState struct {
	Status

	dashboard *services.DashboardService
	expenses  *services.ExpenseService
	styles    styles.Resolver
	token     string

	Data core.DashboardData
}

func NewDashboardState(dashboard *services.DashboardService, expenses *services.ExpenseService, resolver styles.Resolver, token string) *DashboardState {
	return &DashboardState{
		dashboard: dashboard,
		expenses:  expenses,
		styles:    resolver,
		token:     token,
	}
}

func (s *DashboardState) Load(ctx context.Context) {
	s.clear()
	res := s.dashboard.Snapshot(ctx, s.token)
	if s.note(res.Result) {
		s.Data = res.Data
	}
}

// Delete removes an expense from the recent table, then reloads the full
// snapshot: stats, distribution and series all shift with the deletion,
// so patching the one table row would leave the page inconsistent.
func (s *DashboardState) Delete(ctx context.Context, id string) bool {
	s.clear()
	res := s.expenses.Delete(ctx, s.token, id)
	if !s.flash(res) {
		s.reloadKeepingError(ctx)
		return false
	}
	flash := res.Message
	s.Load(ctx)
	if s.Error == "" {
		s.Flash = flash
	}
	return true
}

func (s *DashboardState) reloadKeepingError(ctx context.Context) {
	errMsg, unauth := s.Error, s.Unauthorized
	s.Load(ctx)
	if errMsg != "" {
		s.Error = errMsg
	}
	s.Unauthorized = s.Unauthorized || unauth
}

// RecentRows returns the recent expenses decorated for rendering.
func (s *DashboardState) RecentRows() []ExpenseRow {
	rows := make([]ExpenseRow, 0, len(s.Data.RecentExpenses))
	for _, e := range s.Data.RecentExpenses {
		rows = append(rows, ExpenseRow{
			ExpenseWithCategory: e,
			Style:               s.styles.Resolve(e.Category.Name),
			AmountLabel:         core.FormatAmount(e.Amount),
		})
	}
	return rows
}

// Distribution fills in colors for slices the backend sent without one.
func (s *DashboardState) Distribution() []core.CategoryShare {
	out := make([]core.CategoryShare, 0, len(s.Data.ExpenseDistribution))
	for _, share := range s.Data.ExpenseDistribution {
		if share.Color == "" {
			share.Color = s.styles.Resolve(share.Name).Color
		}
		out = append(out, share)
	}
	return out
}

// TrendLabel says whether spending went up or down against last month.
func (s *DashboardState) TrendLabel() string {
	switch s.Data.Stats.PercentageChange.Sign() {
	case 1:
		return "up"
	case -1:
		return "down"
	default:
		return "flat"
	}
}

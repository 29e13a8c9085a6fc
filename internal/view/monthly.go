package view

import (
	"context"
	"strconv"
	"time"

	"tracker/internal/core"
	"tracker/internal/services"
	"tracker/internal/styles"
)

// MonthlyState drives the monthly breakdown page. Month and year select
// one calendar month; summary, expense list and charts arrive as one
// combined response and are replaced together.
type MonthlyState struct {
	Status

	breakdown *services.MonthlyBreakdownService
	expenses  *services.ExpenseService
	styles    styles.Resolver
	token     string

	Month int
	Year  int

	Data core.MonthlyBreakdown
}

// NewMonthlyState starts at the current month.
func NewMonthlyState(breakdown *services.MonthlyBreakdownService, expenses *services.ExpenseService, resolver styles.Resolver, token string, now time.Time) *MonthlyState {
	return &MonthlyState{
		breakdown: breakdown,
		expenses:  expenses,
		styles:    resolver,
		token:     token,
		Month:     int(now.Month()),
		Year:      now.Year(),
	}
}

func (s *MonthlyState) Load(ctx context.Context) {
	s.clear()
	res := s.breakdown.Breakdown(ctx, s.token, s.Month, s.Year)
	if s.note(res.Result) {
		s.Data = res.Breakdown
	}
}

// Select switches to another (month, year) and refetches. Out-of-range
// months are rejected by the service and leave the current data showing.
func (s *MonthlyState) Select(ctx context.Context, month, year int) {
	s.Month = month
	s.Year = year
	s.Load(ctx)
}

// Delete removes an expense from this month's list, then refetches the
// combined view so summary, list and charts stay in step.
func (s *MonthlyState) Delete(ctx context.Context, id string) bool {
	s.clear()
	res := s.expenses.Delete(ctx, s.token, id)
	if !s.flash(res) {
		errMsg, unauth := s.Error, s.Unauthorized
		s.Load(ctx)
		if errMsg != "" {
			s.Error = errMsg
		}
		s.Unauthorized = s.Unauthorized || unauth
		return false
	}
	flash := res.Message
	s.Load(ctx)
	if s.Error == "" {
		s.Flash = flash
	}
	return true
}

// Rows returns this month's expenses decorated for rendering.
func (s *MonthlyState) Rows() []ExpenseRow {
	rows := make([]ExpenseRow, 0, len(s.Data.Expenses))
	for _, e := range s.Data.Expenses {
		rows = append(rows, ExpenseRow{
			ExpenseWithCategory: e,
			Style:               s.styles.Resolve(e.Category.Name),
			AmountLabel:         core.FormatAmount(e.Amount),
		})
	}
	return rows
}

// Title renders the page heading, e.g. "June 2025".
func (s *MonthlyState) Title() string {
	return time.Month(s.Month).String() + " " + strconv.Itoa(s.Year)
}

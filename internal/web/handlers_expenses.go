package web

import (
	"net/http"
	"strconv"
	"strings"

	"tracker/internal/core"
	"tracker/internal/view"
)

type expensesPage struct {
	Page
	State *view.ExpenseListState
}

// expenseFilterFrom reads the filter and page the request carries, from
// query parameters on GET and hidden form fields on POST.
func expenseFilterFrom(r *http.Request) (core.ExpenseFilter, int) {
	get := func(key string) string {
		if r.Method == http.MethodPost {
			return strings.TrimSpace(r.FormValue(key))
		}
		return strings.TrimSpace(r.URL.Query().Get(key))
	}

	filter := core.ExpenseFilter{
		Category: get("category"),
		Month:    get("month"),
	}
	page := 1
	if v := get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	return filter, page
}

// expenseInputFrom builds an ExpenseInput from the add/edit form. Parse
// failures surface as field-level messages on the page.
func expenseInputFrom(r *http.Request) (core.ExpenseInput, string) {
	amount, err := core.ParseAmount(r.FormValue("amount"))
	if err != nil {
		return core.ExpenseInput{}, "Please enter a valid positive amount"
	}
	date, err := core.ParseDate(r.FormValue("date"))
	if err != nil {
		return core.ExpenseInput{}, "Please enter a valid date"
	}
	return core.ExpenseInput{
		Title:      r.FormValue("title"),
		Amount:     amount,
		CategoryID: r.FormValue("categoryId"),
		Date:       date,
	}, ""
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	state := view.NewExpenseListState(s.expenses, s.styles, sess.Token)
	state.Filter, state.Page = expenseFilterFrom(r)

	switch r.Method {
	case http.MethodGet:
		state.Load(r.Context())
		if id := strings.TrimSpace(r.URL.Query().Get("edit")); id != "" {
			state.BeginEdit(r.Context(), id)
		}
	case http.MethodPost:
		s.applyExpenseAction(r, state)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if state.Unauthorized {
		s.dropSession(w, r, sess)
		return
	}

	s.render(w, http.StatusOK, "expenses.html", expensesPage{
		Page:  Page{Title: "Expenses", User: sess.User, Flash: state.Flash, Error: state.Error},
		State: state,
	})
}

func (s *Server) applyExpenseAction(r *http.Request, state *view.ExpenseListState) {
	ctx := r.Context()

	switch r.FormValue("action") {
	case "create":
		in, msg := expenseInputFrom(r)
		if msg != "" {
			state.Load(ctx)
			state.Error = msg
			return
		}
		state.Create(ctx, in)
	case "update":
		in, msg := expenseInputFrom(r)
		if msg != "" {
			state.Load(ctx)
			state.Error = msg
			return
		}
		state.Update(ctx, r.FormValue("id"), in)
	case "delete":
		state.Delete(ctx, r.FormValue("id"))
	case "add-category":
		state.Load(ctx)
		state.AddCategory(ctx, r.FormValue("name"))
	default:
		state.Load(ctx)
	}
}

// handleExport streams the CSV for the current filter as a download. The
// export covers every matching expense, not just the visible page.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := sessionFrom(r)
	filter, _ := expenseFilterFrom(r)

	res := s.expenses.Export(r.Context(), sess.Token, filter)
	if res.Unauthorized {
		s.dropSession(w, r, sess)
		return
	}
	if !res.Status {
		http.Error(w, res.Message, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=expenses.csv`)
	_, _ = w.Write(res.CSV)
}

package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tracker/internal/view"
)

type monthlyPage struct {
	Page
	State *view.MonthlyState
	Years []int
}

// parseMonthYear reads the requested month and year, defaulting to the
// current month.
func parseMonthYear(r *http.Request, now time.Time) (month, year int) {
	month, year = int(now.Month()), now.Year()

	get := func(key string) string {
		if r.Method == http.MethodPost {
			return strings.TrimSpace(r.FormValue(key))
		}
		return strings.TrimSpace(r.URL.Query().Get(key))
	}
	if v := get("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}
	if v := get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	return month, year
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	now := time.Now()

	state := view.NewMonthlyState(s.monthly, s.expenses, s.styles, sess.Token, now)
	state.Month, state.Year = parseMonthYear(r, now)

	switch r.Method {
	case http.MethodGet:
		state.Load(r.Context())
	case http.MethodPost:
		switch r.FormValue("action") {
		case "delete":
			state.Delete(r.Context(), r.FormValue("id"))
		default:
			state.Load(r.Context())
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if state.Unauthorized {
		s.dropSession(w, r, sess)
		return
	}

	years := make([]int, 0, 6)
	for y := now.Year(); y >= now.Year()-5; y-- {
		years = append(years, y)
	}

	s.render(w, http.StatusOK, "monthly-breakdown.html", monthlyPage{
		Page:  Page{Title: "Monthly breakdown", User: sess.User, Flash: state.Flash, Error: state.Error},
		State: state,
		Years: years,
	})
}

package web

import (
	"net/http"

	"tracker/internal/view"
)

type dashboardPage struct {
	Page
	State *view.DashboardState
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	state := view.NewDashboardState(s.dashboard, s.expenses, s.styles, sess.Token)

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

	s.render(w, http.StatusOK, "dashboard.html", dashboardPage{
		Page:  Page{Title: "Dashboard", User: sess.User, Flash: state.Flash, Error: state.Error},
		State: state,
	})
}

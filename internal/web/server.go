// Package web is the HTTP surface: server-rendered pages backed by the
// page states in internal/view, with session handling, rate limiting and
// security headers around them.
package web

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tracker/internal/config"
	"tracker/internal/services"
	"tracker/internal/session"
	"tracker/internal/styles"
	appweb "tracker/web"
)

// sessionCookie is the only cookie the browser ever holds. Its value is
// an opaque id into the session store; the backend token never leaves
// the server.
const sessionCookie = "session_id"

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"monthNames": func() []string {
		return []string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		}
	},
	"monthValue": func(i int) string { return fmt.Sprintf("%02d", i+1) },
}

type Server struct {
	http.Server

	templates *template.Template
	sessions  *session.Store
	auth      *services.AuthService
	expenses  *services.ExpenseService
	dashboard *services.DashboardService
	monthly   *services.MonthlyBreakdownService
	styles    styles.Resolver

	rateLimiter   *rateLimiter
	sessionTTL    time.Duration
	secureCookies bool

	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

type Deps struct {
	Sessions  *session.Store
	Auth      *services.AuthService
	Expenses  *services.ExpenseService
	Dashboard *services.DashboardService
	Monthly   *services.MonthlyBreakdownService
	Styles    styles.Resolver
}

// NewServer configures routes and templates, returning a ready-to-run
// server. Call Shutdown to stop the sweep and rate limiter goroutines
// along with the listener.
func NewServer(cfg config.Config, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		sessions:      deps.Sessions,
		auth:          deps.Auth,
		expenses:      deps.Expenses,
		dashboard:     deps.Dashboard,
		monthly:       deps.Monthly,
		styles:        deps.Styles,
		rateLimiter:   newRateLimiter(),
		sessionTTL:    cfg.SessionTTL,
		secureCookies: cfg.SecureCookies,
		stopSweep:     make(chan struct{}),
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.secure(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/login", s.secure(s.guestOnly(s.handleLogin)))
	mux.HandleFunc("/signup", s.secure(s.guestOnly(s.handleSignup)))
	mux.HandleFunc("/logout", s.secure(s.handleLogout))

	mux.HandleFunc("/dashboard", s.secure(s.requireSession(s.handleDashboard)))
	mux.HandleFunc("/expenses", s.secure(s.requireSession(s.handleExpenses)))
	mux.HandleFunc("/expenses/export", s.secure(s.requireSession(s.handleExport)))
	mux.HandleFunc("/monthly-breakdown", s.secure(s.requireSession(s.handleMonthly)))

	go s.sweepSessions(cfg.SessionSweep)

	return s
}

// sweepSessions periodically deletes expired sessions from the store.
func (s *Server) sweepSessions(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := s.sessions.DeleteExpired(ctx)
			cancel()
			if err != nil {
				slog.Error("Session sweep failed", "error", err)
			} else if n > 0 {
				slog.Debug("Session sweep completed", "sessions_removed", n)
			}
		case <-s.stopSweep:
			return
		}
	}
}

// Shutdown stops the listener and the background goroutines. Safe to
// call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopSweep)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	if s.templates == nil {
		http.Error(w, "templates unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Template render failed", "template", name, "error", err)
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// currentSession resolves the request's session cookie against the
// store. A cookie pointing at a missing or expired session counts as no
// session.
func (s *Server) currentSession(r *http.Request) (session.Session, bool) {
	ck, err := r.Cookie(sessionCookie)
	if err != nil || ck.Value == "" {
		return session.Session{}, false
	}
	sess, err := s.sessions.Get(r.Context(), ck.Value)
	if err != nil {
		return session.Session{}, false
	}
	return sess, true
}

// dropSession tears down the local session after the backend reported
// the token stale. The backend side is already gone; only local state
// needs cleanup.
func (s *Server) dropSession(w http.ResponseWriter, r *http.Request, sess session.Session) {
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		slog.Error("Failed to delete session", "error", err)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

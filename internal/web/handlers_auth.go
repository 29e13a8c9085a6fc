package web

import (
	"log/slog"
	"net/http"
	"strings"

	"tracker/internal/services"
)

type loginPage struct {
	Page
	Email string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	page := loginPage{Page: Page{Title: "Log in"}}

	if r.Method == http.MethodGet {
		s.render(w, http.StatusOK, "login.html", page)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	page.Email = email

	res := s.auth.Login(r.Context(), email, password)
	if !res.Status {
		page.Error = res.Message
		s.render(w, http.StatusUnauthorized, "login.html", page)
		return
	}

	sess, err := s.sessions.Create(r.Context(), res.Token, res.User, s.sessionTTL)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create session", "error", err)
		page.Error = "Something went wrong. Please try again."
		s.render(w, http.StatusInternalServerError, "login.html", page)
		return
	}

	s.setSessionCookie(w, sess.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

type signupPage struct {
	Page
	Name        string
	Email       string
	FieldErrors map[string]string
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	page := signupPage{Page: Page{Title: "Sign up"}}

	if r.Method == http.MethodGet {
		s.render(w, http.StatusOK, "signup.html", page)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	in := services.SignupInput{
		Name:            r.FormValue("name"),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
	page.Name = in.Name
	page.Email = in.Email

	if errs := in.Validate(); errs != nil {
		page.FieldErrors = errs
		s.render(w, http.StatusUnprocessableEntity, "signup.html", page)
		return
	}

	res := s.auth.Signup(r.Context(), in)
	if !res.Status {
		page.Error = res.Message
		s.render(w, http.StatusBadRequest, "signup.html", page)
		return
	}

	sess, err := s.sessions.Create(r.Context(), res.Token, res.User, s.sessionTTL)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create session", "error", err)
		page.Error = "Something went wrong. Please try again."
		s.render(w, http.StatusInternalServerError, "signup.html", page)
		return
	}

	s.setSessionCookie(w, sess.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout tears down the session regardless of what the backend
// says: a logout that leaves the user logged in locally is worse than a
// token the backend already considers dead.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if sess, ok := s.currentSession(r); ok {
		s.auth.Logout(r.Context(), sess.Token)
		if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
			slog.ErrorContext(r.Context(), "Failed to delete session", "error", err)
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"tracker/internal/api"
	"tracker/internal/core"
)

type (
	AuthResult struct {
		Result
		User  core.User
		Token string
	}

	ProfileResult struct {
		Result
		User core.User
	}

	SignupInput struct {
		Name            string
		Email           string
		Password        string
		ConfirmPassword string
	}
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Validate applies the client-side signup rules. A non-empty map blocks
// the network call entirely.
func (in SignupInput) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs["name"] = "Full name is required"
	} else if len(name) < 2 {
		errs["name"] = "Full name must be at least 2 characters"
	}

	if in.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(in.Email) {
		errs["email"] = "Please enter a valid email address"
	}

	if in.Password == "" {
		errs["password"] = "Password is required"
	} else if len(in.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}

	if in.ConfirmPassword == "" {
		errs["confirmPassword"] = "Please confirm your password"
	} else if in.Password != in.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// AuthService handles login, signup, logout and the profile check. The
// session token it returns is stored server-side by the web layer; it is
// never handed to the browser.
type AuthService struct {
	client *api.Client
}

func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for a backend session. A status:false
// result carries the backend's message ("Login failed" or better).
func (s *AuthService) Login(ctx context.Context, email, password string) AuthResult {
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{Result: fail("Email and password are required")}
	}

	env, token, err := s.client.PostForSession(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return AuthResult{Result: failWith(ctx, err, "Login failed. Please try again.")}
	}
	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "Login failed"
		}
		return AuthResult{Result: fail(msg)}
	}
	if token == "" {
		slog.ErrorContext(ctx, "Login succeeded but no session cookie was issued", "component", "auth")
		return AuthResult{Result: fail("Login failed. Please try again.")}
	}

	user, res := decodeUser(ctx, env, "Login failed. Please try again.")
	if !res.Status {
		return AuthResult{Result: res}
	}
	return AuthResult{Result: ok(env.Message), User: user, Token: token}
}

// Signup registers a new account and, like Login, yields a live session
// on success.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) AuthResult {
	if errs := in.Validate(); errs != nil {
		// First error is enough for the transient banner; the form view
		// renders the full map separately.
		for _, msg := range errs {
			return AuthResult{Result: fail(msg)}
		}
	}

	env, token, err := s.client.PostForSession(ctx, "/api/auth/signup", map[string]string{
		"name":     strings.TrimSpace(in.Name),
		"email":    in.Email,
		"password": in.Password,
	})
	if err != nil {
		return AuthResult{Result: failWith(ctx, err, "Signup failed. Please try again.")}
	}
	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "Signup failed. Please try again."
		}
		return AuthResult{Result: fail(msg)}
	}
	if token == "" {
		return AuthResult{Result: fail("Signup failed. Please try again.")}
	}

	user, res := decodeUser(ctx, env, "Signup failed. Please try again.")
	if !res.Status {
		return AuthResult{Result: res}
	}
	return AuthResult{Result: ok(env.Message), User: user, Token: token}
}

// Logout tells the backend to invalidate the session. It ALWAYS reports
// success: getting the user locally logged out matters more than the
// backend round trip, so a failing call is logged and swallowed.
func (s *AuthService) Logout(ctx context.Context, token string) Result {
	if _, err := s.client.Post(ctx, token, "/api/auth/logout", nil); err != nil {
		slog.WarnContext(ctx, "Backend logout failed, logging out locally anyway",
			"component", "auth", "error", err)
	}
	return ok("Logged out successfully")
}

// Profile asks the backend who the session belongs to. This round trip
// is the only authority on session validity; the client never inspects
// the token itself.
func (s *AuthService) Profile(ctx context.Context, token string) ProfileResult {
	env, err := s.client.Post(ctx, token, "/api/auth/profile", nil)
	if err != nil {
		return ProfileResult{Result: failWith(ctx, err, "Failed to get profile")}
	}
	if !env.Status {
		return ProfileResult{Result: fail(env.Message)}
	}
	user, res := decodeUser(ctx, env, "Failed to get profile")
	if !res.Status {
		return ProfileResult{Result: res}
	}
	return ProfileResult{Result: ok(env.Message), User: user}
}

// IsAuthenticated reports whether the token still opens the profile
// endpoint.
func (s *AuthService) IsAuthenticated(ctx context.Context, token string) bool {
	return s.Profile(ctx, token).Status
}

func decodeUser(ctx context.Context, env api.Envelope, message string) (core.User, Result) {
	var payload struct {
		User wireUser `json:"user"`
	}
	if err := env.DecodeData(&payload); err != nil {
		return core.User{}, failWith(ctx, err, message)
	}
	if err := payload.User.validate(); err != nil {
		return core.User{}, failWith(ctx, err, message)
	}
	return payload.User.toCore(), ok("")
}

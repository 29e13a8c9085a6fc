// Package services wraps the backend gateway in typed, envelope-returning
// operations. No method here returns a Go error: transport failures,
// malformed payloads and backend-reported failures all degrade to a
// result with Status=false, a human-readable message and a default-empty
// payload, so view code has exactly one handling path.
package services

import (
	"context"
	"errors"
	"log/slog"

	"tracker/internal/api"
)

// Result is the part of every service return value that mirrors the
// backend's {status, message} envelope.
type Result struct {
	Status  bool
	Message string

	// Unauthorized is set when the backend rejected the session token.
	// The caller must drop the local session and send the user back to
	// the login page.
	Unauthorized bool
}

func ok(message string) Result {
	return Result{Status: true, Message: message}
}

func fail(message string) Result {
	return Result{Status: false, Message: message}
}

// failWith classifies err: rejected sessions are flagged so the web
// layer can tear the session down, everything else becomes the generic
// message. The underlying error is logged, never shown to the user.
func failWith(ctx context.Context, err error, message string) Result {
	if errors.Is(err, api.ErrUnauthorized) {
		return Result{Status: false, Message: "Your session has expired. Please log in again.", Unauthorized: true}
	}
	slog.ErrorContext(ctx, "Backend call failed", "component", "services", "error", err)
	return fail(message)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestPostSendsJSONAndToken(t *testing.T) {
	var gotToken, gotContentType string
	var gotBody map[string]any

	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if ck, err := r.Cookie(TokenCookie); err == nil {
			gotToken = ck.Value
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "message": "ok", "data": map[string]int{"n": 1}})
	})
	defer srv.Close()

	env, err := c.Post(context.Background(), "tok-123", "/api/expenses/list", map[string]int{"page": 2})
	if err != nil {
		t.Fatal(err)
	}
	if !env.Status || env.Message != "ok" {
		t.Fatalf("envelope = %+v", env)
	}
	if gotToken != "tok-123" {
		t.Fatalf("token cookie = %q", gotToken)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotBody["page"] != float64(2) {
		t.Fatalf("body = %v", gotBody)
	}
}

func TestPostNilPayloadSendsEmptyObject(t *testing.T) {
	var raw string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 16)
		n, _ := r.Body.Read(b)
		raw = string(b[:n])
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	})
	defer srv.Close()

	if _, err := c.Post(context.Background(), "", "/api/categories", nil); err != nil {
		t.Fatal(err)
	}
	if raw != "{}" {
		t.Fatalf("body = %q, want empty object", raw)
	}
}

func TestPostBusinessFailureIsNotAnError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Login failed"})
	})
	defer srv.Close()

	env, err := c.Post(context.Background(), "", "/api/auth/login", nil)
	if err != nil {
		t.Fatalf("business failure must not surface as error: %v", err)
	}
	if env.Status || env.Message != "Login failed" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestPostUnauthorized(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	_, err := c.Post(context.Background(), "stale", "/api/expenses/list", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestPostMalformedResponseFailsLoudly(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	})
	defer srv.Close()

	if _, err := c.Post(context.Background(), "", "/api/expenses/list", nil); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestPostTransportError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // connection refused from here on

	if _, err := c.Post(context.Background(), "", "/api/expenses/list", nil); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestPostForSessionCapturesCookie(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "issued-token", HttpOnly: true})
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true, "message": "Login successful"})
	})
	defer srv.Close()

	env, token, err := c.PostForSession(context.Background(), "/api/auth/login", map[string]string{"email": "a@b.com"})
	if err != nil {
		t.Fatal(err)
	}
	if !env.Status {
		t.Fatalf("envelope = %+v", env)
	}
	if token != "issued-token" {
		t.Fatalf("token = %q", token)
	}
}

func TestPostForSessionNoCookie(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Login failed"})
	})
	defer srv.Close()

	env, token, err := c.PostForSession(context.Background(), "/api/auth/login", nil)
	if err != nil {
		t.Fatal(err)
	}
	if env.Status || token != "" {
		t.Fatalf("env=%+v token=%q", env, token)
	}
}

func TestPostRaw(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Title,Amount\nLunch,12.50\n"))
	})
	defer srv.Close()

	body, err := c.PostRaw(context.Background(), "tok", "/api/expenses/export", map[string]string{"month": "02"})
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "Title,Amount\nLunch,12.50\n" {
		t.Fatalf("body = %q", body)
	}
}

func TestDecodeData(t *testing.T) {
	env := Envelope{Status: true, Data: json.RawMessage(`{"name":"Food"}`)}
	var out struct {
		Name string `json:"name"`
	}
	if err := env.DecodeData(&out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "Food" {
		t.Fatalf("out = %+v", out)
	}

	if err := (Envelope{}).DecodeData(&out); err == nil {
		t.Fatal("missing data must error")
	}
	if err := (Envelope{Data: json.RawMessage(`null`)}).DecodeData(&out); err == nil {
		t.Fatal("null data must error")
	}
	if err := (Envelope{Data: json.RawMessage(`{"name":42}`)}).DecodeData(&out); err == nil {
		t.Fatal("type mismatch must error")
	}
}

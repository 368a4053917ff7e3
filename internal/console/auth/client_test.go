package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/medrefer/medrefer/internal/domain/account"
	"github.com/medrefer/medrefer/internal/platform/session"
)

var _ session.Authenticator = (*Client)(nil)

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "p@example.com" || body["password"] != "secret" {
			t.Errorf("body = %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"account": map[string]string{"email": "p@example.com", "role": "patient"},
			"token":   "session-token",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	acct, tok, err := c.Login(context.Background(), "p@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.Email != "p@example.com" || tok != "session-token" {
		t.Errorf("acct = %+v tok = %q", acct, tok)
	}
}

func TestClient_Login_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid email or password"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, _, err := c.Login(context.Background(), "p@example.com", "wrong"); err == nil {
		t.Fatal("expected error")
	}
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"email": "d@example.com", "role": "doctor", "approval_status": "approved"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	acct, err := c.Fetch(context.Background(), "session-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.Role != account.RoleDoctor {
		t.Errorf("role = %q", acct.Role)
	}
}

func TestClient_Fetch_ExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "stale")
	if err == nil {
		t.Fatal("expected error")
	}
	// The store destroys the session on this error, so it must carry the
	// unauthorized marker rather than a generic failure.
	if !errors.Is(err, session.ErrUnauthorized) {
		t.Errorf("expected session.ErrUnauthorized, got %v", err)
	}
}

func TestClient_Fetch_ServerErrorIsNotUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "fine-token")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, session.ErrUnauthorized) {
		t.Errorf("a 502 must not invalidate the session, got %v", err)
	}
}

func TestClient_Logout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/logout" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Logout(context.Background(), "session-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func requestWithSession(session *Session) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.ID})
	return req
}

func TestMemorySessionsRoundTrip(t *testing.T) {
	sessions := NewMemorySessions()

	created, err := sessions.Create(context.Background(), &oauth2.Token{AccessToken: "tok"}, "user-1", "Test User")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() returned empty session ID")
	}

	got := sessions.FromRequest(requestWithSession(created))
	if got == nil {
		t.Fatal("FromRequest() = nil for a live session")
	}
	if got.UserID != "user-1" || got.UserName != "Test User" {
		t.Errorf("resolved session = %+v", got)
	}
	if got.Token.AccessToken != "tok" {
		t.Errorf("token = %q, want %q", got.Token.AccessToken, "tok")
	}
}

func TestMemorySessionsUnknownCookie(t *testing.T) {
	sessions := NewMemorySessions()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := sessions.FromRequest(req); got != nil {
		t.Errorf("FromRequest() without cookie = %+v, want nil", got)
	}

	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "does-not-exist"})
	if got := sessions.FromRequest(req); got != nil {
		t.Errorf("FromRequest() with unknown cookie = %+v, want nil", got)
	}
}

func TestMemorySessionsExpiry(t *testing.T) {
	sessions := NewMemorySessions()

	created, err := sessions.Create(context.Background(), &oauth2.Token{}, "user-1", "Test User")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Age the entry past its TTL
	sessions.mu.Lock()
	entry := sessions.byID[created.ID]
	entry.expiresAt = time.Now().Add(-time.Minute)
	sessions.byID[created.ID] = entry
	sessions.mu.Unlock()

	if got := sessions.FromRequest(requestWithSession(created)); got != nil {
		t.Errorf("FromRequest() after expiry = %+v, want nil", got)
	}

	// The expired entry is pruned, not just hidden
	sessions.mu.Lock()
	_, stillThere := sessions.byID[created.ID]
	sessions.mu.Unlock()
	if stillThere {
		t.Error("expired session left in the store")
	}
}

func TestMemorySessionsDelete(t *testing.T) {
	sessions := NewMemorySessions()

	created, err := sessions.Create(context.Background(), &oauth2.Token{}, "user-1", "Test User")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	sessions.Delete(context.Background(), created.ID)

	if got := sessions.FromRequest(requestWithSession(created)); got != nil {
		t.Errorf("FromRequest() after delete = %+v, want nil", got)
	}
}

func TestSessionCookies(t *testing.T) {
	sessions := NewMemorySessions()

	rec := httptest.NewRecorder()
	sessions.SetCookie(rec, &Session{ID: "abc"})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != sessionCookie || c.Value != "abc" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("session cookie is not HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}

	rec = httptest.NewRecorder()
	sessions.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("clear cookie = %+v", cookies)
	}
}

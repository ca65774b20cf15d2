package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/justestif/go-mood-playlist/internal/db"
)

const (
	sessionCookie = "mood_session"
	sessionTTL    = 24 * time.Hour
)

// Session ties a browser cookie to the Spotify account that authorized the
// app. The token is what the playlist builder acts with.
type Session struct {
	ID        string
	Token     *oauth2.Token
	UserID    string
	UserName  string
	CreatedAt time.Time
}

// SessionManager is the small surface the handlers need: mint a session at
// the end of the OAuth callback, resolve the cookie on each request, drop a
// session on logout, and manage the cookie itself.
type SessionManager interface {
	Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error)
	FromRequest(r *http.Request) *Session
	Delete(ctx context.Context, id string)
	SetCookie(w http.ResponseWriter, session *Session)
	ClearCookie(w http.ResponseWriter)
}

// MemorySessions keeps sessions in process memory, used when no DATABASE_URL
// is configured. Restarting the server logs everyone out.
type MemorySessions struct {
	mu   sync.Mutex
	byID map[string]memorySession
}

type memorySession struct {
	session   *Session
	expiresAt time.Time
}

// NewMemorySessions creates an empty in-memory session manager.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{byID: make(map[string]memorySession)}
}

func (m *MemorySessions) Create(_ context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := randomID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
	}

	m.mu.Lock()
	m.byID[id] = memorySession{session: session, expiresAt: now.Add(sessionTTL)}
	m.mu.Unlock()

	return session, nil
}

// FromRequest resolves the session cookie. Expired entries are removed on
// the way out, so the map never holds more than one stale entry per cookie.
func (m *MemorySessions) FromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byID[cookie.Value]
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.byID, cookie.Value)
		return nil
	}
	return entry.session
}

func (m *MemorySessions) Delete(_ context.Context, id string) {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
}

func (m *MemorySessions) SetCookie(w http.ResponseWriter, session *Session) {
	setSessionCookie(w, session.ID)
}

func (m *MemorySessions) ClearCookie(w http.ResponseWriter) {
	clearSessionCookie(w)
}

// PostgresSessions stores sessions in the sessions table so logins survive
// restarts. The user's display name is joined in from the users table when
// the session is resolved.
type PostgresSessions struct {
	store *db.DB
}

// NewPostgresSessions creates a session manager backed by the database.
func NewPostgresSessions(store *db.DB) *PostgresSessions {
	return &PostgresSessions{store: store}
}

func (p *PostgresSessions) Create(ctx context.Context, token *oauth2.Token, userID, userName string) (*Session, error) {
	id, err := randomID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &db.Session{
		ID:           id,
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExpiry:  token.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(sessionTTL),
	}
	if err := p.store.Sessions().Create(ctx, record); err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Token:     token,
		UserID:    userID,
		UserName:  userName,
		CreatedAt: now,
	}, nil
}

func (p *PostgresSessions) FromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	ctx := r.Context()
	record, err := p.store.Sessions().Get(ctx, cookie.Value)
	if err != nil {
		return nil
	}
	user, err := p.store.Users().Get(ctx, record.UserID)
	if err != nil {
		return nil
	}

	return &Session{
		ID: record.ID,
		Token: &oauth2.Token{
			AccessToken:  record.AccessToken,
			RefreshToken: record.RefreshToken,
			Expiry:       record.TokenExpiry,
			TokenType:    "Bearer",
		},
		UserID:    record.UserID,
		UserName:  user.DisplayName,
		CreatedAt: record.CreatedAt,
	}
}

func (p *PostgresSessions) Delete(ctx context.Context, id string) {
	_ = p.store.Sessions().Delete(ctx, id)
}

func (p *PostgresSessions) SetCookie(w http.ResponseWriter, session *Session) {
	setSessionCookie(w, session.ID)
}

func (p *PostgresSessions) ClearCookie(w http.ResponseWriter) {
	clearSessionCookie(w)
}

// DeleteExpired removes expired sessions; the server runs this periodically.
func (p *PostgresSessions) DeleteExpired(ctx context.Context) error {
	_, err := p.store.Sessions().DeleteExpired(ctx)
	return err
}

var (
	_ SessionManager = (*MemorySessions)(nil)
	_ SessionManager = (*PostgresSessions)(nil)
)

func randomID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

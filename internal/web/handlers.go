package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	zspotify "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/justestif/go-mood-playlist/internal/db"
	"github.com/justestif/go-mood-playlist/internal/emotion"
	"github.com/justestif/go-mood-playlist/internal/mood"
	"github.com/justestif/go-mood-playlist/internal/spotify"
)

// MoodDetector runs a full webcam capture session and returns the final mood.
type MoodDetector interface {
	Detect(ctx context.Context) (mood.Result, error)
	Snapshot() ([]byte, *emotion.Sample)
}

// Recommender produces artist names for a mood. An empty result means
// "recommendation unavailable"; it is never an error.
type Recommender interface {
	Recommend(ctx context.Context, mood, language string, count int) []string
}

// PlaylistBuilder creates Spotify playlists for the authenticated user.
type PlaylistBuilder interface {
	CreatePlaylistFromArtists(ctx context.Context, artists []string, name, description string) (string, []string, error)
	CreatePlaylistForArtist(ctx context.Context, artist, name string) (string, []string, error)
}

// BuilderFactory creates a PlaylistBuilder from a session's OAuth token.
type BuilderFactory func(ctx context.Context, session *Session) PlaylistBuilder

// PlaylistHistory lists a user's previously generated playlists for the
// home page.
type PlaylistHistory interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]db.Playlist, error)
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	auth        *spotifyauth.Authenticator
	sessions    SessionManager
	templates   *Templates
	detector    MoodDetector
	recommender Recommender
	newBuilder  BuilderFactory
	store       *db.DB // nil when running without persistence
	history     PlaylistHistory
	artistCount int
	log         *logrus.Logger
}

// NewHandlers creates a new Handlers instance. A nil builder factory falls
// back to building a real Spotify client from the session token.
func NewHandlers(auth *spotifyauth.Authenticator, sessions SessionManager, templates *Templates,
	detector MoodDetector, recommender Recommender, store *db.DB, log *logrus.Logger) *Handlers {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handlers{
		auth:        auth,
		sessions:    sessions,
		templates:   templates,
		detector:    detector,
		recommender: recommender,
		store:       store,
		artistCount: 10,
		log:         log,
	}
	if store != nil {
		h.history = store.Playlists()
	}
	h.newBuilder = func(ctx context.Context, session *Session) PlaylistBuilder {
		return spotify.New(zspotify.New(h.auth.Client(ctx, session.Token)))
	}
	return h
}

// generateResponse is the JSON body of /generate_playlist.
type generateResponse struct {
	Success     bool           `json:"success"`
	PlaylistURL string         `json:"playlist_url,omitempty"`
	Mood        string         `json:"mood,omitempty"`
	Songs       []string       `json:"songs,omitempty"`
	Segments    []mood.Segment `json:"segments,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// GeneratePlaylist handles GET /generate_playlist?language=&artist=.
// It runs the mood capture, asks the recommender for artists (unless a
// specific artist was requested), and builds the playlist. Every failure
// degrades to {"success":false,"error":...}; internal detail never leaks
// into the response.
func (h *Handlers) GeneratePlaylist(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.FromRequest(r)
	if session == nil {
		writeJSON(w, http.StatusUnauthorized, generateResponse{
			Success: false,
			Error:   "Not connected to Spotify. Log in first.",
		})
		return
	}

	language := strings.TrimSpace(r.URL.Query().Get("language"))
	artist := strings.TrimSpace(r.URL.Query().Get("artist"))

	result, err := h.detector.Detect(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("mood capture failed")
		writeJSON(w, http.StatusOK, generateResponse{
			Success: false,
			Error:   "Could not detect mood.",
		})
		return
	}
	h.log.WithFields(logrus.Fields{"mood": result.Mood, "artist": artist}).Info("mood detected")

	builder := h.newBuilder(r.Context(), session)
	segments := mood.Segments(result, mood.DefaultSegmentConfig())

	if artist != "" {
		h.generateForArtist(w, r, session, builder, artist, segments)
		return
	}

	artists := h.recommender.Recommend(r.Context(), result.Mood, language, h.artistCount)
	if len(artists) == 0 {
		writeJSON(w, http.StatusOK, generateResponse{
			Success: false,
			Error:   "No artists were received from the AI.",
		})
		return
	}

	name := spotify.PlaylistNameForMood(result.Mood)
	description := fmt.Sprintf("Generated from a %s mood", result.Mood)
	url, songs, err := builder.CreatePlaylistFromArtists(r.Context(), artists, name, description)
	if err != nil {
		h.log.WithError(err).Warn("playlist creation failed")
		writeJSON(w, http.StatusOK, generateResponse{
			Success: false,
			Error:   "Could not create the Spotify playlist.",
		})
		return
	}

	h.recordPlaylist(r.Context(), session, name, result.Mood, language, artists, url)

	writeJSON(w, http.StatusOK, generateResponse{
		Success:     true,
		PlaylistURL: url,
		Mood:        titleCase(result.Mood),
		Songs:       songs,
		Segments:    segments,
	})
}

// generateForArtist handles the explicit-artist variant: the playlist is the
// requested artist's top tracks and the mood field echoes the playlist name.
func (h *Handlers) generateForArtist(w http.ResponseWriter, r *http.Request, session *Session,
	builder PlaylistBuilder, artist string, segments []mood.Segment) {
	name := spotify.PlaylistNameForArtist(artist)
	url, songs, err := builder.CreatePlaylistForArtist(r.Context(), artist, name)
	if err != nil {
		if errors.Is(err, spotify.ErrArtistNotFound) {
			writeJSON(w, http.StatusOK, generateResponse{
				Success: false,
				Error:   fmt.Sprintf("Could not find artist: %s.", artist),
			})
			return
		}
		h.log.WithError(err).Warn("artist playlist creation failed")
		writeJSON(w, http.StatusOK, generateResponse{
			Success: false,
			Error:   "Could not create the Spotify playlist.",
		})
		return
	}

	h.recordPlaylist(r.Context(), session, name, name, "", []string{artist}, url)

	writeJSON(w, http.StatusOK, generateResponse{
		Success:     true,
		PlaylistURL: url,
		Mood:        name,
		Songs:       songs,
		Segments:    segments,
	})
}

// recordPlaylist persists a generated playlist when a database is
// configured. Persistence failures are logged, never surfaced.
func (h *Handlers) recordPlaylist(ctx context.Context, session *Session, name, moodLabel, language string, artists []string, url string) {
	if h.store == nil {
		return
	}

	record := &db.Playlist{
		UserID:  session.UserID,
		Name:    name,
		Mood:    moodLabel,
		Artists: artists,
		URL:     url,
	}
	if language != "" {
		record.Language = &language
	}
	if err := h.store.Playlists().Create(ctx, record); err != nil {
		h.log.WithError(err).Warn("failed to record playlist")
	}
}

// Preview handles GET /preview.jpg, serving the newest captured frame while
// a mood session is running. The latest classification rides along in
// headers so the page can overlay it.
func (h *Handlers) Preview(w http.ResponseWriter, _ *http.Request) {
	frame, sample := h.detector.Snapshot()
	if len(frame) == 0 {
		http.Error(w, "no capture in progress", http.StatusNotFound)
		return
	}

	if sample != nil {
		w.Header().Set("X-Dominant-Emotion", sample.DominantEmotion)
		if sample.Region != nil {
			w.Header().Set("X-Face-Region",
				fmt.Sprintf("%d,%d,%d,%d", sample.Region.X, sample.Region.Y, sample.Region.W, sample.Region.H))
		}
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Home handles the home page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.FromRequest(r)

	data := HomePageData{
		PageData: PageData{
			Title:       "Mood Playlist",
			CurrentPath: r.URL.Path,
		},
		Authenticated: session != nil,
	}
	if session != nil {
		data.User = &UserData{
			ID:   session.UserID,
			Name: session.UserName,
		}
		data.Recent = h.recentPlaylists(r.Context(), session.UserID)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// recentPlaylists fetches the user's latest generated playlists. Without a
// database there is no history; lookup failures just hide the section.
func (h *Handlers) recentPlaylists(ctx context.Context, userID string) []RecentPlaylist {
	if h.history == nil {
		return nil
	}

	playlists, err := h.history.ListForUser(ctx, userID, 10)
	if err != nil {
		h.log.WithError(err).Warn("failed to load playlist history")
		return nil
	}

	recent := make([]RecentPlaylist, 0, len(playlists))
	for _, p := range playlists {
		recent = append(recent, RecentPlaylist{
			Name:      p.Name,
			Mood:      p.Mood,
			URL:       p.URL,
			CreatedAt: p.CreatedAt,
		})
	}
	return recent
}

// Login initiates the Spotify OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateOAuthState()
	if err != nil {
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	// Store state in cookie for validation on callback
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // 5 minutes
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the OAuth callback from Spotify (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		http.Error(w, "Missing state cookie", http.StatusBadRequest)
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		http.Error(w, fmt.Sprintf("Spotify auth error: %s", errMsg), http.StatusBadRequest)
		return
	}

	token, err := h.auth.Token(r.Context(), state, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusInternalServerError)
		return
	}

	client := zspotify.New(h.auth.Client(r.Context(), token))
	user, err := client.CurrentUser(r.Context())
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	if h.store != nil {
		record := &db.User{ID: string(user.ID), DisplayName: user.DisplayName, Email: user.Email}
		if err := h.store.Users().Upsert(r.Context(), record); err != nil {
			h.log.WithError(err).Warn("failed to upsert user")
		}
	}

	session, err := h.sessions.Create(r.Context(), token, string(user.ID), user.DisplayName)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	h.sessions.SetCookie(w, session)

	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Logout clears the session and redirects to home (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.FromRequest(r)
	if session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}

	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("failed to encode response")
	}
}

// titleCase upper-cases the first letter of a mood for display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// generateOAuthState creates a random state string for OAuth.
func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

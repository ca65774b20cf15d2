package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a Spotify user profile.
type User struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session represents an authenticated web session.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Playlist records one generated playlist: the mood it was built from, the
// artists the recommender chose, and where it ended up on Spotify.
type Playlist struct {
	ID        uuid.UUID
	UserID    string
	Name      string
	Mood      string
	Language  *string // nullable - requested language filter
	Artists   []string
	URL       string
	CreatedAt time.Time
}

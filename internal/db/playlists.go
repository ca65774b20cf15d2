package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlaylistRepository handles generated-playlist database operations.
type PlaylistRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a record for a generated playlist. The ID is assigned here.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *Playlist) error {
	playlist.ID = uuid.New()
	query := `
		INSERT INTO playlists (id, user_id, name, mood, language, artists, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		playlist.ID,
		playlist.UserID,
		playlist.Name,
		playlist.Mood,
		playlist.Language,
		playlist.Artists,
		playlist.URL,
	).Scan(&playlist.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting playlist: %w", err)
	}
	return nil
}

// ListForUser returns a user's generated playlists, newest first.
func (r *PlaylistRepository) ListForUser(ctx context.Context, userID string, limit int) ([]Playlist, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, user_id, name, mood, language, artists, url, created_at
		FROM playlists
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(
			&playlist.ID,
			&playlist.UserID,
			&playlist.Name,
			&playlist.Mood,
			&playlist.Language,
			&playlist.Artists,
			&playlist.URL,
			&playlist.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating playlists: %w", err)
	}

	return playlists, nil
}

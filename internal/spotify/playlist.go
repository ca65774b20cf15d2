package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
)

const (
	maxTracksPerRequest = 100
	tracksPerArtist     = 2
	artistTopTrackMax   = 10
	topTracksMarket     = "US"
)

// ErrArtistNotFound is returned when a search for an artist produces no
// results. Callers surface it differently from generic playlist failures.
var ErrArtistNotFound = errors.New("artist not found")

// CreatePlaylistFromArtists builds a playlist from the top tracks of the
// given artists (a couple per artist). Artists that cannot be found are
// skipped with a warning; the playlist fails only when no tracks resolve at
// all. Returns the playlist URL and the resolved track labels.
func (c *Client) CreatePlaylistFromArtists(ctx context.Context, artists []string, name, description string) (string, []string, error) {
	var trackIDs []string
	var songs []string

	for _, artist := range artists {
		found, err := c.searchArtist(ctx, artist)
		if err != nil {
			if errors.Is(err, ErrArtistNotFound) {
				logrus.WithField("artist", artist).Warn("skipping unresolvable artist")
				continue
			}
			return "", nil, err
		}

		top, err := c.api.GetArtistsTopTracks(ctx, found.ID, topTracksMarket)
		if err != nil {
			return "", nil, fmt.Errorf("fetching top tracks for %q: %w", artist, err)
		}

		for i, track := range top {
			if i >= tracksPerArtist {
				break
			}
			trackIDs = append(trackIDs, track.ID.String())
			songs = append(songs, formatSong(track.Name, found.Name))
		}
	}

	if len(trackIDs) == 0 {
		return "", nil, errors.New("no tracks resolved for any artist")
	}

	url, err := c.createAndFill(ctx, name, description, trackIDs)
	if err != nil {
		return "", nil, err
	}
	return url, songs, nil
}

// CreatePlaylistForArtist builds a playlist from one artist's top tracks.
// Returns ErrArtistNotFound when the artist cannot be resolved.
func (c *Client) CreatePlaylistForArtist(ctx context.Context, artist, name string) (string, []string, error) {
	found, err := c.searchArtist(ctx, artist)
	if err != nil {
		return "", nil, err
	}

	top, err := c.api.GetArtistsTopTracks(ctx, found.ID, topTracksMarket)
	if err != nil {
		return "", nil, fmt.Errorf("fetching top tracks for %q: %w", artist, err)
	}
	if len(top) == 0 {
		return "", nil, fmt.Errorf("%w: %q has no playable top tracks", ErrArtistNotFound, artist)
	}

	var trackIDs []string
	var songs []string
	for i, track := range top {
		if i >= artistTopTrackMax {
			break
		}
		trackIDs = append(trackIDs, track.ID.String())
		songs = append(songs, formatSong(track.Name, found.Name))
	}

	url, err := c.createAndFill(ctx, name, fmt.Sprintf("Top tracks by %s", found.Name), trackIDs)
	if err != nil {
		return "", nil, err
	}
	return url, songs, nil
}

// searchArtist resolves an artist name to the best search match.
func (c *Client) searchArtist(ctx context.Context, name string) (*spotify.FullArtist, error) {
	result, err := c.api.Search(ctx, name, spotify.SearchTypeArtist, spotify.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("searching for artist %q: %w", name, err)
	}
	if result.Artists == nil || len(result.Artists.Artists) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrArtistNotFound, name)
	}
	return &result.Artists.Artists[0], nil
}

// createAndFill creates the playlist and adds the tracks, batching per the
// Spotify limit of 100 tracks per request.
func (c *Client) createAndFill(ctx context.Context, name, description string, trackIDs []string) (string, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return "", err
	}

	playlist, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, true, false)
	if err != nil {
		return "", fmt.Errorf("creating playlist: %w", err)
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		batch := ids[i:end]

		if _, err := c.api.AddTracksToPlaylist(ctx, playlist.ID, batch...); err != nil {
			return "", fmt.Errorf("adding tracks (batch %d-%d): %w", i+1, end, err)
		}
	}

	return playlistURL(playlist), nil
}

// playlistURL returns the public URL of a playlist, falling back to the URI
// when Spotify omits the external URL.
func playlistURL(playlist *spotify.FullPlaylist) string {
	if url, ok := playlist.ExternalURLs["spotify"]; ok && url != "" {
		return url
	}
	return string(playlist.URI)
}

// formatSong renders one resolved track for the response payload.
func formatSong(track, artist string) string {
	return fmt.Sprintf("%s - %s", strings.TrimSpace(track), strings.TrimSpace(artist))
}

// PlaylistNameForMood renders the default playlist title for a mood, e.g.
// "Happy Mood Playlist".
func PlaylistNameForMood(mood string) string {
	return capitalize(mood) + " Mood Playlist"
}

// PlaylistNameForArtist renders the playlist title for a single-artist
// request, e.g. "Adele's Top Tracks".
func PlaylistNameForArtist(artist string) string {
	return artist + "'s Top Tracks"
}

// capitalize upper-cases the first rune only, matching how moods are
// displayed ("happy" -> "Happy").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

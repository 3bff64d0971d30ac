package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytd/internal/model"
	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultListTimeout = 60 * time.Second
)

// URL parameters
const (
	PlaylistQueryParam = "list"
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
	PlaylistSuffix      = " Playlist"
	MinPrefixLength     = 10
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

var ErrNotPlaylistURL = errors.New("not a playlist URL")

// playlistItem is the subset of a playlist entry the lister needs
type playlistItem struct {
	VideoID string
	Title   string
}

type playlistFetcher func(ctx context.Context, playlistID string) ([]playlistItem, error)

// PlaylistLister resolves YouTube playlist contents without downloading
type PlaylistLister struct {
	timeout time.Duration
	fetch   playlistFetcher
}

// NewPlaylistLister creates a lister backed by the native YouTube client
func NewPlaylistLister() *PlaylistLister {
	return &PlaylistLister{
		timeout: DefaultListTimeout,
		fetch:   fetchPlaylistItems,
	}
}

// SetTimeout sets the timeout for listing operations
func (l *PlaylistLister) SetTimeout(timeout time.Duration) {
	l.timeout = timeout
}

// List fetches the entries of the playlist referenced by rawURL
func (l *PlaylistLister) List(ctx context.Context, rawURL string) (*model.Playlist, error) {
	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, err
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	items, err := l.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	playlist := model.NewPlaylist(playlistID, rawURL)
	for _, it := range items {
		playlist.AddEntry(&model.PlaylistEntry{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	playlist.Title = playlistTitle(playlist.Entries)
	return playlist, nil
}

// ExtractPlaylistID returns the value of the "list" query parameter
func ExtractPlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotPlaylistURL, err)
	}
	id := u.Query().Get(PlaylistQueryParam)
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrNotPlaylistURL, rawURL)
	}
	return id, nil
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]playlistItem, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]playlistItem, 0, len(items))
	for _, it := range items {
		out = append(out, playlistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// playlistTitle derives a display title from the first entries
func playlistTitle(entries []*model.PlaylistEntry) string {
	if len(entries) == 0 {
		return DefaultPlaylistName
	}
	if len(entries) > 1 {
		prefix := commonPrefix(entries[0].Title, entries[1].Title)
		if len(prefix) > MinPrefixLength {
			return strings.TrimSpace(prefix) + PlaylistSuffix
		}
	}
	return entries[0].Title + PlaylistSuffix
}

func commonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}

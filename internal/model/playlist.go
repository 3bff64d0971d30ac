package model

import "fmt"

// PlaylistEntry represents a single video in a playlist
type PlaylistEntry struct {
	Index    int    `json:"index"` // 1-based position in the playlist
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Selected bool   `json:"selected"`
}

// Playlist represents a YouTube playlist with its entries
type Playlist struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	URL     string           `json:"url"`
	Entries []*PlaylistEntry `json:"entries"`
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(id, url string) *Playlist {
	return &Playlist{
		ID:      id,
		URL:     url,
		Entries: make([]*PlaylistEntry, 0),
	}
}

// AddEntry appends an entry and assigns its position
func (p *Playlist) AddEntry(entry *PlaylistEntry) {
	entry.Index = len(p.Entries) + 1
	p.Entries = append(p.Entries, entry)
}

// Select marks entries whose 1-based index is listed as selected. An empty
// list selects everything.
func (p *Playlist) Select(indices []int) {
	if len(indices) == 0 {
		for _, entry := range p.Entries {
			entry.Selected = true
		}
		return
	}

	wanted := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		wanted[i] = struct{}{}
	}
	for _, entry := range p.Entries {
		_, entry.Selected = wanted[entry.Index]
	}
}

// SelectedEntries returns entries marked as selected, in playlist order
func (p *Playlist) SelectedEntries() []*PlaylistEntry {
	var selected []*PlaylistEntry
	for _, entry := range p.Entries {
		if entry.Selected {
			selected = append(selected, entry)
		}
	}
	return selected
}

// String renders the entry as a numbered listing line
func (e *PlaylistEntry) String() string {
	title := e.Title
	if title == "" {
		title = e.ID
	}
	return fmt.Sprintf("%3d. %s", e.Index, title)
}

package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlaylistFormat is a supported playlist file format.
type PlaylistFormat int

const (
	// FormatM3U writes .m3u files, optionally with #EXTINF lines.
	FormatM3U PlaylistFormat = iota

	// FormatPLS writes INI-style .pls files.
	FormatPLS
)

// ParsePlaylistFormat maps a settings value to a format. Unknown values fall
// back to M3U.
func ParsePlaylistFormat(name string) PlaylistFormat {
	if strings.EqualFold(strings.TrimSpace(name), "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// Ext returns the file extension for the format, including the dot.
func (f PlaylistFormat) Ext() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// Entry is one track in a lineup playlist.
type Entry struct {
	// Path is written as its base name; playlists sit next to their tracks.
	Path            string
	Artist          string
	Title           string
	DurationSeconds int
}

// label returns "Artist - Title", or whichever of the two is set.
func (e Entry) label() string {
	switch {
	case e.Artist != "" && e.Title != "":
		return e.Artist + " - " + e.Title
	case e.Title != "":
		return e.Title
	default:
		return e.Artist
	}
}

// PlaylistCreator renders a concert lineup as a playlist.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(entries)
//
//	// #EXTM3U
//	// #EXTINF:215,The Openers - Warmup
//	// 01 The Openers.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool
}

// NewPlaylistCreator creates a PlaylistCreator. extended only affects M3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{format: format, extended: extended}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() PlaylistFormat {
	return p.format
}

// CreatePlaylist renders entries in order. Entries without a path are skipped.
func (p *PlaylistCreator) CreatePlaylist(entries []Entry) string {
	var kept []Entry
	for _, e := range entries {
		if e.Path != "" {
			kept = append(kept, e)
		}
	}

	if p.format == FormatPLS {
		return p.createPLS(kept)
	}
	return p.createM3U(kept)
}

func (p *PlaylistCreator) createM3U(entries []Entry) string {
	var sb strings.Builder
	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, e := range entries {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s\n", e.DurationSeconds, e.label())
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}
	return sb.String()
}

func (p *PlaylistCreator) createPLS(entries []Entry) string {
	var sb strings.Builder
	sb.WriteString("[playlist]\n")
	for i, e := range entries {
		n := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", n, filepath.Base(e.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", n, e.label())
		fmt.Fprintf(&sb, "Length%d=%d\n", n, e.DurationSeconds)
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(entries))
	sb.WriteString("Version=2\n")
	return sb.String()
}

package audio

import (
	"strings"
	"testing"
)

func lineup() []Entry {
	return []Entry{
		{Path: "/samples/01 Openers.mp3", Artist: "The Openers", Title: "Warmup", DurationSeconds: 215},
		{Path: "", Artist: "No Sample"},
		{Path: "/samples/02 Headliner.mp3", Artist: "Headliner", DurationSeconds: 300},
	}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, false).CreatePlaylist(lineup())

	want := "01 Openers.mp3\n02 Headliner.mp3\n"
	if content != want {
		t.Errorf("CreatePlaylist() = %q, want %q", content, want)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, true).CreatePlaylist(lineup())

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Error("Extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:215,The Openers - Warmup\n01 Openers.mp3\n") {
		t.Errorf("missing EXTINF for first entry:\n%s", content)
	}
	if !strings.Contains(content, "#EXTINF:300,Headliner\n") {
		t.Errorf("entry without title should be labelled by artist:\n%s", content)
	}
	if strings.Contains(content, "No Sample") {
		t.Error("entries without a sample track should be skipped")
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	content := NewPlaylistCreator(FormatPLS, true).CreatePlaylist(lineup())

	for _, want := range []string{
		"[playlist]\n",
		"File1=01 Openers.mp3\n",
		"Title2=Headliner\n",
		"Length2=300\n",
		"NumberOfEntries=2\n",
		"Version=2\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS missing %q:\n%s", want, content)
		}
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		input string
		want  PlaylistFormat
		ext   string
	}{
		{"m3u", FormatM3U, ".m3u"},
		{" PLS ", FormatPLS, ".pls"},
		{"wpl", FormatM3U, ".m3u"},
		{"", FormatM3U, ".m3u"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParsePlaylistFormat(tt.input)
			if got != tt.want || got.Ext() != tt.ext {
				t.Errorf("ParsePlaylistFormat(%q) = %v (%s), want %v (%s)", tt.input, got, got.Ext(), tt.want, tt.ext)
			}
		})
	}
}

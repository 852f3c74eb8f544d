package audio

import (
	"strconv"
	"strings"
	"time"

	"github.com/bogem/id3v2"
)

// TrackInfo is the subset of ID3 metadata used for performers and lineups.
type TrackInfo struct {
	Artist   string
	Title    string
	Genre    string
	Album    string
	Track    int
	Duration time.Duration
}

// ReadTrackInfo reads the ID3 tag of an MP3 file.
//
// Duration comes from the TLEN frame (milliseconds) and is zero when the frame
// is missing or malformed. A file without a tag yields an empty TrackInfo.
func ReadTrackInfo(path string) (TrackInfo, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return TrackInfo{}, err
	}
	defer tag.Close()

	info := TrackInfo{
		Artist: strings.TrimSpace(tag.Artist()),
		Title:  strings.TrimSpace(tag.Title()),
		Genre:  strings.TrimSpace(tag.Genre()),
		Album:  strings.TrimSpace(tag.Album()),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(tag.GetTextFrame("TRCK").Text)); err == nil {
		info.Track = n
	}
	if ms, err := strconv.Atoi(strings.TrimSpace(tag.GetTextFrame("TLEN").Text)); err == nil && ms > 0 {
		info.Duration = time.Duration(ms) * time.Millisecond
	}
	return info, nil
}

// Tagger writes lineup metadata into copied sample tracks.
//
// Example:
//
//	tagger := NewTagger()
//	err := tagger.SaveTags("export/Summer Fest/01 Opener.mp3", TrackInfo{
//	    Artist: "Opener",
//	    Album:  "Summer Fest",
//	    Track:  1,
//	})
type Tagger struct {
	// ClearComments removes COMM frames left by the original file.
	ClearComments bool
}

// NewTagger creates a Tagger that clears comments.
func NewTagger() *Tagger {
	return &Tagger{ClearComments: true}
}

// SaveTags sets the non-empty fields of info on the file at path and saves
// it. Fields left empty keep their existing values.
func (t *Tagger) SaveTags(path string, info TrackInfo) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	if info.Artist != "" {
		tag.SetArtist(info.Artist)
	}
	if info.Title != "" {
		tag.SetTitle(info.Title)
	}
	if info.Genre != "" {
		tag.SetGenre(info.Genre)
	}
	if info.Album != "" {
		tag.SetAlbum(info.Album)
	}
	if info.Track > 0 {
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(info.Track))
	}
	if info.Duration > 0 {
		tag.AddTextFrame("TLEN", id3v2.EncodingUTF8, strconv.FormatInt(info.Duration.Milliseconds(), 10))
	}
	if t.ClearComments {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}

	return tag.Save()
}

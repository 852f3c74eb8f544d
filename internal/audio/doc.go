// Package audio reads and writes ID3 tags on performer sample tracks and
// builds lineup playlists from them.
//
// # Track metadata
//
// ReadTrackInfo pulls artist, title, genre and length out of an MP3 so a
// performer can be created from a sample track:
//
//	info, err := audio.ReadTrackInfo("samples/opener.mp3")
//
// The Tagger stamps exported copies with the concert as album and the lineup
// position as track number:
//
//	err := audio.NewTagger().SaveTags(dst, audio.TrackInfo{Album: "Summer Fest", Track: 1})
//
// # Lineup playlists
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist(entries)
//	os.WriteFile("lineup.m3u", []byte(content), 0644)
//
// Supported formats are M3U (plain or extended) and PLS.
package audio

package backend

import (
	"strconv"
	"time"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

// wireSong is the song/item shape returned by Playlist.GetItems and
// AudioLibrary.GetSongs, and embedded in Files.GetDirectory entries.
type wireSong struct {
	File               string   `json:"file"`
	Label              string   `json:"label"`
	Artist             []string `json:"artist"`
	AlbumArtist        []string `json:"albumartist"`
	Album              string   `json:"album"`
	Title              string   `json:"title"`
	Track              int      `json:"track"`
	Disc               int      `json:"disc"`
	Genre              []string `json:"genre"`
	Year               int      `json:"year"`
	Comment            string   `json:"comment"`
	Duration           int      `json:"duration"` // seconds
	MusicBrainzTrackID string   `json:"musicbrainztrackid"`
	DateAdded          string   `json:"dateadded"` // RFC3339, optional
}

func songFromWire(w wireSong) mpd.Song {
	sg := mpd.Song{Path: w.File}
	if w.Duration > 0 {
		d := time.Duration(w.Duration) * time.Second
		sg.Duration = &d
	}
	if w.DateAdded != "" {
		if t, err := time.Parse(time.RFC3339, w.DateAdded); err == nil {
			sg.LastModified = &t
		}
	}

	add := func(k mpd.Kind, v string) {
		if v != "" {
			sg.Tags = append(sg.Tags, mpd.Tag{Kind: k, Value: v})
		}
	}
	for _, a := range w.Artist {
		add(mpd.KindArtist, a)
	}
	for _, a := range w.AlbumArtist {
		add(mpd.KindAlbumArtist, a)
	}
	add(mpd.KindAlbum, w.Album)
	add(mpd.KindTitle, w.Title)
	if w.Track > 0 {
		sg.Tags = append(sg.Tags, mpd.Tag{Kind: mpd.KindTrack, Value: strconv.Itoa(w.Track)})
	}
	if w.Disc > 0 {
		sg.Tags = append(sg.Tags, mpd.Tag{Kind: mpd.KindDisc, Value: strconv.Itoa(w.Disc)})
	}
	if w.Year > 0 {
		sg.Tags = append(sg.Tags, mpd.Tag{Kind: mpd.KindDate, Value: strconv.Itoa(w.Year)})
	}
	for _, g := range w.Genre {
		add(mpd.KindGenre, g)
	}
	add(mpd.KindComment, w.Comment)
	add(mpd.KindMusicBrainzTrackID, w.MusicBrainzTrackID)
	return sg
}

// wireFileEntry is one entry of a Files.GetDirectory listing.
type wireFileEntry struct {
	File     string `json:"file"`
	FileType string `json:"filetype"` // "file" or "directory"
	Label    string `json:"label"`
	wireSong
}

// wireSource is one entry of Files.GetSources.
type wireSource struct {
	File  string `json:"file"`
	Label string `json:"label"`
}

// wirePlayer is one entry of Player.GetActivePlayers.
type wirePlayer struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"`
}

// wirePlayerProps is the result of Player.GetProperties.
type wirePlayerProps struct {
	Speed      float64 `json:"speed"`
	Time       int     `json:"time"`      // elapsed, seconds
	TotalTime  int     `json:"totaltime"` // seconds
	Shuffled   bool    `json:"shuffled"`
	PlaylistID int     `json:"playlistid"`
	Position   int     `json:"position"`
}

// wireAppProps is the result of Application.GetProperties.
type wireAppProps struct {
	Volume int  `json:"volume"`
	Muted  bool `json:"muted"`
}

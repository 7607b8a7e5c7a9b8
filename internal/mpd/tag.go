package mpd

import "strings"

// Kind is a closed enumeration of the MPD-standard tag names this engine
// understands. Parsing is case-insensitive; formatting always uses the
// canonical display spelling.
type Kind int

const (
	KindArtist Kind = iota
	KindArtistSort
	KindAlbum
	KindAlbumSort
	KindAlbumArtist
	KindAlbumArtistSort
	KindTitle
	KindTitleSort
	KindTrack
	KindDisc
	KindDate
	KindGenre
	KindComment
	KindMusicBrainzArtistID
	KindMusicBrainzAlbumID
	KindMusicBrainzAlbumArtistID
	KindMusicBrainzTrackID
)

// kindInfo pairs a kind with its canonical display spelling. Wire names are
// derived by lower-casing the display spelling, which matches every tag in
// this vocabulary.
var kindInfo = [...]string{
	KindArtist:                   "Artist",
	KindArtistSort:               "ArtistSort",
	KindAlbum:                    "Album",
	KindAlbumSort:                "AlbumSort",
	KindAlbumArtist:              "AlbumArtist",
	KindAlbumArtistSort:          "AlbumArtistSort",
	KindTitle:                    "Title",
	KindTitleSort:                "TitleSort",
	KindTrack:                    "Track",
	KindDisc:                     "Disc",
	KindDate:                     "Date",
	KindGenre:                    "Genre",
	KindComment:                  "Comment",
	KindMusicBrainzArtistID:      "MUSICBRAINZ_ARTISTID",
	KindMusicBrainzAlbumID:       "MUSICBRAINZ_ALBUMID",
	KindMusicBrainzAlbumArtistID: "MUSICBRAINZ_ALBUMARTISTID",
	KindMusicBrainzTrackID:       "MUSICBRAINZ_TRACKID",
}

// AllKinds lists every supported tag kind, in declaration order.
func AllKinds() []Kind {
	out := make([]Kind, len(kindInfo))
	for i := range kindInfo {
		out[i] = Kind(i)
	}
	return out
}

// String returns the canonical display spelling, e.g. "Artist" or
// "MUSICBRAINZ_TRACKID".
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindInfo) {
		return "Unknown"
	}
	return kindInfo[k]
}

// WireName returns the lower-case spelling used when parsing commands.
func (k Kind) WireName() string {
	return strings.ToLower(k.String())
}

// ParseKind resolves a tag name from the wire (case-insensitive) to its
// Kind. It reports false for anything outside the closed vocabulary.
func ParseKind(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	for i, disp := range kindInfo {
		if strings.ToLower(disp) == lower {
			return Kind(i), true
		}
	}
	return 0, false
}

package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

// TestLibraryListGrouping verifies that `list tag group g1` emits one
// grouping-tag line per distinct group value, each immediately followed
// by that group's aggregated tag values - not a flattened, ungrouped
// list of every distinct tag value across the whole result set.
func TestLibraryListGrouping(t *testing.T) {
	stub := newRPCStub(t)
	stub.results["AudioLibrary.GetSongs"] = struct {
		Songs []wireSong `json:"songs"`
	}{
		Songs: []wireSong{
			{File: "a1.flac", Artist: []string{"Artist A"}, Album: "Album 1"},
			{File: "a2.flac", Artist: []string{"Artist A"}, Album: "Album 1"},
			{File: "a3.flac", Artist: []string{"Artist A"}, Album: "Album 2"},
			{File: "b1.flac", Artist: []string{"Artist B"}, Album: "Album 3"},
		},
	}
	c, closeFn := newTestClient(t, stub)
	defer closeFn()

	tags, err := c.LibraryList(ctxBG(), mpd.KindAlbum, nil, []mpd.Kind{mpd.KindArtist})
	require.NoError(t, err)

	require.Equal(t, []mpd.Tag{
		{Kind: mpd.KindArtist, Value: "Artist A"},
		{Kind: mpd.KindAlbum, Value: "Album 1"},
		{Kind: mpd.KindAlbum, Value: "Album 2"},
		{Kind: mpd.KindArtist, Value: "Artist B"},
		{Kind: mpd.KindAlbum, Value: "Album 3"},
	}, tags)
}

func TestLibraryListNoGrouping(t *testing.T) {
	stub := newRPCStub(t)
	stub.results["AudioLibrary.GetSongs"] = struct {
		Songs []wireSong `json:"songs"`
	}{
		Songs: []wireSong{
			{File: "a1.flac", Genre: []string{"Electronic"}},
			{File: "a2.flac", Genre: []string{"Electronic"}},
			{File: "a3.flac", Genre: []string{"Ambient"}},
		},
	}
	c, closeFn := newTestClient(t, stub)
	defer closeFn()

	tags, err := c.LibraryList(ctxBG(), mpd.KindGenre, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []mpd.Tag{
		{Kind: mpd.KindGenre, Value: "Electronic"},
		{Kind: mpd.KindGenre, Value: "Ambient"},
	}, tags)
}

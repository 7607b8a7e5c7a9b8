package mpd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testMapper() *PathMapper {
	return NewPathMapper([]Source{
		{Label: "Music", Internal: "backend://library/music"},
		{Label: "Podcasts", Internal: "backend://library/podcasts"},
	})
}

func TestPathMapperToInternal(t *testing.T) {
	m := testMapper()
	internal, ok := m.ToInternal("Music/Artist/Album/track.flac")
	require.True(t, ok)
	require.Equal(t, "backend://library/music/Artist/Album/track.flac", internal)
}

func TestPathMapperToExternal(t *testing.T) {
	m := testMapper()
	external, ok := m.ToExternal("backend://library/podcasts/show1/ep1.mp3")
	require.True(t, ok)
	require.Equal(t, "Podcasts/show1/ep1.mp3", external)
}

func TestPathMapperNoMatch(t *testing.T) {
	m := testMapper()
	_, ok := m.ToInternal("Video/movie.mkv")
	require.False(t, ok)
}

func TestExternalPathFromURI(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
		errMsg  string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "file scheme", raw: "file:///Music/track.flac", want: "Music/track.flac"},
		{name: "bare path treated as file", raw: "/Music/track.flac", want: "Music/track.flac"},
		{name: "unsupported scheme", raw: "http://example.com/track.flac", wantErr: true, errMsg: "Unsupported URI scheme"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, cerr := externalPathFromURI(c.raw)
			if c.wantErr {
				require.NotNil(t, cerr)
				require.Equal(t, c.errMsg, cerr.Message)
				return
			}
			require.Nil(t, cerr)
			require.Equal(t, c.want, got)
		})
	}
}

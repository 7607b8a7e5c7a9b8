package mpd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileFiltersSingleTerm(t *testing.T) {
	node, err := CompileFilters([]FilterTerm{{Kind: KindArtist, Value: "Boards of Canada"}})
	require.NoError(t, err)
	require.Equal(t, OpIs, node.Op)
	require.Equal(t, "artist", node.Field)
	require.Equal(t, "Boards of Canada", node.Value)
}

func TestCompileFiltersMultipleTermsAnd(t *testing.T) {
	node, err := CompileFilters([]FilterTerm{
		{Kind: KindArtist, Value: "Boards of Canada"},
		{Kind: KindAlbum, Value: "Geogaddi"},
	})
	require.NoError(t, err)
	require.Equal(t, OpAnd, node.Op)
	require.Len(t, node.Children, 2)
}

func TestCompileFiltersEmpty(t *testing.T) {
	node, err := CompileFilters(nil)
	require.NoError(t, err)
	require.Equal(t, FilterNode{}, node)
}

// TestCompileFiltersTrackPacksDisc verifies the disc<<16|track packing
// rule: a bare `track = N` filter must become a disjunction over every
// supported disc number.
func TestCompileFiltersTrackPacksDisc(t *testing.T) {
	node, err := CompileFilters([]FilterTerm{{Kind: KindTrack, Value: "7"}})
	require.NoError(t, err)
	require.Equal(t, OpOr, node.Op)
	require.Len(t, node.Children, maxDiscForTrackFilter)
	require.Equal(t, "track_number", node.Children[0].Field)
	require.Equal(t, "65543", node.Children[0].Value) // (1<<16)|7
	require.Equal(t, "131079", node.Children[1].Value) // (2<<16)|7
}

// TestCompileFiltersDiscBetween verifies the disc filter compiles to a
// BETWEEN range covering every track on that disc.
func TestCompileFiltersDiscBetween(t *testing.T) {
	node, err := CompileFilters([]FilterTerm{{Kind: KindDisc, Value: "2"}})
	require.NoError(t, err)
	require.Equal(t, OpBetween, node.Op)
	require.Equal(t, "track_number", node.Field)
	require.Equal(t, "131072", node.Value)     // 2<<16
	require.Equal(t, "196606", node.ValueHigh) // (2<<16)+0xFFFE
}

func TestCompileFiltersInvalidTrackValue(t *testing.T) {
	_, err := CompileFilters([]FilterTerm{{Kind: KindTrack, Value: "not-a-number"}})
	require.Error(t, err)
}

func TestCompileFiltersUnsupportedKind(t *testing.T) {
	_, err := CompileFilters([]FilterTerm{{Kind: Kind(9999), Value: "x"}})
	require.Error(t, err)
}

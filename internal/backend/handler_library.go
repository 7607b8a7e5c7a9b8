package backend

import (
	"context"
	"strings"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

// ListDirectory implements mpd.Handler.
func (c *Client) ListDirectory(ctx context.Context, uri string) ([]mpd.LibraryEntry, error) {
	var result struct {
		Files []wireFileEntry `json:"files"`
	}
	err := c.call(ctx, "Files.GetDirectory", map[string]interface{}{
		"directory":  uri,
		"media":      "music",
		"properties": songProperties,
	}, &result)
	if err != nil {
		return nil, err
	}

	entries := make([]mpd.LibraryEntry, len(result.Files))
	for i, f := range result.Files {
		if f.FileType == "directory" {
			entries[i] = mpd.LibraryEntry{Directory: &mpd.Directory{Path: f.File}}
			continue
		}
		sg := songFromWire(f.wireSong)
		sg.Path = f.File
		entries[i] = mpd.LibraryEntry{File: &sg}
	}
	return entries, nil
}

// Sources fetches the backend's configured media roots, used by callers
// constructing the path mapper at startup.
func (c *Client) Sources(ctx context.Context) ([]mpd.Source, error) {
	var result struct {
		Sources []wireSource `json:"sources"`
	}
	if err := c.call(ctx, "Files.GetSources", map[string]interface{}{"media": "music"}, &result); err != nil {
		return nil, err
	}
	out := make([]mpd.Source, len(result.Sources))
	for i, s := range result.Sources {
		out[i] = mpd.Source{Label: s.Label, Internal: s.File}
	}
	return out, nil
}

// LibraryUpdate implements mpd.Handler. The backend surface this adapter
// targets has no incremental-update distinction; rescan and update both
// trigger the same library scan.
func (c *Client) LibraryUpdate(ctx context.Context, uri string, rescan bool) error {
	return c.call(ctx, "AudioLibrary.Scan", map[string]interface{}{"directory": uri}, nil)
}

// LibraryFind implements mpd.Handler. caseSensitive is honored by the
// backend's exact-match semantics for `find`; `search` (caseSensitive
// false) asks for a case-insensitive "contains" comparator instead.
func (c *Client) LibraryFind(ctx context.Context, filters []mpd.FilterTerm, caseSensitive bool) ([]mpd.Song, error) {
	tree, err := mpd.CompileFilters(filters)
	if err != nil {
		return nil, err
	}
	params := map[string]interface{}{
		"properties": songProperties,
	}
	if tree.Field != "" || len(tree.Children) > 0 {
		params["filter"] = filterToWire(tree, caseSensitive)
	}

	var result struct {
		Songs []wireSong `json:"songs"`
	}
	if err := c.call(ctx, "AudioLibrary.GetSongs", params, &result); err != nil {
		return nil, err
	}
	songs := make([]mpd.Song, len(result.Songs))
	for i, s := range result.Songs {
		songs[i] = songFromWire(s)
	}
	return songs, nil
}

// groupBucket holds one distinct combination of grouping-tag values and
// the tag values seen within it, both in first-seen order.
type groupBucket struct {
	values   []string
	tags     []string
	seenTags map[string]bool
}

// LibraryList implements mpd.Handler: it fetches matching songs via
// LibraryFind and aggregates the requested tag's distinct values. When
// groups is non-empty, songs are first bucketed by their distinct
// grouping-tag tuples (in first-seen order); the result then emits one
// Tag per grouping kind naming that bucket's value, immediately followed
// by the bucket's aggregated tag values, matching reference MPD's `list
// tag group g1 group g2` layout. This engine's backend has no native
// tag-aggregation RPC, so aggregation happens client-side over the
// fetched song set.
func (c *Client) LibraryList(ctx context.Context, tag mpd.Kind, filters []mpd.FilterTerm, groups []mpd.Kind) ([]mpd.Tag, error) {
	songs, err := c.LibraryFind(ctx, filters, true)
	if err != nil {
		return nil, err
	}

	var order []string
	buckets := map[string]*groupBucket{}
	for _, sg := range songs {
		groupVals := make([]string, len(groups))
		for i, g := range groups {
			groupVals[i] = joinValues(sg.TagValues(g))
		}
		key := strings.Join(groupVals, "\x00")
		b, ok := buckets[key]
		if !ok {
			b = &groupBucket{values: groupVals, seenTags: map[string]bool{}}
			buckets[key] = b
			order = append(order, key)
		}
		for _, v := range sg.TagValues(tag) {
			if !b.seenTags[v] {
				b.seenTags[v] = true
				b.tags = append(b.tags, v)
			}
		}
	}

	var out []mpd.Tag
	for _, key := range order {
		b := buckets[key]
		for i, g := range groups {
			out = append(out, mpd.Tag{Kind: g, Value: b.values[i]})
		}
		for _, v := range b.tags {
			out = append(out, mpd.Tag{Kind: tag, Value: v})
		}
	}
	return out, nil
}

func joinValues(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	out := vs[0]
	for _, v := range vs[1:] {
		out += "," + v
	}
	return out
}

// filterToWire translates a compiled mpd.FilterNode into the backend's
// JSON filter object shape.
func filterToWire(n mpd.FilterNode, caseSensitive bool) map[string]interface{} {
	switch n.Op {
	case mpd.OpAnd, mpd.OpOr:
		kids := make([]map[string]interface{}, len(n.Children))
		for i, c := range n.Children {
			kids[i] = filterToWire(c, caseSensitive)
		}
		key := "and"
		if n.Op == mpd.OpOr {
			key = "or"
		}
		return map[string]interface{}{key: kids}
	case mpd.OpBetween:
		return map[string]interface{}{
			"field":    n.Field,
			"operator": "between",
			"value":    []string{n.Value, n.ValueHigh},
		}
	default:
		op := "is"
		if !caseSensitive {
			op = "contains"
		}
		return map[string]interface{}{
			"field":    n.Field,
			"operator": op,
			"value":    n.Value,
		}
	}
}

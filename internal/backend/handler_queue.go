package backend

import (
	"context"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

func (c *Client) fetchPlaylistItems(ctx context.Context, playlistID int) ([]mpd.Song, error) {
	var result struct {
		Items []wireSong `json:"items"`
	}
	err := c.call(ctx, "Playlist.GetItems", map[string]interface{}{
		"playlistid": playlistID,
		"properties": songProperties,
	}, &result)
	if err != nil {
		return nil, err
	}
	songs := make([]mpd.Song, len(result.Items))
	for i, it := range result.Items {
		songs[i] = songFromWire(it)
	}
	return songs, nil
}

func (c *Client) currentQueue(ctx context.Context) ([]mpd.QueueEntry, []mpd.Song, error) {
	songs, err := c.fetchPlaylistItems(ctx, audioPlaylistID)
	if err != nil {
		return nil, nil, err
	}
	last := c.queue.snapshot()
	entries := c.queue.reconcile(songs, last)
	return entries, songs, nil
}

// QueueList implements mpd.Handler.
func (c *Client) QueueList(ctx context.Context, rg *mpd.Range) ([]mpd.QueueEntry, error) {
	entries, _, err := c.currentQueue(ctx)
	if err != nil {
		return nil, err
	}
	if rg == nil {
		return entries, nil
	}
	var out []mpd.QueueEntry
	for _, e := range entries {
		if rg.Contains(uint64(e.Pos)) {
			out = append(out, e)
		}
	}
	return out, nil
}

// QueueGet implements mpd.Handler.
func (c *Client) QueueGet(ctx context.Context, id string) (*mpd.QueueEntry, error) {
	entries, _, err := c.currentQueue(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

// QueueCurrent implements mpd.Handler.
func (c *Client) QueueCurrent(ctx context.Context) (*mpd.QueueEntry, error) {
	players, err := c.activePlayers(ctx)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, nil
	}
	var props wirePlayerProps
	if err := c.call(ctx, "Player.GetProperties", map[string]interface{}{
		"playerid":   players[0],
		"properties": []string{"position"},
	}, &props); err != nil {
		return nil, err
	}
	entries, _, err := c.currentQueue(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Pos == props.Position {
			return &e, nil
		}
	}
	return nil, nil
}

func (c *Client) activePlayers(ctx context.Context) ([]int, error) {
	var players []wirePlayer
	if err := c.call(ctx, "Player.GetActivePlayers", nil, &players); err != nil {
		return nil, err
	}
	var ids []int
	for _, p := range players {
		if p.Type == "audio" {
			ids = append(ids, p.PlayerID)
		}
	}
	return ids, nil
}

// QueueAddFile implements mpd.Handler.
func (c *Client) QueueAddFile(ctx context.Context, uri string, pos *int) (string, error) {
	params := map[string]interface{}{
		"playlistid": audioPlaylistID,
		"item":       map[string]string{"file": uri},
	}
	if pos != nil {
		params["position"] = *pos
	}
	if err := c.call(ctx, "Playlist.Insert", params, nil); err != nil {
		return "", err
	}
	id := c.queue.newID()
	insertPos := 0
	if pos != nil {
		insertPos = *pos
	} else {
		insertPos = c.queue.len()
	}
	c.queue.assignAt(insertPos, id)
	return id, nil
}

// QueueSwap implements mpd.Handler.
func (c *Client) QueueSwap(ctx context.Context, a, b mpd.QueueRef) error {
	pa, ok := c.resolvePos(a)
	if !ok {
		return mpd.ErrNoExist("no such song")
	}
	pb, ok := c.resolvePos(b)
	if !ok {
		return mpd.ErrNoExist("no such song")
	}
	if err := c.call(ctx, "Playlist.Swap", map[string]interface{}{
		"playlistid": audioPlaylistID,
		"position1":  pa,
		"position2":  pb,
	}, nil); err != nil {
		return err
	}
	c.queue.swap(pa, pb)
	return nil
}

// QueueDelete implements mpd.Handler.
func (c *Client) QueueDelete(ctx context.Context, rg mpd.Range) error {
	if err := c.call(ctx, "Playlist.Remove", map[string]interface{}{
		"playlistid": audioPlaylistID,
		"start":      rg.Start,
		"end":        rg.End,
	}, nil); err != nil {
		return err
	}
	c.queue.removeRange(int(rg.Start), int(rg.End))
	return nil
}

// QueueClear implements mpd.Handler.
func (c *Client) QueueClear(ctx context.Context) error {
	if err := c.call(ctx, "Playlist.Clear", map[string]interface{}{
		"playlistid": audioPlaylistID,
	}, nil); err != nil {
		return err
	}
	c.queue.clear()
	return nil
}

// resolvePos turns a QueueRef into the position the backend expects,
// looking the id up in the locally tracked id table if the ref is by id.
func (c *Client) resolvePos(ref mpd.QueueRef) (int, bool) {
	if ref.ByPos != nil {
		return *ref.ByPos, true
	}
	if ref.ByID != nil {
		return c.queue.posForID(*ref.ByID)
	}
	return 0, false
}

var songProperties = []string{
	"file", "artist", "albumartist", "album", "title", "track", "disc",
	"genre", "year", "comment", "duration", "musicbrainztrackid", "dateadded",
}

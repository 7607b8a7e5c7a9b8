package backend

import (
	"context"
	"time"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

// PollVolume implements mpd.PollSource.
func (c *Client) PollVolume(ctx context.Context) (int, bool, error) {
	var props wireAppProps
	err := c.call(ctx, "Application.GetProperties", map[string]interface{}{
		"properties": []string{"volume", "muted"},
	}, &props)
	if err != nil {
		return 0, false, err
	}
	return props.Volume, props.Muted, nil
}

// ActivePlayer implements mpd.PollSource: it probes Player.GetActivePlayers
// once and returns the first entry in ring whose player id is present and
// of type "audio".
func (c *Client) ActivePlayer(ctx context.Context, ring []int) (int, bool, error) {
	var players []wirePlayer
	if err := c.call(ctx, "Player.GetActivePlayers", nil, &players); err != nil {
		return 0, false, err
	}
	active := make(map[int]bool, len(players))
	for _, p := range players {
		if p.Type == "audio" {
			active[p.PlayerID] = true
		}
	}
	for _, id := range ring {
		if active[id] {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// PlayerProperties implements mpd.PollSource.
func (c *Client) PlayerProperties(ctx context.Context, playerID int) (mpd.PlayerProps, error) {
	var props wirePlayerProps
	err := c.call(ctx, "Player.GetProperties", map[string]interface{}{
		"playerid":   playerID,
		"properties": []string{"speed", "time", "totaltime", "shuffled", "playlistid", "position"},
	}, &props)
	if err != nil {
		return mpd.PlayerProps{}, err
	}
	return mpd.PlayerProps{
		Position:   props.Position,
		Speed:      props.Speed,
		Shuffled:   props.Shuffled,
		PlaylistID: props.PlaylistID,
		Elapsed:    time.Duration(props.Time) * time.Second,
		TotalTime:  time.Duration(props.TotalTime) * time.Second,
	}, nil
}

// PlaylistItems implements mpd.PollSource.
func (c *Client) PlaylistItems(ctx context.Context, playlistID int) ([]mpd.Song, error) {
	return c.fetchPlaylistItems(ctx, playlistID)
}

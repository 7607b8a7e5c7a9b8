package backend

import (
	"context"
	"time"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

// Status implements mpd.Handler. It never fails: any transport error is
// logged and status is returned with every field unset, matching the
// engine's "Status never fails" contract.
func (c *Client) Status(ctx context.Context) mpd.Status {
	var st mpd.Status

	var app wireAppProps
	if err := c.call(ctx, "Application.GetProperties", map[string]interface{}{
		"properties": []string{"volume", "muted"},
	}, &app); err != nil {
		c.log.Debug().Err(err).Msg("status: application properties unavailable")
		return st
	}
	vol := app.Volume
	if app.Muted {
		vol = 0
	}
	st.Volume = &vol

	players, err := c.activePlayers(ctx)
	if err != nil || len(players) == 0 {
		st.State = mpd.StateStop
		return st
	}

	var props wirePlayerProps
	if err := c.call(ctx, "Player.GetProperties", map[string]interface{}{
		"playerid":   players[0],
		"properties": []string{"speed", "time", "totaltime", "shuffled", "playlistid", "position"},
	}, &props); err != nil {
		c.log.Debug().Err(err).Msg("status: player properties unavailable")
		st.State = mpd.StateStop
		return st
	}

	switch {
	case props.Speed == 0:
		st.State = mpd.StatePause
	default:
		st.State = mpd.StatePlay
	}
	random := props.Shuffled
	st.Random = &random
	elapsed := time.Duration(props.Time) * time.Second
	total := time.Duration(props.TotalTime) * time.Second
	st.Elapsed = &elapsed
	st.Duration = &total
	pos := props.Position
	st.Song = &pos
	// SongID is left unset: this engine's queue ids are uuids, not the
	// small integers status.songid conventionally holds.
	return st
}

// Play implements mpd.Handler. When no player is currently active it
// opens the audio playlist fresh, starting at ref's position (or the
// start of the queue); when a player is already active it resumes or
// jumps within it.
func (c *Client) Play(ctx context.Context, ref *mpd.QueueRef) error {
	players, err := c.activePlayers(ctx)
	if err != nil {
		return err
	}

	var pos *int
	if ref != nil {
		p, ok := c.resolvePos(*ref)
		if !ok {
			return mpd.ErrNoExist("no such song")
		}
		pos = &p
	}

	if len(players) == 0 {
		item := map[string]interface{}{"playlistid": audioPlaylistID}
		if pos != nil {
			item["position"] = *pos
		}
		return c.call(ctx, "Player.Open", map[string]interface{}{"item": item}, nil)
	}

	if pos == nil {
		return c.call(ctx, "Player.PlayPause", map[string]interface{}{
			"playerid": players[0],
			"play":     true,
		}, nil)
	}
	return c.call(ctx, "Player.GoTo", map[string]interface{}{
		"playerid": players[0],
		"to":       *pos,
	}, nil)
}

func (c *Client) withActivePlayer(ctx context.Context, fn func(playerID int) error) error {
	players, err := c.activePlayers(ctx)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return mpd.ErrNoExist("no active player")
	}
	return fn(players[0])
}

// Previous implements mpd.Handler.
func (c *Client) Previous(ctx context.Context) error {
	return c.withActivePlayer(ctx, func(id int) error {
		return c.call(ctx, "Player.GoTo", map[string]interface{}{"playerid": id, "to": "previous"}, nil)
	})
}

// Next implements mpd.Handler.
func (c *Client) Next(ctx context.Context) error {
	return c.withActivePlayer(ctx, func(id int) error {
		return c.call(ctx, "Player.GoTo", map[string]interface{}{"playerid": id, "to": "next"}, nil)
	})
}

// Stop implements mpd.Handler.
func (c *Client) Stop(ctx context.Context) error {
	return c.withActivePlayer(ctx, func(id int) error {
		return c.call(ctx, "Player.Stop", map[string]interface{}{"playerid": id}, nil)
	})
}

// Pause implements mpd.Handler. A nil state toggles.
func (c *Client) Pause(ctx context.Context, state *bool) error {
	return c.withActivePlayer(ctx, func(id int) error {
		params := map[string]interface{}{"playerid": id}
		if state == nil {
			params["play"] = "toggle"
		} else {
			params["play"] = !*state
		}
		return c.call(ctx, "Player.PlayPause", params, nil)
	})
}

// Seek implements mpd.Handler.
func (c *Client) Seek(ctx context.Context, ref mpd.QueueRef, seconds float64) error {
	pos, ok := c.resolvePos(ref)
	if !ok {
		return mpd.ErrNoExist("no such song")
	}
	return c.withActivePlayer(ctx, func(id int) error {
		if cur, err := c.currentPosition(ctx, id); err == nil && cur != pos {
			if err := c.call(ctx, "Player.GoTo", map[string]interface{}{"playerid": id, "to": pos}, nil); err != nil {
				return err
			}
		}
		return c.call(ctx, "Player.Seek", map[string]interface{}{
			"playerid": id,
			"value":    seconds,
		}, nil)
	})
}

// SeekCurrent implements mpd.Handler.
func (c *Client) SeekCurrent(ctx context.Context, seconds float64) error {
	return c.withActivePlayer(ctx, func(id int) error {
		return c.call(ctx, "Player.Seek", map[string]interface{}{
			"playerid": id,
			"value":    seconds,
		}, nil)
	})
}

func (c *Client) currentPosition(ctx context.Context, playerID int) (int, error) {
	var props wirePlayerProps
	err := c.call(ctx, "Player.GetProperties", map[string]interface{}{
		"playerid":   playerID,
		"properties": []string{"position"},
	}, &props)
	return props.Position, err
}

// SetRandom implements mpd.Handler. This adapter's backend toggles
// shuffle per-player rather than per-queue; it is applied to whichever
// player is currently active, matching the single-partition model this
// engine targets.
func (c *Client) SetRandom(ctx context.Context, on bool) error {
	return c.withActivePlayer(ctx, func(id int) error {
		return c.call(ctx, "Player.SetShuffle", map[string]interface{}{
			"playerid": id,
			"shuffle":  on,
		}, nil)
	})
}

// VolumeGet implements mpd.Handler.
func (c *Client) VolumeGet(ctx context.Context) (*int, error) {
	var props wireAppProps
	if err := c.call(ctx, "Application.GetProperties", map[string]interface{}{
		"properties": []string{"volume"},
	}, &props); err != nil {
		return nil, err
	}
	v := props.Volume
	return &v, nil
}

// VolumeSet implements mpd.Handler.
func (c *Client) VolumeSet(ctx context.Context, vol int) error {
	return c.call(ctx, "Application.SetVolume", map[string]interface{}{"volume": vol}, nil)
}

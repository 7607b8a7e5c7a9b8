package mpd

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// PollSource is the seam between the generic polling/diff logic of
// component G and a concrete backend's RPC calls. It is deliberately
// narrow: everything it returns is raw backend state; StateCache owns all
// diffing, counters, and version publication.
type PollSource interface {
	// PollVolume fetches application-level properties.
	PollVolume(ctx context.Context) (volume int, mute bool, err error)
	// ActivePlayer probes player ids in the given ring, returning the id
	// of the first one whose kind is "audio", or ok=false if none is
	// active.
	ActivePlayer(ctx context.Context, ring []int) (id int, ok bool, err error)
	// PlayerProperties fetches the active player's transport state.
	PlayerProperties(ctx context.Context, playerID int) (PlayerProps, error)
	// PlaylistItems fetches the items of the given playlist.
	PlaylistItems(ctx context.Context, playlistID int) ([]Song, error)
}

// PlayerProps is the subset of player transport state the cache diffs.
// Position is the item's index within its playlist, used to detect song
// changes independent of Elapsed (which advances continuously during
// normal playback and so can't signal a song change on its own).
type PlayerProps struct {
	Position   int
	Speed      float64
	Shuffled   bool
	PlaylistID int
	Elapsed    time.Duration
	TotalTime  time.Duration
}

// StateCache polls a PollSource on a fixed interval, diffs each fetch
// against the previous value, and bumps per-subsystem counters plus a
// global version whenever something changed.
type StateCache struct {
	source PollSource
	ring   []int

	mu          sync.RWMutex
	lastVolume  int
	lastMute    bool
	lastPlayer  PlayerProps
	lastPlaylist []Song
	haveVolume  bool
	havePlayer  bool
	activeID    int32 // atomic: cached winning player id, -1 if unknown

	counters [NumSubsystems]uint64 // each incremented via sync/atomic
	version  uint64                // atomic

	watch chan uint64
}

// NewStateCache constructs a cache that probes the given player-id ring
// (defaulting to [0,1,2]) each tick.
func NewStateCache(source PollSource, ring []int) *StateCache {
	if len(ring) == 0 {
		ring = []int{0, 1, 2}
	}
	return &StateCache{
		source:   source,
		ring:     ring,
		activeID: -1,
		watch:    make(chan uint64, 1),
	}
}

// Run polls on the given interval until ctx is cancelled. It is meant to
// run in its own goroutine for the lifetime of the process.
func (c *StateCache) Run(ctx context.Context, interval time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.tick(ctx); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

func (c *StateCache) tick(ctx context.Context) error {
	vol, mute, err := c.source.PollVolume(ctx)
	if err != nil {
		// Backend outage: keep previous values, skip this tick's diff.
		return err
	}
	c.diffVolume(vol, mute)

	ring := c.currentRing()
	id, ok, err := c.source.ActivePlayer(ctx, ring)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	atomic.StoreInt32(&c.activeID, int32(id))

	props, err := c.source.PlayerProperties(ctx, id)
	if err != nil {
		return err
	}
	c.diffPlayer(props)

	if props.PlaylistID >= 0 {
		items, err := c.source.PlaylistItems(ctx, props.PlaylistID)
		if err != nil {
			return err
		}
		c.diffPlaylist(items)
	}
	return nil
}

// currentRing puts the previously-won player id first, so a sticky active
// player keeps winning when several ring ids are active.
func (c *StateCache) currentRing() []int {
	cur := atomic.LoadInt32(&c.activeID)
	if cur < 0 {
		return c.ring
	}
	out := make([]int, 0, len(c.ring)+1)
	out = append(out, int(cur))
	for _, id := range c.ring {
		if id != int(cur) {
			out = append(out, id)
		}
	}
	return out
}

func (c *StateCache) diffVolume(vol int, mute bool) {
	c.mu.Lock()
	changed := !c.haveVolume || vol != c.lastVolume || mute != c.lastMute
	c.lastVolume, c.lastMute, c.haveVolume = vol, mute, true
	c.mu.Unlock()
	if changed {
		c.bump(SubsystemMixer)
	}
}

func (c *StateCache) diffPlayer(p PlayerProps) {
	c.mu.Lock()
	changed := !c.havePlayer || p.Position != c.lastPlayer.Position || p.Speed != c.lastPlayer.Speed
	c.lastPlayer, c.havePlayer = p, true
	c.mu.Unlock()
	if changed {
		c.bump(SubsystemPlayer)
	}
}

func (c *StateCache) diffPlaylist(items []Song) {
	c.mu.Lock()
	changed := !songsEqual(c.lastPlaylist, items)
	c.lastPlaylist = items
	c.mu.Unlock()
	if changed {
		c.bump(SubsystemPlaylist)
	}
}

func songsEqual(a, b []Song) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Path != b[i].Path {
			return false
		}
	}
	return true
}

// bump increments the given subsystem's counter and the global version,
// then publishes the new version on the watch channel (coalescing: a
// reader that wakes after several publishes only sees the latest).
func (c *StateCache) bump(s Subsystem) {
	atomic.AddUint64(&c.counters[s], 1)
	v := atomic.AddUint64(&c.version, 1)
	select {
	case c.watch <- v:
	default:
		// Drain the stale value and retry once; the channel has
		// capacity 1 so this always succeeds.
		select {
		case <-c.watch:
		default:
		}
		select {
		case c.watch <- v:
		default:
		}
	}
}

// Version returns the current global version.
func (c *StateCache) Version() uint64 {
	return atomic.LoadUint64(&c.version)
}

// Count returns the current counter for one subsystem.
func (c *StateCache) Count(s Subsystem) uint64 {
	return atomic.LoadUint64(&c.counters[s])
}

// Watch returns the channel the poller publishes new versions on.
func (c *StateCache) Watch() <-chan uint64 {
	return c.watch
}

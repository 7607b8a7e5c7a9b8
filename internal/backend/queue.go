package backend

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

// audioPlaylistID is the backend's index for the audio queue; this
// adapter only ever drives the audio playlist, never the video one.
const audioPlaylistID = 0

// queueState assigns and tracks the opaque, position-independent ids the
// protocol requires (addid/playid/seekid/swapid) on top of a backend that
// only exposes playlist items by position. Ids are assigned locally and
// reconciled against the backend's position-ordered item list on every
// fetch: a position whose song is unchanged keeps its id, anything else
// is treated as a new item and gets a fresh uuid.
type queueState struct {
	mu    sync.Mutex
	ids   []string
	songs []mpd.Song
}

func newQueueState() *queueState {
	return &queueState{}
}

// reconcile aligns the tracked ids against a freshly-fetched, position
// ordered song list and returns queue entries carrying those ids.
func (q *queueState) reconcile(songs []mpd.Song, last []mpd.Song) []mpd.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	next := make([]string, len(songs))
	for i, sg := range songs {
		if i < len(q.ids) && i < len(last) && last[i].Path == sg.Path {
			next[i] = q.ids[i]
		} else {
			next[i] = uuid.NewString()
		}
	}
	q.ids = next
	q.songs = append([]mpd.Song(nil), songs...)

	out := make([]mpd.QueueEntry, len(songs))
	for i, sg := range songs {
		out[i] = mpd.QueueEntry{Song: sg, ID: q.ids[i], Pos: i}
	}
	return out
}

// snapshot returns the song list observed on the last reconcile call, for
// use as the "last" argument on the next one.
func (q *queueState) snapshot() []mpd.Song {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mpd.Song(nil), q.songs...)
}

// newID mints a fresh opaque queue-entry id.
func (q *queueState) newID() string {
	return uuid.NewString()
}

// len reports how many positions are currently tracked.
func (q *queueState) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}

// idAt returns the id assigned to a position, if tracked.
func (q *queueState) idAt(pos int) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if pos < 0 || pos >= len(q.ids) {
		return "", false
	}
	return q.ids[pos], true
}

// posForID resolves an id back to its current position.
func (q *queueState) posForID(id string) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, v := range q.ids {
		if v == id {
			return i, true
		}
	}
	return 0, false
}

// assignAt records a freshly-inserted item's id at pos, shifting
// everything at or after pos down by one slot.
func (q *queueState) assignAt(pos int, id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if pos < 0 || pos > len(q.ids) {
		pos = len(q.ids)
	}
	q.ids = append(q.ids, "")
	copy(q.ids[pos+1:], q.ids[pos:])
	q.ids[pos] = id
}

// removeRange drops the ids in [start, end], matching an inclusive
// mpd.Range removal.
func (q *queueState) removeRange(start, end int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if start < 0 {
		start = 0
	}
	if end >= len(q.ids) {
		end = len(q.ids) - 1
	}
	if start > end {
		return
	}
	q.ids = append(q.ids[:start], q.ids[end+1:]...)
}

// swap exchanges the ids tracked at two positions.
func (q *queueState) swap(a, b int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if a < 0 || b < 0 || a >= len(q.ids) || b >= len(q.ids) {
		return
	}
	q.ids[a], q.ids[b] = q.ids[b], q.ids[a]
}

// clear drops every tracked id.
func (q *queueState) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = nil
}

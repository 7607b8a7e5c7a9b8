package mpd

import (
	"fmt"
	"strings"
	"time"
)

// WriteStatus writes the status block: partition is always first, then
// each set option, then state unconditionally, then optional song/id/time
// fields.
func WriteStatus(w *strings.Builder, st Status) {
	w.WriteString("partition: default\n")
	if st.Volume != nil {
		fmt.Fprintf(w, "volume: %d\n", *st.Volume)
	}
	if st.Repeat != nil {
		fmt.Fprintf(w, "repeat: %d\n", boolInt(*st.Repeat))
	}
	if st.Random != nil {
		fmt.Fprintf(w, "random: %d\n", boolInt(*st.Random))
	}
	if st.Single != nil {
		fmt.Fprintf(w, "single: %d\n", boolInt(*st.Single))
	}
	if st.Consume != nil {
		fmt.Fprintf(w, "consume: %d\n", boolInt(*st.Consume))
	}
	if st.Playlist != nil {
		fmt.Fprintf(w, "playlist: %d\n", *st.Playlist)
	}
	if st.PlaylistLength != nil {
		fmt.Fprintf(w, "playlistlength: %d\n", *st.PlaylistLength)
	}
	fmt.Fprintf(w, "state: %s\n", st.State.String())
	if st.Song != nil {
		fmt.Fprintf(w, "song: %d\n", *st.Song)
	}
	if st.SongID != nil {
		fmt.Fprintf(w, "songid: %d\n", *st.SongID)
	}
	if st.NextSong != nil {
		fmt.Fprintf(w, "nextsong: %d\n", *st.NextSong)
	}
	if st.NextSongID != nil {
		fmt.Fprintf(w, "nextsongid: %d\n", *st.NextSongID)
	}
	if st.Elapsed != nil && st.Duration != nil {
		fmt.Fprintf(w, "time: %d:%d\n", wholeSeconds(*st.Elapsed), wholeSeconds(*st.Duration))
	}
	if st.Elapsed != nil {
		fmt.Fprintf(w, "elapsed: %.3f\n", st.Elapsed.Seconds())
	}
	if st.Duration != nil {
		fmt.Fprintf(w, "duration: %.3f\n", st.Duration.Seconds())
	}
	if st.Crossfade != nil {
		fmt.Fprintf(w, "xfade: %d\n", *st.Crossfade)
	}
	if st.MixrampDB != nil {
		fmt.Fprintf(w, "mixrampdb: %g\n", *st.MixrampDB)
	}
	if st.MixrampDelay != nil {
		fmt.Fprintf(w, "mixrampdelay: %g\n", *st.MixrampDelay)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func wholeSeconds(d time.Duration) int64 {
	return int64(d.Seconds())
}

// WriteSong writes one song's fields: file, optional Last-Modified/Format/
// Time/duration, then each tag in the enabled tag mask as "<Canonical>:
// <value>".
func WriteSong(w *strings.Builder, s Song, enabled TagMask) {
	fmt.Fprintf(w, "file: %s\n", s.Path)
	if s.LastModified != nil {
		fmt.Fprintf(w, "Last-Modified: %s\n", s.LastModified.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if s.Format != "" {
		fmt.Fprintf(w, "Format: %s\n", s.Format)
	}
	if s.Duration != nil {
		fmt.Fprintf(w, "Time: %d\n", wholeSeconds(*s.Duration))
		fmt.Fprintf(w, "duration: %.3f\n", s.Duration.Seconds())
	}
	for _, t := range s.Tags {
		if !enabled.Has(t.Kind) {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", t.Kind.String(), t.Value)
	}
}

// WriteLibraryEntry writes a directory or song library entry.
func WriteLibraryEntry(w *strings.Builder, e LibraryEntry, enabled TagMask) {
	if e.Directory != nil {
		fmt.Fprintf(w, "directory: %s\n", e.Directory.Path)
		if e.Directory.LastModified != nil {
			fmt.Fprintf(w, "Last-Modified: %s\n", e.Directory.LastModified.UTC().Format("2006-01-02T15:04:05Z"))
		}
		return
	}
	WriteSong(w, *e.File, enabled)
}

// WriteQueueEntry writes a queue entry: the song lines followed by Pos and
// Id.
func WriteQueueEntry(w *strings.Builder, e QueueEntry, enabled TagMask) {
	WriteSong(w, e.Song, enabled)
	fmt.Fprintf(w, "Pos: %d\n", e.Pos)
	fmt.Fprintf(w, "Id: %s\n", e.ID)
}

// WriteTag writes one "<Canonical>: <value>" line, used by the `list`
// command's aggregated values.
func WriteTag(w *strings.Builder, k Kind, value string) {
	fmt.Fprintf(w, "%s: %s\n", k.String(), value)
}

// WriteACK writes an error reply: "ACK [<code>@<idx>] {<name>} <message>".
func WriteACK(w *strings.Builder, code ErrCode, idx int, name, message string) {
	fmt.Fprintf(w, "ACK [%d@%d] {%s} %s\n", code, idx, name, message)
}

// WriteOK writes the terminator for a successful single command or
// command list.
func WriteOK(w *strings.Builder) {
	w.WriteString("OK\n")
}

// WriteListOK writes the per-sub-command terminator used inside a list
// opened with command_list_ok_begin.
func WriteListOK(w *strings.Builder) {
	w.WriteString("list_OK\n")
}

package mpd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// greeting is the first line every session sends, matching the version
// string clients use to detect protocol support.
const greeting = "OK MPD 0.22.0\n"

type lineResult struct {
	line string
	err  error
}

// Session drives the request/response loop for one connected client. Its
// exported surface is Serve; everything else is internal plumbing shared
// between the plain command path, command lists, and the idle rendezvous.
type Session struct {
	conn net.Conn
	srv  *Server

	lines chan lineResult

	tagMask TagMask
	idle    IdleState
}

func newSession(conn net.Conn, srv *Server) *Session {
	s := &Session{
		conn:    conn,
		srv:     srv,
		lines:   make(chan lineResult),
		tagMask: NewTagMaskAll(),
	}
	s.idle.LastVersion = srv.cache.Version()
	return s
}

// readLoop feeds s.lines until the connection errors or closes. It is the
// only goroutine that reads from conn, so Serve and handleIdle can select
// on incoming lines without racing each other.
func (s *Session) readLoop() {
	r := bufio.NewReader(s.conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			s.lines <- lineResult{err: err}
			return
		}
		s.lines <- lineResult{line: strings.TrimRight(line, "\r\n")}
	}
}

func (s *Session) nextLine() (string, error) {
	res := <-s.lines
	return res.line, res.err
}

// Serve runs the session until the client disconnects or sends a line the
// read loop can't recover from. It always closes conn before returning.
func (s *Session) Serve() {
	defer s.conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.readLoop()

	if _, err := io.WriteString(s.conn, greeting); err != nil {
		return
	}

	for {
		line, err := s.nextLine()
		if err != nil {
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		name, args := splitCommandLine(line)
		cmd := Parse(name, args)

		switch c := cmd.(type) {
		case ListBeginCmd:
			if terminate := s.runCommandList(ctx, c.OK); terminate {
				return
			}
			continue
		case ListEndCmd:
			// A command_list_end with no open list is a no-op.
			continue
		case IdleCmd:
			var out strings.Builder
			terminate := s.handleIdle(ctx, &out, c)
			if _, werr := io.WriteString(s.conn, out.String()); werr != nil {
				return
			}
			if terminate {
				return
			}
			continue
		}

		var out strings.Builder
		if inv, ok := cmd.(InvalidCmd); ok {
			WriteACK(&out, inv.Err.Code, 0, inv.commandName(), inv.Err.Message)
		} else if cerr := s.dispatch(ctx, &out, cmd); cerr != nil {
			WriteACK(&out, cerr.Code, 0, cmd.commandName(), cerr.Message)
		} else {
			WriteOK(&out)
		}
		if _, werr := io.WriteString(s.conn, out.String()); werr != nil {
			return
		}
	}
}

// runCommandList reads and executes sub-commands until command_list_end,
// EOF, or the first failing sub-command, writing exactly one response
// (the list's output, or the aborting ACK) when it finishes. It reports
// whether the connection died and the caller should stop serving it.
func (s *Session) runCommandList(ctx context.Context, wantListOK bool) bool {
	var out strings.Builder
	idx := 0
	for {
		line, err := s.nextLine()
		if err != nil {
			io.WriteString(s.conn, out.String())
			return true
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		name, args := splitCommandLine(line)
		if name == "command_list_end" {
			WriteOK(&out)
			io.WriteString(s.conn, out.String())
			return false
		}

		var cmd Command
		if name == "command_list_begin" || name == "command_list_ok_begin" {
			cmd = invalid(namedCommand{}, errUnknown("unknown command %q", name))
		} else {
			cmd = Parse(name, args)
		}

		if inv, ok := cmd.(InvalidCmd); ok {
			WriteACK(&out, inv.Err.Code, idx, inv.commandName(), inv.Err.Message)
			io.WriteString(s.conn, out.String())
			return false
		}

		if cerr := s.dispatch(ctx, &out, cmd); cerr != nil {
			WriteACK(&out, cerr.Code, idx, cmd.commandName(), cerr.Message)
			io.WriteString(s.conn, out.String())
			return false
		}
		if wantListOK {
			WriteListOK(&out)
		}
		idx++
	}
}

// handleIdle runs the wait loop for one `idle` command: it blocks (unless
// state already changed since the session's last look) until either the
// shared cache publishes a new version or a line arrives from the client.
// A bare "noidle" ends the wait cleanly; any other line is treated as an
// unrecognized command for the idle context and ends the wait with an
// ACK, without closing the connection. It reports whether the connection
// died while waiting.
func (s *Session) handleIdle(ctx context.Context, out *strings.Builder, cmd IdleCmd) bool {
	for {
		if !s.idle.Pending(s.srv.cache) {
			select {
			case <-ctx.Done():
				return true
			case <-s.srv.cache.Watch():
			case res := <-s.lines:
				if res.err != nil {
					return true
				}
				line := strings.TrimSpace(res.line)
				if line == "" {
					continue
				}
				if line == "noidle" {
					WriteOK(out)
					return false
				}
				name, _ := splitCommandLine(line)
				WriteACK(out, CodeUnknown, 0, name, fmt.Sprintf("unknown command %q while idle", name))
				return false
			}
		}

		changed := s.idle.Diff(s.srv.cache, cmd.Subsystems)
		if len(changed) == 0 {
			continue
		}
		for _, sub := range changed {
			fmt.Fprintf(out, "changed: %s\n", sub.String())
		}
		WriteOK(out)
		return false
	}
}

// splitCommandLine separates the command name from its raw argument
// bytes on the first space; the tokenizer handles any further internal
// whitespace and quoting.
func splitCommandLine(line string) (name string, args []byte) {
	trimmed := strings.TrimLeft(line, " ")
	idx := strings.IndexByte(trimmed, ' ')
	if idx < 0 {
		return trimmed, nil
	}
	return trimmed[:idx], []byte(trimmed[idx+1:])
}

func asCmdError(err error) *CmdError {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*CmdError); ok {
		return ce
	}
	return errUnknown("%s", err.Error())
}

// applyTagTypes mutates the session's enabled-tag mask per a `tagtypes`
// sub-command; TagTypesCmd with an empty Op only queries the mask, which
// the caller handles separately.
func (s *Session) applyTagTypes(c TagTypesCmd) {
	switch c.Op {
	case "clear":
		s.tagMask = s.tagMask.Clear()
	case "all":
		s.tagMask = NewTagMaskAll()
	case "enable":
		for _, k := range c.Tags {
			s.tagMask = s.tagMask.Enable(k)
		}
	case "disable":
		for _, k := range c.Tags {
			s.tagMask = s.tagMask.Disable(k)
		}
	}
}

func (s *Session) externalSong(sg Song) Song {
	if ext, ok := s.srv.pathMapper.ToExternal(sg.Path); ok {
		sg.Path = ext
	}
	return sg
}

func (s *Session) writeSongExternal(out *strings.Builder, sg Song) {
	WriteSong(out, s.externalSong(sg), s.tagMask)
}

func (s *Session) writeQueueEntry(out *strings.Builder, e QueueEntry) {
	e.Song = s.externalSong(e.Song)
	WriteQueueEntry(out, e, s.tagMask)
}

func (s *Session) writeLibraryEntry(out *strings.Builder, e LibraryEntry) {
	if e.File != nil {
		sg := s.externalSong(*e.File)
		e.File = &sg
	} else if e.Directory != nil {
		if ext, ok := s.srv.pathMapper.ToExternal(e.Directory.Path); ok {
			d := *e.Directory
			d.Path = ext
			e.Directory = &d
		}
	}
	WriteLibraryEntry(out, e, s.tagMask)
}

// resolveURI translates a client-facing URI argument into the internal
// path a Handler expects, using the server's path mapper. An empty raw
// string maps to the library root.
func (s *Session) resolveURI(raw string) (string, *CmdError) {
	ext, perr := externalPathFromURI(raw)
	if perr != nil {
		return "", perr
	}
	if ext == "" {
		return "", nil
	}
	internal, ok := s.srv.pathMapper.ToInternal(ext)
	if !ok {
		return "", errNoExist("No such directory")
	}
	return internal, nil
}

// dispatch executes one parsed Command against the server's Handler,
// writing its success-path output (if any) to out. It returns a non-nil
// *CmdError on failure; callers turn that into an ACK line.
func (s *Session) dispatch(ctx context.Context, out *strings.Builder, cmd Command) *CmdError {
	h := s.srv.handler

	switch c := cmd.(type) {
	case PingCmd:
		return nil
	case StatusCmd:
		WriteStatus(out, h.Status(ctx))
		return nil
	case StatsCmd:
		s.writeStats(out)
		return nil
	case CurrentSongCmd:
		qe, err := h.QueueCurrent(ctx)
		if err != nil {
			return asCmdError(err)
		}
		if qe != nil {
			s.writeQueueEntry(out, *qe)
		}
		return nil

	case PlaylistInfoCmd:
		items, err := h.QueueList(ctx, c.Range)
		if err != nil {
			return asCmdError(err)
		}
		for _, e := range items {
			s.writeQueueEntry(out, e)
		}
		return nil
	case PlaylistIDCmd:
		var items []QueueEntry
		if c.ID != nil {
			qe, err := h.QueueGet(ctx, strconv.FormatUint(*c.ID, 10))
			if err != nil {
				return asCmdError(err)
			}
			if qe != nil {
				items = append(items, *qe)
			}
		} else {
			var err error
			items, err = h.QueueList(ctx, nil)
			if err != nil {
				return asCmdError(err)
			}
		}
		for _, e := range items {
			s.writeQueueEntry(out, e)
		}
		return nil
	case PlChangesCmd:
		items, err := h.QueueList(ctx, c.Range)
		if err != nil {
			return asCmdError(err)
		}
		for _, e := range items {
			s.writeQueueEntry(out, e)
		}
		return nil
	case PlChangesPosIDCmd:
		items, err := h.QueueList(ctx, c.Range)
		if err != nil {
			return asCmdError(err)
		}
		for _, e := range items {
			s.writeQueueEntry(out, e)
		}
		return nil

	case AddCmd:
		internal, perr := s.resolveURI(c.URI)
		if perr != nil {
			return perr
		}
		_, err := h.QueueAddFile(ctx, internal, nil)
		return asCmdError(err)
	case AddIDCmd:
		internal, perr := s.resolveURI(c.URI)
		if perr != nil {
			return perr
		}
		var pos *int
		if c.Pos != nil {
			p := int(*c.Pos)
			pos = &p
		}
		id, err := h.QueueAddFile(ctx, internal, pos)
		if err != nil {
			return asCmdError(err)
		}
		fmt.Fprintf(out, "Id: %s\n", id)
		return nil
	case ClearCmd:
		return asCmdError(h.QueueClear(ctx))
	case DeleteCmd:
		return asCmdError(h.QueueDelete(ctx, c.Range))
	case SwapCmd:
		return asCmdError(h.QueueSwap(ctx, RefByPos(int(c.A)), RefByPos(int(c.B))))
	case SwapIDCmd:
		return asCmdError(h.QueueSwap(ctx,
			RefByID(strconv.FormatUint(c.A, 10)),
			RefByID(strconv.FormatUint(c.B, 10))))

	case PlayCmd:
		var ref *QueueRef
		if c.Pos != nil {
			r := RefByPos(int(*c.Pos))
			ref = &r
		}
		return asCmdError(h.Play(ctx, ref))
	case PlayIDCmd:
		var ref *QueueRef
		if c.ID != nil {
			r := RefByID(strconv.FormatUint(*c.ID, 10))
			ref = &r
		}
		return asCmdError(h.Play(ctx, ref))
	case PauseCmd:
		return asCmdError(h.Pause(ctx, c.State))
	case PreviousCmd:
		return asCmdError(h.Previous(ctx))
	case NextCmd:
		return asCmdError(h.Next(ctx))
	case StopCmd:
		return asCmdError(h.Stop(ctx))
	case SeekCmd:
		return asCmdError(h.Seek(ctx, RefByPos(int(c.Pos)), c.Time))
	case SeekIDCmd:
		return asCmdError(h.Seek(ctx, RefByID(strconv.FormatUint(c.ID, 10)), c.Time))
	case SeekCurCmd:
		return asCmdError(h.SeekCurrent(ctx, c.Time))

	case SetVolCmd:
		if c.Volume > 100 {
			return errInvalidArgument("Invalid volume value")
		}
		return asCmdError(h.VolumeSet(ctx, int(c.Volume)))
	case GetVolCmd:
		vol, err := h.VolumeGet(ctx)
		if err != nil {
			return asCmdError(err)
		}
		if vol != nil {
			fmt.Fprintf(out, "volume: %d\n", *vol)
		}
		return nil
	case RandomCmd:
		return asCmdError(h.SetRandom(ctx, c.State))
	case ReplayGainModeCmd:
		return nil
	case ReplayGainStatusCmd:
		out.WriteString("replay_gain_mode: off\n")
		return nil

	case LsInfoCmd:
		internal, perr := s.resolveURI(c.URI)
		if perr != nil {
			return perr
		}
		entries, err := h.ListDirectory(ctx, internal)
		if err != nil {
			return asCmdError(err)
		}
		for _, e := range entries {
			s.writeLibraryEntry(out, e)
		}
		return nil
	case ListCmd:
		tags, err := h.LibraryList(ctx, c.Tag, c.Filters, c.Groups)
		if err != nil {
			return asCmdError(err)
		}
		for _, t := range tags {
			WriteTag(out, t.Kind, t.Value)
		}
		return nil
	case FindCmd:
		songs, err := h.LibraryFind(ctx, c.Filters, true)
		if err != nil {
			return asCmdError(err)
		}
		for _, sg := range songs {
			s.writeSongExternal(out, sg)
		}
		return nil
	case SearchCmd:
		songs, err := h.LibraryFind(ctx, c.Filters, false)
		if err != nil {
			return asCmdError(err)
		}
		for _, sg := range songs {
			s.writeSongExternal(out, sg)
		}
		return nil
	case UpdateCmd:
		return asCmdError(h.LibraryUpdate(ctx, c.URI, false))
	case RescanCmd:
		return asCmdError(h.LibraryUpdate(ctx, c.URI, true))

	case TagTypesCmd:
		s.applyTagTypes(c)
		if c.Op == "" {
			for _, k := range s.tagMask.Enabled() {
				fmt.Fprintf(out, "tagtype: %s\n", k.String())
			}
		}
		return nil
	case CommandsCmd:
		for _, n := range commandLexicon {
			fmt.Fprintf(out, "command: %s\n", n)
		}
		return nil
	case NotCommandsCmd:
		return nil
	case DecodersCmd:
		return nil
	case URLHandlersCmd:
		out.WriteString("handler: file://\n")
		return nil
	case OutputsCmd:
		out.WriteString("outputid: 0\noutputname: default\noutputenabled: 1\n")
		return nil
	case ChannelsCmd:
		return nil
	case ListPartitionsCmd:
		out.WriteString("partition: default\n")
		return nil
	case ListPlaylistCmd:
		return errNoExist("No such playlist")
	case ListPlaylistInfoCmd:
		return errNoExist("No such playlist")
	case ListPlaylistsCmd:
		return nil
	case NoIdleCmd:
		return nil

	default:
		return errUnknown("unknown command %q", cmd.commandName())
	}
}

// writeStats emits a minimal `stats` reply. The backend surface this
// engine targets exposes no library-wide counters, so every count is
// reported as zero rather than invented.
func (s *Session) writeStats(out *strings.Builder) {
	out.WriteString("artists: 0\n")
	out.WriteString("albums: 0\n")
	out.WriteString("songs: 0\n")
	out.WriteString("uptime: 0\n")
	out.WriteString("db_playtime: 0\n")
	out.WriteString("db_update: 0\n")
	out.WriteString("playtime: 0\n")
}

package mpd

import (
	"fmt"
	"strings"
)

// Command is the typed result of parsing one command line. Every supported
// sub-command has its own concrete type implementing this marker interface;
// ListBeginCmd/ListEndCmd frame command lists, and InvalidCmd carries a
// parse failure tagged with the original command name (left blank when the
// name is not a recognized command).
type Command interface {
	commandName() string
}

type namedCommand struct{ name string }

func (n namedCommand) commandName() string { return n.name }

// Playback commands.

type PlayCmd struct {
	namedCommand
	Pos *uint64
}

type PlayIDCmd struct {
	namedCommand
	ID *uint64
}

type PauseCmd struct {
	namedCommand
	State *bool
}

type PreviousCmd struct{ namedCommand }
type NextCmd struct{ namedCommand }
type StopCmd struct{ namedCommand }

type SeekCmd struct {
	namedCommand
	Pos  uint64
	Time float64
}

type SeekIDCmd struct {
	namedCommand
	ID   uint64
	Time float64
}

type SeekCurCmd struct {
	namedCommand
	Time float64
}

// Volume & flags.

type SetVolCmd struct {
	namedCommand
	Volume uint64
}

type GetVolCmd struct{ namedCommand }

type RandomCmd struct {
	namedCommand
	State bool
}

type ReplayGainModeCmd struct {
	namedCommand
	Mode string
}

type ReplayGainStatusCmd struct{ namedCommand }

// Queue inspection.

type CurrentSongCmd struct{ namedCommand }

type PlaylistInfoCmd struct {
	namedCommand
	Range *Range
}

type PlaylistIDCmd struct {
	namedCommand
	ID *uint64
}

type PlChangesCmd struct {
	namedCommand
	Version uint64
	Range   *Range
}

type PlChangesPosIDCmd struct {
	namedCommand
	Version uint64
	Range   *Range
}

// Queue mutation.

type AddCmd struct {
	namedCommand
	URI string
}

type AddIDCmd struct {
	namedCommand
	URI string
	Pos *uint64
}

type ClearCmd struct{ namedCommand }

type DeleteCmd struct {
	namedCommand
	Range Range
}

type SwapCmd struct {
	namedCommand
	A, B uint64
}

type SwapIDCmd struct {
	namedCommand
	A, B uint64
}

// Library.

type LsInfoCmd struct {
	namedCommand
	URI string
}

type ListCmd struct {
	namedCommand
	Tag     Kind
	Filters []FilterTerm
	Groups  []Kind
}

type FindCmd struct {
	namedCommand
	Filters []FilterTerm
}

type SearchCmd struct {
	namedCommand
	Filters []FilterTerm
}

type UpdateCmd struct {
	namedCommand
	URI string
}

type RescanCmd struct {
	namedCommand
	URI string
}

// Session.

type IdleCmd struct {
	namedCommand
	Subsystems []Subsystem
}

type NoIdleCmd struct{ namedCommand }

// TagTypesCmd covers tagtypes, tagtypes clear|all|enable|disable.
type TagTypesCmd struct {
	namedCommand
	Op   string // "", "clear", "all", "enable", "disable"
	Tags []Kind
}

type PingCmd struct{ namedCommand }
type CommandsCmd struct{ namedCommand }
type NotCommandsCmd struct{ namedCommand }
type DecodersCmd struct{ namedCommand }
type URLHandlersCmd struct{ namedCommand }
type OutputsCmd struct{ namedCommand }
type ChannelsCmd struct{ namedCommand }
type ListPartitionsCmd struct{ namedCommand }

type ListPlaylistCmd struct {
	namedCommand
	Name string
}

type ListPlaylistInfoCmd struct {
	namedCommand
	Name string
}

type ListPlaylistsCmd struct{ namedCommand }
type StatusCmd struct{ namedCommand }
type StatsCmd struct{ namedCommand }

// Command list framing.

type ListBeginCmd struct {
	namedCommand
	OK bool
}

type ListEndCmd struct{ namedCommand }

// InvalidCmd is produced whenever parsing fails, including for unrecognized
// command names. Err carries the ACK code and message.
type InvalidCmd struct {
	namedCommand
	Err *CmdError
}

// Parse parses one command name plus its raw argument bytes into a typed
// Command. name is matched case-sensitively, as MPD command names are
// always lower-case on the wire.
func Parse(name string, args []byte) Command {
	r := newReader(args)
	nc := namedCommand{name: name}

	switch name {
	case "command_list_begin":
		return ListBeginCmd{namedCommand: nc, OK: false}
	case "command_list_ok_begin":
		return ListBeginCmd{namedCommand: nc, OK: true}
	case "command_list_end":
		return ListEndCmd{namedCommand: nc}

	case "play":
		pos, err := optionalUintArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return PlayCmd{namedCommand: nc, Pos: pos}
	case "playid":
		id, err := optionalUintArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return PlayIDCmd{namedCommand: nc, ID: id}
	case "pause":
		st, err := optionalBoolArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return PauseCmd{namedCommand: nc, State: st}
	case "previous":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return PreviousCmd{nc}
	case "next":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return NextCmd{nc}
	case "stop":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return StopCmd{nc}
	case "seek":
		pos, ferr := requireUintArg(r, name)
		if ferr != nil {
			return invalid(nc, ferr)
		}
		t, terr := requireFloatArg(r, name)
		if terr != nil {
			return invalid(nc, terr)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return SeekCmd{namedCommand: nc, Pos: pos, Time: t}
	case "seekid":
		id, ferr := requireUintArg(r, name)
		if ferr != nil {
			return invalid(nc, ferr)
		}
		t, terr := requireFloatArg(r, name)
		if terr != nil {
			return invalid(nc, terr)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return SeekIDCmd{namedCommand: nc, ID: id, Time: t}
	case "seekcur":
		t, terr := requireFloatArg(r, name)
		if terr != nil {
			return invalid(nc, terr)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return SeekCurCmd{namedCommand: nc, Time: t}

	case "setvol":
		v, err := requireUintArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return SetVolCmd{namedCommand: nc, Volume: v}
	case "getvol":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return GetVolCmd{nc}
	case "random":
		v, err := requireBoolArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return RandomCmd{namedCommand: nc, State: v}
	case "replay_gain_mode":
		tok, terr := requireTokenArg(r, name)
		if terr != nil {
			return invalid(nc, terr)
		}
		mode := strings.ToLower(string(tok))
		switch mode {
		case "off", "track", "album", "auto":
		default:
			return invalid(nc, errInvalidArgument("Unsupported replay gain mode"))
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		if mode != "off" {
			return invalid(nc, errUnknown("Unsupported replay gain mode"))
		}
		return ReplayGainModeCmd{namedCommand: nc, Mode: mode}
	case "replay_gain_status":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return ReplayGainStatusCmd{nc}

	case "currentsong":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return CurrentSongCmd{nc}
	case "playlistinfo":
		rg, err := optionalRangeArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return PlaylistInfoCmd{namedCommand: nc, Range: rg}
	case "playlistid":
		id, err := optionalUintArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return PlaylistIDCmd{namedCommand: nc, ID: id}
	case "plchanges":
		ver, err := requireUintArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		rg, rerr := optionalRangeArg(r, name)
		if rerr != nil {
			return invalid(nc, rerr)
		}
		return PlChangesCmd{namedCommand: nc, Version: ver, Range: rg}
	case "plchangesposid":
		ver, err := requireUintArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		rg, rerr := optionalRangeArg(r, name)
		if rerr != nil {
			return invalid(nc, rerr)
		}
		return PlChangesPosIDCmd{namedCommand: nc, Version: ver, Range: rg}

	case "add":
		u, err := requireURIArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return AddCmd{namedCommand: nc, URI: u}
	case "addid":
		u, err := requireURIArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		pos, perr := optionalUintArg(r, name)
		if perr != nil {
			return invalid(nc, perr)
		}
		return AddIDCmd{namedCommand: nc, URI: u, Pos: pos}
	case "clear":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return ClearCmd{nc}
	case "delete":
		rg, ok, err := r.rangeVal()
		if err != nil {
			return invalid(nc, rangeErr(err))
		}
		if !ok {
			return invalid(nc, wrongArgCount(name))
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return DeleteCmd{namedCommand: nc, Range: rg}
	case "swap":
		a, aerr := requireUintArg(r, name)
		if aerr != nil {
			return invalid(nc, aerr)
		}
		b, berr := requireUintArg(r, name)
		if berr != nil {
			return invalid(nc, berr)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return SwapCmd{namedCommand: nc, A: a, B: b}
	case "swapid":
		a, aerr := requireUintArg(r, name)
		if aerr != nil {
			return invalid(nc, aerr)
		}
		b, berr := requireUintArg(r, name)
		if berr != nil {
			return invalid(nc, berr)
		}
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return SwapIDCmd{namedCommand: nc, A: a, B: b}

	case "lsinfo":
		u, err := optionalURIArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return LsInfoCmd{namedCommand: nc, URI: u}
	case "list":
		tag, filters, groups, err := parseListArgs(r)
		if err != nil {
			return invalid(nc, err)
		}
		return ListCmd{namedCommand: nc, Tag: tag, Filters: filters, Groups: groups}
	case "find":
		filters, _, err := parseFilterList(r, false)
		if err != nil {
			return invalid(nc, err)
		}
		return FindCmd{namedCommand: nc, Filters: filters}
	case "search":
		filters, _, err := parseFilterList(r, false)
		if err != nil {
			return invalid(nc, err)
		}
		return SearchCmd{namedCommand: nc, Filters: filters}
	case "update":
		u, err := optionalURIArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return UpdateCmd{namedCommand: nc, URI: u}
	case "rescan":
		u, err := optionalURIArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return RescanCmd{namedCommand: nc, URI: u}

	case "idle":
		var subs []Subsystem
		for {
			tok, terr := r.token()
			if terr != nil {
				return invalid(nc, errInvalidArgument(terr.Error()))
			}
			if tok == nil {
				break
			}
			sub, ok := ParseSubsystem(string(tok))
			if !ok {
				return invalid(nc, errInvalidArgument("Unknown subsystem %q", string(tok)))
			}
			subs = append(subs, sub)
		}
		return IdleCmd{namedCommand: nc, Subsystems: subs}
	case "noidle":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return NoIdleCmd{nc}
	case "tagtypes":
		return parseTagTypes(r, nc)
	case "ping":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return PingCmd{nc}
	case "commands":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return CommandsCmd{nc}
	case "notcommands":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return NotCommandsCmd{nc}
	case "decoders":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return DecodersCmd{nc}
	case "urlhandlers":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return URLHandlersCmd{nc}
	case "outputs":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return OutputsCmd{nc}
	case "channels":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return ChannelsCmd{nc}
	case "listpartitions":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return ListPartitionsCmd{nc}
	case "listplaylist":
		n, err := requireTokenArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return ListPlaylistCmd{namedCommand: nc, Name: string(n)}
	case "listplaylistinfo":
		n, err := requireTokenArg(r, name)
		if err != nil {
			return invalid(nc, err)
		}
		return ListPlaylistInfoCmd{namedCommand: nc, Name: string(n)}
	case "listplaylists":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return ListPlaylistsCmd{nc}
	case "status":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return StatusCmd{nc}
	case "stats":
		if err := expectEnd(r, name); err != nil {
			return invalid(nc, err)
		}
		return StatsCmd{nc}

	default:
		// An unrecognized name never identified a command, so the ACK's
		// {name} field is left blank rather than echoing it back.
		return invalid(namedCommand{}, errUnknown("unknown command %q", name))
	}
}

func invalid(nc namedCommand, err *CmdError) InvalidCmd {
	return InvalidCmd{namedCommand: nc, Err: err}
}

func rangeErr(err error) *CmdError {
	if ce, ok := err.(*CmdError); ok {
		return ce
	}
	return errInvalidArgument(err.Error())
}

// --- argument-reading helpers shared by the command switch above ---

func requireUintArg(r *reader, name string) (uint64, *CmdError) {
	v, ok, err := r.integer()
	if err != nil {
		return 0, rangeErr(err)
	}
	if !ok {
		return 0, wrongArgCount(name)
	}
	return v, nil
}

func optionalUintArg(r *reader, name string) (*uint64, *CmdError) {
	if r.atEndOfArgs() {
		return nil, nil
	}
	v, ok, err := r.integer()
	if err != nil {
		return nil, rangeErr(err)
	}
	if !ok {
		return nil, nil
	}
	if err := expectEnd(r, name); err != nil {
		return nil, err
	}
	return &v, nil
}

func requireFloatArg(r *reader, name string) (float64, *CmdError) {
	tok, err := requireTokenArg(r, name)
	if err != nil {
		return 0, err
	}
	var f float64
	if _, serr := fmt.Sscanf(string(tok), "%g", &f); serr != nil {
		return 0, errInvalidArgument("Invalid float")
	}
	return f, nil
}

func requireTokenArg(r *reader, name string) ([]byte, *CmdError) {
	tok, err := r.token()
	if err != nil {
		return nil, rangeErr(err)
	}
	if tok == nil {
		return nil, wrongArgCount(name)
	}
	return tok, nil
}

func requireBoolArg(r *reader, name string) (bool, *CmdError) {
	tok, err := requireTokenArg(r, name)
	if err != nil {
		return false, err
	}
	return parseBool(tok, name)
}

func optionalBoolArg(r *reader, name string) (*bool, *CmdError) {
	if r.atEndOfArgs() {
		return nil, nil
	}
	tok, terr := r.token()
	if terr != nil {
		return nil, rangeErr(terr)
	}
	if tok == nil {
		return nil, nil
	}
	b, err := parseBool(tok, name)
	if err != nil {
		return nil, err
	}
	if err := expectEnd(r, name); err != nil {
		return nil, err
	}
	return &b, nil
}

func parseBool(tok []byte, name string) (bool, *CmdError) {
	switch string(tok) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, errInvalidArgument("Invalid argument for %q", name)
	}
}

func optionalRangeArg(r *reader, name string) (*Range, *CmdError) {
	if r.atEndOfArgs() {
		return nil, nil
	}
	rg, ok, err := r.rangeVal()
	if err != nil {
		return nil, rangeErr(err)
	}
	if !ok {
		return nil, nil
	}
	if err := expectEnd(r, name); err != nil {
		return nil, err
	}
	return &rg, nil
}

func requireURIArg(r *reader, name string) (string, *CmdError) {
	u, ok, err := r.uri()
	if err != nil {
		return "", rangeErr(err)
	}
	if !ok {
		return "", wrongArgCount(name)
	}
	return u.String(), nil
}

func optionalURIArg(r *reader, name string) (string, *CmdError) {
	if r.atEndOfArgs() {
		return "", nil
	}
	u, ok, err := r.uri()
	if err != nil {
		return "", rangeErr(err)
	}
	if !ok {
		return "", nil
	}
	if err := expectEnd(r, name); err != nil {
		return "", err
	}
	return u.String(), nil
}

func expectEnd(r *reader, name string) *CmdError {
	if !r.atEndOfArgs() {
		return wrongArgCount(name)
	}
	return nil
}

func parseTagTypes(r *reader, nc namedCommand) Command {
	if r.atEndOfArgs() {
		return TagTypesCmd{namedCommand: nc}
	}
	tok, terr := r.token()
	if terr != nil {
		return invalid(nc, errInvalidArgument(terr.Error()))
	}
	op := strings.ToLower(string(tok))
	switch op {
	case "clear", "all":
		if err := expectEnd(r, nc.name); err != nil {
			return invalid(nc, err)
		}
		return TagTypesCmd{namedCommand: nc, Op: op}
	case "enable", "disable":
		var tags []Kind
		for {
			t, terr := r.token()
			if terr != nil {
				return invalid(nc, errInvalidArgument(terr.Error()))
			}
			if t == nil {
				break
			}
			kind, ok := ParseKind(string(t))
			if !ok {
				return invalid(nc, errInvalidArgument("Unknown tag type %q", string(t)))
			}
			tags = append(tags, kind)
		}
		if len(tags) == 0 {
			return invalid(nc, wrongArgCount(nc.name))
		}
		return TagTypesCmd{namedCommand: nc, Op: op, Tags: tags}
	default:
		return invalid(nc, errInvalidArgument("Unknown tagtypes subcommand %q", op))
	}
}

// isFilterKeyword reports whether tok is a keyword that ends (sort, window)
// or extends (group) a filter list, rather than naming a tag.
func isFilterKeyword(tok []byte) bool {
	switch strings.ToLower(string(tok)) {
	case "sort", "window", "group":
		return true
	default:
		return false
	}
}

// parseFilterList reads TAG VALUE pairs until the argument bytes are
// exhausted or a "sort"/"window" keyword is seen (which ends the list; its
// value, if any, is consumed and ignored). When allowGroup is set, "group
// TAG" appends to the grouping list instead of the filter list.
func parseFilterList(r *reader, allowGroup bool) ([]FilterTerm, []Kind, *CmdError) {
	var filters []FilterTerm
	var groups []Kind
	for {
		tok, terr := r.token()
		if terr != nil {
			return nil, nil, errInvalidArgument(terr.Error())
		}
		if tok == nil {
			return filters, groups, nil
		}
		kw := strings.ToLower(string(tok))
		switch kw {
		case "sort", "window":
			// The value, if present, is parsed but unused by this engine.
			if _, terr := r.token(); terr != nil {
				return nil, nil, errInvalidArgument(terr.Error())
			}
			return filters, groups, nil
		case "group":
			if !allowGroup {
				return nil, nil, errInvalidArgument("unexpected %q", kw)
			}
			gtok, gerr := r.token()
			if gerr != nil {
				return nil, nil, errInvalidArgument(gerr.Error())
			}
			if gtok == nil {
				return nil, nil, wrongArgCount("group")
			}
			kind, ok := ParseKind(string(gtok))
			if !ok {
				return nil, nil, errInvalidArgument("Unknown tag type %q", string(gtok))
			}
			groups = append(groups, kind)
		default:
			kind, ok := ParseKind(kw)
			if !ok {
				return nil, nil, errInvalidArgument("Unknown tag type %q", kw)
			}
			vtok, verr := r.token()
			if verr != nil {
				return nil, nil, errInvalidArgument(verr.Error())
			}
			if vtok == nil {
				return nil, nil, errInvalidArgument("Not enough arguments")
			}
			filters = append(filters, FilterTerm{Kind: kind, Value: string(vtok)})
		}
	}
}

// parseListArgs implements the `list tag [filter...] [group tag...]`
// grammar, including the legacy `list album <artist>` shorthand: when tag
// is Album and exactly one bare value follows with no keyword, it is
// treated as `list album artist <value>`.
func parseListArgs(r *reader) (Kind, []FilterTerm, []Kind, *CmdError) {
	tagTok, terr := requireTokenArg(r, "list")
	if terr != nil {
		return 0, nil, nil, terr
	}
	tag, ok := ParseKind(string(tagTok))
	if !ok {
		return 0, nil, nil, errInvalidArgument("Unknown tag type %q", string(tagTok))
	}

	savedPos := r.pos
	next, nerr := r.token()
	if nerr != nil {
		return 0, nil, nil, errInvalidArgument(nerr.Error())
	}
	if next != nil && !isFilterKeyword(next) {
		savedAfterNext := r.pos
		following, ferr := r.token()
		r.pos = savedAfterNext
		if ferr == nil && following == nil {
			// Exactly one bare trailing value: legacy shorthand.
			if tag == KindAlbum {
				filters := []FilterTerm{{Kind: KindArtist, Value: string(next)}}
				return tag, filters, nil, nil
			}
			return 0, nil, nil, errInvalidArgument("should be \"%s TAG VALUE\"", "list")
		}
	}
	r.pos = savedPos

	filters, groups, ferr := parseFilterList(r, true)
	if ferr != nil {
		return 0, nil, nil, ferr
	}
	return tag, filters, groups, nil
}

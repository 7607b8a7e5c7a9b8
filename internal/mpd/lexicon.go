package mpd

// commandLexicon is the fixed, alphabetically-ordered set of command names
// this engine supports, returned verbatim by the `commands` command.
var commandLexicon = []string{
	"add",
	"addid",
	"channels",
	"clear",
	"commands",
	"currentsong",
	"decoders",
	"delete",
	"find",
	"getvol",
	"idle",
	"list",
	"listpartitions",
	"listplaylist",
	"listplaylistinfo",
	"listplaylists",
	"lsinfo",
	"next",
	"noidle",
	"notcommands",
	"outputs",
	"pause",
	"ping",
	"play",
	"playid",
	"playlistid",
	"playlistinfo",
	"plchanges",
	"plchangesposid",
	"previous",
	"random",
	"replay_gain_mode",
	"replay_gain_status",
	"rescan",
	"search",
	"seek",
	"seekcur",
	"seekid",
	"setvol",
	"stats",
	"status",
	"stop",
	"swap",
	"swapid",
	"tagtypes",
	"update",
	"urlhandlers",
}

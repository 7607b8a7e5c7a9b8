package mpd

import "context"

// Handler is the abstract contract a backend adapter implements to serve
// the protocol engine. Every method may fail; failures should be returned
// as *CmdError (via ErrNoExist/ErrUnknown/ErrInvalidArgument) so the
// session loop can render the correct ACK code. A non-*CmdError error is
// treated as Unknown.
type Handler interface {
	// Status never fails.
	Status(ctx context.Context) Status

	ListDirectory(ctx context.Context, uri string) ([]LibraryEntry, error)

	QueueCurrent(ctx context.Context) (*QueueEntry, error)
	QueueList(ctx context.Context, rg *Range) ([]QueueEntry, error)
	QueueGet(ctx context.Context, id string) (*QueueEntry, error)

	QueueAddFile(ctx context.Context, uri string, pos *int) (string, error)
	QueueSwap(ctx context.Context, a, b QueueRef) error
	QueueDelete(ctx context.Context, rg Range) error
	QueueClear(ctx context.Context) error

	Play(ctx context.Context, ref *QueueRef) error
	Previous(ctx context.Context) error
	Next(ctx context.Context) error
	Stop(ctx context.Context) error
	Pause(ctx context.Context, state *bool) error

	Seek(ctx context.Context, ref QueueRef, d float64) error
	SeekCurrent(ctx context.Context, d float64) error

	SetRandom(ctx context.Context, on bool) error
	VolumeGet(ctx context.Context) (*int, error)
	VolumeSet(ctx context.Context, vol int) error

	LibraryUpdate(ctx context.Context, uri string, rescan bool) error
	LibraryList(ctx context.Context, tag Kind, filters []FilterTerm, groups []Kind) ([]Tag, error)
	LibraryFind(ctx context.Context, filters []FilterTerm, caseSensitive bool) ([]Song, error)
}

// Idle rendezvous and the session tag mask are deliberately not part of
// Handler: they are engine-level concerns, not backend-adapter concerns.
// Idle is served by the Server's shared StateCache and each session's
// IdleState; the tag
// mask is plain per-session state (TagMask) the session loop owns
// directly.

package mpd

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeHandler implements Handler with canned, per-test-configurable
// responses. Every method not explicitly wired returns a zero value.
type fakeHandler struct {
	status Status

	volume  *int
	volErr  error
	queue   []QueueEntry
	addErr  error
	addedID string
}

func (f *fakeHandler) Status(ctx context.Context) Status { return f.status }

func (f *fakeHandler) ListDirectory(ctx context.Context, uri string) ([]LibraryEntry, error) {
	return nil, nil
}

func (f *fakeHandler) QueueCurrent(ctx context.Context) (*QueueEntry, error) { return nil, nil }

func (f *fakeHandler) QueueList(ctx context.Context, rg *Range) ([]QueueEntry, error) {
	return f.queue, nil
}

func (f *fakeHandler) QueueGet(ctx context.Context, id string) (*QueueEntry, error) {
	for _, e := range f.queue {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeHandler) QueueAddFile(ctx context.Context, uri string, pos *int) (string, error) {
	return f.addedID, f.addErr
}

func (f *fakeHandler) QueueSwap(ctx context.Context, a, b QueueRef) error { return nil }
func (f *fakeHandler) QueueDelete(ctx context.Context, rg Range) error    { return nil }
func (f *fakeHandler) QueueClear(ctx context.Context) error               { return nil }

func (f *fakeHandler) Play(ctx context.Context, ref *QueueRef) error { return nil }
func (f *fakeHandler) Previous(ctx context.Context) error            { return nil }
func (f *fakeHandler) Next(ctx context.Context) error                { return nil }
func (f *fakeHandler) Stop(ctx context.Context) error                { return nil }
func (f *fakeHandler) Pause(ctx context.Context, state *bool) error   { return nil }

func (f *fakeHandler) Seek(ctx context.Context, ref QueueRef, d float64) error { return nil }
func (f *fakeHandler) SeekCurrent(ctx context.Context, d float64) error       { return nil }

func (f *fakeHandler) SetRandom(ctx context.Context, on bool) error { return nil }
func (f *fakeHandler) VolumeGet(ctx context.Context) (*int, error)  { return f.volume, f.volErr }
func (f *fakeHandler) VolumeSet(ctx context.Context, vol int) error { return nil }

func (f *fakeHandler) LibraryUpdate(ctx context.Context, uri string, rescan bool) error { return nil }
func (f *fakeHandler) LibraryList(ctx context.Context, tag Kind, filters []FilterTerm, groups []Kind) ([]Tag, error) {
	return nil, nil
}
func (f *fakeHandler) LibraryFind(ctx context.Context, filters []FilterTerm, caseSensitive bool) ([]Song, error) {
	return nil, nil
}

// fakePollSource never produces any state; tests that need state changes
// call cache methods directly instead of running the poller.
type fakePollSource struct{}

func (fakePollSource) PollVolume(ctx context.Context) (int, bool, error)      { return 0, false, nil }
func (fakePollSource) ActivePlayer(ctx context.Context, ring []int) (int, bool, error) {
	return 0, false, nil
}
func (fakePollSource) PlayerProperties(ctx context.Context, id int) (PlayerProps, error) {
	return PlayerProps{}, nil
}
func (fakePollSource) PlaylistItems(ctx context.Context, id int) ([]Song, error) { return nil, nil }

func newTestServer(h Handler) *Server {
	cache := NewStateCache(fakePollSource{}, nil)
	return NewServer(h, cache, nil, zerolog.Nop())
}

// dial wires a Session to one end of an in-memory pipe, serving it on a
// background goroutine, and returns the client's end plus a reader for
// line-by-line assertions.
func dial(t *testing.T, srv *Server) (net.Conn, *bufio.Reader) {
	t.Helper()
	client, server := net.Pipe()
	sess := newSession(server, srv)
	go sess.Serve()
	return client, bufio.NewReader(client)
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestScenarioStatus(t *testing.T) {
	h := &fakeHandler{status: Status{State: StateStop}}
	srv := newTestServer(h)
	client, r := dial(t, srv)
	defer client.Close()

	require.Equal(t, greeting, readLine(t, r))
	_, err := client.Write([]byte("status\n"))
	require.NoError(t, err)

	require.Equal(t, "partition: default\n", readLine(t, r))
	require.Equal(t, "state: stop\n", readLine(t, r))
	require.Equal(t, "OK\n", readLine(t, r))
}

func TestScenarioBadVolume(t *testing.T) {
	srv := newTestServer(&fakeHandler{})
	client, r := dial(t, srv)
	defer client.Close()
	readLine(t, r) // greeting

	client.Write([]byte("setvol\n"))
	require.Equal(t, "ACK [2@0] {setvol} wrong number of arguments for \"setvol\"\n", readLine(t, r))

	client.Write([]byte("setvol 50a\n"))
	require.Equal(t, "ACK [2@0] {setvol} Invalid digit\n", readLine(t, r))
}

func TestScenarioQuotedInteger(t *testing.T) {
	srv := newTestServer(&fakeHandler{})
	client, r := dial(t, srv)
	defer client.Close()
	readLine(t, r)

	client.Write([]byte(`setvol "50"` + "\n"))
	require.Equal(t, "OK\n", readLine(t, r))
}

func TestScenarioCommandListFailureMidway(t *testing.T) {
	srv := newTestServer(&fakeHandler{})
	client, r := dial(t, srv)
	defer client.Close()
	readLine(t, r)

	client.Write([]byte("command_list_ok_begin\nping\nbogus\nping\ncommand_list_end\n"))
	require.Equal(t, "list_OK\n", readLine(t, r))
	require.Equal(t, "ACK [5@1] {} unknown command \"bogus\"\n", readLine(t, r))
}

func TestScenarioRangeDelete(t *testing.T) {
	srv := newTestServer(&fakeHandler{})
	client, r := dial(t, srv)
	defer client.Close()
	readLine(t, r)

	client.Write([]byte("delete 2:5\n"))
	require.Equal(t, "OK\n", readLine(t, r))
}

func TestScenarioIdleWake(t *testing.T) {
	srv := newTestServer(&fakeHandler{})
	client, r := dial(t, srv)
	defer client.Close()
	readLine(t, r)

	client.Write([]byte("idle player\n"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		require.Equal(t, "changed: player\n", readLine(t, r))
		require.Equal(t, "OK\n", readLine(t, r))
	}()

	srv.cache.bump(SubsystemPlayer)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("idle did not wake within timeout")
	}
}

func TestUnknownCommandBlanksName(t *testing.T) {
	srv := newTestServer(&fakeHandler{})
	client, r := dial(t, srv)
	defer client.Close()
	readLine(t, r)

	client.Write([]byte("frobnicate\n"))
	require.Equal(t, "ACK [5@0] {} unknown command \"frobnicate\"\n", readLine(t, r))
}

func TestNoIdleWithoutIdleIsOK(t *testing.T) {
	srv := newTestServer(&fakeHandler{})
	client, r := dial(t, srv)
	defer client.Close()
	readLine(t, r)

	client.Write([]byte("noidle\n"))
	require.Equal(t, "OK\n", readLine(t, r))
}

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

func ctxBG() context.Context { return context.Background() }

// rpcStub serves a fixed JSON-RPC method -> result/error table, recording
// the method name of every request it decodes for assertions.
type rpcStub struct {
	t         *testing.T
	results   map[string]interface{}
	errors    map[string]*rpcError
	lastCalls []string
}

func newRPCStub(t *testing.T) *rpcStub {
	return &rpcStub{
		t:       t,
		results: map[string]interface{}{},
		errors:  map[string]*rpcError{},
	}
}

func (s *rpcStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&req))
		s.lastCalls = append(s.lastCalls, req.Method)

		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
		if rerr, ok := s.errors[req.Method]; ok {
			resp.Error = rerr
		} else {
			resp.Result = s.results[req.Method]
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(s.t, json.NewEncoder(w).Encode(resp))
	}
}

func newTestClient(t *testing.T, stub *rpcStub) (*Client, func()) {
	srv := httptest.NewServer(stub.handler())
	rc := resty.New()
	c := New(srv.URL, rc, zerolog.Nop())
	return c, srv.Close
}

func TestVolumeGetSet(t *testing.T) {
	stub := newRPCStub(t)
	stub.results["Application.GetProperties"] = wireAppProps{Volume: 42}
	c, closeFn := newTestClient(t, stub)
	defer closeFn()

	vol, err := c.VolumeGet(ctxBG())
	require.NoError(t, err)
	require.NotNil(t, vol)
	require.Equal(t, 42, *vol)

	require.NoError(t, c.VolumeSet(ctxBG(), 10))
	require.Contains(t, stub.lastCalls, "Application.SetVolume")
}

func TestMapRPCErrorNotFound(t *testing.T) {
	stub := newRPCStub(t)
	stub.errors["Application.GetProperties"] = &rpcError{Code: -32602, Message: "no such id"}
	c, closeFn := newTestClient(t, stub)
	defer closeFn()

	_, err := c.VolumeGet(ctxBG())
	require.Error(t, err)
	ce, ok := err.(*mpd.CmdError)
	require.True(t, ok)
	require.Equal(t, mpd.CodeNoExist, ce.Code)
}

func TestMapRPCErrorFallsBackToUnknown(t *testing.T) {
	stub := newRPCStub(t)
	stub.errors["Files.GetDirectory"] = &rpcError{Code: -32001, Message: "backend fault"}
	c, closeFn := newTestClient(t, stub)
	defer closeFn()

	_, err := c.ListDirectory(ctxBG(), "missing")
	require.Error(t, err)
	ce, ok := err.(*mpd.CmdError)
	require.True(t, ok)
	require.Equal(t, mpd.CodeUnknown, ce.Code)
}

func TestPlayOpensWhenNoActivePlayer(t *testing.T) {
	stub := newRPCStub(t)
	stub.results["Player.GetActivePlayers"] = []wirePlayer{}
	c, closeFn := newTestClient(t, stub)
	defer closeFn()

	require.NoError(t, c.Play(ctxBG(), nil))
	require.Contains(t, stub.lastCalls, "Player.Open")
}

func TestPlayResumesExistingPlayer(t *testing.T) {
	stub := newRPCStub(t)
	stub.results["Player.GetActivePlayers"] = []wirePlayer{{PlayerID: 7, Type: "audio"}}
	c, closeFn := newTestClient(t, stub)
	defer closeFn()

	require.NoError(t, c.Play(ctxBG(), nil))
	require.Contains(t, stub.lastCalls, "Player.PlayPause")
}

// Package backend adapts the protocol engine's mpd.Handler and
// mpd.PollSource interfaces to a JSON-RPC-over-HTTP media backend.
package backend

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tjhop/mpdrelay/internal/mpd"
)

// rpcRequest is one JSON-RPC 2.0 call envelope.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      uint64      `json:"id"`
}

// rpcError is the JSON-RPC error object, when present.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
	Raw     []byte          `json:"-"`
}

// Client talks to the backend's JSON-RPC endpoint and implements both
// mpd.Handler and mpd.PollSource over it.
type Client struct {
	rc  *resty.Client
	log zerolog.Logger

	reqID uint64

	queue *queueState
}

// New builds a Client pointed at the backend's JSON-RPC endpoint (e.g.
// "http://host:8080/jsonrpc"). The media sources for mpd.PathMapper are
// fetched separately via Sources; Client itself only ever sees internal
// paths.
func New(baseURL string, rc *resty.Client, log zerolog.Logger) *Client {
	if rc == nil {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL)
	return &Client{
		rc:    rc,
		log:   log.With().Str("component", "backend").Logger(),
		queue: newQueueState(),
	}
}

// call performs one JSON-RPC request and decodes its result into out (a
// pointer), or returns an error describing the transport or RPC failure.
func (c *Client) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	id := atomic.AddUint64(&c.reqID, 1)
	req := rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: id}

	var env rpcResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&env).
		Post("")
	if err != nil {
		return errors.Wrapf(err, "backend call %s", method)
	}
	if resp.IsError() {
		return errors.Errorf("backend call %s: http %d", method, resp.StatusCode())
	}
	if env.Error != nil {
		return mapRPCError(method, env.Error)
	}
	if out == nil {
		return nil
	}
	return decodeResult(env.Result, out)
}

// mapRPCError translates a backend RPC failure into the engine's closed
// ACK taxonomy. -32602 ("Invalid params") is the backend's convention for
// referencing a missing id/path and maps to NoExist; every other code
// falls back to Unknown.
func mapRPCError(method string, rerr *rpcError) error {
	if rerr.Code == -32602 {
		return mpd.ErrNoExist("%s: %s", method, rerr.Message)
	}
	return mpd.ErrUnknown("%s: %s", method, rerr.Message)
}

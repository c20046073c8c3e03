package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// GetOp is the fluent builder for get/getq/getk/getkq. A miss resolves
// to a nil *command.Value, not an error.
type GetOp struct {
	key     []byte
	opcode  wire.OpCode
	withKey bool
	timeout time.Duration
}

func newGetOp(key string, opcode wire.OpCode, withKey bool) *GetOp {
	return &GetOp{key: []byte(key), opcode: opcode, withKey: withKey, timeout: defaultTimeout}
}

// Get builds a get: resolves to nil on miss, the value on hit.
func Get(key string) *GetOp { return newGetOp(key, wire.Get, false) }

// GetQ builds a quiet get: a miss completes silently, never observable
// by the caller except as the future never resolving before a later
// fencing command completes.
func GetQ(key string) *GetOp { return newGetOp(key, wire.GetQ, false) }

// GetK builds a get whose response echoes the requested key.
func GetK(key string) *GetOp { return newGetOp(key, wire.GetK, true) }

// GetKQ builds the quiet, key-echoing get.
func GetKQ(key string) *GetOp { return newGetOp(key, wire.GetKQ, true) }

// Timeout overrides the per-command timeout (default 2s).
func (g *GetOp) Timeout(d time.Duration) *GetOp {
	g.timeout = d
	return g
}

// Do submits the get and returns its future.
func (g *GetOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[*command.Value], error) {
	kind := kindForGet(g.opcode)
	cmd := command.NewGet(kind, g.key, g.timeout)
	fut := conn.Submit[*command.Value](c, cmd, func() (command.Responder, *future.Future[*command.Value]) {
		return command.NewGetResponder(g.opcode, g.withKey)
	})
	return fut, ctx.Err()
}

func kindForGet(opcode wire.OpCode) command.Kind {
	switch opcode {
	case wire.GetQ:
		return command.KindGetQ
	case wire.GetK:
		return command.KindGetK
	case wire.GetKQ:
		return command.KindGetKQ
	default:
		return command.KindGet
	}
}

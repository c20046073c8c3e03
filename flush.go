package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// FlushOp is the fluent builder for flush/flushq: resolves to
// command.Unit.
type FlushOp struct {
	kind    command.Kind
	opcode  wire.OpCode
	expires uint32
	timeout time.Duration
}

func newFlushOp(kind command.Kind, opcode wire.OpCode) *FlushOp {
	return &FlushOp{kind: kind, opcode: opcode, timeout: defaultTimeout}
}

// Flush builds a flush that invalidates every stored key.
func Flush() *FlushOp { return newFlushOp(command.KindFlush, wire.Flush) }

// FlushQ builds the quiet variant of Flush.
func FlushQ() *FlushOp { return newFlushOp(command.KindFlushQ, wire.FlushQ) }

// Expires delays the flush by this many seconds; 0 flushes immediately.
func (f *FlushOp) Expires(e uint32) *FlushOp {
	f.expires = e
	return f
}

// Timeout overrides the per-command timeout.
func (f *FlushOp) Timeout(d time.Duration) *FlushOp {
	f.timeout = d
	return f
}

// Do submits the flush.
func (f *FlushOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[command.Unit], error) {
	cmd := command.NewFlush(f.kind, f.expires, f.timeout)
	fut := conn.Submit[command.Unit](c, cmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(f.opcode)
	})
	return fut, ctx.Err()
}

package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// DeleteOp is the fluent builder for delete/deleteq. Both resolve to
// command.Unit.
type DeleteOp struct {
	key     []byte
	kind    command.Kind
	opcode  wire.OpCode
	cas     wire.Version
	timeout time.Duration
}

func newDeleteOp(key string, kind command.Kind, opcode wire.OpCode) *DeleteOp {
	return &DeleteOp{key: []byte(key), kind: kind, opcode: opcode, timeout: defaultTimeout}
}

// Delete builds an unconditional delete.
func Delete(key string) *DeleteOp { return newDeleteOp(key, command.KindDelete, wire.Delete) }

// DeleteQ builds the quiet variant of Delete.
func DeleteQ(key string) *DeleteOp { return newDeleteOp(key, command.KindDeleteQ, wire.DeleteQ) }

// CAS constrains the delete to the given version.
func (d *DeleteOp) CAS(v wire.Version) *DeleteOp {
	d.cas = v
	return d
}

// Timeout overrides the per-command timeout.
func (d *DeleteOp) Timeout(t time.Duration) *DeleteOp {
	d.timeout = t
	return d
}

// Do submits the delete.
func (d *DeleteOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[command.Unit], error) {
	cmd := command.NewDelete(d.kind, d.key, d.cas, d.timeout)
	fut := conn.Submit[command.Unit](c, cmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(d.opcode)
	})
	return fut, ctx.Err()
}

package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// ConcatOp is the fluent builder for append/prepend: resolves to the new
// CAS token.
type ConcatOp struct {
	key     []byte
	value   []byte
	kind    command.Kind
	opcode  wire.OpCode
	cas     wire.Version
	timeout time.Duration
}

func newConcatOp(key string, value []byte, kind command.Kind, opcode wire.OpCode) *ConcatOp {
	return &ConcatOp{key: []byte(key), value: value, kind: kind, opcode: opcode, timeout: defaultTimeout}
}

// Append builds a command that appends value to the existing stored data.
func Append(key string, value []byte) *ConcatOp { return newConcatOp(key, value, command.KindAppend, wire.Append) }

// Prepend builds a command that prepends value to the existing stored data.
func Prepend(key string, value []byte) *ConcatOp {
	return newConcatOp(key, value, command.KindPrepend, wire.Prepend)
}

// CAS constrains the concat to the given version.
func (c *ConcatOp) CAS(v wire.Version) *ConcatOp {
	c.cas = v
	return c
}

// Timeout overrides the per-command timeout.
func (c *ConcatOp) Timeout(d time.Duration) *ConcatOp {
	c.timeout = d
	return c
}

// Do submits the concat.
func (c *ConcatOp) Do(ctx context.Context, conn_ *conn.Connection) (*future.Future[wire.Version], error) {
	cmd := command.NewConcat(c.kind, c.key, c.value, c.cas, c.timeout)
	fut := conn.Submit[wire.Version](conn_, cmd, func() (command.Responder, *future.Future[wire.Version]) {
		return command.NewVersionResponder(c.opcode)
	})
	return fut, ctx.Err()
}

// ConcatQOp is the quiet counterpart of ConcatOp: appendq/prependq
// resolve to command.Unit.
type ConcatQOp struct {
	key     []byte
	value   []byte
	kind    command.Kind
	opcode  wire.OpCode
	cas     wire.Version
	timeout time.Duration
}

func newConcatQOp(key string, value []byte, kind command.Kind, opcode wire.OpCode) *ConcatQOp {
	return &ConcatQOp{key: []byte(key), value: value, kind: kind, opcode: opcode, timeout: defaultTimeout}
}

// AppendQ builds the quiet variant of Append.
func AppendQ(key string, value []byte) *ConcatQOp {
	return newConcatQOp(key, value, command.KindAppendQ, wire.AppendQ)
}

// PrependQ builds the quiet variant of Prepend.
func PrependQ(key string, value []byte) *ConcatQOp {
	return newConcatQOp(key, value, command.KindPrependQ, wire.PrependQ)
}

func (c *ConcatQOp) CAS(v wire.Version) *ConcatQOp {
	c.cas = v
	return c
}

func (c *ConcatQOp) Timeout(d time.Duration) *ConcatQOp {
	c.timeout = d
	return c
}

// Do submits the quiet concat.
func (c *ConcatQOp) Do(ctx context.Context, conn_ *conn.Connection) (*future.Future[command.Unit], error) {
	cmd := command.NewConcat(c.kind, c.key, c.value, c.cas, c.timeout)
	fut := conn.Submit[command.Unit](conn_, cmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(c.opcode)
	})
	return fut, ctx.Err()
}

package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// FailOnMiss passed as Expires means the counter must already exist;
// otherwise the server seeds it with Initial on a miss.
const FailOnMiss uint32 = 0xFFFFFFFF

// CounterOp is the fluent builder for increment/decrement: resolves to
// the post-operation value and CAS token.
type CounterOp struct {
	key     []byte
	kind    command.Kind
	opcode  wire.OpCode
	delta   uint64
	initial uint64
	expires uint32
	cas     wire.Version
	timeout time.Duration
}

func newCounterOp(key string, kind command.Kind, opcode wire.OpCode) *CounterOp {
	return &CounterOp{key: []byte(key), kind: kind, opcode: opcode, delta: 1, timeout: defaultTimeout}
}

// Increment builds a counter increment, delta defaulting to 1.
func Increment(key string) *CounterOp { return newCounterOp(key, command.KindIncrement, wire.Increment) }

// Decrement builds a counter decrement, delta defaulting to 1. A
// decrement below zero floors at zero rather than underflowing.
func Decrement(key string) *CounterOp { return newCounterOp(key, command.KindDecrement, wire.Decrement) }

// Delta sets the amount to add or subtract.
func (c *CounterOp) Delta(d uint64) *CounterOp {
	c.delta = d
	return c
}

// Initial sets the value to seed the counter with on a miss.
func (c *CounterOp) Initial(v uint64) *CounterOp {
	c.initial = v
	return c
}

// Expires sets the TTL in seconds for a newly seeded counter; pass
// FailOnMiss to require the key already exist.
func (c *CounterOp) Expires(e uint32) *CounterOp {
	c.expires = e
	return c
}

// CAS constrains the operation to the given version.
func (c *CounterOp) CAS(v wire.Version) *CounterOp {
	c.cas = v
	return c
}

// Timeout overrides the per-command timeout.
func (c *CounterOp) Timeout(d time.Duration) *CounterOp {
	c.timeout = d
	return c
}

// Do submits the counter operation.
func (c *CounterOp) Do(ctx context.Context, conn_ *conn.Connection) (*future.Future[command.Counter], error) {
	cmd := command.NewCounter(c.kind, c.key, c.delta, c.initial, c.expires, c.cas, c.timeout)
	fut := conn.Submit[command.Counter](conn_, cmd, func() (command.Responder, *future.Future[command.Counter]) {
		return command.NewCounterResponder(c.opcode)
	})
	return fut, ctx.Err()
}

// CounterQOp is the quiet counterpart of CounterOp: incrementq/decrementq
// resolve to command.Unit.
type CounterQOp struct {
	key     []byte
	kind    command.Kind
	opcode  wire.OpCode
	delta   uint64
	initial uint64
	expires uint32
	cas     wire.Version
	timeout time.Duration
}

func newCounterQOp(key string, kind command.Kind, opcode wire.OpCode) *CounterQOp {
	return &CounterQOp{key: []byte(key), kind: kind, opcode: opcode, delta: 1, timeout: defaultTimeout}
}

// IncrementQ builds the quiet variant of Increment.
func IncrementQ(key string) *CounterQOp {
	return newCounterQOp(key, command.KindIncrementQ, wire.IncrementQ)
}

// DecrementQ builds the quiet variant of Decrement.
func DecrementQ(key string) *CounterQOp {
	return newCounterQOp(key, command.KindDecrementQ, wire.DecrementQ)
}

func (c *CounterQOp) Delta(d uint64) *CounterQOp {
	c.delta = d
	return c
}

func (c *CounterQOp) Initial(v uint64) *CounterQOp {
	c.initial = v
	return c
}

func (c *CounterQOp) Expires(e uint32) *CounterQOp {
	c.expires = e
	return c
}

func (c *CounterQOp) CAS(v wire.Version) *CounterQOp {
	c.cas = v
	return c
}

func (c *CounterQOp) Timeout(d time.Duration) *CounterQOp {
	c.timeout = d
	return c
}

// Do submits the quiet counter operation.
func (c *CounterQOp) Do(ctx context.Context, conn_ *conn.Connection) (*future.Future[command.Unit], error) {
	cmd := command.NewCounter(c.kind, c.key, c.delta, c.initial, c.expires, c.cas, c.timeout)
	fut := conn.Submit[command.Unit](conn_, cmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(c.opcode)
	})
	return fut, ctx.Err()
}

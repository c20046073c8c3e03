package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// SimpleOp is the fluent builder for the parameterless opcodes that
// resolve to command.Unit: noop, quit, quitq.
type SimpleOp struct {
	kind    command.Kind
	opcode  wire.OpCode
	timeout time.Duration
}

func newSimpleOp(kind command.Kind, opcode wire.OpCode) *SimpleOp {
	return &SimpleOp{kind: kind, opcode: opcode, timeout: defaultTimeout}
}

// NoOp builds a noop, used to fence a connection's pending quiet
// commands and force their completion.
func NoOp() *SimpleOp { return newSimpleOp(command.KindNoOp, wire.NoOp) }

// Quit builds a quit; the connection acknowledges and then closes.
func Quit() *SimpleOp { return newSimpleOp(command.KindQuit, wire.Quit) }

// QuitQ builds the quiet variant of Quit: the connection closes without
// acknowledging.
func QuitQ() *SimpleOp { return newSimpleOp(command.KindQuitQ, wire.QuitQ) }

// Timeout overrides the per-command timeout.
func (s *SimpleOp) Timeout(d time.Duration) *SimpleOp {
	s.timeout = d
	return s
}

// Do submits the command.
func (s *SimpleOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[command.Unit], error) {
	cmd := command.NewSimple(s.kind, s.timeout)
	fut := conn.Submit[command.Unit](c, cmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(s.opcode)
	})
	return fut, ctx.Err()
}

// VersionOp is the fluent builder for the version command, which
// resolves to the server's ASCII version string.
type VersionOp struct {
	timeout time.Duration
}

// Version builds a version query.
func Version() *VersionOp { return &VersionOp{timeout: defaultTimeout} }

// Timeout overrides the per-command timeout.
func (v *VersionOp) Timeout(d time.Duration) *VersionOp {
	v.timeout = d
	return v
}

// Do submits the version query.
func (v *VersionOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[string], error) {
	cmd := command.NewSimple(command.KindVersion, v.timeout)
	fut := conn.Submit[string](c, cmd, func() (command.Responder, *future.Future[string]) {
		return command.NewVersionStringResponder()
	})
	return fut, ctx.Err()
}

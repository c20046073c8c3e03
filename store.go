package memcake

import (
	"context"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// StoreOp is the fluent builder for set/add/replace: it resolves to the
// new CAS token.
type StoreOp struct {
	key     []byte
	value   []byte
	kind    command.Kind
	opcode  wire.OpCode
	flags   uint32
	expires uint32
	cas     wire.Version
	timeout time.Duration
}

func newStoreOp(key string, value []byte, kind command.Kind, opcode wire.OpCode) *StoreOp {
	return &StoreOp{key: []byte(key), value: value, kind: kind, opcode: opcode, timeout: defaultTimeout}
}

// Set builds an unconditional store.
func Set(key string, value []byte) *StoreOp { return newStoreOp(key, value, command.KindSet, wire.Set) }

// Add builds a store that fails with StatusKeyExists if the key is present.
func Add(key string, value []byte) *StoreOp { return newStoreOp(key, value, command.KindAdd, wire.Add) }

// Replace builds a store that fails with StatusKeyNotFound if the key is absent.
func Replace(key string, value []byte) *StoreOp {
	return newStoreOp(key, value, command.KindReplace, wire.Replace)
}

// Flags sets the opaque client flags stored alongside the value.
func (s *StoreOp) Flags(f uint32) *StoreOp {
	s.flags = f
	return s
}

// Expires sets the TTL in seconds (0 means never).
func (s *StoreOp) Expires(e uint32) *StoreOp {
	s.expires = e
	return s
}

// CAS constrains the store to the given version; wire.NoCAS means
// unconditional.
func (s *StoreOp) CAS(v wire.Version) *StoreOp {
	s.cas = v
	return s
}

// Timeout overrides the per-command timeout.
func (s *StoreOp) Timeout(d time.Duration) *StoreOp {
	s.timeout = d
	return s
}

// Do submits the store and resolves to the new CAS token.
func (s *StoreOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[wire.Version], error) {
	cmd := command.NewStore(s.kind, s.key, s.value, s.flags, s.expires, s.cas, s.timeout)
	fut := conn.Submit[wire.Version](c, cmd, func() (command.Responder, *future.Future[wire.Version]) {
		return command.NewVersionResponder(s.opcode)
	})
	return fut, ctx.Err()
}

// StoreQOp is the quiet counterpart of StoreOp: setq/addq/replaceq
// resolve to command.Unit, per the blanket *q-variants-return-unit rule.
type StoreQOp struct {
	key     []byte
	value   []byte
	kind    command.Kind
	opcode  wire.OpCode
	flags   uint32
	expires uint32
	cas     wire.Version
	timeout time.Duration
}

func newStoreQOp(key string, value []byte, kind command.Kind, opcode wire.OpCode) *StoreQOp {
	return &StoreQOp{key: []byte(key), value: value, kind: kind, opcode: opcode, timeout: defaultTimeout}
}

// SetQ builds a quiet unconditional store.
func SetQ(key string, value []byte) *StoreQOp { return newStoreQOp(key, value, command.KindSetQ, wire.SetQ) }

// AddQ builds the quiet variant of Add.
func AddQ(key string, value []byte) *StoreQOp { return newStoreQOp(key, value, command.KindAddQ, wire.AddQ) }

// ReplaceQ builds the quiet variant of Replace.
func ReplaceQ(key string, value []byte) *StoreQOp {
	return newStoreQOp(key, value, command.KindReplaceQ, wire.ReplaceQ)
}

func (s *StoreQOp) Flags(f uint32) *StoreQOp {
	s.flags = f
	return s
}

func (s *StoreQOp) Expires(e uint32) *StoreQOp {
	s.expires = e
	return s
}

func (s *StoreQOp) CAS(v wire.Version) *StoreQOp {
	s.cas = v
	return s
}

func (s *StoreQOp) Timeout(d time.Duration) *StoreQOp {
	s.timeout = d
	return s
}

// Do submits the quiet store and resolves to command.Unit once a later
// fencing command's response drains the quiet buffer.
func (s *StoreQOp) Do(ctx context.Context, c *conn.Connection) (*future.Future[command.Unit], error) {
	cmd := command.NewStore(s.kind, s.key, s.value, s.flags, s.expires, s.cas, s.timeout)
	fut := conn.Submit[command.Unit](c, cmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(s.opcode)
	})
	return fut, ctx.Err()
}

// Package command implements the request-serialization and
// response-parsing state machine for every opcode (spec.md §4.2–§4.5).
// Commands are a closed tagged variant (Kind) rather than an inheritance
// hierarchy, per the Design Notes' recommendation for a closed opcode
// set.
package command

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/markchadwick/memcake/wire"
)

// Command is an immutable request: a target opcode, key, opcode-specific
// extras, an optional value, a CAS constraint (wire.NoCAS means none),
// and a per-command timeout.
type Command struct {
	Kind    Kind
	Key     []byte
	Extras  []byte
	Value   []byte
	CAS     wire.Version
	Timeout time.Duration
}

// Serialize writes the command as magic(0x80), opcode, key length,
// extras length, data type(0), 2 reserved bytes, total body length,
// opaque, CAS, then extras‖key‖value (spec.md §4.2).
func (c *Command) Serialize(w io.Writer, opaque uint32) error {
	h := wire.Header{
		Opcode:          c.Kind.OpCode(),
		KeyLength:       uint16(len(c.Key)),
		ExtrasLength:    uint8(len(c.Extras)),
		TotalBodyLength: uint32(len(c.Extras) + len(c.Key) + len(c.Value)),
		Opaque:          opaque,
		CAS:             c.CAS,
	}
	buf := make([]byte, wire.HeaderLen+len(c.Extras)+len(c.Key)+len(c.Value))
	h.EncodeRequest(buf)
	pos := wire.HeaderLen
	pos += copy(buf[pos:], c.Extras)
	pos += copy(buf[pos:], c.Key)
	copy(buf[pos:], c.Value)
	_, err := w.Write(buf)
	return err
}

// putUint32 is a small helper for building extras blocks.
func putUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func putUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// NewGet builds a get/getq/getk/getkq command. No extras, no value.
func NewGet(kind Kind, key []byte, timeout time.Duration) *Command {
	return &Command{Kind: kind, Key: key, Timeout: timeout}
}

// NewStore builds a set/setq/add/addq/replace/replaceq command. Extras
// are 4B flags ‖ 4B expires.
func NewStore(kind Kind, key, value []byte, flags, expires uint32, cas wire.Version, timeout time.Duration) *Command {
	extras := append(putUint32(flags), putUint32(expires)...)
	return &Command{Kind: kind, Key: key, Extras: extras, Value: value, CAS: cas, Timeout: timeout}
}

// NewDelete builds a delete/deleteq command. No extras, no value.
func NewDelete(kind Kind, key []byte, cas wire.Version, timeout time.Duration) *Command {
	return &Command{Kind: kind, Key: key, CAS: cas, Timeout: timeout}
}

// NewCounter builds an increment/decrement(q) command. Extras are 8B
// delta ‖ 8B initial ‖ 4B expires; expires=0xFFFFFFFF means "fail on
// miss" instead of seeding with initial.
func NewCounter(kind Kind, key []byte, delta, initial uint64, expires uint32, cas wire.Version, timeout time.Duration) *Command {
	extras := append(putUint64(delta), putUint64(initial)...)
	extras = append(extras, putUint32(expires)...)
	return &Command{Kind: kind, Key: key, Extras: extras, CAS: cas, Timeout: timeout}
}

// NewConcat builds an append/prepend(q) command: no extras, key and
// value both required.
func NewConcat(kind Kind, key, value []byte, cas wire.Version, timeout time.Duration) *Command {
	return &Command{Kind: kind, Key: key, Value: value, CAS: cas, Timeout: timeout}
}

// NewFlush builds a flush/flushq command. Extras are 4B expires; an
// empty extras block means "flush immediately" (expires=0).
func NewFlush(kind Kind, expires uint32, timeout time.Duration) *Command {
	return &Command{Kind: kind, Extras: putUint32(expires), Timeout: timeout}
}

// NewSimple builds a noop/version/quit/quitq command: no key, extras, or
// value.
func NewSimple(kind Kind, timeout time.Duration) *Command {
	return &Command{Kind: kind, Timeout: timeout}
}

// NewStat builds a stat command; key is optional (a stat-group name such
// as "items").
func NewStat(key []byte, timeout time.Duration) *Command {
	return &Command{Kind: KindStat, Key: key, Timeout: timeout}
}

package command

import (
	"encoding/binary"

	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// Counter is the result of an increment/decrement.
type Counter struct {
	Value uint64
	CAS   wire.Version
}

type counterResponder struct {
	opcode wire.OpCode
	fut    *future.Future[Counter]
}

// NewCounterResponder returns a Responder/Future pair for the non-quiet
// increment/decrement commands. The quiet variants return Unit instead
// (use NewUnitResponder) — per §6 every "*q" variant resolves to unit,
// increment/decrement's numeric payload included.
func NewCounterResponder(opcode wire.OpCode) (Responder, *future.Future[Counter]) {
	fut := future.New[Counter]()
	return &counterResponder{opcode: opcode, fut: fut}, fut
}

func (r *counterResponder) Opcode() wire.OpCode { return r.opcode }

func (r *counterResponder) HandleResponse(h wire.Header, body []byte) (bool, error) {
	if !h.Status.OK() {
		r.fut.Fail(statusErrorFor(h, body))
		return true, nil
	}
	if len(body) < 8 {
		err := &wire.ProtocolError{Reason: "counter response body shorter than 8 bytes"}
		r.fut.Fail(err)
		return true, err
	}
	r.fut.Complete(Counter{Value: binary.BigEndian.Uint64(body[:8]), CAS: h.CAS})
	return true, nil
}

func (r *counterResponder) CompleteQuiet() {
	// Never fenced: increment/decrement are not quiet opcodes, so the
	// connection never places this responder in the quiet buffer.
	r.fut.Complete(Counter{})
}

func (r *counterResponder) Fail(err error) {
	r.fut.Fail(err)
}

package command

import (
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

type versionResponder struct {
	opcode wire.OpCode
	fut    *future.Future[wire.Version]
}

// NewVersionResponder returns a Responder/Future pair for the non-quiet
// set/add/replace/append/prepend commands, which resolve to the new
// CAS token on success. Their quiet variants resolve to Unit instead
// (use NewUnitResponder).
func NewVersionResponder(opcode wire.OpCode) (Responder, *future.Future[wire.Version]) {
	fut := future.New[wire.Version]()
	return &versionResponder{opcode: opcode, fut: fut}, fut
}

func (r *versionResponder) Opcode() wire.OpCode { return r.opcode }

func (r *versionResponder) HandleResponse(h wire.Header, body []byte) (bool, error) {
	if !h.Status.OK() {
		r.fut.Fail(statusErrorFor(h, body))
		return true, nil
	}
	r.fut.Complete(h.CAS)
	return true, nil
}

func (r *versionResponder) CompleteQuiet() {
	r.fut.Complete(wire.NoCAS)
}

func (r *versionResponder) Fail(err error) {
	r.fut.Fail(err)
}

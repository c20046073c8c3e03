package command

import (
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// Unit is the empty success value shared by delete, flush, noop, quit,
// and every "*q" quiet variant (§6).
type Unit struct{}

type unitResponder struct {
	opcode wire.OpCode
	fut    *future.Future[Unit]
}

// NewUnitResponder returns a Responder/Future pair for commands whose
// only useful result is "it happened": delete, flush, noop, quit, and
// all quiet write variants (setq, addq, replaceq, deleteq, appendq,
// prependq, incrementq, decrementq, flushq, quitq).
func NewUnitResponder(opcode wire.OpCode) (Responder, *future.Future[Unit]) {
	fut := future.New[Unit]()
	return &unitResponder{opcode: opcode, fut: fut}, fut
}

func (r *unitResponder) Opcode() wire.OpCode { return r.opcode }

func (r *unitResponder) HandleResponse(h wire.Header, body []byte) (bool, error) {
	if !h.Status.OK() {
		r.fut.Fail(statusErrorFor(h, body))
		return true, nil
	}
	r.fut.Complete(Unit{})
	return true, nil
}

func (r *unitResponder) CompleteQuiet() {
	r.fut.Complete(Unit{})
}

func (r *unitResponder) Fail(err error) {
	r.fut.Fail(err)
}

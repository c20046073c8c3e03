package command

import (
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

type stringResponder struct {
	fut *future.Future[string]
}

// NewVersionStringResponder returns a Responder/Future pair for the
// version command, whose body is an ASCII version string.
func NewVersionStringResponder() (Responder, *future.Future[string]) {
	fut := future.New[string]()
	return &stringResponder{fut: fut}, fut
}

func (r *stringResponder) Opcode() wire.OpCode { return wire.Version }

func (r *stringResponder) HandleResponse(h wire.Header, body []byte) (bool, error) {
	if !h.Status.OK() {
		r.fut.Fail(statusErrorFor(h, body))
		return true, nil
	}
	r.fut.Complete(string(body))
	return true, nil
}

func (r *stringResponder) CompleteQuiet() {
	// version is never quiet; never fenced.
	r.fut.Complete("")
}

func (r *stringResponder) Fail(err error) {
	r.fut.Fail(err)
}

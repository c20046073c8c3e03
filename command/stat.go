package command

import (
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

type statResponder struct {
	fut *future.Future[map[string]string]
	acc map[string]string
}

// NewStatResponder returns a Responder/Future pair for stat. stat
// produces a sequence of key=value responses sharing one opaque,
// terminated by a response with zero key length and zero value length
// (§4.5); the responder accumulates entries and only signals "done"
// on the terminator, so the connection keeps this opaque in the
// in-flight map across every intermediate line.
func NewStatResponder() (Responder, *future.Future[map[string]string]) {
	fut := future.New[map[string]string]()
	return &statResponder{fut: fut, acc: make(map[string]string)}, fut
}

func (r *statResponder) Opcode() wire.OpCode { return wire.Stat }

func (r *statResponder) HandleResponse(h wire.Header, body []byte) (bool, error) {
	if !h.Status.OK() {
		r.fut.Fail(statusErrorFor(h, body))
		return true, nil
	}
	if h.KeyLength == 0 && len(body) == 0 {
		r.fut.Complete(r.acc)
		return true, nil
	}
	if len(body) < int(h.KeyLength) {
		err := &wire.ProtocolError{Reason: "stat response body shorter than key"}
		r.fut.Fail(err)
		return true, err
	}
	key := string(body[:h.KeyLength])
	value := string(body[h.KeyLength:])
	r.acc[key] = value
	return false, nil
}

func (r *statResponder) CompleteQuiet() {
	// stat is never quiet; never fenced.
	r.fut.Complete(r.acc)
}

func (r *statResponder) Fail(err error) {
	r.fut.Fail(err)
}

package command

import (
	"encoding/binary"

	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
)

// Value is the result of a get/getk (and their quiet variants) hit:
// flags, the stored bytes, the CAS token, and — for getk/getkq — the key
// echoed back by the server.
type Value struct {
	Flags uint32
	Value []byte
	CAS   wire.Version
	Key   []byte
}

type valueResponder struct {
	opcode  wire.OpCode
	withKey bool
	fut     *future.Future[*Value]
}

// NewGetResponder returns a Responder/Future pair for get/getk and their
// quiet variants. withKey controls whether the body carries an echoed
// key (getk/getkq).
func NewGetResponder(opcode wire.OpCode, withKey bool) (Responder, *future.Future[*Value]) {
	fut := future.New[*Value]()
	return &valueResponder{opcode: opcode, withKey: withKey, fut: fut}, fut
}

func (r *valueResponder) Opcode() wire.OpCode { return r.opcode }

func (r *valueResponder) HandleResponse(h wire.Header, body []byte) (bool, error) {
	if h.Status == wire.StatusKeyNotFound {
		// A miss on get/getk is not an error to the caller: it
		// resolves to an empty result, per R3.
		r.fut.Complete(nil)
		return true, nil
	}
	if !h.Status.OK() {
		r.fut.Fail(statusErrorFor(h, body))
		return true, nil
	}
	if len(body) < 4 {
		err := &wire.ProtocolError{Reason: "get response body shorter than flags extras"}
		r.fut.Fail(err)
		return true, err
	}
	flags := binary.BigEndian.Uint32(body[:4])
	pos := 4
	var key []byte
	if r.withKey {
		if len(body) < pos+int(h.KeyLength) {
			err := &wire.ProtocolError{Reason: "getk response body shorter than echoed key"}
			r.fut.Fail(err)
			return true, err
		}
		key = body[pos : pos+int(h.KeyLength)]
		pos += int(h.KeyLength)
	}
	r.fut.Complete(&Value{Flags: flags, Value: body[pos:], CAS: h.CAS, Key: key})
	return true, nil
}

// CompleteQuiet implements the "silent on miss" rule for getq/getkq: a
// fence draining this responder without a response means the key was
// absent, so the future resolves to an empty result (§4.4).
func (r *valueResponder) CompleteQuiet() {
	r.fut.Complete(nil)
}

func (r *valueResponder) Fail(err error) {
	r.fut.Fail(err)
}

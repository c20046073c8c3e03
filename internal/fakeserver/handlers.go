package fakeserver

import (
	"encoding/binary"
	"net"

	"github.com/markchadwick/memcake/wire"
)

// handleGet serves get/getq/getk/getkq: a miss is silent for the quiet
// variants, otherwise a StatusKeyNotFound with a human-readable body.
func handleGet(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, _ uint64, key, _, _ []byte) bool {
	e, ok := s.store.get(string(key))
	if !ok {
		if opcode.IsQuiet() {
			return false
		}
		s.writeResponse(c, opcode, wire.StatusKeyNotFound, opaque, 0, nil, nil, []byte("Not found"))
		return false
	}
	flags := make([]byte, 4)
	binary.BigEndian.PutUint32(flags, e.flags)
	var respKey []byte
	if opcode == wire.GetK || opcode == wire.GetKQ {
		respKey = key
	}
	s.writeResponse(c, opcode, wire.StatusOK, opaque, e.cas, flags, respKey, e.value)
	return false
}

// handleStore serves set/setq/add/addq/replace/replaceq.
func handleStore(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, reqCAS uint64, key, extras, value []byte) bool {
	flags := binary.BigEndian.Uint32(extras[:4])

	var kind setKind
	switch opcode {
	case wire.Add, wire.AddQ:
		kind = setAdd
	case wire.Replace, wire.ReplaceQ:
		kind = setReplace
	default:
		kind = setUnconditional
	}

	res := s.store.set(string(key), value, flags, reqCAS, kind)
	if res.arbitrationFailed {
		status := wire.StatusKeyExists
		if kind == setReplace {
			status = wire.StatusKeyNotFound
		}
		s.writeResponse(c, opcode, status, opaque, 0, nil, nil, []byte(status.String()))
		return false
	}
	if res.casMismatch {
		s.writeResponse(c, opcode, wire.StatusKeyExists, opaque, 0, nil, nil, []byte(wire.StatusKeyExists.String()))
		return false
	}
	if opcode.IsQuiet() {
		return false
	}
	s.writeResponse(c, opcode, wire.StatusOK, opaque, res.cas, nil, nil, nil)
	return false
}

// handleDelete serves delete/deleteq.
func handleDelete(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, _ uint64, key, _, _ []byte) bool {
	if !s.store.delete(string(key)) {
		s.writeResponse(c, opcode, wire.StatusKeyNotFound, opaque, 0, nil, nil, []byte(wire.StatusKeyNotFound.String()))
		return false
	}
	if opcode.IsQuiet() {
		return false
	}
	s.writeResponse(c, opcode, wire.StatusOK, opaque, 0, nil, nil, nil)
	return false
}

// handleCounter serves increment/decrement(q). Extras are 8B delta, 8B
// initial, 4B expires (0xFFFFFFFF means fail instead of seeding).
func handleCounter(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, _ uint64, key, extras, _ []byte) bool {
	delta := binary.BigEndian.Uint64(extras[0:8])
	initial := binary.BigEndian.Uint64(extras[8:16])
	expires := binary.BigEndian.Uint32(extras[16:20])
	increment := opcode == wire.Increment || opcode == wire.IncrementQ

	value, _, ok := s.store.counter(string(key), delta, initial, expires == 0xFFFFFFFF, increment)
	if !ok {
		s.writeResponse(c, opcode, wire.StatusKeyNotFound, opaque, 0, nil, nil, []byte(wire.StatusKeyNotFound.String()))
		return false
	}
	if opcode.IsQuiet() {
		return false
	}
	e, _ := s.store.get(string(key))
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, value)
	var cas uint64
	if e != nil {
		cas = e.cas
	}
	s.writeResponse(c, opcode, wire.StatusOK, opaque, cas, nil, nil, out)
	return false
}

// handleConcat serves append/prepend(q).
func handleConcat(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, reqCAS uint64, key, _, value []byte) bool {
	prepend := opcode == wire.Prepend || opcode == wire.PrependQ

	res := s.store.concat(string(key), value, reqCAS, prepend)
	if res.arbitrationFailed {
		s.writeResponse(c, opcode, wire.StatusNotStored, opaque, 0, nil, nil, []byte(wire.StatusNotStored.String()))
		return false
	}
	if res.casMismatch {
		s.writeResponse(c, opcode, wire.StatusKeyExists, opaque, 0, nil, nil, []byte(wire.StatusKeyExists.String()))
		return false
	}
	if opcode.IsQuiet() {
		return false
	}
	s.writeResponse(c, opcode, wire.StatusOK, opaque, res.cas, nil, nil, nil)
	return false
}

// handleFlush serves flush/flushq. This fake ignores the delayed-expiry
// extras and flushes immediately.
func handleFlush(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, _ uint64, _, _, _ []byte) bool {
	s.store.flush()
	if opcode.IsQuiet() {
		return false
	}
	s.writeResponse(c, opcode, wire.StatusOK, opaque, 0, nil, nil, nil)
	return false
}

func handleNoOp(s *Server, c net.Conn, _ wire.OpCode, opaque uint32, _ uint64, _, _, _ []byte) bool {
	s.writeResponse(c, wire.NoOp, wire.StatusOK, opaque, 0, nil, nil, nil)
	return false
}

func handleVersion(s *Server, c net.Conn, _ wire.OpCode, opaque uint32, _ uint64, _, _, _ []byte) bool {
	s.writeResponse(c, wire.Version, wire.StatusOK, opaque, 0, nil, nil, []byte("1.6.0-fake"))
	return false
}

func handleQuit(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, _ uint64, _, _, _ []byte) bool {
	if opcode == wire.Quit {
		s.writeResponse(c, opcode, wire.StatusOK, opaque, 0, nil, nil, nil)
	}
	return true
}

func handleStat(s *Server, c net.Conn, _ wire.OpCode, opaque uint32, _ uint64, _, _, _ []byte) bool {
	stats := map[string]string{
		"pid":         "4242",
		"total_items": formatUint(uint64(s.store.size())),
	}
	for k, v := range stats {
		s.writeResponse(c, wire.Stat, wire.StatusOK, opaque, 0, nil, []byte(k), []byte(v))
	}
	s.writeResponse(c, wire.Stat, wire.StatusOK, opaque, 0, nil, nil, nil)
	return false
}

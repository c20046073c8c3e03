package fakeserver

import (
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/markchadwick/memcake/wire"
)

// handlerFunc serves one opcode's request, the way the original
// server's Handler interface dispatched RequestHeader values; here each
// handler is a plain function that receives the owning Server.
type handlerFunc func(s *Server, c net.Conn, opcode wire.OpCode, opaque uint32, reqCAS uint64, key, extras, value []byte) (quit bool)

// Server is an in-process binary-protocol responder bound to a random
// loopback port. Tests dial it in place of a real memcached process.
type Server struct {
	ln    net.Listener
	store *store

	mu    sync.Mutex
	conns []net.Conn

	handlers map[wire.OpCode]handlerFunc
}

// New starts a Server listening on 127.0.0.1 with an OS-assigned port.
func New() (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{ln: ln, store: newStore()}
	s.handlers = s.buildHandlers()
	go s.acceptLoop()
	return s, nil
}

// Addr returns the dial address for the listener.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Close stops accepting new connections.
func (s *Server) Close() error { return s.ln.Close() }

// ConnCount returns the number of connections accepted so far,
// including any since closed.
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// CloseConns forcibly closes every connection accepted so far,
// simulating a server crash mid-session.
func (s *Server) CloseConns() {
	s.mu.Lock()
	conns := append([]net.Conn(nil), s.conns...)
	s.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, c)
		s.mu.Unlock()
		go s.handleConn(c)
	}
}

func (s *Server) handleConn(c net.Conn) {
	defer c.Close()
	for {
		var hdr [wire.HeaderLen]byte
		if _, err := io.ReadFull(c, hdr[:]); err != nil {
			return
		}
		opcode := wire.OpCode(hdr[1])
		keyLen := binary.BigEndian.Uint16(hdr[2:4])
		extraLen := hdr[4]
		bodyLen := binary.BigEndian.Uint32(hdr[8:12])
		opaque := binary.BigEndian.Uint32(hdr[12:16])
		reqCAS := binary.BigEndian.Uint64(hdr[16:24])

		body := make([]byte, bodyLen)
		if bodyLen > 0 {
			if _, err := io.ReadFull(c, body); err != nil {
				return
			}
		}
		extras := body[:extraLen]
		key := body[extraLen : uint32(extraLen)+uint32(keyLen)]
		value := body[uint32(extraLen)+uint32(keyLen):]

		h, ok := s.handlers[opcode]
		if !ok {
			s.writeResponse(c, opcode, wire.StatusUnknownCmd, opaque, 0, nil, nil, []byte(wire.StatusUnknownCmd.String()))
			continue
		}
		if h(s, c, opcode, opaque, reqCAS, key, extras, value) {
			return
		}
	}
}

func (s *Server) writeResponse(c net.Conn, opcode wire.OpCode, status wire.Status, opaque uint32, cas uint64, extras, key, value []byte) {
	h := wire.Header{
		Opcode:          opcode,
		Status:          status,
		KeyLength:       uint16(len(key)),
		ExtrasLength:    uint8(len(extras)),
		TotalBodyLength: uint32(len(extras) + len(key) + len(value)),
		Opaque:          opaque,
		CAS:             wire.Version(cas),
	}
	buf := make([]byte, wire.HeaderLen+len(extras)+len(key)+len(value))
	h.EncodeRequest(buf)
	buf[0] = wire.MagicResponse
	pos := wire.HeaderLen
	pos += copy(buf[pos:], extras)
	pos += copy(buf[pos:], key)
	copy(buf[pos:], value)
	c.Write(buf)
}

func (s *Server) buildHandlers() map[wire.OpCode]handlerFunc {
	m := map[wire.OpCode]handlerFunc{}
	for _, op := range []wire.OpCode{wire.Get, wire.GetQ, wire.GetK, wire.GetKQ} {
		m[op] = handleGet
	}
	for _, op := range []wire.OpCode{wire.Set, wire.SetQ, wire.Add, wire.AddQ, wire.Replace, wire.ReplaceQ} {
		m[op] = handleStore
	}
	for _, op := range []wire.OpCode{wire.Delete, wire.DeleteQ} {
		m[op] = handleDelete
	}
	for _, op := range []wire.OpCode{wire.Increment, wire.IncrementQ, wire.Decrement, wire.DecrementQ} {
		m[op] = handleCounter
	}
	for _, op := range []wire.OpCode{wire.Append, wire.AppendQ, wire.Prepend, wire.PrependQ} {
		m[op] = handleConcat
	}
	for _, op := range []wire.OpCode{wire.Flush, wire.FlushQ} {
		m[op] = handleFlush
	}
	m[wire.NoOp] = handleNoOp
	m[wire.Version] = handleVersion
	m[wire.Quit] = handleQuit
	m[wire.QuitQ] = handleQuit
	m[wire.Stat] = handleStat
	return m
}

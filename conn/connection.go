// Package conn implements the connection state machine of spec.md §4.6:
// a duplex socket multiplexing many in-flight commands by opaque,
// draining quiet commands on a fence, and failing every in-flight future
// deterministically on terminal I/O or protocol errors.
package conn

import (
	"bytes"
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/internal/log"
	"github.com/markchadwick/memcake/internal/metrics"
	"github.com/markchadwick/memcake/wire"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"
)

// inflightEntry is the in-flight map's value: a responder bound to an
// opaque, its submission sequence (for quiet-buffer fencing), and an
// optional timeout timer.
type inflightEntry struct {
	seq         uint64
	opaque      uint32
	quiet       bool
	responder   command.Responder
	timer       *time.Timer
	submittedAt time.Time
}

// Connection owns one TCP socket to a memcached server and multiplexes
// many in-flight commands over it (spec.md §3, §4.6).
type Connection struct {
	id      xid.ID
	netConn net.Conn
	logger  log.Logger
	metrics metrics.Recorder

	opaqueSeq uint32
	submitSeq uint64

	mu          sync.Mutex
	inFlight    map[uint32]*inflightEntry
	quiet       []*inflightEntry
	terminalErr error
	sawTimeout  bool

	writeCh  chan []byte
	closedCh chan struct{}
	closeOne sync.Once

	group *errgroup.Group
}

// Option configures a Connection at Dial time.
type Option func(*Connection)

// WithLogger sets the structured logger used for lifecycle events.
func WithLogger(l log.Logger) Option {
	return func(c *Connection) { c.logger = l }
}

// WithMetrics sets the metrics.Recorder used to instrument commands.
func WithMetrics(m metrics.Recorder) Option {
	return func(c *Connection) { c.metrics = m }
}

// Dial opens a TCP connection to addr and starts its reader and writer
// loops. The returned Connection is usable immediately; Submit may be
// called from any goroutine.
func Dial(ctx context.Context, addr string, opts ...Option) (*Connection, error) {
	nc, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "dial memcached")
	}
	c := &Connection{
		id:       xid.New(),
		netConn:  nc,
		logger:   log.Nop(),
		metrics:  metrics.Nop(),
		inFlight: make(map[uint32]*inflightEntry),
		writeCh:  make(chan []byte, 64),
		closedCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.metrics.IncConnections()

	group, _ := errgroup.WithContext(context.Background())
	c.group = group
	// Either loop's exit terminates the connection, which closes closedCh
	// and the socket and so ends the other loop as well.
	group.Go(func() error {
		err := c.runReader()
		c.terminate(err)
		return err
	})
	group.Go(func() error {
		err := c.runWriter()
		if err != nil {
			c.terminate(err)
		}
		return err
	})
	go func() {
		err := c.group.Wait()
		c.terminate(err)
	}()

	c.logger.Debug("connection opened", log.String("id", c.id.String()), log.String("addr", addr))
	return c, nil
}

// ID returns the connection's process-unique correlation id, used only
// for logs — never sent on the wire.
func (c *Connection) ID() xid.ID {
	return c.id
}

// Submit assigns an opaque, records newResponder's Responder in the
// in-flight map (and the quiet buffer, if the command is quiet),
// schedules the command's timeout, and enqueues its wire bytes — in that
// order, matching the invariant that in-flight insertion strictly
// precedes byte emission (spec.md §3). It always returns a future; a
// terminal connection resolves it immediately with a ClosedError.
func Submit[T any](c *Connection, cmd *command.Command, newResponder func() (command.Responder, *future.Future[T])) *future.Future[T] {
	responder, fut := newResponder()

	opaque := atomic.AddUint32(&c.opaqueSeq, 1)
	seq := atomic.AddUint64(&c.submitSeq, 1)
	entry := &inflightEntry{
		seq:         seq,
		opaque:      opaque,
		quiet:       cmd.Kind.IsQuiet(),
		responder:   responder,
		submittedAt: time.Now(),
	}

	c.mu.Lock()
	if c.terminalErr != nil {
		err := c.terminalErr
		c.mu.Unlock()
		fut.Fail(&wire.ClosedError{Cause: err})
		return fut
	}
	c.inFlight[opaque] = entry
	if entry.quiet {
		c.quiet = append(c.quiet, entry)
	}
	inFlightCount := len(c.inFlight)
	c.mu.Unlock()
	c.metrics.SetInFlight(inFlightCount)

	if cmd.Timeout > 0 {
		entry.timer = time.AfterFunc(cmd.Timeout, func() {
			c.expire(opaque, cmd.Kind.OpCode())
		})
	}

	var buf bytes.Buffer
	if err := cmd.Serialize(&buf, opaque); err != nil {
		c.removeEntry(entry)
		fut.Fail(err)
		return fut
	}

	select {
	case c.writeCh <- buf.Bytes():
	case <-c.closedCh:
		// The terminal sweep already failed this entry (it was
		// inserted under the same lock the sweep drains under), so
		// there is nothing left to do here.
	}
	return fut
}

// removeEntry deletes entry from the in-flight map and, if present, the
// quiet buffer, and stops its timer.
func (c *Connection) removeEntry(entry *inflightEntry) {
	c.mu.Lock()
	delete(c.inFlight, entry.opaque)
	if entry.quiet {
		c.removeFromQuietLocked(entry)
	}
	inFlightCount := len(c.inFlight)
	c.mu.Unlock()
	c.metrics.SetInFlight(inFlightCount)
	if entry.timer != nil {
		entry.timer.Stop()
	}
}

func (c *Connection) removeFromQuietLocked(entry *inflightEntry) {
	for i, qe := range c.quiet {
		if qe == entry {
			c.quiet = append(c.quiet[:i], c.quiet[i+1:]...)
			return
		}
	}
}

// expire fails entry with a TimeoutError and removes it. A response that
// later arrives for this opaque is silently discarded by the reader
// (spec.md §5).
func (c *Connection) expire(opaque uint32, opcode wire.OpCode) {
	c.mu.Lock()
	entry, ok := c.inFlight[opaque]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.inFlight, opaque)
	if entry.quiet {
		c.removeFromQuietLocked(entry)
	}
	c.sawTimeout = true
	c.mu.Unlock()

	c.logger.Warn("command timed out", log.String("opcode", opcode.String()), log.Uint32("opaque", opaque))
	entry.responder.Fail(&wire.TimeoutError{Opcode: opcode})
}

// runWriter drains the write queue, one write outstanding at a time,
// retrying partial writes with the remaining slice (spec.md §4.6).
func (c *Connection) runWriter() error {
	for {
		select {
		case buf, ok := <-c.writeCh:
			if !ok {
				return nil
			}
			if err := c.writeAll(buf); err != nil {
				return err
			}
		case <-c.closedCh:
			return nil
		}
	}
}

func (c *Connection) writeAll(buf []byte) error {
	for len(buf) > 0 {
		n, err := c.netConn.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

// runReader drives the response-reader loop (spec.md §4.3) until a
// network or protocol error ends it.
func (c *Connection) runReader() error {
	for {
		header, body, err := wire.ReadResponse(c.netConn)
		if err != nil {
			return err
		}
		if err := c.dispatch(header, body); err != nil {
			return err
		}
	}
}

// dispatch looks up the responder for header.Opaque, drains any fenced
// quiet commands (§4.4), and hands the response to the responder.
func (c *Connection) dispatch(header wire.Header, body []byte) error {
	c.mu.Lock()
	entry, ok := c.inFlight[header.Opaque]
	if !ok {
		sawTimeout := c.sawTimeout
		c.mu.Unlock()
		if sawTimeout {
			// Late arrival for an already-timed-out command: benign.
			return nil
		}
		return &wire.ProtocolError{Reason: "response opaque matches no in-flight command"}
	}

	var toDrain []*inflightEntry
	if header.Opcode.Fence() {
		i := 0
		for i < len(c.quiet) && c.quiet[i].seq < entry.seq {
			i++
		}
		toDrain = append(toDrain, c.quiet[:i]...)
		c.quiet = c.quiet[i:]
		for _, qe := range toDrain {
			delete(c.inFlight, qe.opaque)
		}
	}
	c.mu.Unlock()

	for _, qe := range toDrain {
		if qe.timer != nil {
			qe.timer.Stop()
		}
		qe.responder.CompleteQuiet()
	}

	done, err := entry.responder.HandleResponse(header, body)
	c.metrics.ObserveCommand(header.Opcode.String(), header.Status.String(), time.Since(entry.submittedAt))
	if err != nil {
		c.removeEntry(entry)
		return err
	}
	if done {
		c.removeEntry(entry)
	}
	return nil
}

// terminate sets the terminal-error slot (first caller wins), fails
// every in-flight and quiet responder with it, and closes the socket
// (spec.md §4.6). Safe to call more than once; only the first call has
// an effect.
func (c *Connection) terminate(cause error) {
	if cause == nil {
		cause = errors.New("connection closed")
	}

	var terminalErr error
	switch e := cause.(type) {
	case *wire.ProtocolError:
		terminalErr = e
	case *wire.ClosedError:
		terminalErr = e
	default:
		terminalErr = &wire.NetworkError{Cause: errors.Wrap(cause, "connection io")}
	}

	c.mu.Lock()
	if c.terminalErr != nil {
		c.mu.Unlock()
		return
	}
	c.terminalErr = terminalErr
	entries := make([]*inflightEntry, 0, len(c.inFlight))
	for _, e := range c.inFlight {
		entries = append(entries, e)
	}
	c.inFlight = make(map[uint32]*inflightEntry)
	c.quiet = nil
	c.mu.Unlock()

	c.closeOne.Do(func() { close(c.closedCh) })

	for _, e := range entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		e.responder.Fail(terminalErr)
	}

	c.netConn.Close()
	c.metrics.DecConnections()
	c.logger.Error("connection terminal", log.String("id", c.id.String()), log.Error(terminalErr))
}

// Err returns the terminal error, or nil if the connection is still
// open.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.terminalErr
}

// Close sends quit, waits up to ctx's deadline for the response, and
// then tears the connection down unconditionally — matching §4.6's
// "open → close() → closing → drain → terminal" state machine and the
// pool's close() contract in §4.7.
func (c *Connection) Close(ctx context.Context) error {
	fut := Submit[command.Unit](c, command.NewSimple(command.KindQuit, 0), func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(wire.Quit)
	})
	_, _ = fut.Await(ctx)
	c.terminate(&wire.ClosedError{})
	return nil
}

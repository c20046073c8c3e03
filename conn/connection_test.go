package conn_test

import (
	"context"
	"testing"
	"time"

	"github.com/markchadwick/memcake/command"
	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/wire"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, addr string) *conn.Connection {
	t.Helper()
	c, err := conn.Dial(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(context.Background()) })
	return c
}

func doSet(t *testing.T, c *conn.Connection, key, value string) wire.Version {
	t.Helper()
	cmd := command.NewStore(command.KindSet, []byte(key), []byte(value), 0, 0, wire.NoCAS, 2*time.Second)
	fut := conn.Submit[wire.Version](c, cmd, func() (command.Responder, *future.Future[wire.Version]) {
		return command.NewVersionResponder(wire.Set)
	})
	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	return v
}

func doGet(t *testing.T, c *conn.Connection, key string) *command.Value {
	t.Helper()
	cmd := command.NewGet(command.KindGet, []byte(key), 2*time.Second)
	fut := conn.Submit[*command.Value](c, cmd, func() (command.Responder, *future.Future[*command.Value]) {
		return command.NewGetResponder(wire.Get, false)
	})
	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	return v
}

func TestSetGetRoundTrip(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())

	doSet(t, c, "hello", "wo")
	v := doGet(t, c, "hello")
	require.NotNil(t, v)
	require.Equal(t, []byte("wo"), v.Value)
}

func TestGetKEchoesKey(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())
	doSet(t, c, "named", "value")

	cmd := command.NewGet(command.KindGetK, []byte("named"), 2*time.Second)
	fut := conn.Submit[*command.Value](c, cmd, func() (command.Responder, *future.Future[*command.Value]) {
		return command.NewGetResponder(wire.GetK, true)
	})
	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte("named"), v.Key)
}

func TestSetDeleteGetMiss(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())
	doSet(t, c, "gone", "x")

	delCmd := command.NewDelete(command.KindDelete, []byte("gone"), wire.NoCAS, 2*time.Second)
	delFut := conn.Submit[command.Unit](c, delCmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(wire.Delete)
	})
	_, err := delFut.Await(context.Background())
	require.NoError(t, err)

	v := doGet(t, c, "gone")
	require.Nil(t, v)
}

func TestIncrementInitialThenDelta(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())

	incr := func(initial uint64) command.Counter {
		cmd := command.NewCounter(command.KindIncrement, []byte("counter"), 3, initial, 0, wire.NoCAS, 2*time.Second)
		fut := conn.Submit[command.Counter](c, cmd, func() (command.Responder, *future.Future[command.Counter]) {
			return command.NewCounterResponder(wire.Increment)
		})
		v, err := fut.Await(context.Background())
		require.NoError(t, err)
		return v
	}

	first := incr(10)
	require.Equal(t, uint64(10), first.Value)
	second := incr(10)
	require.Equal(t, uint64(13), second.Value)
}

func TestAppendWithCAS(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())
	version := doSet(t, c, "hello", "wo")

	cmd := command.NewConcat(command.KindAppend, []byte("hello"), []byte("rld"), version, 2*time.Second)
	fut := conn.Submit[wire.Version](c, cmd, func() (command.Responder, *future.Future[wire.Version]) {
		return command.NewVersionResponder(wire.Append)
	})
	_, err := fut.Await(context.Background())
	require.NoError(t, err)

	v := doGet(t, c, "hello")
	require.Equal(t, []byte("world"), v.Value)
}

func TestAddPrependChangesVersion(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())

	addCmd := command.NewStore(command.KindAdd, []byte("hello"), []byte("rld"), 0, 0, wire.NoCAS, 2*time.Second)
	addFut := conn.Submit[wire.Version](c, addCmd, func() (command.Responder, *future.Future[wire.Version]) {
		return command.NewVersionResponder(wire.Add)
	})
	v1, err := addFut.Await(context.Background())
	require.NoError(t, err)

	prependCmd := command.NewConcat(command.KindPrepend, []byte("hello"), []byte("wo"), wire.NoCAS, 2*time.Second)
	prependFut := conn.Submit[wire.Version](c, prependCmd, func() (command.Responder, *future.Future[wire.Version]) {
		return command.NewVersionResponder(wire.Prepend)
	})
	v2, err := prependFut.Await(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, v1, v2)

	got := doGet(t, c, "hello")
	require.Equal(t, []byte("world"), got.Value)
}

func TestAddQDeleteGetMiss(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())

	addqCmd := command.NewStore(command.KindAddQ, []byte("jello"), []byte("mold"), 0, 0, wire.NoCAS, 2*time.Second)
	addqFut := conn.Submit[command.Unit](c, addqCmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(wire.AddQ)
	})

	delCmd := command.NewDelete(command.KindDelete, []byte("jello"), wire.NoCAS, 2*time.Second)
	delFut := conn.Submit[command.Unit](c, delCmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(wire.Delete)
	})

	_, err := delFut.Await(context.Background())
	require.NoError(t, err)
	_, err = addqFut.Await(context.Background())
	require.NoError(t, err)

	v := doGet(t, c, "jello")
	require.Nil(t, v)
}

// TestAddQNoOpFence mirrors the spec's testNoOp: an addq completes only
// once a subsequent noop's response arrives and fences the quiet buffer.
func TestAddQNoOpFence(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())

	addqCmd := command.NewStore(command.KindAddQ, []byte("joke"), []byte("haha"), 0, 0, wire.NoCAS, 2*time.Second)
	addqFut := conn.Submit[command.Unit](c, addqCmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(wire.AddQ)
	})

	_, _, ok := addqFut.Get()
	require.False(t, ok, "addq must not complete before the fencing noop")

	noopCmd := command.NewSimple(command.KindNoOp, 2*time.Second)
	noopFut := conn.Submit[command.Unit](c, noopCmd, func() (command.Responder, *future.Future[command.Unit]) {
		return command.NewUnitResponder(wire.NoOp)
	})
	_, err := noopFut.Await(context.Background())
	require.NoError(t, err)

	_, err = addqFut.Await(context.Background())
	require.NoError(t, err)
}

func TestDecrementKeyNotFoundWithoutInitialFails(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())

	cmd := command.NewCounter(command.KindDecrement, []byte("absent"), 1, 0, 0xFFFFFFFF, wire.NoCAS, 2*time.Second)
	fut := conn.Submit[command.Counter](c, cmd, func() (command.Responder, *future.Future[command.Counter]) {
		return command.NewCounterResponder(wire.Decrement)
	})
	_, err := fut.Await(context.Background())
	require.Error(t, err)
	var statusErr *wire.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, wire.StatusKeyNotFound, statusErr.Status)
}

func TestStatReturnsMapping(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())
	doSet(t, c, "k1", "v1")

	cmd := command.NewStat(nil, 2*time.Second)
	fut := conn.Submit[map[string]string](c, cmd, func() (command.Responder, *future.Future[map[string]string]) {
		return command.NewStatResponder()
	})
	stats, err := fut.Await(context.Background())
	require.NoError(t, err)
	require.Contains(t, stats, "pid")
	require.Contains(t, stats, "total_items")
}

// TestTerminalFailureFailsAllInFlight exercises P4: closing the
// underlying socket mid-flight fails every in-flight future
// deterministically and rejects subsequent submissions.
func TestTerminalFailureFailsAllInFlight(t *testing.T) {
	s := newFakeServer(t)
	c := dial(t, s.addr())

	// A long-timeout get that will never get a chance to be answered.
	cmd := command.NewGet(command.KindGet, []byte("anything"), time.Minute)
	fut := conn.Submit[*command.Value](c, cmd, func() (command.Responder, *future.Future[*command.Value]) {
		return command.NewGetResponder(wire.Get, false)
	})

	// Force the server side closed so the client's read loop observes
	// an I/O error.
	s.Close()
	s.closeConns()

	_, err := fut.Await(context.Background())
	require.Error(t, err)

	// A submission after terminal failure is rejected immediately.
	second := command.NewGet(command.KindGet, []byte("anything-else"), time.Second)
	secondFut := conn.Submit[*command.Value](c, second, func() (command.Responder, *future.Future[*command.Value]) {
		return command.NewGetResponder(wire.Get, false)
	})
	_, err = secondFut.Await(context.Background())
	require.Error(t, err)
	var closedErr *wire.ClosedError
	require.ErrorAs(t, err, &closedErr)
}

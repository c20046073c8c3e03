package command

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/markchadwick/memcake/wire"
	"github.com/stretchr/testify/require"
)

func TestSerializeSet(t *testing.T) {
	cmd := NewStore(KindSet, []byte("hello"), []byte("world"), 0, 0, wire.NoCAS, time.Second)
	var buf bytes.Buffer
	require.NoError(t, cmd.Serialize(&buf, 42))

	got := buf.Bytes()
	require.Equal(t, wire.MagicRequest, got[0])
	require.Equal(t, byte(wire.Set), got[1])
	h, err := wire.DecodeResponse(append([]byte{wire.MagicResponse}, got[1:wire.HeaderLen]...))
	require.NoError(t, err)
	require.Equal(t, uint16(5), h.KeyLength)
	require.Equal(t, uint8(8), h.ExtrasLength)
	require.Equal(t, uint32(8+5+5), h.TotalBodyLength)
	require.Equal(t, uint32(42), h.Opaque)

	body := got[wire.HeaderLen:]
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, body[:8]) // flags/expires both 0
	require.Equal(t, []byte("hello"), body[8:13])
	require.Equal(t, []byte("world"), body[13:])
}

func TestGetResponderHit(t *testing.T) {
	r, fut := NewGetResponder(wire.Get, false)
	h := wire.Header{Opcode: wire.Get, Status: wire.StatusOK, CAS: wire.Version(9)}
	body := append([]byte{0, 0, 0, 0x11}, []byte("payload")...)
	done, err := r.HandleResponse(h, body)
	require.True(t, done)
	require.NoError(t, err)

	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	require.NotNil(t, v)
	require.Equal(t, uint32(0x11), v.Flags)
	require.Equal(t, []byte("payload"), v.Value)
	require.Equal(t, wire.Version(9), v.CAS)
}

func TestGetResponderMissIsNilNotError(t *testing.T) {
	r, fut := NewGetResponder(wire.Get, false)
	h := wire.Header{Opcode: wire.Get, Status: wire.StatusKeyNotFound}
	done, err := r.HandleResponse(h, []byte("Not found"))
	require.True(t, done)
	require.NoError(t, err)

	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestGetQCompleteQuietIsSilentMiss(t *testing.T) {
	r, fut := NewGetResponder(wire.GetQ, false)
	r.CompleteQuiet()
	v, err := fut.Await(context.Background())
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCounterResponder(t *testing.T) {
	r, fut := NewCounterResponder(wire.Increment)
	body := []byte{0, 0, 0, 0, 0, 0, 0, 7}
	done, err := r.HandleResponse(wire.Header{Status: wire.StatusOK, CAS: wire.Version(3)}, body)
	require.True(t, done)
	require.NoError(t, err)

	c, err := fut.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(7), c.Value)
	require.Equal(t, wire.Version(3), c.CAS)
}

func TestCounterResponderKeyNotFoundStatus(t *testing.T) {
	r, fut := NewCounterResponder(wire.Decrement)
	done, err := r.HandleResponse(wire.Header{Status: wire.StatusKeyNotFound}, []byte("Not found"))
	require.True(t, done)
	require.NoError(t, err)

	_, err = fut.Await(context.Background())
	require.Error(t, err)
	var statusErr *wire.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, wire.StatusKeyNotFound, statusErr.Status)
}

func TestStatResponderAccumulatesUntilTerminator(t *testing.T) {
	r, fut := NewStatResponder()
	done, err := r.HandleResponse(wire.Header{Status: wire.StatusOK, KeyLength: 3}, []byte("pid1234"))
	require.False(t, done)
	require.NoError(t, err)

	done, err = r.HandleResponse(wire.Header{Status: wire.StatusOK}, nil)
	require.True(t, done)
	require.NoError(t, err)

	stats, err := fut.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1234", stats["pid"])
}

func TestUnitResponderQuiet(t *testing.T) {
	r, fut := NewUnitResponder(wire.SetQ)
	r.CompleteQuiet()
	_, err := fut.Await(context.Background())
	require.NoError(t, err)
}

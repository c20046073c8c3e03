package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		Opcode:          Set,
		KeyLength:       3,
		ExtrasLength:    8,
		TotalBodyLength: 11,
		Opaque:          42,
		CAS:             Version(7),
	}
	buf := make([]byte, HeaderLen)
	h.EncodeRequest(buf)
	require.Equal(t, MagicRequest, buf[0])

	// Flip the magic byte to simulate the server's response framing and
	// decode as a response header; all other fields round-trip.
	buf[0] = MagicResponse
	got, err := DecodeResponse(buf)
	require.NoError(t, err)
	require.Equal(t, Set, got.Opcode)
	require.Equal(t, uint16(3), got.KeyLength)
	require.Equal(t, uint8(8), got.ExtrasLength)
	require.Equal(t, uint32(11), got.TotalBodyLength)
	require.Equal(t, uint32(42), got.Opaque)
	require.Equal(t, Version(7), got.CAS)
}

func TestDecodeResponseBadMagic(t *testing.T) {
	buf := make([]byte, HeaderLen)
	buf[0] = MagicRequest
	_, err := DecodeResponse(buf)
	require.Error(t, err)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestDecodeResponseShortBodyLength(t *testing.T) {
	h := Header{Opcode: Get, KeyLength: 10, ExtrasLength: 4, TotalBodyLength: 5}
	buf := make([]byte, HeaderLen)
	h.EncodeRequest(buf)
	buf[0] = MagicResponse
	_, err := DecodeResponse(buf)
	require.Error(t, err)
}

func TestVersionCompareUnsigned(t *testing.T) {
	big := Version(1<<63 + 100)
	small := Version(5)
	require.Equal(t, 1, big.Compare(small))
	require.Equal(t, -1, small.Compare(big))
	require.Equal(t, 0, small.Compare(Version(5)))
}

package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeTestResponse(opcode OpCode, status Status, opaque uint32, body []byte) []byte {
	h := Header{
		Opcode:          opcode,
		Status:          status,
		TotalBodyLength: uint32(len(body)),
		Opaque:          opaque,
	}
	buf := make([]byte, HeaderLen)
	h.EncodeRequest(buf)
	buf[0] = MagicResponse
	return append(buf, body...)
}

func TestReadResponseWithBody(t *testing.T) {
	wire := encodeTestResponse(Get, StatusOK, 7, []byte("hello"))
	r := bytes.NewReader(wire)
	h, body, err := ReadResponse(r)
	require.NoError(t, err)
	require.Equal(t, Get, h.Opcode)
	require.Equal(t, uint32(7), h.Opaque)
	require.Equal(t, []byte("hello"), body)
}

func TestReadResponseNoBody(t *testing.T) {
	wire := encodeTestResponse(NoOp, StatusOK, 1, nil)
	r := bytes.NewReader(wire)
	h, body, err := ReadResponse(r)
	require.NoError(t, err)
	require.Equal(t, NoOp, h.Opcode)
	require.Nil(t, body)
}

func TestReadResponseShortHeaderIsEOF(t *testing.T) {
	r := bytes.NewReader([]byte{0x81, 0x00})
	_, _, err := ReadResponse(r)
	require.Error(t, err)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

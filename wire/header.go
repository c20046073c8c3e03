package wire

import "encoding/binary"

// HeaderLen is the fixed size of a binary-protocol header in bytes.
const HeaderLen = 24

const (
	MagicRequest  byte = 0x80
	MagicResponse byte = 0x81
)

// Header is the decoded form of a 24-byte request or response header. The
// 2-byte field at offset 6 is "reserved" on a request and "status" on a
// response; Status carries that field either way.
type Header struct {
	Magic           byte
	Opcode          OpCode
	KeyLength       uint16
	ExtrasLength    uint8
	DataType        uint8
	Status          Status
	TotalBodyLength uint32
	Opaque          uint32
	CAS             Version
}

// EncodeRequest writes h as a 24-byte request header into buf[:24].
// buf must have length >= HeaderLen. The caller sets h.Status to 0; it is
// serialized into the reserved field.
func (h Header) EncodeRequest(buf []byte) {
	buf[0] = MagicRequest
	buf[1] = byte(h.Opcode)
	binary.BigEndian.PutUint16(buf[2:4], h.KeyLength)
	buf[4] = h.ExtrasLength
	buf[5] = h.DataType
	binary.BigEndian.PutUint16(buf[6:8], uint16(h.Status))
	binary.BigEndian.PutUint32(buf[8:12], h.TotalBodyLength)
	binary.BigEndian.PutUint32(buf[12:16], h.Opaque)
	binary.BigEndian.PutUint64(buf[16:24], uint64(h.CAS))
}

// DecodeResponse parses a 24-byte response header. buf must have length
// >= HeaderLen. Returns a ProtocolError if the magic byte is not
// MagicResponse, the opcode is not a known one, or the total body length
// is shorter than key+extras.
func DecodeResponse(buf []byte) (Header, error) {
	if buf[0] != MagicResponse {
		return Header{}, &ProtocolError{Reason: "bad response magic"}
	}
	h := Header{
		Magic:           buf[0],
		Opcode:          OpCode(buf[1]),
		KeyLength:       binary.BigEndian.Uint16(buf[2:4]),
		ExtrasLength:    buf[4],
		DataType:        buf[5],
		Status:          Status(binary.BigEndian.Uint16(buf[6:8])),
		TotalBodyLength: binary.BigEndian.Uint32(buf[8:12]),
		Opaque:          binary.BigEndian.Uint32(buf[12:16]),
		CAS:             Version(binary.BigEndian.Uint64(buf[16:24])),
	}
	if _, ok := opCodeNames[h.Opcode]; !ok {
		return Header{}, &ProtocolError{Reason: "unknown response opcode"}
	}
	if uint64(h.TotalBodyLength) < uint64(h.KeyLength)+uint64(h.ExtrasLength) {
		return Header{}, &ProtocolError{Reason: "total body length shorter than key+extras"}
	}
	return h, nil
}

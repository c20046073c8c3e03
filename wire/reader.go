package wire

import "io"

// ReadResponse performs the header phase and body phase of §4.3: it reads
// exactly HeaderLen bytes, decodes them, then reads exactly
// TotalBodyLength more bytes. Short reads are handled by io.ReadFull's
// internal retry loop, not recursion (Design Notes, Open Questions).
//
// A non-nil error is either the raw I/O error from the socket (the caller
// classifies it as a NetworkError) or a *ProtocolError from a framing
// violation.
func ReadResponse(r io.Reader) (Header, []byte, error) {
	var headerBuf [HeaderLen]byte
	if _, err := io.ReadFull(r, headerBuf[:]); err != nil {
		return Header{}, nil, err
	}
	header, err := DecodeResponse(headerBuf[:])
	if err != nil {
		return Header{}, nil, err
	}
	if header.TotalBodyLength == 0 {
		return header, nil, nil
	}
	body := make([]byte, header.TotalBodyLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return Header{}, nil, err
	}
	return header, body, nil
}

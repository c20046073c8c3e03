package command

import "github.com/markchadwick/memcake/wire"

// Responder is bound at submission to a command's future and opaque. It
// consumes a parsed response (or a fence/failure signal) and completes
// that future — spec.md §3, "Responder".
//
// Connection calls exactly one of these methods to completion for a
// given submission:
//   - HandleResponse, when a response header (and body) with the
//     matching opaque arrives;
//   - CompleteQuiet, when a non-quiet response fences a quiet command
//     that never received its own response (§4.4);
//   - Fail, for timeouts, protocol errors, and terminal network
//     failures.
type Responder interface {
	// Opcode identifies the command family for logging/metrics.
	Opcode() wire.OpCode

	// HandleResponse parses body against header and completes (or
	// fails) the bound future. done reports whether this opaque should
	// be removed from the connection's in-flight map — false only for
	// a non-terminal stat line awaiting its terminator (§4.5).
	HandleResponse(h wire.Header, body []byte) (done bool, err error)

	// CompleteQuiet completes the bound future with implicit success
	// (or, for getq/getkq, an empty result) when a fence drains it
	// without an error response ever arriving.
	CompleteQuiet()

	// Fail terminates the bound future with err. Used for timeouts,
	// protocol violations, and terminal network failures.
	Fail(err error)
}

// statusErrorFor builds the StatusError a non-success response carries,
// using the body as the textual description.
func statusErrorFor(h wire.Header, body []byte) *wire.StatusError {
	return &wire.StatusError{Status: h.Status, Message: string(body)}
}

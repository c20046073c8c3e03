// Package wire implements the memcached binary protocol's byte-level
// framing: opcodes, status codes, the 24-byte header, and the response
// reader that turns a socket into a stream of (Header, body) pairs.
package wire

import "fmt"

// OpCode identifies a binary-protocol command.
type OpCode uint8

const (
	Get        OpCode = 0x00
	Set        OpCode = 0x01
	Add        OpCode = 0x02
	Replace    OpCode = 0x03
	Delete     OpCode = 0x04
	Increment  OpCode = 0x05
	Decrement  OpCode = 0x06
	Quit       OpCode = 0x07
	Flush      OpCode = 0x08
	GetQ       OpCode = 0x09
	NoOp       OpCode = 0x0A
	Version    OpCode = 0x0B
	GetK       OpCode = 0x0C
	GetKQ      OpCode = 0x0D
	Append     OpCode = 0x0E
	Prepend    OpCode = 0x0F
	Stat       OpCode = 0x10
	SetQ       OpCode = 0x11
	AddQ       OpCode = 0x12
	ReplaceQ   OpCode = 0x13
	DeleteQ    OpCode = 0x14
	IncrementQ OpCode = 0x15
	DecrementQ OpCode = 0x16
	QuitQ      OpCode = 0x17
	FlushQ     OpCode = 0x18
	AppendQ    OpCode = 0x19
	PrependQ   OpCode = 0x1A
)

var opCodeNames = map[OpCode]string{
	Get: "get", Set: "set", Add: "add", Replace: "replace", Delete: "delete",
	Increment: "increment", Decrement: "decrement", Quit: "quit", Flush: "flush",
	GetQ: "getq", NoOp: "noop", Version: "version", GetK: "getk", GetKQ: "getkq",
	Append: "append", Prepend: "prepend", Stat: "stat", SetQ: "setq", AddQ: "addq",
	ReplaceQ: "replaceq", DeleteQ: "deleteq", IncrementQ: "incrementq",
	DecrementQ: "decrementq", QuitQ: "quitq", FlushQ: "flushq", AppendQ: "appendq",
	PrependQ: "prependq",
}

// String renders a human-readable opcode name for logging; unknown
// opcodes render as their hex value.
func (o OpCode) String() string {
	if name, ok := opCodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", uint8(o))
}

// IsQuiet reports whether the opcode suppresses its successful response.
func (o OpCode) IsQuiet() bool {
	switch o {
	case GetQ, GetKQ, SetQ, AddQ, ReplaceQ, DeleteQ, IncrementQ, DecrementQ,
		QuitQ, FlushQ, AppendQ, PrependQ:
		return true
	}
	return false
}

// Fence reports whether the opcode is non-quiet and therefore, on
// response, drains earlier quiet commands from the quiet buffer (§4.4).
func (o OpCode) Fence() bool {
	return !o.IsQuiet()
}

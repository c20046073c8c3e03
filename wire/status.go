package wire

import "fmt"

// Status is the 16-bit status field of a response header. Zero means
// success; any other value is surfaced to the caller as a StatusError.
type Status uint16

const (
	StatusOK           Status = 0x0000
	StatusKeyNotFound  Status = 0x0001
	StatusKeyExists    Status = 0x0002
	StatusValueTooBig  Status = 0x0003
	StatusInvalidArgs  Status = 0x0004
	StatusNotStored    Status = 0x0005
	StatusNonNumeric   Status = 0x0006
	StatusUnknownCmd   Status = 0x0081
	StatusOutOfMemory  Status = 0x0082
)

var statusNames = map[Status]string{
	StatusOK:          "no error",
	StatusKeyNotFound: "key not found",
	StatusKeyExists:   "key exists",
	StatusValueTooBig: "value too large",
	StatusInvalidArgs: "invalid arguments",
	StatusNotStored:   "item not stored",
	StatusNonNumeric:  "incr/decr on non-numeric value",
	StatusUnknownCmd:  "unknown command",
	StatusOutOfMemory: "out of memory",
}

// String renders a human-readable status for logging and error messages.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status 0x%04x", uint16(s))
}

// OK reports whether the status indicates success.
func (s Status) OK() bool {
	return s == StatusOK
}

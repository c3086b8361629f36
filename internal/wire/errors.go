package wire

import "fmt"

// ParseError reports a failure to decode a frame. Offset is the byte
// position in the input buffer where scanning stopped; the transport
// layer logs it alongside the connection's peer address but otherwise
// treats the error as local to the current request.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: %s", e.Offset, e.Msg)
}

func errAt(offset int, format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Offset: offset}
}

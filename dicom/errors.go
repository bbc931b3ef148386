package dicom

import (
	"fmt"
)

// ParseError reports a malformed or truncated element stream. Offset is the
// byte position the decoder had reached when the problem was detected.
type ParseError struct {
	Offset int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErrorf(offset int, err error, format string, args ...any) *ParseError {
	return &ParseError{
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

package parser

import "fmt"

// ParseError reports content that violates a format's minimum schema,
// either for the whole file or for a single record. It is distinct from
// track.ErrEmptyTrack, which covers syntactically valid input that
// yields no usable points.
type ParseError struct {
	Format string
	Line   int // 1-based record line, 0 when not record-scoped
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Format, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Format, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(format string, line int, err error, msg string, args ...any) *ParseError {
	return &ParseError{
		Format: format,
		Line:   line,
		Msg:    fmt.Sprintf(msg, args...),
		Err:    err,
	}
}

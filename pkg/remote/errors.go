package remote

import (
	"errors"
	"fmt"
)

// Op names the remote operation a failure belongs to.
type Op string

const (
	OpUpload      Op = "upload"
	OpParse       Op = "parse"
	OpSuggest     Op = "suggest"
	OpChatStart   Op = "chat_start"
	OpChatMessage Op = "chat_message"
	OpChatReset   Op = "chat_reset"
	OpChatSummary Op = "chat_summary"
	OpStatus      Op = "status"
)

// Error is a typed failure of one remote operation.
type Error struct {
	Op  Op
	Err error
}

// Sentinels for errors.Is; they match any *Error with the same Op.
var (
	ErrUpload      = &Error{Op: OpUpload}
	ErrParse       = &Error{Op: OpParse}
	ErrSuggest     = &Error{Op: OpSuggest}
	ErrChatStart   = &Error{Op: OpChatStart}
	ErrChatMessage = &Error{Op: OpChatMessage}
	ErrChatReset   = &Error{Op: OpChatReset}
)

// Wrap tags err with op. A nil err stays nil; an *Error already tagged with
// op is returned as is.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) && re.Op == op {
		return err
	}
	return &Error{Op: op, Err: err}
}

// Errorf builds an *Error for op from a format string.
func Errorf(op Op, format string, args ...any) error {
	return &Error{Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Op) + " failed"
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Op == e.Op
}

// Cause returns the innermost message of err without the op prefix.
func Cause(err error) string {
	var re *Error
	if errors.As(err, &re) && re.Err != nil {
		return re.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

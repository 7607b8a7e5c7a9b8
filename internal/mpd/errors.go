package mpd

import "fmt"

// ErrCode is the closed MPD ACK error code taxonomy.
type ErrCode int

const (
	CodeInvalidArgument ErrCode = 2
	CodeUnknown         ErrCode = 5
	CodeNoExist         ErrCode = 50
)

// CmdError is a typed command failure carrying the ACK code and message
// text. It is the only error shape that crosses the parser/handler
// boundary into the response formatter.
type CmdError struct {
	Code    ErrCode
	Message string
}

func (e *CmdError) Error() string { return e.Message }

func errInvalidArgument(format string, a ...interface{}) *CmdError {
	return &CmdError{Code: CodeInvalidArgument, Message: fmt.Sprintf(format, a...)}
}

func errUnknown(format string, a ...interface{}) *CmdError {
	return &CmdError{Code: CodeUnknown, Message: fmt.Sprintf(format, a...)}
}

func errNoExist(format string, a ...interface{}) *CmdError {
	return &CmdError{Code: CodeNoExist, Message: fmt.Sprintf(format, a...)}
}

// ErrNoExist builds a NoExist CmdError for use by Handler implementations.
func ErrNoExist(format string, a ...interface{}) *CmdError { return errNoExist(format, a...) }

// ErrUnknown builds an Unknown CmdError for use by Handler implementations.
func ErrUnknown(format string, a ...interface{}) *CmdError { return errUnknown(format, a...) }

// ErrInvalidArgument builds an InvalidArgument CmdError for use by Handler
// implementations.
func ErrInvalidArgument(format string, a ...interface{}) *CmdError {
	return errInvalidArgument(format, a...)
}

func wrongArgCount(name string) *CmdError {
	return errInvalidArgument("wrong number of arguments for %q", name)
}

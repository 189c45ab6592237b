package battle

import "errors"

var (
	ErrBattleClosed           = errors.New("battle already closed")
	ErrOperationTimeout       = errors.New("operation timed out")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInsufficientResource   = errors.New("insufficient coaching points")
	ErrMissingRequiredData    = errors.New("missing required data")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }

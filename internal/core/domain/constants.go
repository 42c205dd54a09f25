package domain

import "errors"

var (
	ErrEmptyArgument      = errors.New("missing argument")
	ErrNotFound           = errors.New("nothing found")
	ErrBusy               = errors.New("busy, try again later")
	ErrHandlerPanic       = errors.New("command crashed")
	ErrReconnectExhausted = errors.New("giving up on reconnecting")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

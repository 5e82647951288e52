package monitor

import "errors"

var (
	ErrDuplicateName = errors.New("bucket name already registered")
	ErrClosed        = errors.New("monitor is closed")
)

package widget

import "errors"

var ErrUnknownFlag = errors.New("unknown widget flag")

package reactive

import "errors"

var (
	ErrReadonly       = errors.New("reactive: target is readonly")
	ErrRecursionLimit = errors.New("reactive: maximum recursive updates exceeded")
	ErrTaskPanic      = errors.New("reactive: scheduled task panicked")
)

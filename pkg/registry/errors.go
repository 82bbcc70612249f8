package registry

import "errors"

var (
	ErrUnknownCombination = errors.New("Unknown argument combination!")
	ErrNoPipedInput       = errors.New("No piped input found")
)

package ordervalidator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrLengthMismatch is returned by batch queries whose input slices differ in length
	ErrLengthMismatch = errors.New("length mismatch")
)

// InvalidParamError represents an invalid parameter error with context
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidParam) match
func (e *InvalidParamError) Is(target error) bool {
	return target == ErrInvalidParam
}

// BatchItemError reports which item of a batch query failed
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error {
	return e.Err
}

func lengthMismatch(what string, a, b int) error {
	return fmt.Errorf("%w: %d orders but %d %s", ErrLengthMismatch, a, b, what)
}

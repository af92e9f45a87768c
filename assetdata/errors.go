package assetdata

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedPayload is returned when a blob is shorter than the minimum
	// length for its declared proxy id
	ErrTruncatedPayload = errors.New("truncated asset data")

	// ErrMalformedPayload is returned when a dynamic payload does not decode
	ErrMalformedPayload = errors.New("malformed asset data")
)

// DecodeError describes why an asset data blob could not be decoded
type DecodeError struct {
	ProxyID ProxyID
	Length  int
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Length < proxyIDLength {
		return fmt.Sprintf("%v: %d bytes", e.Err, e.Length)
	}
	return fmt.Sprintf("%v: proxy id %s, %d bytes", e.Err, e.ProxyID, e.Length)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

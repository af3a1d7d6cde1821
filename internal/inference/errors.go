package inference

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no API key is configured for the requested model.
	ErrMissingCredential = errors.New("missing inference credential")
	// ErrMalformedResponse means the service answered without usable text.
	ErrMalformedResponse = errors.New("malformed inference response")
)

// UpstreamError reports a failed call to the inference service.
type UpstreamError struct {
	Model string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("inference call to %s failed: %v", e.Model, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

package analyses

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("analysis failed")
)

// RunError aborts a run. Nothing is persisted when it is returned.
type RunError struct {
	ApplicationID int64
	Err           error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("analysis of application %d failed: %v", e.ApplicationID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInternal) match any RunError.
func (e *RunError) Is(target error) bool {
	return target == ErrInternal
}

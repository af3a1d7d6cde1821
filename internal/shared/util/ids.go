package util

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned for ids that are not positive integers.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 identifier from a path or CLI argument.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

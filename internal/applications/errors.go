package applications

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("resume belongs to another user")
	ErrPostingClosed = errors.New("posting is closed")
	ErrNotOwner      = errors.New("application belongs to another user")
)

package domain

import "errors"

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidTitle  = errors.New("invalid title")
	ErrInvalidTag    = errors.New("invalid tag")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidPath   = errors.New("invalid path")
)

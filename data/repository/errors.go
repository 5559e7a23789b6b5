package repository

import "errors"

// Errors returned by repositories whatever the storage behind them.
var (
	ErrAlreadyExists = errors.New("repository: already exists")
	ErrNotFound      = errors.New("repository: not found")
)

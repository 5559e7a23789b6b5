package externalApi

import "errors"

var (
	ErrNotFound         = errors.New("error not found")
	ErrUnknownAlgorithm = errors.New("error unknown algorithm")
	ErrRateUnavailable  = errors.New("error rate unavailable")
)

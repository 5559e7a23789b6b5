package service

import "errors"

var (
	ErrNotFound         = errors.New("error not found")
	ErrUnknownAlgorithm = errors.New("error unknown algorithm")
	ErrUnknownCurrency  = errors.New("error unknown currency")
	ErrRateUnavailable  = errors.New("error rate unavailable")
)

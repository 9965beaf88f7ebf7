package services

import "errors"

// Run-level failures. Per-pair problems never surface as Go errors; they are
// recorded on the pair's result instead.
var (
	ErrInvalidConfig        = errors.New("invalid pair discovery configuration")
	ErrEmptyPriceTable      = errors.New("price table is empty")
	ErrNoSymbols            = errors.New("no observations for the requested symbols")
	ErrDuplicateObservation = errors.New("duplicate (symbol, timestamp) observation")
)

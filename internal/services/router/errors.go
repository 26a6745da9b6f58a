package router

import "errors"

var (
	// ErrNoRoute means the pair is not in the catalog.
	ErrNoRoute = errors.New("router: no routes available for pair")

	// ErrInvalidAmount means the input amount is nil or not positive.
	ErrInvalidAmount = errors.New("router: input amount must be positive")

	// ErrAllQuotesFailed means every call in the combined batch failed
	// after retries.
	ErrAllQuotesFailed = errors.New("router: all quotes failed")

	// ErrLiquidityExceeded is the recognized failure signature for an
	// input amount larger than the pool can absorb.
	ErrLiquidityExceeded = errors.New("router: input amount exceeds available liquidity")
)

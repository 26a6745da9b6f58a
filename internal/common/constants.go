// Package common contains constants and runtime helpers shared across
// services.
package common

const (
	// BpsDenominator is the basis-point scale used for splits, slippage
	// and improvement thresholds.
	BpsDenominator = 10_000

	// DefaultSlippageBps is applied when a caller does not specify a
	// tolerance.
	DefaultSlippageBps = 50

	// MaxSlippageBps caps the accepted tolerance at 50%.
	MaxSlippageBps = 5_000
)

package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// WireRoute is the route tuple shape executeMultiRouteSwap consumes. Unused
// pool-2 fields and the unused second hook of a single-hop route carry the
// zero-address sentinel. The contract derives single-hop-ness from the pool-2
// fields being zero, so IsSingleHop is computed from them rather than trusted
// from upstream.
type WireRoute struct {
	IsSingleHop  bool           `abi:"isSingleHop"`
	Pool1TokenA  common.Address `abi:"pool1TokenA"`
	Pool1TokenB  common.Address `abi:"pool1TokenB"`
	Pool2TokenA  common.Address `abi:"pool2TokenA"`
	Pool2TokenB  common.Address `abi:"pool2TokenB"`
	HookAddress  common.Address `abi:"hookAddress"`
	Hook2Address common.Address `abi:"hook2Address"`
}

// ExecutionPlan is derived from an Estimate immediately before submission.
// Plans are ephemeral and never cached.
type ExecutionPlan struct {
	Routes      []WireRoute
	Amounts     []*big.Int
	TokenIn     common.Address
	TokenOut    common.Address
	MinTotalOut *big.Int
	Recipient   common.Address

	// Value is the attached call value: the full input for native-coin
	// swaps, nil otherwise.
	Value *big.Int
}

// SwapReceipt is the confirmed outcome of an executed plan.
type SwapReceipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

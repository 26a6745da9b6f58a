package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
)

// ContractCaller abstracts the view-only read endpoint (eth_call). It is the
// only surface the batch executor needs; *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

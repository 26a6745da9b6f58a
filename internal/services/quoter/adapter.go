// Package quoter translates routes into encoded read payloads for the swap
// contract and parses the quoted output amounts back out. It is the only
// place that knows the single-hop vs multi-hop call shapes.
package quoter

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/kaonlabs/splitswap/internal/chain"
	"github.com/kaonlabs/splitswap/internal/domain"
)

// ErrMalformed marks a response whose shape does not match the expected
// single uint256 output word.
var ErrMalformed = errors.New("quoter: malformed quote response")

const readerABI = `[
	{"name":"getOutput","type":"function","stateMutability":"view","inputs":[
		{"name":"tokenA","type":"address"},
		{"name":"tokenB","type":"address"},
		{"name":"tokenIn","type":"address"},
		{"name":"hook","type":"address"},
		{"name":"amountIn","type":"uint256"}],
	 "outputs":[{"name":"amountOut","type":"uint256"}]},
	{"name":"getOutputMultiHop","type":"function","stateMutability":"view","inputs":[
		{"name":"pool1TokenA","type":"address"},
		{"name":"pool1TokenB","type":"address"},
		{"name":"pool2TokenA","type":"address"},
		{"name":"pool2TokenB","type":"address"},
		{"name":"tokenIn","type":"address"},
		{"name":"tokenOut","type":"address"},
		{"name":"hook","type":"address"},
		{"name":"hook2","type":"address"},
		{"name":"amountIn","type":"uint256"}],
	 "outputs":[{"name":"amountOut","type":"uint256"}]}
]`

var quoteABI = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(readerABI))
	if err != nil {
		panic(err)
	}
	return a
}()

// Adapter builds quote payloads against one swap contract and one token
// universe. All operations are pure; no calls are issued here.
type Adapter struct {
	universe *domain.Universe
	contract common.Address
}

func NewAdapter(universe *domain.Universe, contract common.Address) *Adapter {
	return &Adapter{universe: universe, contract: contract}
}

// Contract returns the read target every encoded call must be sent to.
func (a *Adapter) Contract() common.Address {
	return a.contract
}

// Encode builds the calldata quoting route at amount, choosing the
// single-hop or multi-hop contract entry point from the route kind.
func (a *Adapter) Encode(route domain.Route, amount *big.Int) ([]byte, error) {
	u := a.universe
	switch route.Kind {
	case domain.RouteSingle:
		return quoteABI.Pack("getOutput",
			u.Address(route.Pool1.TokenA),
			u.Address(route.Pool1.TokenB),
			u.Address(route.From),
			u.Hook(),
			amount,
		)
	case domain.RouteMulti:
		return quoteABI.Pack("getOutputMultiHop",
			u.Address(route.Pool1.TokenA),
			u.Address(route.Pool1.TokenB),
			u.Address(route.Pool2.TokenA),
			u.Address(route.Pool2.TokenB),
			u.Address(route.From),
			u.Address(route.To),
			u.Hook(),
			u.Hook(),
			amount,
		)
	default:
		return nil, errors.New("quoter: unknown route kind")
	}
}

// Call wraps Encode into a batch-executor call with allowFailure set, so a
// reverting quote never poisons its sub-batch.
func (a *Adapter) Call(route domain.Route, amount *big.Int) (chain.Call, error) {
	data, err := a.Encode(route, amount)
	if err != nil {
		return chain.Call{}, err
	}
	return chain.Call{Target: a.contract, CallData: data, AllowFailure: true}, nil
}

// Decode parses the quoted output amount from a successful response. Both
// call shapes return a single uint256 word; anything else is ErrMalformed.
func (a *Adapter) Decode(route domain.Route, ret []byte) (*big.Int, error) {
	if len(ret) != 32 {
		return nil, ErrMalformed
	}
	out := new(uint256.Int).SetBytes(ret)
	return out.ToBig(), nil
}

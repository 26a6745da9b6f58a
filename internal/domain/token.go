package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Token is the closed token universe the optimizer operates on: the native
// chain coin plus the two protocol tokens. Anything else is unsupported.
type Token uint8

const (
	TokenNative Token = iota // NOVA, the chain's gas coin
	TokenNX
	TokenNUSD
	tokenCount
)

func (t Token) String() string {
	switch t {
	case TokenNative:
		return "NOVA"
	case TokenNX:
		return "NX"
	case TokenNUSD:
		return "NUSD"
	default:
		return "UNKNOWN"
	}
}

// Decimals returns the fixed decimal exponent of the token. The native coin
// carries 8 decimals, both protocol tokens carry 18.
func (t Token) Decimals() int32 {
	if t == TokenNative {
		return 8
	}
	return 18
}

// Valid reports whether t is a member of the universe.
func (t Token) Valid() bool {
	return t < tokenCount
}

// ParseToken resolves a symbol to a Token.
func ParseToken(symbol string) (Token, error) {
	switch symbol {
	case "NOVA", "nova":
		return TokenNative, nil
	case "NX", "nx":
		return TokenNX, nil
	case "NUSD", "nusd":
		return TokenNUSD, nil
	default:
		return tokenCount, fmt.Errorf("unknown token %q", symbol)
	}
}

// AllTokens returns the universe in enumeration order.
func AllTokens() []Token {
	return []Token{TokenNative, TokenNX, TokenNUSD}
}

// Universe binds the token enumeration to on-chain addresses. The native coin
// has no contract; its wire representation is the zero-address sentinel.
type Universe struct {
	addresses [tokenCount]common.Address
	hook      common.Address
}

func NewUniverse(nx, nusd, hook common.Address) *Universe {
	u := &Universe{hook: hook}
	u.addresses[TokenNX] = nx
	u.addresses[TokenNUSD] = nusd
	return u
}

// Address returns the wire address of t. For the native coin this is the
// zero address.
func (u *Universe) Address(t Token) common.Address {
	if !t.Valid() {
		return common.Address{}
	}
	return u.addresses[t]
}

// Hook returns the pool hook address shared by every pool in the universe.
func (u *Universe) Hook() common.Address {
	return u.hook
}

// FormatAmount renders a smallest-unit amount as a decimal string in the
// token's display units.
func FormatAmount(t Token, amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -t.Decimals()).String()
}

// ParseAmount converts a display-unit decimal string into a smallest-unit
// integer amount, truncating sub-unit precision.
func ParseAmount(t Token, s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	return d.Shift(t.Decimals()).Truncate(0).BigInt(), nil
}

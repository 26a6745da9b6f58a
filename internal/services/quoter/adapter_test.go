package quoter

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/services/catalog"
)

var (
	nxAddr   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	nusdAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
	hookAddr = common.HexToAddress("0x3333333333333333333333333333333333333333")
	swapAddr = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func newTestAdapter() *Adapter {
	return NewAdapter(domain.NewUniverse(nxAddr, nusdAddr, hookAddr), swapAddr)
}

func TestEncodeSingleHop(t *testing.T) {
	a := newTestAdapter()
	routes := catalog.RoutesFor(domain.TokenNX, domain.TokenNUSD)

	data, err := a.Encode(routes[0], big.NewInt(1_000_000))
	if err != nil {
		t.Fatal(err)
	}
	if want := quoteABI.Methods["getOutput"].ID; !bytes.Equal(data[:4], want) {
		t.Errorf("selector = %x, want %x", data[:4], want)
	}
	if len(data) != 4+5*32 {
		t.Errorf("calldata length = %d, want %d", len(data), 4+5*32)
	}
	// amountIn is the trailing word in both call shapes.
	if got := new(big.Int).SetBytes(data[len(data)-32:]); got.Int64() != 1_000_000 {
		t.Errorf("trailing amount word = %s, want 1000000", got)
	}
}

func TestEncodeMultiHop(t *testing.T) {
	a := newTestAdapter()
	routes := catalog.RoutesFor(domain.TokenNX, domain.TokenNUSD)

	data, err := a.Encode(routes[1], big.NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	if want := quoteABI.Methods["getOutputMultiHop"].ID; !bytes.Equal(data[:4], want) {
		t.Errorf("selector = %x, want %x", data[:4], want)
	}
	if len(data) != 4+9*32 {
		t.Errorf("calldata length = %d, want %d", len(data), 4+9*32)
	}
}

// The native coin has no contract; its pools carry the zero-address
// sentinel on the wire.
func TestEncodeNativeSentinel(t *testing.T) {
	a := newTestAdapter()
	routes := catalog.RoutesFor(domain.TokenNative, domain.TokenNX)

	data, err := a.Encode(routes[0], big.NewInt(1))
	if err != nil {
		t.Fatal(err)
	}
	var zeroWord [32]byte
	// tokenA is the first argument; NOVA sorts first in the pool, so the
	// first word must be the sentinel.
	if !bytes.Equal(data[4:36], zeroWord[:]) {
		t.Errorf("native token word = %x, want all zeroes", data[4:36])
	}
}

// A zero-amount quote must still encode cleanly; split candidates never
// produce one, but the baseline path does not guard against it.
func TestEncodeZeroAmount(t *testing.T) {
	a := newTestAdapter()
	routes := catalog.RoutesFor(domain.TokenNX, domain.TokenNUSD)
	if _, err := a.Encode(routes[0], big.NewInt(0)); err != nil {
		t.Errorf("zero amount must encode, got %v", err)
	}
}

func TestEncodeUnknownKind(t *testing.T) {
	a := newTestAdapter()
	if _, err := a.Encode(domain.Route{Kind: domain.RouteKind(7)}, big.NewInt(1)); err == nil {
		t.Error("unknown route kind must not encode")
	}
}

func TestCallWrapsForBatch(t *testing.T) {
	a := newTestAdapter()
	routes := catalog.RoutesFor(domain.TokenNX, domain.TokenNUSD)

	call, err := a.Call(routes[0], big.NewInt(10))
	if err != nil {
		t.Fatal(err)
	}
	if call.Target != swapAddr {
		t.Errorf("target = %s, want the swap contract", call.Target.Hex())
	}
	if !call.AllowFailure {
		t.Error("quote calls must tolerate individual failure")
	}
	if len(call.CallData) == 0 {
		t.Error("calldata missing")
	}
}

func TestDecode(t *testing.T) {
	a := newTestAdapter()
	route := catalog.RoutesFor(domain.TokenNX, domain.TokenNUSD)[0]

	var word [32]byte
	big.NewInt(987_654_321).FillBytes(word[:])
	out, err := a.Decode(route, word[:])
	if err != nil {
		t.Fatal(err)
	}
	if out.Int64() != 987_654_321 {
		t.Errorf("decoded %s, want 987654321", out)
	}
}

func TestDecodeMalformed(t *testing.T) {
	a := newTestAdapter()
	route := catalog.RoutesFor(domain.TokenNX, domain.TokenNUSD)[0]

	for _, ret := range [][]byte{nil, {}, {0x01}, make([]byte, 31), make([]byte, 33), make([]byte, 64)} {
		if _, err := a.Decode(route, ret); !errors.Is(err, ErrMalformed) {
			t.Errorf("length %d: got %v, want ErrMalformed", len(ret), err)
		}
	}
}

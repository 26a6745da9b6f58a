package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"
)

type countingPricer struct {
	calls int
	price *big.Int
	err   error
}

func (p *countingPricer) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.price, nil
}

func TestGasPriceCacheMemoizes(t *testing.T) {
	pricer := &countingPricer{price: big.NewInt(1_000_000_000)}
	c := NewGasPriceCache(pricer, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := c.Get(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got.Cmp(pricer.price) != 0 {
			t.Errorf("got %s, want %s", got, pricer.price)
		}
	}
	if pricer.calls != 1 {
		t.Errorf("endpoint hit %d times within the TTL, want 1", pricer.calls)
	}
}

func TestGasPriceCacheServesStaleOnFailure(t *testing.T) {
	pricer := &countingPricer{price: big.NewInt(42)}
	c := NewGasPriceCache(pricer, 0) // always stale, always refreshes

	if _, err := c.Get(context.Background()); err != nil {
		t.Fatal(err)
	}

	pricer.err = errors.New("endpoint down")
	got, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("stale price must be served on refresh failure, got %v", err)
	}
	if got.Int64() != 42 {
		t.Errorf("got %s, want the stale 42", got)
	}
}

func TestGasPriceCacheColdFailure(t *testing.T) {
	pricer := &countingPricer{err: errors.New("endpoint down")}
	c := NewGasPriceCache(pricer, time.Minute)

	if _, err := c.Get(context.Background()); err == nil {
		t.Fatal("a cold cache has nothing to fall back to")
	}
}

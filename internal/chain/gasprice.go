package chain

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// GasPricer is the one read the cache needs; *ethclient.Client satisfies it.
type GasPricer interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

type cachedGasPrice struct {
	price     *big.Int
	updatedAt time.Time
}

// GasPriceCache memoizes the node's suggested gas price so back-to-back
// submissions (approval followed by swap) don't hit the endpoint twice.
// A stale value is better than no value: when a refresh fails the last
// known price is served.
type GasPriceCache struct {
	mu      sync.RWMutex
	client  GasPricer
	current *cachedGasPrice
	ttl     time.Duration
}

func NewGasPriceCache(client GasPricer, ttl time.Duration) *GasPriceCache {
	return &GasPriceCache{client: client, ttl: ttl}
}

func (c *GasPriceCache) Get(ctx context.Context) (*big.Int, error) {
	c.mu.RLock()
	cached := c.current
	c.mu.RUnlock()

	if cached != nil && time.Since(cached.updatedAt) < c.ttl {
		return cached.price, nil
	}

	price, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		if cached != nil {
			log.Warn().Err(err).Msg("[gasPriceCache] refresh failed, serving stale price")
			return cached.price, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.current = &cachedGasPrice{price: price, updatedAt: time.Now()}
	c.mu.Unlock()

	return price, nil
}

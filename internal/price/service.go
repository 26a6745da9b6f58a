// Package price publishes USD prices for the two reference tokens (the
// native coin and the stable), refreshed from an external feed. The
// optimizer core never depends on prices; they exist for presentation.
package price

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/kaonlabs/splitswap/internal/config"
	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/metrics"
	"github.com/kaonlabs/splitswap/internal/services"
)

const PRICE_SERVICE = "price-service"

// ErrUnavailable means no price has been fetched yet.
var ErrUnavailable = errors.New("price: no price available")

type feedPayload struct {
	Nova string `json:"nova"`
	Nusd string `json:"nusd"`
}

type Service struct {
	container.BaseDIInstance
	logger *services.ServiceLogger

	conf   *config.PriceConfig
	client *http.Client

	mu        sync.RWMutex
	prices    map[domain.Token]decimal.Decimal
	updatedAt time.Time

	stop chan struct{}
	done chan struct{}
}

func (svc *Service) ID() string {
	return PRICE_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = services.NewServiceLogger(svc)
	svc.conf = c.GetConfig(config.PRICE_CONFIG_KEY).(*config.PriceConfig)
	svc.client = &http.Client{Timeout: 5 * time.Second}
	svc.prices = make(map[domain.Token]decimal.Decimal)
	svc.stop = make(chan struct{})
	svc.done = make(chan struct{})
	return nil
}

func (svc *Service) Start() error {
	if svc.conf.FeedURL == "" {
		svc.logger.Warn().Msg("no price feed configured, prices disabled")
		close(svc.done)
		return nil
	}
	if err := svc.refresh(context.Background()); err != nil {
		svc.logger.Warn().Err(err).Msg("initial price fetch failed, will retry")
	}
	go svc.loop()
	return nil
}

func (svc *Service) Stop() error {
	close(svc.stop)
	<-svc.done
	return nil
}

func (svc *Service) loop() {
	defer close(svc.done)
	interval := time.Duration(svc.conf.RefreshIntervalMs) * time.Millisecond
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-svc.stop:
			return
		case <-t.C:
			if err := svc.refresh(context.Background()); err != nil {
				metrics.PriceUpdates.WithLabelValues("error").Inc()
				svc.logger.Warn().Err(err).Msg("price refresh failed")
				continue
			}
			metrics.PriceUpdates.WithLabelValues("ok").Inc()
		}
	}
}

func (svc *Service) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.conf.FeedURL, nil)
	if err != nil {
		return err
	}
	resp, err := svc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("price: feed returned " + resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var payload feedPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return err
	}
	nova, err := decimal.NewFromString(payload.Nova)
	if err != nil {
		return err
	}
	nusd, err := decimal.NewFromString(payload.Nusd)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	svc.prices[domain.TokenNative] = nova
	svc.prices[domain.TokenNUSD] = nusd
	svc.updatedAt = time.Now()
	svc.mu.Unlock()
	return nil
}

// USD returns the last fetched USD price for t.
func (svc *Service) USD(t domain.Token) (decimal.Decimal, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	p, ok := svc.prices[t]
	if !ok {
		return decimal.Zero, ErrUnavailable
	}
	return p, nil
}

// UpdatedAt reports when prices were last refreshed.
func (svc *Service) UpdatedAt() time.Time {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.updatedAt
}

package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaonlabs/splitswap/internal/config"
	"github.com/kaonlabs/splitswap/internal/domain"
)

func testService(feedURL string) *Service {
	return &Service{
		conf:   &config.PriceConfig{FeedURL: feedURL, RefreshIntervalMs: 50},
		client: &http.Client{Timeout: time.Second},
		prices: make(map[domain.Token]decimal.Decimal),
	}
}

func TestRefreshParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nova":"1.8421","nusd":"0.9998"}`))
	}))
	defer srv.Close()

	svc := testService(srv.URL)
	require.NoError(t, svc.refresh(context.Background()))

	nova, err := svc.USD(domain.TokenNative)
	require.NoError(t, err)
	assert.Equal(t, "1.8421", nova.String())

	nusd, err := svc.USD(domain.TokenNUSD)
	require.NoError(t, err)
	assert.Equal(t, "0.9998", nusd.String())

	assert.WithinDuration(t, time.Now(), svc.UpdatedAt(), time.Second)
}

func TestRefreshRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "NotJSON", body: "<html>", code: http.StatusOK},
		{name: "BadDecimal", body: `{"nova":"one","nusd":"1"}`, code: http.StatusOK},
		{name: "ServerError", body: "", code: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc := testService(srv.URL)
			assert.Error(t, svc.refresh(context.Background()))
		})
	}
}

func TestUSDUnavailableBeforeFirstFetch(t *testing.T) {
	svc := testService("http://127.0.0.1:0")
	_, err := svc.USD(domain.TokenNative)
	assert.ErrorIs(t, err, ErrUnavailable)

	// NX has no feed entry even after a successful refresh.
	svc.prices[domain.TokenNative] = decimal.NewFromInt(1)
	_, err = svc.USD(domain.TokenNX)
	assert.ErrorIs(t, err, ErrUnavailable)
}

package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/http/httputil"
	"github.com/kaonlabs/splitswap/internal/price"
)

type PriceHandler struct {
	priceSvc *price.Service
}

func NewPriceHandler(priceSvc *price.Service) *PriceHandler {
	return &PriceHandler{priceSvc: priceSvc}
}

func (h *PriceHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getPrices)
}

func (h *PriceHandler) Root() string {
	return "/price"
}

type PriceResponse struct {
	// USD price per whole token
	NovaUSD string `json:"nova_usd" example:"1.8421"`
	NusdUSD string `json:"nusd_usd" example:"0.9998"`

	// RFC3339 timestamp of the last feed refresh
	UpdatedAt string `json:"updated_at" example:"2026-08-28T12:00:00Z"`
}

// @Summary Current USD prices
// @Tags price
// @Produce json
// @Success 200 {object} httputil.Response{data=PriceResponse}
// @Failure 503 {object} httputil.Response
// @Router /api/v1/price [get]
func (h *PriceHandler) getPrices(c *gin.Context) {
	nova, err := h.priceSvc.USD(domain.TokenNative)
	if err != nil {
		h.priceError(c, err)
		return
	}
	nusd, err := h.priceSvc.USD(domain.TokenNUSD)
	if err != nil {
		h.priceError(c, err)
		return
	}

	httputil.Success(c, PriceResponse{
		NovaUSD:   nova.String(),
		NusdUSD:   nusd.String(),
		UpdatedAt: h.priceSvc.UpdatedAt().UTC().Format(time.RFC3339),
	})
}

func (h *PriceHandler) priceError(c *gin.Context, err error) {
	if errors.Is(err, price.ErrUnavailable) {
		httputil.ServiceUnavailable(c, "prices not available yet")
		return
	}
	httputil.InternalError(c, err.Error())
}

package http

import (
	"errors"
	"math/big"

	"github.com/gin-gonic/gin"

	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/http/httputil"
	"github.com/kaonlabs/splitswap/internal/optimizer"
)

type EstimateHandler struct {
	optimizerSvc *optimizer.Service
}

func NewEstimateHandler(optimizerSvc *optimizer.Service) *EstimateHandler {
	return &EstimateHandler{optimizerSvc: optimizerSvc}
}

func (h *EstimateHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getEstimate)
	pub.DELETE("", h.invalidate)
}

func (h *EstimateHandler) Root() string {
	return "/estimate"
}

// EstimateRequest represents the parameters for requesting a swap estimate
type EstimateRequest struct {
	// Input token symbol (NOVA, NX, NUSD)
	From string `form:"from" binding:"required" example:"NX"`

	// Output token symbol (NOVA, NX, NUSD)
	To string `form:"to" binding:"required" example:"NUSD"`

	// Amount in smallest token units
	Amount string `form:"amount" binding:"required" example:"1000000000000000000"`
}

// SplitLeg describes one route of the chosen allocation
type SplitLeg struct {
	// Token path of this route
	Route string `json:"route" example:"NX->NOVA->NUSD"`

	// Input amount allocated to this route, smallest units
	AmountIn string `json:"amountIn" example:"500000000000000000"`

	// Quoted output for this route, smallest units
	AmountOut string `json:"amountOut" example:"495000000000000000"`

	// Allocation share in basis points (all legs sum to 10000)
	ShareBps int64 `json:"shareBps" example:"5000"`
}

// EstimateResponse contains the published estimate
type EstimateResponse struct {
	// "single" or "multi"
	Kind string `json:"kind" example:"multi"`

	From string `json:"from" example:"NX"`
	To   string `json:"to" example:"NUSD"`

	// Total input in smallest units
	TotalInput string `json:"totalInput" example:"1000000000000000000"`

	// Total quoted output in smallest units
	TotalOutput string `json:"totalOutput" example:"990000000000000000"`

	// Advantage over the best single route, basis points (multi only)
	ImprovementBps int64 `json:"improvementBps,omitempty" example:"204"`

	Legs []SplitLeg `json:"legs"`
}

// @Summary Get swap estimate
// @Description Decide how to split the input amount across direct and bridged routes to maximize output.
// @Tags estimate
// @Produce json
// @Param from query string true "Input token symbol"
// @Param to query string true "Output token symbol"
// @Param amount query string true "Input amount in smallest units"
// @Success 200 {object} httputil.Response{data=EstimateResponse}
// @Failure 400 {object} httputil.Response
// @Failure 422 {object} httputil.Response
// @Router /api/v1/estimate [get]
func (h *EstimateHandler) getEstimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	from, err := domain.ParseToken(req.From)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	to, err := domain.ParseToken(req.To)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		httputil.BadRequest(c, "invalid amount")
		return
	}

	est, err := h.optimizerSvc.Estimate(c.Request.Context(), from, to, amount)
	if err != nil {
		switch {
		case errors.Is(err, optimizer.ErrNoRoute), errors.Is(err, optimizer.ErrInvalidAmount):
			httputil.BadRequest(c, optimizer.UserMessage(err))
		case errors.Is(err, optimizer.ErrLiquidityExceeded), errors.Is(err, optimizer.ErrAllQuotesFailed):
			httputil.UnprocessableEntity(c, optimizer.UserMessage(err))
		default:
			httputil.InternalError(c, optimizer.UserMessage(err))
		}
		return
	}

	httputil.Success(c, toEstimateResponse(est))
}

// @Summary Invalidate cached estimate
// @Tags estimate
// @Success 200 {object} httputil.Response
// @Router /api/v1/estimate [delete]
func (h *EstimateHandler) invalidate(c *gin.Context) {
	h.optimizerSvc.InvalidateEstimate()
	httputil.Success(c, gin.H{"invalidated": true})
}

func toEstimateResponse(est *domain.Estimate) EstimateResponse {
	shares := est.SplitBps()
	legs := make([]SplitLeg, len(est.Routes))
	for i, r := range est.Routes {
		legs[i] = SplitLeg{
			Route:     r.String(),
			AmountIn:  est.SplitAmounts[i].String(),
			AmountOut: est.RouteOutputs[i].String(),
			ShareBps:  shares[i],
		}
	}
	return EstimateResponse{
		Kind:           est.Kind.String(),
		From:           est.FromToken.String(),
		To:             est.ToToken.String(),
		TotalInput:     est.TotalInput.String(),
		TotalOutput:    est.TotalOutput.String(),
		ImprovementBps: est.ImprovementBps,
		Legs:           legs,
	}
}

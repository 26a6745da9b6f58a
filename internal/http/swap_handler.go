package http

import (
	"errors"
	"math/big"

	"github.com/gin-gonic/gin"

	"github.com/kaonlabs/splitswap/internal/common"
	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/http/httputil"
	"github.com/kaonlabs/splitswap/internal/optimizer"
	"github.com/kaonlabs/splitswap/internal/services/executor"
)

type SwapHandler struct {
	optimizerSvc *optimizer.Service
}

func NewSwapHandler(optimizerSvc *optimizer.Service) *SwapHandler {
	return &SwapHandler{optimizerSvc: optimizerSvc}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.executeSwap)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

// SwapHandlerRequest executes the most recent estimate for the triple
type SwapHandlerRequest struct {
	// Input token symbol
	From string `json:"from" binding:"required" example:"NX"`

	// Output token symbol
	To string `json:"to" binding:"required" example:"NUSD"`

	// Amount in smallest token units; must match the estimated amount
	Amount string `json:"amount" binding:"required" example:"1000000000000000000"`

	// Slippage tolerance in basis points (1 bps = 0.01%), max 5000
	// Default: 50 bps (0.5%)
	SlippageBps uint16 `json:"slippageBps" example:"50"`
}

// SwapHandlerResponse reports the confirmed swap
type SwapHandlerResponse struct {
	// Transaction hash of the confirmed swap
	TxHash string `json:"txHash" example:"0x6e8f1d..."`

	BlockNumber uint64 `json:"blockNumber" example:"1284412"`
	GasUsed     uint64 `json:"gasUsed" example:"412903"`

	// Minimum output the contract enforced, smallest units
	MinTotalOut string `json:"minTotalOut" example:"985050000000000000"`
}

// @Summary Execute swap
// @Description Execute the cached estimate for (from, to, amount) as a single atomic multi-route swap guarded by the slippage floor.
// @Tags swap
// @Accept json
// @Produce json
// @Param request body SwapHandlerRequest true "Swap parameters"
// @Success 200 {object} httputil.Response{data=SwapHandlerResponse}
// @Failure 400 {object} httputil.Response
// @Failure 409 {object} httputil.Response
// @Router /api/v1/swap [post]
func (h *SwapHandler) executeSwap(c *gin.Context) {
	var req SwapHandlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	slippageBps := req.SlippageBps
	if slippageBps == 0 {
		slippageBps = common.DefaultSlippageBps
	}
	if slippageBps > common.MaxSlippageBps {
		httputil.BadRequest(c, "slippageBps above maximum")
		return
	}

	est, ok := h.optimizerSvc.LastEstimate(from, to, amount)
	if !ok {
		httputil.NotFound(c, "no current estimate for this triple, estimate first")
		return
	}

	slippage := float64(slippageBps) / common.BpsDenominator
	receipt, err := h.optimizerSvc.Execute(c.Request.Context(), est, slippage)
	if err != nil {
		switch {
		case errors.Is(err, optimizer.ErrSlippageExceeded):
			httputil.Error(c, 409, optimizer.UserMessage(err))
		case errors.Is(err, optimizer.ErrUserRejected):
			httputil.BadRequest(c, optimizer.UserMessage(err))
		case errors.Is(err, optimizer.ErrExecutionDisabled):
			httputil.Error(c, 503, err.Error())
		default:
			httputil.InternalError(c, optimizer.UserMessage(err))
		}
		return
	}

	httputil.Success(c, SwapHandlerResponse{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
		MinTotalOut: executor.MinTotalOutBps(est.TotalOutput, int64(slippageBps)).String(),
	})
}

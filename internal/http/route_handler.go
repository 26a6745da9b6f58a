package http

import (
	"github.com/gin-gonic/gin"

	"github.com/kaonlabs/splitswap/internal/domain"
	"github.com/kaonlabs/splitswap/internal/http/httputil"
	"github.com/kaonlabs/splitswap/internal/optimizer"
)

type RouteHandler struct {
	optimizerSvc *optimizer.Service
}

func NewRouteHandler(optimizerSvc *optimizer.Service) *RouteHandler {
	return &RouteHandler{optimizerSvc: optimizerSvc}
}

func (h *RouteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getRoutes)
}

func (h *RouteHandler) Root() string {
	return "/routes"
}

// RouteInfo describes one catalog route
type RouteInfo struct {
	// "single" or "multi"
	Kind string `json:"kind" example:"single"`

	// Ordered token path
	Path []string `json:"path" example:"NX,NUSD"`
}

// @Summary List routes for a pair
// @Tags routes
// @Produce json
// @Param from query string true "Input token symbol"
// @Param to query string true "Output token symbol"
// @Success 200 {object} httputil.Response{data=[]RouteInfo}
// @Failure 400 {object} httputil.Response
// @Router /api/v1/routes [get]
func (h *RouteHandler) getRoutes(c *gin.Context) {
	from, err := domain.ParseToken(c.Query("from"))
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	to, err := domain.ParseToken(c.Query("to"))
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	routes := h.optimizerSvc.Routes(from, to)
	if len(routes) == 0 {
		httputil.NotFound(c, "no routes available for pair")
		return
	}

	out := make([]RouteInfo, len(routes))
	for i, r := range routes {
		tokens := r.Tokens()
		path := make([]string, len(tokens))
		for j, t := range tokens {
			path[j] = t.String()
		}
		out[i] = RouteInfo{Kind: r.Kind.String(), Path: path}
	}
	httputil.Success(c, out)
}

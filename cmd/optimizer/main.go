package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/kaonlabs/splitswap/internal/common"
	"github.com/kaonlabs/splitswap/internal/config"
	"github.com/kaonlabs/splitswap/internal/http"
	"github.com/kaonlabs/splitswap/internal/optimizer"
	"github.com/kaonlabs/splitswap/internal/price"
)

// @title SplitSwap Optimizer API
// @version 1.0
// @description Swap route optimizer for the NOVA/NX/NUSD token universe.
// @description
// @description ## Features
// @description - **Route Discovery**: Direct and bridged routes between any token pair
// @description - **Split Optimization**: Searches input splits across routes for better total output
// @description - **Batched Quoting**: All candidate legs quoted in one multicall round trip
// @description - **Slippage Protection**: Configurable tolerance with on-chain minimum output enforcement
// @description
// @description ## Usage Tips
// @description - Amounts are in smallest token units
// @description - NOVA has 8 decimals, NX and NUSD have 18
// @description - Default slippage is 50 bps (0.5%)
// @description - Rate limit: 10 requests/second (burst: 20)
// @BasePath /
// @schemes https http
// @tag.name routes
// @tag.description List catalog routes for a token pair
// @tag.name estimate
// @tag.description Run the split optimization and get the best estimate
// @tag.name swap
// @tag.description Execute the last estimate with slippage protection
// @tag.name price
// @tag.description Get token prices in USD

func main() {
	common.InitRuntime()

	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file, using process environment")
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.ChainConfig{},
		&config.OptimizerConfig{},
		&config.PriceConfig{},
	)

	// di container
	dic, err := container.New(
		conf,

		&price.Service{},
		&optimizer.Service{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}

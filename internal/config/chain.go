package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pelletier/go-toml/v2"
)

// chainFile mirrors the [chain] / [tokens] sections of splitswap.toml. The
// file carries the contract universe; env vars override individual fields.
type chainFile struct {
	Chain struct {
		RPCURL       string `toml:"rpc_url"`
		ChainID      int64  `toml:"chain_id"`
		SwapContract string `toml:"swap_contract"`
		Multicall    string `toml:"multicall"`
		Hook         string `toml:"hook"`
	} `toml:"chain"`
	Tokens struct {
		NX   string `toml:"nx"`
		NUSD string `toml:"nusd"`
	} `toml:"tokens"`
}

type ChainConfig struct {
	RPCURL  string
	ChainID *big.Int

	SwapContract common.Address
	Multicall    common.Address
	Hook         common.Address
	NXToken      common.Address
	NUSDToken    common.Address

	// SignerKey is the hex-encoded private key the executor signs with.
	SignerKey string
	GasLimit  uint64
}

func (c *ChainConfig) Key() string {
	return CHAIN_CONFIG_KEY
}

func (c *ChainConfig) Load() error {
	var file chainFile
	path := getEnvOrDefault("CHAIN_CONFIG_PATH", "./splitswap.toml")
	if raw, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(raw, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	c.RPCURL = getEnvOrDefault("RPC_URL", file.Chain.RPCURL)
	chainID := file.Chain.ChainID
	if chainID == 0 {
		chainID = 1
	}
	c.ChainID = big.NewInt(chainID)

	c.SwapContract = common.HexToAddress(getEnvOrDefault("SWAP_CONTRACT", file.Chain.SwapContract))
	c.Multicall = common.HexToAddress(getEnvOrDefault("MULTICALL_CONTRACT", file.Chain.Multicall))
	c.Hook = common.HexToAddress(getEnvOrDefault("POOL_HOOK", file.Chain.Hook))
	c.NXToken = common.HexToAddress(getEnvOrDefault("NX_TOKEN", file.Tokens.NX))
	c.NUSDToken = common.HexToAddress(getEnvOrDefault("NUSD_TOKEN", file.Tokens.NUSD))

	c.SignerKey = os.Getenv("SIGNER_KEY")
	c.GasLimit = 1_500_000

	return nil
}

func (c *ChainConfig) Validate() error {
	if c.RPCURL == "" {
		return errors.New("invalid chain config: missing rpc url")
	}
	zero := common.Address{}
	if c.SwapContract == zero || c.Multicall == zero {
		return errors.New("invalid chain config: missing contract addresses")
	}
	if c.NXToken == zero || c.NUSDToken == zero {
		return errors.New("invalid chain config: missing token addresses")
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChainConfigLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splitswap.toml")
	content := `
[chain]
rpc_url = "https://rpc.example.org"
chain_id = 4242
swap_contract = "0x4444444444444444444444444444444444444444"
multicall = "0xcA11bde05977b3631167028862bE2a173976CA11"
hook = "0x3333333333333333333333333333333333333333"

[tokens]
nx = "0x1111111111111111111111111111111111111111"
nusd = "0x2222222222222222222222222222222222222222"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHAIN_CONFIG_PATH", path)

	var c ChainConfig
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.RPCURL != "https://rpc.example.org" {
		t.Errorf("rpc url = %q", c.RPCURL)
	}
	if c.ChainID.Int64() != 4242 {
		t.Errorf("chain id = %s, want 4242", c.ChainID)
	}
	if c.NXToken.Hex() != "0x1111111111111111111111111111111111111111" {
		t.Errorf("nx token = %s", c.NXToken.Hex())
	}
	if c.GasLimit != 1_500_000 {
		t.Errorf("gas limit = %d", c.GasLimit)
	}
}

func TestChainConfigEnvOverride(t *testing.T) {
	t.Setenv("CHAIN_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("RPC_URL", "https://env.example.org")
	t.Setenv("SWAP_CONTRACT", "0x4444444444444444444444444444444444444444")

	var c ChainConfig
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if c.RPCURL != "https://env.example.org" {
		t.Errorf("env override ignored, rpc url = %q", c.RPCURL)
	}
	// Without the multicall and token addresses the config is unusable.
	if err := c.Validate(); err == nil {
		t.Error("incomplete chain config must not validate")
	}
}

func TestOptimizerConfigDefaults(t *testing.T) {
	var c OptimizerConfig
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if c.MaxRoutes != 4 || c.StepBps != 500 || c.MinImprovementBps != 10 {
		t.Errorf("search defaults = %d/%d/%d", c.MaxRoutes, c.StepBps, c.MinImprovementBps)
	}
	if c.BatchCeil != 100 || c.RetryAttempts != 4 {
		t.Errorf("batching defaults = %d/%d", c.BatchCeil, c.RetryAttempts)
	}
	if c.BaseDelayMs != 1000 || c.MaxDelayMs != 10000 || c.DebounceMs != 1000 {
		t.Errorf("timing defaults = %d/%d/%d", c.BaseDelayMs, c.MaxDelayMs, c.DebounceMs)
	}
}

func TestOptimizerConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*OptimizerConfig)
	}{
		{name: "TooManyRoutes", mutate: func(c *OptimizerConfig) { c.MaxRoutes = 5 }},
		{name: "ZeroRoutes", mutate: func(c *OptimizerConfig) { c.MaxRoutes = 0 }},
		{name: "RaggedStep", mutate: func(c *OptimizerConfig) { c.StepBps = 333 }},
		{name: "OversizedStep", mutate: func(c *OptimizerConfig) { c.StepBps = 20000 }},
		{name: "NegativeThreshold", mutate: func(c *OptimizerConfig) { c.MinImprovementBps = -1 }},
		{name: "ZeroCeil", mutate: func(c *OptimizerConfig) { c.BatchCeil = 0 }},
		{name: "NoAttempts", mutate: func(c *OptimizerConfig) { c.RetryAttempts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := OptimizerConfig{
				MaxRoutes: 4, StepBps: 500, MinImprovementBps: 10,
				BatchCeil: 100, RetryAttempts: 4,
			}
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}

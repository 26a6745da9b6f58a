package executor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestKeySignerRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	chainID := big.NewInt(8453_001)

	s, err := NewKeySigner(common.Bytes2Hex(crypto.FromECDSA(key)), chainID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Address() != crypto.PubkeyToAddress(key.PublicKey) {
		t.Errorf("signer address = %s, want the key's address", s.Address().Hex())
	}

	to := common.HexToAddress("0x4444444444444444444444444444444444444444")
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Value:    big.NewInt(10),
		Gas:      21000,
		GasPrice: big.NewInt(1_000_000_000),
	})
	signed, err := s.SignTx(tx)
	if err != nil {
		t.Fatal(err)
	}
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
	if err != nil {
		t.Fatal(err)
	}
	if sender != s.Address() {
		t.Errorf("recovered sender %s, want %s", sender.Hex(), s.Address().Hex())
	}
}

func TestKeySignerHexPrefix(t *testing.T) {
	key, _ := crypto.GenerateKey()
	hex := common.Bytes2Hex(crypto.FromECDSA(key))

	if _, err := NewKeySigner("0x"+hex, big.NewInt(1)); err != nil {
		t.Errorf("0x-prefixed key must parse: %v", err)
	}
	if _, err := NewKeySigner("not-a-key", big.NewInt(1)); err == nil {
		t.Error("garbage key must be rejected")
	}
}

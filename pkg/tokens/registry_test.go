package tokens

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"dexswap/pkg/types"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	eth, ok := r.Lookup("eth")
	if !ok {
		t.Fatal("ETH not found in default registry")
	}
	if !eth.IsNative() {
		t.Error("ETH should be the native-coin sentinel")
	}

	usdc, ok := r.Lookup("USDC")
	if !ok {
		t.Fatal("USDC not found in default registry")
	}
	if usdc.Decimals != 6 {
		t.Errorf("USDC decimals = %d, want 6", usdc.Decimals)
	}
	if usdc.IsNative() {
		t.Error("USDC should not be native")
	}

	if _, ok := r.Lookup("NOPE"); ok {
		t.Error("unknown symbol should not resolve")
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]types.Token{
		{Symbol: "ABC", Address: common.HexToAddress("0x01"), Decimals: 18},
		{Symbol: "abc", Address: common.HexToAddress("0x02"), Decimals: 18},
	})
	if err == nil {
		t.Fatal("expected duplicate symbol error")
	}
}

func TestNewRejectsZeroAddress(t *testing.T) {
	_, err := New([]types.Token{{Symbol: "BAD", Decimals: 18}})
	if err == nil {
		t.Fatal("expected zero address error")
	}
}

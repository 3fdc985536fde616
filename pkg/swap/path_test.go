package swap

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"dexswap/pkg/types"
)

var (
	testWETH = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	tokenA   = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	tokenB   = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")

	native = types.Token{Symbol: "ETH", Address: types.NativeTokenAddress, Decimals: 18}
	usdc   = types.Token{Symbol: "USDC", Address: tokenA, Decimals: 6}
	dai    = types.Token{Symbol: "DAI", Address: tokenB, Decimals: 18}
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		from types.Token
		to   types.Token
		want []common.Address
	}{
		{"native to token", native, usdc, []common.Address{testWETH, tokenA}},
		{"token to native", usdc, native, []common.Address{tokenA, testWETH}},
		{"token to token", usdc, dai, []common.Address{tokenA, tokenB}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolvePath(tc.from, tc.to, testWETH)
			if err != nil {
				t.Fatalf("ResolvePath: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("path length = %d, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("hop %d = %s, want %s", i, got[i].Hex(), tc.want[i].Hex())
				}
			}
		})
	}
}

func TestResolvePathNativeToNative(t *testing.T) {
	_, err := ResolvePath(native, native, testWETH)
	if !errors.Is(err, types.ErrNoRoute) {
		t.Fatalf("native-to-native: got %v, want ErrNoRoute", err)
	}
}

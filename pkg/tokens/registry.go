package tokens

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"dexswap/pkg/types"
)

// Default mainnet set. The addresses are configuration data, not semantics:
// they can be replaced wholesale from the config file for another chain.
var defaultList = []types.Token{
	{Symbol: "ETH", Address: types.NativeTokenAddress, Decimals: 18},
	{Symbol: "WETH", Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Decimals: 18},
	{Symbol: "USDC", Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6},
	{Symbol: "USDT", Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Decimals: 6},
	{Symbol: "DAI", Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18},
	{Symbol: "WBTC", Address: common.HexToAddress("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"), Decimals: 8},
}

// Registry is the fixed token list the client can swap between. Immutable
// after construction; no persistence, no remote fetch.
type Registry struct {
	list     []types.Token
	bySymbol map[string]types.Token
}

// Default returns the registry with the compiled-in token list.
func Default() *Registry {
	r, _ := New(defaultList)
	return r
}

// New builds a registry from an explicit token list.
func New(list []types.Token) (*Registry, error) {
	r := &Registry{
		list:     make([]types.Token, 0, len(list)),
		bySymbol: make(map[string]types.Token, len(list)),
	}
	for _, t := range list {
		sym := strings.ToUpper(strings.TrimSpace(t.Symbol))
		if sym == "" {
			return nil, fmt.Errorf("token with empty symbol")
		}
		if _, dup := r.bySymbol[sym]; dup {
			return nil, fmt.Errorf("duplicate token symbol %s", sym)
		}
		if !t.IsNative() && t.Address == (common.Address{}) {
			return nil, fmt.Errorf("token %s has zero address", sym)
		}
		t.Symbol = sym
		r.bySymbol[sym] = t
		r.list = append(r.list, t)
	}
	return r, nil
}

// Lookup finds a token by symbol, case-insensitive.
func (r *Registry) Lookup(symbol string) (types.Token, bool) {
	t, ok := r.bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
	return t, ok
}

// List returns the tokens sorted by symbol.
func (r *Registry) List() []types.Token {
	out := make([]types.Token, len(r.list))
	copy(out, r.list)
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Symbols returns the sorted symbol list, for error messages.
func (r *Registry) Symbols() []string {
	syms := make([]string, 0, len(r.list))
	for _, t := range r.List() {
		syms = append(syms, t.Symbol)
	}
	return syms
}

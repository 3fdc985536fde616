// Package swap orchestrates quoting, gas estimation, approval and execution
// of a single token swap against a V2-style router.
package swap

import (
	"github.com/ethereum/go-ethereum/common"

	"dexswap/pkg/types"
)

// ResolvePath derives the ordered hop addresses for routing between two
// listed tokens. The native-coin sentinel never appears on-chain: it is
// substituted with the router's wrapped-native address. Only direct paths
// are produced; this is not a multi-hop router.
func ResolvePath(from, to types.Token, weth common.Address) ([]common.Address, error) {
	switch {
	case from.IsNative() && to.IsNative():
		return nil, types.ErrNoRoute
	case from.IsNative():
		return []common.Address{weth, to.Address}, nil
	case to.IsNative():
		return []common.Address{from.Address, weth}, nil
	default:
		return []common.Address{from.Address, to.Address}, nil
	}
}

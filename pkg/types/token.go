package types

import "github.com/ethereum/go-ethereum/common"

// NativeTokenAddress is the reserved sentinel address used for the chain's
// native coin (ETH). It never appears in an on-chain path; the path resolver
// substitutes the router's wrapped-native address before quoting.
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// Token describes one entry of the static token registry.
type Token struct {
	Symbol   string
	Address  common.Address
	Decimals uint8
}

// IsNative reports whether the token is the native-coin sentinel.
func (t Token) IsNative() bool {
	return t.Address == NativeTokenAddress
}

package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SwapRequest represents a user's swap command before token resolution.
type SwapRequest struct {
	Amount     string
	FromSymbol string
	ToSymbol   string
	Recipient  string
}

// SwapIntent is a fully resolved swap, created fresh per attempt and never
// persisted. AmountIn is in base units of FromToken.
type SwapIntent struct {
	FromToken   Token
	ToToken     Token
	AmountIn    *big.Int
	SlippageBps int64
	// Deadline is an absolute unix timestamp; zero means the executor picks
	// its default expiry.
	Deadline int64
	// Recipient defaults to the connected account when zero.
	Recipient common.Address
}

// QuoteDisplay holds formatted quote information for display.
type QuoteDisplay struct {
	AmountIn    string
	FromSymbol  string
	AmountOut   string
	ToSymbol    string
	Rate        string
	GasEstimate string
}

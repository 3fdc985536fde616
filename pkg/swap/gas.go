package swap

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"dexswap/pkg/types"
	"dexswap/pkg/wallet"
)

// Strategy is one way of estimating gas for an intended call. Estimation
// must only simulate; it never submits anything.
type Strategy struct {
	Name     string
	Estimate func(ctx context.Context, call ethereum.CallMsg) (uint64, error)
}

// Estimator runs an ordered chain of strategies and stops at the first
// success. Exhausting the chain yields ErrGasEstimateUnavailable, which
// callers render as "N/A" rather than a fatal error.
type Estimator struct {
	strategies []Strategy
	log        zerolog.Logger
}

// NewEstimator builds an estimator over an explicit strategy chain.
func NewEstimator(log zerolog.Logger, strategies ...Strategy) *Estimator {
	return &Estimator{strategies: strategies, log: log}
}

// Estimate tries each strategy in order.
func (e *Estimator) Estimate(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	var lastErr error
	for _, s := range e.strategies {
		gas, err := s.Estimate(ctx, call)
		if err == nil {
			e.log.Debug().Str("strategy", s.Name).Uint64("gas", gas).Msg("gas estimated")
			return gas, nil
		}
		lastErr = err
		e.log.Debug().Str("strategy", s.Name).Err(err).Msg("gas estimation strategy failed")
	}
	if lastErr != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrGasEstimateUnavailable, lastErr)
	}
	return 0, types.ErrGasEstimateUnavailable
}

// DefaultStrategies is the production fallback chain: the signer's own
// estimate, then the read-only node estimate, then a raw eth_estimateGas
// request on the provider channel.
func DefaultStrategies(session wallet.Session, eth *ethclient.Client, provider wallet.Provider) []Strategy {
	return []Strategy{
		SignerStrategy(session, eth),
		NodeStrategy(eth),
		RawRequestStrategy(provider),
	}
}

// SignerStrategy estimates with the connected account as sender, so balance
// and allowance checks run against the real caller. Unavailable without a
// signer.
func SignerStrategy(session wallet.Session, eth *ethclient.Client) Strategy {
	return Strategy{
		Name: "signer",
		Estimate: func(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
			if !session.HasSigner() {
				return 0, types.ErrSignerUnavailable
			}
			call.From = session.Account
			return eth.EstimateGas(ctx, call)
		},
	}
}

// NodeStrategy estimates through the read-only connection with no sender
// attached.
func NodeStrategy(eth *ethclient.Client) Strategy {
	return Strategy{
		Name: "node",
		Estimate: func(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
			call.From = common.Address{}
			return eth.EstimateGas(ctx, call)
		},
	}
}

// RawRequestStrategy issues eth_estimateGas directly on the provider's
// request channel, hex-encoding the attached value when present.
func RawRequestStrategy(provider wallet.Provider) Strategy {
	return Strategy{
		Name: "raw",
		Estimate: func(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
			params := map[string]interface{}{
				"to":   call.To,
				"data": hexutil.Bytes(call.Data),
			}
			if call.From != (common.Address{}) {
				params["from"] = call.From
			}
			if call.Value != nil && call.Value.Sign() > 0 {
				params["value"] = hexutil.EncodeBig(call.Value)
			}
			var out hexutil.Uint64
			if err := provider.Request(ctx, &out, "eth_estimateGas", params); err != nil {
				return 0, err
			}
			return uint64(out), nil
		},
	}
}

// SwapCallMsg assembles the simulation message for an intended router call.
func SwapCallMsg(from, router common.Address, value *big.Int, data []byte) ethereum.CallMsg {
	return ethereum.CallMsg{
		From:  from,
		To:    &router,
		Value: value,
		Data:  data,
	}
}

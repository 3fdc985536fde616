package swap

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"dexswap/pkg/types"
)

// AmountsReader is the router view surface the quote path depends on.
type AmountsReader interface {
	WETH(ctx context.Context) (common.Address, error)
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
}

// QuoteService asks the router for the expected output of a swap. Read-only;
// every failure surfaces as ErrQuoteUnavailable so callers treat the result
// as unknown, never as zero.
type QuoteService struct {
	router AmountsReader
	log    zerolog.Logger
}

// NewQuoteService binds a quote service to a router view.
func NewQuoteService(router AmountsReader, log zerolog.Logger) *QuoteService {
	return &QuoteService{router: router, log: log}
}

// Quote returns the final hop's output amount for amountIn across path.
func (s *QuoteService) Quote(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: non-positive input amount", types.ErrQuoteUnavailable)
	}
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: path needs at least two hops", types.ErrQuoteUnavailable)
	}

	amounts, err := s.router.GetAmountsOut(ctx, amountIn, path)
	if err != nil {
		s.log.Debug().Err(err).Msg("amounts-out call failed")
		return nil, fmt.Errorf("%w: %v", types.ErrQuoteUnavailable, err)
	}
	return amounts[len(amounts)-1], nil
}

// Tracker orders concurrent quote requests so that a slow, stale response
// can never overwrite a fresher one. Begin tags a request; Apply accepts the
// result only if no later request has been applied yet (last write wins).
type Tracker struct {
	seq     atomic.Uint64
	applied atomic.Uint64
}

// Begin issues the next request token.
func (t *Tracker) Begin() uint64 {
	return t.seq.Add(1)
}

// Apply reports whether the result carrying this token should be used.
func (t *Tracker) Apply(token uint64) bool {
	for {
		current := t.applied.Load()
		if token <= current {
			return false
		}
		if t.applied.CompareAndSwap(current, token) {
			return true
		}
	}
}

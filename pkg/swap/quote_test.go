package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"dexswap/pkg/types"
)

// fakeRouter implements the router view surface with scripted responses.
type fakeRouter struct {
	weth    common.Address
	amounts []*big.Int
	err     error
	calls   int
}

func (f *fakeRouter) WETH(ctx context.Context) (common.Address, error) {
	return f.weth, nil
}

func (f *fakeRouter) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.amounts, nil
}

func TestQuoteReturnsLastHop(t *testing.T) {
	router := &fakeRouter{amounts: []*big.Int{big.NewInt(1000), big.NewInt(600), big.NewInt(995)}}
	svc := NewQuoteService(router, zerolog.Nop())

	out, err := svc.Quote(context.Background(), big.NewInt(1000), []common.Address{tokenA, tokenB})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if out.Int64() != 995 {
		t.Errorf("Quote = %s, want 995 (last hop)", out)
	}
}

func TestQuoteFailureIsUnavailableNotZero(t *testing.T) {
	router := &fakeRouter{err: fmt.Errorf("execution reverted")}
	svc := NewQuoteService(router, zerolog.Nop())

	out, err := svc.Quote(context.Background(), big.NewInt(1000), []common.Address{tokenA, tokenB})
	if !errors.Is(err, types.ErrQuoteUnavailable) {
		t.Fatalf("got %v, want ErrQuoteUnavailable", err)
	}
	if out != nil {
		t.Errorf("failed quote must not produce an amount, got %s", out)
	}
}

func TestQuoteRejectsDegenerateInput(t *testing.T) {
	svc := NewQuoteService(&fakeRouter{}, zerolog.Nop())

	if _, err := svc.Quote(context.Background(), big.NewInt(0), []common.Address{tokenA, tokenB}); !errors.Is(err, types.ErrQuoteUnavailable) {
		t.Error("zero input should be unavailable")
	}
	if _, err := svc.Quote(context.Background(), big.NewInt(1), []common.Address{tokenA}); !errors.Is(err, types.ErrQuoteUnavailable) {
		t.Error("single-hop path should be unavailable")
	}
}

func TestTrackerLastWriteWins(t *testing.T) {
	var tr Tracker

	first := tr.Begin()
	second := tr.Begin()

	// The later request returns first and is applied.
	if !tr.Apply(second) {
		t.Fatal("fresh result should apply")
	}
	// The earlier, slower request must be discarded.
	if tr.Apply(first) {
		t.Fatal("stale result must not overwrite a fresher one")
	}
	// Re-applying the same token is also rejected.
	if tr.Apply(second) {
		t.Fatal("token must apply at most once")
	}
}

func TestTrackerConcurrent(t *testing.T) {
	var tr Tracker
	var applied sync.Map
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		tok := tr.Begin()
		wg.Add(1)
		go func(tok uint64) {
			defer wg.Done()
			if tr.Apply(tok) {
				applied.Store(tok, true)
			}
		}(tok)
	}
	wg.Wait()

	var max uint64
	count := 0
	applied.Range(func(k, v interface{}) bool {
		count++
		if tok := k.(uint64); tok > max {
			max = tok
		}
		return true
	})

	if count == 0 {
		t.Fatal("at least one result must apply")
	}
	// The highest-applied token is exactly the tracker's final state: nothing
	// older was accepted after it.
	if got := tr.applied.Load(); got != max {
		t.Errorf("tracker state %d, want %d", got, max)
	}
}

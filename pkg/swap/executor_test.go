package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dexswap/pkg/router"
	"dexswap/pkg/types"
	"dexswap/pkg/wallet"
)

var routerAddr = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

// fakeExecRouter scripts the full router surface the executor touches. A nil
// balance means unlimited.
type fakeExecRouter struct {
	weth      common.Address
	balance   *big.Int
	quoteOut  *big.Int
	quoteErr  error
	submitErr error

	built     *router.SwapCall
	submitted *router.SwapCall
	path      []common.Address
	minOut    *big.Int
	deadline  *big.Int
	to        common.Address
}

func (f *fakeExecRouter) Address() common.Address { return routerAddr }

func (f *fakeExecRouter) WETH(ctx context.Context) (common.Address, error) {
	return f.weth, nil
}

func (f *fakeExecRouter) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	if f.balance == nil {
		return new(big.Int).Lsh(big.NewInt(1), 128), nil
	}
	return f.balance, nil
}

func (f *fakeExecRouter) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return f.NativeBalance(ctx, account)
}

func (f *fakeExecRouter) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return []*big.Int{amountIn, f.quoteOut}, nil
}

func (f *fakeExecRouter) BuildSwapExactETHForTokens(value, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) (router.SwapCall, error) {
	call := router.SwapCall{Method: "swapExactETHForTokens", Value: value, Data: []byte{0x01}}
	f.built = &call
	f.path, f.minOut, f.deadline, f.to = path, amountOutMin, deadline, to
	return call, nil
}

func (f *fakeExecRouter) BuildSwapExactTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) (router.SwapCall, error) {
	call := router.SwapCall{Method: "swapExactTokensForTokens", Value: new(big.Int), Data: []byte{0x02}}
	f.built = &call
	f.path, f.minOut, f.deadline, f.to = path, amountOutMin, deadline, to
	return call, nil
}

func (f *fakeExecRouter) SubmitSwap(ctx context.Context, session wallet.Session, call router.SwapCall, gasLimit uint64) (*gethtypes.Receipt, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = &call
	return &gethtypes.Receipt{
		Status: gethtypes.ReceiptStatusSuccessful,
		TxHash: common.HexToHash("0xabc123"),
	}, nil
}

func newTestExecutor(r *fakeExecRouter, tokens *fakeTokens) *Executor {
	e := NewExecutor(
		r,
		NewQuoteService(r, zerolog.Nop()),
		NewApprovalManager(tokens, zerolog.Nop(), nil),
		0,
		zerolog.Nop(),
	)
	e.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return e
}

func TestApplySlippage(t *testing.T) {
	tests := []struct {
		quoted int64
		bps    int64
		want   int64
	}{
		{1000, 50, 995},
		{1000, 0, 1000},
		{1, 50, 0},       // floors, never rounds up
		{1000, 10000, 0}, // full tolerance collapses to zero
		{1000, 20000, 0}, // multiplier clamps at zero
	}
	for _, tt := range tests {
		got := ApplySlippage(big.NewInt(tt.quoted), tt.bps)
		if got.Int64() != tt.want {
			t.Errorf("ApplySlippage(%d, %d) = %s, want %d", tt.quoted, tt.bps, got, tt.want)
		}
	}
}

func TestSwapNativeIn(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteOut: big.NewInt(1000)}
	tokens := &fakeTokens{allowance: big.NewInt(0)}
	e := newTestExecutor(r, tokens)

	amountIn := big.NewInt(5_000_000)
	res, err := e.Swap(context.Background(), signedSession(t), types.SwapIntent{
		FromToken:   native,
		ToToken:     usdc,
		AmountIn:    amountIn,
		SlippageBps: 50,
	})
	require.NoError(t, err)

	require.Equal(t, 0, tokens.approveCalls, "native input needs no approval")
	require.Equal(t, "swapExactETHForTokens", r.submitted.Method)
	require.Zero(t, r.submitted.Value.Cmp(amountIn), "input amount travels as attached value")
	require.Equal(t, []common.Address{testWETH, usdc.Address}, r.path)
	require.Zero(t, res.AmountOutMin.Cmp(big.NewInt(995)))
	require.Zero(t, res.QuotedOut.Cmp(big.NewInt(1000)))
	require.Equal(t, time.Unix(1_700_000_000, 0).Add(DefaultDeadline).Unix(), res.Deadline)
}

func TestSwapTokenInApprovesFirst(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteOut: big.NewInt(2000)}
	tokens := &fakeTokens{allowance: big.NewInt(0)}
	e := newTestExecutor(r, tokens)

	amountIn := big.NewInt(750)
	res, err := e.Swap(context.Background(), signedSession(t), types.SwapIntent{
		FromToken:   usdc,
		ToToken:     dai,
		AmountIn:    amountIn,
		SlippageBps: 50,
	})
	require.NoError(t, err)

	require.Equal(t, 1, tokens.approveCalls, "token input must be approved before the swap")
	require.Zero(t, tokens.approved.Cmp(amountIn))
	require.Equal(t, "swapExactTokensForTokens", r.submitted.Method)
	require.Zero(t, r.submitted.Value.Sign(), "token-in swap attaches no value")
	require.Equal(t, []common.Address{usdc.Address, dai.Address}, r.path)
	require.NotNil(t, res.Receipt)
}

func TestSwapDefaultsRecipientToAccount(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteOut: big.NewInt(100)}
	e := newTestExecutor(r, &fakeTokens{allowance: big.NewInt(0)})

	session := signedSession(t)
	_, err := e.Swap(context.Background(), session, types.SwapIntent{
		FromToken:   native,
		ToToken:     usdc,
		AmountIn:    big.NewInt(1),
		SlippageBps: 0,
	})
	require.NoError(t, err)
	require.Equal(t, session.Account, r.to)
}

func TestSwapAbortsOnQuoteFailure(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteErr: fmt.Errorf("execution reverted")}
	e := newTestExecutor(r, &fakeTokens{allowance: big.NewInt(0)})

	_, err := e.Swap(context.Background(), signedSession(t), types.SwapIntent{
		FromToken:   native,
		ToToken:     usdc,
		AmountIn:    big.NewInt(100),
		SlippageBps: 50,
	})
	require.ErrorIs(t, err, types.ErrSwapFailed)
	require.Nil(t, r.built, "no transaction may be built from a failed quote")
}

func TestSwapRequiresSigner(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteOut: big.NewInt(1)}
	e := newTestExecutor(r, &fakeTokens{allowance: big.NewInt(0)})

	_, err := e.Swap(context.Background(), wallet.Session{ChainID: big.NewInt(1)}, types.SwapIntent{
		FromToken:   native,
		ToToken:     usdc,
		AmountIn:    big.NewInt(100),
		SlippageBps: 50,
	})
	require.ErrorIs(t, err, types.ErrSignerUnavailable)
}

func TestSwapRejectsBadIntent(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteOut: big.NewInt(1)}
	e := newTestExecutor(r, &fakeTokens{allowance: big.NewInt(0)})
	session := signedSession(t)

	t.Run("zero amount", func(t *testing.T) {
		_, err := e.Swap(context.Background(), session, types.SwapIntent{
			FromToken: native, ToToken: usdc, AmountIn: big.NewInt(0), SlippageBps: 50,
		})
		require.ErrorIs(t, err, types.ErrSwapFailed)
	})

	t.Run("slippage over cap", func(t *testing.T) {
		_, err := e.Swap(context.Background(), session, types.SwapIntent{
			FromToken: native, ToToken: usdc, AmountIn: big.NewInt(1), SlippageBps: MaxSlippageBps + 1,
		})
		require.ErrorIs(t, err, types.ErrSwapFailed)
	})

	t.Run("no route", func(t *testing.T) {
		_, err := e.Swap(context.Background(), session, types.SwapIntent{
			FromToken: native, ToToken: native, AmountIn: big.NewInt(1), SlippageBps: 50,
		})
		require.ErrorIs(t, err, types.ErrNoRoute)
	})
}

func TestSwapInsufficientBalance(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteOut: big.NewInt(1000), balance: big.NewInt(99)}
	e := newTestExecutor(r, &fakeTokens{allowance: big.NewInt(0)})

	_, err := e.Swap(context.Background(), signedSession(t), types.SwapIntent{
		FromToken:   usdc,
		ToToken:     dai,
		AmountIn:    big.NewInt(100),
		SlippageBps: 50,
	})
	require.ErrorIs(t, err, types.ErrSwapFailed)
	require.Nil(t, r.built, "an unfundable swap must not reach the router")
}

func TestSwapSubmitFailure(t *testing.T) {
	r := &fakeExecRouter{weth: testWETH, quoteOut: big.NewInt(1000), submitErr: errors.New("nonce too low")}
	e := newTestExecutor(r, &fakeTokens{allowance: big.NewInt(0)})

	_, err := e.Swap(context.Background(), signedSession(t), types.SwapIntent{
		FromToken:   native,
		ToToken:     usdc,
		AmountIn:    big.NewInt(100),
		SlippageBps: 50,
	})
	require.ErrorIs(t, err, types.ErrSwapFailed)
}

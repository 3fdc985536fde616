package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"dexswap/pkg/router"
	"dexswap/pkg/types"
	"dexswap/pkg/wallet"
)

// Default expiry the router enforces for a submitted swap.
const DefaultDeadline = 10 * time.Minute

// Slippage tolerance is capped at 5%.
const MaxSlippageBps = 500

const bpsDenominator = 10000

// Swapper is the state-changing router surface the executor depends on.
type Swapper interface {
	Address() common.Address
	BuildSwapExactETHForTokens(value, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) (router.SwapCall, error)
	BuildSwapExactTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) (router.SwapCall, error)
	SubmitSwap(ctx context.Context, session wallet.Session, call router.SwapCall, gasLimit uint64) (*gethtypes.Receipt, error)
}

// BalanceReader reads spendable balances for the pre-submission check.
type BalanceReader interface {
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
}

// Router is the full contract surface: views for quoting plus submission.
type Router interface {
	AmountsReader
	BalanceReader
	Swapper
}

// Result records what one completed swap did on-chain.
type Result struct {
	Route        []common.Address
	AmountIn     *big.Int
	QuotedOut    *big.Int
	AmountOutMin *big.Int
	Deadline     int64
	TxHash       common.Hash
	Receipt      *gethtypes.Receipt
}

// Executor runs the full swap pipeline: route, fresh quote, slippage floor,
// deadline, approval when token-in, submission, confirmation.
type Executor struct {
	router    Router
	quotes    *QuoteService
	approvals *ApprovalManager
	deadline  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewExecutor wires the executor. deadline <= 0 selects DefaultDeadline.
func NewExecutor(r Router, quotes *QuoteService, approvals *ApprovalManager, deadline time.Duration, log zerolog.Logger) *Executor {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Executor{
		router:    r,
		quotes:    quotes,
		approvals: approvals,
		deadline:  deadline,
		log:       log,
		now:       time.Now,
	}
}

// ApplySlippage computes the minimum acceptable output for a quoted amount,
// floor(quoted * (10000 - bps) / 10000). The multiplier is clamped at zero,
// never negative.
func ApplySlippage(quoted *big.Int, bps int64) *big.Int {
	mult := int64(bpsDenominator) - bps
	if mult < 0 {
		mult = 0
	}
	out := new(big.Int).Mul(quoted, big.NewInt(mult))
	return out.Div(out, big.NewInt(bpsDenominator))
}

// Swap executes one swap intent end to end and waits for on-chain
// confirmation. Up to two transactions are submitted (approval, then swap);
// a confirmed approval survives a failed swap as valid allowance for a
// retry.
func (e *Executor) Swap(ctx context.Context, session wallet.Session, intent types.SwapIntent) (*Result, error) {
	if !session.HasSigner() {
		return nil, types.ErrSignerUnavailable
	}
	if err := validateIntent(intent); err != nil {
		return nil, err
	}

	if err := e.checkBalance(ctx, session.Account, intent); err != nil {
		return nil, err
	}

	weth, err := e.router.WETH(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSwapFailed, err)
	}

	route, err := ResolvePath(intent.FromToken, intent.ToToken, weth)
	if err != nil {
		return nil, err
	}

	// A swap without a live quote would run with no slippage protection at
	// all, so an unavailable quote aborts instead of defaulting to zero.
	quoted, err := e.quotes.Quote(ctx, intent.AmountIn, route)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSwapFailed, err)
	}

	amountOutMin := ApplySlippage(quoted, intent.SlippageBps)

	deadline := intent.Deadline
	if deadline == 0 {
		deadline = e.now().Add(e.deadline).Unix()
	}

	recipient := intent.Recipient
	if recipient == (common.Address{}) {
		recipient = session.Account
	}

	e.log.Info().
		Str("from", intent.FromToken.Symbol).
		Str("to", intent.ToToken.Symbol).
		Str("amount_in", intent.AmountIn.String()).
		Str("quoted_out", quoted.String()).
		Str("min_out", amountOutMin.String()).
		Int64("deadline", deadline).
		Msg("executing swap")

	var call router.SwapCall
	if intent.FromToken.IsNative() {
		call, err = e.router.BuildSwapExactETHForTokens(intent.AmountIn, amountOutMin, route, recipient, big.NewInt(deadline))
	} else {
		if err := e.approvals.EnsureApproved(ctx, session, intent.FromToken, e.router.Address(), intent.AmountIn); err != nil {
			return nil, err
		}
		call, err = e.router.BuildSwapExactTokensForTokens(intent.AmountIn, amountOutMin, route, recipient, big.NewInt(deadline))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrSwapFailed, err)
	}

	receipt, err := e.router.SubmitSwap(ctx, session, call, 0)
	if err != nil {
		if errors.Is(err, types.ErrSignerUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", types.ErrSwapFailed, err)
	}

	return &Result{
		Route:        route,
		AmountIn:     intent.AmountIn,
		QuotedOut:    quoted,
		AmountOutMin: amountOutMin,
		Deadline:     deadline,
		TxHash:       receipt.TxHash,
		Receipt:      receipt,
	}, nil
}

// checkBalance refuses to submit a swap the account cannot fund. Gas on top
// of a native input is still the node's concern; this only guards the input
// amount itself.
func (e *Executor) checkBalance(ctx context.Context, account common.Address, intent types.SwapIntent) error {
	var (
		balance *big.Int
		err     error
	)
	if intent.FromToken.IsNative() {
		balance, err = e.router.NativeBalance(ctx, account)
	} else {
		balance, err = e.router.BalanceOf(ctx, intent.FromToken.Address, account)
	}
	if err != nil {
		return fmt.Errorf("%w: read %s balance: %v", types.ErrSwapFailed, intent.FromToken.Symbol, err)
	}
	if balance.Cmp(intent.AmountIn) < 0 {
		return fmt.Errorf("%w: insufficient %s balance (have %s, need %s)",
			types.ErrSwapFailed, intent.FromToken.Symbol, balance, intent.AmountIn)
	}
	return nil
}

func validateIntent(intent types.SwapIntent) error {
	if intent.AmountIn == nil || intent.AmountIn.Sign() <= 0 {
		return fmt.Errorf("%w: input amount must be positive", types.ErrSwapFailed)
	}
	if intent.SlippageBps < 0 || intent.SlippageBps > MaxSlippageBps {
		return fmt.Errorf("%w: slippage must be between 0 and %d bps", types.ErrSwapFailed, MaxSlippageBps)
	}
	return nil
}

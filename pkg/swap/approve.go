package swap

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"

	"dexswap/pkg/types"
	"dexswap/pkg/wallet"
)

// TokenApprover is the ERC-20 surface the approval path depends on. Approve
// must wait for the transaction to be mined before returning.
type TokenApprover interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, session wallet.Session, token, spender common.Address, amount *big.Int) (*gethtypes.Receipt, error)
}

// ApprovalState is reported to the caller so the UI can disable concurrent
// actions while an approval transaction is in flight.
type ApprovalState int

const (
	// ApprovalNotRequired: native coin, no allowance concept.
	ApprovalNotRequired ApprovalState = iota + 1
	// ApprovalGranted: the existing or freshly confirmed allowance covers
	// the amount.
	ApprovalGranted
	// ApprovalPending: an approval transaction has been submitted and is
	// awaiting confirmation.
	ApprovalPending
)

// ApprovalManager checks and, when short, raises a token allowance in favor
// of the router before a token-in swap.
type ApprovalManager struct {
	tokens TokenApprover
	log    zerolog.Logger
	notify func(ApprovalState)
}

// NewApprovalManager binds an approval manager to a token client. notify may
// be nil.
func NewApprovalManager(tokens TokenApprover, log zerolog.Logger, notify func(ApprovalState)) *ApprovalManager {
	return &ApprovalManager{tokens: tokens, log: log, notify: notify}
}

func (m *ApprovalManager) signal(state ApprovalState) {
	if m.notify != nil {
		m.notify(state)
	}
}

// EnsureApproved settles the spender's allowance at >= amount. It approves
// exactly the needed amount, never unlimited, and only returns once the
// approval is confirmed on-chain and the allowance re-read covers the
// amount.
func (m *ApprovalManager) EnsureApproved(ctx context.Context, session wallet.Session, token types.Token, spender common.Address, amount *big.Int) error {
	if token.IsNative() {
		m.signal(ApprovalNotRequired)
		return nil
	}
	if !session.HasSigner() {
		return types.ErrSignerUnavailable
	}

	allowance, err := m.tokens.Allowance(ctx, token.Address, session.Account, spender)
	if err != nil {
		return fmt.Errorf("%w: read allowance: %v", types.ErrApprovalFailed, err)
	}
	if allowance.Cmp(amount) >= 0 {
		m.log.Debug().
			Str("token", token.Symbol).
			Str("allowance", allowance.String()).
			Msg("existing allowance sufficient")
		m.signal(ApprovalGranted)
		return nil
	}

	m.signal(ApprovalPending)
	m.log.Info().
		Str("token", token.Symbol).
		Str("amount", amount.String()).
		Msg("raising allowance")

	if _, err := m.tokens.Approve(ctx, session, token.Address, spender, amount); err != nil {
		return fmt.Errorf("%w: %v", types.ErrApprovalFailed, err)
	}

	// The approval is mined; verify the allowance actually covers the swap.
	allowance, err = m.tokens.Allowance(ctx, token.Address, session.Account, spender)
	if err != nil {
		return fmt.Errorf("%w: re-read allowance: %v", types.ErrApprovalFailed, err)
	}
	if allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: allowance %s still below %s after confirmation", types.ErrApprovalFailed, allowance, amount)
	}

	m.signal(ApprovalGranted)
	return nil
}

package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"dexswap/pkg/types"
)

// Session is the immutable-per-call connection state the core operates
// against. It is handed to each operation by value; the wallet replaces it
// wholesale when the chain or account changes.
type Session struct {
	Account common.Address
	ChainID *big.Int
	key     *ecdsa.PrivateKey
}

// NewSession builds a session directly from a chain id and an optional
// signing key. Connect derives its session this way; tests can too.
func NewSession(chainID *big.Int, key *ecdsa.PrivateKey) Session {
	s := Session{ChainID: chainID, key: key}
	if key != nil {
		s.Account = crypto.PubkeyToAddress(key.PublicKey)
	}
	return s
}

// HasSigner reports whether the session can sign transactions.
func (s Session) HasSigner() bool {
	return s.key != nil
}

// SignTx signs a transaction with the session key.
func (s Session) SignTx(tx *gethtypes.Transaction) (*gethtypes.Transaction, error) {
	if s.key == nil {
		return nil, types.ErrSignerUnavailable
	}
	return gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(s.ChainID), s.key)
}

// Options configures a wallet connection.
type Options struct {
	RPCURL string
	// PrivateKey is optional; without it the wallet is read-only and any
	// signing operation fails with ErrSignerUnavailable.
	PrivateKey string
	// PollInterval for the chain watcher; zero picks a default.
	PollInterval time.Duration
	Logger       zerolog.Logger
}

const defaultPollInterval = 15 * time.Second

// Wallet owns the provider connection, the signer and the session state, and
// emits accounts-changed / chain-changed notifications.
type Wallet struct {
	provider Provider
	client   *ethclient.Client
	log      zerolog.Logger

	mu      sync.RWMutex
	session Session

	bus    *eventBus
	cancel context.CancelFunc
	done   chan struct{}
}

// Connect dials the provider, derives the account from the configured key
// (if any) and starts the chain watcher.
func Connect(ctx context.Context, opts Options) (*Wallet, error) {
	provider, rpcClient, err := DialProvider(ctx, opts.RPCURL)
	if err != nil {
		return nil, err
	}

	w := &Wallet{
		provider: provider,
		client:   ethclient.NewClient(rpcClient),
		log:      opts.Logger,
		bus:      newEventBus(),
		done:     make(chan struct{}),
	}

	chainID, err := w.fetchChainID(ctx)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("%w: %v", types.ErrWalletUnavailable, err)
	}

	session := NewSession(chainID, nil)
	if opts.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
		if err != nil {
			provider.Close()
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
		session = NewSession(chainID, key)
	}
	w.session = session

	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	watchCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.watchChain(watchCtx, interval)

	w.log.Debug().
		Str("account", session.Account.Hex()).
		Str("chain_id", chainID.String()).
		Bool("signer", session.HasSigner()).
		Msg("wallet connected")

	return w, nil
}

// Session returns the current connection state.
func (w *Wallet) Session() Session {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.session
}

// Accounts lists the addresses that can sign. With a local key that is the
// derived account; otherwise the endpoint is asked for its unlocked accounts.
func (w *Wallet) Accounts(ctx context.Context) ([]common.Address, error) {
	if s := w.Session(); s.HasSigner() {
		return []common.Address{s.Account}, nil
	}
	var accounts []common.Address
	if err := w.provider.Request(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrWalletUnavailable, err)
	}
	return accounts, nil
}

// Client exposes the read connection for contract calls.
func (w *Wallet) Client() *ethclient.Client {
	return w.client
}

// Provider exposes the raw request channel.
func (w *Wallet) Provider() Provider {
	return w.provider
}

// Subscribe registers for wallet events. The returned function removes the
// subscription and closes the channel.
func (w *Wallet) Subscribe(buffer int) (<-chan Event, func()) {
	return w.bus.subscribe(buffer)
}

// Close stops the watcher, notifies subscribers of the disconnect and
// releases the connection.
func (w *Wallet) Close() {
	w.cancel()
	<-w.done

	w.mu.Lock()
	w.session = Session{}
	w.mu.Unlock()

	w.bus.publish(Event{Kind: AccountsChanged, Accounts: nil})
	w.bus.closeAll()
	w.provider.Close()
}

func (w *Wallet) fetchChainID(ctx context.Context) (*big.Int, error) {
	var raw hexutil.Big
	if err := w.provider.Request(ctx, &raw, "eth_chainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&raw), nil
}

// watchChain polls the endpoint's chain id. A change means every cached
// contract binding is stale: the session is rebuilt and subscribers are told
// to reset.
func (w *Wallet) watchChain(ctx context.Context, interval time.Duration) {
	defer close(w.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		callCtx, cancel := context.WithTimeout(ctx, interval)
		chainID, err := w.fetchChainID(callCtx)
		cancel()
		if err != nil {
			if ctx.Err() == nil {
				w.log.Warn().Err(err).Msg("chain id poll failed")
			}
			continue
		}

		w.mu.Lock()
		changed := w.session.ChainID == nil || chainID.Cmp(w.session.ChainID) != 0
		if changed {
			w.session.ChainID = chainID
		}
		session := w.session
		w.mu.Unlock()

		if changed {
			w.log.Info().Str("chain_id", chainID.String()).Msg("chain changed, session reset")
			w.bus.publish(Event{Kind: ChainChanged, ChainID: new(big.Int).Set(chainID)})
			w.bus.publish(Event{Kind: AccountsChanged, Accounts: accountList(session)})
		}
	}
}

func accountList(s Session) []common.Address {
	if !s.HasSigner() {
		return nil
	}
	return []common.Address{s.Account}
}

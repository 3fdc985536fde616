package router

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	"dexswap/pkg/types"
	"dexswap/pkg/wallet"
)

// Fallback gas limit when estimation is impossible at send time.
const defaultSwapGasLimit = uint64(300000)

// Client is the on-chain boundary: read-only views and state-changing calls
// against one deployed router, plus the ERC-20 surface of the listed tokens.
type Client struct {
	eth       *ethclient.Client
	provider  wallet.Provider
	address   common.Address
	routerABI abi.ABI
	erc20ABI  abi.ABI
	log       zerolog.Logger

	mu   sync.Mutex
	weth *common.Address // cached; chain-specific, dropped on chain change
}

// NewClient parses the ABI fragments and binds the client to a router
// address.
func NewClient(eth *ethclient.Client, provider wallet.Provider, address common.Address, log zerolog.Logger) (*Client, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("router address must be set")
	}
	routerABI, err := abi.JSON(strings.NewReader(RouterABI))
	if err != nil {
		return nil, fmt.Errorf("parse router ABI: %w", err)
	}
	erc20ABI, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse ERC20 ABI: %w", err)
	}
	return &Client{
		eth:       eth,
		provider:  provider,
		address:   address,
		routerABI: routerABI,
		erc20ABI:  erc20ABI,
		log:       log,
	}, nil
}

// Address returns the router contract address.
func (c *Client) Address() common.Address {
	return c.address
}

// Invalidate drops cached chain-specific state. Call on a chain-changed
// notification.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.weth = nil
	c.mu.Unlock()
}

// WETH returns the router's wrapped-native token address.
func (c *Client) WETH(ctx context.Context) (common.Address, error) {
	c.mu.Lock()
	cached := c.weth
	c.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	var out common.Address
	if err := c.view(ctx, c.address, c.routerABI, "WETH", &out); err != nil {
		return common.Address{}, fmt.Errorf("query WETH: %w", err)
	}

	c.mu.Lock()
	c.weth = &out
	c.mu.Unlock()
	return out, nil
}

// GetAmountsOut asks the router for the expected output of amountIn across
// path. Read-only; one amount per hop boundary.
func (c *Client) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	data, err := c.routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("pack getAmountsOut: %w", err)
	}
	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call getAmountsOut: %w", err)
	}
	out, err := c.routerABI.Unpack("getAmountsOut", res)
	if err != nil {
		return nil, fmt.Errorf("unpack getAmountsOut: %w", err)
	}
	amounts, ok := out[0].([]*big.Int)
	if !ok || len(amounts) == 0 {
		return nil, fmt.Errorf("getAmountsOut returned no amounts")
	}
	return amounts, nil
}

// SwapCall is a fully specified router invocation, ready for gas estimation
// or submission.
type SwapCall struct {
	Method string
	Value  *big.Int
	Data   []byte
}

// BuildSwapExactETHForTokens packs the native-in swap entry point. The input
// amount travels as attached value.
func (c *Client) BuildSwapExactETHForTokens(value, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) (SwapCall, error) {
	data, err := c.routerABI.Pack("swapExactETHForTokens", amountOutMin, path, to, deadline)
	if err != nil {
		return SwapCall{}, fmt.Errorf("pack swapExactETHForTokens: %w", err)
	}
	return SwapCall{Method: "swapExactETHForTokens", Value: value, Data: data}, nil
}

// BuildSwapExactTokensForTokens packs the token-in swap entry point.
func (c *Client) BuildSwapExactTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) (SwapCall, error) {
	data, err := c.routerABI.Pack("swapExactTokensForTokens", amountIn, amountOutMin, path, to, deadline)
	if err != nil {
		return SwapCall{}, fmt.Errorf("pack swapExactTokensForTokens: %w", err)
	}
	return SwapCall{Method: "swapExactTokensForTokens", Value: new(big.Int), Data: data}, nil
}

// SubmitSwap signs and sends a packed swap call and waits for it to be
// mined.
func (c *Client) SubmitSwap(ctx context.Context, session wallet.Session, call SwapCall, gasLimit uint64) (*gethtypes.Receipt, error) {
	c.log.Debug().
		Str("method", call.Method).
		Str("router", c.address.Hex()).
		Msg("submitting swap")
	return c.sendAndWait(ctx, session, c.address, call.Value, call.Data, gasLimit)
}

// sendAndWait builds, signs, submits and awaits one transaction. A mined
// receipt with a failed status is an error: nothing is assumed successful
// before finality.
func (c *Client) sendAndWait(ctx context.Context, session wallet.Session, to common.Address, value *big.Int, data []byte, gasLimit uint64) (*gethtypes.Receipt, error) {
	if !session.HasSigner() {
		return nil, types.ErrSignerUnavailable
	}

	nonce, err := c.eth.PendingNonceAt(ctx, session.Account)
	if err != nil {
		return nil, fmt.Errorf("get nonce: %w", err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gas price: %w", err)
	}

	if gasLimit == 0 {
		msg := ethereum.CallMsg{From: session.Account, To: &to, Value: value, Data: data}
		if est, err := c.eth.EstimateGas(ctx, msg); err == nil {
			gasLimit = est * 120 / 100 // 20% buffer
		} else {
			c.log.Warn().Err(err).Msg("send-time gas estimate failed, using default limit")
			gasLimit = defaultSwapGasLimit
		}
	}

	tx := gethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signed, err := session.SignTx(tx)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	c.log.Info().Str("tx", signed.Hash().Hex()).Msg("transaction submitted, awaiting confirmation")

	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return nil, fmt.Errorf("wait for confirmation of %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("transaction %s reverted on-chain", signed.Hash().Hex())
	}
	return receipt, nil
}

// view packs a no-argument call and unpacks its single output into out.
func (c *Client) view(ctx context.Context, target common.Address, contractABI abi.ABI, method string, out interface{}) error {
	data, err := contractABI.Pack(method)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}
	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &target, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	return contractABI.UnpackIntoInterface(out, method, res)
}

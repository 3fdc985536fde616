package router

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"dexswap/pkg/wallet"
)

// Allowance reads how much of token the spender may move on the owner's
// behalf.
func (c *Client) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data, err := c.erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("pack allowance: %w", err)
	}
	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call allowance: %w", err)
	}
	if len(res) == 0 {
		return new(big.Int), nil
	}
	var out *big.Int
	if err := c.erc20ABI.UnpackIntoInterface(&out, "allowance", res); err != nil {
		return nil, fmt.Errorf("unpack allowance: %w", err)
	}
	return out, nil
}

// BalanceOf reads the token balance of an account.
func (c *Client) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	data, err := c.erc20ABI.Pack("balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("pack balanceOf: %w", err)
	}
	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call balanceOf: %w", err)
	}
	if len(res) == 0 {
		return new(big.Int), nil
	}
	var out *big.Int
	if err := c.erc20ABI.UnpackIntoInterface(&out, "balanceOf", res); err != nil {
		return nil, fmt.Errorf("unpack balanceOf: %w", err)
	}
	return out, nil
}

// NativeBalance reads the native-coin balance of an account.
func (c *Client) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.eth.BalanceAt(ctx, account, nil)
}

// Decimals reads the token's precision.
func (c *Client) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	var out uint8
	if err := c.view(ctx, token, c.erc20ABI, "decimals", &out); err != nil {
		return 0, err
	}
	return out, nil
}

// Symbol reads the token's display symbol.
func (c *Client) Symbol(ctx context.Context, token common.Address) (string, error) {
	var out string
	if err := c.view(ctx, token, c.erc20ABI, "symbol", &out); err != nil {
		return "", err
	}
	return out, nil
}

// Approve raises the spender's allowance to exactly amount and waits for the
// approval to be mined.
func (c *Client) Approve(ctx context.Context, session wallet.Session, token, spender common.Address, amount *big.Int) (*gethtypes.Receipt, error) {
	data, err := c.erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	c.log.Debug().
		Str("token", token.Hex()).
		Str("spender", spender.Hex()).
		Str("amount", amount.String()).
		Msg("submitting approval")
	return c.sendAndWait(ctx, session, token, new(big.Int), data, 0)
}

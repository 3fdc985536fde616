package router

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TxInfo is a point-in-time view of a submitted transaction.
type TxInfo struct {
	Hash     common.Hash
	Nonce    uint64
	To       *common.Address
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
	Pending  bool

	// Receipt fields, populated once mined.
	Mined       bool
	BlockNumber uint64
	GasUsed     uint64
	Succeeded   bool
}

// TransactionInfo retrieves a transaction and, if mined, its receipt.
func (c *Client) TransactionInfo(ctx context.Context, hash common.Hash) (*TxInfo, error) {
	tx, pending, err := c.eth.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	info := &TxInfo{
		Hash:     tx.Hash(),
		Nonce:    tx.Nonce(),
		To:       tx.To(),
		Value:    tx.Value(),
		GasLimit: tx.Gas(),
		GasPrice: tx.GasPrice(),
		Pending:  pending,
	}

	if pending {
		return info, nil
	}

	receipt, err := c.eth.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("get transaction receipt: %w", err)
	}
	info.Mined = true
	info.BlockNumber = receipt.BlockNumber.Uint64()
	info.GasUsed = receipt.GasUsed
	info.Succeeded = receipt.Status == gethtypes.ReceiptStatusSuccessful
	return info, nil
}

package wallet

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"dexswap/pkg/types"
)

// Provider is the raw request channel to the wallet boundary. The core never
// assumes a transport beyond "send a method with params, decode a result".
type Provider interface {
	Request(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

type rpcProvider struct {
	rpc *rpc.Client
}

// DialProvider connects a Provider to a JSON-RPC endpoint.
func DialProvider(ctx context.Context, url string) (Provider, *rpc.Client, error) {
	if url == "" {
		return nil, nil, fmt.Errorf("%w: no RPC URL configured", types.ErrWalletUnavailable)
	}
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", types.ErrWalletUnavailable, err)
	}
	return &rpcProvider{rpc: client}, client, nil
}

func (p *rpcProvider) Request(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return p.rpc.CallContext(ctx, result, method, args...)
}

func (p *rpcProvider) Close() {
	p.rpc.Close()
}

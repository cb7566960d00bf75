package reader

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// EthereumNode is a single JSON-RPC endpoint able to answer eth_call.
type EthereumNode interface {
	NodeName() string
	NodeURL() string
	// Dial establishes the underlying rpc client. It is safe to call
	// more than once.
	Dial(ctx context.Context) error
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	// Close releases the rpc client. The node may be dialed again.
	Close()
}

package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const TIMEOUT time.Duration = 4 * time.Second

type OneNodeReader struct {
	nodeName  string
	nodeURL   string
	timeout   time.Duration
	client    *rpc.Client
	ethClient *ethclient.Client
	mu        sync.Mutex
}

func NewOneNodeReader(name, url string, timeout time.Duration) *OneNodeReader {
	if timeout <= 0 {
		timeout = TIMEOUT
	}
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
		timeout:  timeout,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

func (onr *OneNodeReader) Dial(ctx context.Context) error {
	_, err := onr.EthClient(ctx)
	return err
}

func (onr *OneNodeReader) EthClient(ctx context.Context) (*ethclient.Client, error) {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.ethClient != nil {
		return onr.ethClient, nil
	}
	client, err := rpc.DialContext(ctx, onr.nodeURL)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	onr.ethClient = ethclient.NewClient(client)
	return onr.ethClient, nil
}

func (onr *OneNodeReader) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, onr.timeout)
	defer cancel()
	return ethcli.CallContract(timeout, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
}

// Close releases the rpc client if one was dialed.
func (onr *OneNodeReader) Close() {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		onr.client.Close()
		onr.client = nil
		onr.ethClient = nil
	}
}

package reader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// EthReader fans every read out to all configured nodes and returns the
// first successful answer. Calls are never retried.
type EthReader struct {
	nodes map[string]EthereumNode
}

func NewEthReaderGeneric(nodes map[string]string, timeout time.Duration) *EthReader {
	ns := map[string]EthereumNode{}
	for name, c := range nodes {
		ns[name] = NewOneNodeReader(name, c, timeout)
	}
	return &EthReader{nodes: ns}
}

// NewEthReaderWithNodes builds a reader over already constructed nodes.
func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{nodes: ns}
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

// NodeNames returns the configured node names in a stable order.
func (er *EthReader) NodeNames() []string {
	names := make([]string, 0, len(er.nodes))
	for name := range er.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dial connects every node. It succeeds when at least one node is usable.
func (er *EthReader) Dial(ctx context.Context) error {
	if len(er.nodes) == 0 {
		return fmt.Errorf("no nodes configured")
	}
	errs := []error{}
	for _, name := range er.NodeNames() {
		if err := er.nodes[name].Dial(ctx); err != nil {
			errs = append(errs, wrapError(err, name))
		}
	}
	if len(errs) == len(er.nodes) {
		return fmt.Errorf("couldn't dial any nodes: %w", errors.Join(errs...))
	}
	return nil
}

// Close closes every node.
func (er *EthReader) Close() {
	for _, n := range er.nodes {
		n.Close()
	}
}

type readContractToBytesResponse struct {
	Data  []byte
	Error error
}

// CallContract sends pre-packed calldata to caddr.
func (er *EthReader) CallContract(ctx context.Context, caddr common.Address, data []byte) ([]byte, error) {
	resCh := make(chan readContractToBytesResponse, len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			out, err := n.CallContract(ctx, caddr, data)
			resCh <- readContractToBytesResponse{
				Data:  out,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Data, nil
		}
		errs = append(errs, result.Error)
	}
	return nil, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ReadContractToBytes(
	ctx context.Context,
	caddr common.Address,
	abi *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	data, err := abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	return er.CallContract(ctx, caddr, data)
}

func (er *EthReader) ReadContractWithABI(
	ctx context.Context,
	result interface{},
	caddr common.Address,
	abi *abi.ABI,
	method string,
	args ...interface{},
) error {
	responseBytes, err := er.ReadContractToBytes(ctx, caddr, abi, method, args...)
	if err != nil {
		return err
	}
	return abi.UnpackIntoInterface(result, method, responseBytes)
}

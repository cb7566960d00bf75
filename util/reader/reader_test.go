package reader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNode struct {
	name    string
	out     []byte
	err     error
	dialErr error
	closed  int
}

func (n *stubNode) NodeName() string { return n.name }
func (n *stubNode) NodeURL() string  { return "http://" + n.name }

func (n *stubNode) Dial(ctx context.Context) error { return n.dialErr }

func (n *stubNode) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return n.out, n.err
}

func (n *stubNode) Close() { n.closed++ }

var testAddr = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

func TestCallContractReturnsFirstSuccess(t *testing.T) {
	r := NewEthReaderWithNodes(
		&stubNode{name: "bad", err: errors.New("rate limited")},
		&stubNode{name: "good", out: []byte{1, 2, 3}},
	)
	out, err := r.CallContract(context.Background(), testAddr, []byte{0xaa})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, out)
}

func TestCallContractJoinsAllErrors(t *testing.T) {
	r := NewEthReaderWithNodes(
		&stubNode{name: "alpha", err: errors.New("timeout")},
		&stubNode{name: "beta", err: errors.New("reverted")},
	)
	_, err := r.CallContract(context.Background(), testAddr, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "couldn't read from any nodes")
	assert.Contains(t, err.Error(), "alpha: timeout")
	assert.Contains(t, err.Error(), "beta: reverted")
}

func TestDialNeedsOneUsableNode(t *testing.T) {
	ok := NewEthReaderWithNodes(
		&stubNode{name: "down", dialErr: errors.New("refused")},
		&stubNode{name: "up"},
	)
	assert.NoError(t, ok.Dial(context.Background()))

	down := NewEthReaderWithNodes(&stubNode{name: "down", dialErr: errors.New("refused")})
	err := down.Dial(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down: refused")

	assert.Error(t, NewEthReaderWithNodes().Dial(context.Background()))
}

func TestNodeNamesSorted(t *testing.T) {
	r := NewEthReaderGeneric(map[string]string{
		"infura":  "https://mainnet.infura.io/v3/x",
		"alchemy": "https://eth-mainnet.g.alchemy.com/v2/x",
	}, TIMEOUT)
	assert.Equal(t, []string{"alchemy", "infura"}, r.NodeNames())
}

func TestReadContractWithABI(t *testing.T) {
	def := `[{"type":"function","name":"owner","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}]`
	a, err := abi.JSON(strings.NewReader(def))
	require.NoError(t, err)

	want := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	packed, err := a.Methods["owner"].Outputs.Pack(want)
	require.NoError(t, err)

	r := NewEthReaderWithNodes(&stubNode{name: "node", out: packed})
	var got common.Address
	require.NoError(t, r.ReadContractWithABI(context.Background(), &got, testAddr, &a, "owner", common.Hash{}))
	assert.Equal(t, want, got)
}

func TestCloseClosesEveryNode(t *testing.T) {
	down := &stubNode{name: "down", dialErr: errors.New("refused")}
	up := &stubNode{name: "up"}
	r := NewEthReaderWithNodes(down, up)
	require.NoError(t, r.Dial(context.Background()))

	r.Close()
	assert.Equal(t, 1, down.closed)
	assert.Equal(t, 1, up.closed)
}

func TestOneNodeReaderCloseIsIdempotent(t *testing.T) {
	onr := NewOneNodeReader("local", "http://127.0.0.1:1", 0)
	onr.Close()
	require.NoError(t, onr.Dial(context.Background()))
	onr.Close()
	onr.Close()
	assert.Nil(t, onr.ethClient)
}

package ens

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChain answers eth_call against a tiny in-memory ENS deployment.
type fakeChain struct {
	registry  common.Address
	registrar common.Address
	resolvers map[common.Hash]common.Address
	supports  map[common.Address][][4]byte
	addrs     map[common.Address]common.Address
	expiry    *big.Int
	// reverting resolvers fail every supportsInterface call.
	reverting map[common.Address]bool

	mu            sync.Mutex
	registryCalls int
}

func (c *fakeChain) supported(r common.Address, iface [4]byte) bool {
	for _, s := range c.supports[r] {
		if s == iface {
			return true
		}
	}
	return false
}

func (c *fakeChain) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	sel, args := data[:4], data[4:]
	switch {
	case to == c.registry && bytes.Equal(sel, registryABI.Methods["resolver"].ID):
		c.mu.Lock()
		c.registryCalls++
		c.mu.Unlock()
		in, err := registryABI.Methods["resolver"].Inputs.Unpack(args)
		if err != nil {
			return nil, err
		}
		return registryABI.Methods["resolver"].Outputs.Pack(c.resolvers[common.Hash(in[0].([32]byte))])
	case to == c.registrar && bytes.Equal(sel, registrarABI.Methods["nameExpires"].ID):
		return registrarABI.Methods["nameExpires"].Outputs.Pack(c.expiry)
	case bytes.Equal(sel, resolverABI.Methods["supportsInterface"].ID):
		if c.reverting[to] {
			return nil, fmt.Errorf("execution reverted")
		}
		in, err := resolverABI.Methods["supportsInterface"].Inputs.Unpack(args)
		if err != nil {
			return nil, err
		}
		return resolverABI.Methods["supportsInterface"].Outputs.Pack(c.supported(to, in[0].([4]byte)))
	case bytes.Equal(sel, resolverABI.Methods["addr"].ID):
		return resolverABI.Methods["addr"].Outputs.Pack(c.addrs[to])
	case bytes.Equal(sel, resolverABI.Methods["resolve"].ID):
		in, err := resolverABI.Methods["resolve"].Inputs.Unpack(args)
		if err != nil {
			return nil, err
		}
		inner, err := c.CallContract(ctx, to, in[1].([]byte))
		if err != nil {
			return nil, err
		}
		return resolverABI.Methods["resolve"].Outputs.Pack(inner)
	}
	return nil, fmt.Errorf("execution reverted")
}

var (
	testRegistry  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	testRegistrar = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	directRes     = common.HexToAddress("0x0000000000000000000000000000000000000001")
	wildcardRes   = common.HexToAddress("0x0000000000000000000000000000000000000002")
	plainParent   = common.HexToAddress("0x0000000000000000000000000000000000000003")
	legacyRes     = common.HexToAddress("0x0000000000000000000000000000000000000004")
	target        = common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
)

func newFakeChain() *fakeChain {
	return &fakeChain{
		registry:  testRegistry,
		registrar: testRegistrar,
		resolvers: map[common.Hash]common.Address{
			NameHash("vitalik.eth"): directRes,
			NameHash("wild.eth"):    wildcardRes,
			NameHash("plain.eth"):   plainParent,
			NameHash("legacy.eth"):  legacyRes,
			NameHash("b.xyz"):       plainParent,
			NameHash("xyz"):         wildcardRes,
		},
		supports: map[common.Address][][4]byte{
			directRes:   {interfaceAddr, interfaceText},
			wildcardRes: {interfaceExtended},
			plainParent: {interfaceAddr},
		},
		addrs: map[common.Address]common.Address{
			directRes:   target,
			wildcardRes: target,
			plainParent: target,
			legacyRes:   target,
		},
		reverting: map[common.Address]bool{legacyRes: true},
		expiry:    big.NewInt(1700000000),
	}
}

func TestRPCProviderDirectResolver(t *testing.T) {
	p := NewRPCProvider(newFakeChain(), testRegistry, testRegistrar)

	r, err := p.Resolver(context.Background(), "Vitalik.eth")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, directRes, r.Address())
	assert.True(t, r.Capabilities().Has(CapAddr))
	assert.False(t, r.Capabilities().Has(CapContentHash))
	assert.False(t, r.Capabilities().Has(CapExtended))

	_, err = r.ContentHash(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)

	addr, err := p.ResolveAddress(context.Background(), "vitalik.eth")
	require.NoError(t, err)
	require.NotNil(t, addr)
	assert.Equal(t, target, *addr)
}

func TestRPCProviderNoResolver(t *testing.T) {
	chain := newFakeChain()
	p := NewRPCProvider(chain, testRegistry, testRegistrar)

	r, err := p.Resolver(context.Background(), "nobody.eth")
	require.NoError(t, err)
	assert.Nil(t, r)

	addr, err := p.ResolveAddress(context.Background(), "nobody.eth")
	require.NoError(t, err)
	assert.Nil(t, addr)
}

func TestRPCProviderWildcardParent(t *testing.T) {
	p := NewRPCProvider(newFakeChain(), testRegistry, testRegistrar)

	r, err := p.Resolver(context.Background(), "sub.wild.eth")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, wildcardRes, r.Address())
	assert.True(t, r.Capabilities().Has(CapExtended))

	addr, err := r.Addr(context.Background())
	require.NoError(t, err)
	assert.Equal(t, target, addr)
}

func TestRPCProviderIgnoresNonWildcardParent(t *testing.T) {
	p := NewRPCProvider(newFakeChain(), testRegistry, testRegistrar)

	r, err := p.Resolver(context.Background(), "sub.plain.eth")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestRPCProviderExpiry(t *testing.T) {
	p := NewRPCProvider(newFakeChain(), testRegistry, testRegistrar)

	exp, err := p.Expiry(context.Background(), LabelHash("vitalik"))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), exp.Int64())
}

func TestRPCProviderRegistryFailureSurfaces(t *testing.T) {
	p := NewRPCProvider(newFakeChain(), common.HexToAddress("0xdead"), testRegistrar)

	_, err := p.Resolver(context.Background(), "vitalik.eth")
	assert.Error(t, err)
}

func TestRPCProviderStopsAtNonWildcardParent(t *testing.T) {
	p := NewRPCProvider(newFakeChain(), testRegistry, testRegistrar)

	r, err := p.Resolver(context.Background(), "a.b.xyz")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = p.Resolver(context.Background(), "a.xyz")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, wildcardRes, r.Address())
}

func TestRPCProviderRevertingInterfaceCheckAssumesSupport(t *testing.T) {
	p := NewRPCProvider(newFakeChain(), testRegistry, testRegistrar)

	r, err := p.Resolver(context.Background(), "legacy.eth")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, legacyRes, r.Address())
	for _, c := range []Capability{CapAddr, CapAddrByCoin, CapText, CapContentHash, CapContent} {
		assert.True(t, r.Capabilities().Has(c))
	}
	assert.False(t, r.Capabilities().Has(CapExtended))

	addr, err := r.Addr(context.Background())
	require.NoError(t, err)
	assert.Equal(t, target, addr)
}

func TestRPCProviderDiscoversOncePerName(t *testing.T) {
	chain := newFakeChain()
	p := NewRPCProvider(chain, testRegistry, testRegistrar)

	_, err := p.ResolveAddress(context.Background(), "vitalik.eth")
	require.NoError(t, err)
	r, err := p.Resolver(context.Background(), "vitalik.eth")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 1, chain.registryCalls)

	_, err = p.Resolver(context.Background(), "nobody.eth")
	require.NoError(t, err)
	_, err = p.Resolver(context.Background(), "nobody.eth")
	require.NoError(t, err)
	assert.Equal(t, 2, chain.registryCalls)
}

// zeroEth answers every eth_call with a zero word.
type zeroEth struct{}

func (zeroEth) Call(args map[string]interface{}, block string) (hexutil.Bytes, error) {
	return make(hexutil.Bytes, 32), nil
}

func TestDialRPCConnectionsAreClosed(t *testing.T) {
	srv := rpc.NewServer()
	require.NoError(t, srv.RegisterName("eth", zeroEth{}))
	ts := httptest.NewServer(srv.WebsocketHandler([]string{"*"}))
	defer ts.Close()
	defer srv.Stop()

	nodes := map[string]string{"ws": "ws" + strings.TrimPrefix(ts.URL, "http")}
	engine := NewEngine(DialRPC(nodes, time.Second, testRegistry, testRegistrar), DefaultOptions())

	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		p := engine.Resolve(context.Background(), "nobody.eth")
		require.Equal(t, OutcomeNotFound, p.Outcome(), p.FatalError)
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+10
	}, 5*time.Second, 50*time.Millisecond)
}

package ens

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/ensgraph/util/reader"
)

// ContractCaller executes a read-only eth_call. *reader.EthReader is the
// production implementation.
type ContractCaller interface {
	CallContract(ctx context.Context, caddr common.Address, data []byte) ([]byte, error)
}

// RPCProvider answers Provider queries with eth_call against the ENS
// registry, resolvers and the .eth registrar. Discovered resolvers are
// kept per name for the provider's lifetime.
type RPCProvider struct {
	caller    ContractCaller
	registry  common.Address
	registrar common.Address

	mu        sync.Mutex
	resolvers map[string]Resolver
}

func NewRPCProvider(caller ContractCaller, registry, registrar common.Address) *RPCProvider {
	return &RPCProvider{
		caller:    caller,
		registry:  registry,
		registrar: registrar,
		resolvers: map[string]Resolver{},
	}
}

// Close closes the caller when it holds connections.
func (p *RPCProvider) Close() error {
	if c, ok := p.caller.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}

// DialRPC returns a factory dialing a fresh reader over nodes on every
// call. The provider it returns must be closed.
func DialRPC(nodes map[string]string, timeout time.Duration, registry, registrar common.Address) ProviderFactory {
	return func(ctx context.Context) (Provider, error) {
		r := reader.NewEthReaderGeneric(nodes, timeout)
		if err := r.Dial(ctx); err != nil {
			r.Close()
			return nil, err
		}
		return NewRPCProvider(r, registry, registrar), nil
	}
}

func call(
	ctx context.Context,
	caller ContractCaller,
	to common.Address,
	a *abi.ABI,
	method string,
	out interface{},
	args ...interface{},
) error {
	data, err := a.Pack(method, args...)
	if err != nil {
		return err
	}
	res, err := caller.CallContract(ctx, to, data)
	if err != nil {
		return err
	}
	return a.UnpackIntoInterface(out, method, res)
}

func (p *RPCProvider) resolverOf(ctx context.Context, name string) (common.Address, error) {
	var addr common.Address
	err := call(ctx, p.caller, p.registry, registryABI, "resolver", &addr, NameHash(name))
	if err != nil {
		return common.Address{}, fmt.Errorf("registry resolver(%s): %w", name, err)
	}
	return addr, nil
}

// Resolver walks from name up to its parents until it finds a resolver.
// The first resolver found on a parent is only used when it supports
// ENSIP-10 wildcard resolution, otherwise name has none.
func (p *RPCProvider) Resolver(ctx context.Context, name string) (Resolver, error) {
	name = Normalize(name)
	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.resolvers[name]; ok {
		return r, nil
	}
	r, err := p.discover(ctx, name)
	if err != nil {
		return nil, err
	}
	p.resolvers[name] = r
	return r, nil
}

func (p *RPCProvider) discover(ctx context.Context, name string) (Resolver, error) {
	current := name
	for {
		if current == "" || (current == GatedSuffix && name != GatedSuffix) {
			return nil, nil
		}
		raddr, err := p.resolverOf(ctx, current)
		if err != nil {
			return nil, err
		}
		if raddr != (common.Address{}) {
			caps := p.probe(ctx, raddr)
			if current != name && !caps.Has(CapExtended) {
				return nil, nil
			}
			return p.bind(raddr, name, caps), nil
		}
		current = ParentName(current)
	}
}

var probes = []struct {
	cap   Capability
	iface [4]byte
}{
	{CapAddr, interfaceAddr},
	{CapAddrByCoin, interfaceAddrByCoin},
	{CapText, interfaceText},
	{CapContentHash, interfaceContentHash},
	{CapContent, interfaceContent},
	{CapExtended, interfaceExtended},
}

// probe asks the resolver which profiles it implements. A failing probe is
// treated as supported so the record read itself decides, except for the
// extended profile which changes how every call is encoded.
func (p *RPCProvider) probe(ctx context.Context, raddr common.Address) CapabilitySet {
	var caps CapabilitySet
	for _, pr := range probes {
		var ok bool
		err := call(ctx, p.caller, raddr, resolverABI, "supportsInterface", &ok, pr.iface)
		if err != nil {
			if pr.cap != CapExtended {
				caps = caps.With(pr.cap)
			}
			continue
		}
		if ok {
			caps = caps.With(pr.cap)
		}
	}
	return caps
}

func (p *RPCProvider) bind(raddr common.Address, name string, caps CapabilitySet) Resolver {
	if caps.Has(CapExtended) {
		return &extendedResolver{
			standardResolver: standardResolver{
				caller:  p.caller,
				address: raddr,
				node:    NameHash(name),
				caps:    AllCapabilities,
			},
			name: name,
		}
	}
	return &standardResolver{
		caller:  p.caller,
		address: raddr,
		node:    NameHash(name),
		caps:    caps,
	}
}

func (p *RPCProvider) ResolveAddress(ctx context.Context, name string) (*common.Address, error) {
	r, err := p.Resolver(ctx, name)
	if err != nil || r == nil {
		return nil, err
	}
	addr, err := r.Addr(ctx)
	if errors.Is(err, ErrUnsupported) {
		var raw []byte
		raw, err = r.AddrByCoin(ctx, CoinTypeETH)
		if len(raw) == common.AddressLength {
			addr = common.BytesToAddress(raw)
		}
	}
	if err != nil {
		return nil, err
	}
	if addr == (common.Address{}) {
		return nil, nil
	}
	return &addr, nil
}

func (p *RPCProvider) Owner(ctx context.Context, node common.Hash) (common.Address, error) {
	var owner common.Address
	err := call(ctx, p.caller, p.registry, registryABI, "owner", &owner, node)
	return owner, err
}

func (p *RPCProvider) Expiry(ctx context.Context, labelHash common.Hash) (*big.Int, error) {
	var expiry *big.Int
	err := call(ctx, p.caller, p.registrar, registrarABI, "nameExpires", &expiry, labelHash.Big())
	return expiry, err
}

type standardResolver struct {
	caller  ContractCaller
	address common.Address
	node    common.Hash
	caps    CapabilitySet
}

func (r *standardResolver) Address() common.Address {
	return r.address
}

func (r *standardResolver) Capabilities() CapabilitySet {
	return r.caps
}

func (r *standardResolver) read(ctx context.Context, a *abi.ABI, method string, out interface{}, args ...interface{}) error {
	return call(ctx, r.caller, r.address, a, method, out, args...)
}

func (r *standardResolver) Addr(ctx context.Context) (common.Address, error) {
	return resolverAddr(ctx, r.caps, r.read, r.node)
}

func (r *standardResolver) AddrByCoin(ctx context.Context, coinType uint64) ([]byte, error) {
	return resolverAddrByCoin(ctx, r.caps, r.read, r.node, coinType)
}

func (r *standardResolver) Text(ctx context.Context, key string) (string, error) {
	return resolverText(ctx, r.caps, r.read, r.node, key)
}

func (r *standardResolver) ContentHash(ctx context.Context) ([]byte, error) {
	return resolverContentHash(ctx, r.caps, r.read, r.node)
}

func (r *standardResolver) Content(ctx context.Context) (common.Hash, error) {
	return resolverContent(ctx, r.caps, r.read, r.node)
}

// extendedResolver routes every record read through ENSIP-10
// resolve(bytes,bytes). Offchain (CCIP-read) answers are not followed.
type extendedResolver struct {
	standardResolver
	name string
}

func (r *extendedResolver) read(ctx context.Context, a *abi.ABI, method string, out interface{}, args ...interface{}) error {
	inner, err := a.Pack(method, args...)
	if err != nil {
		return err
	}
	dnsName, err := DNSEncode(r.name)
	if err != nil {
		return err
	}
	var answer []byte
	if err := call(ctx, r.caller, r.address, resolverABI, "resolve", &answer, dnsName, inner); err != nil {
		return err
	}
	return a.UnpackIntoInterface(out, method, answer)
}

func (r *extendedResolver) Addr(ctx context.Context) (common.Address, error) {
	return resolverAddr(ctx, r.caps, r.read, r.node)
}

func (r *extendedResolver) AddrByCoin(ctx context.Context, coinType uint64) ([]byte, error) {
	return resolverAddrByCoin(ctx, r.caps, r.read, r.node, coinType)
}

func (r *extendedResolver) Text(ctx context.Context, key string) (string, error) {
	return resolverText(ctx, r.caps, r.read, r.node, key)
}

func (r *extendedResolver) ContentHash(ctx context.Context) ([]byte, error) {
	return resolverContentHash(ctx, r.caps, r.read, r.node)
}

func (r *extendedResolver) Content(ctx context.Context) (common.Hash, error) {
	return resolverContent(ctx, r.caps, r.read, r.node)
}

type readFunc func(ctx context.Context, a *abi.ABI, method string, out interface{}, args ...interface{}) error

func resolverAddr(ctx context.Context, caps CapabilitySet, read readFunc, node common.Hash) (common.Address, error) {
	if !caps.Has(CapAddr) {
		return common.Address{}, ErrUnsupported
	}
	var addr common.Address
	err := read(ctx, resolverABI, "addr", &addr, node)
	return addr, err
}

func resolverAddrByCoin(ctx context.Context, caps CapabilitySet, read readFunc, node common.Hash, coinType uint64) ([]byte, error) {
	if !caps.Has(CapAddrByCoin) {
		return nil, ErrUnsupported
	}
	var raw []byte
	err := read(ctx, multicoinABI, "addr", &raw, node, new(big.Int).SetUint64(coinType))
	return raw, err
}

func resolverText(ctx context.Context, caps CapabilitySet, read readFunc, node common.Hash, key string) (string, error) {
	if !caps.Has(CapText) {
		return "", ErrUnsupported
	}
	var text string
	err := read(ctx, resolverABI, "text", &text, node, key)
	return text, err
}

func resolverContentHash(ctx context.Context, caps CapabilitySet, read readFunc, node common.Hash) ([]byte, error) {
	if !caps.Has(CapContentHash) {
		return nil, ErrUnsupported
	}
	var raw []byte
	err := read(ctx, resolverABI, "contenthash", &raw, node)
	return raw, err
}

func resolverContent(ctx context.Context, caps CapabilitySet, read readFunc, node common.Hash) (common.Hash, error) {
	if !caps.Has(CapContent) {
		return common.Hash{}, ErrUnsupported
	}
	var content [32]byte
	err := read(ctx, resolverABI, "content", &content, node)
	return common.Hash(content), err
}

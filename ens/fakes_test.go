package ens_test

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/ensgraph/ens"
)

var errBoom = errors.New("boom")

type fakeProvider struct {
	address    *common.Address
	addressErr error

	resolver    ens.Resolver
	resolverErr error

	owner    common.Address
	ownerErr error
	ownerHit atomic.Int32

	expiry     *big.Int
	expiryErr  error
	expiryHit  atomic.Int32
	expiryHash common.Hash
}

func (p *fakeProvider) ResolveAddress(ctx context.Context, name string) (*common.Address, error) {
	return p.address, p.addressErr
}

func (p *fakeProvider) Resolver(ctx context.Context, name string) (ens.Resolver, error) {
	return p.resolver, p.resolverErr
}

func (p *fakeProvider) Owner(ctx context.Context, node common.Hash) (common.Address, error) {
	p.ownerHit.Add(1)
	return p.owner, p.ownerErr
}

func (p *fakeProvider) Expiry(ctx context.Context, labelHash common.Hash) (*big.Int, error) {
	p.expiryHit.Add(1)
	p.expiryHash = labelHash
	return p.expiry, p.expiryErr
}

// closingProvider records when the engine closes it.
type closingProvider struct {
	*fakeProvider
	closed       atomic.Int32
	ownerAtClose atomic.Int32
}

func (p *closingProvider) Close() error {
	p.ownerAtClose.Store(p.ownerHit.Load())
	p.closed.Add(1)
	return nil
}

func (p *fakeProvider) factory() ens.ProviderFactory {
	return func(ctx context.Context) (ens.Provider, error) {
		return p, nil
	}
}

type fakeResolver struct {
	address common.Address
	caps    ens.CapabilitySet

	addr    common.Address
	addrErr error

	coins    map[uint64][]byte
	coinErrs map[uint64]error

	texts    map[string]string
	textErrs map[string]error
	panicKey string

	contentHash    []byte
	contentHashErr error
	content        common.Hash
}

func (r *fakeResolver) Address() common.Address {
	return r.address
}

func (r *fakeResolver) Capabilities() ens.CapabilitySet {
	return r.caps
}

func (r *fakeResolver) Addr(ctx context.Context) (common.Address, error) {
	if !r.caps.Has(ens.CapAddr) {
		return common.Address{}, ens.ErrUnsupported
	}
	return r.addr, r.addrErr
}

func (r *fakeResolver) AddrByCoin(ctx context.Context, coinType uint64) ([]byte, error) {
	if !r.caps.Has(ens.CapAddrByCoin) {
		return nil, ens.ErrUnsupported
	}
	if err := r.coinErrs[coinType]; err != nil {
		return nil, err
	}
	return r.coins[coinType], nil
}

func (r *fakeResolver) Text(ctx context.Context, key string) (string, error) {
	if !r.caps.Has(ens.CapText) {
		return "", ens.ErrUnsupported
	}
	if key == r.panicKey {
		panic("resolver exploded")
	}
	if err := r.textErrs[key]; err != nil {
		return "", err
	}
	return r.texts[key], nil
}

func (r *fakeResolver) ContentHash(ctx context.Context) ([]byte, error) {
	if !r.caps.Has(ens.CapContentHash) {
		return nil, ens.ErrUnsupported
	}
	return r.contentHash, r.contentHashErr
}

func (r *fakeResolver) Content(ctx context.Context) (common.Hash, error) {
	if !r.caps.Has(ens.CapContent) {
		return common.Hash{}, ens.ErrUnsupported
	}
	return r.content, nil
}

func addrPtr(hex string) *common.Address {
	a := common.HexToAddress(hex)
	return &a
}

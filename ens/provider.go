package ens

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnsupported is returned by a Resolver method whose capability the
// resolver does not advertise.
var ErrUnsupported = errors.New("unsupported by resolver")

// Provider answers the name-resolution queries the engine needs.
type Provider interface {
	// ResolveAddress forward-resolves name. A nil address with a nil
	// error means the name has no address record.
	ResolveAddress(ctx context.Context, name string) (*common.Address, error)
	// Resolver discovers the resolver responsible for name. A nil
	// Resolver with a nil error means there is none.
	Resolver(ctx context.Context, name string) (Resolver, error)
	// Owner reads the registry owner of a namehash.
	Owner(ctx context.Context, node common.Hash) (common.Address, error)
	// Expiry reads the registrar expiry of a labelhash, in unix seconds.
	Expiry(ctx context.Context, labelHash common.Hash) (*big.Int, error)
}

// ProviderFactory builds a Provider. An error here is a setup failure and
// aborts a resolution outright. A Provider that implements io.Closer is
// closed when its resolution finishes.
type ProviderFactory func(ctx context.Context) (Provider, error)

// Capability is one resolver profile.
type Capability uint16

const (
	CapAddr Capability = 1 << iota
	CapAddrByCoin
	CapText
	CapContentHash
	CapContent
	CapExtended
)

// CapabilitySet is the set of profiles a resolver advertised at discovery.
type CapabilitySet uint16

func (cs CapabilitySet) Has(c Capability) bool {
	return uint16(cs)&uint16(c) != 0
}

func (cs CapabilitySet) With(c Capability) CapabilitySet {
	return CapabilitySet(uint16(cs) | uint16(c))
}

// AllCapabilities is what an extended resolver is assumed to answer.
const AllCapabilities = CapabilitySet(CapAddr | CapAddrByCoin | CapText | CapContentHash | CapContent | CapExtended)

// Resolver is a resolver contract bound to one name. Implementations are
// chosen once at discovery time; every method returns ErrUnsupported when
// the corresponding capability is missing.
type Resolver interface {
	Address() common.Address
	Capabilities() CapabilitySet
	// Addr is the EIP-137 addr(bytes32) record.
	Addr(ctx context.Context) (common.Address, error)
	// AddrByCoin is the ENSIP-9 addr(bytes32,uint256) record.
	AddrByCoin(ctx context.Context, coinType uint64) ([]byte, error)
	Text(ctx context.Context, key string) (string, error)
	// ContentHash is the ENSIP-7 contenthash record.
	ContentHash(ctx context.Context) ([]byte, error)
	// Content is the legacy bytes32 content record.
	Content(ctx context.Context) (common.Hash, error)
}

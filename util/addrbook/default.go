package addrbook

import (
	"github.com/ethereum/go-ethereum/common"
)

// ensContracts are the mainnet ENS deployments that show up as owners and
// resolvers of names.
var ensContracts = map[common.Address]string{
	common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"): "ENS: Registry",
	common.HexToAddress("0x57f1887a8BF19b14fC0dF6Fd9B2acc9Af147eA85"): "ENS: Base Registrar",
	common.HexToAddress("0xD4416b13d2b3a9aBae7AcD5D6C2BbDBE25686401"): "ENS: Name Wrapper",
	common.HexToAddress("0x253553366Da8546fC250F225fe3d25d0C782303b"): "ENS: ETH Registrar Controller",
	common.HexToAddress("0x231b0Ee14048e9dCcD1d247744d114a4EB5E8E63"): "ENS: Public Resolver",
	common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41"): "ENS: Public Resolver (legacy)",
}

// Default is the production AddressResolver. Labels passed to NewDefault
// take precedence over the built-in ENS contracts.
type Default struct {
	labels map[common.Address]string
}

// NewDefault returns a Default resolver. Keys of extra are hex addresses;
// invalid ones are ignored.
func NewDefault(extra map[string]string) AddressResolver {
	labels := make(map[common.Address]string, len(ensContracts)+len(extra))
	for addr, name := range ensContracts {
		labels[addr] = name
	}
	for hex, name := range extra {
		if common.IsHexAddress(hex) && name != "" {
			labels[common.HexToAddress(hex)] = name
		}
	}
	return Default{labels: labels}
}

func (r Default) Resolve(addr common.Address) string {
	if name, ok := r.labels[addr]; ok {
		return name
	}
	return Unknown
}

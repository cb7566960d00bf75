// Package addrbook maps raw Ethereum addresses to human-readable names.
//
// Production code uses [Default], which knows the mainnet ENS contracts a
// profile commonly points at. Tests inject [Map].
package addrbook

import (
	"github.com/ethereum/go-ethereum/common"
)

// Unknown is the name of an address the book doesn't know.
const Unknown = "unknown"

// AddressResolver maps an address to a human-readable name.
//
// Contract: if the address is not known, the name must be Unknown.
type AddressResolver interface {
	Resolve(addr common.Address) string
}

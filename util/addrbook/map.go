package addrbook

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Map is a lightweight AddressResolver for tests. It maps lower-cased hex
// addresses to names; anything not in the map resolves to Unknown.
//
// Example:
//
//	r := addrbook.Map{
//	    "0xd8da6bf26964af9d7eed9e03e53415d37aa96045": "Vitalik Buterin",
//	}
type Map map[string]string

func (m Map) Resolve(addr common.Address) string {
	if desc, ok := m[strings.ToLower(addr.Hex())]; ok {
		return desc
	}
	return Unknown
}

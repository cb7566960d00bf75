package ens

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const registryabi = `[
{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"owner","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

const resolverabi = `[
{"type":"function","name":"supportsInterface","stateMutability":"view","inputs":[{"name":"interfaceID","type":"bytes4"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"text","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"contenthash","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"bytes"}]},
{"type":"function","name":"content","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"resolve","stateMutability":"view","inputs":[{"name":"name","type":"bytes"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"bytes"}]}
]`

// addr(bytes32,uint256) overloads addr(bytes32), so it lives in its own ABI
// to keep the method name stable.
const multicoinabi = `[
{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"},{"name":"coinType","type":"uint256"}],"outputs":[{"name":"","type":"bytes"}]}
]`

const registrarabi = `[
{"type":"function","name":"nameExpires","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}
]`

var (
	registryABI  = mustABI(registryabi)
	resolverABI  = mustABI(resolverabi)
	multicoinABI = mustABI(multicoinabi)
	registrarABI = mustABI(registrarabi)
)

func mustABI(def string) *abi.ABI {
	result, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return &result
}

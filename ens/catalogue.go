package ens

import "github.com/ethereum/go-ethereum/common"

var (
	// RegistryAddress is the mainnet ENS registry.
	RegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")
	// RegistrarAddress is the .eth base registrar holding expiries.
	RegistrarAddress = common.HexToAddress("0x57f1887a8bf19b14fc0df6fd9b2acc9af147ea85")
)

// GatedSuffix is the only top-level suffix whose names get an expiry lookup.
const GatedSuffix = "eth"

// TextKeys is the catalogue of text records fetched for every profile.
var TextKeys = []string{
	"name",
	"description",
	"url",
	"avatar",
	"email",
	"com.twitter",
	"com.github",
	"com.discord",
	"notice",
	"org.telegram",
	"vnd.twitter",
}

type CoinLabel string

const (
	CoinETH CoinLabel = "ETH"
	CoinBTC CoinLabel = "BTC"
	CoinLTC CoinLabel = "LTC"
)

const (
	CoinTypeETH uint64 = 60
	CoinTypeBTC uint64 = 0
	CoinTypeLTC uint64 = 2
)

// Coin pairs a display label with its SLIP-44 coin type.
type Coin struct {
	Label CoinLabel
	Type  uint64
}

var Coins = []Coin{
	{Label: CoinETH, Type: CoinTypeETH},
	{Label: CoinBTC, Type: CoinTypeBTC},
	{Label: CoinLTC, Type: CoinTypeLTC},
}

// ERC-165 interface ids of the resolver profiles we understand.
var (
	interfaceAddr        = [4]byte{0x3b, 0x3b, 0x57, 0xde}
	interfaceAddrByCoin  = [4]byte{0xf1, 0xcb, 0x7e, 0x06}
	interfaceText        = [4]byte{0x59, 0xd1, 0xd4, 0x3c}
	interfaceContentHash = [4]byte{0xbc, 0x1c, 0x58, 0xd1}
	interfaceContent     = [4]byte{0xd8, 0x38, 0x9d, 0xc5}
	interfaceExtended    = [4]byte{0x90, 0x61, 0xb9, 0x23}
)

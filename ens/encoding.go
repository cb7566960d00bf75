package ens

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ipfsPrefix  = []byte{0xe3, 0x01, 0x01, 0x70}
	ipnsPrefix  = []byte{0xe5, 0x01, 0x01, 0x72}
	swarmPrefix = []byte{0xe4, 0x01, 0x01, 0xfa, 0x01, 0x1b, 0x20}
)

// DecodeContentHash renders an ENSIP-7 contenthash as a URI. IPFS and
// IPNS multihashes are printed base58 (CIDv0 style), swarm hashes as hex.
// Unknown codecs are returned as 0x-prefixed hex. Empty input yields "".
func DecodeContentHash(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	switch {
	case bytes.HasPrefix(raw, ipfsPrefix):
		if mh := raw[len(ipfsPrefix):]; validMultihash(mh) {
			return "ipfs://" + base58.Encode(mh)
		}
	case bytes.HasPrefix(raw, ipnsPrefix):
		if mh := raw[len(ipnsPrefix):]; validMultihash(mh) {
			return "ipns://" + base58.Encode(mh)
		}
	case bytes.HasPrefix(raw, swarmPrefix):
		if h := raw[len(swarmPrefix):]; len(h) == 32 {
			return "bzz://" + hex.EncodeToString(h)
		}
	}
	return hexutil.Encode(raw)
}

// validMultihash checks the declared digest length of a multihash with a
// single byte code and length.
func validMultihash(mh []byte) bool {
	return len(mh) >= 2 && int(mh[1]) == len(mh)-2
}

type btcLikeParams struct {
	p2pkh byte
	p2sh  byte
	hrp   string
}

var btcLike = map[uint64]btcLikeParams{
	CoinTypeBTC: {p2pkh: 0x00, p2sh: 0x05, hrp: "bc"},
	CoinTypeLTC: {p2pkh: 0x30, p2sh: 0x32, hrp: "ltc"},
}

// EncodeCoinAddress turns the raw ENSIP-9 bytes of a coin address into its
// native text form. An empty or all-zero record yields "".
func EncodeCoinAddress(coinType uint64, raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if coinType == CoinTypeETH {
		if len(raw) != common.AddressLength {
			return hexutil.Encode(raw)
		}
		addr := common.BytesToAddress(raw)
		if addr == (common.Address{}) {
			return ""
		}
		return addr.Hex()
	}
	params, ok := btcLike[coinType]
	if !ok {
		return hexutil.Encode(raw)
	}
	if addr := encodeScript(params, raw); addr != "" {
		return addr
	}
	return hexutil.Encode(raw)
}

func encodeScript(params btcLikeParams, script []byte) string {
	n := len(script)
	// P2PKH: OP_DUP OP_HASH160 <20> OP_EQUALVERIFY OP_CHECKSIG
	if n == 25 && script[0] == 0x76 && script[1] == 0xa9 && script[2] == 0x14 && script[23] == 0x88 && script[24] == 0xac {
		return base58.CheckEncode(script[3:23], params.p2pkh)
	}
	// P2SH: OP_HASH160 <20> OP_EQUAL
	if n == 23 && script[0] == 0xa9 && script[1] == 0x14 && script[22] == 0x87 {
		return base58.CheckEncode(script[2:22], params.p2sh)
	}
	// segwit: OP_n <program>
	if n >= 4 && n <= 42 && int(script[1]) == n-2 {
		var version byte
		switch {
		case script[0] == 0x00:
			version = 0
		case script[0] >= 0x51 && script[0] <= 0x60:
			version = script[0] - 0x50
		default:
			return ""
		}
		words, err := bech32.ConvertBits(script[2:], 8, 5, true)
		if err != nil {
			return ""
		}
		data := append([]byte{version}, words...)
		var addr string
		if version == 0 {
			addr, err = bech32.Encode(params.hrp, data)
		} else {
			addr, err = bech32.EncodeM(params.hrp, data)
		}
		if err != nil {
			return ""
		}
		return addr
	}
	return ""
}

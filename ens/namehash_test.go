package ens_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/ensgraph/ens"
)

func TestNameHash(t *testing.T) {
	cases := map[string]string{
		"":        "0x0000000000000000000000000000000000000000000000000000000000000000",
		"eth":     "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae",
		"foo.eth": "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f",
	}
	for name, want := range cases {
		assert.Equal(t, common.HexToHash(want), ens.NameHash(name), name)
	}
}

func TestNameHashNormalizesCase(t *testing.T) {
	assert.Equal(t, ens.NameHash("vitalik.eth"), ens.NameHash("  Vitalik.ETH "))
}

func TestLabelHelpers(t *testing.T) {
	assert.Equal(t, "vitalik", ens.FirstLabel("Vitalik.eth"))
	assert.Equal(t, "wild.eth", ens.ParentName("sub.wild.eth"))
	assert.Equal(t, "", ens.ParentName("eth"))
	assert.True(t, ens.HasSuffix("foo.ETH", "eth"))
	assert.False(t, ens.HasSuffix("fooeth", "eth"))
	assert.False(t, ens.HasSuffix("foo.xyz", "eth"))
}

func TestDNSEncode(t *testing.T) {
	got, err := ens.DNSEncode("vitalik.eth")
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{7}, "vitalik"...), append([]byte{3}, "eth\x00"...)...), got)

	root, err := ens.DNSEncode("")
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, root)

	_, err = ens.DNSEncode("a..eth")
	assert.Error(t, err)
}

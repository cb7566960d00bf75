package ens

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Und)

// Normalize lower-cases name and puts it in NFC form. Hashes are always
// computed over the normalized name.
func Normalize(name string) string {
	return norm.NFC.String(lower.String(strings.TrimSpace(name)))
}

// LabelHash is keccak256 of a single label.
func LabelHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

// NameHash implements the EIP-137 namehash over the normalized name.
func NameHash(name string) common.Hash {
	node := common.Hash{}
	name = Normalize(name)
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		lh := LabelHash(labels[i])
		node = crypto.Keccak256Hash(node.Bytes(), lh.Bytes())
	}
	return node
}

// FirstLabel returns the left-most label of name.
func FirstLabel(name string) string {
	label, _, _ := strings.Cut(Normalize(name), ".")
	return label
}

// ParentName strips the left-most label. The parent of a top-level name
// is the empty root name.
func ParentName(name string) string {
	_, parent, found := strings.Cut(name, ".")
	if !found {
		return ""
	}
	return parent
}

// HasSuffix reports whether name ends with the given top-level suffix,
// case-insensitively.
func HasSuffix(name, suffix string) bool {
	return strings.HasSuffix(Normalize(name), "."+strings.ToLower(suffix))
}

// DNSEncode encodes name in DNS wire format as ENSIP-10 expects.
func DNSEncode(name string) ([]byte, error) {
	name = Normalize(name)
	out := []byte{}
	if name != "" {
		for _, label := range strings.Split(name, ".") {
			if len(label) == 0 {
				return nil, fmt.Errorf("empty label in %q", name)
			}
			if len(label) > 255 {
				return nil, fmt.Errorf("label %q is longer than 255 bytes", label)
			}
			out = append(out, byte(len(label)))
			out = append(out, label...)
		}
	}
	return append(out, 0), nil
}

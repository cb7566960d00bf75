package ens

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Outcome is the terminal classification of one resolution.
type Outcome uint8

const (
	OutcomeFound Outcome = iota
	OutcomeNotFound
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFatal:
		return "fatal"
	default:
		return "found"
	}
}

// Status is the uniform result of one sub-lookup.
type Status uint8

const (
	StatusOK Status = iota
	StatusEmpty
	StatusUnsupported
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusUnsupported:
		return "unsupported"
	case StatusFailed:
		return "failed"
	default:
		return "skipped"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusOK, StatusEmpty, StatusUnsupported, StatusFailed, StatusSkipped} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown lookup status %q", text)
}

// LookupReport tells why a profile field is present or absent. Profile
// fields themselves collapse every non-OK status into absence.
type LookupReport struct {
	Field    string `json:"field"`
	Status   Status `json:"status"`
	Strategy string `json:"strategy,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Profile is the consolidated result of resolving one name.
type Profile struct {
	Name            string               `json:"name"`
	ResolvedAddress *common.Address      `json:"resolvedAddress,omitempty"`
	Owner           *common.Address      `json:"owner,omitempty"`
	Resolver        *common.Address      `json:"resolver,omitempty"`
	TextRecords     map[string]string    `json:"textRecords,omitempty"`
	CoinAddresses   map[CoinLabel]string `json:"coinAddresses,omitempty"`
	ContentHash     string               `json:"contentHash,omitempty"`
	Expiry          *time.Time           `json:"expiry,omitempty"`
	NotFound        bool                 `json:"notFound"`
	FatalError      string               `json:"error,omitempty"`
	Lookups         []LookupReport       `json:"lookups,omitempty"`
}

func (p Profile) Outcome() Outcome {
	switch {
	case p.FatalError != "":
		return OutcomeFatal
	case p.NotFound:
		return OutcomeNotFound
	default:
		return OutcomeFound
	}
}

// HasData reports whether a found profile carries anything worth showing.
func (p Profile) HasData() bool {
	return p.Owner != nil || p.ResolvedAddress != nil || len(p.TextRecords) > 0
}

func notFoundProfile(name string) Profile {
	return Profile{Name: name, NotFound: true}
}

func fatalProfile(name string, err error) Profile {
	return Profile{Name: name, FatalError: err.Error()}
}

package ens

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// strategy is one way of reading a record. Strategies for a field are
// tried in order and the first non-empty value wins.
type strategy struct {
	name string
	run  func(ctx context.Context, r Resolver) (string, error)
}

type lookup struct {
	value    string
	status   Status
	strategy string
	err      error
}

func runStrategies(ctx context.Context, r Resolver, strategies []strategy) lookup {
	res := lookup{status: StatusUnsupported}
	for _, s := range strategies {
		v, err := s.run(ctx, r)
		switch {
		case errors.Is(err, ErrUnsupported):
			continue
		case err != nil:
			res.status = StatusFailed
			res.strategy = s.name
			res.err = err
			continue
		case v == "":
			if res.status == StatusUnsupported {
				res.status = StatusEmpty
				res.strategy = s.name
			}
			continue
		}
		return lookup{value: v, status: StatusOK, strategy: s.name}
	}
	return res
}

func coinStrategies(coin Coin) []strategy {
	return []strategy{
		{
			name: "addr(bytes32,uint256)",
			run: func(ctx context.Context, r Resolver) (string, error) {
				raw, err := r.AddrByCoin(ctx, coin.Type)
				if err != nil {
					return "", err
				}
				return EncodeCoinAddress(coin.Type, raw), nil
			},
		},
		{
			name: "addr(bytes32)",
			run: func(ctx context.Context, r Resolver) (string, error) {
				if coin.Type != CoinTypeETH {
					return "", ErrUnsupported
				}
				addr, err := r.Addr(ctx)
				if err != nil {
					return "", err
				}
				if addr == (common.Address{}) {
					return "", nil
				}
				return addr.Hex(), nil
			},
		},
	}
}

var contentHashStrategies = []strategy{
	{
		name: "contenthash(bytes32)",
		run: func(ctx context.Context, r Resolver) (string, error) {
			raw, err := r.ContentHash(ctx)
			if err != nil {
				return "", err
			}
			return DecodeContentHash(raw), nil
		},
	},
	{
		name: "content(bytes32)",
		run: func(ctx context.Context, r Resolver) (string, error) {
			h, err := r.Content(ctx)
			if err != nil {
				return "", err
			}
			if h == (common.Hash{}) {
				return "", nil
			}
			return h.Hex(), nil
		},
	},
}

func textStrategies(key string) []strategy {
	return []strategy{
		{
			name: "text(bytes32,string)",
			run: func(ctx context.Context, r Resolver) (string, error) {
				return r.Text(ctx, key)
			},
		},
	}
}

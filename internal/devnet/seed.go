package devnet

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/roach88/arwiki/internal/ledger"
)

// Target receives seeded transactions and contract states.
// *store.Store implements it.
type Target interface {
	Submit(ctx context.Context, tx *ledger.SignedTransaction) (string, error)
	PutContractState(ctx context.Context, contractID string, state []byte) error
}

// Result reports what a seed wrote.
type Result struct {
	Owner     string            `json:"owner"`
	Refs      map[string]string `json:"refs"`
	Contracts []string          `json:"contracts"`
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z0-9_.-]+)\}`)

// Seed signs and submits the fixture's transactions, then writes its
// contract states with ${ref} placeholders replaced by transaction ids.
func Seed(ctx context.Context, target Target, f *Fixture, signer ledger.Signer) (*Result, error) {
	if signer == nil {
		return nil, fmt.Errorf("seed %s: missing signer", f.Name)
	}
	res := &Result{
		Owner: ledger.Address(signer.PublicKey()),
		Refs:  make(map[string]string, len(f.Transactions)),
	}

	for _, ftx := range f.Transactions {
		draft := ledger.Draft{
			Tags:   ftx.Tags,
			Data:   []byte(ftx.Data),
			Target: ftx.Target,
			Anchor: fmt.Sprintf("devnet:%s:%s", f.Name, ftx.Ref),
		}
		tx, err := ledger.Sign(draft, signer)
		if err != nil {
			return nil, fmt.Errorf("seed %s: sign %s: %w", f.Name, ftx.Ref, err)
		}
		id, err := target.Submit(ctx, tx)
		if err != nil {
			return nil, fmt.Errorf("seed %s: submit %s: %w", f.Name, ftx.Ref, err)
		}
		res.Refs[ftx.Ref] = id
	}

	vars := make(map[string]string, len(res.Refs)+1)
	for k, v := range res.Refs {
		vars[k] = v
	}
	vars[OwnerRef] = res.Owner

	ids := make([]string, 0, len(f.Contracts))
	for id := range f.Contracts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		state, err := substitute(f.Contracts[id], vars)
		if err != nil {
			return nil, fmt.Errorf("seed %s: contract %s: %w", f.Name, id, err)
		}
		raw, err := json.Marshal(state)
		if err != nil {
			return nil, fmt.Errorf("seed %s: contract %s: %w", f.Name, id, err)
		}
		if err := target.PutContractState(ctx, id, raw); err != nil {
			return nil, fmt.Errorf("seed %s: %w", f.Name, err)
		}
		res.Contracts = append(res.Contracts, id)
	}
	return res, nil
}

// substitute returns a copy of v with every ${name} in string values
// replaced from vars. Unknown names are an error.
func substitute(v any, vars map[string]string) (any, error) {
	switch t := v.(type) {
	case string:
		var missing string
		out := placeholder.ReplaceAllStringFunc(t, func(m string) string {
			name := placeholder.FindStringSubmatch(m)[1]
			val, ok := vars[name]
			if !ok && missing == "" {
				missing = name
			}
			return val
		})
		if missing != "" {
			return nil, fmt.Errorf("unknown reference ${%s}", missing)
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			s, err := substitute(val, vars)
			if err != nil {
				return nil, err
			}
			out[k] = s
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			s, err := substitute(val, vars)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	}
	return v, nil
}

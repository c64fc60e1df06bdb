package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/contract"
	"github.com/roach88/arwiki/internal/ledger"
	"github.com/roach88/arwiki/internal/ledger/gateway"
	"github.com/roach88/arwiki/internal/store"
)

// Bindings are the ledger and contract-state clients of one network.
// They are created once per network and shared read-only afterwards.
type Bindings struct {
	Network arwiki.NetworkConfig
	Ledger  ledger.Client
	State   contract.StateService

	closer func() error
}

// NewBindings assembles bindings from existing clients. closer may be nil.
func NewBindings(network arwiki.NetworkConfig, l ledger.Client, state contract.StateService, closer func() error) *Bindings {
	return &Bindings{Network: network, Ledger: l, State: state, closer: closer}
}

// Token returns the token contract view.
func (b *Bindings) Token() *contract.Token {
	return contract.NewToken(b.State, b.Network.ContractAddress)
}

// Languages returns the languages contract view.
func (b *Bindings) Languages() *contract.Languages {
	return contract.NewLanguages(b.State, b.Network.Contracts.Languages)
}

// Admins returns the admins contract view.
func (b *Bindings) Admins() *contract.Admins {
	return contract.NewAdmins(b.State, b.Network.Contracts.Admins)
}

// Categories returns the categories contract view.
func (b *Bindings) Categories() *contract.Categories {
	return contract.NewCategories(b.State, b.Network.Contracts.Categories)
}

// Close releases resources held by the bindings.
func (b *Bindings) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// Binder creates the bindings for a network.
type Binder func(network arwiki.NetworkConfig) (*Bindings, error)

// DefaultBinder binds loopback networks to the SQLite dev ledger, which also
// serves contract state snapshots, and every other network to its HTTP
// gateway plus a remote evaluator.
func DefaultBinder(logger *slog.Logger) Binder {
	return func(n arwiki.NetworkConfig) (*Bindings, error) {
		if n.IsLoopback() {
			if n.DevDatabase == "" {
				return nil, arwiki.InvalidInput("bootstrap.Bind", fmt.Sprintf("loopback network %q has no dev_database", n.Name))
			}
			st, err := store.Open(n.DevDatabase)
			if err != nil {
				return nil, arwiki.NetworkUnavailable("bootstrap.Bind", err)
			}
			state, err := contract.NewBinding(n, st, nil, logger)
			if err != nil {
				st.Close()
				return nil, err
			}
			return NewBindings(n, st, state, st.Close), nil
		}

		state, err := contract.NewBinding(n, nil, nil, logger)
		if err != nil {
			return nil, err
		}
		return NewBindings(n, gateway.New(n.BaseURL(), gateway.WithLogger(logger)), state, nil), nil
	}
}

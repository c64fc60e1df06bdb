package contract

import (
	"log/slog"
	"net/http"

	"github.com/roach88/arwiki/internal/arwiki"
)

// NewBinding selects the state service for cfg.
//
// Loopback hosts read snapshots from local. Otherwise the Remote evaluator is
// the gateway itself when UseGateway is set, or cfg.EvaluatorURL.
func NewBinding(cfg arwiki.NetworkConfig, local StateStore, httpClient *http.Client, logger *slog.Logger) (StateService, error) {
	if cfg.IsLoopback() {
		if local == nil {
			return nil, arwiki.InvalidInput("contract.NewBinding", "loopback network "+cfg.Name+" has no local ledger")
		}
		return NewLocal(local), nil
	}
	base := cfg.EvaluatorURL
	if cfg.UseGateway {
		base = cfg.BaseURL()
	}
	if base == "" {
		return nil, arwiki.InvalidInput("contract.NewBinding", "network "+cfg.Name+" has no evaluator_url and use_gateway is false")
	}
	return NewRemote(base, httpClient, logger), nil
}

package contract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/roach88/arwiki/internal/ledger/gateway"
)

// Remote evaluates contract state through an HTTP evaluation service.
type Remote struct {
	BaseURL string
	HTTP    *http.Client

	breaker *gobreaker.CircuitBreaker
}

var _ StateService = (*Remote)(nil)

// NewRemote creates a Remote binding for baseURL.
func NewRemote(baseURL string, httpClient *http.Client, logger *slog.Logger) *Remote {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: gateway.DefaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(baseURL, "/")
	return &Remote{
		BaseURL: base,
		HTTP:    httpClient,
		breaker: gateway.NewBreaker("evaluator "+base, logger),
	}
}

// State fetches GET {base}/contract?id=contractID and returns its "state" object.
func (r *Remote) State(ctx context.Context, contractID string) (State, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		u := r.BaseURL + "/contract?id=" + url.QueryEscape(contractID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := r.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, &gateway.StatusError{
				Method: http.MethodGet,
				Path:   "/contract",
				Status: resp.StatusCode,
				Body:   strings.TrimSpace(string(msg)),
			}
		}
		var body struct {
			State json.RawMessage `json:"state"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode evaluator response: %w", err)
		}
		return DecodeState(body.State)
	})
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", contractID, err)
	}
	return out.(State), nil
}

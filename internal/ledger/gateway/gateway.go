// Package gateway implements ledger.Client against a networked HTTP gateway.
//
// Reads go through the gateway's GraphQL endpoint, height comes from /info and
// submissions are posted to /tx. Every call passes through a circuit breaker;
// once tripped the client fails fast until the breaker half-opens again.
// Nothing is retried.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/ledger"
)

// DefaultTimeout bounds a single gateway request.
const DefaultTimeout = 30 * time.Second

var _ ledger.Client = (*Client)(nil)

// Client talks to one gateway.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.HTTP = h }
}

// WithLogger sets the logger used for breaker state changes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a gateway client for baseURL (scheme://host:port).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = NewBreaker("gateway "+c.BaseURL, c.logger)
	return c
}

// NewBreaker returns the circuit breaker shared by networked bindings.
// It trips after five consecutive failures and probes again after 30s.
func NewBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})
}

// StatusError is returned for non-2xx gateway responses.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// NetworkHeight returns the current block height from /info.
func (c *Client) NetworkHeight(ctx context.Context) (int64, error) {
	var info struct {
		Height int64 `json:"height"`
	}
	if err := c.do(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return 0, arwiki.NetworkUnavailable("gateway.NetworkHeight", err)
	}
	return info.Height, nil
}

// FetchByTags returns up to limit transactions matching every predicate.
func (c *Client) FetchByTags(ctx context.Context, predicates []ledger.TagPredicate, limit int) ([]ledger.Transaction, error) {
	vars := map[string]any{"tags": tagFilters(predicates)}
	if limit > 0 {
		vars["first"] = limit
	}
	txs, err := c.transactions(ctx, vars)
	if err != nil {
		return nil, arwiki.NetworkUnavailable("gateway.FetchByTags", err)
	}
	return txs, nil
}

// FetchByIDs returns the transactions with the given ids in one request.
func (c *Client) FetchByIDs(ctx context.Context, ids []string) ([]ledger.Transaction, error) {
	if len(ids) == 0 {
		return []ledger.Transaction{}, nil
	}
	if len(ids) > ledger.MaxIDsPerQuery {
		return nil, arwiki.InvalidInput("gateway.FetchByIDs",
			fmt.Sprintf("%d ids exceeds limit of %d", len(ids), ledger.MaxIDsPerQuery))
	}
	txs, err := c.transactions(ctx, map[string]any{"ids": ids, "first": len(ids)})
	if err != nil {
		return nil, arwiki.NetworkUnavailable("gateway.FetchByIDs", err)
	}
	return txs, nil
}

// Submit posts a signed transaction to /tx.
func (c *Client) Submit(ctx context.Context, tx *ledger.SignedTransaction) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("submit: nil transaction")
	}
	body, err := json.Marshal(wireTransaction(tx))
	if err != nil {
		return "", fmt.Errorf("submit: encode: %w", err)
	}
	if err := c.do(ctx, http.MethodPost, "/tx", body, nil); err != nil {
		return "", arwiki.NetworkUnavailable("gateway.Submit", err)
	}
	return tx.ID, nil
}

// do runs one request through the breaker and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		var r io.Reader
		if body != nil {
			r = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("content-type", "application/json")
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		}
		if out == nil {
			return nil, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return nil, nil
	})
	return err
}

type wireTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type wireTx struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	KeyType   string    `json:"key_type"`
	DigestAlg string    `json:"digest_alg"`
	Tags      []wireTag `json:"tags"`
	Target    string    `json:"target"`
	Anchor    string    `json:"last_tx"`
	Data      string    `json:"data"`
	Signature string    `json:"signature"`
}

// wireTransaction encodes binary fields base64url without padding, tag names
// and values included, the way gateways expect them.
func wireTransaction(tx *ledger.SignedTransaction) wireTx {
	enc := base64.RawURLEncoding
	tags := make([]wireTag, len(tx.Tags))
	for i, t := range tx.Tags {
		tags[i] = wireTag{
			Name:  enc.EncodeToString([]byte(t.Name)),
			Value: enc.EncodeToString([]byte(t.Value)),
		}
	}
	return wireTx{
		ID:        tx.ID,
		Owner:     enc.EncodeToString(tx.OwnerKey),
		KeyType:   tx.KeyType,
		DigestAlg: tx.DigestAlg,
		Tags:      tags,
		Target:    tx.Target,
		Anchor:    tx.Anchor,
		Data:      enc.EncodeToString(tx.Data),
		Signature: enc.EncodeToString(tx.Signature),
	}
}

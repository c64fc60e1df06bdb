package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/roach88/arwiki/internal/ledger"
)

const transactionsQuery = `query($ids: [ID!], $tags: [TagFilter!], $first: Int) {
  transactions(ids: $ids, tags: $tags, first: $first, sort: HEIGHT_ASC) {
    edges {
      node {
        id
        owner { address }
        tags { name value }
        block { height }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type transactionsResponse struct {
	Data struct {
		Transactions struct {
			Edges []struct {
				Node struct {
					ID    string `json:"id"`
					Owner struct {
						Address string `json:"address"`
					} `json:"owner"`
					Tags  []ledger.Tag `json:"tags"`
					Block *struct {
						Height int64 `json:"height"`
					} `json:"block"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"transactions"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type tagFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

func tagFilters(predicates []ledger.TagPredicate) []tagFilter {
	out := make([]tagFilter, len(predicates))
	for i, p := range predicates {
		out[i] = tagFilter{Name: p.Name, Values: p.Values}
	}
	return out
}

// transactions runs the transactions query with vars.
func (c *Client) transactions(ctx context.Context, vars map[string]any) ([]ledger.Transaction, error) {
	body, err := json.Marshal(graphQLRequest{Query: transactionsQuery, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	var resp transactionsResponse
	if err := c.do(ctx, http.MethodPost, "/graphql", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}

	edges := resp.Data.Transactions.Edges
	txs := make([]ledger.Transaction, 0, len(edges))
	for _, e := range edges {
		tx := ledger.Transaction{
			ID:    e.Node.ID,
			Owner: e.Node.Owner.Address,
			Tags:  ledger.Tags(e.Node.Tags),
		}
		if tx.Tags == nil {
			tx.Tags = ledger.Tags{}
		}
		if e.Node.Block != nil {
			tx.Block = e.Node.Block.Height
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

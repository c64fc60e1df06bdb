package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/ledger"
	"github.com/roach88/arwiki/internal/querysql"
)

// FetchByTags returns up to limit transactions matching every predicate.
// Results are ordered deterministically: ORDER BY seq ASC, id COLLATE BINARY ASC.
func (s *Store) FetchByTags(ctx context.Context, predicates []ledger.TagPredicate, limit int) ([]ledger.Transaction, error) {
	return s.query(ctx, querysql.TxQuery{Predicates: predicates, Limit: limit})
}

// FetchByIDs returns the transactions with the given ids. Unknown ids are omitted.
func (s *Store) FetchByIDs(ctx context.Context, ids []string) ([]ledger.Transaction, error) {
	if len(ids) == 0 {
		return []ledger.Transaction{}, nil
	}
	if len(ids) > ledger.MaxIDsPerQuery {
		return nil, arwiki.InvalidInput("store.FetchByIDs",
			fmt.Sprintf("%d ids exceeds limit of %d", len(ids), ledger.MaxIDsPerQuery))
	}
	return s.query(ctx, querysql.TxQuery{IDs: ids})
}

func (s *Store) query(ctx context.Context, q querysql.TxQuery) ([]ledger.Transaction, error) {
	sqlText, params, err := querysql.NewSQLCompiler().Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []ledger.Transaction{}
	for rows.Next() {
		var tx ledger.Transaction
		if err := rows.Scan(&tx.ID, &tx.Owner, &tx.Block); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	if err := s.attachTags(ctx, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// attachTags loads tags for txs in one query, preserving tag order.
func (s *Store) attachTags(ctx context.Context, txs []ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	byID := make(map[string]int, len(txs))
	params := make([]any, len(txs))
	for i, tx := range txs {
		byID[tx.ID] = i
		params[i] = tx.ID
		txs[i].Tags = ledger.Tags{}
	}

	in := strings.TrimSuffix(strings.Repeat("?, ", len(txs)), ", ")
	rows, err := s.db.QueryContext(ctx, `
		SELECT tx_id, name, value FROM tags
		WHERE tx_id IN (`+in+`)
		ORDER BY tx_id COLLATE BINARY ASC, idx ASC
	`, params...)
	if err != nil {
		return fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID string
		var tag ledger.Tag
		if err := rows.Scan(&txID, &tag.Name, &tag.Value); err != nil {
			return fmt.Errorf("scan tag: %w", err)
		}
		i := byID[txID]
		txs[i].Tags = append(txs[i].Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tags: %w", err)
	}
	return nil
}

// ReadData returns the payload and data root of a transaction.
// Returns ErrNotFound if the id is unknown.
func (s *Store) ReadData(ctx context.Context, id string) ([]byte, string, error) {
	var data []byte
	var root string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, data_root FROM transactions WHERE id = ?`, id,
	).Scan(&data, &root)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("read data %s: %w", id, err)
	}
	return data, root, nil
}

// ContractState returns the latest state snapshot of a contract.
// Returns ErrNotFound if no snapshot was recorded.
func (s *Store) ContractState(ctx context.Context, contractID string) ([]byte, error) {
	var state string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM contract_states WHERE contract_id = ?`, contractID,
	).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read contract state %s: %w", contractID, err)
	}
	return []byte(state), nil
}

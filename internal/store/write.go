package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/arwiki/internal/cidutil"
	"github.com/roach88/arwiki/internal/keys"
	"github.com/roach88/arwiki/internal/ledger"
)

var _ ledger.Client = (*Store)(nil)

// Submit verifies tx and appends it to the ledger in a new block.
// Resubmitting an id that already exists is a no-op returning the same id.
func (s *Store) Submit(ctx context.Context, tx *ledger.SignedTransaction) (string, error) {
	if err := verifyTransaction(tx); err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}

	dataRoot, err := cidutil.CIDv1RawSHA256CID(tx.Data)
	if err != nil {
		return "", fmt.Errorf("submit: data root: %w", err)
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("submit: begin: %w", err)
	}
	defer dbtx.Rollback()

	var block, seq int64
	err = dbtx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(block), 0) + 1, COALESCE(MAX(seq), 0) + 1 FROM transactions`,
	).Scan(&block, &seq)
	if err != nil {
		return "", fmt.Errorf("submit: next block: %w", err)
	}

	data := tx.Data
	if data == nil {
		data = []byte{}
	}
	res, err := dbtx.ExecContext(ctx, `
		INSERT INTO transactions
		(id, owner, owner_key, key_type, digest_alg, target, anchor, data, data_root, signature, block, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		tx.ID,
		tx.Owner,
		tx.OwnerKey,
		tx.KeyType,
		tx.DigestAlg,
		tx.Target,
		tx.Anchor,
		data,
		dataRoot.String(),
		tx.Signature,
		block,
		seq,
	)
	if err != nil {
		return "", fmt.Errorf("submit: insert transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tx.ID, nil
	}

	if err := insertTags(ctx, dbtx, tx.ID, tx.Tags); err != nil {
		return "", err
	}

	if err := dbtx.Commit(); err != nil {
		return "", fmt.Errorf("submit: commit: %w", err)
	}
	return tx.ID, nil
}

func insertTags(ctx context.Context, dbtx *sql.Tx, txID string, tags ledger.Tags) error {
	for i, tag := range tags {
		_, err := dbtx.ExecContext(ctx,
			`INSERT INTO tags (tx_id, idx, name, value) VALUES (?, ?, ?, ?)`,
			txID, i, tag.Name, tag.Value,
		)
		if err != nil {
			return fmt.Errorf("submit: insert tag %d: %w", i, err)
		}
	}
	return nil
}

// verifyTransaction checks owner, id and signature derivation.
func verifyTransaction(tx *ledger.SignedTransaction) error {
	if tx == nil {
		return fmt.Errorf("nil transaction")
	}
	if len(tx.Signature) == 0 {
		return fmt.Errorf("transaction is not signed")
	}
	if tx.Owner != ledger.Address(tx.OwnerKey) {
		return fmt.Errorf("owner %q does not match owner key", tx.Owner)
	}
	if tx.ID != ledger.TxID(tx.Signature) {
		return fmt.Errorf("id %q does not match signature", tx.ID)
	}
	digest, err := ledger.SigningDigest(tx)
	if err != nil {
		return err
	}
	return keys.Verify(tx.KeyType, tx.OwnerKey, digest, tx.Signature)
}

// PutContractState records the latest folded state of a contract.
func (s *Store) PutContractState(ctx context.Context, contractID string, state []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contract_states (contract_id, state, seq)
		VALUES (?, ?, 1)
		ON CONFLICT(contract_id) DO UPDATE SET state = excluded.state, seq = contract_states.seq + 1
	`, contractID, string(state))
	if err != nil {
		return fmt.Errorf("put contract state %s: %w", contractID, err)
	}
	return nil
}

// Package store provides the SQLite-backed local ledger used when the active
// network points at a loopback host.
//
// The store is an append-only transaction log with:
//   - Transactions: signed records, one per block (dev network)
//   - Tags: ordered key/value metadata per transaction
//   - Contract states: the latest folded state snapshot per contract id
//
// # Ordering
//
// All ordering uses the seq column (logical clock), never timestamps. Every
// query ends with ORDER BY seq ASC, id COLLATE BINARY ASC so repeated reads of
// an unchanged ledger are identical.
//
// # Integrity
//
// Submit verifies the signature and the id derivation before writing, and
// stores a CIDv1 (raw, sha2-256) data root next to the payload.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Folding transactions into contract state is not done here; snapshots are
// written by whoever runs the contract engine (the devnet seed command in
// development).
package store

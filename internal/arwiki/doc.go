// Package arwiki holds the domain types shared by the sync and mutation core:
// network configuration, contract-derived index entries, ledger-derived page
// transactions and the resolved pages produced by merging the two.
//
// The package also defines the classified error taxonomy. Every component
// converts collaborator failures into an *Error at its boundary so callers can
// branch on Kind instead of parsing messages.
package arwiki

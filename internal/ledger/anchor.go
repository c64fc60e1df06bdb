package ledger

import "github.com/google/uuid"

// NewAnchor returns a fresh time-ordered anchor (UUIDv7) for a Draft.
//
// Panics if UUID generation fails (should never happen in practice).
func NewAnchor() string {
	return uuid.Must(uuid.NewV7()).String()
}

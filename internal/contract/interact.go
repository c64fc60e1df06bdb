package contract

import (
	"context"
	"fmt"

	"github.com/roach88/arwiki/internal/ledger"
)

// Interaction tag names and values.
const (
	TagAppName    = "App-Name"
	TagAppVersion = "App-Version"
	TagContract   = "Contract"
	TagInput      = "Input"

	AppName    = "SmartWeaveAction"
	AppVersion = "0.3.0"
)

// Interactor writes contract interactions to the ledger.
type Interactor struct {
	ledger ledger.Client
	anchor func() string
}

// NewInteractor creates an Interactor that submits through l. Each interaction
// gets a fresh anchor from anchor, or ledger.NewAnchor when nil.
func NewInteractor(l ledger.Client, anchor func() string) *Interactor {
	if anchor == nil {
		anchor = ledger.NewAnchor
	}
	return &Interactor{ledger: l, anchor: anchor}
}

// InteractionDraft builds the unsigned interaction transaction.
// Input is written as canonical JSON; extra tags follow the interaction tags.
func InteractionDraft(contractID string, input map[string]any, extra ledger.Tags) (ledger.Draft, error) {
	if contractID == "" {
		return ledger.Draft{}, fmt.Errorf("interaction: contract id is required")
	}
	if _, ok := input["function"].(string); !ok {
		return ledger.Draft{}, fmt.Errorf("interaction: input.function must be a string")
	}
	in, err := ledger.MarshalCanonical(input)
	if err != nil {
		return ledger.Draft{}, fmt.Errorf("interaction: encode input: %w", err)
	}

	tags := ledger.Tags{
		{Name: TagAppName, Value: AppName},
		{Name: TagAppVersion, Value: AppVersion},
		{Name: TagContract, Value: contractID},
		{Name: TagInput, Value: string(in)},
	}
	tags = append(tags, extra...)
	return ledger.Draft{Tags: tags, Data: []byte(contractID)}, nil
}

// Interact signs and submits an interaction with contractID.
func (i *Interactor) Interact(ctx context.Context, contractID string, input map[string]any, extra ledger.Tags, signer ledger.Signer) (string, error) {
	draft, err := InteractionDraft(contractID, input, extra)
	if err != nil {
		return "", err
	}
	draft.Anchor = i.anchor()
	tx, err := ledger.Sign(draft, signer)
	if err != nil {
		return "", fmt.Errorf("interaction: %w", err)
	}
	id, err := i.ledger.Submit(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("interaction: %w", err)
	}
	return id, nil
}

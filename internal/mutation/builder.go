// Package mutation builds, signs and submits arwiki moderation transactions.
//
// Unlist and set-main-page are tagged ledger transactions. Stop-stake is an
// interaction with the token contract. Each operation returns the submitted
// transaction id only; the effect shows up once the contract state folds it.
//
// Moderator privilege is not checked here. The contract rejects unauthorized
// mutations when it folds them. Nothing is retried and signing keys are used
// for the single call only.
package mutation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/contract"
	"github.com/roach88/arwiki/internal/ledger"
)

// Tags common to every page mutation.
const (
	TagContentType = "Content-Type"
	TagService     = "Service"

	ContentTypeText = "text/plain"
	ServiceName     = "ArWiki"
)

// Arwiki-Type values.
const (
	TypePageDeletion = "PageDeletion"
	TypeMainPage     = "MainPage"
)

// PageRef identifies the page a mutation targets.
type PageRef struct {
	ID       string
	Slug     string
	Category string
	Language string
}

func (r PageRef) fields() map[string]string {
	return map[string]string{
		"page_id":  r.ID,
		"slug":     r.Slug,
		"category": r.Category,
		"language": r.Language,
	}
}

func (r PageRef) validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("page id is required")
	case r.Slug == "":
		return fmt.Errorf("slug is required")
	case r.Category == "":
		return fmt.Errorf("category is required")
	case r.Language == "":
		return fmt.Errorf("language is required")
	}
	return nil
}

// Builder submits mutations through a ledger client.
type Builder struct {
	ledger     ledger.Client
	interactor *contract.Interactor
	token      string
	anchor     func() string
	logger     *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithAnchor overrides the per-submission anchor source.
func WithAnchor(anchor func() string) Option {
	return func(b *Builder) { b.anchor = anchor }
}

// New creates a Builder. tokenContract is the token contract id used by StopStake.
//
// Every submission carries a fresh anchor, so submitting the same mutation
// twice creates two distinct transactions.
func New(l ledger.Client, tokenContract string, opts ...Option) *Builder {
	b := &Builder{
		ledger: l,
		token:  tokenContract,
		anchor: ledger.NewAnchor,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.interactor = contract.NewInteractor(l, b.anchor)
	return b
}

// PageDraft builds the unsigned tagged transaction for a page mutation of
// the given Arwiki-Type. The data is the page id.
func PageDraft(kind string, ref PageRef) (ledger.Draft, error) {
	if err := ref.validate(); err != nil {
		return ledger.Draft{}, err
	}
	return ledger.Draft{
		Tags: ledger.Tags{
			{Name: TagContentType, Value: ContentTypeText},
			{Name: TagService, Value: ServiceName},
			{Name: arwiki.TagType, Value: kind},
			{Name: arwiki.TagPageID, Value: ref.ID},
			{Name: arwiki.TagPageSlug, Value: ref.Slug},
			{Name: arwiki.TagPageCategory, Value: ref.Category},
			{Name: arwiki.TagPageLang, Value: ref.Language},
			{Name: arwiki.TagVersion, Value: arwiki.Version},
		},
		Data: []byte(ref.ID),
	}, nil
}

// UnlistPage marks the page as removed from the index for its language and
// category.
func (b *Builder) UnlistPage(ctx context.Context, ref PageRef, signer ledger.Signer) (string, error) {
	return b.submitPage(ctx, "mutation.UnlistPage", TypePageDeletion, ref, signer)
}

// SetMainPage designates the page as its category's main page.
func (b *Builder) SetMainPage(ctx context.Context, ref PageRef, signer ledger.Signer) (string, error) {
	return b.submitPage(ctx, "mutation.SetMainPage", TypeMainPage, ref, signer)
}

func (b *Builder) submitPage(ctx context.Context, op, kind string, ref PageRef, signer ledger.Signer) (string, error) {
	draft, err := PageDraft(kind, ref)
	if err != nil {
		return "", arwiki.SubmissionFailure(op, ref.fields(), err)
	}
	draft.Anchor = b.anchor()
	tx, err := ledger.Sign(draft, signer)
	if err != nil {
		return "", arwiki.SubmissionFailure(op, ref.fields(), err)
	}
	id, err := b.ledger.Submit(ctx, tx)
	if err != nil {
		return "", arwiki.SubmissionFailure(op, ref.fields(), err)
	}
	b.logger.Info("page mutation submitted",
		"type", kind,
		"tx_id", id,
		"slug", ref.Slug,
		"category", ref.Category,
		"language", ref.Language)
	return id, nil
}

// stakeFunctions maps a protocol version to the token contract entry point
// that stops a page stake.
var stakeFunctions = map[string]string{
	"1": "unstakePage",
	"2": "stopPageSponsorAndDeactivate",
}

// StopStakeInput returns the contract input for stopping the stake on slug.
func StopStakeInput(slug, lang, protocolVersion string) (map[string]any, error) {
	fn, ok := stakeFunctions[protocolVersion]
	if !ok {
		return nil, fmt.Errorf("unsupported protocol version %q", protocolVersion)
	}
	if slug == "" || lang == "" {
		return nil, fmt.Errorf("slug and language are required")
	}
	return map[string]any{
		"function": fn,
		"slug":     slug,
		"lang":     lang,
	}, nil
}

// StopStakeDraft builds the unsigned token contract interaction for StopStake.
func StopStakeDraft(tokenContract, slug, lang, protocolVersion string) (ledger.Draft, error) {
	input, err := StopStakeInput(slug, lang, protocolVersion)
	if err != nil {
		return ledger.Draft{}, err
	}
	return contract.InteractionDraft(tokenContract, input, stopStakeTags(protocolVersion))
}

func stopStakeTags(protocolVersion string) ledger.Tags {
	return ledger.Tags{
		{Name: TagService, Value: ServiceName},
		{Name: arwiki.TagVersion, Value: protocolVersion},
	}
}

// StopStake ends the caller's stake and sponsorship of slug in lang.
// protocolVersion selects the token contract entry point.
func (b *Builder) StopStake(ctx context.Context, slug, lang string, signer ledger.Signer, protocolVersion string) (string, error) {
	const op = "mutation.StopStake"
	fields := map[string]string{
		"slug":             slug,
		"language":         lang,
		"protocol_version": protocolVersion,
	}

	input, err := StopStakeInput(slug, lang, protocolVersion)
	if err != nil {
		return "", arwiki.SubmissionFailure(op, fields, err)
	}
	id, err := b.interactor.Interact(ctx, b.token, input, stopStakeTags(protocolVersion), signer)
	if err != nil {
		return "", arwiki.SubmissionFailure(op, fields, err)
	}
	b.logger.Info("stop stake submitted",
		"tx_id", id,
		"slug", slug,
		"language", lang,
		"function", input["function"])
	return id, nil
}

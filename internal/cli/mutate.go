package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/keys"
	"github.com/roach88/arwiki/internal/ledger"
	"github.com/roach88/arwiki/internal/mutation"
)

// MutateOptions holds flags shared by the mutation commands.
type MutateOptions struct {
	*RootOptions
	KeyFile  string
	PageID   string
	Slug     string
	Category string
	Lang     string
	Protocol string
}

// MutationResult is the JSON payload of a submitted mutation.
type MutationResult struct {
	Mutation string `json:"mutation"`
	TxID     string `json:"tx_id"`
	Slug     string `json:"slug"`
	Language string `json:"language"`
	Owner    string `json:"owner"`
}

func (o *MutateOptions) pageFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.PageID, "id", "", "content transaction id of the page (required)")
	cmd.Flags().StringVar(&o.Slug, "slug", "", "page slug (required)")
	cmd.Flags().StringVar(&o.Category, "category", "", "page category (required)")
	cmd.Flags().StringVar(&o.Lang, "lang", "", "page language (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("lang")
}

func (o *MutateOptions) keyFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.KeyFile, "key", "k", "", "path to signing key file (required)")
	_ = cmd.MarkFlagRequired("key")
}

func (o *MutateOptions) pageRef() mutation.PageRef {
	return mutation.PageRef{ID: o.PageID, Slug: o.Slug, Category: o.Category, Language: o.Lang}
}

// NewUnlistCommand creates the unlist command.
func NewUnlistCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MutateOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "unlist",
		Short: "Submit a page deletion (unlist) transaction",
		Long: `Submit a page deletion (unlist) transaction.

The transaction is signed with --key and submitted as-is; moderator
privilege is enforced by the network, not locally.

Example:
  arwiki unlist --key mod.key --id <tx> --slug intro --category general --lang en`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(opts, cmd, "unlist", func(ctx context.Context, b *mutation.Builder, s ledger.Signer) (string, error) {
				return b.UnlistPage(ctx, opts.pageRef(), s)
			})
		},
	}
	opts.keyFlag(cmd)
	opts.pageFlags(cmd)
	return cmd
}

// NewSetMainCommand creates the set-main command.
func NewSetMainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MutateOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "set-main",
		Short: "Submit a main page transaction",
		Long: `Submit a main page transaction marking a page as the main page of its language.

Example:
  arwiki set-main --key mod.key --id <tx> --slug intro --category general --lang en`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(opts, cmd, "set-main", func(ctx context.Context, b *mutation.Builder, s ledger.Signer) (string, error) {
				return b.SetMainPage(ctx, opts.pageRef(), s)
			})
		},
	}
	opts.keyFlag(cmd)
	opts.pageFlags(cmd)
	return cmd
}

// NewStopStakeCommand creates the stop-stake command.
func NewStopStakeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MutateOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "stop-stake",
		Short: "Stop sponsoring a page through the token contract",
		Long: `Stop sponsoring a page through the token contract.

The contract function is chosen by --protocol-version:
  1 - unstakePage
  2 - stopPageSponsorAndDeactivate

Example:
  arwiki stop-stake --key sponsor.key --slug intro --lang en`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(opts, cmd, "stop-stake", func(ctx context.Context, b *mutation.Builder, s ledger.Signer) (string, error) {
				return b.StopStake(ctx, opts.Slug, opts.Lang, s, opts.Protocol)
			})
		},
	}
	opts.keyFlag(cmd)
	cmd.Flags().StringVar(&opts.Slug, "slug", "", "page slug (required)")
	cmd.Flags().StringVar(&opts.Lang, "lang", "", "page language (required)")
	cmd.Flags().StringVar(&opts.Protocol, "protocol-version", arwiki.Version, "arwiki protocol version")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

type submitFunc func(ctx context.Context, b *mutation.Builder, signer ledger.Signer) (string, error)

func runMutation(opts *MutateOptions, cmd *cobra.Command, name string, submit submitFunc) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	signer, err := keys.Load(opts.KeyFile)
	if err != nil {
		return env.out.Fail(ExitCommandError, "failed to load key", err)
	}

	sess, r, err := env.resolve(ctx, langRoute(opts.Lang), "")
	if err != nil {
		return env.out.Fail(exitCodeFor(err), "bootstrap failed", err)
	}
	defer r.Close()

	b := mutation.New(sess.Bindings.Ledger, sess.Network.ContractAddress, mutation.WithLogger(env.logger))
	txID, err := submit(ctx, b, signer)
	if err != nil {
		return env.out.Fail(ExitFailure, name+" failed", err)
	}

	result := MutationResult{
		Mutation: name,
		TxID:     txID,
		Slug:     opts.Slug,
		Language: opts.Lang,
		Owner:    ledger.Address(signer.PublicKey()),
	}
	return env.out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Submitted %s for %s/%s\n", name, opts.Lang, opts.Slug)
		fmt.Fprintf(w, "  tx:    %s\n", txID)
		fmt.Fprintf(w, "  owner: %s\n", result.Owner)
	})
}

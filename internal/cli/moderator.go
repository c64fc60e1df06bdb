package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/keys"
	"github.com/roach88/arwiki/internal/ledger"
)

// ModeratorOptions holds flags for the moderator command.
type ModeratorOptions struct {
	*RootOptions
	KeyFile string
}

// ModeratorResult is the JSON payload of the moderator command.
type ModeratorResult struct {
	Address     string `json:"address"`
	IsModerator bool   `json:"is_moderator"`
	Warning     string `json:"warning,omitempty"`
}

// NewModeratorCommand creates the moderator command.
func NewModeratorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ModeratorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "moderator [address]",
		Short: "Check whether an address is a moderator",
		Long: `Check whether an address is a moderator.

The admin list is read fresh from the admins contract. If it cannot be read
the address is reported as not a moderator, with a warning.
The address is taken from the argument, or derived from --key.

Examples:
  arwiki moderator <address>
  arwiki moderator --key mod.key --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			address := ""
			if len(args) == 1 {
				address = args[0]
			}
			return runModerator(opts, address, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.KeyFile, "key", "k", "", "derive the address from this key file")

	return cmd
}

func runModerator(opts *ModeratorOptions, address string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	if address == "" && opts.KeyFile != "" {
		signer, err := keys.Load(opts.KeyFile)
		if err != nil {
			return env.out.Fail(ExitCommandError, "failed to load key", err)
		}
		address = ledger.Address(signer.PublicKey())
	}
	if address == "" {
		err := arwiki.InvalidInput("cli.moderator", "an address argument or --key is required")
		return env.out.Fail(ExitCommandError, "missing address", err)
	}

	sess, r, err := env.resolve(context.Background(), langRoute(""), address)
	if err != nil {
		return env.out.Fail(exitCodeFor(err), "bootstrap failed", err)
	}
	defer r.Close()

	result := ModeratorResult{Address: address, IsModerator: sess.IsModerator}
	if sess.ModeratorWarning != nil {
		result.Warning = sess.ModeratorWarning.Error()
	}
	return env.out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "%s moderator: %t\n", address, result.IsModerator)
		if result.Warning != "" {
			fmt.Fprintf(w, "Warning: %s\n", result.Warning)
		}
	})
}

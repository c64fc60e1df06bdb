package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // path to arwiki.yaml; empty uses ./arwiki.yaml or the built-in default
	Network string // overrides the preferred network for this invocation
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the arwiki CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "arwiki",
		Short: "arwiki - permaweb wiki client core",
		Long: `Client core for arwiki, a wiki whose pages live on an append-only ledger.

Resolves sessions, lists approved pages by joining the token contract's
page index with the content transactions it references, and submits
moderation mutations (unlist, set main page, stop stake).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "path to configuration file (default ./arwiki.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Network, "network", "", "network name (overrides the stored preference)")

	cmd.AddCommand(NewBootstrapCommand(opts))
	cmd.AddCommand(NewPagesCommand(opts))
	cmd.AddCommand(NewUnlistCommand(opts))
	cmd.AddCommand(NewSetMainCommand(opts))
	cmd.AddCommand(NewStopStakeCommand(opts))
	cmd.AddCommand(NewModeratorCommand(opts))
	cmd.AddCommand(NewDevnetCommand(opts))
	cmd.AddCommand(NewKeygenCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

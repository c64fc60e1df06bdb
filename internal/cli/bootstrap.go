package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/bootstrap"
)

// BootstrapOptions holds flags for the bootstrap command.
type BootstrapOptions struct {
	*RootOptions
	Lang    string
	Address string
}

// BootstrapResult is the JSON payload of the bootstrap command.
type BootstrapResult struct {
	Outcome     string `json:"outcome"`
	RedirectTo  string `json:"redirect_to,omitempty"`
	SessionID   string `json:"session_id"`
	Network     string `json:"network"`
	RouteLang   string `json:"route_lang"`
	TokenTicker string `json:"token_ticker"`
	IsModerator bool   `json:"is_moderator"`
	Warning     string `json:"warning,omitempty"`
}

// NewBootstrapCommand creates the bootstrap command.
func NewBootstrapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BootstrapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bootstrap [path]",
		Short: "Resolve the session context for a route",
		Long: `Resolve the session context for a route.

Selects the network, validates the route language against the languages
contract, reads the token ticker and checks moderator privilege.
The language comes from --lang, or else from the first segment of path.

Exit codes:
  0 - Navigation allowed
  1 - Language denied or network failure
  2 - Command error (invalid config, unknown network)

Examples:
  arwiki bootstrap /fr/intro
  arwiki bootstrap --lang en --address <addr> --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runBootstrap(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Lang, "lang", "", "route language code")
	cmd.Flags().StringVar(&opts.Address, "address", "", "main address checked for moderator privilege")

	return cmd
}

func runBootstrap(opts *BootstrapOptions, path string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}

	route := pathRoute(path)
	if opts.Lang != "" {
		route = &bootstrap.Route{Params: map[string]string{bootstrap.LangParam: opts.Lang}, URL: route.URL}
	}

	r := bootstrap.New(env.cfg, env.prefs,
		bootstrap.WithAddress(opts.Address),
		bootstrap.WithLogger(env.logger),
	)
	defer r.Close()

	outcome, sess := r.Resolve(context.Background(), route)
	if outcome.Kind == bootstrap.Errored {
		return env.out.Fail(exitCodeFor(outcome.Err), "bootstrap failed", outcome.Err)
	}

	result := BootstrapResult{
		Outcome:     outcome.Kind.String(),
		RedirectTo:  outcome.RedirectTo,
		SessionID:   sess.ID,
		Network:     sess.Network.Name,
		RouteLang:   sess.RouteLang,
		TokenTicker: sess.TokenTicker,
		IsModerator: sess.IsModerator,
	}
	if sess.ModeratorWarning != nil {
		result.Warning = sess.ModeratorWarning.Error()
	}

	if err := env.out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Outcome:   %s\n", result.Outcome)
		if result.RedirectTo != "" {
			fmt.Fprintf(w, "Redirect:  %s\n", result.RedirectTo)
		}
		fmt.Fprintf(w, "Session:   %s\n", result.SessionID)
		fmt.Fprintf(w, "Network:   %s\n", result.Network)
		fmt.Fprintf(w, "Language:  %s\n", displayOrDash(result.RouteLang))
		fmt.Fprintf(w, "Ticker:    %s\n", displayOrDash(result.TokenTicker))
		fmt.Fprintf(w, "Moderator: %t\n", result.IsModerator)
		if result.Warning != "" {
			fmt.Fprintf(w, "Warning:   %s\n", result.Warning)
		}
	}); err != nil {
		return err
	}

	if outcome.Kind == bootstrap.Denied {
		return WrapExitError(ExitFailure, "language denied", outcome.Err)
	}
	return nil
}

func displayOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

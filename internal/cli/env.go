package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/bootstrap"
	"github.com/roach88/arwiki/internal/config"
)

// environment is what every network-facing command needs: the loaded
// configuration, user preferences, a logger and the output formatter.
type environment struct {
	opts   *RootOptions
	cfg    *config.Config
	prefs  bootstrap.Preferences
	logger *slog.Logger
	out    *OutputFormatter
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loadConfig reads opts.Config, falls back to ./arwiki.yaml, then to the
// built-in default.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.Config != "" {
		return config.Load(opts.Config)
	}
	if _, err := os.Stat(config.DefaultFile); err == nil {
		return config.Load(config.DefaultFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return config.Default(), nil
}

func loadEnvironment(opts *RootOptions, cmd *cobra.Command) (*environment, error) {
	out := newFormatter(opts, cmd)
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, out.Fail(ExitCommandError, "failed to load config", err)
	}

	var prefs bootstrap.Preferences
	if cfg.PreferencesPath != "" {
		p, err := config.LoadPreferences(cfg.PreferencesPath)
		if err != nil {
			return nil, out.Fail(ExitCommandError, "failed to load preferences", err)
		}
		prefs = p
	}
	if opts.Network != "" {
		prefs = networkOverride{inner: prefs, network: opts.Network}
	}

	return &environment{
		opts:   opts,
		cfg:    cfg,
		prefs:  prefs,
		logger: newLogger(opts, cmd),
		out:    out,
	}, nil
}

// resolve runs a bootstrap resolution. The caller must Close the returned
// resolver. A denied language is returned as an error.
func (e *environment) resolve(ctx context.Context, route *bootstrap.Route, address string) (*bootstrap.Session, *bootstrap.Resolver, error) {
	r := bootstrap.New(e.cfg, e.prefs,
		bootstrap.WithAddress(address),
		bootstrap.WithLogger(e.logger),
	)
	outcome, sess := r.Resolve(ctx, route)
	switch outcome.Kind {
	case bootstrap.Allowed:
		e.out.VerboseLog("session %s on network %s", sess.ID, sess.Network.Name)
		return sess, r, nil
	default:
		r.Close()
		return nil, nil, outcome.Err
	}
}

// langRoute builds the route for an explicit language code.
func langRoute(lang string) *bootstrap.Route {
	if lang == "" {
		return &bootstrap.Route{}
	}
	return &bootstrap.Route{Params: map[string]string{bootstrap.LangParam: lang}}
}

// pathRoute splits a URL path such as /fr/intro into a wildcard route.
func pathRoute(path string) *bootstrap.Route {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return &bootstrap.Route{URL: segs}
}

// exitCodeFor maps a classified error to an exit code.
func exitCodeFor(err error) int {
	if arwiki.IsKind(err, arwiki.KindInvalidInput) {
		return ExitCommandError
	}
	return ExitFailure
}

// networkOverride pins the network preference for one invocation.
type networkOverride struct {
	inner   bootstrap.Preferences
	network string
}

func (n networkOverride) DefaultLanguage() string {
	if n.inner == nil {
		return ""
	}
	return n.inner.DefaultLanguage()
}

func (n networkOverride) SetDefaultLanguage(entry arwiki.LanguageEntry) error {
	if n.inner == nil {
		return nil
	}
	return n.inner.SetDefaultLanguage(entry)
}

func (n networkOverride) DefaultNetwork() string { return n.network }

// Package bootstrap resolves the session context before a route is entered.
//
// A resolution selects the network, binds its clients, validates the route
// language, reads the token ticker and derives moderator privilege. Results
// are staged and published together once the resolution completes, so a
// cancelled resolution leaves the previously published session untouched.
// The one exception is the moderator flag, which is cleared at the start of
// every resolution.
package bootstrap

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/config"
)

// RootRoute is where denied navigations are redirected.
const RootRoute = "/"

// OutcomeKind classifies a resolution.
type OutcomeKind int

const (
	// Allowed lets navigation proceed.
	Allowed OutcomeKind = iota

	// Denied blocks navigation and redirects to RedirectTo.
	Denied

	// Errored reports a failure; navigation is blocked.
	Errored
)

func (k OutcomeKind) String() string {
	switch k {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Outcome is the result of a resolution.
type Outcome struct {
	Kind       OutcomeKind
	RedirectTo string
	Err        error
}

// Session is the published process-wide context.
type Session struct {
	ID          string               `json:"id"`
	Network     arwiki.NetworkConfig `json:"network"`
	RouteLang   string               `json:"route_lang"`
	TokenTicker string               `json:"token_ticker"`
	IsModerator bool                 `json:"is_moderator"`

	// ModeratorWarning is set when the admin list could not be read.
	ModeratorWarning error `json:"-"`

	Bindings *Bindings `json:"-"`
}

// Preferences is the user preference store read and written by a resolution.
type Preferences interface {
	DefaultLanguage() string
	SetDefaultLanguage(entry arwiki.LanguageEntry) error
	DefaultNetwork() string
}

// Resolver runs resolutions and holds the published session.
type Resolver struct {
	cfg     *config.Config
	prefs   Preferences
	binder  Binder
	signals Signals
	ids     IDGenerator
	address string
	logger  *slog.Logger

	mu       sync.Mutex
	current  Session
	bindings map[string]*Bindings
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBinder replaces DefaultBinder.
func WithBinder(b Binder) Option {
	return func(r *Resolver) { r.binder = b }
}

// WithSignals sets the presentation signal sink.
func WithSignals(s Signals) Option {
	return func(r *Resolver) { r.signals = s }
}

// WithIDGenerator sets the session id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Resolver) { r.ids = g }
}

// WithAddress sets the user's main address used for the moderator check.
func WithAddress(addr string) Option {
	return func(r *Resolver) { r.address = addr }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a Resolver. prefs may be nil, in which case the default
// network is used and the default language is never written.
func New(cfg *config.Config, prefs Preferences, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:      cfg,
		prefs:    prefs,
		ids:      UUIDv7Generator{},
		logger:   slog.Default(),
		bindings: make(map[string]*Bindings),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.binder == nil {
		r.binder = DefaultBinder(r.logger)
	}
	if r.signals == nil {
		r.signals = LogSignals{Logger: r.logger}
	}
	return r
}

// Current returns a copy of the published session.
func (r *Resolver) Current() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Close releases every network binding created by the resolver.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first error
	for name, b := range r.bindings {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.bindings, name)
	}
	return first
}

// Resolve runs one resolution for route.
//
// An absent or inactive route language denies navigation but the ticker and
// moderator results are still published. Any failure other than a denial
// yields Errored and publishes nothing. The returned session is nil unless
// the outcome is Allowed or Denied.
func (r *Resolver) Resolve(ctx context.Context, route *Route) (Outcome, *Session) {
	r.resetModerator()

	network, err := config.SelectNetwork(r.cfg, r.networkPrefs())
	if err != nil {
		return r.errored(err), nil
	}

	r.signals.Loading(true)
	defer r.signals.Loading(false)

	b, err := r.bind(network)
	if err != nil {
		return r.errored(err), nil
	}

	staged := Session{
		ID:       r.ids.Generate(),
		Network:  network,
		Bindings: b,
	}
	outcome := Outcome{Kind: Allowed}
	var newDefault *arwiki.LanguageEntry

	if lang := LangFromRoute(route); lang != "" {
		entry, err := NewLanguageValidator(b.Languages()).Validate(ctx, lang)
		switch {
		case err == nil:
			staged.RouteLang = lang
			if r.prefs != nil && r.prefs.DefaultLanguage() != lang {
				newDefault = &entry
			}
		case arwiki.IsKind(err, arwiki.KindLanguageDenied):
			outcome = Outcome{Kind: Denied, RedirectTo: RootRoute, Err: err}
		default:
			return r.errored(err), nil
		}
	}

	ticker, err := b.Token().Ticker(ctx)
	if err != nil {
		return r.errored(err), nil
	}
	staged.TokenTicker = ticker

	if r.address != "" {
		isMod, warn := NewModeratorResolver(b.Admins()).IsModerator(ctx, r.address)
		staged.IsModerator = isMod
		staged.ModeratorWarning = warn
	}

	if err := ctx.Err(); err != nil {
		return r.errored(err), nil
	}

	if newDefault != nil {
		if err := r.prefs.SetDefaultLanguage(*newDefault); err != nil {
			r.logger.Warn("failed to save default language",
				"language", newDefault.Code,
				"error", err,
			)
		}
	}
	r.publish(staged)

	if staged.ModeratorWarning != nil {
		r.signals.Message(slog.LevelWarn, "moderator status unavailable")
	}
	if outcome.Kind == Denied {
		r.signals.Message(slog.LevelError, "Language not supported")
	}

	r.logger.Debug("session resolved",
		"session_id", staged.ID,
		"network", network.Name,
		"route_lang", staged.RouteLang,
		"outcome", outcome.Kind.String(),
	)
	return outcome, &staged
}

func (r *Resolver) networkPrefs() config.NetworkPreference {
	if r.prefs == nil {
		return nil
	}
	return r.prefs
}

func (r *Resolver) bind(network arwiki.NetworkConfig) (*Bindings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bindings[network.Name]; ok {
		return b, nil
	}
	b, err := r.binder(network)
	if err != nil {
		return nil, err
	}
	r.bindings[network.Name] = b
	return b, nil
}

func (r *Resolver) resetModerator() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current.IsModerator = false
}

func (r *Resolver) publish(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = s
}

func (r *Resolver) errored(err error) Outcome {
	r.logger.Warn("bootstrap failed", "error", err)
	r.signals.Message(slog.LevelError, err.Error())
	return Outcome{Kind: Errored, Err: err}
}

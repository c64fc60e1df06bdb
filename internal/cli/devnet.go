package cli

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/config"
	"github.com/roach88/arwiki/internal/devnet"
	"github.com/roach88/arwiki/internal/keys"
	"github.com/roach88/arwiki/internal/ledger"
	"github.com/roach88/arwiki/internal/store"
)

// DevnetOptions holds flags for the devnet commands.
type DevnetOptions struct {
	*RootOptions
	Database string
	KeyFile  string
}

// SeedResult is the JSON payload of devnet seed.
type SeedResult struct {
	Database string `json:"database"`
	Fixture  string `json:"fixture"`
	Height   int64  `json:"height"`
	*devnet.Result
}

// NewDevnetCommand creates the devnet command group.
func NewDevnetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DevnetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "devnet",
		Short: "Manage the local development ledger",
	}

	seed := &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Seed the local ledger from a fixture",
		Long: `Seed the local ledger from a fixture.

Signs and submits the fixture's transactions, then writes its contract state
snapshots. Without --key an ephemeral ed25519 key is generated; its address
is printed and can be referenced in the fixture as ${owner}.

The database is --db, or the dev_database of the selected loopback network.

Examples:
  arwiki devnet seed testdata/intro.yaml
  arwiki devnet seed fixture.yaml --db ./dev.db --key mod.key`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevnetSeed(opts, args[0], cmd)
		},
	}
	seed.Flags().StringVar(&opts.Database, "db", "", "path to SQLite dev ledger")
	seed.Flags().StringVarP(&opts.KeyFile, "key", "k", "", "signing key file (default: ephemeral key)")

	cmd.AddCommand(seed)
	return cmd
}

func (o *DevnetOptions) database(env *environment) (string, error) {
	if o.Database != "" {
		return o.Database, nil
	}
	n, err := config.SelectNetwork(env.cfg, env.prefs)
	if err != nil {
		return "", err
	}
	if !n.IsLoopback() || n.DevDatabase == "" {
		return "", arwiki.InvalidInput("cli.devnet", fmt.Sprintf("network %q has no local dev ledger; pass --db", n.Name))
	}
	return n.DevDatabase, nil
}

func (o *DevnetOptions) signer() (ledger.Signer, error) {
	if o.KeyFile != "" {
		return keys.Load(o.KeyFile)
	}
	f, err := keys.Generate(keys.TypeEd25519, ledger.DigestSHA256, rand.Reader)
	if err != nil {
		return nil, err
	}
	return keys.FromFile(f)
}

func runDevnetSeed(opts *DevnetOptions, fixturePath string, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	fixture, err := devnet.LoadFixture(fixturePath)
	if err != nil {
		return env.out.Fail(ExitCommandError, "failed to load fixture", err)
	}
	dbPath, err := opts.database(env)
	if err != nil {
		return env.out.Fail(ExitCommandError, "no dev ledger", err)
	}
	signer, err := opts.signer()
	if err != nil {
		return env.out.Fail(ExitCommandError, "failed to load key", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return env.out.Fail(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	res, err := devnet.Seed(ctx, st, fixture, signer)
	if err != nil {
		return env.out.Fail(ExitFailure, "seed failed", err)
	}
	height, err := st.NetworkHeight(ctx)
	if err != nil {
		return env.out.Fail(ExitFailure, "seed failed", err)
	}
	env.logger.Info("devnet seeded",
		"fixture", fixture.Name,
		"database", dbPath,
		"transactions", len(res.Refs),
		"contracts", len(res.Contracts),
	)

	result := SeedResult{Database: dbPath, Fixture: fixture.Name, Height: height, Result: res}
	return env.out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Seeded %s into %s (height %d)\n", fixture.Name, dbPath, height)
		fmt.Fprintf(w, "Owner: %s\n", res.Owner)
		refs := make([]string, 0, len(res.Refs))
		for ref := range res.Refs {
			refs = append(refs, ref)
		}
		sort.Strings(refs)
		for _, ref := range refs {
			fmt.Fprintf(w, "  %s: %s\n", ref, res.Refs[ref])
		}
		for _, id := range res.Contracts {
			fmt.Fprintf(w, "  contract %s\n", id)
		}
	})
}

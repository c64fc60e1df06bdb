package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/bootstrap"
	"github.com/roach88/arwiki/internal/query"
)

// PagesOptions holds flags shared by the pages subcommands.
type PagesOptions struct {
	*RootOptions
	Lang      string
	All       bool
	BatchSize int
}

// PageListResult is the JSON payload of pages list.
type PageListResult struct {
	Language string                `json:"language"`
	Filtered bool                  `json:"filtered"`
	Pages    []arwiki.ResolvedPage `json:"pages"`
}

// NewPagesCommand creates the pages command group.
func NewPagesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PagesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List approved pages",
	}
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", "en", "language code")
	cmd.PersistentFlags().IntVar(&opts.BatchSize, "batch", 0, "content ids per ledger request (default 100)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List approved pages of a language",
		Long: `List approved pages of a language.

Reads the page index from the token contract and joins it with the content
transactions it references. By default only active pages with content are
listed; --all also lists inactive entries and index entries whose content
the ledger did not return.

Examples:
  arwiki pages list --lang en
  arwiki pages list --lang fr --all --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPagesList(opts, cmd)
		},
	}
	list.Flags().BoolVar(&opts.All, "all", false, "include inactive and unresolved index entries")

	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Show approved pages with their stake age",
		Long: `Show approved pages with their stake age.

The network height is fetched concurrently with the page list; age is the
number of blocks since each page's stake started.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPagesDashboard(opts, cmd)
		},
	}

	cmd.AddCommand(list, dashboard)
	return cmd
}

func (o *PagesOptions) engine(env *environment, b *bootstrap.Bindings) *query.Engine {
	qopts := []query.Option{query.WithLogger(env.logger)}
	if o.BatchSize > 0 {
		qopts = append(qopts, query.WithBatchSize(o.BatchSize))
	}
	return query.New(b.Ledger, b.Token(), b.Categories(), qopts...)
}

func runPagesList(opts *PagesOptions, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	sess, r, err := env.resolve(ctx, langRoute(opts.Lang), "")
	if err != nil {
		return env.out.Fail(exitCodeFor(err), "bootstrap failed", err)
	}
	defer r.Close()

	cur, err := opts.engine(env, sess.Bindings).ListApprovedPages(ctx, opts.Lang, !opts.All)
	if err != nil {
		return env.out.Fail(ExitFailure, "failed to list pages", err)
	}
	pages, err := query.Collect(cur)
	if err != nil {
		return env.out.Fail(ExitFailure, "failed to list pages", err)
	}
	if pages == nil {
		pages = []arwiki.ResolvedPage{}
	}

	result := PageListResult{Language: opts.Lang, Filtered: !opts.All, Pages: pages}
	return env.out.Success(result, func(w io.Writer) {
		if len(pages) == 0 {
			fmt.Fprintf(w, "No approved pages for %s.\n", opts.Lang)
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tTITLE\tCATEGORY\tSPONSOR\tSTART\tTX")
		for _, p := range pages {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", p.Slug, displayOrDash(p.Title), displayOrDash(p.Category), displayOrDash(p.Sponsor), p.Start, p.ID)
		}
		tw.Flush()
	})
}

func runPagesDashboard(opts *PagesOptions, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	sess, r, err := env.resolve(ctx, langRoute(opts.Lang), "")
	if err != nil {
		return env.out.Fail(exitCodeFor(err), "bootstrap failed", err)
	}
	defer r.Close()

	dash, err := opts.engine(env, sess.Bindings).Dashboard(ctx, opts.Lang)
	if err != nil {
		return env.out.Fail(ExitFailure, "failed to build dashboard", err)
	}

	return env.out.Success(dash, func(w io.Writer) {
		fmt.Fprintf(w, "Network height: %d\n", dash.Height)
		if len(dash.Pages) == 0 {
			fmt.Fprintf(w, "No approved pages for %s.\n", opts.Lang)
			return
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SLUG\tSPONSOR\tSTART\tAGE\tREWARD AT")
		for _, p := range dash.Pages {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", p.Slug, displayOrDash(p.Sponsor), p.Start, p.Age, p.PageRewardAt)
		}
		tw.Flush()
	})
}

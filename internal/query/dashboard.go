package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/arwiki/internal/arwiki"
)

// DashboardPage is a listed page together with its stake age.
type DashboardPage struct {
	arwiki.ResolvedPage

	// Age is the number of blocks since the stake started, never negative.
	Age int64 `json:"age"`
}

// Dashboard is the moderator overview of approved pages.
type Dashboard struct {
	Height int64           `json:"height"`
	Pages  []DashboardPage `json:"pages"`
}

// Dashboard lists the approved pages of lang while fetching the network
// height concurrently. The two results are joined once both are in.
func (e *Engine) Dashboard(ctx context.Context, lang string) (*Dashboard, error) {
	g, gctx := errgroup.WithContext(ctx)

	var height int64
	g.Go(func() error {
		h, err := e.ledger.NetworkHeight(gctx)
		if err != nil {
			return arwiki.NetworkUnavailable("query.Dashboard", err)
		}
		height = h
		return nil
	})

	var pages []arwiki.ResolvedPage
	g.Go(func() error {
		cur, err := e.ListApprovedPages(gctx, lang, true)
		if err != nil {
			return err
		}
		pages, err = Collect(cur)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Dashboard{Height: height, Pages: make([]DashboardPage, len(pages))}
	for i, p := range pages {
		d.Pages[i] = DashboardPage{ResolvedPage: p, Age: max(height-p.Start, 0)}
	}
	return d, nil
}

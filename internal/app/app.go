package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/claimdeck/internal/claims"
	"github.com/five82/claimdeck/internal/config"
	"github.com/five82/claimdeck/internal/format"
	"github.com/five82/claimdeck/internal/logging"
	"github.com/five82/claimdeck/internal/prefs"
	"github.com/five82/claimdeck/internal/query"
	"github.com/five82/claimdeck/internal/state"
	"github.com/five82/claimdeck/internal/ui"
)

// Options configure the claimdeck dashboard.
type Options struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string // empty uses prefs.DefaultPath
	Where     *query.Expr
	Logger    *slog.Logger

	// Source overrides the HTTP client, mainly for tests.
	Source claims.Source
}

// Dashboard holds the wired dependencies shared by the poller and the UI.
type Dashboard struct {
	Store  *state.Store
	Source *claims.CachedSource
	opts   Options
}

// Build wires the claims source, cache and store without starting anything.
func Build(opts Options) (*Dashboard, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.PrefsPath == "" {
		opts.PrefsPath = prefs.DefaultPath()
	}
	src := opts.Source
	if src == nil {
		client, err := claims.NewClient(opts.Config.APIURL, claims.WithLogger(opts.Logger))
		if err != nil {
			return nil, fmt.Errorf("init claims client: %w", err)
		}
		src = client
	}
	return &Dashboard{
		Store:  &state.Store{},
		Source: claims.NewCachedSource(src, opts.Config.CacheTTL(), claims.DefaultRefreshEvery),
		opts:   opts,
	}, nil
}

// Start performs the first fetch and launches the background poller. A
// failed first fetch is recorded in the store, not returned, so the UI can
// show it and keep retrying.
func (d *Dashboard) Start(ctx context.Context) {
	_ = refresh(ctx, d.Store, d.Source, d.opts.Logger)
	StartPoller(ctx, d.Store, d.Source, d.opts.Config.PollInterval(), d.opts.Logger)
}

// UIOptions returns the settings ui.Run needs.
func (d *Dashboard) UIOptions(ctx context.Context) ui.Options {
	cfg := d.opts.Config
	return ui.Options{
		Context:   ctx,
		Source:    d.Source,
		Refresher: d.Source,
		Store:     d.Store,
		Config:    &cfg,
		Prefs:     d.opts.Prefs,
		PrefsPath: d.opts.PrefsPath,
		Where:     d.opts.Where,
		Logger:    d.opts.Logger,
		Formatter: format.New(),
	}
}

// Run boots the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	dash, err := Build(opts)
	if err != nil {
		return err
	}
	dash.opts.Logger.Info("claimdeck starting",
		"api_url", opts.Config.APIURL,
		"poll_interval", opts.Config.PollInterval(),
	)
	dash.Start(ctx)
	return ui.Run(dash.UIOptions(ctx))
}

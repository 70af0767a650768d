package main

import (
	"context"

	"github.com/rotisserie/eris"

	"spx-gex/internal/browser"
	"spx-gex/internal/gexlog"
	"spx-gex/internal/gexlog/gexlogobs"
	"spx-gex/internal/interfaces"
	"spx-gex/internal/logger"
	"spx-gex/internal/store"
)

func browserOptions(cfg *store.Config) browser.Options {
	return browser.Options{
		Headless:          cfg.Browser.Headless,
		RemoteURL:         cfg.Browser.RemoteURL,
		Width:             cfg.Browser.Width,
		Height:            cfg.Browser.Height,
		IgnoreHTTPSErrors: cfg.Browser.IgnoreHTTPSErrors,
		UserAgent:         cfg.Browser.UserAgent,
		LoadTimeout:       cfg.Browser.LoadTimeout,
		Settle:            cfg.Browser.Settle,
	}
}

func openerFor(cfg *store.Config) interfaces.PageOpener {
	if cfg.Engine == store.EngineStatic {
		return browser.StaticOpener(browserOptions(cfg))
	}
	return browser.ChromeOpener(browserOptions(cfg))
}

// openSink builds the CSV log sink, mirrored to SQLite when a path is
// configured. The returned func releases the mirror.
func openSink(ctx context.Context, cfg *store.Config) (interfaces.RecordSink, func(), error) {
	csvSink := gexlog.NewCSVSink(cfg.LogPath())
	if cfg.Store.SQLitePath == "" {
		return gexlogobs.Wrap(csvSink, "csv"), func() {}, nil
	}

	db, err := gexlog.NewSQLite(cfg.Store.SQLitePath)
	if err != nil {
		return nil, nil, eris.Wrap(err, "open sqlite mirror")
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, eris.Wrap(err, "migrate sqlite mirror")
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Warn(ctx, "SQLite close failed", "error", err)
		}
	}
	tee := gexlog.NewTee(gexlogobs.Wrap(csvSink, "csv"), gexlogobs.Wrap(db, "sqlite"))
	return tee, closeDB, nil
}

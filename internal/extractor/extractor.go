// Package extractor harvests the rendered text of a dashboard page.
package extractor

import (
	"context"
	"time"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/logger"
	"spx-gex/internal/store"
)

const sep = " | "

// Corpus is the text harvested from one page: the visible body text and
// the labels drawn inside SVG charts, which body text alone misses.
type Corpus struct {
	Body     string
	Graphics string
	// Waited is false when the wait pattern never appeared and the
	// harvest ran after the grace pause.
	Waited bool
}

func (c Corpus) String() string {
	return c.Body + sep + c.Graphics
}

type Extractor struct {
	pattern string
	timeout time.Duration
	grace   time.Duration
	harvest time.Duration
	sleep   func(context.Context, time.Duration) error
}

func New(cfg *store.Config) *Extractor {
	return &Extractor{
		pattern: cfg.Extract.WaitPattern,
		timeout: cfg.Extract.WaitTimeout,
		grace:   cfg.Extract.GracePause,
		harvest: cfg.Extract.HarvestTimeout,
		sleep:   sleepCtx,
	}
}

// Extract waits for the wait pattern to render, then collects the corpus.
// Harvest failures leave their part empty; only ctx ending is an error.
func (e *Extractor) Extract(ctx context.Context, page interfaces.Page) (Corpus, error) {
	timer := logger.StartOperation(ctx, "extractor.extract", "pattern", e.pattern)
	ctx = timer.GetContext()

	var c Corpus
	wctx, cancel := context.WithTimeout(ctx, e.timeout)
	err := page.WaitForText(wctx, e.pattern)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			timer.EndWithError(ctx.Err())
			return c, ctx.Err()
		}
		logger.Warn(ctx, "Wait pattern not seen, harvesting anyway", "pattern", e.pattern, "timeout", e.timeout, "error", err)
		if err := e.sleep(ctx, e.grace); err != nil {
			timer.EndWithError(err)
			return c, err
		}
	} else {
		c.Waited = true
	}

	body := e.harvestText(ctx, "body", page.BodyText)
	graphics := e.harvestText(ctx, "graphics", page.GraphicsText)
	if err := ctx.Err(); err != nil {
		timer.EndWithError(err)
		return c, err
	}

	c.Body, c.Graphics = body, graphics
	timer.End("body_len", len(body), "graphics_len", len(graphics), "waited", c.Waited)
	return c, nil
}

// harvestText runs one harvest under the harvest timeout. Any failure,
// the timeout included, yields an empty string.
func (e *Extractor) harvestText(ctx context.Context, part string, fn func(context.Context) (string, error)) string {
	hctx := ctx
	if e.harvest > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, e.harvest)
		defer cancel()
	}
	s, err := fn(hctx)
	if err != nil {
		logger.Warn(ctx, "Text harvest failed", "part", part, "timeout", e.harvest, "error", err)
		return ""
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/logger"
	"spx-gex/internal/types"
)

const (
	bodyTextJS     = `document.body ? document.body.innerText : ""`
	graphicsTextJS = `Array.from(document.querySelectorAll("svg text")).map(e => e.textContent).join(" | ")`
)

// Options configures a page session.
type Options struct {
	Headless          bool
	RemoteURL         string // DevTools websocket; empty launches a local Chrome
	Width, Height     int
	IgnoreHTTPSErrors bool
	UserAgent         string
	LoadTimeout       time.Duration
	Settle            time.Duration // pause after load for client-side rendering
}

// ChromePage drives one Chrome tab through the DevTools protocol.
type ChromePage struct {
	tab         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        Options
}

var _ interfaces.Page = (*ChromePage)(nil)

// NewChromePage starts (or attaches to) a browser and opens one tab.
// The returned page must be closed to release the browser process.
func NewChromePage(ctx context.Context, opts Options) (*ChromePage, error) {
	var (
		allocCtx    context.Context
		cancelAlloc context.CancelFunc
	)
	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
		)
		if opts.Width > 0 && opts.Height > 0 {
			allocOpts = append(allocOpts, chromedp.WindowSize(opts.Width, opts.Height))
		}
		if opts.IgnoreHTTPSErrors {
			allocOpts = append(allocOpts, chromedp.Flag("ignore-certificate-errors", true))
		}
		if opts.UserAgent != "" {
			allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, allocOpts...)
	}

	tab, cancelTab := chromedp.NewContext(allocCtx)
	var setup []chromedp.Action
	if opts.Width > 0 && opts.Height > 0 {
		setup = append(setup, chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)))
	}
	// The first Run allocates the browser; it must not carry a deadline or
	// the browser dies with it.
	if err := chromedp.Run(tab, setup...); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, eris.Wrap(err, "browser: start chrome")
	}

	return &ChromePage{tab: tab, cancelTab: cancelTab, cancelAlloc: cancelAlloc, opts: opts}, nil
}

// ChromeOpener adapts NewChromePage to interfaces.PageOpener.
func ChromeOpener(opts Options) interfaces.PageOpener {
	return func(ctx context.Context) (interfaces.Page, error) {
		return NewChromePage(ctx, opts)
	}
}

// scope derives a chromedp context from the tab that ends with ctx.
func (p *ChromePage) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	var (
		c      context.Context
		cancel context.CancelFunc
	)
	if dl, ok := ctx.Deadline(); ok {
		c, cancel = context.WithDeadline(p.tab, dl)
	} else {
		c, cancel = context.WithCancel(p.tab)
	}
	stop := context.AfterFunc(ctx, cancel)
	return c, func() {
		stop()
		cancel()
	}
}

func (p *ChromePage) Navigate(ctx context.Context, url string) error {
	if p.opts.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.LoadTimeout)
		defer cancel()
	}
	c, done := p.scope(ctx)
	defer done()

	if err := chromedp.Run(c,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return eris.Wrapf(err, "browser: navigate to %s", url)
	}

	if p.opts.Settle <= 0 {
		return nil
	}
	select {
	case <-time.After(p.opts.Settle):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *ChromePage) Click(ctx context.Context, loc types.Locator) error {
	q, err := Lower(loc)
	if err != nil {
		return err
	}
	by := chromedp.ByQuery
	if q.XPath {
		by = chromedp.BySearch
	}

	c, done := p.scope(ctx)
	defer done()

	logger.Debug(ctx, "Clicking", "locator", loc.String(), "selector", q.Selector)
	return chromedp.Run(c, chromedp.Click(q.Selector, by, chromedp.NodeVisible))
}

func (p *ChromePage) WaitForText(ctx context.Context, pattern string) error {
	quoted, err := json.Marshal(pattern)
	if err != nil {
		return eris.Wrap(err, "browser: quote pattern")
	}
	expr := fmt.Sprintf(`(() => {
		const re = new RegExp(%s, "i");
		const body = document.body ? document.body.innerText : "";
		const svg = Array.from(document.querySelectorAll("svg text")).map(e => e.textContent).join(" ");
		return re.test(body) || re.test(svg);
	})()`, quoted)

	pollOpts := []chromedp.PollOption{chromedp.WithPollingInterval(250 * time.Millisecond)}
	if dl, ok := ctx.Deadline(); ok {
		pollOpts = append(pollOpts, chromedp.WithPollingTimeout(time.Until(dl)))
	}

	c, done := p.scope(ctx)
	defer done()

	var found bool
	return chromedp.Run(c, chromedp.Poll(expr, &found, pollOpts...))
}

func (p *ChromePage) BodyText(ctx context.Context) (string, error) {
	c, done := p.scope(ctx)
	defer done()

	var s string
	if err := chromedp.Run(c, chromedp.Evaluate(bodyTextJS, &s)); err != nil {
		return "", eris.Wrap(err, "browser: body text")
	}
	return s, nil
}

func (p *ChromePage) GraphicsText(ctx context.Context) (string, error) {
	c, done := p.scope(ctx)
	defer done()

	var s string
	if err := chromedp.Run(c, chromedp.Evaluate(graphicsTextJS, &s)); err != nil {
		return "", eris.Wrap(err, "browser: svg text")
	}
	return s, nil
}

// Close closes the tab and releases the browser.
func (p *ChromePage) Close() error {
	p.cancelTab()
	p.cancelAlloc()
	return nil
}

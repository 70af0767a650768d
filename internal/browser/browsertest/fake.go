// Package browsertest provides an in-memory interfaces.Page for tests.
package browsertest

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/types"
)

var ErrNoElement = errors.New("browsertest: no element matches locator")

// FakePage renders fixed text. Clicks succeed only for locators listed in
// Clickable (keyed by Locator.String()). Unmatched clicks fail at once, or
// hang until their context ends when Hang is set, like a real engine
// waiting for an element that never appears. WaitForText hangs the same
// way when the pattern is absent. With HangHarvest set, BodyText and
// GraphicsText hang until their context ends, like a renderer stuck in a
// busy script.
type FakePage struct {
	Body        string
	Graphics    string
	BodyErr     error
	GraphicsErr error
	NavigateErr error
	Clickable   map[string]bool
	Hang        bool
	HangHarvest bool

	mu        sync.Mutex
	clicks    []string
	navigated []string
	closed    int
}

var _ interfaces.Page = (*FakePage)(nil)

// Opener returns a PageOpener that always hands out p.
func (p *FakePage) Opener() interfaces.PageOpener {
	return func(context.Context) (interfaces.Page, error) { return p, nil }
}

func (p *FakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	p.navigated = append(p.navigated, url)
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.NavigateErr
}

func (p *FakePage) Click(ctx context.Context, loc types.Locator) error {
	p.mu.Lock()
	p.clicks = append(p.clicks, loc.String())
	p.mu.Unlock()

	if p.Clickable[loc.String()] {
		return nil
	}
	if p.Hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return ErrNoElement
}

func (p *FakePage) WaitForText(ctx context.Context, pattern string) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return err
	}
	if re.MatchString(p.Body) || re.MatchString(p.Graphics) {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (p *FakePage) BodyText(ctx context.Context) (string, error) {
	if p.HangHarvest {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if p.BodyErr != nil {
		return "", p.BodyErr
	}
	return p.Body, nil
}

func (p *FakePage) GraphicsText(ctx context.Context) (string, error) {
	if p.HangHarvest {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if p.GraphicsErr != nil {
		return "", p.GraphicsErr
	}
	return p.Graphics, nil
}

func (p *FakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

// Clicks lists attempted locators in order.
func (p *FakePage) Clicks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.clicks...)
}

func (p *FakePage) Navigated() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigated...)
}

func (p *FakePage) Closed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

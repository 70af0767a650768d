package interfaces

import (
	"context"

	"github.com/rotisserie/eris"

	"spx-gex/internal/types"
)

// ErrUnsupported is returned by engines that cannot perform an action,
// e.g. clicking on a static HTML snapshot.
var ErrUnsupported = eris.New("page: action not supported by engine")

// Page is a single live page session. Every call honours ctx
// cancellation and deadline; callers bound waits with context.WithTimeout.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, loc types.Locator) error
	// WaitForText blocks until the rendered text matches pattern
	// (case-insensitive, JavaScript/RE2 common syntax) or ctx ends.
	WaitForText(ctx context.Context, pattern string) error
	BodyText(ctx context.Context) (string, error)
	// GraphicsText returns the text of all vector-graphics text nodes
	// joined with " | ".
	GraphicsText(ctx context.Context) (string, error)
	Close() error
}

// PageOpener acquires a fresh page session.
type PageOpener func(ctx context.Context) (Page, error)

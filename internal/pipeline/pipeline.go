// Package pipeline runs one capture: load the dashboard, navigate to the
// gamma view, harvest the text, parse the Total Gamma figure and append it
// to the record sink.
//
// A run either ends PERSISTED with exactly one record written, or FAILED.
// Parse failure is reported as ErrGammaNotFound so callers can tell a
// missing data point apart from an operational error.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"spx-gex/internal/extractor"
	"spx-gex/internal/gamma"
	"spx-gex/internal/interfaces"
	"spx-gex/internal/logger"
	"spx-gex/internal/navigator"
	"spx-gex/internal/store"
	"spx-gex/internal/types"
)

type State string

const (
	StateStart     State = "START"
	StateNavigated State = "NAVIGATED"
	StateExtracted State = "EXTRACTED"
	StateParsed    State = "PARSED"
	StatePersisted State = "PERSISTED"
	StateFailed    State = "FAILED"
)

var (
	ErrGammaNotFound = eris.New("pipeline: no Total Gamma figure on page")
	ErrPageLoad      = eris.New("pipeline: page load failed")
)

// Result describes a finished run. Record is only set once the run
// reached PARSED.
type Result struct {
	RunID      string
	State      State
	Record     *types.ExtractionRecord
	Navigation []navigator.Outcome
}

type Pipeline struct {
	cfg  *store.Config
	open interfaces.PageOpener
	nav  *navigator.Navigator
	ext  *extractor.Extractor
	sink interfaces.RecordSink
	now  func() time.Time
}

func New(cfg *store.Config, open interfaces.PageOpener, sink interfaces.RecordSink) *Pipeline {
	return &Pipeline{
		cfg:  cfg,
		open: open,
		nav:  navigator.New(cfg.Navigation),
		ext:  extractor.New(cfg),
		sink: sink,
		now:  time.Now,
	}
}

// Run performs one capture. The page session is closed on every path.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), State: StateStart}
	timer := logger.StartOperation(ctx, "pipeline.run",
		"run_id", res.RunID,
		"source_url", p.cfg.SourceURL,
		"symbol", p.cfg.Symbol,
	)
	ctx = timer.GetContext()

	if err := p.run(ctx, res); err != nil {
		res.State = StateFailed
		timer.EndWithError(err, "run_id", res.RunID)
		return res, err
	}
	timer.End("run_id", res.RunID, "state", string(res.State))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, res *Result) error {
	page, err := p.open(ctx)
	if err != nil {
		return eris.Wrap(err, "pipeline: open page")
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			logger.Warn(ctx, "Page close failed", "run_id", res.RunID, "error", cerr)
		}
	}()

	if err := page.Navigate(ctx, p.cfg.SourceURL); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return eris.Wrapf(ErrPageLoad, "%s: %v", p.cfg.SourceURL, err)
	}

	outcomes, err := p.nav.Run(ctx, page)
	res.Navigation = outcomes
	if err != nil {
		return eris.Wrap(err, "pipeline: navigate")
	}
	res.State = StateNavigated

	corpus, err := p.ext.Extract(ctx, page)
	if err != nil {
		return eris.Wrap(err, "pipeline: extract")
	}
	res.State = StateExtracted

	parsed, ok := gamma.ParseCorpus(corpus.String())
	if !ok {
		logger.Error(ctx, "Total Gamma not found",
			"run_id", res.RunID,
			"body_len", len(corpus.Body),
			"graphics_len", len(corpus.Graphics),
			"waited", corpus.Waited,
		)
		return ErrGammaNotFound
	}
	rec := types.NewExtractionRecord(p.now(), p.cfg.Symbol, parsed.Truncated(), parsed.Display, p.cfg.SourceURL)
	res.Record = &rec
	res.State = StateParsed

	if err := p.sink.Write(ctx, rec); err != nil {
		return eris.Wrap(err, "pipeline: persist")
	}
	res.State = StatePersisted

	logger.Capture(ctx, rec.Symbol, rec.RawLabel, rec.TotalGamma, "run_id", res.RunID, "date", rec.Date())
	return nil
}

// Package navigator walks a page through a plan of best-effort UI steps.
//
// Each step lists alternative locators. They are tried in order, each
// bounded by the step's timeout, and the first successful click ends the
// step. A step whose candidates all fail is skipped: the dashboard may
// already be in the wanted state, or its markup may have moved.
package navigator

import (
	"context"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/logger"
	"spx-gex/internal/types"
)

// Outcome records how one step went. Matched is the index of the
// candidate that was clicked, or -1 when the step was skipped.
type Outcome struct {
	Step     string
	Matched  int
	Attempts int
}

func (o Outcome) OK() bool { return o.Matched >= 0 }

type Navigator struct {
	steps []types.NavigationStep
}

func New(steps []types.NavigationStep) *Navigator {
	return &Navigator{steps: steps}
}

// Run executes every step against page. Candidate failures never surface;
// the only error is ctx ending, in which case the outcomes so far are
// returned with it.
func (n *Navigator) Run(ctx context.Context, page interfaces.Page) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(n.steps))
	for _, step := range n.steps {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		out := n.runStep(ctx, page, step)
		if !out.OK() {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}
			logger.StepMiss(ctx, step.Name, out.Attempts)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (n *Navigator) runStep(ctx context.Context, page interfaces.Page, step types.NavigationStep) Outcome {
	timer := logger.StartOperation(ctx, "navigator."+step.Name, "candidates", len(step.Candidates))
	out := Outcome{Step: step.Name, Matched: -1}

	for i, loc := range step.Candidates {
		if ctx.Err() != nil {
			break
		}
		out.Attempts++
		if err := attempt(timer.GetContext(), page, loc, step); err != nil {
			logger.Debug(ctx, "Candidate failed", "step", step.Name, "locator", loc.String(), "error", err)
			continue
		}
		out.Matched = i
		break
	}

	timer.End("matched", out.Matched, "attempts", out.Attempts)
	if out.OK() {
		logger.Info(ctx, "Navigation step done", "step", step.Name, "locator", step.Candidates[out.Matched].String())
	}
	return out
}

func attempt(ctx context.Context, page interfaces.Page, loc types.Locator, step types.NavigationStep) error {
	actx, cancel := context.WithTimeout(ctx, step.Timeout)
	defer cancel()
	return page.Click(actx, loc)
}

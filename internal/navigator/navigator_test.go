package navigator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spx-gex/internal/browser/browsertest"
	"spx-gex/internal/store"
	"spx-gex/internal/types"
)

var (
	acceptBtn = types.Locator{Strategy: types.StrategyText, Tag: "button", Value: "Accept"}
	cookieCSS = types.Locator{Strategy: types.StrategyCSS, Value: "#cookie"}
	gammaTab  = types.Locator{Strategy: types.StrategyRole, Role: "tab", Value: "Gamma"}
	gammaBtn  = types.Locator{Strategy: types.StrategyText, Tag: "button", Value: "Gamma"}
)

func TestRunFallsBackToLaterCandidate(t *testing.T) {
	page := &browsertest.FakePage{Clickable: map[string]bool{acceptBtn.String(): true}}
	nav := New([]types.NavigationStep{
		{Name: "dismiss_overlay", Timeout: time.Second, Candidates: []types.Locator{cookieCSS, acceptBtn, gammaBtn}},
	})

	outcomes, err := nav.Run(context.Background(), page)
	require.NoError(t, err)

	require.Len(t, outcomes, 1)
	assert.Equal(t, Outcome{Step: "dismiss_overlay", Matched: 1, Attempts: 2}, outcomes[0])
	assert.Equal(t, []string{cookieCSS.String(), acceptBtn.String()}, page.Clicks(), "candidates after the match are not tried")
}

func TestRunSkipsExhaustedStep(t *testing.T) {
	page := &browsertest.FakePage{Clickable: map[string]bool{gammaTab.String(): true}}
	nav := New([]types.NavigationStep{
		{Name: "dismiss_overlay", Timeout: time.Second, Candidates: []types.Locator{cookieCSS, acceptBtn}},
		{Name: "select_view", Timeout: time.Second, Candidates: []types.Locator{gammaBtn, gammaTab}},
	})

	outcomes, err := nav.Run(context.Background(), page)
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].OK())
	assert.Equal(t, 2, outcomes[0].Attempts)
	assert.True(t, outcomes[1].OK())
	assert.Equal(t, 1, outcomes[1].Matched)
}

func TestRunBoundsEachAttempt(t *testing.T) {
	page := &browsertest.FakePage{Hang: true}
	nav := New([]types.NavigationStep{
		{Name: "dismiss_overlay", Timeout: 30 * time.Millisecond, Candidates: []types.Locator{cookieCSS, acceptBtn}},
		{Name: "select_view", Timeout: 30 * time.Millisecond, Candidates: []types.Locator{gammaBtn}},
	})

	start := time.Now()
	outcomes, err := nav.Run(context.Background(), page)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
	assert.Len(t, page.Clicks(), 3)
	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	page := &browsertest.FakePage{Hang: true}
	nav := New([]types.NavigationStep{
		{Name: "dismiss_overlay", Timeout: time.Minute, Candidates: []types.Locator{cookieCSS}},
		{Name: "select_view", Timeout: time.Minute, Candidates: []types.Locator{gammaBtn}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcomes, err := nav.Run(ctx, page)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, outcomes)
	assert.Equal(t, []string{cookieCSS.String()}, page.Clicks())
}

func TestDefaultPlanOnFreshPage(t *testing.T) {
	// no banner, instrument already selected: only the Gamma tab responds
	page := &browsertest.FakePage{Clickable: map[string]bool{gammaTab.String(): true}}
	nav := New(store.DefaultNavigation())

	outcomes, err := nav.Run(context.Background(), page)
	require.NoError(t, err)

	require.Len(t, outcomes, 3)
	assert.False(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
	assert.Equal(t, "select_view", outcomes[2].Step)
	assert.Equal(t, 1, outcomes[2].Matched)
}

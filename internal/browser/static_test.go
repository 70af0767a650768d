package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/types"
)

const dashboardHTML = `<!doctype html>
<html><head><title>GFLOWS</title></head>
<body>
  <script>var total = "Total Gamma $999";</script>
  <nav><a href="#">S&amp;P 500 INDEX (SPX)</a></nav>
  <div class="card"><span>Net Flow</span> <span>$12</span></div>
  <svg width="100" height="40"><text x="0" y="10">Total Gamma</text><text x="0" y="30">$-1,250,000</text></svg>
</body></html>`

func newDashboard(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStaticPageHarvest(t *testing.T) {
	srv := newDashboard(t, dashboardHTML)
	ctx := context.Background()

	page := NewStaticPage(Options{LoadTimeout: 5 * time.Second})
	defer page.Close()
	require.NoError(t, page.Navigate(ctx, srv.URL+"/"))

	body, err := page.BodyText(ctx)
	require.NoError(t, err)
	assert.Contains(t, body, "S&P 500 INDEX (SPX)")
	assert.Contains(t, body, "Net Flow")
	assert.NotContains(t, body, "$999", "script text must not leak into the body corpus")

	svg, err := page.GraphicsText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Total Gamma | $-1,250,000", svg)

	assert.NoError(t, page.WaitForText(ctx, `Total\s*Gamma`))
	assert.ErrorIs(t, page.WaitForText(ctx, `Vanna`), ErrTextNotFound)
}

func TestStaticPageClickUnsupported(t *testing.T) {
	page := NewStaticPage(Options{})
	err := page.Click(context.Background(), types.Locator{Strategy: types.StrategyText, Value: "Gamma"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, interfaces.ErrUnsupported))
}

func TestStaticPageNavigateErrors(t *testing.T) {
	srv := newDashboard(t, dashboardHTML)

	page := NewStaticPage(Options{LoadTimeout: 5 * time.Second})
	assert.Error(t, page.Navigate(context.Background(), srv.URL+"/missing"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, page.Navigate(ctx, srv.URL+"/"))

	_, err := page.BodyText(context.Background())
	assert.Error(t, err, "no document after failed loads")
}

func TestStaticOpener(t *testing.T) {
	p, err := StaticOpener(Options{})(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &StaticPage{}, p)
}

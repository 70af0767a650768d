package browser

import (
	"bytes"
	"context"
	"crypto/tls"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"

	"spx-gex/internal/interfaces"
	"spx-gex/internal/types"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrTextNotFound is returned by StaticPage.WaitForText; a fetched
// document never changes, so there is nothing to wait for.
var ErrTextNotFound = eris.New("browser: text not present in document")

// StaticPage serves the page API from one server-rendered HTML fetch.
// Nothing executes client-side, so clicks are unsupported.
type StaticPage struct {
	opts Options
	doc  *goquery.Document
}

var _ interfaces.Page = (*StaticPage)(nil)

func NewStaticPage(opts Options) *StaticPage {
	return &StaticPage{opts: opts}
}

// StaticOpener adapts NewStaticPage to interfaces.PageOpener.
func StaticOpener(opts Options) interfaces.PageOpener {
	return func(ctx context.Context) (interfaces.Page, error) {
		return NewStaticPage(opts), nil
	}
}

func (p *StaticPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.Async(false),
	)
	timeout := p.opts.LoadTimeout
	if dl, ok := ctx.Deadline(); ok && (timeout <= 0 || time.Until(dl) < timeout) {
		timeout = time.Until(dl)
	}
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	if p.opts.IgnoreHTTPSErrors {
		c.WithTransport(&http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		})
	}

	ua := p.opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", ua)
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(url); err != nil {
		return eris.Wrapf(err, "browser: visit %s", url)
	}
	c.Wait()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "browser: parse html")
	}
	p.doc = doc
	return nil
}

func (p *StaticPage) Click(ctx context.Context, loc types.Locator) error {
	return eris.Wrapf(interfaces.ErrUnsupported, "browser: click %s", loc.String())
}

func (p *StaticPage) WaitForText(ctx context.Context, pattern string) error {
	if p.doc == nil {
		return eris.New("browser: no document loaded")
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return eris.Wrap(err, "browser: compile pattern")
	}
	body, _ := p.BodyText(ctx)
	svg, _ := p.GraphicsText(ctx)
	if re.MatchString(body) || re.MatchString(svg) {
		return nil
	}
	return ErrTextNotFound
}

func (p *StaticPage) BodyText(ctx context.Context) (string, error) {
	if p.doc == nil {
		return "", eris.New("browser: no document loaded")
	}
	body := p.doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	return body.Text(), nil
}

func (p *StaticPage) GraphicsText(ctx context.Context) (string, error) {
	if p.doc == nil {
		return "", eris.New("browser: no document loaded")
	}
	labels := p.doc.Find("svg text").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	return strings.Join(labels, " | "), nil
}

func (p *StaticPage) Close() error {
	p.doc = nil
	return nil
}

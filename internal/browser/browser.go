// Package browser renders the listing page in headless Chrome and
// settles its infinite scroll before handing the markup to extraction.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"sjsage522/offerwatch/logger"
)

// Renderer loads the listing page in a Chrome instance, settles the
// infinite scroll and returns the rendered HTML.
type Renderer struct {
	url        string
	headless   bool
	timeout    time.Duration
	stabilizer Stabilizer
	log        *logger.Logger
}

// NewRenderer creates a renderer for the listing URL. The timeout
// bounds the whole browser session, including every scroll round.
func NewRenderer(url string, headless bool, timeout time.Duration, stabilizer Stabilizer) *Renderer {
	return &Renderer{
		url:        url,
		headless:   headless,
		timeout:    timeout,
		stabilizer: stabilizer,
		log:        logger.ForBrowser(),
	}
}

// Render navigates to the listing page, waits for content, settles the
// scroll and captures the document HTML. Nothing is retried; a
// navigation failure here is fatal for the run.
func (r *Renderer) Render(ctx context.Context) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", r.headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	r.log.Debug().Str("url", r.url).Bool("headless", r.headless).Msg("Loading listing page")

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(r.url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return r.stabilizer.Settle(ctx, chromedpPage{})
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}

	r.log.Debug().Int("bytes", len(html)).Msg("Rendered listing page")
	return html, nil
}

// chromedpPage adapts the active chromedp tab to the Page capability
type chromedpPage struct{}

func (chromedpPage) ScrollToBottom(ctx context.Context) error {
	return chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil).Do(ctx)
}

func (chromedpPage) ScrollToTop(ctx context.Context) error {
	return chromedp.Evaluate(`window.scrollTo(0, 0)`, nil).Do(ctx)
}

func (chromedpPage) ContentHeight(ctx context.Context) (float64, error) {
	var height float64
	err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx)
	return height, err
}

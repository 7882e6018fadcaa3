package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// ChromeSession drives a headless (or headful, for debugging) Chrome via the
// DevTools protocol.
type ChromeSession struct {
	ctx    context.Context
	cancel []context.CancelFunc
}

var _ Session = (*ChromeSession)(nil)

// NewChromeSession launches a browser and opens one tab. Close must be
// called to tear the browser down.
func NewChromeSession(parent context.Context, headless bool) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("lang", "ja"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing Chrome binary surfaces here,
	// not on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &ChromeSession{
		ctx:    tabCtx,
		cancel: []context.CancelFunc{cancelTab, cancelAlloc},
	}, nil
}

// Close shuts the browser down.
func (s *ChromeSession) Close() {
	for _, cancel := range s.cancel {
		cancel()
	}
}

func (s *ChromeSession) Navigate(url string) error {
	return chromedp.Run(s.ctx, chromedp.Navigate(url))
}

func (s *ChromeSession) CurrentURL() (string, error) {
	var url string
	err := chromedp.Run(s.ctx, chromedp.Location(&url))
	return url, err
}

func (s *ChromeSession) PageContains(text string) (bool, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return false, err
	}
	return strings.Contains(html, text), nil
}

func (s *ChromeSession) WaitVisible(selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrWaitTimeout
	}
	return err
}

func (s *ChromeSession) Click(selector string) error {
	return chromedp.Run(s.ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (s *ChromeSession) Fill(selector, value string) error {
	return chromedp.Run(s.ctx,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (s *ChromeSession) QueryAll(selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(s.ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	return s.wrapNodes(nodes), nil
}

func (s *ChromeSession) Screenshot(path string) error {
	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

func (s *ChromeSession) wrapNodes(nodes []*cdp.Node) []Element {
	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, &chromeElement{sess: s, node: n})
	}
	return elements
}

type chromeElement struct {
	sess *ChromeSession
	node *cdp.Node
}

func (e *chromeElement) Text() (string, error) {
	var text string
	err := chromedp.Run(e.sess.ctx,
		chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID))
	return text, err
}

func (e *chromeElement) Attribute(name string) (string, bool, error) {
	var value string
	var ok bool
	err := chromedp.Run(e.sess.ctx,
		chromedp.AttributeValue([]cdp.NodeID{e.node.NodeID}, name, &value, &ok, chromedp.ByNodeID))
	return value, ok, err
}

func (e *chromeElement) QueryAll(selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(e.sess.ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0),
			chromedp.FromNode(e.node)))
	if err != nil {
		return nil, err
	}
	return e.sess.wrapNodes(nodes), nil
}

// Package browser abstracts the automated browsing session the scraper runs
// against. The portal code depends only on Session and Element, so the table
// parsing logic is testable against canned rows without a browser engine.
package browser

import (
	"errors"
	"time"
)

// ErrWaitTimeout reports that a bounded element wait expired. Callers treat
// this as "the element is not on the page", a normal outcome, not a failure
// of the session itself.
var ErrWaitTimeout = errors.New("browser: wait for element timed out")

// Element is a handle on a DOM node.
type Element interface {
	// Text returns the node's visible text content.
	Text() (string, error)
	// Attribute returns the named attribute and whether it is present.
	Attribute(name string) (string, bool, error)
	// QueryAll returns all descendant nodes matching the CSS selector.
	// An empty result is not an error.
	QueryAll(selector string) ([]Element, error)
}

// Session is the narrow set of browsing capabilities the scraper needs.
type Session interface {
	Navigate(url string) error
	CurrentURL() (string, error)
	// PageContains reports whether the rendered page contains the text.
	PageContains(text string) (bool, error)
	// WaitVisible blocks until the selector matches a visible element or the
	// timeout expires, returning ErrWaitTimeout in the latter case.
	WaitVisible(selector string, timeout time.Duration) error
	Click(selector string) error
	// Fill types value into the input matched by selector.
	Fill(selector, value string) error
	QueryAll(selector string) ([]Element, error)
	// Screenshot captures the viewport to path. Best-effort diagnostics.
	Screenshot(path string) error
}

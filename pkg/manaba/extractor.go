// Package manaba scrapes the outstanding-assignment listing of a manaba
// portal through a browser.Session.
package manaba

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/skobaya/manabasync/pkg/browser"
	"github.com/skobaya/manabasync/pkg/model"
	"github.com/skobaya/manabasync/pkg/util"
)

const (
	// The reminder link on the portal home page, identified by its fixed
	// accessible label.
	unsubmittedLinkSelector = `a[title="未提出課題"]`
	listingTableSelector    = `table.stdlist`
	listingRowSelector      = `table.stdlist tr`

	listingWait = 10 * time.Second
)

// Outcome distinguishes an empty result that means "no outstanding
// assignments" from one produced by an actual listing.
type Outcome int

const (
	// ListingFound means the listing was located and parsed.
	ListingFound Outcome = iota
	// ListingEmpty means the listing control never appeared: nothing to do.
	ListingEmpty
)

// errSkipRow marks rows the listing legitimately contains but that produce
// no record (header leftovers, short rows, expired or missing deadlines).
var errSkipRow = errors.New("row skipped")

// Extractor reads assignment rows from an authenticated session positioned
// on the portal home page.
type Extractor struct {
	sess browser.Session
	now  func() time.Time
}

func NewExtractor(sess browser.Session) *Extractor {
	return &Extractor{sess: sess, now: time.Now}
}

// Collect navigates to the unsubmitted-assignment listing and returns one
// record per valid row, in listing order. A listing control that never
// appears within the bounded wait is reported as ListingEmpty, not an error.
func (e *Extractor) Collect() ([]model.Assignment, Outcome, error) {
	if err := e.sess.WaitVisible(unsubmittedLinkSelector, listingWait); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			return nil, ListingEmpty, nil
		}
		return nil, ListingEmpty, fmt.Errorf("failed to wait for assignment listing link: %w", err)
	}
	if err := e.sess.Click(unsubmittedLinkSelector); err != nil {
		return nil, ListingEmpty, fmt.Errorf("failed to open assignment listing: %w", err)
	}
	if err := e.sess.WaitVisible(listingTableSelector, listingWait); err != nil {
		if errors.Is(err, browser.ErrWaitTimeout) {
			// Link existed but no table came up; treat as nothing outstanding
			return nil, ListingEmpty, nil
		}
		return nil, ListingEmpty, fmt.Errorf("failed to wait for assignment table: %w", err)
	}

	rows, err := e.sess.QueryAll(listingRowSelector)
	if err != nil {
		return nil, ListingFound, fmt.Errorf("failed to query listing rows: %w", err)
	}

	var records []model.Assignment
	now := e.now()
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		record, err := parseRow(row, now)
		if err != nil {
			if !errors.Is(err, errSkipRow) {
				log.Printf("Skipping listing row %d: %v", i, err)
			}
			continue
		}
		records = append(records, record)
	}
	return records, ListingFound, nil
}

// parseRow turns one table row into a record. Column positions are fixed by
// the portal: title and its link in cell 2, course in cell 3, deadline in
// cell 5 (1-based). Rows that cannot produce a record return errSkipRow
// (expected shapes) or a descriptive error (malformed rows, logged upstream).
func parseRow(row browser.Element, now time.Time) (model.Assignment, error) {
	cells, err := row.QueryAll("td")
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to read cells: %w", err)
	}
	if len(cells) < 5 {
		return model.Assignment{}, errSkipRow
	}

	title, err := cells[1].Text()
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to read title cell: %w", err)
	}
	anchors, err := cells[1].QueryAll("a")
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to query title link: %w", err)
	}
	if len(anchors) == 0 {
		return model.Assignment{}, fmt.Errorf("title cell has no link")
	}
	href, _, err := anchors[0].Attribute("href")
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to read title link: %w", err)
	}

	course, err := cells[2].Text()
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to read course cell: %w", err)
	}

	rawDeadline, err := cells[4].Text()
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to read deadline cell: %w", err)
	}
	deadline := strings.TrimSpace(rawDeadline)
	if deadline == "" {
		return model.Assignment{}, errSkipRow
	}

	// Normalize when the portal format matches; otherwise keep the raw text
	// rather than dropping the record over an unrecognized deadline.
	if t, err := time.ParseInLocation(util.PortalTimeLayout, deadline, util.PortalZone); err == nil {
		if t.Before(now) {
			return model.Assignment{}, errSkipRow // already expired
		}
		deadline = t.Format(util.ISOTimeLayout)
	}

	return model.Assignment{
		Course:   strings.TrimSpace(course),
		Title:    strings.TrimSpace(title),
		Deadline: deadline,
		URL:      href,
	}, nil
}

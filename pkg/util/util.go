package util

import (
	"fmt"
	"time"
)

const (
	// PortalTimeLayout is the deadline format shown in the portal's listing table.
	PortalTimeLayout = "2006-01-02 15:04"
	// ISOTimeLayout is the normalized deadline format stored in the snapshot.
	// No zone suffix: deadlines are implicitly portal local time.
	ISOTimeLayout = "2006-01-02T15:04:05"

	dueTimeLayout = "2006-01-02T15:04:05.000Z"
)

// PortalZone is the portal's civil time zone. Fixed UTC+9, no DST.
var PortalZone = time.FixedZone("JST", 9*60*60)

// FormatDueUTC converts a normalized snapshot deadline to the Google Tasks
// due format (UTC, fixed .000 millisecond field). Returns "" when the
// deadline is not a normalized timestamp, in which case the task simply
// carries no due date.
func FormatDueUTC(deadline string) string {
	t, err := time.ParseInLocation(ISOTimeLayout, deadline, PortalZone)
	if err != nil {
		return ""
	}
	return t.UTC().Format(dueTimeLayout)
}

// ClockPortion extracts the HH:MM part of a normalized snapshot deadline,
// or "" when the deadline is raw text.
func ClockPortion(deadline string) string {
	t, err := time.Parse(ISOTimeLayout, deadline)
	if err != nil {
		return ""
	}
	return t.Format("15:04")
}

// ComposeTitle builds the task title used both for display and as the sole
// dedup key against the remote list: "[HH:MM] [course] title", with the
// clock prefix omitted when there is no clock portion.
func ComposeTitle(course, title, clock string) string {
	if clock != "" {
		return fmt.Sprintf("[%s] [%s] %s", clock, course, title)
	}
	return fmt.Sprintf("[%s] %s", course, title)
}

package model

// Assignment is one outstanding assignment scraped from the portal.
//
// Deadline is either an ISO-8601 local timestamp ("2006-01-02T15:04:05",
// no zone suffix, portal local time) or, when the portal text did not match
// the expected format, the raw trimmed text unchanged.
type Assignment struct {
	Course   string `json:"course"`
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	URL      string `json:"url"`
}

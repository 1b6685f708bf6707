package types

import "strings"

// StatusClass is the broad state a free-form status string describes.
type StatusClass int

const (
	StatusOther StatusClass = iota
	StatusActive
	StatusDone
	StatusFailed
)

// statusRules are checked in order; the first rule with a matching keyword wins.
var statusRules = []struct {
	class    StatusClass
	keywords []string
}{
	{StatusActive, []string{"running", "active", "fetching"}},
	{StatusDone, []string{"done", "complete", "fetched"}},
	{StatusFailed, []string{"error", "fail"}},
}

// ClassifyStatus maps a status string to a StatusClass using a
// case-insensitive substring match.
func ClassifyStatus(status string) StatusClass {
	s := strings.ToLower(status)
	for _, rule := range statusRules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.class
			}
		}
	}
	return StatusOther
}

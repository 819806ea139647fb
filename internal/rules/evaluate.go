package rules

import (
	"errors"

	"github.com/phyten/jcomment/internal/model"
)

// ErrMissingLocation is returned when a comment is handed over without a usable location.
var ErrMissingLocation = errors.New("comment has no location")

// Scan walks text once and returns the rules from active whose predicate
// matched at least one character, in the order of active.
//
// Each predicate is consulted only until it first matches; the scan stops as
// soon as every active rule has fired. Invalid UTF-8 decodes to U+FFFD, which
// no predicate accepts.
func Scan(text string, active []Rule) []Rule {
	if text == "" || len(active) == 0 {
		return nil
	}
	seen := make([]bool, len(active))
	remaining := len(active)
	for _, r := range text {
		for i := range active {
			if seen[i] {
				continue
			}
			if active[i].Match(r) {
				seen[i] = true
				remaining--
			}
		}
		if remaining == 0 {
			break
		}
	}
	if remaining == len(active) {
		return nil
	}
	fired := make([]Rule, 0, len(active)-remaining)
	for i, ok := range seen {
		if ok {
			fired = append(fired, active[i])
		}
	}
	return fired
}

// Evaluate reports at most one finding per active rule for the comment.
// Findings follow the order of active, not discovery order.
func Evaluate(c model.Comment, active []Rule) ([]model.Finding, error) {
	if !c.Location.Valid() {
		return nil, ErrMissingLocation
	}
	fired := Scan(c.Text, active)
	if len(fired) == 0 {
		return nil, nil
	}
	out := make([]model.Finding, len(fired))
	for i, r := range fired {
		out[i] = model.Finding{RuleID: r.ID, Location: c.Location}
	}
	return out, nil
}

// Package vote models the "tabs versus spaces" poll served by the Cloud SQL
// web app.
package vote

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// RecentLimit is the number of most recent votes shown on the summary.
const RecentLimit = 5

// Candidate is one side of the poll.
type Candidate string

const (
	Tabs   Candidate = "TABS"
	Spaces Candidate = "SPACES"
)

// ParseCandidate accepts "tabs" or "spaces" in any case.
func ParseCandidate(s string) (Candidate, error) {
	switch c := Candidate(strings.ToUpper(strings.TrimSpace(s))); c {
	case Tabs, Spaces:
		return c, nil
	default:
		return "", domain.NewValidationError("team", fmt.Sprintf("must be TABS or SPACES, got %q", s))
	}
}

// Vote is a single cast ballot.
type Vote struct {
	Candidate Candidate
	CastAt    time.Time
}

// Tally counts votes per candidate.
type Tally struct {
	Tabs   int
	Spaces int
}

// Add records one vote for c.
func (t *Tally) Add(c Candidate) {
	switch c {
	case Tabs:
		t.Tabs++
	case Spaces:
		t.Spaces++
	}
}

// Total returns the number of votes counted.
func (t Tally) Total() int {
	return t.Tabs + t.Spaces
}

// Leader describes who is ahead, for example "TABS are winning by 3 votes!".
func (t Tally) Leader() string {
	diff := t.Tabs - t.Spaces
	switch {
	case diff > 0:
		return fmt.Sprintf("TABS are winning by %d %s!", diff, plural(diff))
	case diff < 0:
		return fmt.Sprintf("SPACES are winning by %d %s!", -diff, plural(-diff))
	default:
		return "TABS and SPACES are evenly matched!"
	}
}

func plural(n int) string {
	if n == 1 {
		return "vote"
	}
	return "votes"
}

// Summary is the page model of the voting app.
type Summary struct {
	Tally  Tally
	Recent []Vote
}

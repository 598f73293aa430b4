package vote

import (
	"errors"
	"testing"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

func TestParseCandidate(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Candidate{"TABS": Tabs, "tabs": Tabs, " Spaces ": Spaces} {
		got, err := ParseCandidate(in)
		if err != nil {
			t.Fatalf("ParseCandidate(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseCandidate(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseCandidate("emacs"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("ParseCandidate(emacs) error = %v, want ErrValidation", err)
	}
}

func TestTallyLeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tally Tally
		want  string
	}{
		{name: "tabs ahead", tally: Tally{Tabs: 5, Spaces: 2}, want: "TABS are winning by 3 votes!"},
		{name: "spaces by one", tally: Tally{Tabs: 1, Spaces: 2}, want: "SPACES are winning by 1 vote!"},
		{name: "tie", tally: Tally{}, want: "TABS and SPACES are evenly matched!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.tally.Leader(); got != tt.want {
				t.Errorf("Leader() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTallyAdd(t *testing.T) {
	t.Parallel()

	var tally Tally
	tally.Add(Tabs)
	tally.Add(Spaces)
	tally.Add(Spaces)
	tally.Add(Candidate("OTHER"))

	if tally.Tabs != 1 || tally.Spaces != 2 || tally.Total() != 3 {
		t.Errorf("tally = %+v, want Tabs=1 Spaces=2", tally)
	}
}

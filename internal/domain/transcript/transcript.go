// Package transcript holds the results of asynchronous speech recognition.
package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// DefaultLanguage is the BCP-47 code used when none is given.
const DefaultLanguage = "en-US"

// Segment is the most likely alternative for one stretch of audio.
type Segment struct {
	Transcript string
	Confidence float32
	Words      []Word
}

// Word is a recognised word with its offsets from the start of the audio.
type Word struct {
	Word  string
	Start time.Duration
	End   time.Duration
}

// ValidateLanguage checks for a BCP-47 shaped code such as "en-US" or "fr".
func ValidateLanguage(code string) error {
	parts := strings.Split(code, "-")
	for i, p := range parts {
		if p == "" || len(p) > 8 || !isAlnum(p) || (i == 0 && (len(p) < 2 || len(p) > 3)) {
			return domain.NewValidationError("LANGUAGE", fmt.Sprintf("invalid language code %q", code))
		}
	}
	return nil
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

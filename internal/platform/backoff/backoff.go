// Package backoff computes wait intervals shared by the outbound HTTP retry
// loop and the long-running operation poller.
package backoff

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// JitterFraction is the maximum jitter as a fraction of the delay (±25%).
const JitterFraction = 0.25

// Policy describes an exponential schedule: Initial * Multiplier^(n-1),
// capped at Max, with ±JitterFraction jitter. A Fixed policy always waits
// Initial, with jitter.
type Policy struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Fixed      bool
	// NoJitter disables jitter. Tests use it for exact schedules.
	NoJitter bool
}

// Delay returns the wait before the given attempt. The attempt parameter is
// 1-indexed (attempt 1 is the first wait).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.Initial)
	if !p.Fixed {
		delay *= math.Pow(p.Multiplier, float64(attempt-1))

		// Cap at max interval before applying jitter.
		if p.Max > 0 && delay > float64(p.Max) {
			delay = float64(p.Max)
		}
	}

	if !p.NoJitter {
		jitter := delay * JitterFraction
		delay += jitter * (2*secureRandFloat64() - 1)
	}

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}

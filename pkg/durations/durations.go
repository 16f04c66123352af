// Package durations converts compact duration text like "1h30m" to
// milliseconds and back. It is used by the mute command and by the
// duration amendment flow.
package durations

import (
	"math"
	"strconv"
)

var unitMs = map[byte]int64{
	's': 1_000,
	'm': 60_000,
	'h': 3_600_000,
	'd': 86_400_000,
	'w': 604_800_000,
}

// ordered largest-first for Humanize
var units = []struct {
	suffix byte
	ms     int64
}{
	{'w', 604_800_000},
	{'d', 86_400_000},
	{'h', 3_600_000},
	{'m', 60_000},
	{'s', 1_000},
}

// ErrInvalid is returned for empty, malformed or zero durations.
type ErrInvalid struct{ Input string }

func (e ErrInvalid) Error() string { return "duración inválida: " + strconv.Quote(e.Input) }

// ParseMs parsea "1h30m", "45m", "2d", "90" (segundos) a milisegundos.
// A trailing number without unit counts as seconds. Whitespace is
// ignored. Zero totals are rejected; callers enforce any maximum.
func ParseMs(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalid{s}
	}
	var total int64
	var num int64
	hasNum := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			if num > (math.MaxInt64-int64(c-'0'))/10 {
				return 0, ErrInvalid{s}
			}
			num = num*10 + int64(c-'0')
			hasNum = true
		case c == ' ' || c == '\t':
			continue
		default:
			ms, ok := unitMs[lower(c)]
			if !ok || !hasNum {
				return 0, ErrInvalid{s}
			}
			if num > (math.MaxInt64-total)/ms {
				return 0, ErrInvalid{s}
			}
			total += num * ms
			num, hasNum = 0, false
		}
	}
	if hasNum {
		if num > (math.MaxInt64-total)/unitMs['s'] {
			return 0, ErrInvalid{s}
		}
		total += num * unitMs['s']
	}
	if total == 0 {
		return 0, ErrInvalid{s}
	}
	return total, nil
}

// Humanize renders milliseconds with a greedy largest-unit-first
// decomposition, e.g. 90000 → "1m30s". Sub-second remainders are
// dropped; zero renders as "0s".
func Humanize(ms int64) string {
	var out []byte
	for _, u := range units {
		if ms >= u.ms {
			n := ms / u.ms
			ms -= n * u.ms
			out = strconv.AppendInt(out, n, 10)
			out = append(out, u.suffix)
		}
	}
	if len(out) == 0 {
		return "0s"
	}
	return string(out)
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

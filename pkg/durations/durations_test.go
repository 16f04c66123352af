package durations

import "testing"

func TestParseMs(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1h30m", 5_400_000, false},
		{"90", 90_000, false},
		{"45m", 2_700_000, false},
		{"2d", 172_800_000, false},
		{"1w", 604_800_000, false},
		{"10s", 10_000, false},
		{"1h 30m", 5_400_000, false},
		{"1H30M", 5_400_000, false},
		{"2m30", 150_000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"5x", 0, true},
		{"h", 0, true},
		{"0", 0, true},
		{"0s", 0, true},
		{"0h0m", 0, true},
		// overflow must be rejected, never wrap negative
		{"99999999999999999999", 0, true},
		{"9223372036854775807", 0, true},
		{"9223372036854775w", 0, true},
		{"9223372036854775806w1w", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMs(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMs(%q) = %d, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMs(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMs(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{90_000, "1m30s"},
		{5_400_000, "1h30m"},
		{604_800_000, "1w"},
		{86_400_000 + 3_600_000, "1d1h"},
		{1_000, "1s"},
		{0, "0s"},
		{500, "0s"},
	}

	for _, tt := range tests {
		if got := Humanize(tt.in); got != tt.want {
			t.Errorf("Humanize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// parse(humanize(x)) == x for exact multiples of a second, and
// humanize∘parse is idempotent on its own output.
func TestRoundTrip(t *testing.T) {
	samples := []int64{1_000, 60_000, 90_000, 3_600_000, 5_400_000, 86_400_000, 608_400_000, 2_419_200_000}

	for _, ms := range samples {
		text := Humanize(ms)
		back, err := ParseMs(text)
		if err != nil {
			t.Fatalf("ParseMs(Humanize(%d)) error: %v", ms, err)
		}
		if back != ms {
			t.Errorf("round trip %d → %q → %d", ms, text, back)
		}
		if again := Humanize(back); again != text {
			t.Errorf("Humanize not stable: %q vs %q", text, again)
		}
	}
}

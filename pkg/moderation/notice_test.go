package moderation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

func TestAuthorLineRoundTrip(t *testing.T) {
	cases := []struct {
		caseNo int
		action models.Action
		name   string
		want   string
	}{
		{1, models.ActionWarn, "pancy", "Case 1 | Warn | pancy"},
		{42, models.ActionTimeout, "algún usuario", "Case 42 | Timeout | algún usuario"},
		{7, models.ActionBan, "a | b", "Case 7 | Ban | a | b"},
	}
	for _, tc := range cases {
		line := BuildAuthorLine(tc.caseNo, tc.action, tc.name)
		if line != tc.want {
			t.Errorf("BuildAuthorLine = %q, want %q", line, tc.want)
		}
		if got := ParseAuthorAction(line); got != tc.action {
			t.Errorf("ParseAuthorAction(%q) = %q, want %q", line, got, tc.action)
		}
	}
}

func TestParseAuthorActionMalformed(t *testing.T) {
	for _, line := range []string{"", "pancy", "Case 1"} {
		if got := ParseAuthorAction(line); got != "" {
			t.Errorf("ParseAuthorAction(%q) = %q, want empty", line, got)
		}
	}
	// Unknown tokens round-trip untouched and are never timed.
	got := ParseAuthorAction("Case 1 | Baile | pancy")
	if got != "Baile" || got.IsTimed() {
		t.Errorf("ParseAuthorAction unknown token = %q (timed=%v)", got, got.IsTimed())
	}
}

func TestSetFieldReplaceOrAppend(t *testing.T) {
	n := &Notice{Fields: []NoticeField{
		{Name: "User", Value: "<@1> | `1`", Inline: true},
		{Name: "Reason", Value: "spam", Inline: false},
	}}

	n.SetField("reason", "flood", false)
	if len(n.Fields) != 2 {
		t.Fatalf("fields = %d, want 2 (case-insensitive replace)", len(n.Fields))
	}
	if n.Fields[1].Value != "flood" {
		t.Errorf("Reason field = %q, want flood", n.Fields[1].Value)
	}

	n.SetField("Duration", "1h", true)
	if len(n.Fields) != 3 || n.Fields[2].Name != "Duration" {
		t.Fatalf("Duration not appended: %+v", n.Fields)
	}

	if n.FieldValue("DURATION") != "1h" {
		t.Errorf("FieldValue lookup should ignore case")
	}
	if n.FieldValue("Moderator") != "" {
		t.Errorf("missing field should yield empty value")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hola", 10); got != "hola" {
		t.Errorf("short input = %q", got)
	}
	long := make([]byte, MaxReasonLen+50)
	for i := range long {
		long[i] = 'a'
	}
	if got := Truncate(string(long), MaxReasonLen); len(got) != MaxReasonLen {
		t.Errorf("truncated length = %d, want %d", len(got), MaxReasonLen)
	}
}

// The limit counts characters and cuts on rune boundaries, so
// multi-byte reasons never come out as invalid UTF-8.
func TestTruncateMultiByte(t *testing.T) {
	in := strings.Repeat("€", MaxReasonLen+76)
	got := Truncate(in, MaxReasonLen)
	if !utf8.ValidString(got) {
		t.Fatal("truncated text is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != MaxReasonLen {
		t.Errorf("rune count = %d, want %d", n, MaxReasonLen)
	}

	// Under the character limit nothing is cut, whatever the byte size.
	short := strings.Repeat("€", 400)
	if got := Truncate(short, MaxReasonLen); got != short {
		t.Errorf("input under the character limit was truncated to %d runes", utf8.RuneCountInString(got))
	}
}

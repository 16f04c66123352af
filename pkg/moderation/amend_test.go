package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

func TestAmendReason(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	caseNo, err := cl.LogCase(ctx, warnRequest("g1"))
	if err != nil {
		t.Fatalf("LogCase error: %v", err)
	}
	if _, err := cl.Ledger.AppendWarning(ctx, "g1", "u1", "spam", "mod1", caseNo); err != nil {
		t.Fatalf("AppendWarning error: %v", err)
	}

	res, err := cl.AmendReason(ctx, "g1", caseNo, "spam de enlaces")
	if err != nil {
		t.Fatalf("AmendReason error: %v", err)
	}
	if res.State != FullSuccess {
		t.Errorf("state = %v, want FullSuccess", res.State)
	}

	// Notice field updated.
	n := pub.messages[pub.published[0]]
	if got := n.FieldValue("Reason"); got != "spam de enlaces" {
		t.Errorf("Reason field = %q", got)
	}

	// Warning record mirrored.
	warns, _ := cl.Ledger.ListWarnings(ctx, "g1", "u1")
	if len(warns) != 1 || warns[0].Reason != "spam de enlaces" {
		t.Errorf("warning not patched: %+v", warns)
	}
}

// Amending a case that has no warning (a mute, say) must leave the
// subject's warnings from other cases untouched.
func TestAmendReasonOfOtherCaseLeavesWarningsAlone(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	warnNo, _ := cl.LogCase(ctx, warnRequest("g1"))
	cl.Ledger.AppendWarning(ctx, "g1", "u1", "spam", "mod1", warnNo)

	muteReq := warnRequest("g1")
	muteReq.Action = models.ActionMute
	muteReq.Reason = "flood"
	muteNo, _ := cl.LogCase(ctx, muteReq)

	if _, err := cl.AmendReason(ctx, "g1", muteNo, "flood en general"); err != nil {
		t.Fatalf("AmendReason error: %v", err)
	}

	// The mute notice changed, the warn's warning record did not.
	if got := pub.messages[pub.published[1]].FieldValue("Reason"); got != "flood en general" {
		t.Errorf("mute Reason field = %q", got)
	}
	warns, _ := cl.Ledger.ListWarnings(ctx, "g1", "u1")
	if len(warns) != 1 || warns[0].Reason != "spam" {
		t.Errorf("warn-case warning corrupted: %+v", warns)
	}
}

// Amendments mutate the guild document too, so callers hold the same
// per-guild lock as any other ledger write. Interleaved amendments and
// warning appends must all land.
func TestAmendReasonSerializedWithWarningWrites(t *testing.T) {
	cl, _, _, _ := newTestCaseLogger()
	ctx := context.Background()

	caseNo, _ := cl.LogCase(ctx, warnRequest("g1"))
	cl.Ledger.AppendWarning(ctx, "g1", "u1", "spam", "mod1", caseNo)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		userID := fmt.Sprintf("otro%d", i)
		reason := fmt.Sprintf("spam (edición %d)", i)
		go func() {
			defer wg.Done()
			unlock := cl.Locker.Lock("g1")
			defer unlock()
			if _, err := cl.AmendReason(ctx, "g1", caseNo, reason); err != nil {
				t.Errorf("AmendReason error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			unlock := cl.Locker.Lock("g1")
			defer unlock()
			if _, err := cl.Ledger.AppendWarning(ctx, "g1", userID, "flood", "mod1", 0); err != nil {
				t.Errorf("AppendWarning error: %v", err)
			}
		}()
	}
	wg.Wait()

	// No append was lost to an overlapping amendment.
	for i := 0; i < 5; i++ {
		warns, err := cl.Ledger.ListWarnings(ctx, "g1", fmt.Sprintf("otro%d", i))
		if err != nil || len(warns) != 1 {
			t.Errorf("warnings for otro%d = %d (%v), want 1", i, len(warns), err)
		}
	}
	warns, _ := cl.Ledger.ListWarnings(ctx, "g1", "u1")
	if len(warns) != 1 || !strings.HasPrefix(warns[0].Reason, "spam (edición ") {
		t.Errorf("amended warning = %+v", warns)
	}
}

func TestAmendReasonAppendsMissingField(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	caseNo, _ := cl.LogCase(ctx, warnRequest("g1"))
	loc := pub.published[0]

	// Simulate a hand-edited notice that lost its Reason field.
	n := pub.messages[loc]
	n.Fields = n.Fields[:2]

	if _, err := cl.AmendReason(ctx, "g1", caseNo, "nueva razón"); err != nil {
		t.Fatalf("AmendReason error: %v", err)
	}
	if got := pub.messages[loc].FieldValue("Reason"); got != "nueva razón" {
		t.Errorf("Reason field = %q", got)
	}
}

func TestAmendReasonErrors(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	if _, err := cl.AmendReason(ctx, "g1", 42, "x"); !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("unknown case = %v, want ErrCaseNotFound", err)
	}

	caseNo, _ := cl.LogCase(ctx, warnRequest("g1"))
	delete(pub.messages, pub.published[0])
	if _, err := cl.AmendReason(ctx, "g1", caseNo, "x"); !errors.Is(err, ErrNoticeUnavailable) {
		t.Errorf("deleted notice = %v, want ErrNoticeUnavailable", err)
	}
}

func TestAmendDurationFullSuccess(t *testing.T) {
	cl, _, pub, rc := newTestCaseLogger()
	ctx := context.Background()

	req := warnRequest("g1")
	req.Action = models.ActionMute
	req.Duration = "10m"
	caseNo, _ := cl.LogCase(ctx, req)

	before := time.Now().UTC()
	res, err := cl.AmendDuration(ctx, "g1", caseNo, "2h")
	if err != nil {
		t.Fatalf("AmendDuration error: %v", err)
	}
	if res.State != FullSuccess || !res.Timed {
		t.Errorf("result = %+v, want timed FullSuccess", res)
	}

	if len(rc.calls) != 1 || rc.calls[0] != "g1/u1" {
		t.Fatalf("restriction calls = %v", rc.calls)
	}
	wantUntil := before.Add(2 * time.Hour)
	if rc.until.Before(wantUntil) || rc.until.After(wantUntil.Add(5*time.Second)) {
		t.Errorf("timeout until = %v, want ≈ %v", rc.until, wantUntil)
	}

	if got := pub.messages[pub.published[0]].FieldValue("Duration"); got != "2h" {
		t.Errorf("Duration field = %q, want 2h", got)
	}
}

// Non-timed cases never touch the restriction controller; the Duration
// field becomes a plain annotation.
func TestAmendDurationKickShortCircuit(t *testing.T) {
	cl, _, pub, rc := newTestCaseLogger()
	ctx := context.Background()

	req := warnRequest("g1")
	req.Action = models.ActionKick
	caseNo, _ := cl.LogCase(ctx, req)

	res, err := cl.AmendDuration(ctx, "g1", caseNo, "1d")
	if err != nil {
		t.Fatalf("AmendDuration error: %v", err)
	}
	if res.Timed {
		t.Error("kick case reported as timed")
	}
	if res.State != FullSuccess {
		t.Errorf("state = %v, want FullSuccess", res.State)
	}
	if len(rc.calls) != 0 {
		t.Errorf("restriction controller called %d times, want 0", len(rc.calls))
	}
	if got := pub.messages[pub.published[0]].FieldValue("Duration"); got != "1d" {
		t.Errorf("Duration field = %q", got)
	}
}

func TestAmendDurationValidation(t *testing.T) {
	cl, _, _, _ := newTestCaseLogger()
	ctx := context.Background()

	if _, err := cl.AmendDuration(ctx, "g1", 1, "abc"); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("bad text = %v, want ErrInvalidDuration", err)
	}
	if _, err := cl.AmendDuration(ctx, "g1", 1, "0s"); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("zero = %v, want ErrInvalidDuration", err)
	}
	if _, err := cl.AmendDuration(ctx, "g1", 1, "40d"); !errors.Is(err, ErrDurationTooLong) {
		t.Errorf("40d = %v, want ErrDurationTooLong", err)
	}
	// 28d exactly is allowed (fails later on lookup, not on the cap).
	if _, err := cl.AmendDuration(ctx, "g1", 1, "28d"); !errors.Is(err, ErrCaseNotFound) {
		t.Errorf("28d on unknown case = %v, want ErrCaseNotFound", err)
	}
}

func TestAmendDurationRestrictionDenied(t *testing.T) {
	cl, _, pub, rc := newTestCaseLogger()
	ctx := context.Background()

	req := warnRequest("g1")
	req.Action = models.ActionMute
	req.Duration = "10m"
	caseNo, _ := cl.LogCase(ctx, req)

	rc.setErr = ErrRestrictionDenied
	_, err := cl.AmendDuration(ctx, "g1", caseNo, "1h")
	if !errors.Is(err, ErrRestrictionDenied) {
		t.Fatalf("denied = %v, want ErrRestrictionDenied", err)
	}
	// Denied aborts before the notice edit.
	if got := pub.messages[pub.published[0]].FieldValue("Duration"); got != "10m" {
		t.Errorf("Duration field = %q, want untouched 10m", got)
	}
}

func TestAmendDurationPartialOnRestrictionFailure(t *testing.T) {
	cl, _, pub, rc := newTestCaseLogger()
	ctx := context.Background()

	req := warnRequest("g1")
	req.Action = models.ActionMute
	req.Duration = "10m"
	caseNo, _ := cl.LogCase(ctx, req)

	rc.setErr = errors.New("miembro fuera del servidor")
	res, err := cl.AmendDuration(ctx, "g1", caseNo, "1h")
	if err != nil {
		t.Fatalf("AmendDuration error: %v", err)
	}
	if res.State != PartialSuccess || res.Detail == "" {
		t.Errorf("result = %+v, want PartialSuccess with detail", res)
	}
	// The notice is still updated on partial success.
	if got := pub.messages[pub.published[0]].FieldValue("Duration"); got != "1h" {
		t.Errorf("Duration field = %q, want 1h", got)
	}
}

// Legacy index entries carry neither action nor subject; both come
// back out of the published notice itself.
func TestAmendDurationLegacyEntry(t *testing.T) {
	cl, _, pub, rc := newTestCaseLogger()
	ctx := context.Background()

	notice := &Notice{
		AuthorLine: "Case 7 | Mute | pancy",
		Fields: []NoticeField{
			{Name: "User", Value: "<@42> | `42`", Inline: true},
			{Name: "Reason", Value: "spam", Inline: false},
		},
	}
	loc, err := pub.Publish(ctx, "modlog", notice)
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	// Index entry as written before action/subject were stored.
	cl.Ledger.RecordCaseLocation(ctx, "g1", 7, loc, "", "")

	res, err := cl.AmendDuration(ctx, "g1", 7, "45m")
	if err != nil {
		t.Fatalf("AmendDuration error: %v", err)
	}
	if res.State != FullSuccess || !res.Timed {
		t.Errorf("result = %+v, want timed FullSuccess", res)
	}
	if len(rc.calls) != 1 || rc.calls[0] != "g1/42" {
		t.Errorf("restriction calls = %v, want g1/42", rc.calls)
	}
}

func TestAmendDurationPartialWhenSubjectUnknown(t *testing.T) {
	cl, _, pub, rc := newTestCaseLogger()
	ctx := context.Background()

	notice := &Notice{
		AuthorLine: "Case 8 | Timeout | alguien",
		Fields:     []NoticeField{{Name: "Reason", Value: "spam", Inline: false}},
	}
	loc, _ := pub.Publish(ctx, "modlog", notice)
	cl.Ledger.RecordCaseLocation(ctx, "g1", 8, loc, "", "")

	res, err := cl.AmendDuration(ctx, "g1", 8, "30m")
	if err != nil {
		t.Fatalf("AmendDuration error: %v", err)
	}
	if res.State != PartialSuccess {
		t.Errorf("state = %v, want PartialSuccess", res.State)
	}
	if !strings.Contains(res.Detail, "usuario") {
		t.Errorf("detail = %q", res.Detail)
	}
	if len(rc.calls) != 0 {
		t.Errorf("restriction calls = %v, want none", rc.calls)
	}
	if got := pub.messages[loc].FieldValue("Duration"); got != "30m" {
		t.Errorf("Duration field = %q, want 30m", got)
	}
}

package moderation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// fakePublisher keeps published notices in memory.
type fakePublisher struct {
	mu          sync.Mutex
	nextID      int
	messages    map[NoticeLocation]*Notice
	publishErr  error
	resolveErr  error
	published   []NoticeLocation
	lastChannel string
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{messages: make(map[NoticeLocation]*Notice)}
}

func (fp *fakePublisher) ResolveSurface(_ context.Context, channelID string) (string, error) {
	if fp.resolveErr != nil {
		return "", fp.resolveErr
	}
	return channelID, nil
}

func (fp *fakePublisher) Publish(_ context.Context, channelID string, n *Notice) (NoticeLocation, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if fp.publishErr != nil {
		return NoticeLocation{}, fp.publishErr
	}
	fp.nextID++
	loc := NoticeLocation{ChannelID: channelID, MessageID: fmt.Sprintf("msg%d", fp.nextID)}
	copied := *n
	copied.Fields = append([]NoticeField(nil), n.Fields...)
	fp.messages[loc] = &copied
	fp.published = append(fp.published, loc)
	fp.lastChannel = channelID
	return loc, nil
}

func (fp *fakePublisher) Fetch(_ context.Context, loc NoticeLocation) (*Notice, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	n, ok := fp.messages[loc]
	if !ok {
		return nil, errors.New("mensaje no encontrado")
	}
	copied := *n
	copied.Fields = append([]NoticeField(nil), n.Fields...)
	return &copied, nil
}

func (fp *fakePublisher) Edit(_ context.Context, loc NoticeLocation, n *Notice) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if _, ok := fp.messages[loc]; !ok {
		return errors.New("mensaje no encontrado")
	}
	copied := *n
	copied.Fields = append([]NoticeField(nil), n.Fields...)
	fp.messages[loc] = &copied
	return nil
}

// fakeRestrictions records timeout calls.
type fakeRestrictions struct {
	mu      sync.Mutex
	setErr  error
	calls   []string
	until   time.Time
	cleared []string
}

func (fr *fakeRestrictions) SetTimedRestriction(_ context.Context, guildID, userID string, until time.Time, _ string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.setErr != nil {
		return fr.setErr
	}
	fr.calls = append(fr.calls, guildID+"/"+userID)
	fr.until = until
	return nil
}

func (fr *fakeRestrictions) ClearRestriction(_ context.Context, guildID, userID, _ string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.cleared = append(fr.cleared, guildID+"/"+userID)
	return nil
}

func newTestCaseLogger() (*CaseLogger, *fakeStore, *fakePublisher, *fakeRestrictions) {
	store := newFakeStore()
	pub := newFakePublisher()
	rc := &fakeRestrictions{}
	cl := &CaseLogger{
		Ledger:       NewLedger(store),
		Publisher:    pub,
		Restrictions: rc,
		Locker:       NewGuildLocker(),
	}
	return cl, store, pub, rc
}

func warnRequest(guildID string) CaseRequest {
	return CaseRequest{
		GuildID:           guildID,
		ModeratorID:       "mod1",
		Subject:           Subject{ID: "u1", Name: "pancy", Mention: "<@u1>"},
		Action:            models.ActionWarn,
		Reason:            "spam",
		FallbackChannelID: "origin",
	}
}

func TestLogCaseSequenceAndIndex(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := cl.LogCase(ctx, warnRequest("g1"))
		if err != nil {
			t.Fatalf("LogCase error: %v", err)
		}
		if got != want {
			t.Errorf("LogCase = %d, want %d", got, want)
		}
	}

	// Notices went to the fallback channel (no mod-log configured).
	if pub.lastChannel != "origin" {
		t.Errorf("published to %q, want origin", pub.lastChannel)
	}

	// Every case is addressable through the index.
	for caseNo := 1; caseNo <= 3; caseNo++ {
		ref, err := cl.Ledger.LookupCaseLocation(ctx, "g1", caseNo)
		if err != nil {
			t.Errorf("case %d not indexed: %v", caseNo, err)
			continue
		}
		if ref.UserID != "u1" || ref.Action != string(models.ActionWarn) {
			t.Errorf("case %d ref = %+v", caseNo, ref)
		}
	}
}

func TestLogCaseUsesModlogChannel(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	cl.Ledger.SetModlogChannelID(ctx, "g1", "modlog")
	if _, err := cl.LogCase(ctx, warnRequest("g1")); err != nil {
		t.Fatalf("LogCase error: %v", err)
	}
	if pub.lastChannel != "modlog" {
		t.Errorf("published to %q, want modlog", pub.lastChannel)
	}

	// Unresolvable mod-log channel falls back to the origin channel.
	pub.resolveErr = errors.New("canal borrado")
	if _, err := cl.LogCase(ctx, warnRequest("g1")); err != nil {
		t.Fatalf("LogCase error: %v", err)
	}
	if pub.lastChannel != "origin" {
		t.Errorf("published to %q, want origin fallback", pub.lastChannel)
	}
}

func TestLogCaseRendersNotice(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	req := warnRequest("g1")
	req.Action = models.ActionMute
	req.Duration = "1h30m"

	caseNo, err := cl.LogCase(context.Background(), req)
	if err != nil {
		t.Fatalf("LogCase error: %v", err)
	}

	n := pub.messages[pub.published[0]]
	wantAuthor := fmt.Sprintf("Case %d | Mute | pancy", caseNo)
	if n.AuthorLine != wantAuthor {
		t.Errorf("author line = %q, want %q", n.AuthorLine, wantAuthor)
	}
	if got := n.FieldValue("Reason"); got != "spam" {
		t.Errorf("Reason field = %q", got)
	}
	if got := n.FieldValue("Duration"); got != "1h30m" {
		t.Errorf("Duration field = %q", got)
	}
	if got := n.FieldValue("User"); got != "<@u1> | `u1`" {
		t.Errorf("User field = %q", got)
	}
	if n.Color != models.ActionMute.Color() {
		t.Errorf("color = %#x", n.Color)
	}
}

func TestLogCaseRendersNotifiedField(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	req := warnRequest("g1")
	req.DMAttempted = true
	req.DMDelivered = true
	cl.LogCase(ctx, req)
	if got := pub.messages[pub.published[0]].FieldValue("Notified"); got != "Sí" {
		t.Errorf("Notified field = %q, want Sí", got)
	}

	req.DMDelivered = false
	cl.LogCase(ctx, req)
	if got := pub.messages[pub.published[1]].FieldValue("Notified"); got != "No" {
		t.Errorf("Notified field = %q, want No", got)
	}

	// Cases where no DM was attempted (unban, manual events) carry no
	// Notified field at all.
	cl.LogCase(ctx, warnRequest("g1"))
	if got := pub.messages[pub.published[2]].FieldValue("Notified"); got != "" {
		t.Errorf("Notified field = %q, want absent", got)
	}
}

func TestLogCaseTruncatesReason(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	req := warnRequest("g1")
	for len(req.Reason) < 2000 {
		req.Reason += " razones y más razones"
	}

	if _, err := cl.LogCase(context.Background(), req); err != nil {
		t.Fatalf("LogCase error: %v", err)
	}
	n := pub.messages[pub.published[0]]
	if got := len(n.FieldValue("Reason")); got != MaxReasonLen {
		t.Errorf("reason length = %d, want %d", got, MaxReasonLen)
	}
}

// A publish failure burns the allocated number: the sequence moves on
// and the failed case is never indexed.
func TestLogCasePublishFailureLeavesGap(t *testing.T) {
	cl, _, pub, _ := newTestCaseLogger()
	ctx := context.Background()

	pub.publishErr = errors.New("canal no disponible")
	caseNo, err := cl.LogCase(ctx, warnRequest("g1"))
	if err == nil {
		t.Fatal("LogCase should fail when publish fails")
	}
	if caseNo != 1 {
		t.Errorf("consumed case number = %d, want 1", caseNo)
	}
	if _, err := cl.Ledger.LookupCaseLocation(ctx, "g1", 1); err != ErrCaseNotFound {
		t.Errorf("failed case lookup = %v, want ErrCaseNotFound", err)
	}

	pub.publishErr = nil
	caseNo, err = cl.LogCase(ctx, warnRequest("g1"))
	if err != nil {
		t.Fatalf("LogCase error: %v", err)
	}
	if caseNo != 2 {
		t.Errorf("next case = %d, want 2 (gap at 1)", caseNo)
	}
}

func TestLogCaseRecordsModStats(t *testing.T) {
	cl, _, _, _ := newTestCaseLogger()
	ctx := context.Background()

	cl.LogCase(ctx, warnRequest("g1"))
	req := warnRequest("g1")
	req.Action = models.ActionKick
	cl.LogCase(ctx, req)

	actions, err := cl.Ledger.ModActions(ctx, "g1", "mod1")
	if err != nil {
		t.Fatalf("ModActions error: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("modstats entries = %d, want 2", len(actions))
	}
	if actions[0].Type != "Warn" || actions[1].Type != "Kick" {
		t.Errorf("modstats types = %q, %q", actions[0].Type, actions[1].Type)
	}
}

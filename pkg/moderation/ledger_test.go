package moderation

import (
	"context"
	"sync"
	"testing"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// fakeStore is an in-memory ConfigStore. Fetch hands out deep copies so
// mutations only land through Replace, like the real document store.
// An optional barrier makes concurrent fetches overlap deterministically
// to reproduce the lost-update race.
type fakeStore struct {
	mu      sync.Mutex
	docs    map[string]*models.GuildConfig
	barrier *sync.WaitGroup
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*models.GuildConfig)}
}

func (fs *fakeStore) FetchOrCreate(_ context.Context, guildID string) (*models.GuildConfig, error) {
	fs.mu.Lock()
	doc, ok := fs.docs[guildID]
	if !ok {
		doc = &models.GuildConfig{GuildID: guildID, Prefix: models.DefaultPrefix, Revision: 1}
		fs.docs[guildID] = doc
	}
	copied := cloneConfig(doc)
	fs.mu.Unlock()

	if fs.barrier != nil {
		// Wait until every expected reader has fetched, so both hold
		// the same snapshot before either writes back.
		fs.barrier.Done()
		fs.barrier.Wait()
	}
	return copied, nil
}

func (fs *fakeStore) Replace(_ context.Context, cfg *models.GuildConfig) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.docs[cfg.GuildID] = cloneConfig(cfg)
	return nil
}

func cloneConfig(cfg *models.GuildConfig) *models.GuildConfig {
	out := *cfg
	out.Modules.CaseIndex = make(map[string]models.CaseRef, len(cfg.Modules.CaseIndex))
	for k, v := range cfg.Modules.CaseIndex {
		out.Modules.CaseIndex[k] = v
	}
	out.Modules.Warns = make(map[string][]models.Warn, len(cfg.Modules.Warns))
	for k, v := range cfg.Modules.Warns {
		out.Modules.Warns[k] = append([]models.Warn(nil), v...)
	}
	out.Modules.ModStats = make(map[string][]models.ModAction, len(cfg.Modules.ModStats))
	for k, v := range cfg.Modules.ModStats {
		out.Modules.ModStats[k] = append([]models.ModAction(nil), v...)
	}
	return &out
}

func TestNextCaseNumberSequence(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	for want := 1; want <= 5; want++ {
		got, err := ledger.NextCaseNumber(ctx, "g1")
		if err != nil {
			t.Fatalf("NextCaseNumber error: %v", err)
		}
		if got != want {
			t.Errorf("NextCaseNumber = %d, want %d", got, want)
		}
	}

	// Independent guilds keep independent counters.
	if got, _ := ledger.NextCaseNumber(ctx, "g2"); got != 1 {
		t.Errorf("guild g2 first case = %d, want 1", got)
	}
}

// Without external serialization, concurrent allocations against a
// fetch/replace store can hand out the same number. This is the
// documented contract of the ledger, not a bug to fix here.
func TestNextCaseNumberRaceWithoutSerialization(t *testing.T) {
	store := newFakeStore()
	store.barrier = &sync.WaitGroup{}
	store.barrier.Add(2)
	ledger := NewLedger(store)

	results := make(chan int, 2)
	for i := 0; i < 2; i++ {
		go func() {
			n, err := ledger.NextCaseNumber(context.Background(), "g1")
			if err != nil {
				t.Errorf("NextCaseNumber error: %v", err)
			}
			results <- n
		}()
	}

	a, b := <-results, <-results
	if a != b {
		t.Fatalf("expected duplicate allocation under overlapping fetches, got %d and %d", a, b)
	}
	if a != 1 {
		t.Errorf("both allocations = %d, want 1", a)
	}
}

func TestNextCaseNumberSerializedByLocker(t *testing.T) {
	store := newFakeStore()
	ledger := NewLedger(store)
	locker := NewGuildLocker()

	var wg sync.WaitGroup
	results := make(chan int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("g1")
			defer unlock()
			n, err := ledger.NextCaseNumber(context.Background(), "g1")
			if err != nil {
				t.Errorf("NextCaseNumber error: %v", err)
			}
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for n := range results {
		if seen[n] {
			t.Errorf("duplicate case number %d", n)
		}
		seen[n] = true
	}
	for want := 1; want <= 10; want++ {
		if !seen[want] {
			t.Errorf("missing case number %d", want)
		}
	}
}

func TestCaseIndexLookup(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	if _, err := ledger.LookupCaseLocation(ctx, "g1", 99); err != ErrCaseNotFound {
		t.Fatalf("lookup of unknown case = %v, want ErrCaseNotFound", err)
	}

	loc := NoticeLocation{ChannelID: "ch1", MessageID: "msg1"}
	if err := ledger.RecordCaseLocation(ctx, "g1", 3, loc, "user9", models.ActionMute); err != nil {
		t.Fatalf("RecordCaseLocation error: %v", err)
	}

	ref, err := ledger.LookupCaseLocation(ctx, "g1", 3)
	if err != nil {
		t.Fatalf("LookupCaseLocation error: %v", err)
	}
	if ref.ChannelID != "ch1" || ref.MessageID != "msg1" || ref.UserID != "user9" {
		t.Errorf("unexpected ref: %+v", ref)
	}
	if ref.Action != string(models.ActionMute) {
		t.Errorf("ref.Action = %q, want %q", ref.Action, models.ActionMute)
	}
}

func TestCaseNumbers(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	nums, err := ledger.CaseNumbers(ctx, "g1")
	if err != nil || len(nums) != 0 {
		t.Fatalf("CaseNumbers on empty guild = %v, %v", nums, err)
	}

	loc := NoticeLocation{ChannelID: "ch", MessageID: "m"}
	// Out-of-order writes with a gap at 2 (failed publish).
	ledger.RecordCaseLocation(ctx, "g1", 3, loc, "u1", models.ActionWarn)
	ledger.RecordCaseLocation(ctx, "g1", 1, loc, "u1", models.ActionBan)
	ledger.RecordCaseLocation(ctx, "g1", 4, loc, "u2", models.ActionMute)

	nums, err = ledger.CaseNumbers(ctx, "g1")
	if err != nil {
		t.Fatalf("CaseNumbers error: %v", err)
	}
	if len(nums) != 3 || nums[0] != 1 || nums[1] != 3 || nums[2] != 4 {
		t.Errorf("CaseNumbers = %v, want [1 3 4]", nums)
	}
}

func TestWarningLifecycle(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	for i, reason := range []string{"spam", "flood", "insultos"} {
		if _, err := ledger.AppendWarning(ctx, "g1", "u1", reason, "mod1", i+1); err != nil {
			t.Fatalf("AppendWarning error: %v", err)
		}
	}

	// Patch by exact case number: only the linked warning changes.
	patched, err := ledger.PatchWarningReason(ctx, "g1", "u1", 3, "spam repetido")
	if err != nil || !patched {
		t.Fatalf("PatchWarningReason = %v, %v", patched, err)
	}

	warns, err := ledger.ListWarnings(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("ListWarnings error: %v", err)
	}
	if len(warns) != 3 {
		t.Fatalf("ListWarnings len = %d, want 3", len(warns))
	}
	if warns[0].Reason != "spam" || warns[1].Reason != "flood" {
		t.Errorf("earlier warnings changed: %q, %q", warns[0].Reason, warns[1].Reason)
	}
	if warns[2].Reason != "spam repetido" {
		t.Errorf("last warning reason = %q, want %q", warns[2].Reason, "spam repetido")
	}

	// Amending the earlier case hits the exact record, not the newest.
	if _, err := ledger.PatchWarningReason(ctx, "g1", "u1", 1, "spam (corregido)"); err != nil {
		t.Fatalf("PatchWarningReason error: %v", err)
	}
	warns, _ = ledger.ListWarnings(ctx, "g1", "u1")
	if warns[0].Reason != "spam (corregido)" {
		t.Errorf("warning for case 1 = %q, want patched", warns[0].Reason)
	}
	if warns[2].Reason != "spam repetido" {
		t.Errorf("newest warning was touched: %q", warns[2].Reason)
	}
}

func TestPatchWarningLegacyFallback(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	// Legacy records carry no case link (caseNo 0).
	ledger.AppendWarning(ctx, "g1", "u1", "primera", "mod1", 0)
	ledger.AppendWarning(ctx, "g1", "u1", "segunda", "mod1", 0)

	patched, err := ledger.PatchWarningReason(ctx, "g1", "u1", 7, "segunda (editada)")
	if err != nil || !patched {
		t.Fatalf("PatchWarningReason = %v, %v", patched, err)
	}

	warns, _ := ledger.ListWarnings(ctx, "g1", "u1")
	if warns[0].Reason != "primera" || warns[1].Reason != "segunda (editada)" {
		t.Errorf("fallback should patch newest only: %q, %q", warns[0].Reason, warns[1].Reason)
	}

	// No warnings at all: nothing to patch.
	patched, err = ledger.PatchWarningReason(ctx, "g1", "nadie", 1, "x")
	if err != nil {
		t.Fatalf("PatchWarningReason error: %v", err)
	}
	if patched {
		t.Error("patched should be false for a subject without warnings")
	}
}

// A miss on a linked record set must not fall back to recency: the
// amended case simply has no warning to patch.
func TestPatchWarningMissOnLinkedRecords(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	ledger.AppendWarning(ctx, "g1", "u1", "spam", "mod1", 1)

	patched, err := ledger.PatchWarningReason(ctx, "g1", "u1", 2, "edición del caso 2")
	if err != nil {
		t.Fatalf("PatchWarningReason error: %v", err)
	}
	if patched {
		t.Error("patched should be false when no warning carries the case number")
	}

	warns, _ := ledger.ListWarnings(ctx, "g1", "u1")
	if warns[0].Reason != "spam" {
		t.Errorf("case-1 warning was overwritten: %q", warns[0].Reason)
	}

	// Mixed sets are not pre-linkage data either.
	ledger.AppendWarning(ctx, "g1", "u1", "legacy", "mod1", 0)
	patched, _ = ledger.PatchWarningReason(ctx, "g1", "u1", 9, "x")
	if patched {
		t.Error("fallback must not fire while any record is case-linked")
	}
}

func TestClearWarnings(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	removed, err := ledger.ClearWarnings(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("ClearWarnings error: %v", err)
	}
	if removed {
		t.Error("ClearWarnings on empty subject should report removed=false")
	}

	ledger.AppendWarning(ctx, "g1", "u1", "spam", "mod1", 1)
	removed, err = ledger.ClearWarnings(ctx, "g1", "u1")
	if err != nil || !removed {
		t.Fatalf("ClearWarnings = %v, %v, want removed=true", removed, err)
	}

	warns, _ := ledger.ListWarnings(ctx, "g1", "u1")
	if len(warns) != 0 {
		t.Errorf("warnings after clear = %d, want 0", len(warns))
	}
}

func TestModlogChannelRoundTrip(t *testing.T) {
	ledger := NewLedger(newFakeStore())
	ctx := context.Background()

	id, err := ledger.ModlogChannelID(ctx, "g1")
	if err != nil || id != "" {
		t.Fatalf("ModlogChannelID = %q, %v, want empty", id, err)
	}
	if err := ledger.SetModlogChannelID(ctx, "g1", "ch42"); err != nil {
		t.Fatalf("SetModlogChannelID error: %v", err)
	}
	if id, _ = ledger.ModlogChannelID(ctx, "g1"); id != "ch42" {
		t.Errorf("ModlogChannelID = %q, want ch42", id)
	}
}

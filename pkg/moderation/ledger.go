package moderation

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/google/uuid"
)

// Ledger owns the four moderation sub-keys of the guild document:
// case_seq, modlog_channel_id, case_index and warns (plus the
// supplemental modstats counters). All access goes through these
// methods; nothing else pokes those keys.
type Ledger struct {
	store ConfigStore
}

// NewLedger creates a Ledger over a config store
func NewLedger(store ConfigStore) *Ledger {
	return &Ledger{store: store}
}

// update runs one fetch-mutate-replace cycle. See the package comment:
// the caller is responsible for serializing these per guild.
func (l *Ledger) update(ctx context.Context, guildID string, fn func(cfg *models.GuildConfig)) (*models.GuildConfig, error) {
	cfg, err := l.store.FetchOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	cfg.Modules.EnsureMaps()
	fn(cfg)
	if err := l.store.Replace(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return cfg, nil
}

// NextCaseNumber increments and returns the guild's case counter.
// Numbers are never reused; a consumed number whose case later fails
// to publish stays a permanent gap.
func (l *Ledger) NextCaseNumber(ctx context.Context, guildID string) (int, error) {
	var n int
	_, err := l.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.Modules.CaseSeq++
		n = cfg.Modules.CaseSeq
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ModlogChannelID returns the configured mod-log channel, or "".
func (l *Ledger) ModlogChannelID(ctx context.Context, guildID string) (string, error) {
	cfg, err := l.store.FetchOrCreate(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return cfg.Modules.ModlogChannelID, nil
}

// SetModlogChannelID sets the mod-log channel for new case notices.
func (l *Ledger) SetModlogChannelID(ctx context.Context, guildID, channelID string) error {
	_, err := l.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.Modules.ModlogChannelID = channelID
	})
	return err
}

// RecordCaseLocation indexes a published case. Call it only after the
// notice exists; an index entry pointing at nothing would make later
// amendments edit the wrong thing. The upsert is idempotent.
func (l *Ledger) RecordCaseLocation(ctx context.Context, guildID string, caseNo int, loc NoticeLocation, userID string, action models.Action) error {
	_, err := l.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.Modules.CaseIndex[strconv.Itoa(caseNo)] = models.CaseRef{
			ChannelID: loc.ChannelID,
			MessageID: loc.MessageID,
			UserID:    userID,
			Action:    string(action),
		}
	})
	return err
}

// LookupCaseLocation returns the indexed entry for a case, or
// ErrCaseNotFound. A miss is a normal outcome: the case never existed,
// predates the index, or its index write was lost after publish.
func (l *Ledger) LookupCaseLocation(ctx context.Context, guildID string, caseNo int) (models.CaseRef, error) {
	cfg, err := l.store.FetchOrCreate(ctx, guildID)
	if err != nil {
		return models.CaseRef{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	ref, ok := cfg.Modules.CaseIndex[strconv.Itoa(caseNo)]
	if !ok {
		return models.CaseRef{}, ErrCaseNotFound
	}
	return ref, nil
}

// CaseNumbers returns every indexed case number, ascending. Gaps from
// failed publishes simply never appear.
func (l *Ledger) CaseNumbers(ctx context.Context, guildID string) ([]int, error) {
	cfg, err := l.store.FetchOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	nums := make([]int, 0, len(cfg.Modules.CaseIndex))
	for key := range cfg.Modules.CaseIndex {
		if n, err := strconv.Atoi(key); err == nil {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	return nums, nil
}

// AppendWarning stores a warning for a subject, newest last. caseNo
// links the record to its case so reason amendments can target it
// exactly; pass 0 only when no case exists.
func (l *Ledger) AppendWarning(ctx context.Context, guildID, userID, reason, moderatorID string, caseNo int) (models.Warn, error) {
	warn := models.Warn{
		ID:        uuid.New().String(),
		Reason:    Truncate(reason, MaxReasonLen),
		Moderator: moderatorID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		CaseNo:    caseNo,
	}
	_, err := l.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.Modules.Warns[userID] = append(cfg.Modules.Warns[userID], warn)
	})
	if err != nil {
		return models.Warn{}, err
	}
	return warn, nil
}

// ListWarnings returns a subject's warnings, oldest first.
func (l *Ledger) ListWarnings(ctx context.Context, guildID, userID string) ([]models.Warn, error) {
	cfg, err := l.store.FetchOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return cfg.Modules.Warns[userID], nil
}

// ClearWarnings removes every warning of a subject, reporting whether
// there was anything to remove.
func (l *Ledger) ClearWarnings(ctx context.Context, guildID, userID string) (bool, error) {
	removed := false
	_, err := l.update(ctx, guildID, func(cfg *models.GuildConfig) {
		if len(cfg.Modules.Warns[userID]) > 0 {
			removed = true
		}
		delete(cfg.Modules.Warns, userID)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// PatchWarningReason rewrites the reason of the warning linked to
// caseNo. The most-recent-warning fallback only applies to pre-linkage
// data (every record with caseNo 0): once any record carries a case
// link, a miss means this case has no warning, and patching the newest
// record would rewrite a different case's warning. Returns false when
// nothing was patched.
func (l *Ledger) PatchWarningReason(ctx context.Context, guildID, userID string, caseNo int, newReason string) (bool, error) {
	patched := false
	newReason = Truncate(newReason, MaxReasonLen)
	_, err := l.update(ctx, guildID, func(cfg *models.GuildConfig) {
		warns := cfg.Modules.Warns[userID]
		if len(warns) == 0 {
			return
		}
		for i := range warns {
			if caseNo != 0 && warns[i].CaseNo == caseNo {
				warns[i].Reason = newReason
				patched = true
				return
			}
		}
		for i := range warns {
			if warns[i].CaseNo != 0 {
				return
			}
		}
		// legacy fallback: every record predates case linkage
		warns[len(warns)-1].Reason = newReason
		patched = true
	})
	if err != nil {
		return false, err
	}
	return patched, nil
}

// RecordModAction appends to a moderator's action history, feeding the
// modstats command.
func (l *Ledger) RecordModAction(ctx context.Context, guildID, moderatorID string, action models.Action) error {
	_, err := l.update(ctx, guildID, func(cfg *models.GuildConfig) {
		cfg.Modules.ModStats[moderatorID] = append(cfg.Modules.ModStats[moderatorID], models.ModAction{
			Type:      string(action),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
	return err
}

// ModActions returns a moderator's recorded actions, oldest first.
func (l *Ledger) ModActions(ctx context.Context, guildID, moderatorID string) ([]models.ModAction, error) {
	cfg, err := l.store.FetchOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return cfg.Modules.ModStats[moderatorID], nil
}

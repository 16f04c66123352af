package moderation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/durations"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// AmendState distingue éxito total de parcial.
type AmendState int

const (
	// FullSuccess: notice y restricción activa actualizados.
	FullSuccess AmendState = iota
	// PartialSuccess: notice actualizado, restricción no (el detalle
	// dice por qué). Nunca se reporta como éxito total.
	PartialSuccess
)

// AmendResult is the outcome of a successful amendment pass. Failures
// are returned as errors from the taxonomy instead.
type AmendResult struct {
	CaseNo int
	State  AmendState
	// Detail explains a PartialSuccess ("member left", "timeout update
	// failed"). Empty on FullSuccess.
	Detail string
	// Timed reports whether the case was a mute/timeout case.
	Timed bool
}

// subject id fallback: "<@123> | `123`" or a bare mention
var (
	backtickedID = regexp.MustCompile("`(\\d+)`")
	mentionID    = regexp.MustCompile(`<@!?(\d+)>`)
)

// AmendReason rewrites a case's Reason field on the published notice
// and mirrors the change into the subject's warning record when one
// exists. The notice is the source of truth; a failed warning patch is
// logged, not rolled back.
func (cl *CaseLogger) AmendReason(ctx context.Context, guildID string, caseNo int, newReason string) (*AmendResult, error) {
	ref, err := cl.Ledger.LookupCaseLocation(ctx, guildID, caseNo)
	if err != nil {
		return nil, err
	}
	loc := NoticeLocation{ChannelID: ref.ChannelID, MessageID: ref.MessageID}

	notice, err := cl.Publisher.Fetch(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoticeUnavailable, err)
	}

	notice.SetField("Reason", Truncate(newReason, MaxReasonLen), false)
	notice.Timestamp = time.Now().UTC()
	if err := cl.Publisher.Edit(ctx, loc, notice); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoticeUnavailable, err)
	}

	if ref.UserID != "" {
		if _, err := cl.Ledger.PatchWarningReason(ctx, guildID, ref.UserID, caseNo, newReason); err != nil {
			logger.Warn(fmt.Sprintf("Caso %d: notice actualizado pero no la advertencia de %s: %v", caseNo, ref.UserID, err), "Amend")
		}
	}

	cl.emit(func(s EventSink) {
		s.CaseAmended(CaseEvent{GuildID: guildID, CaseNo: caseNo, Reason: newReason, Timestamp: time.Now().UTC()})
	})

	return &AmendResult{CaseNo: caseNo, State: FullSuccess}, nil
}

// AmendDuration updates a case's Duration field and, for mute/timeout
// cases, re-applies the member's actual timeout to now+duration. Each
// call is a single best-effort pass; nothing retries automatically.
func (cl *CaseLogger) AmendDuration(ctx context.Context, guildID string, caseNo int, durationText string) (*AmendResult, error) {
	ms, err := durations.ParseMs(durationText)
	if err != nil {
		return nil, ErrInvalidDuration
	}
	if ms > MaxRestrictionMs {
		return nil, ErrDurationTooLong
	}

	ref, err := cl.Ledger.LookupCaseLocation(ctx, guildID, caseNo)
	if err != nil {
		return nil, err
	}
	loc := NoticeLocation{ChannelID: ref.ChannelID, MessageID: ref.MessageID}

	notice, err := cl.Publisher.Fetch(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoticeUnavailable, err)
	}

	// Prefer the indexed action; legacy entries predate it, so fall
	// back to parsing the author line.
	action := models.Action(ref.Action)
	if action == "" {
		action = ParseAuthorAction(notice.AuthorLine)
	}

	result := &AmendResult{CaseNo: caseNo, State: FullSuccess, Timed: action.IsTimed()}
	human := durations.Humanize(ms)

	if action.IsTimed() {
		userID := ref.UserID
		if userID == "" {
			userID = subjectIDFromNotice(notice)
		}
		switch {
		case userID == "":
			result.State = PartialSuccess
			result.Detail = "no se pudo identificar al usuario del caso"
		default:
			until := time.Now().UTC().Add(time.Duration(ms) * time.Millisecond)
			err := cl.Restrictions.SetTimedRestriction(ctx, guildID, userID, until,
				fmt.Sprintf("Duración del caso %d actualizada a %s", caseNo, human))
			switch {
			case errors.Is(err, ErrRestrictionDenied):
				return nil, err
			case err != nil:
				result.State = PartialSuccess
				result.Detail = fmt.Sprintf("no se pudo actualizar el timeout: %v", err)
			}
		}
	}

	notice.SetField("Duration", human, true)
	notice.Timestamp = time.Now().UTC()
	if err := cl.Publisher.Edit(ctx, loc, notice); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoticeUnavailable, err)
	}

	cl.emit(func(s EventSink) {
		s.CaseAmended(CaseEvent{GuildID: guildID, CaseNo: caseNo, Action: string(action), Duration: human, Timestamp: time.Now().UTC()})
	})

	return result, nil
}

// subjectIDFromNotice recovers the subject id from the User field of a
// legacy notice whose index entry lacks it.
func subjectIDFromNotice(n *Notice) string {
	value := n.FieldValue("User")
	if value == "" {
		return ""
	}
	if m := backtickedID.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	if m := mentionID.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	return ""
}

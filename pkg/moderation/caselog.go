package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// Subject is the user targeted by a moderation action.
type Subject struct {
	ID        string
	Name      string
	Mention   string
	AvatarURL string
}

// CaseRequest carries everything LogCase needs to create a case.
type CaseRequest struct {
	GuildID     string
	ModeratorID string
	Subject     Subject
	Action      models.Action
	Reason      string
	// Duration is the humanized duration text; empty for untimed actions.
	Duration string
	// DMAttempted is set when the handler tried to DM the subject
	// before acting; DMDelivered records whether that DM landed.
	// Attempted DMs render as the Notified field on the notice.
	DMAttempted bool
	DMDelivered bool
	// FallbackChannelID is the invoking channel, used when no mod-log
	// channel is configured or the configured one is unresolvable.
	FallbackChannelID string
}

// CaseLogger orchestrates case creation and amendment.
type CaseLogger struct {
	Ledger       *Ledger
	Publisher    NoticePublisher
	Restrictions RestrictionController
	Locker       *GuildLocker
	Sink         EventSink
}

var (
	service *CaseLogger
	once    sync.Once
)

// Init initializes the global case logger
func Init(ledger *Ledger, pub NoticePublisher, rc RestrictionController, sink EventSink) *CaseLogger {
	once.Do(func() {
		service = &CaseLogger{
			Ledger:       ledger,
			Publisher:    pub,
			Restrictions: rc,
			Locker:       NewGuildLocker(),
			Sink:         sink,
		}
	})
	return service
}

// Get returns the global case logger instance
func Get() *CaseLogger {
	return service
}

// BuildNotice renders the structured log notice for a new case.
func BuildNotice(caseNo int, req CaseRequest) *Notice {
	n := &Notice{
		AuthorLine: BuildAuthorLine(caseNo, req.Action, req.Subject.Name),
		AuthorIcon: req.Subject.AvatarURL,
		Color:      req.Action.Color(),
		Timestamp:  time.Now().UTC(),
	}
	userValue := req.Subject.Mention
	if userValue == "" {
		userValue = req.Subject.Name
	}
	n.Fields = append(n.Fields,
		NoticeField{Name: "User", Value: fmt.Sprintf("%s | `%s`", userValue, req.Subject.ID), Inline: true},
		NoticeField{Name: "Moderator", Value: fmt.Sprintf("<@%s>", req.ModeratorID), Inline: true},
	)
	reason := req.Reason
	if reason == "" {
		reason = "Sin razón especificada"
	}
	n.Fields = append(n.Fields, NoticeField{Name: "Reason", Value: Truncate(reason, MaxReasonLen), Inline: false})
	if req.Duration != "" {
		n.Fields = append(n.Fields, NoticeField{Name: "Duration", Value: req.Duration, Inline: true})
	}
	if req.DMAttempted {
		notified := "No"
		if req.DMDelivered {
			notified = "Sí"
		}
		n.Fields = append(n.Fields, NoticeField{Name: "Notified", Value: notified, Inline: true})
	}
	return n
}

// LogCase allocates the next case number, publishes the notice to the
// mod-log channel (falling back to the invoking channel) and indexes
// the published location. The three steps are not transactional: the
// number is consumed first and is never rolled back, so a publish
// failure leaves a permanent, accepted gap in the sequence.
func (cl *CaseLogger) LogCase(ctx context.Context, req CaseRequest) (int, error) {
	caseNo, err := cl.Ledger.NextCaseNumber(ctx, req.GuildID)
	if err != nil {
		return 0, err
	}

	channelID := req.FallbackChannelID
	if modlogID, err := cl.Ledger.ModlogChannelID(ctx, req.GuildID); err == nil && modlogID != "" {
		if resolved, err := cl.Publisher.ResolveSurface(ctx, modlogID); err == nil {
			channelID = resolved
		} else {
			logger.Warn(fmt.Sprintf("Canal de mod-log %s no accesible en guild %s, usando canal de origen", modlogID, req.GuildID), "CaseLogger")
		}
	}

	notice := BuildNotice(caseNo, req)
	loc, err := cl.Publisher.Publish(ctx, channelID, notice)
	if err != nil {
		// The number is already spent; the gap stays.
		logger.Error(fmt.Sprintf("Fallo publicando el caso %d en guild %s: %v", caseNo, req.GuildID, err), "CaseLogger")
		return caseNo, fmt.Errorf("publicando notice del caso %d: %w", caseNo, err)
	}

	if err := cl.Ledger.RecordCaseLocation(ctx, req.GuildID, caseNo, loc, req.Subject.ID, req.Action); err != nil {
		// Published but unindexed: amendments will report NotFound.
		logger.Error(fmt.Sprintf("Caso %d publicado pero no indexado en guild %s: %v", caseNo, req.GuildID, err), "CaseLogger")
		return caseNo, err
	}

	if err := cl.Ledger.RecordModAction(ctx, req.GuildID, req.ModeratorID, req.Action); err != nil {
		logger.Warn(fmt.Sprintf("No se pudieron actualizar las modstats de %s: %v", req.ModeratorID, err), "CaseLogger")
	}

	cl.emit(func(s EventSink) {
		s.CaseCreated(CaseEvent{
			GuildID:     req.GuildID,
			CaseNo:      caseNo,
			Action:      string(req.Action),
			UserID:      req.Subject.ID,
			ModeratorID: req.ModeratorID,
			Reason:      req.Reason,
			Duration:    req.Duration,
			Timestamp:   time.Now().UTC(),
		})
	})

	return caseNo, nil
}

func (cl *CaseLogger) emit(fn func(EventSink)) {
	if cl.Sink == nil {
		return
	}
	go fn(cl.Sink)
}

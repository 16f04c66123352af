package moderation

import "time"

// CaseEvent describes a ledger mutation for external consumers (the
// MQTT bridge and the web feed).
type CaseEvent struct {
	GuildID     string    `json:"guildId"`
	CaseNo      int       `json:"caseNo"`
	Action      string    `json:"action"`
	UserID      string    `json:"userId,omitempty"`
	ModeratorID string    `json:"moderatorId,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventSink receives case events. Implementations must not block;
// delivery is best-effort and never affects ledger state.
type EventSink interface {
	CaseCreated(evt CaseEvent)
	CaseAmended(evt CaseEvent)
}

// MultiSink fans events out to several sinks.
type MultiSink []EventSink

func (ms MultiSink) CaseCreated(evt CaseEvent) {
	for _, s := range ms {
		s.CaseCreated(evt)
	}
}

func (ms MultiSink) CaseAmended(evt CaseEvent) {
	for _, s := range ms {
		s.CaseAmended(evt)
	}
}

// Package models contains the data structures stored in MongoDB.
package models

import "time"

// GuildConfig representa el documento de configuración por servidor.
// Todo el estado del ledger de moderación vive dentro de Modules.
type GuildConfig struct {
	GuildID   string      `bson:"guildId" json:"guildId"`
	Prefix    string      `bson:"prefix" json:"prefix"`
	Modules   ModuleState `bson:"modules" json:"modules"`
	Revision  int64       `bson:"revision" json:"revision"`
	CreatedAt time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time   `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPrefix is the command prefix assigned to newly created guild configs.
const DefaultPrefix = ";"

// ModuleState holds per-module settings inside the guild document.
// The moderation ledger owns case_seq, modlog_channel_id, case_index,
// warns and modstats; anything another module stores under modules is
// preserved through Extra so a whole-document replace never drops it.
type ModuleState struct {
	CaseSeq         int                    `bson:"case_seq,omitempty" json:"case_seq,omitempty"`
	ModlogChannelID string                 `bson:"modlog_channel_id,omitempty" json:"modlog_channel_id,omitempty"`
	CaseIndex       map[string]CaseRef     `bson:"case_index,omitempty" json:"case_index,omitempty"`
	Warns           map[string][]Warn      `bson:"warns,omitempty" json:"warns,omitempty"`
	ModStats        map[string][]ModAction `bson:"modstats,omitempty" json:"modstats,omitempty"`
	Extra           map[string]interface{} `bson:",inline" json:"-"`
}

// CaseRef localiza el mensaje de log de un caso.
// Short keys keep the guild document small.
type CaseRef struct {
	ChannelID string `bson:"c" json:"c"`
	MessageID string `bson:"m" json:"m"`
	UserID    string `bson:"u,omitempty" json:"u,omitempty"`
	// Action is empty on entries written before it was indexed; readers
	// fall back to parsing the notice author line.
	Action string `bson:"a,omitempty" json:"a,omitempty"`
}

// Warn representa una advertencia individual
type Warn struct {
	ID        string `bson:"id" json:"id"`
	Reason    string `bson:"reason" json:"reason"`
	Moderator string `bson:"moderator" json:"moderator"`
	Timestamp string `bson:"timestamp" json:"timestamp"` // RFC3339 UTC
	// CaseNo is 0 on legacy records that predate case linkage.
	CaseNo int `bson:"case,omitempty" json:"case,omitempty"`
}

// ModAction es una entrada de estadísticas por moderador
type ModAction struct {
	Type      string `bson:"type" json:"type"`
	Timestamp string `bson:"timestamp" json:"timestamp"` // RFC3339 UTC
}

// EnsureMaps initializes the nil maps of the ledger-owned state so
// callers can write into them directly.
func (m *ModuleState) EnsureMaps() {
	if m.CaseIndex == nil {
		m.CaseIndex = make(map[string]CaseRef)
	}
	if m.Warns == nil {
		m.Warns = make(map[string][]Warn)
	}
	if m.ModStats == nil {
		m.ModStats = make(map[string][]ModAction)
	}
}

package models

import "strings"

// Action identifica el tipo de acción de moderación de un caso.
type Action string

const (
	ActionWarn       Action = "Warn"
	ActionMute       Action = "Mute"
	ActionTimeout    Action = "Timeout"
	ActionUnmute     Action = "Unmute"
	ActionKick       Action = "Kick"
	ActionBan        Action = "Ban"
	ActionUnban      Action = "Unban"
	ActionRoleChange Action = "RoleChange"
)

// ParseAction normalizes an action token (case-insensitive). Unknown
// tokens are returned as-is so legacy notices still round-trip.
func ParseAction(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn":
		return ActionWarn
	case "mute":
		return ActionMute
	case "timeout":
		return ActionTimeout
	case "unmute":
		return ActionUnmute
	case "kick":
		return ActionKick
	case "ban":
		return ActionBan
	case "unban":
		return ActionUnban
	case "rolechange":
		return ActionRoleChange
	}
	return Action(strings.TrimSpace(s))
}

// IsTimed reports whether the action implies an active timed
// restriction (a Discord timeout) that amendments must reconcile.
func (a Action) IsTimed() bool {
	switch strings.ToLower(string(a)) {
	case "mute", "timeout":
		return true
	}
	return false
}

// Color returns the embed color used for notices of this action.
func (a Action) Color() int {
	switch a {
	case ActionWarn:
		return 0xF1C40F // gold
	case ActionMute, ActionTimeout:
		return 0xE67E22 // orange
	case ActionUnmute, ActionUnban:
		return 0x2ECC71 // green
	case ActionKick:
		return 0xE74C3C // red
	case ActionBan:
		return 0x992D22 // dark red
	}
	return 0x5865F2 // blurple
}

// Past returns the past-tense form used in action summaries.
func (a Action) Past() string {
	switch a {
	case ActionWarn:
		return "warned"
	case ActionMute:
		return "muted"
	case ActionTimeout:
		return "timed out"
	case ActionUnmute:
		return "unmuted"
	case ActionKick:
		return "kicked"
	case ActionBan:
		return "banned"
	case ActionUnban:
		return "unbanned"
	case ActionRoleChange:
		return "updated"
	}
	return strings.ToLower(string(a)) + "ed"
}

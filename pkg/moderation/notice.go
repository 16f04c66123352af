package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// MaxReasonLen is the field limit applied to case reasons.
const MaxReasonLen = 1024

// Notice is the platform-neutral shape of a case log message. The
// Discord publisher converts it to and from a message embed.
type Notice struct {
	AuthorLine string
	AuthorIcon string
	Color      int
	Fields     []NoticeField
	Timestamp  time.Time
}

// NoticeField es un campo nombre/valor del notice
type NoticeField struct {
	Name   string
	Value  string
	Inline bool
}

// NoticeLocation identifica dónde quedó publicado un notice.
type NoticeLocation struct {
	ChannelID string
	MessageID string
}

// NoticePublisher abstracts the message surface where case notices
// live. Fetch returns ErrNoticeUnavailable when the message or its
// channel no longer exist.
type NoticePublisher interface {
	// ResolveSurface validates a configured channel id, returning the
	// id to publish to or an error if it is not addressable.
	ResolveSurface(ctx context.Context, channelID string) (string, error)
	Publish(ctx context.Context, channelID string, n *Notice) (NoticeLocation, error)
	Fetch(ctx context.Context, loc NoticeLocation) (*Notice, error)
	Edit(ctx context.Context, loc NoticeLocation, n *Notice) error
}

// FieldIndex returns the index of the named field, matching
// case-insensitively, or -1.
func (n *Notice) FieldIndex(name string) int {
	for i, f := range n.Fields {
		if strings.EqualFold(strings.TrimSpace(f.Name), name) {
			return i
		}
	}
	return -1
}

// SetField replaces the named field or appends it if absent.
func (n *Notice) SetField(name, value string, inline bool) {
	if i := n.FieldIndex(name); i >= 0 {
		n.Fields[i] = NoticeField{Name: name, Value: value, Inline: inline}
		return
	}
	n.Fields = append(n.Fields, NoticeField{Name: name, Value: value, Inline: inline})
}

// FieldValue returns the value of the named field, or "".
func (n *Notice) FieldValue(name string) string {
	if i := n.FieldIndex(name); i >= 0 {
		return n.Fields[i].Value
	}
	return ""
}

// BuildAuthorLine renders "Case N | Action | Name". The amendment flow
// parses this back on legacy index entries, so the triple-pipe layout
// is load-bearing.
func BuildAuthorLine(caseNo int, action models.Action, subjectName string) string {
	return fmt.Sprintf("Case %d | %s | %s", caseNo, action, subjectName)
}

// ParseAuthorAction recovers the action token from an author line
// produced by BuildAuthorLine. Returns "" when the line does not have
// the expected shape.
func ParseAuthorAction(line string) models.Action {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return ""
	}
	return models.ParseAction(parts[1])
}

// Truncate cuts the text to max characters. The limit counts runes,
// not bytes, so multi-byte text is never split mid-rune.
func Truncate(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

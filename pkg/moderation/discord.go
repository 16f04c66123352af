package moderation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordNoticePublisher publishes case notices as message embeds via
// the bot session.
type DiscordNoticePublisher struct {
	Session *discordgo.Session
}

// NewDiscordNoticePublisher creates a publisher over a session
func NewDiscordNoticePublisher(s *discordgo.Session) *DiscordNoticePublisher {
	return &DiscordNoticePublisher{Session: s}
}

// ResolveSurface validates that the channel exists and is reachable.
func (p *DiscordNoticePublisher) ResolveSurface(_ context.Context, channelID string) (string, error) {
	if ch, err := p.Session.State.Channel(channelID); err == nil && ch != nil {
		return channelID, nil
	}
	ch, err := p.Session.Channel(channelID)
	if err != nil {
		return "", fmt.Errorf("canal %s no accesible: %w", channelID, err)
	}
	return ch.ID, nil
}

// Publish sends the notice embed and returns where it landed.
func (p *DiscordNoticePublisher) Publish(_ context.Context, channelID string, n *Notice) (NoticeLocation, error) {
	msg, err := p.Session.ChannelMessageSendEmbed(channelID, noticeToEmbed(n))
	if err != nil {
		return NoticeLocation{}, err
	}
	return NoticeLocation{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

// Fetch reads back a published notice.
func (p *DiscordNoticePublisher) Fetch(_ context.Context, loc NoticeLocation) (*Notice, error) {
	msg, err := p.Session.ChannelMessage(loc.ChannelID, loc.MessageID)
	if err != nil {
		return nil, err
	}
	if len(msg.Embeds) == 0 {
		return nil, errors.New("el mensaje del caso no tiene embed")
	}
	return embedToNotice(msg.Embeds[0]), nil
}

// Edit pushes an updated notice back to its message.
func (p *DiscordNoticePublisher) Edit(_ context.Context, loc NoticeLocation, n *Notice) error {
	_, err := p.Session.ChannelMessageEditEmbed(loc.ChannelID, loc.MessageID, noticeToEmbed(n))
	return err
}

func noticeToEmbed(n *Notice) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color: n.Color,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    n.AuthorLine,
			IconURL: n.AuthorIcon,
		},
	}
	if !n.Timestamp.IsZero() {
		embed.Timestamp = n.Timestamp.UTC().Format(time.RFC3339)
	}
	for _, f := range n.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}

func embedToNotice(e *discordgo.MessageEmbed) *Notice {
	n := &Notice{Color: e.Color}
	if e.Author != nil {
		n.AuthorLine = e.Author.Name
		n.AuthorIcon = e.Author.IconURL
	}
	if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
		n.Timestamp = ts
	}
	for _, f := range e.Fields {
		n.Fields = append(n.Fields, NoticeField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return n
}

// DiscordRestrictionController applies timeouts through the Discord
// member API, mapping permission refusals to ErrRestrictionDenied.
type DiscordRestrictionController struct {
	Session *discordgo.Session
}

// NewDiscordRestrictionController creates a controller over a session
func NewDiscordRestrictionController(s *discordgo.Session) *DiscordRestrictionController {
	return &DiscordRestrictionController{Session: s}
}

// SetTimedRestriction times the member out until the given instant.
func (rc *DiscordRestrictionController) SetTimedRestriction(_ context.Context, guildID, userID string, until time.Time, reason string) error {
	err := rc.Session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithAuditLogReason(reason))
	return mapRestrictionErr(err)
}

// ClearRestriction removes an active timeout.
func (rc *DiscordRestrictionController) ClearRestriction(_ context.Context, guildID, userID, reason string) error {
	err := rc.Session.GuildMemberTimeout(guildID, userID, nil, discordgo.WithAuditLogReason(reason))
	return mapRestrictionErr(err)
}

func mapRestrictionErr(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil && rest.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %v", ErrRestrictionDenied, err)
	}
	return err
}

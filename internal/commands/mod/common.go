// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const footerText = "💫 - Developed by PancyStudios"

// subjectFromUser builds the case subject from a Discord user.
func subjectFromUser(user *discordgo.User) moderation.Subject {
	return moderation.Subject{
		ID:        user.ID,
		Name:      user.Username,
		Mention:   user.Mention(),
		AvatarURL: user.AvatarURL(""),
	}
}

// dmSubject intenta avisar al usuario por MD antes de aplicar la
// sanción. Devuelve false si el MD no pudo entregarse.
func dmSubject(ctx *discord.CommandContext, user *discordgo.User, embed *discordgo.MessageEmbed) bool {
	userChannel, err := ctx.Session.UserChannelCreate(user.ID)
	if err != nil {
		return false
	}
	if _, err := ctx.Session.ChannelMessageSendEmbed(userChannel.ID, embed); err != nil {
		return false
	}
	return true
}

// actionDMEmbed builds the standard DM sent to a sanctioned member.
func actionDMEmbed(ctx *discord.CommandContext, title, reason string) *discordgo.MessageEmbed {
	guildName := ctx.Interaction.GuildID
	if g := ctx.Guild(); g != nil {
		guildName = g.Name
	}
	return &discordgo.MessageEmbed{
		Title: title,
		Color: 0xFFA500,
		Description: fmt.Sprintf(
			"⚒ - **Servidor:** %s (%s)\n"+
				"📄 - **Razón:** %s\n\n"+
				"🕒 - **Fecha:** <t:%d:F>",
			guildName, ctx.Interaction.GuildID, reason, time.Now().Unix(),
		),
		Footer: &discordgo.MessageEmbedFooter{
			Text:    footerText,
			IconURL: ctx.Client.Session.State.User.AvatarURL(""),
		},
	}
}

// logCase serializes ledger access per guild and records the case.
// Returns the allocated case number; on error the reply was NOT sent
// yet, callers decide how to surface it.
func logCase(cl *moderation.CaseLogger, req moderation.CaseRequest) (int, error) {
	unlock := cl.Locker.Lock(req.GuildID)
	defer unlock()
	return cl.LogCase(context.Background(), req)
}

// requireService resolves the global case logger, replying when the
// moderation module is not wired up (database offline at boot).
func requireService(ctx *discord.CommandContext) *moderation.CaseLogger {
	cl := moderation.Get()
	if cl == nil {
		if err := ctx.ReplyEphemeral("❌ El módulo de moderación no está disponible en este momento."); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply de servicio caído: %v", err), "CMD-Mod")
		}
	}
	return cl
}

// caseFooter renders the confirmation suffix shown after the action.
func caseFooter(caseNo int, err error) string {
	if err != nil {
		return "\n⚠️ La acción se aplicó pero no se pudo registrar el caso."
	}
	return fmt.Sprintf("\n📁 Caso **#%d** registrado.", caseNo)
}

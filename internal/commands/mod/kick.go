// Package mod - /mod kick command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		kickHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a expulsar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la expulsión",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		RequiresDatabase()
}

// kickHandler handles the /mod kick command
func kickHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}
		reason := ctx.GetStringOption("razon")
		if reason == "" {
			reason = "Sin razón especificada"
		}

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		// DM first: after the kick the user no longer shares a guild
		// with the bot and the channel cannot be created.
		dmOK := dmSubject(ctx, user, actionDMEmbed(ctx, "👢 - Has sido expulsado", reason))

		if err := ctx.Session.GuildMemberDeleteWithReason(ctx.Interaction.GuildID, user.ID, reason); err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al expulsar: %v", err))
			return
		}

		caseNo, err := logCase(cl, moderation.CaseRequest{
			GuildID:           ctx.Interaction.GuildID,
			ModeratorID:       ctx.User().ID,
			Subject:           subjectFromUser(user),
			Action:            models.ActionKick,
			Reason:            reason,
			DMAttempted:       true,
			DMDelivered:       dmOK,
			FallbackChannelID: ctx.Interaction.ChannelID,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando kick: %v", err), "CMD-Kick")
		}

		ctx.Reply(fmt.Sprintf("👢 **%s** ha sido expulsado.\n**Razón:** %s%s",
			user.Username, reason, caseFooter(caseNo, err)))
	}()

	return nil
}

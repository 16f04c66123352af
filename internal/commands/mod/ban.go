// Package mod - /mod ban and /mod unban commands
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

// createBanCommand creates the /mod ban subcommand
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		banHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a banear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del ban",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días de mensajes a eliminar (0-7)",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    7,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()
}

// banHandler handles the /mod ban command
func banHandler(ctx *discord.CommandContext) error {
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
		days := int(ctx.GetIntOption("dias"))

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		// DM before the ban lands; afterwards the DM channel is gone.
		dmOK := dmSubject(ctx, user, actionDMEmbed(ctx, "🔨 - Has sido baneado", reason))

		if err := ctx.Session.GuildBanCreateWithReason(ctx.Interaction.GuildID, user.ID, reason, days); err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al banear: %v", err))
			return
		}

		caseNo, err := logCase(cl, moderation.CaseRequest{
			GuildID:           ctx.Interaction.GuildID,
			ModeratorID:       ctx.User().ID,
			Subject:           subjectFromUser(user),
			Action:            models.ActionBan,
			Reason:            reason,
			DMAttempted:       true,
			DMDelivered:       dmOK,
			FallbackChannelID: ctx.Interaction.ChannelID,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando ban: %v", err), "CMD-Ban")
		}

		ctx.Reply(fmt.Sprintf("🔨 **%s** ha sido baneado.\n**Razón:** %s%s",
			user.Username, reason, caseFooter(caseNo, err)))
	}()

	return nil
}

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Retira el ban de un usuario",
		"mod",
		unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario baneado",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()
}

// unbanHandler handles the /mod unban command
func unbanHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		userID := ctx.GetStringOption("id")
		if userID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar el ID del usuario.")
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

		if err := ctx.Session.GuildBanDelete(ctx.Interaction.GuildID, userID); err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al retirar el ban: %v", err))
			return
		}

		// The user object may no longer be resolvable; fall back to the id.
		subject := moderation.Subject{ID: userID, Name: userID, Mention: fmt.Sprintf("<@%s>", userID)}
		if user, uerr := ctx.Session.User(userID); uerr == nil {
			subject = subjectFromUser(user)
		}

		caseNo, err := logCase(cl, moderation.CaseRequest{
			GuildID:           ctx.Interaction.GuildID,
			ModeratorID:       ctx.User().ID,
			Subject:           subject,
			Action:            models.ActionUnban,
			Reason:            reason,
			FallbackChannelID: ctx.Interaction.ChannelID,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando unban: %v", err), "CMD-Unban")
		}

		ctx.Reply(fmt.Sprintf("🕊️ **%s** ya no está baneado.%s", subject.Name, caseFooter(caseNo, err)))
	}()

	return nil
}

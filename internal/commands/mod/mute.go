// Package mod - /mod mute and /mod unmute commands
package mod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/durations"
	pkgerrors "github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario temporalmente",
		"mod",
		muteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración (ej: 30m, 1h30m, 2d)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del silencio",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// muteHandler handles the /mod mute command
func muteHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pkgerrors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}

		durText := ctx.GetStringOption("duracion")
		ms, err := durations.ParseMs(durText)
		if err != nil {
			ctx.ReplyEphemeral("❌ Duración inválida. Usa algo como `30m`, `1h30m` o `2d`.")
			return
		}
		if ms > moderation.MaxRestrictionMs {
			ctx.ReplyEphemeral("❌ La duración máxima de un silencio es de 28 días.")
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

		human := durations.Humanize(ms)
		until := time.Now().UTC().Add(time.Duration(ms) * time.Millisecond)
		err = cl.Restrictions.SetTimedRestriction(context.Background(), ctx.Interaction.GuildID, user.ID, until, reason)
		if err != nil {
			if errors.Is(err, moderation.ErrRestrictionDenied) {
				ctx.ReplyEphemeral("❌ No tengo permisos para silenciar a ese usuario.")
				return
			}
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al silenciar: %v", err))
			return
		}

		dmOK := dmSubject(ctx, user, actionDMEmbed(ctx, fmt.Sprintf("🔇 - Has sido silenciado por %s", human), reason))

		caseNo, err := logCase(cl, moderation.CaseRequest{
			GuildID:           ctx.Interaction.GuildID,
			ModeratorID:       ctx.User().ID,
			Subject:           subjectFromUser(user),
			Action:            models.ActionMute,
			Reason:            reason,
			Duration:          human,
			DMAttempted:       true,
			DMDelivered:       dmOK,
			FallbackChannelID: ctx.Interaction.ChannelID,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando mute: %v", err), "CMD-Mute")
		}

		ctx.Reply(fmt.Sprintf("🔇 **%s** ha sido silenciado por %s.\n**Razón:** %s%s",
			user.Username, human, reason, caseFooter(caseNo, err)))
	}()

	return nil
}

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Retira el silencio de un usuario",
		"mod",
		unmuteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a des-silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		RequiresDatabase()
}

// unmuteHandler handles the /mod unmute command
func unmuteHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pkgerrors.RecoverMiddleware()()

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

		if err := cl.Restrictions.ClearRestriction(context.Background(), ctx.Interaction.GuildID, user.ID, reason); err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al retirar el silencio: %v", err))
			return
		}

		caseNo, err := logCase(cl, moderation.CaseRequest{
			GuildID:           ctx.Interaction.GuildID,
			ModeratorID:       ctx.User().ID,
			Subject:           subjectFromUser(user),
			Action:            models.ActionUnmute,
			Reason:            reason,
			FallbackChannelID: ctx.Interaction.ChannelID,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando unmute: %v", err), "CMD-Unmute")
		}

		ctx.Reply(fmt.Sprintf("🔊 **%s** ya no está silenciado.%s", user.Username, caseFooter(caseNo, err)))
	}()

	return nil
}

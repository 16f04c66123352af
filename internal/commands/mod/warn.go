// Package mod - /mod warn command
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}
		reason := ctx.GetStringOption("razon")
		if reason == "" {
			ctx.ReplyEphemeral("❌ Debes especificar una razón.")
			return
		}

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		dmOK := dmSubject(ctx, user, actionDMEmbed(ctx, "⚠️ - Has sido advertido", reason))

		caseNo, err := logCase(cl, moderation.CaseRequest{
			GuildID:           ctx.Interaction.GuildID,
			ModeratorID:       ctx.User().ID,
			Subject:           subjectFromUser(user),
			Action:            models.ActionWarn,
			Reason:            reason,
			DMAttempted:       true,
			DMDelivered:       dmOK,
			FallbackChannelID: ctx.Interaction.ChannelID,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error registrando warn: %v", err), "CMD-Warn")
		}

		// The warning record links back to its case.
		if err == nil {
			unlock := cl.Locker.Lock(ctx.Interaction.GuildID)
			_, werr := cl.Ledger.AppendWarning(context.Background(), ctx.Interaction.GuildID, user.ID, reason, ctx.User().ID, caseNo)
			unlock()
			if werr != nil {
				logger.Error(fmt.Sprintf("Caso %d registrado pero sin advertencia: %v", caseNo, werr), "CMD-Warn")
			}
		}

		msg := fmt.Sprintf("⚠️ **%s** ha sido advertido.\n**Razón:** %s%s",
			user.Username, reason, caseFooter(caseNo, err))
		if !dmOK {
			msg += "\nℹ️ No se pudo enviar un mensaje directo al usuario."
		}
		ctx.Reply(msg)
	}()

	return nil
}

// Package mod - /mod duration command (amend a case's duration)
package mod

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createDurationCommand creates the /mod duration subcommand
func createDurationCommand() *discord.Command {
	return discord.NewCommand(
		"duration",
		"Cambia la duración de un caso registrado",
		"mod",
		durationHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionInteger,
			Name:         "caso",
			Description:  "Número de caso",
			Required:     true,
			MinValue:     func() *float64 { v := 1.0; return &v }(),
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Nueva duración (ej: 30m, 1h30m, 2d)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(caseNumberAutoComplete).
		RequiresDatabase()
}

// durationHandler handles the /mod duration command
func durationHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		caseNo := int(ctx.GetIntOption("caso"))
		durText := ctx.GetStringOption("duracion")

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		unlock := cl.Locker.Lock(ctx.Interaction.GuildID)
		res, err := cl.AmendDuration(context.Background(), ctx.Interaction.GuildID, caseNo, durText)
		unlock()
		if err != nil {
			switch {
			case stderrors.Is(err, moderation.ErrInvalidDuration):
				ctx.ReplyEphemeral("❌ Duración inválida. Usa algo como `30m`, `1h30m` o `2d`.")
			case stderrors.Is(err, moderation.ErrDurationTooLong):
				ctx.ReplyEphemeral("❌ La duración máxima es de 28 días.")
			case stderrors.Is(err, moderation.ErrCaseNotFound):
				ctx.ReplyEphemeral(fmt.Sprintf("❌ El caso **#%d** no existe en este servidor.", caseNo))
			case stderrors.Is(err, moderation.ErrNoticeUnavailable):
				ctx.ReplyEphemeral(fmt.Sprintf("❌ El mensaje de log del caso **#%d** ya no está disponible.", caseNo))
			case stderrors.Is(err, moderation.ErrRestrictionDenied):
				ctx.ReplyEphemeral("❌ No tengo permisos para actualizar el timeout de ese usuario.")
			default:
				logger.Error(fmt.Sprintf("Error en duration del caso %d: %v", caseNo, err), "CMD-Duration")
				ctx.ReplyEphemeral("❌ No se pudo actualizar el caso.")
			}
			return
		}

		msg := fmt.Sprintf("⏱️ Duración del caso **#%d** actualizada a **%s**.", res.CaseNo, durText)
		if res.State == moderation.PartialSuccess {
			msg += fmt.Sprintf("\n⚠️ El registro se actualizó pero el timeout no: %s", res.Detail)
		} else if res.Timed {
			msg += "\nEl timeout del usuario fue reajustado."
		}
		ctx.Reply(msg)
	}()

	return nil
}

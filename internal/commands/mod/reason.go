// Package mod - /mod reason command (amend a case's reason)
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

// createReasonCommand creates the /mod reason subcommand
func createReasonCommand() *discord.Command {
	return discord.NewCommand(
		"reason",
		"Cambia la razón de un caso registrado",
		"mod",
		reasonHandler,
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
			Name:        "razon",
			Description: "Nueva razón",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithAutoComplete(caseNumberAutoComplete).
		RequiresDatabase()
}

// reasonHandler handles the /mod reason command
func reasonHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		caseNo := int(ctx.GetIntOption("caso"))
		newReason := ctx.GetStringOption("razon")
		if newReason == "" {
			ctx.ReplyEphemeral("❌ Debes especificar la nueva razón.")
			return
		}

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		unlock := cl.Locker.Lock(ctx.Interaction.GuildID)
		res, err := cl.AmendReason(context.Background(), ctx.Interaction.GuildID, caseNo, newReason)
		unlock()
		if err != nil {
			switch {
			case stderrors.Is(err, moderation.ErrCaseNotFound):
				ctx.ReplyEphemeral(fmt.Sprintf("❌ El caso **#%d** no existe en este servidor.", caseNo))
			case stderrors.Is(err, moderation.ErrNoticeUnavailable):
				ctx.ReplyEphemeral(fmt.Sprintf("❌ El mensaje de log del caso **#%d** ya no está disponible.", caseNo))
			default:
				logger.Error(fmt.Sprintf("Error en reason del caso %d: %v", caseNo, err), "CMD-Reason")
				ctx.ReplyEphemeral("❌ No se pudo actualizar el caso.")
			}
			return
		}

		ctx.Reply(fmt.Sprintf("📝 Razón del caso **#%d** actualizada.\n**Nueva razón:** %s", res.CaseNo, newReason))
	}()

	return nil
}

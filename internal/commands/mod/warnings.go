// Package mod - /mod warns and /mod clearwarns commands
package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func warningsHandler(ctx *discord.CommandContext) error {
	// Goroutine para no bloquear el hilo principal
	go func() {
		defer errors.RecoverMiddleware()()

		// 1. Determinar objetivo y permisos
		targetUser := ctx.GetUserOption("usuario")
		isSelf := false

		perms, err := ctx.Session.UserChannelPermissions(ctx.User().ID, ctx.Interaction.ChannelID)
		if err != nil {
			perms = 0
		}
		isModerator := (perms & discordgo.PermissionManageMessages) != 0

		if targetUser == nil {
			targetUser = ctx.User()
			isSelf = true
		}

		// Si intenta ver advertencias de otro y no es moderador
		if !isSelf && !isModerator {
			ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
			return
		}

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		// 2. Feedback inicial (efímero)
		embedLoading := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
			Description: "Espere un momento mientras obtenemos las advertencias...\n\n> 💫 - **Cantidad de advertencias:** Desconocido\n> 🕒 - **Fecha de consulta:** Cargando...",
			Color:       0x3498db, // Blue
			Footer: &discordgo.MessageEmbedFooter{
				Text:    footerText,
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		if err := ctx.ReplyEphemeralEmbed(embedLoading); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial warnings: %v", err), "CMD-Warnings")
			return
		}

		// 3. Consulta del ledger
		warns, err := cl.Ledger.ListWarnings(context.Background(), ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error consultando advertencias: %v", err), "CMD-Warnings")
			ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}

		if len(warns) == 0 {
			ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
				Color:       0x00FF00, // Green
				Description: fmt.Sprintf("No se han encontrado advertencias del usuario en este servidor\n\n> 💫 - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>", time.Now().Unix()),
				Footer: &discordgo.MessageEmbedFooter{
					Text:    footerText,
					IconURL: ctx.Guild().IconURL(""),
				},
			})
			return
		}

		// 4. Construir lista de advertencias
		embedList := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🔖 - Lista de advertencias de %s (%s)", targetUser.Username, targetUser.ID),
			Color: 0xFFA500, // Orange
			Footer: &discordgo.MessageEmbedFooter{
				Text:    footerText,
				IconURL: ctx.Guild().IconURL(""),
			},
		}

		var description string
		for _, warn := range warns {
			modName := "Oculto"
			if isModerator {
				modName = warn.Moderator
				if modUser, err := ctx.Session.User(warn.Moderator); err == nil {
					modName = modUser.Username
				}
			}

			caseRef := "Sin caso"
			if warn.CaseNo > 0 {
				caseRef = fmt.Sprintf("#%d", warn.CaseNo)
			}

			description += fmt.Sprintf("> **Advertencia:** %s \n> **Moderador:** %s \n> **Caso:** %s \n> **ID:** `%s` \n\n",
				warn.Reason, modName, caseRef, warn.ID)
		}

		description += fmt.Sprintf("> 💫 - **Cantidad de advertencias:** %d \n> 🕒 - **Fecha de consulta:** <t:%d>", len(warns), time.Now().Unix())
		embedList.Description = description

		// 5. Enviar respuesta final
		ctx.EditReplyEmbed(embedList)
	}()

	return nil
}

// createClearWarnsCommand creates the /mod clearwarns subcommand
func createClearWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"clearwarns",
		"Elimina todas las advertencias de un usuario",
		"mod",
		clearWarnsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a limpiar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// clearWarnsHandler handles the /mod clearwarns command
func clearWarnsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		user := ctx.GetUserOption("usuario")
		if user == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
			return
		}

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		unlock := cl.Locker.Lock(ctx.Interaction.GuildID)
		removed, err := cl.Ledger.ClearWarnings(context.Background(), ctx.Interaction.GuildID, user.ID)
		unlock()
		if err != nil {
			logger.Error(fmt.Sprintf("Error limpiando advertencias: %v", err), "CMD-ClearWarns")
			ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
			return
		}

		if !removed {
			ctx.ReplyEphemeral(fmt.Sprintf("ℹ️ **%s** no tiene advertencias en este servidor.", user.Username))
			return
		}

		ctx.Reply(fmt.Sprintf("🗑️ Se han eliminado todas las advertencias de **%s**.", user.Username))
	}()

	return nil
}

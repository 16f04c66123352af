// Package mod - /mod modstats command (per-moderator action stats)
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

// createModStatsCommand creates the /mod modstats subcommand
func createModStatsCommand() *discord.Command {
	return discord.NewCommand(
		"modstats",
		"Estadísticas de acciones de un moderador",
		"mod",
		modStatsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "moderador",
			Description: "Moderador a consultar (por defecto, tú)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// modStatsHandler handles the /mod modstats command
func modStatsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		target := ctx.GetUserOption("moderador")
		if target == nil {
			target = ctx.User()
		}

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		actions, err := cl.Ledger.ModActions(context.Background(), ctx.Interaction.GuildID, target.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error consultando modstats: %v", err), "CMD-ModStats")
			ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
			return
		}

		if len(actions) == 0 {
			ctx.ReplyEphemeral(fmt.Sprintf("ℹ️ **%s** no tiene acciones de moderación registradas.", target.Username))
			return
		}

		// Totales por tipo y por ventana de tiempo
		now := time.Now().UTC()
		byType := make(map[string]int)
		var last7, last30 int
		for _, a := range actions {
			byType[a.Type]++
			ts, err := time.Parse(time.RFC3339, a.Timestamp)
			if err != nil {
				continue
			}
			age := now.Sub(ts)
			if age <= 7*24*time.Hour {
				last7++
			}
			if age <= 30*24*time.Hour {
				last30++
			}
		}

		var breakdown string
		for _, kind := range []string{"Warn", "Mute", "Timeout", "Unmute", "Kick", "Ban", "Unban"} {
			if n := byType[kind]; n > 0 {
				breakdown += fmt.Sprintf("> **%s:** %d\n", kind, n)
			}
		}

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("📊 - Estadísticas de moderación de %s", target.Username),
			Color: 0x3498db,
			Description: fmt.Sprintf(
				"%s\n> 🗓️ - **Últimos 7 días:** %d\n> 🗓️ - **Últimos 30 días:** %d\n> 💫 - **Total:** %d",
				breakdown, last7, last30, len(actions),
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    footerText,
				IconURL: target.AvatarURL(""),
			},
			Timestamp: now.Format(time.RFC3339),
		}

		ctx.ReplyEmbed(embed)
	}()

	return nil
}

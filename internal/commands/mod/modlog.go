// Package mod - /mod modlog command (configure the mod-log channel)
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createModlogCommand creates the /mod modlog subcommand
func createModlogCommand() *discord.Command {
	return discord.NewCommand(
		"modlog",
		"Configura el canal donde se publican los casos",
		"mod",
		modlogHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal de mod-log (vacío para consultar el actual)",
			Required:    false,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
	).WithUserPermissions(discordgo.PermissionManageServer).RequiresDatabase()
}

// modlogHandler handles the /mod modlog command
func modlogHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		cl := requireService(ctx)
		if cl == nil {
			return
		}

		channel := ctx.GetChannelOption("canal")
		if channel == nil {
			current, err := cl.Ledger.ModlogChannelID(context.Background(), ctx.Interaction.GuildID)
			if err != nil {
				logger.Error(fmt.Sprintf("Error consultando modlog: %v", err), "CMD-Modlog")
				ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
				return
			}
			if current == "" {
				ctx.ReplyEphemeral("ℹ️ No hay canal de mod-log configurado. Los casos se publican en el canal donde se ejecuta el comando.")
				return
			}
			ctx.ReplyEphemeral(fmt.Sprintf("ℹ️ El canal de mod-log actual es <#%s>.", current))
			return
		}

		unlock := cl.Locker.Lock(ctx.Interaction.GuildID)
		err := cl.Ledger.SetModlogChannelID(context.Background(), ctx.Interaction.GuildID, channel.ID)
		unlock()
		if err != nil {
			logger.Error(fmt.Sprintf("Error guardando modlog: %v", err), "CMD-Modlog")
			ctx.ReplyEphemeral("❌ No se pudo guardar la configuración.")
			return
		}

		ctx.Reply(fmt.Sprintf("📁 Canal de mod-log configurado: <#%s>. Los nuevos casos se publicarán ahí.", channel.ID))
	}()

	return nil
}

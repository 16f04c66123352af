package utils

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		ctx.Reply(
			"📖 **Ayuda de PancyGuard**\n\n" +
				"**Comandos disponibles:**\n" +
				"• `/utils ping` - Comprueba la latencia\n" +
				"• `/utils status` - Estado del bot\n" +
				"• `/utils stats` - Estadísticas del bot\n" +
				"• `/mod warn <usuario> <razón>` - Advierte a un usuario\n" +
				"• `/mod warns <usuario>` - Lista las advertencias\n" +
				"• `/mod clearwarns <usuario>` - Elimina las advertencias\n" +
				"• `/mod mute <usuario> <duración> <razón>` - Silencia a un usuario\n" +
				"• `/mod unmute <usuario>` - Retira el silencio\n" +
				"• `/mod kick <usuario> <razón>` - Expulsa a un usuario\n" +
				"• `/mod ban <usuario> <razón>` - Banea a un usuario\n" +
				"• `/mod unban <id>` - Retira un ban\n" +
				"• `/mod reason <caso> <razón>` - Corrige la razón de un caso\n" +
				"• `/mod duration <caso> <duración>` - Corrige la duración de un caso\n" +
				"• `/mod modlog <canal>` - Configura el canal de casos\n" +
				"• `/mod modstats <moderador>` - Estadísticas de moderación",
		)
	}()
	return nil
}

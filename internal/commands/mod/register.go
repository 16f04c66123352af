// Package mod - /mod command group registration
package mod

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient) {
	// Build the /mod command group with all subcommands
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		createWarnCommand(),
		createWarningsCommand(),
		createClearWarnsCommand(),
		createMuteCommand(),
		createUnmuteCommand(),
		createKickCommand(),
		createBanCommand(),
		createUnbanCommand(),
		createReasonCommand(),
		createDurationCommand(),
		createModlogCommand(),
		createModStatsCommand(),
	)

	// Register the command group
	client.CommandHandler.AddGlobalCommand(modGroup)
}

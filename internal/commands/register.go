// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, mod, dev)
package commands

import (
	"github.com/PancyStudios/PancyGuardGo/internal/commands/dev"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/mod"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/utils"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// Utility commands (/utils ping, /utils status, /utils stats)
	utils.RegisterUtilsCommands(client)

	// Moderation commands (/mod warn, /mod mute, /mod reason, ...)
	mod.RegisterModCommands(client)

	// Development commands, registered only in the dev guild
	dev.Register(client)
}

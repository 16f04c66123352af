// Package events provides a registry for organizing bot events.
package events

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave, manual unbans)
	RegisterGuildEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}

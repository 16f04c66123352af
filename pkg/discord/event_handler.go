// Package discord provides the event handler for managing Discord events.
package discord

import (
	"sync"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler manages event loading and registration
type EventHandler struct {
	client *ExtendedClient
	events []interface{}
	mu     sync.RWMutex
}

// Event represents a Discord event with its handler
type Event struct {
	Name    string
	Handler interface{}
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		events: make([]interface{}, 0),
	}
}

// LoadEvents loads all events from the events registry
// In Go, we register events programmatically instead of reading from files
func (eh *EventHandler) LoadEvents() error {
	logger.System("Iniciando carga de eventos...", "EventHandler")

	// Events are registered programmatically using RegisterEvent
	// Example events can be added here or in separate packages

	logger.System("Carga finalizada. Los eventos se registrarán programáticamente.", "EventHandler")
	return nil
}

// RegisterEvent adds an event handler to the Discord session
func (eh *EventHandler) RegisterEvent(handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.events = append(eh.events, handler)
	eh.mu.Unlock()
	logger.Debug("Evento registrado", "EventHandler")
}

// Event handler types for the Discord events the bot listens to

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// GuildCreateHandler is called when the bot joins a guild
type GuildCreateHandler func(s *discordgo.Session, g *discordgo.GuildCreate)

// GuildDeleteHandler is called when the bot leaves a guild
type GuildDeleteHandler func(s *discordgo.Session, g *discordgo.GuildDelete)

// GuildBanRemoveHandler is called when a member is unbanned
type GuildBanRemoveHandler func(s *discordgo.Session, b *discordgo.GuildBanRemove)

// Helper functions to register common event types

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'Ready' registrado", "EventHandler")
}

// OnGuildCreate registers a guild create event handler
func (eh *EventHandler) OnGuildCreate(handler GuildCreateHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'GuildCreate' registrado", "EventHandler")
}

// OnGuildDelete registers a guild delete event handler
func (eh *EventHandler) OnGuildDelete(handler GuildDeleteHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'GuildDelete' registrado", "EventHandler")
}

// OnGuildBanRemove registers a ban remove event handler
func (eh *EventHandler) OnGuildBanRemove(handler GuildBanRemoveHandler) {
	eh.RegisterEvent(handler)
	logger.Debug("Evento 'GuildBanRemove' registrado", "EventHandler")
}

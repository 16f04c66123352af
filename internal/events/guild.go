// Package events provides event handlers for guild (server) events
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(onGuildCreate)
	client.EventHandler.OnGuildDelete(onGuildDelete)
	client.EventHandler.OnGuildBanRemove(onGuildBanRemove)
}

// onGuildCreate is called when the bot joins a server
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {

	Join := g.JoinedAt
	if Join.Compare(time.Now().Add(-10*time.Second)) < 0 {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	// Crear el documento de configuración del servidor por adelantado
	if gs := database.Guilds(); gs != nil {
		if _, err := gs.FetchOrCreate(context.Background(), g.ID); err != nil {
			logger.Error(fmt.Sprintf("Error creando configuración del servidor %s: %v", g.ID, err), "Guild")
		}
	}

	// Enviar mensaje de bienvenida al canal del sistema
	if g.SystemChannelID != "" {
		welcomeEmbed := &discordgo.MessageEmbed{
			Title:       "¡Gracias por agregarme! 🎉",
			Description: "Hola, soy **PancyGuard**. Usa `/utils help` para ver todos mis comandos.",
			Color:       0x00ff00,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "🔧 Moderación",
					Value:  "Usa `/mod` para moderar",
					Inline: true,
				},
				{
					Name:   "📁 Casos",
					Value:  "Configura el canal con `/mod modlog`",
					Inline: true,
				},
				{
					Name:   "❓ Ayuda",
					Value:  "Usa `/utils help` para más información",
					Inline: true,
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "¡Disfruta de PancyGuard!",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		_, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed)
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
		}
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}

// onGuildBanRemove registra como caso los unbans hechos a mano desde
// la interfaz de Discord. Solo se registra si hay canal de mod-log
// configurado: sin él no hay superficie donde publicar el notice.
func onGuildBanRemove(s *discordgo.Session, b *discordgo.GuildBanRemove) {
	cl := moderation.Get()
	if cl == nil {
		return
	}

	ctx := context.Background()
	modlogID, err := cl.Ledger.ModlogChannelID(ctx, b.GuildID)
	if err != nil || modlogID == "" {
		return
	}

	unlock := cl.Locker.Lock(b.GuildID)
	defer unlock()

	_, err = cl.LogCase(ctx, moderation.CaseRequest{
		GuildID:     b.GuildID,
		ModeratorID: s.State.User.ID,
		Subject: moderation.Subject{
			ID:        b.User.ID,
			Name:      b.User.Username,
			Mention:   b.User.Mention(),
			AvatarURL: b.User.AvatarURL(""),
		},
		Action:            models.ActionUnban,
		Reason:            "Ban retirado manualmente desde Discord",
		FallbackChannelID: modlogID,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Error registrando unban manual en %s: %v", b.GuildID, err), "Guild")
	}
}

// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"strconv"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)

		guilds := api.Group("/guilds/:guildId")
		{
			guilds.GET("/cases", guildCasesHandler)
			guilds.GET("/cases/:caseNo", guildCaseHandler)
			guilds.GET("/warnings/:userId", guildWarningsHandler)
		}
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyGuard is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// fetchGuildConfig reads a guild document through the cached manager.
func fetchGuildConfig(c *gin.Context) (*models.GuildConfig, bool) {
	if database.GlobalGuildDM == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Database Offline",
			"message": "La base de datos no está disponible en este momento.",
		})
		return nil, false
	}

	cfg, err := database.GlobalGuildDM.Get(bson.M{"guildId": c.Param("guildId")})
	if err != nil || cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "No hay configuración para ese servidor.",
		})
		return nil, false
	}
	return cfg, true
}

// guildCasesHandler returns the guild's full case index
func guildCasesHandler(c *gin.Context) {
	cfg, ok := fetchGuildConfig(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId":  cfg.GuildID,
		"caseSeq":  cfg.Modules.CaseSeq,
		"cases":    cfg.Modules.CaseIndex,
		"modlogId": cfg.Modules.ModlogChannelID,
	})
}

// guildCaseHandler returns one case's index entry
func guildCaseHandler(c *gin.Context) {
	caseNo, err := strconv.Atoi(c.Param("caseNo"))
	if err != nil || caseNo < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "El número de caso debe ser un entero positivo.",
		})
		return
	}

	cfg, ok := fetchGuildConfig(c)
	if !ok {
		return
	}

	ref, found := cfg.Modules.CaseIndex[strconv.Itoa(caseNo)]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Ese caso no existe en este servidor.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId": cfg.GuildID,
		"caseNo":  caseNo,
		"case":    ref,
	})
}

// guildWarningsHandler returns a member's warning list
func guildWarningsHandler(c *gin.Context) {
	cfg, ok := fetchGuildConfig(c)
	if !ok {
		return
	}

	warns := cfg.Modules.Warns[c.Param("userId")]
	if warns == nil {
		warns = []models.Warn{}
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId":  cfg.GuildID,
		"userId":   c.Param("userId"),
		"count":    len(warns),
		"warnings": warns,
	})
}

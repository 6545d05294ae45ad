// Package web provides API routes for the web server.
package web

import (
	"context"
	"net/http"
	"regexp"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Moderation is the read side of the moderation engine
type Moderation interface {
	SetupView(ctx context.Context, guildID string) (*moderation.SetupView, error)
	ListWarnings(ctx context.Context, guildID, userID string) (*moderation.WarningsView, error)
	ListOffences(ctx context.Context, guildID, userID string) ([]*models.OffenceEntry, error)
}

// StorageStatus reports whether the backing store is reachable
type StorageStatus interface {
	GetStatus() (string, bool)
}

// BotStatus reports the gateway connection
type BotStatus interface {
	IsReady() bool
	GuildCount() int
}

// API holds what the routes read from
type API struct {
	Moderation Moderation
	Storage    StorageStatus
	Bot        BotStatus
}

var snowflake = regexp.MustCompile(`^\d{1,20}$`)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, api *API) {
	s.GET("/metrics", gin.WrapH(promhttp.Handler()))

	group := s.Group("/api")
	{
		group.GET("/health", healthHandler)
		group.GET("/status", api.statusHandler)

		guild := group.Group("/guilds/:guildId", requireSnowflakes("guildId"))
		guild.GET("/thresholds", api.thresholdsHandler)
		guild.GET("/users/:userId/warnings", requireSnowflakes("userId"), api.warningsHandler)
		guild.GET("/users/:userId/offences", requireSnowflakes("userId"), api.offencesHandler)
	}
}

func requireSnowflakes(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range params {
			if !snowflake.MatchString(c.Param(p)) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":   "Bad Request",
					"message": "El parámetro " + p + " no es un ID válido.",
				})
				return
			}
		}
		c.Next()
	}
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyMod Go is running",
		"version": config.Version,
	})
}

// statusHandler returns the bot and storage status
func (api *API) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "🔴 | Desconectado", false
	if api.Storage != nil {
		dbStatus, dbOnline = api.Storage.GetStatus()
	}

	botOnline, guilds := false, 0
	if api.Bot != nil {
		botOnline = api.Bot.IsReady()
		guilds = api.Bot.GuildCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
			"guilds":   guilds,
		},
	})
}

// abortWithError maps a moderation error to a status code
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch moderation.KindOf(err) {
	case moderation.KindTransient:
		status = http.StatusServiceUnavailable
	case moderation.KindNotFound:
		status = http.StatusNotFound
	case moderation.KindValidation:
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Error en "+c.FullPath()+": "+err.Error(), "WebServer")
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": moderation.UserMessage(err),
	})
}

func (api *API) thresholdsHandler(c *gin.Context) {
	view, err := api.Moderation.SetupView(c.Request.Context(), c.Param("guildId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"thresholds":     view.Thresholds,
		"suggestions":    view.Suggestions,
		"permanentBanAt": view.PermanentBanAt,
	})
}

func (api *API) warningsHandler(c *gin.Context) {
	view, err := api.Moderation.ListWarnings(c.Request.Context(), c.Param("guildId"), c.Param("userId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": view.Entries,
		"total":   view.Total,
	})
}

func (api *API) offencesHandler(c *gin.Context) {
	offences, err := api.Moderation.ListOffences(c.Request.Context(), c.Param("guildId"), c.Param("userId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"offences": offences,
	})
}

// Package main is the entry point for the PancyMod Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/internal/events"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/markov"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/scheduler"
	"github.com/PancyStudios/PancyModGo/pkg/web"
)

// store is everything the bot persists, in MongoDB or in memory
type store interface {
	moderation.Store
	scheduler.Store
	markov.Store
}

type statusStore interface {
	store
	GetStatus() (string, bool)
}

// mongoBackend reports the status of the shared connection
type mongoBackend struct {
	*database.MongoStore
	db *database.Database
}

func (m mongoBackend) GetStatus() (string, bool) {
	return m.db.GetStatus()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando PancyMod Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	// Initialize storage
	backend, closeStore := openStore(cfg)
	defer closeStore()

	// Initialize MQTT
	mqttClientID := "pancymod"
	if !cfg.IsProd() {
		mqttClientID = "pancymod_canary"
	}
	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
		cfg.MQTTTopicPrefix,
	)
	defer mqttClient.Destroy()

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	platform := discord.NewSessionPlatform(discordClient.Session)

	// Domain services
	engine := moderation.NewEngine(backend, platform,
		moderation.WithEventSink(mqttClient),
		moderation.WithConfirmTimeout(cfg.ConfirmTimeout),
	)
	generator := markov.NewGenerator(backend, cfg.MarkovWorkers)
	sweeper := scheduler.New(backend, platform,
		scheduler.WithInterval(cfg.SweepInterval),
		scheduler.WithStaleAfter(cfg.SanctionStaleAfter),
		scheduler.WithReady(discordClient.Ready()),
	)

	// Initialize web server
	webServer, err := web.Init(cfg.LogsWebServerHook, cfg.AllowedHosts)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating web server: %v", err), "Main")
		os.Exit(1)
	}
	web.SetupAPIRoutes(webServer, &web.API{
		Moderation: engine,
		Storage:    backend,
		Bot:        discordClient,
	})
	webServer.StartAsync(cfg.Port)

	// Register commands and events
	commands.RegisterAll(discordClient, commands.Services{
		Engine:  engine,
		Markov:  generator,
		Storage: backend,
	})
	events.RegisterAll(discordClient, generator, cfg.CommandPrefix)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
		}
	}()

	// The sweeper waits for the gateway to be ready before its first cycle
	sweeper.Start(context.Background())

	logger.Success("PancyMod Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyMod Go...", "Main")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webServer.Shutdown(ctx); err != nil {
		logger.Error(fmt.Sprintf("Error apagando el servidor web: %v", err), "Main")
	}
}

// openStore builds the configured backend and the function that releases it
func openStore(cfg *config.Config) (statusStore, func()) {
	if cfg.Storage == "memory" {
		logger.Warn("Usando almacenamiento en memoria: los datos se pierden al reiniciar", "Main")
		return database.NewMemoryStore(), func() {}
	}

	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		// Continue without database, it will attempt to reconnect
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.EnsureIndexes(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error creando índices: %v", err), "Main")
		}
		cancel()
	}

	return mongoBackend{MongoStore: database.NewMongoStore(db), db: db}, func() {
		if err := db.Disconnect(); err != nil {
			logger.Error(fmt.Sprintf("Error desconectando la base de datos: %v", err), "Main")
		}
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}

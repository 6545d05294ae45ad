// Package config provides configuration management for the bot.
// Values come from the environment (optionally seeded from a .env file)
// and are parsed into a typed struct once per process.
package config

import (
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken      string `env:"botToken"`
	DevGuildID    string `env:"devGuildId"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"-"`

	// Storage: "mongo" or "memory"
	Storage    string `env:"STORAGE" envDefault:"mongo"`
	MongoDBURL string `env:"mongodbUrl" envDefault:"mongodb://localhost:27017"`
	DBName     string `env:"dbName" envDefault:"PancyMod"`

	// MQTT
	MQTTHost        string `env:"MQTT_Host" envDefault:"localhost"`
	MQTTPort        string `env:"MQTT_Port" envDefault:"1883"`
	MQTTUser        string `env:"MQTT_User"`
	MQTTPassword    string `env:"MQTT_Password"`
	MQTTTopicPrefix string `env:"MQTT_TopicPrefix" envDefault:"pancymod"`

	// Web Server
	Port         string `env:"PORT" envDefault:"3000"`
	AllowedHosts string `env:"WEB_ALLOWED_HOSTS"`

	// Environment
	Environment string `env:"enviroment" envDefault:"dev"`

	// Webhooks
	ErrorWebhook      string `env:"errorWebhook"`
	LogsWebhook       string `env:"logsWebhook"`
	LogsWebServerHook string `env:"logsWebServerWebhook"`

	// Moderation
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL" envDefault:"2m"`
	SanctionStaleAfter time.Duration `env:"SANCTION_STALE_AFTER" envDefault:"720h"`
	ConfirmTimeout     time.Duration `env:"CONFIRM_TIMEOUT" envDefault:"180s"`

	// Markov
	MarkovWorkers int `env:"MARKOV_WORKERS" envDefault:"2"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	parsed, err := env.ParseAs[Config]()
	if err != nil {
		cfgErr = err
	}
	cfg = &parsed
}

// Load initializes the configuration from environment variables.
// A malformed value (for example SWEEP_INTERVAL=abc) is reported here;
// the returned config still carries every field that did parse.
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

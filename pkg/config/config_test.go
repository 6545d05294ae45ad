package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("botToken", "test-token")
	t.Setenv("PORT", "3001")
	t.Setenv("enviroment", "test")
	t.Setenv("SWEEP_INTERVAL", "30s")

	// Reset global config
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}

	if config.SweepInterval != 30*time.Second {
		t.Errorf("SweepInterval = %v, want %v", config.SweepInterval, 30*time.Second)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("CONFIRM_TIMEOUT", "tres minutos")
	resetForTesting()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when CONFIRM_TIMEOUT is not a duration")
	}
	resetForTesting()
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	t.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	t.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}
}

func TestGet(t *testing.T) {
	resetForTesting()

	// Get should create a new config if none exists
	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	// Get should return the same config on subsequent calls
	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{
		"botToken", "devGuildId", "mongodbUrl", "dbName", "MQTT_Host", "MQTT_Port",
		"PORT", "enviroment", "SWEEP_INTERVAL", "CONFIRM_TIMEOUT", "MARKOV_WORKERS", "COMMAND_PREFIX", "STORAGE",
	} {
		os.Unsetenv(key)
	}

	resetForTesting()
	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Storage", config.Storage, "mongo"},
		{"MongoDBURL", config.MongoDBURL, "mongodb://localhost:27017"},
		{"DBName", config.DBName, "PancyMod"},
		{"MQTTHost", config.MQTTHost, "localhost"},
		{"MQTTPort", config.MQTTPort, "1883"},
		{"MQTTTopicPrefix", config.MQTTTopicPrefix, "pancymod"},
		{"Port", config.Port, "3000"},
		{"Environment", config.Environment, "dev"},
		{"SweepInterval", config.SweepInterval, 2 * time.Minute},
		{"SanctionStaleAfter", config.SanctionStaleAfter, 30 * 24 * time.Hour},
		{"ConfirmTimeout", config.ConfirmTimeout, 180 * time.Second},
		{"MarkovWorkers", config.MarkovWorkers, 2},
		{"CommandPrefix", config.CommandPrefix, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s default = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

// Package mqtt publishes moderation events to an MQTT broker so other
// services can follow what the bot does.
package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client mqtt.Client
	prefix string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID, prefix string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID, prefix)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator connects to the broker. A failed first attempt is
// logged and retried in the background.
func NewMqttCommunicator(host, port, username, password, clientID, prefix string) *MqttCommunicator {
	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc := newWithClient(mqtt.NewClient(opts), prefix)

	token := mc.client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

func newWithClient(client mqtt.Client, prefix string) *MqttCommunicator {
	return &MqttCommunicator{client: client, prefix: prefix}
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// EventTopic is the topic events of the given type are published on
func (mc *MqttCommunicator) EventTopic(eventType string) string {
	return mc.prefix + "/events/" + eventType
}

// Publish sends payload as JSON and waits for the broker to take it or
// ctx to end
func (mc *MqttCommunicator) Publish(ctx context.Context, topic string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 1, false, jsonData)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishEvent implements moderation.EventSink. Events raised while the
// broker is unreachable are dropped.
func (mc *MqttCommunicator) PublishEvent(ctx context.Context, event moderation.Event) error {
	if !mc.IsConnected() {
		logger.Debug("MQTT desconectado, evento descartado: "+event.Type, "MQTT")
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return mc.Publish(ctx, mc.EventTopic(event.Type), event)
}

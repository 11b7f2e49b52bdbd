// Package queueboard publishes the front-desk waiting queue to an MQTT
// topic for the lobby display.
package queueboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/format"
	"github.com/no-solace/ev-maintenance-system/internal/models"
	"github.com/no-solace/ev-maintenance-system/internal/reception"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "ev-portal/queue"

const publishTimeout = 5 * time.Second

// ErrPublishTimeout is returned when the broker does not acknowledge in time.
var ErrPublishTimeout = errors.New("queue publish timed out")

// Entry is one line on the lobby display.
type Entry struct {
	Position     int       `json:"position"`
	ReceptionID  int64     `json:"receptionId"`
	Plate        string    `json:"plate"`
	Customer     string    `json:"customer"`
	WalkIn       bool      `json:"walkIn"`
	WaitingSince time.Time `json:"waitingSince"`
}

// Board is the retained message body.
type Board struct {
	CenterID    int64     `json:"centerId,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Entries     []Entry   `json:"entries"`
}

// BuildBoard orders the RECEIVED list the way the front desk serves it.
func BuildBoard(centerID int64, received []models.Reception, now time.Time) Board {
	queue := reception.SortQueue(received, models.ReceptionReceived)
	board := Board{CenterID: centerID, GeneratedAt: now.UTC(), Entries: make([]Entry, 0, len(queue))}
	for _, r := range queue {
		if r.Status != "" && r.Status != models.ReceptionReceived {
			continue
		}
		board.Entries = append(board.Entries, Entry{
			Position:     len(board.Entries) + 1,
			ReceptionID:  r.ID,
			Plate:        format.Plate(r.LicensePlate),
			Customer:     maskName(r.CustomerName),
			WalkIn:       r.IsWalkIn(),
			WaitingSince: r.CreatedAt.UTC(),
		})
	}
	return board
}

// maskName keeps the given name only, e.g. "Nguyễn Văn An" -> "An".
func maskName(full string) string {
	runes := []rune(full)
	last := len(runes)
	for last > 0 && runes[last-1] == ' ' {
		last--
	}
	start := last
	for start > 0 && runes[start-1] != ' ' {
		start--
	}
	return string(runes[start:last])
}

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher sends boards as retained messages.
type Publisher struct {
	client Client
	topic  string
	qos    byte
}

// Connect dials the broker. The client reconnects on its own.
func Connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("Queue board broker connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, err)
	}
	log.WithField("broker", broker).Info("Connected to queue board broker")
	return client, nil
}

// NewPublisher publishes to topic over client.
func NewPublisher(client Client, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{client: client, topic: topic, qos: 1}
}

// Topic returns the topic boards are published to.
func (p *Publisher) Topic() string {
	return p.topic
}

// Publish sends board as the retained message on the topic.
func (p *Publisher) Publish(board Board) error {
	payload, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to encode queue board: %w", err)
	}

	token := p.client.Publish(p.topic, p.qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish queue board: %w", err)
	}

	log.WithFields(log.Fields{"topic": p.topic, "entries": len(board.Entries)}).Debug("Queue board published")
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

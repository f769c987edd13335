// Package mqtt pushes forecast events to an MQTT broker so ops
// dashboards and downstream consumers receive predictions as they are
// made.
package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/cedricly/demandcast/core/metrics"
	"github.com/cedricly/demandcast/infra/logger"
)

// Publisher publishes forecast events.
type Publisher interface {
	PublishForecast(ev coremetrics.ForecastEvent) error
	Close()
}

// ForecastMessage is the wire payload for one prediction.
type ForecastMessage struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Preset   string  `json:"preset,omitempty"`
	Searches float64 `json:"searches"`
	Level    string  `json:"level"`
	Model    string  `json:"model"`
	Time     string  `json:"time"`
}

// PahoPublisher implements Publisher over Eclipse Paho.
type PahoPublisher struct {
	cli    paho.Client
	topic  string
	qos    byte
	retain bool
	log    logger.Logger
}

// NewPahoPublisher connects to the broker described by cfg.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	cli := paho.NewClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %s: timeout", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}
	return &PahoPublisher{
		cli:    cli,
		topic:  cfg.Topic,
		qos:    cfg.QoS,
		retain: cfg.Retain,
		log:    logger.New("mqtt-publisher"),
	}, nil
}

// PublishForecast sends the event as JSON to <topic>/<date>.
func (p *PahoPublisher) PublishForecast(ev coremetrics.ForecastEvent) error {
	msg := ForecastMessage{
		ID:       ev.ID,
		Date:     ev.Date.Format("2006-01-02"),
		Preset:   ev.Preset,
		Searches: ev.Searches,
		Level:    string(ev.Level),
		Model:    ev.Model,
		Time:     ev.Time.UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s", p.topic, msg.Date)
	tok := p.cli.Publish(topic, p.qos, p.retain, payload)
	if !tok.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	return tok.Error()
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() { p.cli.Disconnect(250) }

// MockPublisher records published events for tests.
type MockPublisher struct {
	mu     sync.Mutex
	Events []coremetrics.ForecastEvent
	Fail   bool
}

// NewMockPublisher creates an empty MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishForecast records the event or fails when configured to.
func (m *MockPublisher) PublishForecast(ev coremetrics.ForecastEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Events = append(m.Events, ev)
	return nil
}

// Close implements Publisher.
func (m *MockPublisher) Close() {}

// Published returns a copy of the recorded events.
func (m *MockPublisher) Published() []coremetrics.ForecastEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]coremetrics.ForecastEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

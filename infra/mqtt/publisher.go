// Package mqtt publishes committed trading schedules to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/gridarb/gridarb/core/optimiser"
	"github.com/gridarb/gridarb/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT publisher.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
	Retain   bool   `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "gridarb/schedule"
	}
	if c.ClientID == "" {
		c.ClientID = "gridarb"
	}
}

// Validate checks mandatory fields when publishing is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt: broker is required")
	}
	return nil
}

// Publisher publishes an optimisation result.
type Publisher interface {
	PublishResult(res *optimiser.Result) error
	Close() error
}

// SchedulePayload is the wire format of a published run.
type SchedulePayload struct {
	RunID           string                `json:"run_id"`
	GeneratedAt     time.Time             `json:"generated_at"`
	DayAheadRevenue float64               `json:"day_ahead_revenue"`
	IntraDayRevenue float64               `json:"intra_day_revenue"`
	Ledger          []optimiser.LedgerRow `json:"ledger"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// newMQTTClient points to the paho constructor. It can be overridden in tests.
var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// PahoPublisher implements Publisher using Eclipse Paho.
type PahoPublisher struct {
	cli    pahoClient
	topic  string
	qos    byte
	retain bool
	log    logger.Logger
}

// NewPahoPublisher connects to the MQTT broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	log := logger.New("mqtt-publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoPublisher{
		cli:    c,
		topic:  cfg.Topic,
		qos:    cfg.QoS,
		retain: cfg.Retain,
		log:    log,
	}, nil
}

// PublishResult publishes the run as a JSON schedule payload.
func (p *PahoPublisher) PublishResult(res *optimiser.Result) error {
	payload := SchedulePayload{
		RunID:           res.RunID.String(),
		GeneratedAt:     time.Now().UTC(),
		DayAheadRevenue: res.DayAheadRevenue,
		IntraDayRevenue: res.IntraDayRevenue,
		Ledger:          res.Ledger,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mqtt: encode schedule: %w", err)
	}
	token := p.cli.Publish(p.topic, p.qos, p.retain, data)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt: publish schedule: %w", token.Error())
	}
	p.log.Debugw("schedule published", map[string]any{"topic": p.topic, "run_id": payload.RunID})
	return nil
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() error {
	p.cli.Disconnect(250)
	return nil
}

// MockPublisher records published results for tests.
type MockPublisher struct {
	Published []*optimiser.Result
	Fail      bool
}

func (m *MockPublisher) PublishResult(res *optimiser.Result) error {
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Published = append(m.Published, res)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

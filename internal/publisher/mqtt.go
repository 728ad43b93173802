package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/energyplot/energyplot/internal/config"
	"github.com/energyplot/energyplot/pkg/models"
)

// Publisher sends binned series values to an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
}

// New creates a new publisher connected to the configured broker
func New(cfg config.MQTTConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("MQTT publishing is not enabled in config")
	}
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT broker address is required when enabled")
	}

	// Configure MQTT client options
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", cfg.Broker))
	opts.SetClientID("energyplot")
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	// Create and connect client
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.GetTopicPrefix(),
	}, nil
}

// BinReading is the JSON payload published for one bucket
type BinReading struct {
	Series string  `json:"series"`
	Start  int64   `json:"t_start"`
	End    int64   `json:"t_end"`
	TWh    float64 `json:"twh"`
}

// PublishSeries sends one retained message per bucket to
// <prefix>/<series>/<bucket start unix seconds>
func (p *Publisher) PublishSeries(series string, bins []models.Bin) error {
	for _, b := range bins {
		payload, err := json.Marshal(BinReading{
			Series: series,
			Start:  int64(b.Start),
			End:    int64(b.End),
			TWh:    b.Value,
		})
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}

		topic := fmt.Sprintf("%s/%s/%d", p.topicPrefix, series, int64(b.Start))
		if token := p.client.Publish(topic, 1, true, payload); token.Wait() && token.Error() != nil {
			return fmt.Errorf("publishing to %s: %w", topic, token.Error())
		}
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// Package notify pushes ride list changes to external subscribers.
package notify

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/naikprasad87/transport-facility/internal/config"
	"github.com/naikprasad87/transport-facility/internal/domain/entities"
	"github.com/naikprasad87/transport-facility/internal/repository"
)

const publishTimeout = 5 * time.Second

// Client is the part of the paho client the publisher uses.
type Client interface {
	IsConnected() bool
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher publishes the full ride list as a retained message. A client
// that subscribes later receives the latest list straight from the broker.
//
// Publishing happens on a background goroutine. If changes arrive faster
// than the broker accepts them, only the newest list is sent.
type MQTTPublisher struct {
	client Client
	topic  string
	qos    byte
	log    zerolog.Logger

	pending chan []entities.Ride
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// DialMQTT connects to the broker in cfg and starts a publisher.
func DialMQTT(cfg config.MQTTConfig, log zerolog.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect to %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}
	return NewMQTTPublisher(client, cfg.Topic, cfg.QoS, log), nil
}

// NewMQTTPublisher starts publishing to topic through client.
func NewMQTTPublisher(client Client, topic string, qos byte, log zerolog.Logger) *MQTTPublisher {
	p := &MQTTPublisher{
		client:  client,
		topic:   topic,
		qos:     qos,
		log:     log,
		pending: make(chan []entities.Ride, 1),
		stop:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Listener returns a services.Listener-compatible callback. It never blocks.
func (p *MQTTPublisher) Listener() func([]entities.Ride) {
	return func(rides []entities.Ride) {
		for {
			select {
			case p.pending <- rides:
				return
			default:
			}
			// Drop the older queued list in favour of this one.
			select {
			case <-p.pending:
			default:
			}
		}
	}
}

func (p *MQTTPublisher) run() {
	defer p.wg.Done()
	for {
		select {
		case rides := <-p.pending:
			p.publish(rides)
		case <-p.stop:
			// Flush a queued list so the retained message is current.
			select {
			case rides := <-p.pending:
				p.publish(rides)
			default:
			}
			return
		}
	}
}

func (p *MQTTPublisher) publish(rides []entities.Ride) {
	payload, err := repository.EncodeRides(rides)
	if err != nil {
		p.log.Error().Err(err).Msg("encode rides for mqtt")
		return
	}
	token := p.client.Publish(p.topic, p.qos, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		p.log.Warn().Str("topic", p.topic).Msg("mqtt publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		p.log.Error().Err(err).Str("topic", p.topic).Msg("mqtt publish failed")
		return
	}
	p.log.Debug().Str("topic", p.topic).Int("rides", len(rides)).Msg("ride list published")
}

// Close stops the publisher and disconnects the client.
func (p *MQTTPublisher) Close() {
	p.once.Do(func() {
		close(p.stop)
		p.wg.Wait()
		if p.client.IsConnected() {
			p.client.Disconnect(250)
		}
	})
}

package notify

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naikprasad87/transport-facility/internal/domain/entities"
)

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type mockClient struct {
	mu           sync.Mutex
	messages     []published
	err          error
	disconnected bool
}

func (m *mockClient) IsConnected() bool { return true }

func (m *mockClient) Disconnect(quiesce uint) {
	m.mu.Lock()
	m.disconnected = true
	m.mu.Unlock()
}

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, published{topic, qos, retained, payload.([]byte)})
	return &mockToken{err: m.err}
}

func (m *mockClient) sent() []published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]published(nil), m.messages...)
}

type mockToken struct{ err error }

func (t *mockToken) Wait() bool                       { return true }
func (t *mockToken) WaitTimeout(_ time.Duration) bool { return true }
func (t *mockToken) Error() error                     { return t.err }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func TestMQTTPublisher_PublishesRetainedList(t *testing.T) {
	client := &mockClient{}
	p := NewMQTTPublisher(client, "carpool/rides", 1, zerolog.Nop())

	ride := entities.NewRide("r1", "EMP_A", entities.VehicleTypeCar, "KA01", 2, "09:30", "Gate 1", "Office", "2024-05-01")
	p.Listener()([]entities.Ride{ride})

	require.Eventually(t, func() bool { return len(client.sent()) == 1 }, time.Second, 5*time.Millisecond)
	msg := client.sent()[0]
	assert.Equal(t, "carpool/rides", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var rides []entities.Ride
	require.NoError(t, json.Unmarshal(msg.payload, &rides))
	assert.Equal(t, []entities.Ride{ride}, rides)

	p.Close()
	assert.True(t, client.disconnected)
}

func TestMQTTPublisher_EmptyListIsArray(t *testing.T) {
	client := &mockClient{}
	p := NewMQTTPublisher(client, "t", 0, zerolog.Nop())
	p.Listener()(nil)
	p.Close()

	require.NotEmpty(t, client.sent())
	assert.Equal(t, "[]", string(client.sent()[len(client.sent())-1].payload))
}

func TestMQTTPublisher_ErrorsDoNotStopPublishing(t *testing.T) {
	client := &mockClient{err: errors.New("broker down")}
	p := NewMQTTPublisher(client, "t", 0, zerolog.Nop())
	listener := p.Listener()

	listener(nil)
	require.Eventually(t, func() bool { return len(client.sent()) == 1 }, time.Second, 5*time.Millisecond)
	listener(nil)
	require.Eventually(t, func() bool { return len(client.sent()) == 2 }, time.Second, 5*time.Millisecond)
	p.Close()
	p.Close()
}

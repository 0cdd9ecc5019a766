package mqttclient

import (
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MQTT_HOST", "broker.local")
	t.Setenv("MQTT_PORT", "not-a-port")
	t.Setenv("MQTT_USERNAME", "svc")
	t.Setenv("MQTT_PASSWORD", "pw")
	t.Setenv("MQTT_CLIENT_ID", "")

	cfg := ConfigFromEnv("cam-config")
	if cfg.Host != "broker.local" || cfg.Port != 1883 {
		t.Errorf("broker = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Username != "svc" || cfg.Password != "pw" {
		t.Errorf("credentials = %q/%q", cfg.Username, cfg.Password)
	}
	if cfg.ClientID != "cam-config" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{
		Host:        "10.0.0.2",
		Port:        1884,
		ClientID:    "checker",
		WillTopic:   "cams/status",
		WillPayload: []byte(`{"status":"offline"}`),
	}, nil)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://10.0.0.2:1884" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "checker" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "" {
		t.Errorf("Username = %q, want empty", opts.Username)
	}
	if !opts.WillEnabled || opts.WillTopic != "cams/status" || !opts.WillRetained {
		t.Errorf("will = enabled:%v topic:%q retained:%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}
	if string(opts.WillPayload) != `{"status":"offline"}` {
		t.Errorf("WillPayload = %s", opts.WillPayload)
	}
}

func TestClientOptions_ReplaysSubscriptionsOnConnect(t *testing.T) {
	c := &Client{}
	opts := clientOptions(Config{Host: "localhost", Port: 1883}, c.onConnect)
	if opts.OnConnect == nil {
		t.Fatal("OnConnect handler not set; subscriptions would be lost on reconnect")
	}
}

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t doneToken) Error() error { return t.err }

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

// fakeBroker guarda as assinaturas recebidas; o resto de mqtt.Client não é usado.
type fakeBroker struct {
	mqtt.Client
	mu       sync.Mutex
	handlers map[string]mqtt.MessageHandler
	qos      map[string]byte
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{handlers: map[string]mqtt.MessageHandler{}, qos: map[string]byte{}}
}

func (b *fakeBroker) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = cb
	b.qos[topic] = qos
	return doneToken{}
}

func TestResubscribe(t *testing.T) {
	first := newFakeBroker()
	c := &Client{client: first}

	var got []string
	if err := c.Subscribe("cams/reload", 1, func(topic string, payload []byte) {
		got = append(got, topic+"="+string(payload))
	}); err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}
	if err := c.Subscribe("cams/status", 0, func(string, []byte) {}); err != nil {
		t.Fatalf("Subscribe() error: %v", err)
	}

	// sessão nova depois de reconectar: nada assinado até o replay
	reconnected := newFakeBroker()
	c.resubscribe(reconnected)

	if len(reconnected.handlers) != 2 {
		t.Fatalf("resubscribe() issued %d subscriptions, want 2", len(reconnected.handlers))
	}
	if reconnected.qos["cams/reload"] != 1 || reconnected.qos["cams/status"] != 0 {
		t.Errorf("qos = %v", reconnected.qos)
	}

	reconnected.handlers["cams/reload"](reconnected, fakeMessage{topic: "cams/reload", payload: []byte("now")})
	if len(got) != 1 || got[0] != "cams/reload=now" {
		t.Errorf("handler after replay got %v", got)
	}
}

func TestSubscribe_FailureIsNotRecorded(t *testing.T) {
	c := &Client{client: failingBroker{}}
	if err := c.Subscribe("cams/reload", 1, func(string, []byte) {}); err == nil {
		t.Fatal("Subscribe() should return the broker error")
	}
	if len(c.subs) != 0 {
		t.Errorf("subs = %d, want 0 after failed subscribe", len(c.subs))
	}
}

type failingBroker struct{ mqtt.Client }

func (failingBroker) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token {
	return doneToken{err: errBroker}
}

var errBroker = errors.New("not authorized")

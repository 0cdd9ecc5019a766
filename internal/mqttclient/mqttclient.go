// internal/mqttclient/mqttclient.go
package mqttclient

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Client struct {
	client mqtt.Client

	// assinaturas feitas até agora; refeitas a cada (re)conexão porque a
	// sessão é limpa e o broker esquece tudo
	mu   sync.Mutex
	subs []subscription
}

type subscription struct {
	topic   string
	qos     byte
	handler func(topic string, payload []byte)
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	ClientID string

	// WillTopic recebe WillPayload (retido) se a conexão cair sem Disconnect.
	WillTopic   string
	WillPayload []byte
}

func ConfigFromEnv(defaultClientID string) Config {
	return Config{
		Host:     getenv("MQTT_HOST", "localhost"),
		Port:     getenvInt("MQTT_PORT", 1883),
		Username: os.Getenv("MQTT_USERNAME"),
		Password: os.Getenv("MQTT_PASSWORD"),
		ClientID: getenv("MQTT_CLIENT_ID", defaultClientID),
	}
}

func NewClient(cfg Config) (*Client, error) {
	c := &Client{}
	cli := mqtt.NewClient(clientOptions(cfg, c.onConnect))
	c.client = cli

	token := cli.Connect()
	if ok := token.WaitTimeout(10 * time.Second); !ok {
		return nil, fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}

	return c, nil
}

func clientOptions(cfg Config, onConnect mqtt.OnConnectHandler) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.WillTopic != "" {
		opts.SetBinaryWill(cfg.WillTopic, cfg.WillPayload, 1, true)
	}
	if onConnect != nil {
		opts.SetOnConnectHandler(onConnect)
	}
	return opts
}

func (c *Client) onConnect(cli mqtt.Client) {
	// o handler roda na goroutine do paho e não pode bloquear em Wait
	go c.resubscribe(cli)
}

// resubscribe reemite todas as assinaturas registradas.
func (c *Client) resubscribe(cli mqtt.Client) {
	c.mu.Lock()
	subs := append([]subscription(nil), c.subs...)
	c.mu.Unlock()

	for _, s := range subs {
		token := cli.Subscribe(s.topic, s.qos, messageHandler(s.handler))
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("[mqtt] erro refazendo assinatura de %s: %v", s.topic, err)
			continue
		}
		log.Printf("[mqtt] assinatura refeita: %s", s.topic)
	}
}

func messageHandler(handler func(topic string, payload []byte)) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	}
}

func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()
	return token.Error()
}

func (c *Client) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	token := c.client.Subscribe(topic, qos, messageHandler(handler))
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}

	c.mu.Lock()
	c.subs = append(c.subs, subscription{topic: topic, qos: qos, handler: handler})
	c.mu.Unlock()
	return nil
}

func (c *Client) Close() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			return x
		}
	}
	return def
}

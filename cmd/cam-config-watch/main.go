// cmd/cam-config-watch/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sua-org/cam-config/internal/mqttclient"
)

func main() {
	baseTopic := strings.TrimSuffix(getenv("MQTT_BASE_TOPIC", "security-vision/cam-config"), "/")

	// base/<mqtt_name>/config, base/status e base/reload/result
	subscribeTopic := getenv("MQTT_DEBUG_TOPIC", baseTopic+"/#")

	mqttCli, err := mqttclient.NewClient(mqttclient.ConfigFromEnv("cam-config-watch"))
	if err != nil {
		log.Fatalf("erro ao conectar no MQTT: %v", err)
	}
	defer mqttCli.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	if err := mqttCli.Subscribe(subscribeTopic, 1, func(topic string, payload []byte) {
		log.Printf("[watch] %s", summarize(baseTopic, topic, payload))
	}); err != nil {
		log.Fatalf("erro ao assinar tópico %s: %v", subscribeTopic, err)
	}
	log.Printf("[watch] subscribed to topic: %s", subscribeTopic)

	// CAMCFG_WATCH_RELOAD=true pede um reload ao daemon logo na entrada
	if getenv("CAMCFG_WATCH_RELOAD", "false") == "true" {
		if err := mqttCli.Publish(baseTopic+"/reload", 1, false, []byte("{}")); err != nil {
			log.Printf("[watch] erro pedindo reload: %v", err)
		}
	}

	go func() {
		<-sig
		log.Println("[watch] sinal recebido, encerrando...")
		cancel()
	}()

	<-ctx.Done()
	time.Sleep(500 * time.Millisecond)
}

// summarize resume uma mensagem do cam-config numa linha.
func summarize(baseTopic, topic string, payload []byte) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(topic, baseTopic), "/")

	if strings.HasSuffix(rest, "/config") {
		cam := strings.TrimSuffix(rest, "/config")
		if len(payload) == 0 {
			return fmt.Sprintf("camera %s removida", cam)
		}
		var view struct {
			Name      string            `json:"name"`
			StreamURL string            `json:"stream_url"`
			CodecArgs []string          `json:"codec_args"`
			Zones     []json.RawMessage `json:"zones"`
		}
		if err := json.Unmarshal(payload, &view); err != nil {
			return fmt.Sprintf("camera %s: payload inválido: %v", cam, err)
		}
		return fmt.Sprintf("camera %s (%s) url=%s codec=%q zonas=%d",
			cam, view.Name, view.StreamURL, strings.Join(view.CodecArgs, " "), len(view.Zones))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Sprintf("%s: %s", rest, string(payload))
	}
	pretty, _ := json.Marshal(raw)
	return fmt.Sprintf("%s: %s", rest, pretty)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// cmd/cam-config/main.go
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sua-org/cam-config/internal/capability"
	"github.com/sua-org/cam-config/internal/loader"
	"github.com/sua-org/cam-config/internal/mediamtx"
	"github.com/sua-org/cam-config/internal/mqttclient"
	"github.com/sua-org/cam-config/internal/source"
	"github.com/sua-org/cam-config/internal/supervisor"
)

func main() {
	// Carrega .env na raiz (se não existir, só loga aviso)
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] aviso: não foi possível carregar .env: %v", err)
	} else {
		log.Printf("[main] .env carregado com sucesso")
	}

	baseTopic := getenv("MQTT_BASE_TOPIC", "security-vision/cam-config")

	src, err := configSource()
	if err != nil {
		log.Fatalf("erro configurando fonte das câmeras: %v", err)
	}

	caps := capability.Env{}
	ld := loader.New(caps, loader.Options{
		SkipInvalid: getenv("CAMCFG_SKIP_INVALID", "false") == "true",
	})

	mqttCfg := mqttclient.ConfigFromEnv("cam-config")
	mqttCfg.WillTopic = supervisor.StatusTopic(baseTopic)
	mqttCfg.WillPayload, _ = json.Marshal(map[string]string{"service": "cam-config", "status": "offline"})

	mqttCli, err := mqttclient.NewClient(mqttCfg)
	if err != nil {
		log.Fatalf("erro ao conectar no MQTT: %v", err)
	}
	defer mqttCli.Close()

	sup := supervisor.New(mqttCli, src, ld, supervisor.Options{
		BaseTopic: baseTopic,
		MediaMTX:  mediamtx.NewGeneratorFromEnv(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sem snapshot anterior não há o que manter: falha no primeiro load é fatal.
	if err := sup.Reload(ctx); err != nil {
		log.Fatalf("erro no carregamento inicial (%s): %v", src, err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		if err := sup.Run(ctx); err != nil {
			log.Printf("[main] supervisor terminou com erro: %v", err)
		}
	}()

	for s := range sig {
		if s == syscall.SIGHUP {
			log.Println("[main] SIGHUP recebido, recarregando câmeras")
			if err := sup.Reload(ctx); err != nil {
				log.Printf("[main] reload falhou: %v", err)
			}
			continue
		}
		break
	}

	log.Println("[main] sinal recebido, encerrando...")
	cancel()
	time.Sleep(1 * time.Second)
}

// configSource usa o objeto no MinIO quando CAMCFG_MINIO_OBJECT existe,
// senão o arquivo CAMCFG_FILE.
func configSource() (source.Source, error) {
	if object := os.Getenv("CAMCFG_MINIO_OBJECT"); object != "" {
		return source.NewMinioSourceFromEnv(object)
	}
	return source.FileSource{Path: getenv("CAMCFG_FILE", "cameras.yaml")}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

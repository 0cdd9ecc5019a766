// internal/supervisor/supervisor.go
package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/sua-org/cam-config/internal/descriptor"
	"github.com/sua-org/cam-config/internal/loader"
	"github.com/sua-org/cam-config/internal/mediamtx"
	"github.com/sua-org/cam-config/internal/source"
)

// Bus é o subconjunto do cliente MQTT usado pelo supervisor.
type Bus interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error
}

type Options struct {
	BaseTopic string
	// 0 = CAMCFG_STATUS_INTERVAL_SECONDS (default 30s); negativo desliga.
	StatusInterval time.Duration
	MediaMTX       *mediamtx.Generator
}

// Supervisor mantém o conjunto atual de descriptors. Um reload monta o
// conjunto novo inteiro antes de trocar; se falhar, o anterior continua.
type Supervisor struct {
	bus       Bus
	baseTopic string
	source    source.Source
	loader    *loader.Loader
	mtxGen    *mediamtx.Generator

	statusInterval time.Duration
	proc           *process.Process

	reloadMu sync.Mutex
	mu       sync.RWMutex
	current  Snapshot
}

// Snapshot é um conjunto de descriptors carregado de uma vez.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Cameras  []*descriptor.Camera
}

func New(bus Bus, src source.Source, ld *loader.Loader, opts Options) *Supervisor {
	interval := opts.StatusInterval
	if interval == 0 {
		interval = envDurationSeconds("CAMCFG_STATUS_INTERVAL_SECONDS", 30*time.Second)
	}

	var procHandle *process.Process
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		procHandle = p
	}

	return &Supervisor{
		bus:            bus,
		baseTopic:      strings.TrimSuffix(opts.BaseTopic, "/"),
		source:         src,
		loader:         ld,
		mtxGen:         opts.MediaMTX,
		statusInterval: interval,
		proc:           procHandle,
	}
}

func envDurationSeconds(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	sec, err := strconv.Atoi(v)
	if err != nil || sec <= 0 {
		log.Printf("[supervisor] valor inválido em %s=%q, usando default %s", key, v, def)
		return def
	}
	return time.Duration(sec) * time.Second
}

// Current devolve o snapshot atual. O slice é uma cópia; os descriptors são
// imutáveis e podem ser compartilhados.
func (s *Supervisor) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.current
	snap.Cameras = append([]*descriptor.Camera(nil), s.current.Cameras...)
	return snap
}

// Camera procura uma câmera do snapshot atual pelo mqtt_name.
func (s *Supervisor) Camera(mqttName string) (*descriptor.Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.current.Cameras {
		if c.MQTTName() == mqttName {
			return c, true
		}
	}
	return nil, false
}

// Reload lê a fonte, valida tudo e troca o conjunto atual. Reloads
// concorrentes são serializados.
func (s *Supervisor) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cams, err := s.build(ctx)
	if err != nil {
		log.Printf("[supervisor] reload falhou, mantendo snapshot %s: %v", s.Current().ID, err)
		s.publishReloadResult(Snapshot{}, err)
		return err
	}

	next := Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
		Cameras:  cams,
	}

	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	log.Printf("[supervisor] snapshot %s ativo com %d câmeras (fonte %s)", next.ID, len(cams), s.source)

	s.publishCameras(prev, next)
	s.refreshMediaMTXConfig(next)
	s.publishReloadResult(next, nil)
	return nil
}

func (s *Supervisor) build(ctx context.Context) ([]*descriptor.Camera, error) {
	raws, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.source, err)
	}
	cams, err := s.loader.Load(raws)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", s.source, err)
	}
	return cams, nil
}

// Run assina o tópico de reload e roda o loop de status até o ctx acabar.
// O primeiro carregamento é feito pelo chamador (Reload).
func (s *Supervisor) Run(ctx context.Context) error {
	reloadTopic := s.reloadTopic()
	log.Printf("[supervisor] subscribing to reload topic: %s", reloadTopic)

	err := s.bus.Subscribe(reloadTopic, 1, func(topic string, _ []byte) {
		log.Printf("[supervisor] reload solicitado via %s", topic)
		// fora do callback do paho, que não pode bloquear publicando
		go func() {
			if err := s.Reload(ctx); err != nil {
				log.Printf("[supervisor] reload via MQTT falhou: %v", err)
			}
		}()
	})
	if err != nil {
		return fmt.Errorf("subscribe error: %w", err)
	}

	if s.statusInterval > 0 {
		go s.runStatusLoop(ctx)
	}

	<-ctx.Done()
	log.Printf("[supervisor] context canceled, encerrando")
	return nil
}

func (s *Supervisor) publishCameras(prev, next Snapshot) {
	active := make(map[string]bool, len(next.Cameras))
	for _, cam := range next.Cameras {
		// mqtt_name repetido: vale a primeira câmera, como no MediaMTX e em Camera()
		if active[cam.MQTTName()] {
			log.Printf("[supervisor] mqtt_name %q duplicado, ignorando câmera %q", cam.MQTTName(), cam.Name())
			continue
		}
		active[cam.MQTTName()] = true

		payload, err := json.Marshal(cam)
		if err != nil {
			log.Printf("[supervisor] erro serializando câmera %s: %v", cam.Name(), err)
			continue
		}
		topic := s.cameraConfigTopic(cam.MQTTName())
		if err := s.bus.Publish(topic, 1, true, payload); err != nil {
			log.Printf("[supervisor] erro publicando %s: %v", topic, err)
		}
	}

	// limpa o retain das câmeras que saíram
	for _, cam := range prev.Cameras {
		if active[cam.MQTTName()] {
			continue
		}
		topic := s.cameraConfigTopic(cam.MQTTName())
		if err := s.bus.Publish(topic, 1, true, []byte{}); err != nil {
			log.Printf("[supervisor] erro limpando %s: %v", topic, err)
		}
	}
}

func (s *Supervisor) publishReloadResult(snap Snapshot, reloadErr error) {
	payload := map[string]interface{}{
		"ok":        reloadErr == nil,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if reloadErr != nil {
		payload["error"] = reloadErr.Error()
	} else {
		payload["snapshot_id"] = snap.ID
		payload["cameras"] = len(snap.Cameras)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[supervisor] erro serializando resultado do reload: %v", err)
		return
	}
	topic := s.reloadTopic() + "/result"
	if err := s.bus.Publish(topic, 1, false, b); err != nil {
		log.Printf("[supervisor] erro publicando %s: %v", topic, err)
	}
}

func (s *Supervisor) refreshMediaMTXConfig(snap Snapshot) {
	if s.mtxGen == nil {
		return
	}
	if err := s.mtxGen.Sync(snap.Cameras); err != nil {
		log.Printf("[supervisor] erro ao atualizar config do MediaMTX: %v", err)
	}
}

func (s *Supervisor) runStatusLoop(ctx context.Context) {
	hostname, _ := os.Hostname()
	ticker := time.NewTicker(s.statusInterval)
	defer ticker.Stop()

	log.Printf("[supervisor] status loop iniciado (intervalo=%s)", s.statusInterval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[supervisor] status loop encerrado (context canceled)")
			return
		case t := <-ticker.C:
			if err := s.publishStatus(hostname, t); err != nil {
				log.Printf("[status] %v", err)
			}
		}
	}
}

func (s *Supervisor) publishStatus(hostname string, now time.Time) error {
	var (
		cpuPercent  float64
		memPercent  float64
		memRSSBytes uint64
	)
	if s.proc != nil {
		if cpu, err := s.proc.CPUPercent(); err == nil {
			cpuPercent = cpu
		}
		if memInfo, err := s.proc.MemoryInfo(); err == nil {
			memRSSBytes = memInfo.RSS
		}
		if memP, err := s.proc.MemoryPercent(); err == nil {
			memPercent = float64(memP)
		}
	}

	snap := s.Current()
	payload := map[string]interface{}{
		"service":          "cam-config",
		"status":           "online",
		"timestamp":        now.UTC().Format(time.RFC3339),
		"hostname":         hostname,
		"source":           s.source.String(),
		"cameras":          len(snap.Cameras),
		"cpu_percent":      cpuPercent,
		"memory_percent":   memPercent,
		"memory_rss_bytes": memRSSBytes,
	}
	if snap.ID != "" {
		payload["snapshot_id"] = snap.ID
		payload["loaded_at"] = snap.LoadedAt.Format(time.RFC3339)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	topic := StatusTopic(s.baseTopic)
	if err := s.bus.Publish(topic, 1, true, b); err != nil {
		return fmt.Errorf("publish status to %s: %w", topic, err)
	}
	return nil
}

func (s *Supervisor) cameraConfigTopic(mqttName string) string {
	return fmt.Sprintf("%s/%s/config", s.baseTopic, mqttName)
}

func (s *Supervisor) reloadTopic() string {
	return s.baseTopic + "/reload"
}

// StatusTopic é onde o status (retido) é publicado; o main usa o mesmo
// tópico no last will.
func StatusTopic(baseTopic string) string {
	return strings.TrimSuffix(baseTopic, "/") + "/status"
}

// internal/mediamtx/config.go
package mediamtx

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sua-org/cam-config/internal/core"
	"github.com/sua-org/cam-config/internal/descriptor"
)

// Config é o pedaço do YAML do MediaMTX que o gerador controla.
type Config struct {
	RTSPAddress       string                `yaml:"rtspAddress,omitempty"`
	HLS               bool                  `yaml:"hls"`
	WebRTC            bool                  `yaml:"webrtc"`
	API               bool                  `yaml:"api"`
	APIAddress        string                `yaml:"apiAddress,omitempty"`
	AuthInternalUsers []AuthInternalUser    `yaml:"authInternalUsers,omitempty"`
	PathDefaults      *PathDefaults         `yaml:"pathDefaults,omitempty"`
	Paths             map[string]PathConfig `yaml:"paths"`
}

// PathDefaults só é emitido quando a gravação foi ligada (MTX_PROXY_RECORD).
type PathDefaults struct {
	Record                bool   `yaml:"record"`
	RecordPath            string `yaml:"recordPath"`
	RecordFormat          string `yaml:"recordFormat"`
	RecordPartDuration    string `yaml:"recordPartDuration"`
	RecordSegmentDuration string `yaml:"recordSegmentDuration"`
	RecordDeleteAfter     string `yaml:"recordDeleteAfter"`
}

type PathConfig struct {
	Source         string `yaml:"source,omitempty"`
	SourceOnDemand bool   `yaml:"sourceOnDemand"`
	RTSPTransport  string `yaml:"rtspTransport,omitempty"`
}

type AuthInternalUser struct {
	User        string           `yaml:"user"`
	Pass        string           `yaml:"pass,omitempty"`
	IPs         []string         `yaml:"ips"`
	Permissions []AuthPermission `yaml:"permissions,omitempty"`
}

type AuthPermission struct {
	Action string `yaml:"action"`
	Path   string `yaml:"path,omitempty"`
}

// Options controla o que o gerador escreve além dos paths das câmeras.
type Options struct {
	SourceOnDemand bool

	// Record liga a gravação em todos os paths; RecordPath e
	// RecordDeleteAfter só valem com ela ligada.
	Record            bool
	RecordPath        string
	RecordDeleteAfter time.Duration

	APIUser string
	APIPass string
}

// Generator gera e aplica configs do MediaMTX a partir do conjunto atual de
// descriptors. Cada câmera rtsp vira um path com o nome do mqtt_name.
type Generator struct {
	path     string
	opts     Options
	reloader Reloader
	mu       sync.Mutex
}

func NewGenerator(path string, opts Options, r Reloader) *Generator {
	return &Generator{path: path, opts: opts, reloader: r}
}

// NewGeneratorFromEnv devolve nil quando MTX_PROXY_CONFIG_PATH não existe.
//
//	MTX_PROXY_SOURCE_ON_DEMAND=true   só puxa o stream quando alguém lê o path
//	MTX_PROXY_RECORD=true             liga a gravação (desligada por padrão)
//	MTX_PROXY_RECORD_PATH             destino das gravações
//	MTX_PROXY_RECORD_DELETE_AFTER     retenção das gravações (default 24h)
//	MTX_PROXY_API_USER/PASS           authInternalUsers no YAML gerado
//
// O reload é configurado por newReloaderFromEnv (reload.go).
func NewGeneratorFromEnv() *Generator {
	path := strings.TrimSpace(os.Getenv("MTX_PROXY_CONFIG_PATH"))
	if path == "" {
		return nil
	}

	opts := Options{
		SourceOnDemand:    envBool("MTX_PROXY_SOURCE_ON_DEMAND"),
		Record:            envBool("MTX_PROXY_RECORD"),
		RecordPath:        envString("MTX_PROXY_RECORD_PATH", defaultRecordPath),
		RecordDeleteAfter: envDuration("MTX_PROXY_RECORD_DELETE_AFTER", defaultRecordDeleteAfter),
		APIUser:           strings.TrimSpace(os.Getenv("MTX_PROXY_API_USER")),
		APIPass:           strings.TrimSpace(os.Getenv("MTX_PROXY_API_PASS")),
	}
	if opts.Record {
		log.Printf("[mediamtx] gravação ligada: %s (retenção %s)", opts.RecordPath, opts.RecordDeleteAfter)
	}

	return NewGenerator(path, opts, newReloaderFromEnv())
}

const (
	defaultRecordPath        = "/recordings/%path/%Y-%m-%d_%H-%M-%S-%f"
	defaultRecordDeleteAfter = 24 * time.Hour
)

// Sync escreve a config e pede reload, só quando algo mudou.
func (g *Generator) Sync(cameras []*descriptor.Camera) error {
	if g == nil || g.path == "" {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	existing, exists, err := readConfig(g.path)
	if err != nil {
		return err
	}
	cfg := buildConfig(cameras, g.opts)
	if g.opts.APIUser == "" && g.opts.APIPass == "" {
		// usuários mantidos à mão no arquivo continuam lá
		cfg.AuthInternalUsers = existing.AuthInternalUsers
	}
	if exists && reflect.DeepEqual(existing, cfg) {
		return nil
	}

	data, err := marshalConfig(cfg)
	if err != nil {
		return fmt.Errorf("marshal mediamtx config: %w", err)
	}
	if err := writeFile(g.path, data); err != nil {
		return err
	}
	if g.reloader == nil {
		return errors.New("mediamtx reload not configured")
	}
	if err := g.reloader.Reload(); err != nil {
		return err
	}

	log.Printf("[mediamtx] config atualizada com %d paths -> %s", len(cfg.Paths), g.path)
	return nil
}

func buildConfig(cameras []*descriptor.Camera, opts Options) Config {
	cfg := Config{
		RTSPAddress:       ":8554",
		API:               true,
		APIAddress:        ":9997",
		AuthInternalUsers: authUsersForAPI(opts.APIUser, opts.APIPass),
		Paths:             make(map[string]PathConfig, len(cameras)),
	}
	if opts.Record {
		cfg.PathDefaults = &PathDefaults{
			Record:                true,
			RecordPath:            opts.RecordPath,
			RecordFormat:          "fmp4",
			RecordPartDuration:    "1s",
			RecordSegmentDuration: "1m",
			RecordDeleteAfter:     formatDuration(opts.RecordDeleteAfter),
		}
	}

	for _, cam := range cameras {
		// MediaMTX não puxa MJPEG por HTTP
		if cam.StreamFormat() != core.StreamFormatRTSP {
			continue
		}
		name := cam.MQTTName()
		if _, dup := cfg.Paths[name]; dup {
			log.Printf("[mediamtx] path %q duplicado, ignorando câmera %q", name, cam.Name())
			continue
		}
		cfg.Paths[name] = PathConfig{
			Source:         cam.StreamURL(),
			SourceOnDemand: opts.SourceOnDemand,
			RTSPTransport:  rtspTransport(cam.RTSPTransport()),
		}
	}

	return cfg
}

// rtspTransport traduz o transporte da câmera para o valor do MediaMTX.
// Túnel HTTP fica a cargo da negociação automática.
func rtspTransport(t core.RTSPTransport) string {
	switch t {
	case core.RTSPTransportTCP:
		return "tcp"
	case core.RTSPTransportUDP:
		return "udp"
	case core.RTSPTransportUDPMulticast:
		return "multicast"
	default:
		return "automatic"
	}
}

// authUsersForAPI libera leitura/publicação para todos e a API só para o
// usuário informado.
func authUsersForAPI(apiUser, apiPass string) []AuthInternalUser {
	if apiUser == "" && apiPass == "" {
		return nil
	}
	return []AuthInternalUser{
		{
			User:        "any",
			IPs:         []string{},
			Permissions: []AuthPermission{{Action: "publish"}, {Action: "read"}, {Action: "playback"}},
		},
		{
			User:        apiUser,
			Pass:        apiPass,
			IPs:         []string{},
			Permissions: []AuthPermission{{Action: "api"}},
		},
	}
}

// readConfig devolve exists=false para arquivo ausente ou ilegível, o que
// força a reescrita.
func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, false, nil
	}
	if err != nil {
		return Config{}, false, fmt.Errorf("read mediamtx config: %w", err)
	}

	var existing Config
	if err := yaml.Unmarshal(data, &existing); err != nil {
		log.Printf("[mediamtx] config atual ilegível em %s, reescrevendo: %v", path, err)
		return Config{}, false, nil
	}
	return existing, true, nil
}

func marshalConfig(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mediamtx config: %w", err)
	}
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return d.String()
}

func envBool(key string) bool {
	return strings.TrimSpace(os.Getenv(key)) == "true"
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[mediamtx] duração inválida em %s=%q, usando default %s", key, value, def)
		return def
	}
	return d
}

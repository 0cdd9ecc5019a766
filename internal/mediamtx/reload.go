// internal/mediamtx/reload.go
package mediamtx

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Reloader faz o MediaMTX reler o arquivo gerado.
type Reloader interface {
	Reload() error
}

// HTTPReloader chama o endpoint de reload da API do MediaMTX.
type HTTPReloader struct {
	URL    string
	Token  string
	User   string
	Pass   string
	Client *http.Client
}

func (h HTTPReloader) Reload() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, nil)
	if err != nil {
		return fmt.Errorf("create reload request: %w", err)
	}
	switch {
	case h.Token != "":
		req.Header.Set("Authorization", "Bearer "+h.Token)
	case h.User != "" || h.Pass != "":
		req.SetBasicAuth(h.User, h.Pass)
	}

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("reload mediamtx via HTTP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("reload mediamtx via HTTP: status %s", resp.Status)
	}
	return nil
}

// SignalReloader manda SIGHUP para o processo do MediaMTX.
type SignalReloader struct {
	PID int
}

func (s SignalReloader) Reload() error {
	proc, err := os.FindProcess(s.PID)
	if err != nil {
		return fmt.Errorf("find mediamtx process: %w", err)
	}
	if err := proc.Signal(syscall.SIGHUP); err != nil {
		return fmt.Errorf("signal mediamtx reload: %w", err)
	}
	return nil
}

// newReloaderFromEnv: MTX_PROXY_RELOAD_URL tem prioridade sobre
// MTX_PROXY_RELOAD_PID/MTX_PROXY_PID. Credenciais do reload vêm de
// MTX_PROXY_RELOAD_TOKEN ou MTX_PROXY_RELOAD_USER/PASS, com fallback para as
// da API (authInternalUsers habilitado devolve 401 sem elas).
func newReloaderFromEnv() Reloader {
	if url := strings.TrimSpace(os.Getenv("MTX_PROXY_RELOAD_URL")); url != "" {
		h := HTTPReloader{
			URL:   url,
			Token: strings.TrimSpace(os.Getenv("MTX_PROXY_RELOAD_TOKEN")),
			User:  strings.TrimSpace(os.Getenv("MTX_PROXY_RELOAD_USER")),
			Pass:  strings.TrimSpace(os.Getenv("MTX_PROXY_RELOAD_PASS")),
		}
		if h.Token == "" && h.User == "" && h.Pass == "" {
			h.Token = strings.TrimSpace(os.Getenv("MTX_PROXY_API_TOKEN"))
			h.User = strings.TrimSpace(os.Getenv("MTX_PROXY_API_USER"))
			h.Pass = strings.TrimSpace(os.Getenv("MTX_PROXY_API_PASS"))
		}
		return h
	}

	pid := envPID("MTX_PROXY_RELOAD_PID")
	if pid == 0 {
		pid = envPID("MTX_PROXY_PID")
	}
	if pid > 0 {
		return SignalReloader{PID: pid}
	}
	return nil
}

func envPID(key string) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0
	}
	pid, err := strconv.Atoi(value)
	if err != nil || pid <= 0 {
		log.Printf("[mediamtx] PID inválido em %s=%q", key, value)
		return 0
	}
	return pid
}

// internal/source/source.go
package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoCameras indica um documento sem a chave "cameras".
var ErrNoCameras = errors.New("config sem lista de câmeras")

// Source entrega a lista bruta de câmeras (um mapping por entry), pronta
// pra ir pro loader.
type Source interface {
	Load(ctx context.Context) ([]any, error)
	String() string
}

// Decode lê um documento YAML (ou JSON, que é YAML válido) e devolve a lista
// "cameras". Um documento que já é uma lista também é aceito.
func Decode(data []byte) ([]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		raw, ok := v["cameras"]
		if !ok || raw == nil {
			return nil, ErrNoCameras
		}
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("cameras: esperado lista, recebido %T", raw)
		}
		return list, nil
	case nil:
		return nil, ErrNoCameras
	default:
		return nil, fmt.Errorf("documento de config inválido: %T", doc)
	}
}

// FileSource lê a config de um arquivo local.
type FileSource struct {
	Path string
}

func (f FileSource) Load(_ context.Context) ([]any, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", f.Path, err)
	}
	cams, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return cams, nil
}

func (f FileSource) String() string {
	return "file://" + f.Path
}

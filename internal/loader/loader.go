// internal/loader/loader.go
package loader

import (
	"errors"
	"fmt"
	"log"

	"github.com/sua-org/cam-config/internal/capability"
	"github.com/sua-org/cam-config/internal/core"
	"github.com/sua-org/cam-config/internal/descriptor"
	"github.com/sua-org/cam-config/internal/normalize"
	"github.com/sua-org/cam-config/internal/resolver"
	"github.com/sua-org/cam-config/internal/schema"
)

type Options struct {
	// SkipInvalid troca o comportamento padrão (tudo ou nada): entries
	// inválidos são descartados e Load devolve os válidos junto com todos
	// os erros (errors.Join). Use só quando o chamador aceita um conjunto
	// de câmeras diferente do que o operador escreveu.
	SkipInvalid bool

	// OutputArgs é o vetor de saída repassado a todo descriptor
	// (nil = core.CameraOutputArgs()).
	OutputArgs []string

	// Codecs substitui os codecs padrão do resolver (nil = padrão).
	Codecs *resolver.Codecs
}

// Loader transforma a lista bruta de câmeras em descriptors:
// schema -> resolver -> normalizer -> descriptor.
type Loader struct {
	caps       capability.Provider
	resolver   *resolver.Resolver
	normalizer *normalize.Normalizer
	opts       Options
}

func New(caps capability.Provider, opts Options) *Loader {
	res := resolver.New(caps)
	if opts.Codecs != nil {
		res = res.WithCodecs(*opts.Codecs)
	}
	if opts.OutputArgs == nil {
		opts.OutputArgs = core.CameraOutputArgs()
	}
	return &Loader{
		caps:       caps,
		resolver:   res,
		normalizer: normalize.New(res),
		opts:       opts,
	}
}

// Entry valida e normaliza um único entry bruto. idx é a posição na lista.
func (l *Loader) Entry(idx int, raw any) (core.CameraEntry, error) {
	e, err := schema.Camera(idx, raw)
	if err != nil {
		return core.CameraEntry{}, err
	}
	l.resolver.Apply(&e)
	if err := l.normalizer.Normalize(&e); err != nil {
		return core.CameraEntry{}, err
	}
	return e, nil
}

// Load processa a lista inteira. Por padrão qualquer entry inválido aborta
// tudo e nenhum descriptor é devolvido; veja Options.SkipInvalid.
func (l *Loader) Load(raws []any) ([]*descriptor.Camera, error) {
	out := make([]*descriptor.Camera, 0, len(raws))
	var errs []error

	for i, raw := range raws {
		e, err := l.Entry(i, raw)
		if err != nil {
			err = fmt.Errorf("camera entry %d: %w", i, err)
			if !l.opts.SkipInvalid {
				return nil, err
			}
			log.Printf("[loader] ignorando entry inválido: %v", err)
			errs = append(errs, err)
			continue
		}
		out = append(out, descriptor.New(e, l.opts.OutputArgs))
	}

	log.Printf("[loader] %d/%d câmeras carregadas (%s)", len(out), len(raws), capability.Describe(l.caps))
	return out, errors.Join(errs...)
}

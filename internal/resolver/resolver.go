// internal/resolver/resolver.go
package resolver

import (
	"github.com/sua-org/cam-config/internal/capability"
	"github.com/sua-org/cam-config/internal/core"
)

// Codecs agrupa os codecs de decodificação escolhidos pelo resolver.
type Codecs struct {
	Software string
	CUDA     string
	RPi3     string
}

func DefaultCodecs() Codecs {
	return Codecs{
		Software: core.DecoderCodec,
		CUDA:     core.HWAccelCUDADecoderCodec,
		RPi3:     core.HWAccelRPi3DecoderCodec,
	}
}

// Resolver aplica os defaults que dependem do hardware do host.
type Resolver struct {
	caps   capability.Provider
	codecs Codecs
	vaapi  func() []string
}

func New(caps capability.Provider) *Resolver {
	return &Resolver{
		caps:   caps,
		codecs: DefaultCodecs(),
		vaapi:  core.HWAccelVAAPIArgs,
	}
}

// WithCodecs troca os codecs padrão (ex.: builds com decoders diferentes).
func (r *Resolver) WithCodecs(c Codecs) *Resolver {
	out := *r
	out.codecs = c
	return &out
}

// HWAccelArgs mantém um vetor já preenchido; vazio recebe os args VAAPI
// quando o host suporta, senão continua vazio.
func (r *Resolver) HWAccelArgs(current []string) []string {
	if len(current) > 0 {
		return current
	}
	if r.caps.Enabled(capability.VAAPISupported) {
		return r.vaapi()
	}
	if current == nil {
		return []string{}
	}
	return current
}

// Codec resolve o decoder de uma câmera. Um codec já definido nunca é
// trocado; mjpeg fica sem codec.
// Ordem para rtsp: CUDA, Raspberry Pi 3, software. O primeiro que casar vence.
func (r *Resolver) Codec(format core.StreamFormat, current string) string {
	if current != "" {
		return current
	}
	if format != core.StreamFormatRTSP {
		return ""
	}
	switch {
	case r.caps.Enabled(capability.CUDASupported):
		return r.codecs.CUDA
	case r.caps.Enabled(capability.RaspberryPi3):
		return r.codecs.RPi3
	default:
		return r.codecs.Software
	}
}

// Apply roda a etapa de defaults do resolver num entry (hwaccel_args).
// O codec é resolvido pelo normalizer, que chama Codec.
func (r *Resolver) Apply(e *core.CameraEntry) {
	e.HWAccelArgs = r.HWAccelArgs(e.HWAccelArgs)
}

// internal/descriptor/descriptor.go
package descriptor

import (
	"encoding/json"
	"fmt"

	"github.com/sua-org/cam-config/internal/core"
	"github.com/sua-org/cam-config/internal/normalize"
	"github.com/sua-org/cam-config/internal/zones"
)

// Camera é a visão final, somente leitura, de uma câmera validada e
// normalizada. Nada muda depois do New; os acessores devolvem cópias.
type Camera struct {
	entry      core.CameraEntry
	nameSlug   string
	zones      []core.Zone
	outputArgs []string
}

// New copia o entry (o chamador pode continuar mexendo no dele) e monta as
// zonas. outputArgs é o vetor fixo de saída do pipeline.
func New(e core.CameraEntry, outputArgs []string) *Camera {
	entry := e.Clone()
	return &Camera{
		entry:      entry,
		nameSlug:   normalize.Slugify(entry.Name),
		zones:      zones.Build(entry.Zones, entry.ObjectDetection),
		outputArgs: core.CloneStrings(outputArgs),
	}
}

func (c *Camera) Name() string { return c.entry.Name }
func (c *Camera) NameSlug() string { return c.nameSlug }
func (c *Camera) MQTTName() string { return c.entry.MQTTName }
func (c *Camera) StreamFormat() core.StreamFormat { return c.entry.StreamFormat }
func (c *Camera) Host() string { return c.entry.Host }
func (c *Camera) Port() int { return c.entry.Port }
func (c *Camera) Username() string { return c.entry.Username }
func (c *Camera) Password() string { return c.entry.Password }
func (c *Camera) Path() string { return c.entry.Path }
func (c *Camera) RTSPTransport() core.RTSPTransport { return c.entry.RTSPTransport }
func (c *Camera) PublishImage() bool { return c.entry.PublishImage }
func (c *Camera) Logging() core.LoggingOptions { return c.entry.Logging }

func (c *Camera) Width() (int, bool) { return optional(c.entry.Width) }
func (c *Camera) Height() (int, bool) { return optional(c.entry.Height) }
func (c *Camera) FPS() (int, bool) { return optional(c.entry.FPS) }

// Protocol é "rtsp" para streams rtsp e "http" para o resto.
func (c *Camera) Protocol() string {
	if c.entry.StreamFormat == core.StreamFormatRTSP {
		return "rtsp"
	}
	return "http"
}

// StreamURL só inclui credenciais quando username e password existem.
func (c *Camera) StreamURL() string {
	return c.streamURL(c.entry.Password)
}

// RedactedStreamURL é a StreamURL com a senha mascarada, para logs e
// payloads publicados.
func (c *Camera) RedactedStreamURL() string {
	if c.entry.Password == "" {
		return c.StreamURL()
	}
	return c.streamURL("***")
}

func (c *Camera) streamURL(password string) string {
	if c.entry.Username != "" && c.entry.Password != "" {
		return fmt.Sprintf("%s://%s:%s@%s:%d%s",
			c.Protocol(), c.entry.Username, password, c.entry.Host, c.entry.Port, c.entry.Path)
	}
	return fmt.Sprintf("%s://%s:%d%s", c.Protocol(), c.entry.Host, c.entry.Port, c.entry.Path)
}

// CodecArgs devolve ["-c:v", codec], ou vazio quando não há codec.
func (c *Camera) CodecArgs() []string {
	if c.entry.Codec == "" {
		return []string{}
	}
	return []string{"-c:v", c.entry.Codec}
}

func (c *Camera) GlobalArgs() []string { return core.CloneStrings(c.entry.GlobalArgs) }
func (c *Camera) InputArgs() []string { return core.CloneStrings(c.entry.InputArgs) }
func (c *Camera) HWAccelArgs() []string { return core.CloneStrings(c.entry.HWAccelArgs) }
func (c *Camera) FilterArgs() []string { return core.CloneStrings(c.entry.FilterArgs) }
func (c *Camera) OutputArgs() []string { return core.CloneStrings(c.outputArgs) }

func (c *Camera) MotionDetection() (core.MotionDetection, bool) {
	if c.entry.MotionDetection == nil {
		return core.MotionDetection{}, false
	}
	return c.entry.MotionDetection.Clone(), true
}

func (c *Camera) ObjectDetection() (core.ObjectDetection, bool) {
	if c.entry.ObjectDetection == nil {
		return core.ObjectDetection{}, false
	}
	return c.entry.ObjectDetection.Clone(), true
}

func (c *Camera) Zones() []core.Zone {
	out := make([]core.Zone, len(c.zones))
	for i, z := range c.zones {
		out[i] = z.Clone()
	}
	return out
}

// Entry devolve uma cópia do entry normalizado que originou o descriptor.
func (c *Camera) Entry() core.CameraEntry {
	return c.entry.Clone()
}

type view struct {
	Name            string                `json:"name"`
	NameSlug        string                `json:"name_slug"`
	MQTTName        string                `json:"mqtt_name"`
	StreamFormat    core.StreamFormat     `json:"stream_format"`
	Protocol        string                `json:"protocol"`
	StreamURL       string                `json:"stream_url"`
	Width           *int                  `json:"width,omitempty"`
	Height          *int                  `json:"height,omitempty"`
	FPS             *int                  `json:"fps,omitempty"`
	GlobalArgs      []string              `json:"global_args"`
	InputArgs       []string              `json:"input_args"`
	HWAccelArgs     []string              `json:"hwaccel_args"`
	CodecArgs       []string              `json:"codec_args"`
	FilterArgs      []string              `json:"filter_args"`
	OutputArgs      []string              `json:"output_args"`
	RTSPTransport   core.RTSPTransport    `json:"rtsp_transport"`
	MotionDetection *core.MotionDetection `json:"motion_detection,omitempty"`
	ObjectDetection *core.ObjectDetection `json:"object_detection,omitempty"`
	Zones           []core.Zone           `json:"zones"`
	PublishImage    bool                  `json:"publish_image"`
	Logging         core.LoggingOptions   `json:"logging"`
}

// MarshalJSON publica as propriedades calculadas; a senha sai mascarada.
func (c *Camera) MarshalJSON() ([]byte, error) {
	e := c.Entry()
	return json.Marshal(view{
		Name:            e.Name,
		NameSlug:        c.nameSlug,
		MQTTName:        e.MQTTName,
		StreamFormat:    e.StreamFormat,
		Protocol:        c.Protocol(),
		StreamURL:       c.RedactedStreamURL(),
		Width:           e.Width,
		Height:          e.Height,
		FPS:             e.FPS,
		GlobalArgs:      e.GlobalArgs,
		InputArgs:       e.InputArgs,
		HWAccelArgs:     e.HWAccelArgs,
		CodecArgs:       c.CodecArgs(),
		FilterArgs:      e.FilterArgs,
		OutputArgs:      c.OutputArgs(),
		RTSPTransport:   e.RTSPTransport,
		MotionDetection: e.MotionDetection,
		ObjectDetection: e.ObjectDetection,
		Zones:           c.Zones(),
		PublishImage:    e.PublishImage,
		Logging:         e.Logging,
	})
}

func optional(v *int) (int, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// internal/core/types.go
package core

type StreamFormat string

const (
	StreamFormatRTSP  StreamFormat = "rtsp"
	StreamFormatMJPEG StreamFormat = "mjpeg"
)

type RTSPTransport string

const (
	RTSPTransportTCP          RTSPTransport = "tcp"
	RTSPTransportUDP          RTSPTransport = "udp"
	RTSPTransportUDPMulticast RTSPTransport = "udp_multicast"
	RTSPTransportHTTP         RTSPTransport = "http"
)

// CameraEntry é uma câmera já validada pelo schema, antes de virar descriptor.
// As tags JSON seguem as chaves do mapa bruto, então um entry serializado
// volta a passar pelo schema sem mudanças.
type CameraEntry struct {
	Name         string       `json:"name"`
	MQTTName     string       `json:"mqtt_name,omitempty"`
	StreamFormat StreamFormat `json:"stream_format"`
	Host         string       `json:"host"`
	Port         int          `json:"port"`
	Username     string       `json:"username,omitempty"`
	Password     string       `json:"password,omitempty"`
	Path         string       `json:"path"`
	Width        *int         `json:"width"`
	Height       *int         `json:"height"`
	FPS          *int         `json:"fps"`

	GlobalArgs  []string `json:"global_args"`
	InputArgs   []string `json:"input_args"`
	HWAccelArgs []string `json:"hwaccel_args"`
	FilterArgs  []string `json:"filter_args"`

	// "" = ainda não resolvido
	Codec         string        `json:"codec"`
	RTSPTransport RTSPTransport `json:"rtsp_transport"`

	MotionDetection *MotionDetection `json:"motion_detection"`
	ObjectDetection *ObjectDetection `json:"object_detection"`
	Zones           []ZoneSpec       `json:"zones"`
	PublishImage    bool             `json:"publish_image"`
	Logging         LoggingOptions   `json:"logging"`
}

type MotionDetection struct {
	Interval        *float64       `json:"interval,omitempty"`
	TriggerDetector *bool          `json:"trigger_detector,omitempty"`
	Timeout         *bool          `json:"timeout,omitempty"`
	MaxTimeout      *int           `json:"max_timeout,omitempty"`
	Width           *int           `json:"width,omitempty"`
	Height          *int           `json:"height,omitempty"`
	Area            *float64       `json:"area,omitempty"`
	Frames          *int           `json:"frames,omitempty"`
	Mask            []Polygon      `json:"mask"`
	Logging         LoggingOptions `json:"logging"`
}

type ObjectDetection struct {
	Interval *float64      `json:"interval,omitempty"`
	Labels   []LabelFilter `json:"labels,omitempty"`
}

// LabelFilter restringe quais objetos detectados interessam (label + limites
// relativos ao frame).
type LabelFilter struct {
	Label           string  `json:"label"`
	Confidence      float64 `json:"confidence"`
	WidthMin        float64 `json:"width_min"`
	WidthMax        float64 `json:"width_max"`
	HeightMin       float64 `json:"height_min"`
	HeightMax       float64 `json:"height_max"`
	TriggerRecorder bool    `json:"trigger_recorder"`
	RequireMotion   bool    `json:"require_motion"`
	Store           bool    `json:"store"`
	StoreInterval   int     `json:"store_interval"`
}

// LoggingOptions sobrescreve o nível de log por câmera; Level vazio herda o global.
type LoggingOptions struct {
	Level string `json:"level,omitempty"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Polygon struct {
	Points []Point `json:"points"`
}

// ZoneSpec é a zona como veio da config; Zone é a versão montada.
type ZoneSpec struct {
	Name   string        `json:"name"`
	Points []Point       `json:"points"`
	Labels []LabelFilter `json:"labels,omitempty"`
}

type Zone struct {
	Name        string        `json:"name"`
	Labels      []LabelFilter `json:"labels"`
	Coordinates [][2]int      `json:"coordinates"`
}

// internal/schema/camera.go
package schema

import (
	"github.com/sua-org/cam-config/internal/core"
)

var (
	streamFormats  = []string{string(core.StreamFormatRTSP), string(core.StreamFormatMJPEG)}
	rtspTransports = []string{
		string(core.RTSPTransportTCP),
		string(core.RTSPTransportUDP),
		string(core.RTSPTransportUDPMulticast),
		string(core.RTSPTransportHTTP),
	}
	logLevels = []string{"debug", "info", "warning", "error", "critical"}
)

// Camera valida um entry bruto da lista de câmeras e aplica os defaults
// estáticos. Defaults dependentes de hardware (hwaccel, codec) e o mqtt_name
// ficam para o resolver/normalizer.
//
// idx é a posição do entry na lista, usada para identificar a câmera nos
// erros quando o nome não pôde ser lido.
func Camera(idx int, raw any) (core.CameraEntry, error) {
	var e core.CameraEntry
	if err := decodeObject("", raw, cameraFields, &e); err != nil {
		return core.CameraEntry{}, Identify(err, CameraID(idx, raw))
	}
	return e, nil
}

var cameraFields = []field[core.CameraEntry]{
	{key: "name", required: true, decode: str(1, func(e *core.CameraEntry, s string) { e.Name = s })},
	{key: "mqtt_name", nullable: true, decode: str(1, func(e *core.CameraEntry, s string) { e.MQTTName = s })},
	{
		key:    "stream_format",
		decode: enum(streamFormats, func(e *core.CameraEntry, s string) { e.StreamFormat = core.StreamFormat(s) }),
		def:    func(e *core.CameraEntry) { e.StreamFormat = core.StreamFormatRTSP },
	},
	{key: "host", required: true, decode: str(1, func(e *core.CameraEntry, s string) { e.Host = s })},
	{key: "port", required: true, decode: integerMin(1, func(e *core.CameraEntry, n int) { e.Port = n })},
	{key: "username", nullable: true, decode: str(1, func(e *core.CameraEntry, s string) { e.Username = s })},
	{key: "password", nullable: true, decode: str(1, func(e *core.CameraEntry, s string) { e.Password = s })},
	{key: "path", required: true, decode: str(1, func(e *core.CameraEntry, s string) { e.Path = s })},
	{key: "width", nullable: true, decode: integer(func(e *core.CameraEntry, n int) { e.Width = &n })},
	{key: "height", nullable: true, decode: integer(func(e *core.CameraEntry, n int) { e.Height = &n })},
	{key: "fps", nullable: true, decode: integerMin(1, func(e *core.CameraEntry, n int) { e.FPS = &n })},
	{
		key:    "global_args",
		decode: args(func(e *core.CameraEntry, a []string) { e.GlobalArgs = a }),
		def:    func(e *core.CameraEntry) { e.GlobalArgs = core.CameraGlobalArgs() },
	},
	{
		key:    "input_args",
		decode: args(func(e *core.CameraEntry, a []string) { e.InputArgs = a }),
		def:    func(e *core.CameraEntry) { e.InputArgs = core.CameraInputArgs() },
	},
	{
		key:    "hwaccel_args",
		decode: args(func(e *core.CameraEntry, a []string) { e.HWAccelArgs = a }),
		def:    func(e *core.CameraEntry) { e.HWAccelArgs = core.CameraHWAccelArgs() },
	},
	{key: "codec", decode: str(0, func(e *core.CameraEntry, s string) { e.Codec = s })},
	{
		key:    "rtsp_transport",
		decode: enum(rtspTransports, func(e *core.CameraEntry, s string) { e.RTSPTransport = core.RTSPTransport(s) }),
		def:    func(e *core.CameraEntry) { e.RTSPTransport = core.RTSPTransportTCP },
	},
	{
		key:    "filter_args",
		decode: args(func(e *core.CameraEntry, a []string) { e.FilterArgs = a }),
		def:    func(e *core.CameraEntry) { e.FilterArgs = []string{} },
	},
	{
		key:      "motion_detection",
		nullable: true,
		decode: func(p string, v any, e *core.CameraEntry) error {
			md, err := motionDetection(p, v)
			if err != nil {
				return err
			}
			e.MotionDetection = &md
			return nil
		},
	},
	{
		key:      "object_detection",
		nullable: true,
		decode: func(p string, v any, e *core.CameraEntry) error {
			od, err := objectDetection(p, v)
			if err != nil {
				return err
			}
			e.ObjectDetection = &od
			return nil
		},
	},
	{
		key:    "zones",
		decode: list(zoneSpec, func(e *core.CameraEntry, z []core.ZoneSpec) { e.Zones = z }),
		def:    func(e *core.CameraEntry) { e.Zones = []core.ZoneSpec{} },
	},
	{key: "publish_image", decode: boolean(func(e *core.CameraEntry, b bool) { e.PublishImage = b })},
	{
		key: "logging",
		decode: func(p string, v any, e *core.CameraEntry) error {
			return decodeObject(p, v, loggingFields, &e.Logging)
		},
	},
}

var motionDetectionFields = []field[core.MotionDetection]{
	{key: "interval", decode: number(func(m *core.MotionDetection, f float64) { m.Interval = &f })},
	{key: "trigger_detector", decode: boolean(func(m *core.MotionDetection, b bool) { m.TriggerDetector = &b })},
	{key: "timeout", decode: boolean(func(m *core.MotionDetection, b bool) { m.Timeout = &b })},
	{key: "max_timeout", decode: integer(func(m *core.MotionDetection, n int) { m.MaxTimeout = &n })},
	{key: "width", decode: integer(func(m *core.MotionDetection, n int) { m.Width = &n })},
	{key: "height", decode: integer(func(m *core.MotionDetection, n int) { m.Height = &n })},
	{key: "area", decode: number(func(m *core.MotionDetection, f float64) { m.Area = &f })},
	{key: "frames", decode: integer(func(m *core.MotionDetection, n int) { m.Frames = &n })},
	{
		key:    "mask",
		decode: list(polygon, func(m *core.MotionDetection, p []core.Polygon) { m.Mask = p }),
		def:    func(m *core.MotionDetection) { m.Mask = []core.Polygon{} },
	},
	{
		key: "logging",
		decode: func(p string, v any, m *core.MotionDetection) error {
			return decodeObject(p, v, loggingFields, &m.Logging)
		},
	},
}

var objectDetectionFields = []field[core.ObjectDetection]{
	{key: "interval", decode: number(func(o *core.ObjectDetection, f float64) { o.Interval = &f })},
	{key: "labels", decode: list(labelFilter, func(o *core.ObjectDetection, l []core.LabelFilter) { o.Labels = l })},
}

var zoneFields = []field[core.ZoneSpec]{
	{key: "name", required: true, decode: str(0, func(z *core.ZoneSpec, s string) { z.Name = s })},
	{key: "points", structural: true, decode: list(point, func(z *core.ZoneSpec, p []core.Point) { z.Points = p })},
	{key: "labels", decode: list(labelFilter, func(z *core.ZoneSpec, l []core.LabelFilter) { z.Labels = l })},
}

var polygonFields = []field[core.Polygon]{
	{key: "points", structural: true, decode: list(point, func(pg *core.Polygon, p []core.Point) { pg.Points = p })},
}

var pointFields = []field[core.Point]{
	{key: "x", structural: true, decode: integer(func(pt *core.Point, n int) { pt.X = n })},
	{key: "y", structural: true, decode: integer(func(pt *core.Point, n int) { pt.Y = n })},
}

// labelFields e loggingFields cobrem só o formato dos schemas de label e de
// logging, que pertencem aos módulos de detecção e de log.
var labelFields = []field[core.LabelFilter]{
	{key: "label", required: true, decode: str(1, func(l *core.LabelFilter, s string) { l.Label = s })},
	{
		key:    "confidence",
		decode: fraction(func(l *core.LabelFilter, f float64) { l.Confidence = f }),
		def:    func(l *core.LabelFilter) { l.Confidence = 0.8 },
	},
	{key: "width_min", decode: fraction(func(l *core.LabelFilter, f float64) { l.WidthMin = f })},
	{
		key:    "width_max",
		decode: fraction(func(l *core.LabelFilter, f float64) { l.WidthMax = f }),
		def:    func(l *core.LabelFilter) { l.WidthMax = 1 },
	},
	{key: "height_min", decode: fraction(func(l *core.LabelFilter, f float64) { l.HeightMin = f })},
	{
		key:    "height_max",
		decode: fraction(func(l *core.LabelFilter, f float64) { l.HeightMax = f }),
		def:    func(l *core.LabelFilter) { l.HeightMax = 1 },
	},
	{
		key:    "trigger_recorder",
		decode: boolean(func(l *core.LabelFilter, b bool) { l.TriggerRecorder = b }),
		def:    func(l *core.LabelFilter) { l.TriggerRecorder = true },
	},
	{key: "require_motion", decode: boolean(func(l *core.LabelFilter, b bool) { l.RequireMotion = b })},
	{
		key:    "store",
		decode: boolean(func(l *core.LabelFilter, b bool) { l.Store = b }),
		def:    func(l *core.LabelFilter) { l.Store = true },
	},
	{
		key:    "store_interval",
		decode: integerMin(0, func(l *core.LabelFilter, n int) { l.StoreInterval = n }),
		def:    func(l *core.LabelFilter) { l.StoreInterval = 60 },
	},
}

var loggingFields = []field[core.LoggingOptions]{
	{key: "level", decode: enum(logLevels, func(o *core.LoggingOptions, s string) { o.Level = s })},
}

var (
	zoneSpec    = objectDecoder(zoneFields)
	polygon     = objectDecoder(polygonFields)
	point       = objectDecoder(pointFields)
	labelFilter = objectDecoder(labelFields)
)

func motionDetection(p string, v any) (core.MotionDetection, error) {
	var md core.MotionDetection
	err := decodeObject(p, v, motionDetectionFields, &md)
	return md, err
}

func objectDetection(p string, v any) (core.ObjectDetection, error) {
	var od core.ObjectDetection
	err := decodeObject(p, v, objectDetectionFields, &od)
	return od, err
}

package schema

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/sua-org/cam-config/internal/core"
)

func minimalRaw() map[string]any {
	return map[string]any{
		"name": "Front Door",
		"host": "10.0.0.10",
		"port": 554,
		"path": "/stream",
	}
}

func TestCamera_Defaults(t *testing.T) {
	e, err := Camera(0, minimalRaw())
	if err != nil {
		t.Fatalf("Camera() error: %v", err)
	}

	if e.StreamFormat != core.StreamFormatRTSP {
		t.Errorf("StreamFormat = %q, want rtsp", e.StreamFormat)
	}
	if e.RTSPTransport != core.RTSPTransportTCP {
		t.Errorf("RTSPTransport = %q, want tcp", e.RTSPTransport)
	}
	if e.MQTTName != "" {
		t.Errorf("MQTTName = %q, want empty before normalization", e.MQTTName)
	}
	if e.Codec != "" {
		t.Errorf("Codec = %q, want empty", e.Codec)
	}
	if !reflect.DeepEqual(e.GlobalArgs, core.CameraGlobalArgs()) {
		t.Errorf("GlobalArgs = %v, want %v", e.GlobalArgs, core.CameraGlobalArgs())
	}
	if !reflect.DeepEqual(e.InputArgs, core.CameraInputArgs()) {
		t.Errorf("InputArgs = %v, want %v", e.InputArgs, core.CameraInputArgs())
	}
	if e.HWAccelArgs == nil || len(e.HWAccelArgs) != 0 {
		t.Errorf("HWAccelArgs = %#v, want empty non-nil", e.HWAccelArgs)
	}
	if e.FilterArgs == nil || len(e.FilterArgs) != 0 {
		t.Errorf("FilterArgs = %#v, want empty non-nil", e.FilterArgs)
	}
	if e.Zones == nil || len(e.Zones) != 0 {
		t.Errorf("Zones = %#v, want empty non-nil", e.Zones)
	}
	if e.MotionDetection != nil || e.ObjectDetection != nil {
		t.Error("motion/object detection should be nil when absent")
	}
	if e.Width != nil || e.Height != nil || e.FPS != nil {
		t.Error("width/height/fps should be nil when absent")
	}
	if e.PublishImage {
		t.Error("PublishImage should default to false")
	}
}

func TestCamera_DefaultArgsAreNotShared(t *testing.T) {
	a, err := Camera(0, minimalRaw())
	if err != nil {
		t.Fatalf("Camera() error: %v", err)
	}
	b, err := Camera(1, minimalRaw())
	if err != nil {
		t.Fatalf("Camera() error: %v", err)
	}

	a.InputArgs[0] = "mutated"
	a.GlobalArgs = append(a.GlobalArgs[:0], "x")

	if b.InputArgs[0] != core.CameraInputArgs()[0] {
		t.Errorf("second entry InputArgs[0] = %q, changed through first entry", b.InputArgs[0])
	}
	if b.GlobalArgs[0] != core.CameraGlobalArgs()[0] {
		t.Errorf("second entry GlobalArgs[0] = %q, changed through first entry", b.GlobalArgs[0])
	}
	if core.CameraInputArgs()[0] == "mutated" {
		t.Error("package default was mutated")
	}
}

func TestCamera_SchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(m map[string]any)
		path     string
		expected string
	}{
		{"missing name", func(m map[string]any) { delete(m, "name") }, "name", "required field"},
		{"empty host", func(m map[string]any) { m["host"] = "" }, "host", "string of length >= 1"},
		{"missing path", func(m map[string]any) { delete(m, "path") }, "path", "required field"},
		{"port zero", func(m map[string]any) { m["port"] = 0 }, "port", "integer >= 1"},
		{"port as string", func(m map[string]any) { m["port"] = "554" }, "port", "integer"},
		{"fractional port", func(m map[string]any) { m["port"] = 554.5 }, "port", "integer"},
		{"fps zero", func(m map[string]any) { m["fps"] = 0 }, "fps", "integer >= 1"},
		{"empty mqtt_name", func(m map[string]any) { m["mqtt_name"] = "" }, "mqtt_name", "string of length >= 1"},
		{"bad stream format", func(m map[string]any) { m["stream_format"] = "hls" }, "stream_format", "one of [rtsp, mjpeg]"},
		{"bad transport", func(m map[string]any) { m["rtsp_transport"] = "quic" }, "rtsp_transport", "one of [tcp, udp, udp_multicast, http]"},
		{"args not a list", func(m map[string]any) { m["input_args"] = "-re" }, "input_args", "list"},
		{"args with map", func(m map[string]any) { m["filter_args"] = []any{"-vf", map[string]any{}} }, "filter_args[1]", "string argument"},
		{"publish_image string", func(m map[string]any) { m["publish_image"] = "yes" }, "publish_image", "boolean"},
		{"extra key", func(m map[string]any) { m["rtsp_url"] = "rtsp://x" }, "rtsp_url", "no extra keys"},
		{"bad log level", func(m map[string]any) { m["logging"] = map[string]any{"level": "verbose"} }, "logging.level", "one of [debug, info, warning, error, critical]"},
		{"label confidence range", func(m map[string]any) {
			m["object_detection"] = map[string]any{"labels": []any{map[string]any{"label": "person", "confidence": 1.5}}}
		}, "object_detection.labels[0].confidence", "number in [0, 1]"},
		{"label missing name", func(m map[string]any) {
			m["object_detection"] = map[string]any{"labels": []any{map[string]any{"confidence": 0.5}}}
		}, "object_detection.labels[0].label", "required field"},
		{"width beyond int range", func(m map[string]any) { m["width"] = uint64(math.MaxUint64) }, "width", "integer"},
		{"height float beyond int range", func(m map[string]any) { m["height"] = 1e20 }, "height", "integer"},
		{"negative float beyond int range", func(m map[string]any) { m["width"] = -1e20 }, "width", "integer"},
		{"infinite frames", func(m map[string]any) {
			m["motion_detection"] = map[string]any{"frames": math.Inf(1)}
		}, "motion_detection.frames", "integer"},
		{"NaN interval", func(m map[string]any) {
			m["motion_detection"] = map[string]any{"interval": math.NaN()}
		}, "motion_detection.interval", "number"},
		{"float32 NaN confidence", func(m map[string]any) {
			m["object_detection"] = map[string]any{"labels": []any{map[string]any{"label": "person", "confidence": float32(math.NaN())}}}
		}, "object_detection.labels[0].confidence", "number"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := minimalRaw()
			tc.mutate(raw)

			_, err := Camera(3, raw)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("Camera() error = %v, want *SchemaError", err)
			}
			if se.Path != tc.path {
				t.Errorf("Path = %q, want %q", se.Path, tc.path)
			}
			if se.Expected != tc.expected {
				t.Errorf("Expected = %q, want %q", se.Expected, tc.expected)
			}
		})
	}
}

func TestCamera_ErrorIdentifiesCamera(t *testing.T) {
	raw := minimalRaw()
	raw["port"] = -1
	_, err := Camera(0, raw)
	if err == nil || !strings.Contains(err.Error(), "camera Front Door") {
		t.Fatalf("error = %v, want it to name the camera", err)
	}

	raw = minimalRaw()
	raw["name"] = ""
	_, err = Camera(4, raw)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if se.Camera != "entry[4]" {
		t.Errorf("Camera = %q, want entry[4] when the name is invalid", se.Camera)
	}
}

func TestCamera_StructuralErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
		path   string
	}{
		{"point without y", func(m map[string]any) {
			m["zones"] = []any{map[string]any{"name": "porch", "points": []any{map[string]any{"x": 1}}}}
		}, "zones[0].points[0].y"},
		{"zone without points", func(m map[string]any) {
			m["zones"] = []any{map[string]any{"name": "porch"}}
		}, "zones[0].points"},
		{"zone not a mapping", func(m map[string]any) {
			m["zones"] = []any{"porch"}
		}, "zones[0]"},
		{"mask point without x", func(m map[string]any) {
			m["motion_detection"] = map[string]any{"mask": []any{map[string]any{"points": []any{map[string]any{"y": 2}}}}}
		}, "motion_detection.mask[0].points[0].x"},
		{"motion detection scalar", func(m map[string]any) { m["motion_detection"] = true }, "motion_detection"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := minimalRaw()
			tc.mutate(raw)

			_, err := Camera(0, raw)
			var st *StructuralError
			if !errors.As(err, &st) {
				t.Fatalf("Camera() error = %v, want *StructuralError", err)
			}
			if st.Path != tc.path {
				t.Errorf("Path = %q, want %q", st.Path, tc.path)
			}
			if st.Camera != "Front Door" {
				t.Errorf("Camera = %q, want %q", st.Camera, "Front Door")
			}
		})
	}

	_, err := Camera(2, []any{"not", "a", "mapping"})
	var st *StructuralError
	if !errors.As(err, &st) || st.Camera != "entry[2]" {
		t.Errorf("non-mapping entry error = %v, want StructuralError for entry[2]", err)
	}
}

func TestCamera_NestedObjects(t *testing.T) {
	raw := minimalRaw()
	raw["stream_format"] = "mjpeg"
	raw["username"] = "admin"
	raw["password"] = nil
	raw["width"] = 1920
	raw["height"] = int64(1080)
	raw["fps"] = 10.0
	raw["input_args"] = []any{"-threads", 1, 0.5, true}
	raw["motion_detection"] = map[string]any{
		"interval":         1,
		"trigger_detector": true,
		"area":             0.08,
		"mask": []any{
			map[string]any{"points": []any{map[string]any{"x": 0, "y": 0}, map[string]any{"x": 10, "y": 0}}},
		},
		"logging": map[string]any{"level": "debug"},
	}
	raw["object_detection"] = map[string]any{
		"interval": 0.5,
		"labels":   []any{map[string]any{"label": "person"}},
	}
	raw["zones"] = []any{
		map[any]any{"name": "drive", "points": []any{map[string]any{"x": 1, "y": 2}}},
	}

	e, err := Camera(0, raw)
	if err != nil {
		t.Fatalf("Camera() error: %v", err)
	}

	if e.Username != "admin" || e.Password != "" {
		t.Errorf("credentials = %q/%q, want admin/empty", e.Username, e.Password)
	}
	if *e.Width != 1920 || *e.Height != 1080 || *e.FPS != 10 {
		t.Errorf("geometry = %d x %d @ %d", *e.Width, *e.Height, *e.FPS)
	}
	wantArgs := []string{"-threads", "1", "0.5", "true"}
	if !reflect.DeepEqual(e.InputArgs, wantArgs) {
		t.Errorf("InputArgs = %v, want %v", e.InputArgs, wantArgs)
	}

	md := e.MotionDetection
	if md == nil || *md.Interval != 1 || !*md.TriggerDetector || md.Timeout != nil {
		t.Fatalf("MotionDetection = %+v", md)
	}
	if len(md.Mask) != 1 || len(md.Mask[0].Points) != 2 || md.Mask[0].Points[1] != (core.Point{X: 10, Y: 0}) {
		t.Errorf("Mask = %+v", md.Mask)
	}
	if md.Logging.Level != "debug" {
		t.Errorf("motion logging level = %q, want debug", md.Logging.Level)
	}

	wantLabel := core.LabelFilter{
		Label: "person", Confidence: 0.8, WidthMax: 1, HeightMax: 1,
		TriggerRecorder: true, Store: true, StoreInterval: 60,
	}
	if e.ObjectDetection == nil || len(e.ObjectDetection.Labels) != 1 || e.ObjectDetection.Labels[0] != wantLabel {
		t.Errorf("ObjectDetection = %+v, want label %+v", e.ObjectDetection, wantLabel)
	}

	if len(e.Zones) != 1 || e.Zones[0].Name != "drive" || e.Zones[0].Points[0] != (core.Point{X: 1, Y: 2}) {
		t.Errorf("Zones = %+v", e.Zones)
	}
	if e.Zones[0].Labels != nil {
		t.Errorf("zone labels = %v, want nil when not given", e.Zones[0].Labels)
	}
}

func TestCamera_AcceptsOwnJSONEncoding(t *testing.T) {
	raw := minimalRaw()
	raw["object_detection"] = map[string]any{"labels": []any{map[string]any{"label": "car"}}}
	raw["zones"] = []any{map[string]any{"name": "z", "points": []any{map[string]any{"x": 1, "y": 1}}}}

	first, err := Camera(0, raw)
	if err != nil {
		t.Fatalf("Camera() error: %v", err)
	}

	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	var again map[string]any
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	second, err := Camera(0, again)
	if err != nil {
		t.Fatalf("Camera() on encoded entry error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("entry drifted after encoding:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestAsInt_Bounds(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"max int64", int64(math.MaxInt64), math.MaxInt64, true},
		{"min int64", int64(math.MinInt64), math.MinInt64, true},
		{"max int as uint64", uint64(math.MaxInt64), math.MaxInt64, true},
		{"uint64 overflow", uint64(math.MaxInt64) + 1, 0, false},
		{"uint overflow", uint(math.MaxUint), 0, false},
		{"integral float", 1920.0, 1920, true},
		{"float 2^63", math.Pow(2, 63), 0, false},
		{"float -2^63", -math.Pow(2, 63), math.MinInt64, true},
		{"float32 NaN", float32(math.NaN()), 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := asInt("width", tc.in)
			if (err == nil) != tc.ok {
				t.Fatalf("asInt(%v) error = %v, want ok=%v", tc.in, err, tc.ok)
			}
			if tc.ok && got != tc.want {
				t.Errorf("asInt(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

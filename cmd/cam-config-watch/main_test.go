package main

import "testing"

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		want    string
	}{
		{
			name:    "camera config",
			topic:   "cams/front/config",
			payload: `{"name":"Front","stream_url":"rtsp://10.0.0.1:554/live","codec_args":["-c:v","h264"],"zones":[{},{}]}`,
			want:    `camera front (Front) url=rtsp://10.0.0.1:554/live codec="-c:v h264" zonas=2`,
		},
		{
			name:  "camera removed",
			topic: "cams/back/config",
			want:  "camera back removida",
		},
		{
			name:    "status",
			topic:   "cams/status",
			payload: `{"status":"online","cameras":3}`,
			want:    `status: {"cameras":3,"status":"online"}`,
		},
		{
			name:    "plain text",
			topic:   "cams/reload",
			payload: "now",
			want:    "reload: now",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summarize("cams", tt.topic, []byte(tt.payload)); got != tt.want {
				t.Errorf("summarize() = %q, want %q", got, tt.want)
			}
		})
	}
}

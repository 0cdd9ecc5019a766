// internal/core/ffmpeg.go
package core

// Os valores abaixo são repassados ao ffmpeg pelos pipelines de captura.
// Cada função devolve um slice novo: quem recebe pode alterar sem afetar
// outras câmeras.

const (
	DecoderCodec            = "h264"
	HWAccelCUDADecoderCodec = "h264_cuvid"
	HWAccelRPi3DecoderCodec = "h264_mmal"
)

func CameraGlobalArgs() []string {
	return []string{"-hide_banner", "-loglevel", "error"}
}

func CameraInputArgs() []string {
	return []string{
		"-avoid_negative_ts", "make_zero",
		"-fflags", "nobuffer",
		"-flags", "low_delay",
		"-strict", "experimental",
		"-fflags", "+genpts",
		"-stimeout", "5000000",
		"-use_wallclock_as_timestamps", "1",
		"-vsync", "0",
	}
}

func CameraHWAccelArgs() []string {
	return []string{}
}

func CameraOutputArgs() []string {
	return []string{"-f", "rawvideo", "-pix_fmt", "nv12", "pipe:1"}
}

func HWAccelVAAPIArgs() []string {
	return []string{"-hwaccel", "vaapi", "-vaapi_device", "/dev/dri/renderD128"}
}

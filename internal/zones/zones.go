// internal/zones/zones.go
package zones

import "github.com/sua-org/cam-config/internal/core"

// Build monta as zonas de uma câmera na ordem da config.
// Labels: os da própria zona; se vazios, os de object_detection; senão vazio.
// Os pontos viram pares [x, y] na ordem dada, sem fechar o polígono.
func Build(specs []core.ZoneSpec, od *core.ObjectDetection) []core.Zone {
	out := make([]core.Zone, 0, len(specs))
	for _, spec := range specs {
		out = append(out, core.Zone{
			Name:        spec.Name,
			Labels:      labelsFor(spec, od),
			Coordinates: coordinates(spec.Points),
		})
	}
	return out
}

func labelsFor(spec core.ZoneSpec, od *core.ObjectDetection) []core.LabelFilter {
	if len(spec.Labels) > 0 {
		return core.CloneLabels(spec.Labels)
	}
	if od != nil && len(od.Labels) > 0 {
		return core.CloneLabels(od.Labels)
	}
	return []core.LabelFilter{}
}

func coordinates(points []core.Point) [][2]int {
	out := make([][2]int, 0, len(points))
	for _, p := range points {
		out = append(out, [2]int{p.X, p.Y})
	}
	return out
}

// internal/core/clone.go
package core

// Clone devolve uma cópia profunda do entry (slices, ponteiros e objetos
// aninhados), sem nada compartilhado com o original.
func (e CameraEntry) Clone() CameraEntry {
	out := e
	out.Width = cloneInt(e.Width)
	out.Height = cloneInt(e.Height)
	out.FPS = cloneInt(e.FPS)
	out.GlobalArgs = CloneStrings(e.GlobalArgs)
	out.InputArgs = CloneStrings(e.InputArgs)
	out.HWAccelArgs = CloneStrings(e.HWAccelArgs)
	out.FilterArgs = CloneStrings(e.FilterArgs)

	if e.MotionDetection != nil {
		md := e.MotionDetection.Clone()
		out.MotionDetection = &md
	}
	if e.ObjectDetection != nil {
		od := e.ObjectDetection.Clone()
		out.ObjectDetection = &od
	}
	if e.Zones != nil {
		out.Zones = make([]ZoneSpec, len(e.Zones))
		for i, z := range e.Zones {
			out.Zones[i] = ZoneSpec{
				Name:   z.Name,
				Points: clonePoints(z.Points),
				Labels: CloneLabels(z.Labels),
			}
		}
	}
	return out
}

func (m MotionDetection) Clone() MotionDetection {
	out := m
	out.Interval = cloneFloat(m.Interval)
	out.TriggerDetector = cloneBool(m.TriggerDetector)
	out.Timeout = cloneBool(m.Timeout)
	out.MaxTimeout = cloneInt(m.MaxTimeout)
	out.Width = cloneInt(m.Width)
	out.Height = cloneInt(m.Height)
	out.Area = cloneFloat(m.Area)
	out.Frames = cloneInt(m.Frames)
	if m.Mask != nil {
		out.Mask = make([]Polygon, len(m.Mask))
		for i, p := range m.Mask {
			out.Mask[i] = Polygon{Points: clonePoints(p.Points)}
		}
	}
	return out
}

func (o ObjectDetection) Clone() ObjectDetection {
	return ObjectDetection{
		Interval: cloneFloat(o.Interval),
		Labels:   CloneLabels(o.Labels),
	}
}

func (z Zone) Clone() Zone {
	out := Zone{Name: z.Name, Labels: CloneLabels(z.Labels)}
	if z.Coordinates != nil {
		out.Coordinates = make([][2]int, len(z.Coordinates))
		copy(out.Coordinates, z.Coordinates)
	}
	return out
}

func CloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func CloneLabels(l []LabelFilter) []LabelFilter {
	if l == nil {
		return nil
	}
	out := make([]LabelFilter, len(l))
	copy(out, l)
	return out
}

func clonePoints(p []Point) []Point {
	if p == nil {
		return nil
	}
	out := make([]Point, len(p))
	copy(out, p)
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}

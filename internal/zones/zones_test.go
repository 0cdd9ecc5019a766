package zones

import (
	"reflect"
	"testing"

	"github.com/sua-org/cam-config/internal/core"
)

func labels(names ...string) []core.LabelFilter {
	out := make([]core.LabelFilter, 0, len(names))
	for _, n := range names {
		out = append(out, core.LabelFilter{Label: n, Confidence: 0.8})
	}
	return out
}

func TestBuild_LabelInheritance(t *testing.T) {
	parent := &core.ObjectDetection{Labels: labels("person")}
	square := []core.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

	tests := []struct {
		name   string
		zone   core.ZoneSpec
		parent *core.ObjectDetection
		want   []string
	}{
		{"inherits parent", core.ZoneSpec{Name: "a", Points: square}, parent, []string{"person"}},
		{"empty slice inherits", core.ZoneSpec{Name: "a", Points: square, Labels: []core.LabelFilter{}}, parent, []string{"person"}},
		{"own labels win", core.ZoneSpec{Name: "a", Points: square, Labels: labels("car")}, parent, []string{"car"}},
		{"no parent", core.ZoneSpec{Name: "a", Points: square}, nil, []string{}},
		{"parent without labels", core.ZoneSpec{Name: "a", Points: square}, &core.ObjectDetection{}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build([]core.ZoneSpec{tc.zone}, tc.parent)
			if len(got) != 1 {
				t.Fatalf("Build() returned %d zones, want 1", len(got))
			}
			names := []string{}
			for _, l := range got[0].Labels {
				names = append(names, l.Label)
			}
			if !reflect.DeepEqual(names, tc.want) {
				t.Errorf("labels = %v, want %v", names, tc.want)
			}
		})
	}
}

func TestBuild_CoordinatesKeepOrder(t *testing.T) {
	specs := []core.ZoneSpec{
		{Name: "first", Points: []core.Point{{X: 5, Y: 1}, {X: 2, Y: 9}, {X: 7, Y: 3}}},
		{Name: "second", Points: []core.Point{{X: 1, Y: 1}}},
	}

	got := Build(specs, nil)

	if got[0].Name != "first" || got[1].Name != "second" {
		t.Errorf("zone order = %s, %s", got[0].Name, got[1].Name)
	}
	want := [][2]int{{5, 1}, {2, 9}, {7, 3}}
	if !reflect.DeepEqual(got[0].Coordinates, want) {
		t.Errorf("Coordinates = %v, want %v (no closing point)", got[0].Coordinates, want)
	}
}

func TestBuild_InheritedLabelsAreCopies(t *testing.T) {
	parent := &core.ObjectDetection{Labels: labels("person")}
	specs := []core.ZoneSpec{{Name: "a"}, {Name: "b"}}

	got := Build(specs, parent)
	got[0].Labels[0].Label = "dog"

	if got[1].Labels[0].Label != "person" || parent.Labels[0].Label != "person" {
		t.Error("zone labels alias the parent object_detection labels")
	}
}

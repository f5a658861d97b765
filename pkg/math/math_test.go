package math

import (
	"math"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		m    Mat43
		p    Vec3
		want Vec3
	}{
		{"identity", Identity(), Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"translate", Translate(Vec3{10, 20, 30}), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(Vec3{2, 3, 4}), Vec3{1, 1, 1}, Vec3{2, 3, 4}},
		{"rotate", RotateY(math.Pi / 2), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
		{"rotate z", RotateY(math.Pi / 2), Vec3{0, 0, 1}, Vec3{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Apply(tt.p); !got.ApproxEqual(tt.want, 1e-6) {
				t.Errorf("Apply(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestThen(t *testing.T) {
	// Scale, then translate: the translation is not scaled.
	m := Scale(Vec3{2, 2, 2}).Then(Translate(Vec3{10, 20, 30}))
	if got, want := m.Apply(Vec3{1, 2, 3}), (Vec3{12, 24, 36}); got != want {
		t.Errorf("scale then translate: got %v, want %v", got, want)
	}

	// Translate, then scale: it is.
	m = Translate(Vec3{10, 20, 30}).Then(Scale(Vec3{2, 2, 2}))
	if got, want := m.Apply(Vec3{1, 2, 3}), (Vec3{22, 44, 66}); got != want {
		t.Errorf("translate then scale: got %v, want %v", got, want)
	}

	if got := Translate(Vec3{1, 2, 3}).Then(Identity()); got != Translate(Vec3{1, 2, 3}) {
		t.Errorf("M then I should equal M, got %v", got)
	}
}

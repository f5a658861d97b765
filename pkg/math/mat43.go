package math

import "math"

// Mat43 is an affine transform in the DS 4x3 layout: rows 0-2 are the images
// of the X, Y and Z axes, row 3 is the translation. Points are row vectors,
// so p' = p*M.
type Mat43 [4]Vec3

// Identity returns the identity transform.
func Identity() Mat43 {
	return Mat43{{X: 1}, {Y: 1}, {Z: 1}, {}}
}

// Translate returns a translation by t.
func Translate(t Vec3) Mat43 {
	m := Identity()
	m[3] = t
	return m
}

// Scale returns a per-axis scale by s.
func Scale(s Vec3) Mat43 {
	return Mat43{{X: s.X}, {Y: s.Y}, {Z: s.Z}, {}}
}

// RotateY returns a rotation around the Y axis. angle is in radians; a
// positive quarter turn takes +X to -Z.
func RotateY(angle float64) Mat43 {
	c := float32(math.Cos(angle))
	s := float32(math.Sin(angle))
	return Mat43{{X: c, Z: -s}, {Y: 1}, {X: s, Z: c}, {}}
}

// Then returns the transform that applies m first, then n.
func (m Mat43) Then(n Mat43) Mat43 {
	return Mat43{
		n.linear(m[0]),
		n.linear(m[1]),
		n.linear(m[2]),
		n.Apply(m[3]),
	}
}

// Apply transforms the point p.
func (m Mat43) Apply(p Vec3) Vec3 {
	return m.linear(p).Add(m[3])
}

func (m Mat43) linear(v Vec3) Vec3 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y)).Add(m[2].Scale(v.Z))
}

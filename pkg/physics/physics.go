package physics

import "math"

// Epsilon is the tolerance used for float comparisons in the simulation.
const Epsilon = 1e-9

type Vec3 struct{ Xv, Yv, Zv float64 }

var (
	Zero    = Vec3{}
	Forward = Vec3{Zv: 1}
	Up      = Vec3{Yv: 1}
)

func V3(x, y, z float64) Vec3 { return Vec3{Xv: x, Yv: y, Zv: z} }

func (v Vec3) Add(o Vec3) Vec3        { return Vec3{v.Xv + o.Xv, v.Yv + o.Yv, v.Zv + o.Zv} }
func (v Vec3) Sub(o Vec3) Vec3        { return Vec3{v.Xv - o.Xv, v.Yv - o.Yv, v.Zv - o.Zv} }
func (v Vec3) Scale(k float64) Vec3   { return Vec3{v.Xv * k, v.Yv * k, v.Zv * k} }
func (v Vec3) Dot(o Vec3) float64     { return v.Xv*o.Xv + v.Yv*o.Yv + v.Zv*o.Zv }
func (v Vec3) Length() float64        { return math.Sqrt(v.Dot(v)) }
func (v Vec3) LengthSquared() float64 { return v.Dot(v) }

// Normalized returns the unit vector of v. A zero or non-finite vector
// normalizes to Forward so callers never propagate NaN into motion.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return Forward
	}
	return v.Scale(1 / l)
}

// Flat projects v onto the ground plane.
func (v Vec3) Flat() Vec3 { return Vec3{Xv: v.Xv, Zv: v.Zv} }

// Finite reports whether every component is a finite number.
func (v Vec3) Finite() bool {
	return Finite(v.Xv) && Finite(v.Yv) && Finite(v.Zv)
}

// Quat is a rotation quaternion. Only carried through the simulation; the core
// never rotates anything with it.
type Quat struct{ W, Xv, Yv, Zv float64 }

var Identity = Quat{W: 1}

// Yaw builds a rotation of angle radians around the Y axis.
func Yaw(angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	return Quat{W: c, Yv: s}
}

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec3) float64 { return b.Sub(a).Length() }

// DistanceSquared avoids the square root for range checks.
func DistanceSquared(a, b Vec3) float64 { return b.Sub(a).LengthSquared() }

// DistanceXZ computes distance on the ground plane.
func DistanceXZ(a, b Vec3) float64 { return math.Hypot(b.Xv-a.Xv, b.Zv-a.Zv) }

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Clamp limits f to [lo, hi].
func Clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalized(t *testing.T) {
	assert.InDelta(t, 1, V3(3, 0, 4).Normalized().Length(), 1e-12)
	assert.Equal(t, Forward, Zero.Normalized())
	assert.Equal(t, Forward, V3(math.NaN(), 0, 1).Normalized())
	assert.Equal(t, Forward, V3(math.Inf(1), 0, 0).Normalized())
}

func TestDistances(t *testing.T) {
	a, b := V3(0, 5, 0), V3(3, 1, 4)
	assert.InDelta(t, math.Sqrt(9+16+16), Distance(a, b), 1e-12)
	assert.InDelta(t, 41, DistanceSquared(a, b), 1e-12)
	assert.InDelta(t, 5, DistanceXZ(a, b), 1e-12)
	assert.Equal(t, V3(3, 0, 4), b.Flat())
}

func TestClampAndFinite(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(5, 0, 1))
	assert.Equal(t, 0.0, Clamp(-5, 0, 1))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, V3(0, math.Inf(-1), 0).Finite())
}

func TestYaw(t *testing.T) {
	q := Yaw(math.Pi)
	assert.InDelta(t, 0, q.W, 1e-12)
	assert.InDelta(t, 1, q.Yv, 1e-12)
	assert.Equal(t, Identity, Yaw(0))
}

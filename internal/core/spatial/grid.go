package spatial

import (
	"math"

	"github.com/zeusync/chainshot/pkg/physics"
)

// DefaultCellSize is about twice the largest obstacle diameter.
const DefaultCellSize = 2.0

type cellKey struct{ x, z int32 }

// Indexable bodies double as map keys, which pointer entities satisfy.
type Indexable interface {
	Body
	comparable
}

// Grid is a sparse uniform grid over the ground plane. Bodies are bucketed
// by the cell containing their center, so a query scans every cell the query
// circle touches, widened by the largest body radius seen.
//
// Grid is not safe for concurrent use.
type Grid[T Indexable] struct {
	cellSize  float64
	cells     map[cellKey][]T
	where     map[T]cellKey
	maxRadius float64
}

var _ Provider[Body] = (*Grid[Body])(nil)

func NewGrid[T Indexable](cellSize float64) *Grid[T] {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &Grid[T]{
		cellSize: cellSize,
		cells:    make(map[cellKey][]T),
		where:    make(map[T]cellKey),
	}
}

func (g *Grid[T]) key(p physics.Vec3) cellKey {
	return cellKey{x: g.coord(p.Xv), z: g.coord(p.Zv)}
}

// coord saturates at the int32 range so far-out query bounds stay ordered.
func (g *Grid[T]) coord(v float64) int32 {
	c := math.Floor(v / g.cellSize)
	switch {
	case c <= math.MinInt32:
		return math.MinInt32
	case c >= math.MaxInt32:
		return math.MaxInt32
	}
	return int32(c)
}

// Insert indexes b at its current position. Re-inserting moves it.
func (g *Grid[T]) Insert(b T) {
	if _, ok := g.where[b]; ok {
		g.Remove(b)
	}
	k := g.key(b.Position())
	g.cells[k] = append(g.cells[k], b)
	g.where[b] = k
	if r := b.Radius(); r > g.maxRadius && physics.Finite(r) {
		g.maxRadius = r
	}
}

// Remove drops b from the index. Unknown bodies are ignored.
func (g *Grid[T]) Remove(b T) bool {
	k, ok := g.where[b]
	if !ok {
		return false
	}
	delete(g.where, b)
	bucket := g.cells[k]
	for i := range bucket {
		if bucket[i] == b {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			var zero T
			bucket[last] = zero
			bucket = bucket[:last]
			break
		}
	}
	if len(bucket) == 0 {
		delete(g.cells, k)
	} else {
		g.cells[k] = bucket
	}
	return true
}

// Contains reports whether b is indexed.
func (g *Grid[T]) Contains(b T) bool {
	_, ok := g.where[b]
	return ok
}

// Len is the number of indexed bodies.
func (g *Grid[T]) Len() int { return len(g.where) }

// QueryCircle implements Provider. Overlap is tested in 3D:
// distance(center, body) <= radius + body radius.
func (g *Grid[T]) QueryCircle(center physics.Vec3, radius float64, mask Category, dst []T) []T {
	if cap(dst) == 0 || !(radius >= 0) || math.IsInf(radius, 0) || !center.Finite() {
		return dst
	}
	reach := radius + g.maxRadius
	lo := g.key(physics.Vec3{Xv: center.Xv - reach, Zv: center.Zv - reach})
	hi := g.key(physics.Vec3{Xv: center.Xv + reach, Zv: center.Zv + reach})

	span := (int64(hi.x) - int64(lo.x) + 1) * (int64(hi.z) - int64(lo.z) + 1)
	if span > int64(len(g.cells)) {
		// Sparse field under a wide query: walking occupied cells is cheaper.
		for k, bucket := range g.cells {
			if k.x < lo.x || k.x > hi.x || k.z < lo.z || k.z > hi.z {
				continue
			}
			var full bool
			if dst, full = g.collect(bucket, center, radius, mask, dst); full {
				return dst
			}
		}
		return dst
	}

	for x := int64(lo.x); x <= int64(hi.x); x++ {
		for z := int64(lo.z); z <= int64(hi.z); z++ {
			var full bool
			if dst, full = g.collect(g.cells[cellKey{int32(x), int32(z)}], center, radius, mask, dst); full {
				return dst
			}
		}
	}
	return dst
}

func (g *Grid[T]) collect(bucket []T, center physics.Vec3, radius float64, mask Category, dst []T) ([]T, bool) {
	for _, b := range bucket {
		if !b.Category().Matches(mask) {
			continue
		}
		limit := radius + b.Radius()
		if physics.DistanceSquared(center, b.Position()) > limit*limit {
			continue
		}
		if len(dst) == cap(dst) {
			return dst, true
		}
		dst = append(dst, b)
	}
	return dst, false
}

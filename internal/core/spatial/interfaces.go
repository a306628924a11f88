package spatial

import "github.com/zeusync/chainshot/pkg/physics"

// Category is a collision category bit set.
type Category uint32

const (
	CategoryPlayer     Category = 1 << 0
	CategoryProjectile Category = 1 << 1
	CategoryDoor       Category = 1 << 2
	CategoryObstacle   Category = 1 << 3
	CategoryAll        Category = ^Category(0)
)

// Matches reports whether c shares at least one bit with mask.
func (c Category) Matches(mask Category) bool { return c&mask != 0 }

// Body is anything that can be indexed for overlap queries.
type Body interface {
	Position() physics.Vec3
	Radius() float64
	Category() Category
}

// Provider answers bounded circular overlap queries.
//
// QueryCircle appends every body whose circle overlaps the query circle and
// whose category matches mask to dst, stopping once dst is full. The caller
// owns dst; its capacity is the result bound. Results that do not fit are
// dropped without error.
type Provider[T Body] interface {
	QueryCircle(center physics.Vec3, radius float64, mask Category, dst []T) []T
}

// Package entity holds the contracts shared by every pooled entity kind.
package entity

import (
	"fmt"

	"github.com/zeusync/chainshot/pkg/physics"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindObstacle
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Handle identifies a pooled entity. It stays the same across reuse; pair it
// with a generation to tell acquire cycles apart.
type Handle struct {
	Kind Kind
	ID   uint32
}

func (h Handle) String() string { return fmt.Sprintf("%s#%d", h.Kind, h.ID) }

// Source is whatever strikes a Hittable.
type Source interface {
	Handle() Handle
	Radius() float64
	Position() physics.Vec3
}

// Hittable is the optional hit contract of a collision target.
type Hittable interface {
	HitBy(src Source, point physics.Vec3)
}

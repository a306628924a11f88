package physics

// Minimal spatial abstractions shared by the simulation packages.
// Positions live in a Y-up world; the ground plane is XZ.

// Transform provides spatial information for anything placed in the world.
type Transform interface {
	Position() Vec3
	Orientation() Quat
}

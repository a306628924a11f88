// Package charge converts how long the player holds the trigger into
// projectile size, paid for with the player's own radius.
package charge

import (
	"math"

	"github.com/zeusync/chainshot/internal/core/config"
	"github.com/zeusync/chainshot/pkg/physics"
)

// DeathEpsilon is how close to the critical radius counts as reaching it.
const DeathEpsilon = 1e-4

// ProjectileRadius is the radius a projectile charged for chargeTime seconds
// may have while the player stands at playerRadius. It never exceeds the
// configured maximum nor what the player can afford, and never drops below
// the configured minimum.
func ProjectileRadius(c config.ChargeConfig, playerRadius, minCritical, chargeTime float64) float64 {
	lo, hi := c.MinProjectileRadius, c.MaxProjectileRadius
	if !physics.Finite(chargeTime) || chargeTime < 0 {
		chargeTime = 0
	}
	desired := physics.Clamp(lo+c.Rate*chargeTime, lo, hi)

	budget := playerRadius - minCritical
	if !(budget > 0) {
		return lo
	}
	if c.TransferK > 0 {
		desired = math.Min(desired, lo+budget/c.TransferK)
	}
	return math.Min(desired, hi)
}

// Cost is how much player radius a projectile of radius r takes.
func Cost(c config.ChargeConfig, r float64) float64 {
	return math.Max(0, (r-c.MinProjectileRadius)*c.TransferK)
}

// RadiusAfter is the player radius left once a projectile of radius r is paid.
func RadiusAfter(c config.ChargeConfig, playerRadius, minCritical, r float64) float64 {
	return math.Max(minCritical, playerRadius-Cost(c, r))
}

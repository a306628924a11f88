package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chainshot/internal/core/spatial"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.InDelta(t, 0.72, c.InitialPlayerRadius(), 1e-9)
	assert.Equal(t, 256, c.Infection.QueryCapacity)
	assert.Equal(t, spatial.CategoryObstacle, c.Infection.ObstacleCategory)
}

func TestValidateRejectsBrokenValues(t *testing.T) {
	cases := map[string]func(c *Gameplay){
		"negative transfer":   func(c *Gameplay) { c.Charge.TransferK = -1 },
		"inverted radii":      func(c *Gameplay) { c.Charge.MaxProjectileRadius = 0.01 },
		"zero critical":       func(c *Gameplay) { c.Player.MinCriticalRadius = 0 },
		"player below floor":  func(c *Gameplay) { c.Player.InitialRadius = 0.05 },
		"no query capacity":   func(c *Gameplay) { c.Infection.QueryCapacity = 0 },
		"no obstacle mask":    func(c *Gameplay) { c.Infection.ObstacleCategory = 0 },
		"no lifetime":         func(c *Gameplay) { c.Projectile.MaxLifetime = 0 },
		"negative delay":      func(c *Gameplay) { c.Obstacle.ExplodeDelay = Duration(-time.Second) },
		"mutation out of set": func(c *Gameplay) { c.Spawn.Mutation = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateNil(t *testing.T) {
	var c *Gameplay
	assert.ErrorIs(t, c.Validate(), ErrConfigurationMissing)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	src := `
charge:
  rate: 0.9
  min_projectile_radius: 0.1
  max_projectile_radius: 1.5
  transfer_k: 0.5
projectile:
  speed: 20
  explosion_multiplier: 3
  max_lifetime: 2s
  pool_size: 4
obstacle:
  base_radius: 0.3
  explode_delay: 250ms
  pool_size: 16
`
	c, err := LoadYAML(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 0.9, c.Charge.Rate)
	assert.Equal(t, 0.5, c.Charge.TransferK)
	assert.Equal(t, 2*time.Second, c.Projectile.MaxLifetime.Std())
	assert.Equal(t, 250*time.Millisecond, c.Obstacle.ExplodeDelay.Std())
	// untouched sections keep their defaults
	assert.Equal(t, 0.09, c.Player.MinCriticalRadius)
}

func TestLoadYAMLRejectsUnknownField(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("charge:\n  speeed: 1\n"))
	assert.Error(t, err)
}

func TestLoadYAMLEmptyKeepsDefaults(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadJSON(t *testing.T) {
	src := `{"charge": {"rate": 0.6, "min_projectile_radius": 0.08, "max_projectile_radius": 1.2, "transfer_k": 0}}`
	c, err := LoadJSON(strings.NewReader(src))
	require.NoError(t, err)
	assert.Zero(t, c.Charge.TransferK)
}

func TestLoadJSONDurations(t *testing.T) {
	c, err := LoadJSON(strings.NewReader(`{"projectile": {"max_lifetime": "4s"}, "obstacle": {"explode_delay": "150ms"}}`))
	require.NoError(t, err)
	assert.Equal(t, 4*time.Second, c.Projectile.MaxLifetime.Std())
	assert.InDelta(t, 0.15, c.Obstacle.ExplodeDelay.Seconds(), 1e-12)

	_, err = LoadJSON(strings.NewReader(`{"projectile": {"max_lifetime": 4}}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadJSON(strings.NewReader(`{"projectile": {"max_lifetime": "soon"}}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestYAMLRejectsUnitlessDuration(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("projectile:\n  max_lifetime: 4\n"))
	assert.Error(t, err)
}

func TestDurationRoundTripsAsString(t *testing.T) {
	b, err := json.Marshal(Default().Projectile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"max_lifetime":"4s"`)
}

func TestLoadJSONInvalid(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"charge": {"transfer_k": -2}}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("spawn:\n  count: 5\n"), 0o600))
	c, err := LoadFile(yml)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Spawn.Count)

	txt := filepath.Join(dir, "level.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	_, err = LoadFile(txt)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

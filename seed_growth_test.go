package main

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require")

// One sector suffices: growth stops at the first disc that reaches it.
func TestGrowthSingleSector (t *testing.T) {
  cfg := test_config ()
  pool := build_sector_index ([]*Sector{test_sector ("s1", "d1", 100, square (0, 0, 10))})

  res := grow_seed (test_seed (0, "d1", 1, 5, 5), pool, cfg)

  require.Equal (t, []string{"s1"}, sector_codes (res.selected))
  assert.Equal (t, 100, res.total)
  assert.Equal (t, 5.0, res.buffer_val, "the first probe already intersects the sector")
  assert.Equal (t, growth_depleted, res.reason, "the pool ran out")
  assert.Equal (t, 0, pool.size ())
}

// The band ceiling stops admission: 60+60 would reach upper_limit=110.
func TestGrowthBandCeiling (t *testing.T) {
  cfg := test_config ()
  pool := build_sector_index (sector_row ("d1"))

  res := grow_seed (test_seed (0, "d1", 1, 5, 5), pool, cfg)

  require.Equal (t, []string{"s1"}, sector_codes (res.selected))
  assert.Equal (t, 60, res.total)
  assert.Equal (t, growth_accepted, res.reason)
  assert.Equal (t, 5.0, res.buffer_val, "the first disc already touches the neighbour that hits the ceiling")
  assert.Equal (t, 3, pool.size ())
}

// Depletion: both sectors absorbed, the total stays below limit_to_stop.
func TestGrowthDepletion (t *testing.T) {
  cfg := test_config ()
  pool := build_sector_index ([]*Sector{
    test_sector ("s1", "d1", 30, square (0, 0, 10)),
    test_sector ("s2", "d1", 30, square (10, 0, 10)),
  })

  res := grow_seed (test_seed (0, "d1", 1, 5, 5), pool, cfg)

  require.Equal (t, []string{"s1", "s2"}, sector_codes (res.selected))
  assert.Equal (t, 60, res.total)
  assert.Equal (t, growth_depleted, res.reason)
}

// The contiguity gate closes when the remaining pool cannot extend the
// dissolved region, even though the disc could still reach it.
func TestGrowthContiguityGate (t *testing.T) {
  cfg := test_config ()
  pool := build_sector_index ([]*Sector{
    test_sector ("near", "d1", 60, square (0, 0, 10)),
    test_sector ("far", "d1", 60, square (30, 0, 10)),
  })

  res := grow_seed (test_seed (0, "d1", 1, 5, 5), pool, cfg)

  require.Equal (t, []string{"near"}, sector_codes (res.selected))
  assert.Equal (t, growth_accepted, res.reason, "60 is above the lower limit")
  assert.Equal (t, 1, pool.size (), "the disconnected sector stays in the pool")
}

// A gate close below the lower limit reports depletion instead.
func TestGrowthContiguityGateBelowLower (t *testing.T) {
  cfg := test_config ()
  pool := build_sector_index ([]*Sector{
    test_sector ("near", "d1", 5, square (0, 0, 10)),
    test_sector ("far", "d1", 60, square (30, 0, 10)),
  })

  res := grow_seed (test_seed (0, "d1", 1, 5, 5), pool, cfg)

  require.Equal (t, []string{"near"}, sector_codes (res.selected))
  assert.Equal (t, growth_depleted, res.reason)
}

// A first candidate already at the ceiling leaves the seed without members.
func TestGrowthNoMembers (t *testing.T) {
  cfg := test_config ()
  pool := build_sector_index ([]*Sector{test_sector ("big", "d1", 200, square (0, 0, 10))})

  res := grow_seed (test_seed (0, "d1", 1, 5, 5), pool, cfg)

  assert.Empty (t, res.selected)
  assert.Equal (t, 0, res.total)
  assert.Equal (t, growth_accepted, res.reason)
  assert.Equal (t, 1, pool.size (), "nothing was removed")
}

// The disc keeps advancing monotonically until it reaches a distant pool.
func TestGrowthAdvancesToDistantSector (t *testing.T) {
  cfg := test_config ()
  pool := build_sector_index ([]*Sector{test_sector ("s1", "d1", 50, square (40, 0, 10))})

  res := grow_seed (test_seed (0, "d1", 1, 5, 5), pool, cfg)

  require.Equal (t, []string{"s1"}, sector_codes (res.selected))
  assert.Equal (t, 35.0, res.buffer_val, "seven probes of 5 units; the tangent disc at x=40 already intersects")
}

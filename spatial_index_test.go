package main

import (
  "testing"

  "github.com/ctessum/geom"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require")

func TestSectorIndexQueryOrder (t *testing.T) {
  sectors := sector_row ("d1")
  idx := build_sector_index (sectors)
  require.Equal (t, 4, idx.size ())

  // A window over everything returns the sectors in input order.
  hits := idx.query_intersects (square (-5, -5, 60))
  assert.Equal (t, []string{"s1", "s2", "s3", "s4"}, sector_codes (hits))
}

func TestSectorIndexRemove (t *testing.T) {
  idx := build_sector_index (sector_row ("d1"))
  idx.remove ("s2")

  assert.Equal (t, 3, idx.size ())
  assert.False (t, idx.contains ("s2"))
  hits := idx.query_intersects (square (-5, -5, 60))
  assert.Equal (t, []string{"s1", "s3", "s4"}, sector_codes (hits))
  assert.Equal (t, []string{"s1", "s3", "s4"}, sector_codes (idx.remaining ()))
}

func TestSectorIndexExactPredicate (t *testing.T) {
  idx := build_sector_index (sector_row ("d1"))
  // The disc's bounding box reaches s1 and s3, but only s2 intersects it.
  hits := idx.query_intersects (disc_around (geom.Point{X: 15, Y: 15}, 6))
  assert.Equal (t, []string{"s2"}, sector_codes (hits))
}

func TestSectorIndexBoundaryContact (t *testing.T) {
  idx := build_sector_index (sector_row ("d1"))
  // Zero-area edge contact counts as intersecting.
  hits := idx.query_intersects (square (0, 0, 10))
  assert.Equal (t, []string{"s1", "s2"}, sector_codes (hits))
}

func TestSectorIndexAnyWithin (t *testing.T) {
  idx := build_sector_index ([]*Sector{
    test_sector ("near", "d1", 10, square (0, 0, 10)),
    test_sector ("far", "d1", 10, square (50, 0, 10)),
  })

  assert.True (t, idx.any_within (square (10.2, 0, 5), 0.5))
  idx.remove ("near")
  assert.False (t, idx.any_within (square (10.2, 0, 5), 0.5))
}

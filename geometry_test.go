package main

import (
  "math"
  "testing"

  "github.com/ctessum/geom"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require")

func TestDiscAround (t *testing.T) {
  disc := disc_around (geom.Point{X: 3, Y: -2}, 10)
  require.Len (t, disc, 1)
  assert.Len (t, disc[0], disc_segments)
  // A 64-gon underestimates the circle area only slightly.
  assert.InEpsilon (t, math.Pi*100, disc.Area (), 0.01)
  assert.True (t, point_covered (geom.Point{X: 3, Y: -2}, disc))
  assert.True (t, point_covered (geom.Point{X: 11, Y: -2}, disc))
  assert.False (t, point_covered (geom.Point{X: 14, Y: -2}, disc))
}

func TestDissolveAdjacentSquares (t *testing.T) {
  dissolved := dissolve_geometries ([]geom.Polygonal{square (0, 0, 10), square (10, 0, 10)})
  require.NotNil (t, dissolved)
  assert.InDelta (t, 200, dissolved.Area (), 1e-6)
}

func TestOverlapPredicates (t *testing.T) {
  a := square (0, 0, 10)
  b := square (5, 0, 10) // overlaps a
  c := square (10, 0, 10) // shares an edge with a
  d := square (20, 0, 10) // disjoint

  assert.True (t, polygons_overlap (a, b))
  assert.False (t, polygons_overlap (a, c), "edge contact is not interior overlap")
  assert.False (t, polygons_overlap (a, d))

  assert.True (t, polygons_intersect (a, b))
  assert.True (t, polygons_intersect (a, c), "edge contact intersects")
  assert.False (t, polygons_intersect (a, d))
}

func TestWithinEpsilon (t *testing.T) {
  a := square (0, 0, 10)

  assert.True (t, within_epsilon (a, square (10, 0, 10), 0.5), "shared edge is contiguous")
  assert.True (t, within_epsilon (a, square (10.3, 0, 10), 0.5), "a 0.3 gap is inside the tolerance")
  assert.False (t, within_epsilon (a, square (11, 0, 10), 0.5), "a 1.0 gap is not")
  assert.True (t, within_epsilon (a, square (5, 5, 10), 0.5), "overlap is contiguous")
  assert.False (t, within_epsilon (nil, a, 0.5))
}

func TestBoundaryDistance (t *testing.T) {
  assert.InDelta (t, 10, boundary_distance (square (0, 0, 10), square (20, 0, 10)), 1e-9)
  assert.InDelta (t, 0, boundary_distance (square (0, 0, 10), square (10, 0, 10)), 1e-9)
  // Diagonal gap between corner-separated squares.
  assert.InDelta (t, math.Sqrt2, boundary_distance (square (0, 0, 10), square (11, 11, 10)), 1e-9)
}

func TestCoveredBy (t *testing.T) {
  outer := square (0, 0, 10)
  assert.True (t, covered_by (square (2, 2, 5), outer))
  assert.True (t, covered_by (square (0, 0, 10), outer), "coverage includes the boundary")
  assert.False (t, covered_by (square (5, 5, 10), outer), "partial overlap is not coverage")
  assert.False (t, covered_by (square (20, 20, 5), outer))
}

func TestRingSignedArea (t *testing.T) {
  ccw := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
  assert.InDelta (t, 100, ring_signed_area (ccw), 1e-9)
  assert.InDelta (t, -100, ring_signed_area (reverse_ring (ccw)), 1e-9)
}

func TestCloseRing (t *testing.T) {
  open := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
  closed := close_ring (open)
  require.Len (t, closed, 4)
  assert.Equal (t, closed[0], closed[3])
  // Already closed rings are left alone.
  assert.Len (t, close_ring (closed), 4)
}

func TestRingEnvelopes (t *testing.T) {
  // A square with a hole yields one envelope per ring.
  with_hole := geom.Polygon{
    {{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
    {{X: 4, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 6}, {X: 4, Y: 6}},
  }
  envelopes := ring_envelopes (with_hole)
  require.Len (t, envelopes, 2)
  // The filled exterior covers a sector sitting in the hole.
  assert.True (t, covered_by (square (4.5, 4.5, 1), envelopes[0]))
}

func TestCheckPolygonal (t *testing.T) {
  assert.NoError (t, check_polygonal (square (0, 0, 10)))
  assert.Error (t, check_polygonal (geom.Polygon{}))
  assert.Error (t, check_polygonal (geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 1}}}))
}

func TestExpandBounds (t *testing.T) {
  b := expand_bounds (square (0, 0, 10).Bounds (), 0.5)
  assert.InDelta (t, -0.5, b.Min.X, 1e-9)
  assert.InDelta (t, 10.5, b.Max.Y, 1e-9)
}

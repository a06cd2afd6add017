/* ==================================================================================== *\
    geometry.go

    Geometry kernel: a thin adaptor over github.com/ctessum/geom providing the
    operations the aggregation needs — seed discs, dissolve (union fold),
    overlap and coverage predicates, the epsilon contiguity test, and the ring
    helpers used by hole repair and the shapefile encoder.

    The epsilon contiguity test is expressed as "overlap OR minimum boundary
    distance <= epsilon", which is the same region test as intersecting an
    epsilon-dilated geometry. The epsilon is topological: it exists to accept
    polygons that share an edge exactly, where a strict overlap test can fail.
\* ==================================================================================== */

package main

import (
  "fmt"
  "math"

  "github.com/ctessum/geom")

// Number of segments used to approximate a seed disc.
const disc_segments = 64

/**
 * Builds the disc of the given radius around a point.
 */
func disc_around (center geom.Point, radius float64) geom.Polygon {
  ring := make ([]geom.Point, 0, disc_segments)
  for i := 0; i < disc_segments; i++ {
    angle := 2 * math.Pi * float64 (i) / disc_segments
    ring = append (ring, geom.Point{
      X: center.X + radius*math.Cos (angle),
      Y: center.Y + radius*math.Sin (angle),
    })
  }
  return geom.Polygon{ring}
}

/**
 * Dissolves member geometries into a single geometry (union fold).
 */
func dissolve_geometries (members []geom.Polygonal) geom.Polygonal {
  if len (members) == 0 {
    return nil
  }
  dissolved := members[0]
  for _, m := range members[1:] {
    dissolved = dissolved.Union (m)
  }
  return dissolved
}

func dissolve_sectors (sectors []*Sector) geom.Polygonal {
  members := make ([]geom.Polygonal, 0, len (sectors))
  for _, s := range sectors {
    members = append (members, s.geometry)
  }
  return dissolve_geometries (members)
}

func overlap_area (a, b geom.Polygonal) float64 {
  isect := a.Intersection (b)
  if isect == nil {
    return 0
  }
  return isect.Area ()
}

// True when the two geometries share interior area. Zero-area edge contact
// does not count here; polygons_intersect below includes it.
func polygons_overlap (a, b geom.Polygonal) bool {
  return overlap_area (a, b) > 0
}

/**
 * Tangency-inclusive intersects: true when the geometries share interior
 * area or touch along a zero-area boundary. Candidate discovery needs the
 * inclusive form, since the area test alone misses shared boundaries.
 */
func polygons_intersect (a, b geom.Polygonal) bool {
  if polygons_overlap (a, b) {
    return true
  }
  return boundary_distance (a, b) == 0
}

/**
 * The contiguity predicate: a is contiguous to b when they overlap or when
 * their boundaries come within eps of each other.
 */
func within_epsilon (a, b geom.Polygonal, eps float64) bool {
  if a == nil || b == nil {
    return false
  }
  if polygons_overlap (a, b) {
    return true
  }
  return boundary_distance (a, b) <= eps
}

/**
 * Strict coverage: every point of inner lies in env (boundary included).
 * Tested by area: the part of inner falling inside env is all of it.
 */
func covered_by (inner geom.Polygonal, env geom.Polygonal) bool {
  area := inner.Area ()
  if area <= 0 {
    return false
  }
  tolerance := area * 1e-9
  return overlap_area (inner, env) >= area-tolerance
}

// True when the point lies inside or on the boundary of the polygon.
func point_covered (p geom.Point, poly geom.Polygonal) bool {
  return p.Within (poly) != geom.Outside
}

/* ------------------------------------------------------- *\
 *                 BOUNDARY DISTANCE
\* ------------------------------------------------------- */

/**
 * Minimum distance between the boundaries of two polygonal geometries.
 * Only meaningful for disjoint geometries; callers test overlap first.
 */
func boundary_distance (a, b geom.Polygonal) float64 {
  dist := math.Inf (1)
  for _, pa := range a.Polygons () {
    for _, ring_a := range pa {
      for _, pb := range b.Polygons () {
        for _, ring_b := range pb {
          d := ring_distance (ring_a, ring_b)
          if d < dist {
            dist = d
          }
        }
      }
    }
  }
  return dist
}

func ring_distance (a, b []geom.Point) float64 {
  dist := math.Inf (1)
  for i := range a {
    a1, a2 := a[i], a[(i+1)%len (a)]
    for j := range b {
      b1, b2 := b[j], b[(j+1)%len (b)]
      d := segment_distance (a1, a2, b1, b2)
      if d < dist {
        dist = d
      }
    }
  }
  return dist
}

// Distance between two segments that do not cross (crossing segments belong
// to overlapping polygons, which the caller has already ruled out).
func segment_distance (a1, a2, b1, b2 geom.Point) float64 {
  d := point_segment_distance (a1, b1, b2)
  if v := point_segment_distance (a2, b1, b2); v < d {
    d = v
  }
  if v := point_segment_distance (b1, a1, a2); v < d {
    d = v
  }
  if v := point_segment_distance (b2, a1, a2); v < d {
    d = v
  }
  return d
}

func point_segment_distance (p, a, b geom.Point) float64 {
  dx, dy := b.X-a.X, b.Y-a.Y
  length2 := dx*dx + dy*dy
  if length2 == 0 {
    return math.Hypot (p.X-a.X, p.Y-a.Y)
  }
  t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / length2
  if t < 0 {
    t = 0
  } else if t > 1 {
    t = 1
  }
  return math.Hypot (p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

/* ------------------------------------------------------- *\
 *                    RING HELPERS
\* ------------------------------------------------------- */

/**
 * One filled polygon per ring of the geometry. Hole repair tests orphan
 * coverage against each of them: an orphan sitting in an interior ring is
 * covered by that ring's filled polygon and by the component's exterior
 * ring, so the adoption set equals the exterior-envelope rule.
 */
func ring_envelopes (p geom.Polygonal) []geom.Polygon {
  var envelopes []geom.Polygon
  for _, poly := range p.Polygons () {
    for _, ring := range poly {
      if len (ring) >= 3 {
        envelopes = append (envelopes, geom.Polygon{ring})
      }
    }
  }
  return envelopes
}

// Shoelace signed area; counter-clockwise rings are positive.
func ring_signed_area (ring []geom.Point) float64 {
  area := 0.0
  for i := range ring {
    j := (i + 1) % len (ring)
    area += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
  }
  return area / 2
}

// Even-odd point-in-ring test, used to classify holes for the shapefile
// encoder.
func ring_contains_point (ring []geom.Point, p geom.Point) bool {
  inside := false
  for i := range ring {
    j := (i + 1) % len (ring)
    a, b := ring[i], ring[j]
    if (a.Y > p.Y) != (b.Y > p.Y) {
      x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
      if p.X < x {
        inside = !inside
      }
    }
  }
  return inside
}

func reverse_ring (ring []geom.Point) []geom.Point {
  out := make ([]geom.Point, len (ring))
  for i, p := range ring {
    out[len (ring)-1-i] = p
  }
  return out
}

// Rings are stored unclosed; the shapefile format wants them closed.
func close_ring (ring []geom.Point) []geom.Point {
  if len (ring) == 0 {
    return ring
  }
  if ring[0] == ring[len (ring)-1] {
    return ring
  }
  return append (append ([]geom.Point{}, ring...), ring[0])
}

func expand_bounds (b *geom.Bounds, d float64) *geom.Bounds {
  return &geom.Bounds{
    Min: geom.Point{X: b.Min.X - d, Y: b.Min.Y - d},
    Max: geom.Point{X: b.Max.X + d, Y: b.Max.Y + d},
  }
}

/**
 * Structural validity: every ring has at least three vertices and the
 * geometry encloses area. Degenerate inputs are not auto-repairable.
 */
func check_polygonal (p geom.Polygonal) error {
  for _, poly := range p.Polygons () {
    if len (poly) == 0 {
      return fmt.Errorf ("polygon has no rings")
    }
    for _, ring := range poly {
      if len (ring) < 3 {
        return fmt.Errorf ("ring has fewer than 3 vertices")
      }
    }
  }
  if p.Area () <= 0 {
    return fmt.Errorf ("polygon encloses no area")
  }
  return nil
}

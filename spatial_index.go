/* ==================================================================================== *\
    spatial_index.go

    The remaining-sector pool of one district: an R-tree over the sector
    bounding boxes plus the authoritative by-code map. The growth loop
    repeatedly queries a growing disc against a shrinking pool; without the
    index each query is linear in the pool and the outer state machine
    becomes quadratic.

    The R-tree itself is append-only; removal deletes from the live map and
    queries filter their hits against it, so a removed sector is never
    returned. Query results are restored to input order to keep candidate
    visiting deterministic.
\* ==================================================================================== */

package main

import (
  "sort"

  "github.com/ctessum/geom"
  "github.com/ctessum/geom/index/rtree")

type sector_index struct {
  tree *rtree.Rtree
  live map[string]*Sector
  order []*Sector // insertion order; drives deterministic iteration
}

/**
 * Builds the pool over the sectors of one district. Sector seq numbers are
 * (re)assigned here from input order within the district.
 */
func build_sector_index (sectors []*Sector) *sector_index {
  idx := &sector_index{
    tree: rtree.NewTree (25, 50),
    live: make (map[string]*Sector, len (sectors)),
  }
  for i, s := range sectors {
    s.seq = i
    idx.tree.Insert (s)
    idx.live[s.cd_setor] = s
    idx.order = append (idx.order, s)
  }
  return idx
}

func (idx *sector_index) size () int {
  return len (idx.live)
}

func (idx *sector_index) remove (code string) {
  delete (idx.live, code)
}

func (idx *sector_index) contains (code string) bool {
  _, present := idx.live[code]
  return present
}

// Remaining sectors in input order.
func (idx *sector_index) remaining () []*Sector {
  out := make ([]*Sector, 0, len (idx.live))
  for _, s := range idx.order {
    if idx.contains (s.cd_setor) {
      out = append (out, s)
    }
  }
  return out
}

// Bounding-box candidates for a query window, live only, in input order.
func (idx *sector_index) query_bounds (b *geom.Bounds) []*Sector {
  var hits []*Sector
  for _, item := range idx.tree.SearchIntersect (b) {
    s := item.(*Sector)
    if idx.contains (s.cd_setor) {
      hits = append (hits, s)
    }
  }
  sort.Slice (hits, func (i, j int) bool { return hits[i].seq < hits[j].seq })
  return hits
}

/**
 * Sectors of the pool whose geometry intersects the query geometry, in
 * input order, zero-area boundary contact included. The index supplies the
 * bounding-box superset; the exact predicate is applied here.
 */
func (idx *sector_index) query_intersects (g geom.Polygonal) []*Sector {
  var hits []*Sector
  for _, s := range idx.query_bounds (g.Bounds ()) {
    if polygons_intersect (s.geometry, g) {
      hits = append (hits, s)
    }
  }
  return hits
}

// True when any sector of the pool is within eps of the geometry.
func (idx *sector_index) any_within (g geom.Polygonal, eps float64) bool {
  for _, s := range idx.query_bounds (expand_bounds (g.Bounds (), eps)) {
    if within_epsilon (s.geometry, g, eps) {
      return true
    }
  }
  return false
}

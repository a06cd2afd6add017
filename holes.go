/* ==================================================================================== *\
    holes.go

    Hole repair: after the main pass, an unassigned sector can sit inside an
    ACDP's interior ring. Such orphans are adopted by the surrounding ACDP
    (strict coverage by the ring's filled envelope), and every touched ACDP
    is rebuilt from its full assignment set, keeping its acdp_id.
\* ==================================================================================== */

package main

import (
  "log")

/**
 * Assigns orphans lying in ACDP holes and rebuilds the affected ACDPs.
 * Returns the orphans that no ACDP adopted.
 */
func repair_holes (res *DistrictResult, orphans []*Sector) []*Sector {
  dirty := make (map[int]bool)
  remaining := orphans

  for _, acdp := range res.acdps {
    if len (remaining) == 0 {
      break
    }
    for _, envelope := range ring_envelopes (acdp.geometry) {
      var kept []*Sector
      for _, orphan := range remaining {
        if covered_by (orphan.geometry, envelope) {
          res.assignments = append (res.assignments, &Assignment{sector: orphan, seed_id: acdp.seed_id, acdp_id: acdp.acdp_id})
          dirty[acdp.acdp_id] = true
        } else {
          kept = append (kept, orphan)
        }
      }
      remaining = kept
    }
  }

  for i, acdp := range res.acdps {
    if dirty[acdp.acdp_id] {
      res.acdps[i] = rebuild_acdp (acdp, res.assignments)
      log.Printf ("district %s acdp %d: adopted %d orphan sector(s) from holes",
        res.cd_dist, acdp.acdp_id, res.acdps[i].n_sectors-acdp.n_sectors)
    }
  }
  return remaining
}

/**
 * Re-dissolves an ACDP from every assignment carrying its acdp_id (original
 * members plus adopted orphans). Identity and seed are preserved; the
 * derived attributes are recomputed exactly as on first build.
 */
func rebuild_acdp (acdp *Acdp, assignments []*Assignment) *Acdp {
  var members []*Sector
  for _, a := range assignments {
    if a.acdp_id == acdp.acdp_id {
      members = append (members, a.sector)
    }
  }
  dissolved := dissolve_sectors (members)
  total := 0
  for _, s := range members {
    total += s.num_dom
  }
  return &Acdp{
    acdp_id: acdp.acdp_id,
    seed_id: acdp.seed_id,
    cd_dist: acdp.cd_dist,
    geometry: dissolved,
    num_dom: total,
    n_sectors: len (members),
    area_m2: round2 (dissolved.Area ()),
    cd_sectors: join_codes (members),
  }
}

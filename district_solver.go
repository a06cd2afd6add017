/* ==================================================================================== *\
    district_solver.go

    The per-district state machine: consumes the district's seeds in priority
    order, runs the growth of each seed over the shared remaining-sector
    pool, commits ACDPs and assignments, and hands what is left to hole
    repair. Anything still unassigned afterwards is emitted as orphans.
\* ==================================================================================== */

package main

import (
  "log"
  "sort"
  "sync")

/* ------------------------------------------------------- *\
 *                   ACDP ID ALLOCATOR
\* ------------------------------------------------------- */

// Process-wide, strictly increasing. The driver owns the allocator and
// passes the handle into each district solve.
type acdp_allocator struct {
  mux sync.Mutex
  next int
}

func new_acdp_allocator () *acdp_allocator {
  return &acdp_allocator{next: 1}
}

func (a *acdp_allocator) next_id () int {
  a.mux.Lock ()
  id := a.next
  a.next++
  a.mux.Unlock ()
  return id
}

/* ------------------------------------------------------- *\
 *                   DISTRICT SOLVER
\* ------------------------------------------------------- */

type DistrictResult struct {
  cd_dist string
  acdps []*Acdp
  assignments []*Assignment
  buffers []*SeedBuffer
  orphans []*Sector
}

/**
 * Solves one district. Seeds are visited in ascending ordem (ties broken by
 * seed_id, i.e. input order); the remaining-sector pool is exclusively owned
 * here and shrinks monotonically.
 */
func solve_district (cd_dist string, seeds []*Seed, sectors []*Sector, cfg *Config, alloc *acdp_allocator) *DistrictResult {
  res := &DistrictResult{cd_dist: cd_dist}

  ordered := append ([]*Seed{}, seeds...)
  sort.SliceStable (ordered, func (i, j int) bool {
    if ordered[i].ordem != ordered[j].ordem {
      return ordered[i].ordem < ordered[j].ordem
    }
    return ordered[i].seed_id < ordered[j].seed_id
  })

  pool := build_sector_index (sectors)
  var rejected []*Sector

  for _, seed := range ordered {
    if pool.size () == 0 {
      break // no more sectors to distribute; ignore the remaining seeds
    }
    // A seed already covered by an emitted assignment produces nothing.
    if seed_covered (seed, res.assignments) {
      continue
    }

    growth := grow_seed (seed, pool, cfg)
    if len (growth.selected) == 0 {
      log.Printf ("district %s seed %d: no admissible sector, seed skipped", cd_dist, seed.seed_id)
      continue
    }
    if growth.reason == growth_depleted && float64 (growth.total) < cfg.lower_limit_value () {
      log.Printf ("district %s seed %d: total %d below lower limit %v", cd_dist, seed.seed_id, growth.total, cfg.lower_limit_value ())
      if cfg.reject_below_lower {
        rejected = append (rejected, growth.selected...)
        continue
      }
    }

    acdp_id := alloc.next_id ()
    res.acdps = append (res.acdps, build_acdp (acdp_id, seed, growth.selected))
    for _, s := range growth.selected {
      res.assignments = append (res.assignments, &Assignment{sector: s, seed_id: seed.seed_id, acdp_id: acdp_id})
    }
    res.buffers = append (res.buffers, &SeedBuffer{
      seed_id: seed.seed_id,
      geometry: disc_around (seed.point, growth.buffer_val),
      buffer_val: growth.buffer_val,
      num_dom: growth.total,
    })
  }

  remaining := pool.remaining ()
  if len (rejected) > 0 {
    remaining = append (remaining, rejected...)
    sort.Slice (remaining, func (i, j int) bool { return remaining[i].seq < remaining[j].seq })
  }

  if len (remaining) > 0 && len (res.acdps) > 0 {
    remaining = repair_holes (res, remaining)
  }
  res.orphans = remaining
  return res
}

// True when the seed point lies on a sector already assigned in this
// district; such a seed is skipped entirely.
func seed_covered (seed *Seed, assignments []*Assignment) bool {
  for _, a := range assignments {
    if point_covered (seed.point, a.sector.geometry) {
      return true
    }
  }
  return false
}

/**
 * Dissolve-by-seed: the ACDP geometry is the union of its members, with
 * num_dom summed, cd_dist taken from the seed, the area rounded to two
 * decimals, and the member codes joined.
 */
func build_acdp (acdp_id int, seed *Seed, members []*Sector) *Acdp {
  dissolved := dissolve_sectors (members)
  total := 0
  for _, s := range members {
    total += s.num_dom
  }
  return &Acdp{
    acdp_id: acdp_id,
    seed_id: seed.seed_id,
    cd_dist: seed.cd_dist,
    geometry: dissolved,
    num_dom: total,
    n_sectors: len (members),
    area_m2: round2 (dissolved.Area ()),
    cd_sectors: join_codes (members),
  }
}

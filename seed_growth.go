/* ==================================================================================== *\
    seed_growth.go

    Growth of one seed's influence area: a monotonically increasing disc
    around the seed point absorbs contiguous sectors from the remaining pool
    until the household sum reaches the acceptance band or nothing admissible
    is left. The original expresses this as self-recursion; here it is an
    explicit loop so the probe count does not consume stack.
\* ==================================================================================== */

package main

import (
  "github.com/ctessum/geom")

type growth_reason int

const (
  growth_accepted growth_reason = iota // band ceiling reached
  growth_depleted // pool or contiguous frontier exhausted
)

func (r growth_reason) String () string {
  if r == growth_accepted {
    return "accepted"
  }
  return "depleted"
}

type growth_result struct {
  selected []*Sector // members, in admission order
  buffer_val float64 // last disc radius probed
  total int // household sum over selected
  reason growth_reason
}

/**
 * Grows the influence area of one seed over the district pool.
 *
 * Each probe advances the disc by one buffer_step (repeatedly, until at
 * least one pool sector intersects it), then visits the candidates in input
 * order. A candidate is admissible when nothing has been selected yet or
 * when it is contiguous (within dissolve_epsilon) to the dissolved region
 * from before this pass. Admission stops the moment the next admissible
 * candidate would take the total to upper_limit or beyond.
 *
 * The pool is mutated: admitted sectors are removed as they are confirmed.
 */
func grow_seed (seed *Seed, pool *sector_index, cfg *Config) growth_result {
  var selected []*Sector
  var dissolved geom.Polygonal
  buffer_val := 0.0
  total := 0

  for {
    /* --- Contiguity gate: can the region still grow at all? --- */
    if len (selected) > 0 && !pool.any_within (dissolved, cfg.dissolve_epsilon) {
      reason := growth_accepted
      if float64 (total) < cfg.lower_limit_value () {
        reason = growth_depleted
      }
      return growth_result{selected, buffer_val, total, reason}
    }

    /* --- Advance the disc until it reaches the pool --- */
    var candidates []*Sector
    for len (candidates) == 0 {
      if pool.size () == 0 {
        return growth_result{selected, buffer_val, total, growth_depleted}
      }
      buffer_val += cfg.buffer_step
      candidates = pool.query_intersects (disc_around (seed.point, buffer_val))
    }

    /* --- Filter candidates against contiguity and the band ceiling --- */
    // selected and dissolved are frozen for the pass: on the first pass every
    // candidate is admissible, afterwards contiguity is tested against the
    // dissolve of the previous passes.
    first_pass := len (selected) == 0
    reached_upper := false
    var confirmed []*Sector
    for _, c := range candidates {
      if !first_pass && !within_epsilon (c.geometry, dissolved, cfg.dissolve_epsilon) {
        continue
      }
      if float64 (total+c.num_dom) >= cfg.upper_limit () {
        reached_upper = true
        break
      }
      total += c.num_dom
      confirmed = append (confirmed, c)
    }

    if len (confirmed) > 0 {
      for _, c := range confirmed {
        pool.remove (c.cd_setor)
      }
      selected = append (selected, confirmed...)
      dissolved = dissolve_sectors (selected)
    }

    if pool.size () == 0 {
      return growth_result{selected, buffer_val, total, growth_depleted}
    }
    if reached_upper {
      return growth_result{selected, buffer_val, total, growth_accepted}
    }
  }
}

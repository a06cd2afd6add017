package main

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require")

// Scenario: a ring of eight sectors around a centre sector. The main pass
// accepts the ring (104 households) and hits the ceiling before the centre;
// hole repair then folds the centre into the ring's ACDP.
func TestHoleRepairAdoptsCenter (t *testing.T) {
  cfg := test_config ()
  sectors := ring_with_center ("d1")
  seeds := []*Seed{test_seed (0, "d1", 1, 3, 3)} // the frame centroid

  res := solve_district ("d1", seeds, sectors, cfg, new_acdp_allocator ())

  require.Len (t, res.acdps, 1)
  acdp := res.acdps[0]
  assert.Equal (t, 1, acdp.acdp_id, "identity survives the rebuild")
  assert.Equal (t, 9, acdp.n_sectors)
  assert.Equal (t, 104+50, acdp.num_dom)
  assert.Equal (t, 36.0, acdp.area_m2, "the rebuilt polygon is the filled 6x6 square")
  assert.Empty (t, res.orphans)

  require.Len (t, res.assignments, 9)
  adopted := res.assignments[8]
  assert.Equal (t, "center", adopted.sector.cd_setor)
  assert.Equal (t, 0, adopted.seed_id)
  assert.Equal (t, 1, adopted.acdp_id)
}

// An orphan outside every ACDP envelope stays orphan.
func TestHoleRepairLeavesOutsideOrphans (t *testing.T) {
  acdp := build_acdp (1, test_seed (0, "d1", 1, 5, 5), []*Sector{
    test_sector ("s1", "d1", 60, square (0, 0, 10)),
  })
  res := &DistrictResult{cd_dist: "d1", acdps: []*Acdp{acdp}}
  outside := test_sector ("out", "d1", 10, square (30, 0, 10))

  remaining := repair_holes (res, []*Sector{outside})

  assert.Equal (t, []string{"out"}, sector_codes (remaining))
  assert.Equal (t, 1, res.acdps[0].n_sectors, "the acdp is untouched")
}

// Rebuilding recomputes every derived attribute from the full member set.
func TestRebuildAcdp (t *testing.T) {
  members := []*Sector{
    test_sector ("a", "d1", 30, square (0, 0, 10)),
    test_sector ("b", "d1", 20, square (10, 0, 10)),
  }
  acdp := build_acdp (7, test_seed (3, "d1", 1, 5, 5), members[:1])
  assignments := []*Assignment{
    {sector: members[0], seed_id: 3, acdp_id: 7},
    {sector: members[1], seed_id: 3, acdp_id: 7},
    {sector: test_sector ("other", "d1", 99, square (50, 0, 10)), seed_id: 4, acdp_id: 8},
  }

  rebuilt := rebuild_acdp (acdp, assignments)

  assert.Equal (t, 7, rebuilt.acdp_id)
  assert.Equal (t, 3, rebuilt.seed_id)
  assert.Equal (t, 50, rebuilt.num_dom)
  assert.Equal (t, 2, rebuilt.n_sectors)
  assert.Equal (t, "a,b", rebuilt.cd_sectors)
  assert.Equal (t, 200.0, rebuilt.area_m2)
}

package main

import (
  "testing"

  "github.com/stretchr/testify/assert")

func TestCheckSectorCodes (t *testing.T) {
  districts := []*District{
    {cd_dist: "355030850", geometry: square (0, 0, 100)},
    {cd_dist: "355030851", geometry: square (100, 0, 100)},
  }
  sectors := []*Sector{
    test_sector ("355030850001", "355030850", 10, square (0, 0, 10)),
    test_sector ("355030850002", "355030850", 10, square (10, 0, 10)),
    // declared district disagrees with the code prefix
    test_sector ("355030851001", "355030850", 10, square (100, 0, 10)),
  }

  warnings := check_sector_codes (districts, sectors)
  assert.Len (t, warnings, 1)
  assert.Contains (t, warnings[0], "355030851001")
}

func TestCheckSectorCodesClean (t *testing.T) {
  districts := []*District{{cd_dist: "12", geometry: square (0, 0, 100)}}
  sectors := []*Sector{
    test_sector ("12001", "12", 10, square (0, 0, 10)),
    test_sector ("12002", "12", 10, square (10, 0, 10)),
  }
  assert.Empty (t, check_sector_codes (districts, sectors))
}

func TestAcdpComponentCount (t *testing.T) {
  contiguous := []*Sector{
    test_sector ("a", "d1", 10, square (0, 0, 10)),
    test_sector ("b", "d1", 10, square (10, 0, 10)),
    test_sector ("c", "d1", 10, square (20, 0, 10)),
  }
  assert.Equal (t, 1, acdp_component_count (contiguous, 0.5))

  split := []*Sector{
    test_sector ("a", "d1", 10, square (0, 0, 10)),
    test_sector ("b", "d1", 10, square (30, 0, 10)),
  }
  assert.Equal (t, 2, acdp_component_count (split, 0.5))
  assert.Equal (t, 0, acdp_component_count (nil, 0.5))
}

func TestAuditDistrictContiguity (t *testing.T) {
  members := []*Sector{
    test_sector ("a", "d1", 10, square (0, 0, 10)),
    test_sector ("b", "d1", 10, square (30, 0, 10)),
  }
  res := &DistrictResult{
    cd_dist: "d1",
    acdps: []*Acdp{{acdp_id: 1, seed_id: 0, cd_dist: "d1"}},
    assignments: []*Assignment{
      {sector: members[0], seed_id: 0, acdp_id: 1},
      {sector: members[1], seed_id: 0, acdp_id: 1},
    },
  }
  warnings := audit_district_contiguity (res, 0.5)
  assert.Len (t, warnings, 1)
  assert.Contains (t, warnings[0], "acdp 1")
}

func TestCheckSeedContainment (t *testing.T) {
  districts := []*District{{cd_dist: "d1", geometry: square (0, 0, 10)}}
  seeds := []*Seed{
    test_seed (0, "d1", 1, 5, 5),
    test_seed (1, "d1", 2, 50, 50),
    test_seed (2, "d9", 1, 5, 5),
  }
  warnings := check_seed_containment (seeds, districts)
  assert.Len (t, warnings, 2)
}

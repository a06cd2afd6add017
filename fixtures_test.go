/* ==================================================================================== *\
    fixtures_test.go

    Shared test fixtures: synthetic square sectors in a projected CRS with
    metre units, and the reference configuration used across the suite
    (buffer_step=5, limit_to_stop=100, percent_range=10, so the acceptance
    band is [100, 110) with lower limit 10).
\* ==================================================================================== */

package main

import (
  "github.com/ctessum/geom")

func test_config () *Config {
  cfg := default_config ()
  cfg.buffer_step = 5
  cfg.limit_to_stop = 100
  cfg.percent_range = 10
  cfg.dissolve_epsilon = 0.5
  return cfg
}

// An axis-aligned square with lower-left corner (x, y).
func square (x, y, size float64) geom.Polygon {
  return geom.Polygon{{
    {X: x, Y: y},
    {X: x + size, Y: y},
    {X: x + size, Y: y + size},
    {X: x, Y: y + size},
  }}
}

func test_sector (code, cd_dist string, num_dom int, g geom.Polygonal) *Sector {
  return &Sector{geometry: g, cd_setor: code, cd_dist: cd_dist, num_dom: num_dom, num_cad: num_dom}
}

func test_seed (id int, cd_dist string, ordem int, x, y float64) *Seed {
  return &Seed{seed_id: id, cd_dist: cd_dist, ordem: ordem, point: geom.Point{X: x, Y: y}}
}

// A row of four 10x10 sectors along the x axis, 60 households each.
func sector_row (cd_dist string) []*Sector {
  return []*Sector{
    test_sector ("s1", cd_dist, 60, square (0, 0, 10)),
    test_sector ("s2", cd_dist, 60, square (10, 0, 10)),
    test_sector ("s3", cd_dist, 60, square (20, 0, 10)),
    test_sector ("s4", cd_dist, 60, square (30, 0, 10)),
  }
}

/**
 * A 3x3 frame of 2x2 sectors: the eight ring cells (13 households each,
 * 104 in total) listed before the centre cell (50 households). The frame
 * spans [0,6]x[0,6] with the centre cell at [2,4]x[2,4].
 */
func ring_with_center (cd_dist string) []*Sector {
  cells := []struct {
    x, y float64
  }{
    {0, 0}, {2, 0}, {4, 0},
    {0, 2}, {4, 2},
    {0, 4}, {2, 4}, {4, 4},
  }
  sectors := make ([]*Sector, 0, 9)
  for i, c := range cells {
    code := string (rune ('a' + i))
    sectors = append (sectors, test_sector ("ring_"+code, cd_dist, 13, square (c.x, c.y, 2)))
  }
  sectors = append (sectors, test_sector ("center", cd_dist, 50, square (2, 2, 2)))
  return sectors
}

func sector_codes (sectors []*Sector) []string {
  codes := make ([]string, 0, len (sectors))
  for _, s := range sectors {
    codes = append (codes, s.cd_setor)
  }
  return codes
}

func assignment_codes (assignments []*Assignment) []string {
  codes := make ([]string, 0, len (assignments))
  for _, a := range assignments {
    codes = append (codes, a.sector.cd_setor)
  }
  return codes
}

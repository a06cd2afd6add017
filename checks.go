/* ==================================================================================== *\
    checks.go

    Input and output consistency checks used by the validate mode and as
    pre/post-run warnings:

    - sector codes carry their district code as a prefix; a radix tree over
      district and sector codes, walked post-order, flags sectors whose
      declared district disagrees with the code hierarchy;
    - an ACDP must be one contiguous piece; an adjacency graph over its
      members (edge when boundaries are within dissolve_epsilon) is reduced
      to connected components;
    - every seed should fall inside its declared district polygon.
\* ==================================================================================== */

package main

import (
  "fmt"

  graph "github.com/Emeline-1/basic_graph"
  radix "github.com/Emeline-1/radix")

// Marker value distinguishing district leaves from sector leaves in the
// code tree.
type district_marker struct{}

/**
 * Cross-checks each sector's declared cd_dist against the code hierarchy:
 * in the census coding scheme the sector code extends its district code, so
 * in a radix tree over both code sets every sector leaf hangs under its
 * district leaf.
 */
func check_sector_codes (districts []*District, sectors []*Sector) []string {
  tree := radix.New ()
  for _, d := range districts {
    tree.Insert (d.cd_dist, district_marker{})
  }
  for _, s := range sectors {
    tree.Insert (s.cd_setor, s.cd_dist)
  }

  var warnings []string
  tree.Walk_post (func (parent *radix.LeafNode, children []*radix.LeafNode) {
    if _, is_district := parent.Val.(district_marker); !is_district {
      return
    }
    for _, child := range children {
      declared, is_sector := child.Val.(string)
      if !is_sector {
        continue
      }
      if declared != parent.Key {
        warnings = append (warnings,
          fmt.Sprintf ("sector %s declares district %s but its code extends district %s", child.Key, declared, parent.Key))
      }
    }
  })
  return warnings
}

/**
 * Counts the connected components of an ACDP's member adjacency, with
 * contiguity taken modulo dissolve_epsilon. One component is sound; more
 * means the dissolved geometry fell apart.
 */
func acdp_component_count (members []*Sector, eps float64) int {
  if len (members) == 0 {
    return 0
  }
  g := graph.New ()
  for _, s := range members {
    // A self edge registers sectors that end up with no neighbor.
    g.Add_edge (s.cd_setor, s.cd_setor)
  }
  for i := 0; i < len (members); i++ {
    for j := i + 1; j < len (members); j++ {
      if within_epsilon (members[i].geometry, members[j].geometry, eps) {
        g.Add_edge (members[i].cd_setor, members[j].cd_setor)
      }
    }
  }

  components := 0
  g.Set_iterator ()
  for g.Next_connected_component () {
    g.Connected_component ()
    components++
  }
  return components
}

/**
 * Contiguity audit over a solved district: returns one warning per ACDP
 * whose members do not form a single component.
 */
func audit_district_contiguity (res *DistrictResult, eps float64) []string {
  members_by_acdp := make (map[int][]*Sector)
  for _, a := range res.assignments {
    members_by_acdp[a.acdp_id] = append (members_by_acdp[a.acdp_id], a.sector)
  }
  var warnings []string
  for _, acdp := range res.acdps {
    if n := acdp_component_count (members_by_acdp[acdp.acdp_id], eps); n > 1 {
      warnings = append (warnings,
        fmt.Sprintf ("district %s acdp %d: members form %d disconnected components", res.cd_dist, acdp.acdp_id, n))
    }
  }
  return warnings
}

/**
 * Flags seeds falling outside their declared district polygon.
 */
func check_seed_containment (seeds []*Seed, districts []*District) []string {
  by_code := make (map[string]*District, len (districts))
  for _, d := range districts {
    by_code[d.cd_dist] = d
  }
  var warnings []string
  for _, s := range seeds {
    d, ok := by_code[s.cd_dist]
    if !ok {
      warnings = append (warnings, fmt.Sprintf ("seed %d declares unknown district %s", s.seed_id, s.cd_dist))
      continue
    }
    if !point_covered (s.point, d.geometry) {
      warnings = append (warnings, fmt.Sprintf ("seed %d lies outside district %s", s.seed_id, s.cd_dist))
    }
  }
  return warnings
}

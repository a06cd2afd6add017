/* ==================================================================================== *\
    layers.go

    Typed records for the three input layers and the four output layers,
    the source attribute rename map, and the schema checks that turn a raw
    layer into typed records.
\* ==================================================================================== */

package main

import (
  "errors"
  "fmt"

  "github.com/ctessum/geom"
  "github.com/ctessum/geom/proj")

// Error kinds. Fatal kinds abort the run before any output is written.
var (
  err_input_missing = errors.New ("InputMissing")
  err_schema_mismatch = errors.New ("SchemaMismatch")
  err_invalid_geometry = errors.New ("InvalidGeometry")
  err_crs_mismatch = errors.New ("CRSMismatch")
  err_unsupported_driver = errors.New ("UnsupportedOutputDriver")
)

/* ------------------------------------------------------- *\
 *                     RAW LAYERS
\* ------------------------------------------------------- */

// A raw feature as produced by a layer reader: a geometry plus the
// attribute table row, keyed by canonical names after renaming.
type Feature struct {
  geometry geom.Geom
  attrs map[string]string
}

type Layer struct {
  name string
  crs string // raw CRS definition; empty when the source carries none
  features []*Feature
}

// Source attribute names are renamed to the canonical vocabulary on read.
var attribute_renames = map[string]string{
  "CD_DIST": "cd_dist",
  "CD_SETOR": "cd_setor",
  "Domicilios": "num_dom",
  "Cadastrad": "num_cad",
  "ORDEM": "ordem",
}

func canonical_attribute (name string) string {
  if renamed, ok := attribute_renames[name]; ok {
    return renamed
  }
  return name
}

/* ------------------------------------------------------- *\
 *                    TYPED RECORDS
\* ------------------------------------------------------- */

type Seed struct {
  seed_id int
  cd_dist string
  ordem int
  point geom.Point
}

type Sector struct {
  geometry geom.Polygonal
  cd_setor string
  cd_dist string
  num_dom int
  num_cad int
  seq int // input order within the district; candidate visiting order
}

// Bounds implements the spatial-index item interface.
func (s *Sector) Bounds () *geom.Bounds {
  return s.geometry.Bounds ()
}

// The remaining geom.Geom methods, delegated to the sector's geometry so
// *Sector can be stored directly in the R-tree.
func (s *Sector) Similar (g geom.Geom, tolerance float64) bool {
  return s.geometry.Similar (g, tolerance)
}

func (s *Sector) Transform (t proj.Transformer) (geom.Geom, error) {
  return s.geometry.Transform (t)
}

func (s *Sector) Len () int {
  return s.geometry.Len ()
}

func (s *Sector) Points () func () geom.Point {
  return s.geometry.Points ()
}

type District struct {
  cd_dist string
  geometry geom.Polygonal
}

type Acdp struct {
  acdp_id int
  seed_id int
  cd_dist string
  geometry geom.Polygonal
  num_dom int
  n_sectors int
  area_m2 float64
  cd_sectors string
}

// A sector committed to an ACDP. A sector is assigned at most once.
type Assignment struct {
  sector *Sector
  seed_id int
  acdp_id int
}

// The final influence disc of a used seed.
type SeedBuffer struct {
  seed_id int
  geometry geom.Polygonal
  buffer_val float64
  num_dom int
}

/* ------------------------------------------------------- *\
 *                    SCHEMA CHECKS
\* ------------------------------------------------------- */

func require_attr (f *Feature, layer, name string) (string, error) {
  v, ok := f.attrs[name]
  if !ok {
    return "", fmt.Errorf ("%w: layer %s is missing attribute %q", err_schema_mismatch, layer, name)
  }
  return v, nil
}

func require_int_attr (f *Feature, layer, name string) (int, error) {
  raw, err := require_attr (f, layer, name)
  if err != nil {
    return 0, err
  }
  v, err := parse_int_attr (raw)
  if err != nil {
    return 0, fmt.Errorf ("%w: layer %s attribute %q is not an integer (%q)", err_schema_mismatch, layer, name, raw)
  }
  return v, nil
}

/**
 * Turns the seeds layer into Seed records. seed_id is the running input row
 * index over the whole layer.
 */
func seeds_from_layer (layer *Layer) ([]*Seed, error) {
  if layer == nil || len (layer.features) == 0 {
    return nil, fmt.Errorf ("%w: seeds layer is absent or empty", err_input_missing)
  }
  seeds := make ([]*Seed, 0, len (layer.features))
  for i, f := range layer.features {
    cd, err := require_attr (f, layer.name, "cd_dist")
    if err != nil {
      return nil, err
    }
    ordem, err := require_int_attr (f, layer.name, "ordem")
    if err != nil {
      return nil, err
    }
    point, ok := f.geometry.(geom.Point)
    if !ok {
      return nil, fmt.Errorf ("%w: seeds layer row %d is not a point", err_schema_mismatch, i)
    }
    seeds = append (seeds, &Seed{seed_id: i, cd_dist: cd, ordem: ordem, point: point})
  }
  return seeds, nil
}

func sectors_from_layer (layer *Layer) ([]*Sector, error) {
  if layer == nil || len (layer.features) == 0 {
    return nil, fmt.Errorf ("%w: sectors layer is absent or empty", err_input_missing)
  }
  sectors := make ([]*Sector, 0, len (layer.features))
  seen := make (map[string]struct{}, len (layer.features))
  for _, f := range layer.features {
    code, err := require_attr (f, layer.name, "cd_setor")
    if err != nil {
      return nil, err
    }
    cd, err := require_attr (f, layer.name, "cd_dist")
    if err != nil {
      return nil, err
    }
    num_dom, err := require_int_attr (f, layer.name, "num_dom")
    if err != nil {
      return nil, err
    }
    num_cad, err := require_int_attr (f, layer.name, "num_cad")
    if err != nil {
      return nil, err
    }
    if num_dom < 0 || num_cad < 0 {
      return nil, fmt.Errorf ("%w: sector %s carries a negative count", err_schema_mismatch, code)
    }
    if _, dup := seen[code]; dup {
      return nil, fmt.Errorf ("%w: sector code %s appears more than once", err_schema_mismatch, code)
    }
    seen[code] = struct{}{}
    poly, ok := f.geometry.(geom.Polygonal)
    if !ok {
      return nil, fmt.Errorf ("%w: sector %s is not polygonal", err_invalid_geometry, code)
    }
    if err := check_polygonal (poly); err != nil {
      return nil, fmt.Errorf ("%w: sector %s: %v", err_invalid_geometry, code, err)
    }
    sectors = append (sectors, &Sector{geometry: poly, cd_setor: code, cd_dist: cd, num_dom: num_dom, num_cad: num_cad})
  }
  return sectors, nil
}

func districts_from_layer (layer *Layer) ([]*District, error) {
  if layer == nil || len (layer.features) == 0 {
    return nil, fmt.Errorf ("%w: districts layer is absent or empty", err_input_missing)
  }
  districts := make ([]*District, 0, len (layer.features))
  seen := make (map[string]struct{}, len (layer.features))
  for i, f := range layer.features {
    cd, err := require_attr (f, layer.name, "cd_dist")
    if err != nil {
      return nil, err
    }
    if _, dup := seen[cd]; dup {
      return nil, fmt.Errorf ("%w: district code %s appears more than once", err_schema_mismatch, cd)
    }
    seen[cd] = struct{}{}
    poly, ok := f.geometry.(geom.Polygonal)
    if !ok {
      return nil, fmt.Errorf ("%w: districts layer row %d is not polygonal", err_invalid_geometry, i)
    }
    districts = append (districts, &District{cd_dist: cd, geometry: poly})
  }
  return districts, nil
}

/**
 * Verifies the three layers agree on their CRS and that the CRS is projected;
 * buffer units are linear, so a geographic CRS (degrees) is meaningless here.
 */
func check_crs (seeds, sectors, districts *Layer) error {
  ref := ""
  for _, l := range []*Layer{sectors, seeds, districts} {
    if l.crs == "" {
      continue
    }
    if is_geographic_crs (l.crs) {
      return fmt.Errorf ("%w: layer %s uses a geographic CRS; reproject to a projected CRS with linear units", err_crs_mismatch, l.name)
    }
    if ref == "" {
      ref = l.crs
    } else if l.crs != ref {
      return fmt.Errorf ("%w: layer %s disagrees with the sectors layer CRS", err_crs_mismatch, l.name)
    }
  }
  return nil
}

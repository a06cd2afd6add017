/* ==================================================================================== *\
    readers.go

    - Reader objects for the three input layers (ESRI Shapefile, GeoPackage,
      GeoJSON), selected by file extension.
    - Conversion of driver-native shapes into geometry-kernel types.
    - CRS extraction (.prj sidecar, gpkg_spatial_ref_sys, GeoJSON crs member).
\* ==================================================================================== */

package main

import (
  "database/sql"
  "encoding/json"
  "fmt"
  "os"
  "path/filepath"
  "strconv"
  "strings"

  "github.com/ctessum/geom"
  "github.com/ctessum/geom/encoding/wkb"
  shp "github.com/jonas-p/go-shp"
  _ "github.com/mattn/go-sqlite3")
// the underscore import registers the sqlite3 driver as a database driver
// in its init() function, without importing any other functions

/**
 * Reads one vector layer, picking the reader from the file extension.
 */
func read_layer (path string) (*Layer, error) {
  if _, err := os.Stat (path); err != nil {
    return nil, fmt.Errorf ("%w: cannot read input layer %s", err_input_missing, path)
  }
  name := strings.TrimSuffix (filepath.Base (path), filepath.Ext (path))
  switch strings.ToLower (filepath.Ext (path)) {
    case ".shp":
      return NewShapefileReader (path).read_layer (name)
    case ".gpkg":
      return NewGpkgReader (path).read_layer (name)
    case ".json", ".geojson":
      return NewGeoJSONReader (path).read_layer (name)
    default:
      return nil, fmt.Errorf ("%w: no reader for input file %s", err_input_missing, path)
  }
}

// True when a CRS definition denotes a geographic (degree-unit) system.
func is_geographic_crs (definition string) bool {
  d := strings.TrimSpace (definition)
  return strings.HasPrefix (d, "GEOGCS") || strings.Contains (d, "+proj=longlat")
}

/* ------------------------------------------------------- *\
 *                   SHAPEFILE READER
\* ------------------------------------------------------- */

type ShapefileReader struct {
  filename string
}

func NewShapefileReader (filename string) *ShapefileReader {
  return &ShapefileReader{filename: filename}
}

func (r *ShapefileReader) read_layer (name string) (*Layer, error) {
  reader, err := shp.Open (r.filename)
  if err != nil {
    return nil, fmt.Errorf ("[ShapefileReader]: %v", err)
  }
  defer reader.Close ()

  fields := reader.Fields ()
  names := make ([]string, len (fields))
  for i, f := range fields {
    names[i] = canonical_attribute (strings.Trim (f.String (), "\x00"))
  }

  layer := &Layer{name: name, crs: read_prj_sidecar (r.filename)}
  for reader.Next () {
    row, shape := reader.Shape ()
    g, err := shape_to_geom (shape)
    if err != nil {
      return nil, fmt.Errorf ("%w: %s row %d: %v", err_invalid_geometry, name, row, err)
    }
    attrs := make (map[string]string, len (fields))
    for j := range fields {
      attrs[names[j]] = strings.TrimSpace (strings.Trim (reader.ReadAttribute (row, j), "\x00"))
    }
    layer.features = append (layer.features, &Feature{geometry: g, attrs: attrs})
  }
  return layer, nil
}

func shape_to_geom (shape shp.Shape) (geom.Geom, error) {
  switch s := shape.(type) {
    case *shp.Point:
      return geom.Point{X: s.X, Y: s.Y}, nil
    case *shp.Polygon:
      return polygon_from_parts (s.Parts, s.Points), nil
    case *shp.PolyLine:
      return nil, fmt.Errorf ("polyline shapes are not supported")
    case *shp.Null:
      return nil, fmt.Errorf ("null shape")
    default:
      return nil, fmt.Errorf ("unsupported shape type %T", shape)
  }
}

// All parts become rings of one polygon; ring winding keeps outer/hole
// classification intact for the geometry kernel.
func polygon_from_parts (parts []int32, points []shp.Point) geom.Polygon {
  var poly geom.Polygon
  for p := 0; p < len (parts); p++ {
    start := int (parts[p])
    stop := len (points)
    if p+1 < len (parts) {
      stop = int (parts[p+1])
    }
    ring := make ([]geom.Point, 0, stop-start)
    for _, pt := range points[start:stop] {
      ring = append (ring, geom.Point{X: pt.X, Y: pt.Y})
    }
    poly = append (poly, ring)
  }
  return poly
}

// The CRS of a shapefile travels in the .prj sidecar.
func read_prj_sidecar (shp_path string) string {
  prj := strings.TrimSuffix (shp_path, filepath.Ext (shp_path)) + ".prj"
  content, err := os.ReadFile (prj)
  if err != nil {
    return ""
  }
  return strings.TrimSpace (string (content))
}

/* ------------------------------------------------------- *\
 *                   GEOPACKAGE READER
\* ------------------------------------------------------- */

type GpkgReader struct {
  filename string
  db *sql.DB
  table string
  geom_column string
  crs string
}

func NewGpkgReader (filename string) *GpkgReader {
  return &GpkgReader{filename: filename}
}

func (r *GpkgReader) Open () error {
  db, err := sql.Open ("sqlite3", r.filename)
  if err != nil {
    return fmt.Errorf ("[GpkgReader.Open]: %v", err)
  }
  r.db = db

  var srs_id int
  err = db.QueryRow ("SELECT table_name, srs_id FROM gpkg_contents WHERE data_type = 'features' LIMIT 1").Scan (&r.table, &srs_id)
  if err != nil {
    return fmt.Errorf ("[GpkgReader.Open]: no feature table in %s: %v", r.filename, err)
  }
  err = db.QueryRow ("SELECT column_name FROM gpkg_geometry_columns WHERE table_name = ?", r.table).Scan (&r.geom_column)
  if err != nil {
    return fmt.Errorf ("[GpkgReader.Open]: no geometry column for %s: %v", r.table, err)
  }
  // srs 0 and -1 are the unspecified systems of the GeoPackage spec.
  if srs_id != 0 && srs_id != -1 {
    var definition string
    if err := db.QueryRow ("SELECT definition FROM gpkg_spatial_ref_sys WHERE srs_id = ?", srs_id).Scan (&definition); err == nil {
      r.crs = strings.TrimSpace (definition)
    }
  }
  return nil
}

func (r *GpkgReader) read_layer (name string) (*Layer, error) {
  if err := r.Open (); err != nil {
    return nil, err
  }
  defer r.db.Close ()

  rows, err := r.db.Query ("SELECT * FROM \"" + r.table + "\"")
  if err != nil {
    return nil, fmt.Errorf ("[GpkgReader]: %v", err)
  }
  defer rows.Close ()

  columns, err := rows.Columns ()
  if err != nil {
    return nil, fmt.Errorf ("[GpkgReader]: %v", err)
  }

  layer := &Layer{name: name, crs: r.crs}
  values := make ([]interface{}, len (columns))
  pointers := make ([]interface{}, len (columns))
  for i := range values {
    pointers[i] = &values[i]
  }

  row := 0
  for rows.Next () {
    if err := rows.Scan (pointers...); err != nil {
      return nil, fmt.Errorf ("[GpkgReader]: %v", err)
    }
    feature := &Feature{attrs: make (map[string]string, len (columns))}
    for i, col := range columns {
      if strings.EqualFold (col, r.geom_column) {
        blob, ok := values[i].([]byte)
        if !ok {
          return nil, fmt.Errorf ("%w: %s row %d: geometry is not a blob", err_invalid_geometry, name, row)
        }
        g, err := parse_gpkg_geometry (blob)
        if err != nil {
          return nil, fmt.Errorf ("%w: %s row %d: %v", err_invalid_geometry, name, row, err)
        }
        feature.geometry = g
        continue
      }
      if strings.EqualFold (col, "fid") {
        continue
      }
      feature.attrs[canonical_attribute (col)] = sql_value_string (values[i])
    }
    if feature.geometry == nil {
      return nil, fmt.Errorf ("%w: %s row %d has no geometry", err_invalid_geometry, name, row)
    }
    layer.features = append (layer.features, feature)
    row++
  }
  return layer, rows.Err ()
}

func sql_value_string (v interface{}) string {
  switch value := v.(type) {
    case nil:
      return ""
    case []byte:
      return string (value)
    case string:
      return value
    case int64:
      return strconv.FormatInt (value, 10)
    case float64:
      return format_float (value)
    case bool:
      return strconv.FormatBool (value)
    default:
      return fmt.Sprintf ("%v", value)
  }
}

// GeoPackage geometry blob: "GP" magic, version, flags, srs_id, an optional
// envelope whose size is encoded in the flags, then standard WKB.
func parse_gpkg_geometry (blob []byte) (geom.Geom, error) {
  if len (blob) < 8 || blob[0] != 'G' || blob[1] != 'P' {
    return nil, fmt.Errorf ("not a GeoPackage geometry blob")
  }
  flags := blob[3]
  envelope_sizes := []int{0, 32, 48, 48, 64}
  indicator := int ((flags >> 1) & 0x07)
  if indicator >= len (envelope_sizes) {
    return nil, fmt.Errorf ("invalid envelope indicator %d", indicator)
  }
  offset := 8 + envelope_sizes[indicator]
  if len (blob) <= offset {
    return nil, fmt.Errorf ("truncated geometry blob")
  }
  return wkb.Decode (blob[offset:])
}

/* ------------------------------------------------------- *\
 *                    GEOJSON READER
\* ------------------------------------------------------- */

type GeoJSONReader struct {
  filename string
}

func NewGeoJSONReader (filename string) *GeoJSONReader {
  return &GeoJSONReader{filename: filename}
}

type geojson_geometry struct {
  Type string `json:"type"`
  Coordinates json.RawMessage `json:"coordinates"`
}

type geojson_feature struct {
  Geometry geojson_geometry `json:"geometry"`
  Properties map[string]interface{} `json:"properties"`
}

type geojson_collection struct {
  Features []geojson_feature `json:"features"`
  Crs *struct {
    Properties struct {
      Name string `json:"name"`
    } `json:"properties"`
  } `json:"crs"`
}

func (r *GeoJSONReader) read_layer (name string) (*Layer, error) {
  content, err := os.ReadFile (r.filename)
  if err != nil {
    return nil, fmt.Errorf ("[GeoJSONReader]: %v", err)
  }
  var collection geojson_collection
  if err := json.Unmarshal (content, &collection); err != nil {
    return nil, fmt.Errorf ("[GeoJSONReader]: %s: %v", r.filename, err)
  }

  layer := &Layer{name: name}
  if collection.Crs != nil {
    layer.crs = collection.Crs.Properties.Name
  }
  for row, f := range collection.Features {
    g, err := geojson_to_geom (f.Geometry)
    if err != nil {
      return nil, fmt.Errorf ("%w: %s row %d: %v", err_invalid_geometry, name, row, err)
    }
    attrs := make (map[string]string, len (f.Properties))
    for k, v := range f.Properties {
      attrs[canonical_attribute (k)] = json_value_string (v)
    }
    layer.features = append (layer.features, &Feature{geometry: g, attrs: attrs})
  }
  return layer, nil
}

func json_value_string (v interface{}) string {
  switch value := v.(type) {
    case nil:
      return ""
    case string:
      return value
    case float64:
      return format_float (value)
    case bool:
      return strconv.FormatBool (value)
    default:
      return fmt.Sprintf ("%v", value)
  }
}

func geojson_to_geom (g geojson_geometry) (geom.Geom, error) {
  switch g.Type {
    case "Point":
      var coords []float64
      if err := json.Unmarshal (g.Coordinates, &coords); err != nil || len (coords) < 2 {
        return nil, fmt.Errorf ("malformed point coordinates")
      }
      return geom.Point{X: coords[0], Y: coords[1]}, nil
    case "Polygon":
      var coords [][][]float64
      if err := json.Unmarshal (g.Coordinates, &coords); err != nil {
        return nil, fmt.Errorf ("malformed polygon coordinates")
      }
      return polygon_from_coords (coords), nil
    case "MultiPolygon":
      var coords [][][][]float64
      if err := json.Unmarshal (g.Coordinates, &coords); err != nil {
        return nil, fmt.Errorf ("malformed multipolygon coordinates")
      }
      multi := make (geom.MultiPolygon, 0, len (coords))
      for _, poly := range coords {
        multi = append (multi, polygon_from_coords (poly))
      }
      return multi, nil
    default:
      return nil, fmt.Errorf ("unsupported geometry type %q", g.Type)
  }
}

func polygon_from_coords (coords [][][]float64) geom.Polygon {
  poly := make (geom.Polygon, 0, len (coords))
  for _, ring_coords := range coords {
    ring := make ([]geom.Point, 0, len (ring_coords))
    for _, c := range ring_coords {
      if len (c) >= 2 {
        ring = append (ring, geom.Point{X: c[0], Y: c[1]})
      }
    }
    poly = append (poly, ring)
  }
  return poly
}

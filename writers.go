/* ==================================================================================== *\
    writers.go

    Output drivers for the four result layers (ESRI Shapefile, GeoPackage,
    GeoJSON), sharing one field/record model. The pipeline stages a run's
    layers in a ".partial" directory and renames it on success, so an
    aborted run leaves no partial output behind.
\* ==================================================================================== */

package main

import (
  "database/sql"
  "encoding/binary"
  "encoding/json"
  "fmt"
  "os"
  "path/filepath"
  "strings"

  "github.com/ctessum/geom"
  "github.com/ctessum/geom/encoding/wkb"
  shp "github.com/jonas-p/go-shp")

/* ------------------------------------------------------- *\
 *                FIELD / RECORD MODEL
\* ------------------------------------------------------- */

const (
  field_string = 'C'
  field_int = 'N'
  field_float = 'F'
)

type out_field struct {
  name string
  kind byte
  length int
  decimals int
}

type out_record struct {
  geometry geom.Geom
  values []interface{} // aligned with the field list
}

type layer_writer interface {
  write_layer (dir, name string, fields []out_field, records []out_record) error
}

/**
 * Resolves the writer for a validated driver extension.
 */
func new_layer_writer (ext, crs string) (layer_writer, error) {
  switch ext {
    case "shp":
      return &shapefile_writer{crs: crs}, nil
    case "gpkg":
      return &gpkg_writer{crs: crs}, nil
    case "json":
      return &geojson_writer{crs: crs}, nil
    default:
      return nil, fmt.Errorf ("%w: no writer for extension %q", err_unsupported_driver, ext)
  }
}

/* ------------------------------------------------------- *\
 *                  SHAPEFILE WRITER
\* ------------------------------------------------------- */

type shapefile_writer struct {
  crs string
}

func (w *shapefile_writer) write_layer (dir, name string, fields []out_field, records []out_record) error {
  path := filepath.Join (dir, name+".shp")
  writer, err := shp.Create (path, shp.POLYGON)
  if err != nil {
    return fmt.Errorf ("[shapefile_writer]: %v", err)
  }

  shp_fields := make ([]shp.Field, 0, len (fields))
  for _, f := range fields {
    switch f.kind {
      case field_string:
        shp_fields = append (shp_fields, shp.StringField (f.name, uint8 (min_int (f.length, 254))))
      case field_int:
        shp_fields = append (shp_fields, shp.NumberField (f.name, uint8 (f.length)))
      case field_float:
        shp_fields = append (shp_fields, shp.FloatField (f.name, uint8 (f.length), uint8 (f.decimals)))
    }
  }
  writer.SetFields (shp_fields)

  for _, rec := range records {
    poly, ok := rec.geometry.(geom.Polygonal)
    if !ok {
      writer.Close ()
      return fmt.Errorf ("[shapefile_writer]: layer %s carries a non polygonal geometry", name)
    }
    row := int (writer.Write (shp_polygon_from_geom (poly)))
    for j, f := range fields {
      value := rec.values[j]
      // DBF character fields cap at 254 bytes.
      if f.kind == field_string {
        if s, is_string := value.(string); is_string && len (s) > 254 {
          value = s[:254]
        }
      }
      if err := writer.WriteAttribute (row, j, value); err != nil {
        writer.Close ()
        return fmt.Errorf ("[shapefile_writer]: %v", err)
      }
    }
  }
  writer.Close ()

  if w.crs != "" {
    prj := strings.TrimSuffix (path, ".shp") + ".prj"
    if err := os.WriteFile (prj, []byte (w.crs+"\n"), 0644); err != nil {
      return fmt.Errorf ("[shapefile_writer]: %v", err)
    }
  }
  return nil
}

func min_int (a, b int) int {
  if a < b {
    return a
  }
  return b
}

/**
 * Flattens a polygonal geometry into one shapefile polygon record: outer
 * rings clockwise, holes counter-clockwise, rings closed, as the format
 * requires. A ring inside an odd number of other rings is a hole.
 */
func shp_polygon_from_geom (p geom.Polygonal) *shp.Polygon {
  var rings [][]geom.Point
  for _, poly := range p.Polygons () {
    for _, ring := range poly {
      if len (ring) >= 3 {
        rings = append (rings, ring)
      }
    }
  }

  var parts []int32
  var points []shp.Point
  for i, ring := range rings {
    depth := 0
    for j, other := range rings {
      if i != j && ring_contains_point (other, ring[0]) {
        depth++
      }
    }
    hole := depth%2 == 1
    oriented := ring
    area := ring_signed_area (ring)
    // Clockwise rings have negative shoelace area.
    if (!hole && area > 0) || (hole && area < 0) {
      oriented = reverse_ring (ring)
    }
    closed := close_ring (oriented)
    parts = append (parts, int32 (len (points)))
    for _, pt := range closed {
      points = append (points, shp.Point{X: pt.X, Y: pt.Y})
    }
  }

  return &shp.Polygon{
    Box: shp.BBoxFromPoints (points),
    NumParts: int32 (len (parts)),
    NumPoints: int32 (len (points)),
    Parts: parts,
    Points: points,
  }
}

/* ------------------------------------------------------- *\
 *                  GEOPACKAGE WRITER
\* ------------------------------------------------------- */

type gpkg_writer struct {
  crs string
}

// srs_id used for the input CRS definition when one is known.
const gpkg_local_srs_id = 100000

func (w *gpkg_writer) write_layer (dir, name string, fields []out_field, records []out_record) error {
  path := filepath.Join (dir, name+".gpkg")
  db, err := sql.Open ("sqlite3", path)
  if err != nil {
    return fmt.Errorf ("[gpkg_writer]: %v", err)
  }
  defer db.Close ()

  srs_id := 0
  if w.crs != "" {
    srs_id = gpkg_local_srs_id
  }
  if err := w.create_schema (db, name, fields, srs_id); err != nil {
    return err
  }

  tx, err := db.Begin ()
  if err != nil {
    return fmt.Errorf ("[gpkg_writer]: %v", err)
  }
  columns := make ([]string, 0, len (fields)+1)
  placeholders := make ([]string, 0, len (fields)+1)
  columns = append (columns, "geom")
  placeholders = append (placeholders, "?")
  for _, f := range fields {
    columns = append (columns, "\""+f.name+"\"")
    placeholders = append (placeholders, "?")
  }
  statement, err := tx.Prepare ("INSERT INTO \"" + name + "\" (" + strings.Join (columns, ", ") + ") VALUES (" + strings.Join (placeholders, ", ") + ")")
  if err != nil {
    tx.Rollback ()
    return fmt.Errorf ("[gpkg_writer]: %v", err)
  }
  for _, rec := range records {
    blob, err := gpkg_geometry_blob (rec.geometry, srs_id)
    if err != nil {
      tx.Rollback ()
      return fmt.Errorf ("[gpkg_writer]: %v", err)
    }
    args := make ([]interface{}, 0, len (fields)+1)
    args = append (args, blob)
    args = append (args, rec.values...)
    if _, err := statement.Exec (args...); err != nil {
      tx.Rollback ()
      return fmt.Errorf ("[gpkg_writer]: %v", err)
    }
  }
  if err := tx.Commit (); err != nil {
    return fmt.Errorf ("[gpkg_writer]: %v", err)
  }
  return nil
}

func (w *gpkg_writer) create_schema (db *sql.DB, name string, fields []out_field, srs_id int) error {
  statements := []string{
    "PRAGMA application_id = 1196444487", // "GPKG"
    "PRAGMA user_version = 10300",
    `CREATE TABLE IF NOT EXISTS gpkg_spatial_ref_sys (
       srs_name TEXT NOT NULL, srs_id INTEGER PRIMARY KEY, organization TEXT NOT NULL,
       organization_coordsys_id INTEGER NOT NULL, definition TEXT NOT NULL, description TEXT)`,
    `INSERT INTO gpkg_spatial_ref_sys VALUES ('Undefined cartesian SRS', -1, 'NONE', -1, 'undefined', NULL)`,
    `INSERT INTO gpkg_spatial_ref_sys VALUES ('Undefined geographic SRS', 0, 'NONE', 0, 'undefined', NULL)`,
    `INSERT INTO gpkg_spatial_ref_sys VALUES ('WGS 84', 4326, 'EPSG', 4326,
       'GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]', NULL)`,
    `CREATE TABLE IF NOT EXISTS gpkg_contents (
       table_name TEXT NOT NULL PRIMARY KEY, data_type TEXT NOT NULL, identifier TEXT UNIQUE,
       description TEXT DEFAULT '', last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
       min_x DOUBLE, min_y DOUBLE, max_x DOUBLE, max_y DOUBLE, srs_id INTEGER)`,
    `CREATE TABLE IF NOT EXISTS gpkg_geometry_columns (
       table_name TEXT NOT NULL PRIMARY KEY, column_name TEXT NOT NULL, geometry_type_name TEXT NOT NULL,
       srs_id INTEGER NOT NULL, z TINYINT NOT NULL, m TINYINT NOT NULL)`,
  }
  if srs_id == gpkg_local_srs_id {
    statements = append (statements,
      "INSERT INTO gpkg_spatial_ref_sys VALUES ('input CRS', "+fmt.Sprint (srs_id)+", 'NONE', 0, '"+strings.ReplaceAll (w.crs, "'", "''")+"', NULL)")
  }

  column_defs := []string{"fid INTEGER PRIMARY KEY AUTOINCREMENT", "geom BLOB"}
  for _, f := range fields {
    sql_type := "TEXT"
    switch f.kind {
      case field_int: sql_type = "INTEGER"
      case field_float: sql_type = "REAL"
    }
    column_defs = append (column_defs, "\""+f.name+"\" "+sql_type)
  }
  statements = append (statements,
    "CREATE TABLE \""+name+"\" ("+strings.Join (column_defs, ", ")+")",
    fmt.Sprintf ("INSERT INTO gpkg_contents (table_name, data_type, identifier, srs_id) VALUES ('%s', 'features', '%s', %d)", name, name, srs_id),
    fmt.Sprintf ("INSERT INTO gpkg_geometry_columns VALUES ('%s', 'geom', 'GEOMETRY', %d, 0, 0)", name, srs_id),
  )

  for _, statement := range statements {
    if _, err := db.Exec (statement); err != nil {
      return fmt.Errorf ("[gpkg_writer]: %v", err)
    }
  }
  return nil
}

// GeoPackage geometry blob: "GP" magic, version 0, little-endian flags with
// no envelope, the srs_id, then standard WKB.
func gpkg_geometry_blob (g geom.Geom, srs_id int) ([]byte, error) {
  payload, err := wkb.Encode (g, binary.LittleEndian)
  if err != nil {
    return nil, err
  }
  header := make ([]byte, 8)
  header[0], header[1] = 'G', 'P'
  header[2] = 0
  header[3] = 0x01
  binary.LittleEndian.PutUint32 (header[4:], uint32 (int32 (srs_id)))
  return append (header, payload...), nil
}

/* ------------------------------------------------------- *\
 *                    GEOJSON WRITER
\* ------------------------------------------------------- */

type geojson_writer struct {
  crs string
}

func (w *geojson_writer) write_layer (dir, name string, fields []out_field, records []out_record) error {
  features := make ([]map[string]interface{}, 0, len (records))
  for _, rec := range records {
    properties := make (map[string]interface{}, len (fields))
    for j, f := range fields {
      properties[f.name] = rec.values[j]
    }
    geometry, err := geom_to_geojson (rec.geometry)
    if err != nil {
      return fmt.Errorf ("[geojson_writer]: layer %s: %v", name, err)
    }
    features = append (features, map[string]interface{}{
      "type": "Feature",
      "geometry": geometry,
      "properties": properties,
    })
  }

  collection := map[string]interface{}{
    "type": "FeatureCollection",
    "features": features,
  }
  // Only CRS identifiers fit the GeoJSON crs member; WKT blobs stay out.
  if w.crs != "" && !strings.Contains (w.crs, "[") {
    collection["crs"] = map[string]interface{}{
      "type": "name",
      "properties": map[string]interface{}{"name": w.crs},
    }
  }

  content, err := json.MarshalIndent (collection, "", " ")
  if err != nil {
    return fmt.Errorf ("[geojson_writer]: %v", err)
  }
  path := filepath.Join (dir, name+".json")
  if err := os.WriteFile (path, content, 0644); err != nil {
    return fmt.Errorf ("[geojson_writer]: %v", err)
  }
  return nil
}

func geom_to_geojson (g geom.Geom) (map[string]interface{}, error) {
  switch value := g.(type) {
    case geom.Point:
      return map[string]interface{}{"type": "Point", "coordinates": []float64{value.X, value.Y}}, nil
    case geom.Polygon:
      return map[string]interface{}{"type": "Polygon", "coordinates": polygon_coords (value)}, nil
    case geom.MultiPolygon:
      coords := make ([][][][]float64, 0, len (value))
      for _, poly := range value {
        coords = append (coords, polygon_coords (poly))
      }
      return map[string]interface{}{"type": "MultiPolygon", "coordinates": coords}, nil
    case geom.Polygonal:
      coords := make ([][][][]float64, 0, len (value.Polygons ()))
      for _, poly := range value.Polygons () {
        coords = append (coords, polygon_coords (poly))
      }
      return map[string]interface{}{"type": "MultiPolygon", "coordinates": coords}, nil
    default:
      return nil, fmt.Errorf ("unsupported geometry type %T", g)
  }
}

func polygon_coords (poly geom.Polygon) [][][]float64 {
  coords := make ([][][]float64, 0, len (poly))
  for _, ring := range poly {
    closed := close_ring (ring)
    ring_coords := make ([][]float64, 0, len (closed))
    for _, p := range closed {
      ring_coords = append (ring_coords, []float64{p.X, p.Y})
    }
    coords = append (coords, ring_coords)
  }
  return coords
}

/* ==================================================================================== *\
    driver.go

    The pipeline: loads the three input layers, distributes districts to the
    worker pool, concatenates the per-district results in district-code
    order, and writes the four output layers through the configured driver.

    The acdp_id allocator is the only state shared across districts; the
    driver owns it and hands the handle to every worker.
\* ==================================================================================== */

package main

import (
  "fmt"
  "log"
  "os"
  "path/filepath"
  "sort"
  "time"

  pool "github.com/Emeline-1/pool")

type run_inputs struct {
  seeds []*Seed
  sectors []*Sector
  districts []*District
  crs string
}

/**
 * Runs the full pipeline. Fatal error kinds abort before any output layer
 * is committed to disk.
 */
func run_process (cfg *Config) error {
  log.Printf ("Starting at: %s", time.Now ().Format ("02/01/2006T15:04:05"))

  // The output driver is validated before any processing starts.
  ext, err := cfg.output_drivename ()
  if err != nil {
    return err
  }

  inputs, err := load_inputs (cfg)
  if err != nil {
    return err
  }
  for _, w := range check_sector_codes (inputs.districts, inputs.sectors) {
    log.Printf ("warning: %s", w)
  }

  results, codes := solve_all_districts (cfg, inputs)
  if err := store_outputs (cfg, ext, inputs.crs, results, codes); err != nil {
    return err
  }

  log.Printf ("Finished in: %s", time.Now ().Format ("02/01/2006T15:04:05"))
  return nil
}

/* ------------------------------------------------------- *\
 *                     INPUT LOADING
\* ------------------------------------------------------- */

func load_inputs (cfg *Config) (*run_inputs, error) {
  if info, err := os.Stat (cfg.input_dir); err != nil || !info.IsDir () {
    return nil, fmt.Errorf ("%w: we expected an input directory at %s", err_input_missing, cfg.input_dir)
  }

  districts_layer, err := read_layer (filepath.Join (cfg.input_dir, cfg.input_file_districts))
  if err != nil {
    return nil, err
  }
  sectors_layer, err := read_layer (filepath.Join (cfg.input_dir, cfg.input_file_sectors))
  if err != nil {
    return nil, err
  }
  seeds_layer, err := read_layer (filepath.Join (cfg.input_dir, cfg.input_file_seeds))
  if err != nil {
    return nil, err
  }

  if err := check_crs (seeds_layer, sectors_layer, districts_layer); err != nil {
    return nil, err
  }

  districts, err := districts_from_layer (districts_layer)
  if err != nil {
    return nil, err
  }
  sectors, err := sectors_from_layer (sectors_layer)
  if err != nil {
    return nil, err
  }
  seeds, err := seeds_from_layer (seeds_layer)
  if err != nil {
    return nil, err
  }

  log.Printf ("Loaded %d district(s), %d sector(s), %d seed(s)", len (districts), len (sectors), len (seeds))
  return &run_inputs{seeds: seeds, sectors: sectors, districts: districts, crs: sectors_layer.crs}, nil
}

/* ------------------------------------------------------- *\
 *                   DISTRICT SCHEDULING
\* ------------------------------------------------------- */

/**
 * Distributes the districts over the worker pool and returns the collected
 * results plus the ordered district code list. With the default single
 * worker the run is fully sequential and acdp_id allocation is
 * reproducible; more workers keep ids unique but interleave them.
 */
func solve_all_districts (cfg *Config, inputs *run_inputs) (*SafeSet, []string) {
  sectors_by_district := make (map[string][]*Sector)
  for _, s := range inputs.sectors {
    sectors_by_district[s.cd_dist] = append (sectors_by_district[s.cd_dist], s)
  }
  seeds_by_district := make (map[string][]*Seed)
  for _, s := range inputs.seeds {
    seeds_by_district[s.cd_dist] = append (seeds_by_district[s.cd_dist], s)
  }

  known := make (map[string]struct{}, len (inputs.districts))
  var codes []string
  for _, d := range inputs.districts {
    if cfg.district_filter != "" && d.cd_dist != cfg.district_filter {
      continue
    }
    known[d.cd_dist] = struct{}{}
    codes = append (codes, d.cd_dist)
  }
  sort.Strings (codes)

  stray := 0
  for cd, group := range sectors_by_district {
    if _, ok := known[cd]; !ok {
      stray += len (group)
    }
  }
  if stray > 0 && cfg.district_filter == "" {
    log.Printf ("warning: %d sector(s) reference districts absent from the districts layer and are not processed", stray)
  }

  alloc := new_acdp_allocator ()
  results := create_safeset ()
  worker := generate_district_worker (cfg, seeds_by_district, sectors_by_district, alloc, results, len (codes))
  pool.Launch_pool (cfg.workers, codes, worker)
  return results, codes
}

func generate_district_worker (cfg *Config, seeds_by_district map[string][]*Seed, sectors_by_district map[string][]*Sector, alloc *acdp_allocator, results *SafeSet, total int) func (string) {
  return func (cd_dist string) {
    defer recovery_function ()

    seeds := seeds_by_district[cd_dist]
    sectors := sectors_by_district[cd_dist]
    if len (seeds) == 0 {
      log.Printf ("district %s has no seeds; its %d sector(s) stay orphan", cd_dist, len (sectors))
    }
    res := solve_district (cd_dist, seeds, sectors, cfg, alloc)
    for _, w := range audit_district_contiguity (res, cfg.dissolve_epsilon) {
      log.Printf ("warning: %s", w)
    }
    results.add (cd_dist, res)
    log.Printf ("district %s done (%d/%d): %d acdp(s), %d assigned, %d orphan(s)",
      cd_dist, results.size (), total, len (res.acdps), len (res.assignments), len (res.orphans))
  }
}

/* ------------------------------------------------------- *\
 *                    OUTPUT STORAGE
\* ------------------------------------------------------- */

/**
 * Concatenates the per-district results in district-code order and writes
 * the four layers into a staged directory, renamed into place on success.
 */
func store_outputs (cfg *Config, ext, crs string, results *SafeSet, codes []string) error {
  var acdps []*Acdp
  var assignments []*Assignment
  var buffers []*SeedBuffer
  var orphans []*Sector
  for _, cd := range codes {
    res_i, ok := results.get (cd)
    if !ok {
      return fmt.Errorf ("[store_outputs]: district %s produced no result", cd)
    }
    res := res_i.(*DistrictResult)
    acdps = append (acdps, res.acdps...)
    assignments = append (assignments, res.assignments...)
    buffers = append (buffers, res.buffers...)
    orphans = append (orphans, res.orphans...)
  }

  writer, err := new_layer_writer (ext, crs)
  if err != nil {
    return err
  }

  final_dir := timestamped_output_dir (cfg.output_dir)
  staging := final_dir + ".partial"
  if err := ensure_dir (staging); err != nil {
    return err
  }
  defer os.RemoveAll (staging)

  layers := []struct {
    name string
    fields []out_field
    records []out_record
  }{
    {cfg.output_file_acdps, acdp_fields (), acdp_records (acdps)},
    {cfg.output_file_sectors, assignment_fields (), assignment_records (assignments)},
    {cfg.output_file_seeds, buffer_fields (), buffer_records (buffers)},
    {cfg.output_file_orphans, orphan_fields (), orphan_records (orphans)},
  }
  for _, layer := range layers {
    if err := writer.write_layer (staging, layer.name, layer.fields, layer.records); err != nil {
      return err
    }
  }
  if err := os.Rename (staging, final_dir); err != nil {
    return fmt.Errorf ("[store_outputs]: %v", err)
  }

  log.Printf ("Stored %d acdp(s), %d sector assignment(s), %d seed buffer(s), %d orphan(s) in %s",
    len (acdps), len (assignments), len (buffers), len (orphans), final_dir)
  return nil
}

/* --- Layer schemas --- */

func acdp_fields () []out_field {
  return []out_field{
    {"acdp_id", field_int, 10, 0},
    {"seed_id", field_int, 10, 0},
    {"cd_dist", field_string, 20, 0},
    {"num_dom", field_int, 10, 0},
    {"n_sectors", field_int, 10, 0},
    {"area_m2", field_float, 18, 2},
    {"cd_sectors", field_string, 254, 0},
  }
}

func acdp_records (acdps []*Acdp) []out_record {
  records := make ([]out_record, 0, len (acdps))
  for _, a := range acdps {
    records = append (records, out_record{
      geometry: a.geometry,
      values: []interface{}{a.acdp_id, a.seed_id, a.cd_dist, a.num_dom, a.n_sectors, a.area_m2, a.cd_sectors},
    })
  }
  return records
}

func assignment_fields () []out_field {
  return []out_field{
    {"cd_setor", field_string, 20, 0},
    {"cd_dist", field_string, 20, 0},
    {"num_dom", field_int, 10, 0},
    {"num_cad", field_int, 10, 0},
    {"seed_id", field_int, 10, 0},
    {"acdp_id", field_int, 10, 0},
  }
}

func assignment_records (assignments []*Assignment) []out_record {
  records := make ([]out_record, 0, len (assignments))
  for _, a := range assignments {
    records = append (records, out_record{
      geometry: a.sector.geometry,
      values: []interface{}{a.sector.cd_setor, a.sector.cd_dist, a.sector.num_dom, a.sector.num_cad, a.seed_id, a.acdp_id},
    })
  }
  return records
}

func buffer_fields () []out_field {
  return []out_field{
    {"seed_id", field_int, 10, 0},
    {"buffer_val", field_float, 18, 2},
    {"num_dom", field_int, 10, 0},
  }
}

func buffer_records (buffers []*SeedBuffer) []out_record {
  records := make ([]out_record, 0, len (buffers))
  for _, b := range buffers {
    records = append (records, out_record{
      geometry: b.geometry,
      values: []interface{}{b.seed_id, b.buffer_val, b.num_dom},
    })
  }
  return records
}

func orphan_fields () []out_field {
  return []out_field{
    {"cd_setor", field_string, 20, 0},
    {"cd_dist", field_string, 20, 0},
    {"num_dom", field_int, 10, 0},
    {"num_cad", field_int, 10, 0},
  }
}

func orphan_records (orphans []*Sector) []out_record {
  records := make ([]out_record, 0, len (orphans))
  for _, s := range orphans {
    records = append (records, out_record{
      geometry: s.geometry,
      values: []interface{}{s.cd_setor, s.cd_dist, s.num_dom, s.num_cad},
    })
  }
  return records
}

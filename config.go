/* ==================================================================================== *\
    config.go

    Run configuration: the recognised options, their defaults, the derived
    acceptance band, and the output driver table.

    Optional parameters:
      - buffer_step, the number of units used to increase the buffer around the
        seeds to make an ACDP. Based on input data projection;
      - percent_range, the value to apply over the limit_to_stop to accept
        aggregation of sectors;
      - limit_to_stop, the reference value to finalize the sectoral aggregation
        of a seed influence area;
      - lower_limit, the minimum households for an ACDP to be considered viable;
      - district_filter, the code of one district to test the output without
        building all data.
\* ==================================================================================== */

package main

import (
  "fmt"
  "strings")

type Config struct {
  /* input-data */
  input_dir string
  input_file_seeds string
  input_file_sectors string
  input_file_districts string
  /* aggregation-parameters */
  buffer_step float64
  limit_to_stop int
  percent_range float64
  lower_limit int // 0 means unset: derived from percent_range
  dissolve_epsilon float64
  district_filter string
  reject_below_lower bool
  /* execution */
  workers int
  /* output */
  output_dir string
  output_type string
  output_file_acdps string
  output_file_sectors string
  output_file_seeds string
  output_file_orphans string
}

/**
 * Defaults mirror the original deployment configuration.
 */
func default_config () *Config {
  return &Config{
    input_dir: "data/input",
    input_file_seeds: "Sementes_pts.shp",
    input_file_sectors: "SetoresCensitarios.shp",
    input_file_districts: "Distritos.shp",
    buffer_step: 5,
    limit_to_stop: 5000,
    percent_range: 10,
    dissolve_epsilon: 0.5,
    workers: 1,
    output_dir: "data/output",
    output_type: "gpkg",
    output_file_acdps: "acdps",
    output_file_sectors: "sectors_by_seed",
    output_file_seeds: "buffer_around_seeds",
    output_file_orphans: "orphan_sectors",
  }
}

// The supported output drivers and their file extensions.
var output_extensions = map[string]string{
  "esri shapefile": "shp",
  "shp": "shp",
  "gpkg": "gpkg",
  "geojson": "json",
  "json": "json",
}

/**
 * Validates and resolves the configured output driver to a file extension.
 * An unsupported driver is fatal before any processing starts.
 */
func (c *Config) output_drivename () (string, error) {
  ext, ok := output_extensions[strings.ToLower (c.output_type)]
  if !ok {
    return "", fmt.Errorf ("%w: output driver %q is not supported, review the output_type option", err_unsupported_driver, c.output_type)
  }
  return ext, nil
}

// upper_limit of the acceptance band: limit_to_stop*(1 + percent_range/100).
func (c *Config) upper_limit () float64 {
  return float64 (c.limit_to_stop) + float64 (c.limit_to_stop)*c.percent_range/100
}

// lower_limit of the acceptance band; the explicit option overrides the
// derived default limit_to_stop*percent_range/100.
func (c *Config) lower_limit_value () float64 {
  if c.lower_limit > 0 {
    return float64 (c.lower_limit)
  }
  return float64 (c.limit_to_stop) * c.percent_range / 100
}

func (c *Config) validate () error {
  if c.buffer_step <= 0 {
    return fmt.Errorf ("[config]: buffer_step must be positive, got %v", c.buffer_step)
  }
  if c.limit_to_stop <= 0 {
    return fmt.Errorf ("[config]: limit_to_stop must be positive, got %v", c.limit_to_stop)
  }
  if c.percent_range < 0 || c.percent_range > 100 {
    return fmt.Errorf ("[config]: percent_range must be in [0,100], got %v", c.percent_range)
  }
  if c.lower_limit < 0 {
    return fmt.Errorf ("[config]: lower_limit must be positive when set, got %v", c.lower_limit)
  }
  if c.dissolve_epsilon <= 0 {
    return fmt.Errorf ("[config]: dissolve_epsilon must be positive, got %v", c.dissolve_epsilon)
  }
  if c.workers < 1 {
    return fmt.Errorf ("[config]: workers must be at least 1, got %v", c.workers)
  }
  if _, err := c.output_drivename (); err != nil {
    return err
  }
  return nil
}

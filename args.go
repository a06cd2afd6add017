/* ==================================================================================== *\
    args.go

    Program arguments handling
\* ==================================================================================== */

package main

import (
  "flag"
  "os")

/**
 * Shared flags between the process and validate modes.
 */
func register_common_flags (cmd *flag.FlagSet, cfg *Config) {
  cmd.StringVar (&cfg.input_dir, "i", cfg.input_dir, "The input directory containing the three layers")
  cmd.StringVar (&cfg.input_file_seeds, "seeds", cfg.input_file_seeds, "The seeds layer file name (point geometry, with cd_dist and ordem)")
  cmd.StringVar (&cfg.input_file_sectors, "sectors", cfg.input_file_sectors, "The census sectors layer file name (polygons, with household counts)")
  cmd.StringVar (&cfg.input_file_districts, "districts", cfg.input_file_districts, "The districts layer file name (polygons partitioning the working area)")
  cmd.StringVar (&cfg.district_filter, "district", "", "Restrict processing to one district code (to test the output without building all data)")
}

/**
 * Handle the args for the process mode.
 */
func handle_args_process (args []string) *Config {
  if len (args) == 0 {
    println ("Missing arguments")
    os.Exit (-1)
  }
  cfg := default_config ()
  cmd := flag.NewFlagSet (args[0], flag.ExitOnError)
  register_common_flags (cmd, cfg)

  cmd.Float64Var (&cfg.buffer_step, "buffer_step", cfg.buffer_step, "The number of units used to increase the buffer around the seeds, in input projection units")
  cmd.IntVar (&cfg.limit_to_stop, "limit_to_stop", cfg.limit_to_stop, "The reference household count to finalize the aggregation of a seed influence area")
  cmd.Float64Var (&cfg.percent_range, "percent_range", cfg.percent_range, "The percentage applied over limit_to_stop to accept aggregation of sectors")
  cmd.IntVar (&cfg.lower_limit, "lower_limit", 0, "The minimum households for a viable ACDP (default limit_to_stop*percent_range/100)")
  cmd.Float64Var (&cfg.dissolve_epsilon, "dissolve_epsilon", cfg.dissolve_epsilon, "The tolerance buffer used when testing contiguity against a dissolved region")
  cmd.BoolVar (&cfg.reject_below_lower, "reject_below_lower", false, "Discard ACDPs whose total stays below the lower limit (use form -flag=x for boolean flags)")
  cmd.IntVar (&cfg.workers, "workers", cfg.workers, "The number of district workers; more than 1 interleaves acdp_id allocation")
  cmd.StringVar (&cfg.output_dir, "o", cfg.output_dir, "The output directory root; each run writes a timestamped subdirectory")
  cmd.StringVar (&cfg.output_type, "output_type", cfg.output_type, "The output driver: shp, gpkg or json")

  cmd.Parse (args[1:])
  return cfg
}

/**
 * Handle the args for the validate mode.
 */
func handle_args_validate (args []string) *Config {
  if len (args) == 0 {
    println ("Missing arguments")
    os.Exit (-1)
  }
  cfg := default_config ()
  cmd := flag.NewFlagSet (args[0], flag.ExitOnError)
  register_common_flags (cmd, cfg)
  cmd.Float64Var (&cfg.dissolve_epsilon, "dissolve_epsilon", cfg.dissolve_epsilon, "The tolerance buffer used when testing contiguity")

  cmd.Parse (args[1:])
  return cfg
}

/* ==================================================================================== *\
    main.go

    spcad builds ACDPs (Areas of Contiguous Domicile Population) from three
    vector layers: prioritised seed points, census sectors carrying household
    counts, and the districts partitioning the working area. For each
    district, seeds grow influence buffers that aggregate contiguous sectors
    until the household sum falls inside the configured acceptance band.
\* ==================================================================================== */

package main

import (
  "log"
  "os")

func usage () {
  println ("\nUsage of spcad:\n")
  println ("spcad has two modes:")
  println ("  - process: read the seed, sector and district layers, build the ACDPs and write the four output layers.")
  println ("  - validate: read the input layers and report consistency problems without writing anything.\n")
  println ("Type")
  println ("  ./spcad [mode] -h")
  println ("for further information on each mode.\n")
}

func main () {
  log.SetFlags (0)
  if len (os.Args) == 1 {
    usage ()
    return
  }
  switch command := os.Args[1]; command {

    /* --------------------------- *\
              ACDP PIPELINE
    \* --------------------------- */
    case "process":
      cfg := handle_args_process (os.Args[1:])
      launch_process (cfg)

    /* --------------------------- *\
             INPUT VALIDATION
    \* --------------------------- */
    case "validate":
      cfg := handle_args_validate (os.Args[1:])
      launch_validate (cfg)

    case "-h", "--help":
      usage ()
    default:
      log.Println ("Unknown command:", command)
      log.Println ("Type './spcad -h' for help:")
  }
}

// --------------------------------------------------------------------------------
func launch_process (cfg *Config) {
  if err := cfg.validate (); err != nil {
    log.Fatal (err)
  }
  if err := run_process (cfg); err != nil {
    log.Fatal (err)
  }
}

// --------------------------------------------------------------------------------
/**
 * Loads the three layers and reports schema, CRS, code-hierarchy and seed
 * containment problems. Nothing is written.
 */
func launch_validate (cfg *Config) {
  inputs, err := load_inputs (cfg)
  if err != nil {
    log.Fatal (err)
  }

  warnings := check_sector_codes (inputs.districts, inputs.sectors)
  warnings = append (warnings, check_seed_containment (inputs.seeds, inputs.districts)...)
  for _, w := range warnings {
    log.Printf ("warning: %s", w)
  }
  if len (warnings) == 0 {
    log.Println ("Input layers are consistent.")
  } else {
    log.Printf ("%d problem(s) found.", len (warnings))
  }
}

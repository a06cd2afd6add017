/* ==================================================================================== *\
    misc.go

    Small shared helpers: worker recovery, sorting, number formatting and
    output directory naming.
\* ==================================================================================== */

package main

import (
  "fmt"
  "log"
  "math"
  "os"
  "path/filepath"
  "strconv"
  "strings"
  "time")

func recovery_function () {
  if r := recover(); r != nil {
    log.Println (r)
    return
  }
}

func round2 (v float64) float64 {
  return math.Round (v*100) / 100
}

/**
 * Formats a float the way attribute tables expect: plain decimal notation,
 * no exponent, trailing zeros trimmed.
 */
func format_float (v float64) string {
  return strconv.FormatFloat (v, 'f', -1, 64)
}

func parse_int_attr (raw string) (int, error) {
  s := strings.TrimSpace (strings.Trim (raw, "\x00"))
  if s == "" {
    return 0, fmt.Errorf ("empty value")
  }
  if v, err := strconv.Atoi (s); err == nil {
    return v, nil
  }
  // DBF numeric columns occasionally carry a decimal point ("123.0").
  f, err := strconv.ParseFloat (s, 64)
  if err != nil {
    return 0, err
  }
  return int (math.Round (f)), nil
}

func join_codes (sectors []*Sector) string {
  codes := make ([]string, 0, len (sectors))
  for _, s := range sectors {
    codes = append (codes, s.cd_setor)
  }
  return strings.Join (codes, ",")
}

/**
 * Output runs live in a timestamped directory under the configured output
 * root, e.g. data/output/202608011530.
 */
func timestamped_output_dir (root string) string {
  return filepath.Join (root, time.Now ().Format ("200601021504"))
}

func ensure_dir (path string) error {
  if err := os.MkdirAll (path, 0755); err != nil {
    return fmt.Errorf ("[ensure_dir]: %v", err)
  }
  return nil
}

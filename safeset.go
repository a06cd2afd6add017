/* ==================================================================================== *\
    safeset.go

    A mutex-protected map used to collect per-district results from the pool
    workers. The pipeline concatenates results in district-code order after
    the pool drains, so this only needs safe insertion and lookup.
\* ==================================================================================== */

package main

import (
  "log"
  "sync")

type SafeSet struct {
  mux sync.Mutex
  set map[string]interface{}
}

func create_safeset () *SafeSet {
  new_set := new (SafeSet)
  new_set.set = make (map[string]interface{})
  return new_set
}

func (set *SafeSet) add (key string, arg ...interface{}) {
  set.mux.Lock ()
  switch len (arg) {
    case 0: set.set[key] = struct{}{}
    case 1: set.set[key] = arg[0]
    default: log.Fatal ("Wrong number of arguments to function [add]")
  }
  set.mux.Unlock ()
}

func (set *SafeSet) get (key string) (v interface{}, ok bool) {
  set.mux.Lock ()
  v, ok = set.set[key]
  set.mux.Unlock ()
  return
}

func (set *SafeSet) size () int {
  set.mux.Lock ()
  n := len (set.set)
  set.mux.Unlock ()
  return n
}

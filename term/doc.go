// Package term defines the in-memory model of external term format values.
//
// Term is a closed set of variants. Scalars are named Go types (Int, Float,
// Atom, String, Binary); containers are slices (Tuple, List, Proplist) or
// small structs (Map, Pid, Ref). Bool, Null and Undefined stand for the
// atoms true, false, null and undefined.
//
// Lift turns ordinary Go values into terms and Equal compares terms with
// each other or with Go values.
package term

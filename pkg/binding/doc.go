// Package binding maps between a Flat Field Set and nested JSON data objects.
//
// Serialize walks a Reference Template and plucks leaf values from the bound
// fields, writing nil for missing or empty fields and for every subtree whose
// section is collapsed. Deserialize walks a data object received from the
// server, pushes non-empty leaves into the bound fields and reports which
// internal nodes received data so collapsed sections can be expanded.
//
// Both directions accept modifier functions keyed by dotted path. A modifier
// registered under WholeObject replaces the walk entirely.
package binding

// Package fields provides ready-made field and section handles for the Flat
// Field Set: text inputs with optional HTML entity conversion, numbers,
// checkboxes, combos backed by lookup stores, read-only display fields
// (timestamps, byte sizes, sanitized markup) and collapsible groups that
// toggle the required flag of their members.
package fields

// Package model defines the data shapes shared by the binding engine: the
// Reference Template that fixes the payload shape expected by the server, the
// dotted paths identifying leaves inside it, and the Flat Field Set mapping
// those paths onto live field handles. Field and section handles are
// expressed as small capability interfaces so hosts can implement only what
// they support (values, enablement, invalid markers, collapsible sections).
package model

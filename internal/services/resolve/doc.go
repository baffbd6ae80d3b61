// Package resolve talks to an externally running NLE through its local
// scripting gateway. Connectivity is capability-checked: an unreachable
// editor is a normal state, not an error the pipeline surfaces.
package resolve

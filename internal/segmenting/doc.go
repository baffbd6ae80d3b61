// Package segmenting plans and cuts marker-bounded segments out of source
// clips, persisting a JSON manifest of the plan alongside the cut files.
package segmenting

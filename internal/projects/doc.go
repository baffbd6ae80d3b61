// Package projects owns project identity and the fixed on-disk layout every
// phase writes into. The Resolver maps a source path and optional codeword
// to the day's project, creating or reusing it and updating the session's
// active project.
package projects

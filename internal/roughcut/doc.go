// Package roughcut assembles a first-pass edit decision list from a
// project's transcribed footage and exports it in CMX 3600 format.
package roughcut

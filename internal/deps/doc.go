// Package deps reports availability of the external binaries the pipeline
// shells out to (ffmpeg, ffprobe, uvx). The preflight checks and the
// `dailies deps` command are its two consumers.
package deps

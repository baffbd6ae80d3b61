// Package ffmpeg wraps the ffmpeg and ffprobe command-line tools behind the
// Transcoder and Prober interfaces: loudness normalization, camera-profile
// proxies, frame-accurate segment cuts, and duration probing.
package ffmpeg

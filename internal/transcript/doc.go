// Package transcript models timestamped speech-to-text output for one clip
// and persists it as JSON plus a rendered SubRip file. Re-runs detect the
// JSON artifact and skip regeneration.
package transcript

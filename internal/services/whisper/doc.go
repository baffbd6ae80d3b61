// Package whisper runs whisperx (through uvx) to transcribe clip audio and
// parses its JSON output into the transcript model.
package whisper

// Package media models source clips and resolves where they came from.
//
// It discovers video files beneath a card or pool directory, maps SD-card
// directory signatures to configured camera profiles, and reads volume
// labels best-effort for project codeword resolution.
package media

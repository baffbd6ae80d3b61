// Package preflight provides readiness checks for the paths, disk space,
// and external services an import run depends on.
//
// These checks run in two contexts:
//   - The watch daemon calls RunAll before dispatching a card import, so a
//     full disk or missing projects root is caught before hours of copying.
//   - The CLI "dailies deps" command uses the individual check functions to
//     display environment health.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight

// Package bootstrap turns a fresh clone of the exemplar template into a new
// project. A Runner executes three stages in order:
//
//   - rename: move every <subtree>/<placeholder> directory to
//     <subtree>/<name> through the repository, so history follows the files.
//   - rewrite: regenerate the README, rewrite the build and presets files and
//     substitute the placeholder across the renamed trees (package rewrite).
//   - commit: stage the modified files, drop the bootstrap script from the
//     index and record a single commit.
//
// A failing stage stops the run and is reported as a *StageError. Work done
// by earlier stages is not rolled back.
package bootstrap

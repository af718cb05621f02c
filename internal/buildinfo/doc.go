// Package buildinfo exposes the version, commit and build date stamped into
// the beman-init binary through -ldflags.
package buildinfo

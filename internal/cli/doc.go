// Package cli implements the beman-init command line: argument and flag
// parsing with cobra, the optional huh form, and the summary printed after
// a run. Execute is the only entry point main needs.
package cli

// Package git drives the git binary for the few repository operations
// beman-init needs: renaming template trees, staging the rewritten files,
// untracking the bootstrap script and committing.
//
// Every method shells out through os/exec and wraps failures as
// "git: <operation>: exit status N: <stderr>", so git's own diagnostic
// reaches the user unchanged.
package git

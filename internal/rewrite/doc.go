// Package rewrite turns the exemplar's files into the new project's files.
//
// Three kinds of edit are applied:
//
//   - README.md is regenerated from an embedded template.
//   - CMakeLists.txt and CMakePresets.json get line-level rewrites: a line
//     holding the description keyword (or the C++ standard key) is replaced
//     wholesale, keeping its indentation and line ending.
//   - Every file under the swept trees has the placeholder, and its
//     upper-cased form, replaced by the project name.
//
// Each file is read completely, transformed in memory and written back
// through a temporary file and a rename, so an interrupted run never leaves
// a half-written file behind.
package rewrite

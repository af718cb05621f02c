package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bemanproject/beman-init/internal/config"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// ---------------------------------------------------------------------------
// Replacer
// ---------------------------------------------------------------------------

func TestReplacer_Replace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lower", input: "beman::exemplar", want: "beman::foo"},
		{name: "upper", input: "BEMAN_EXEMPLAR_BUILD_TESTING", want: "BEMAN_FOO_BUILD_TESTING"},
		{name: "both on one line", input: "exemplar EXEMPLAR", want: "foo FOO"},
		{name: "mixed case untouched", input: "Exemplar", want: "Exemplar"},
		{name: "no placeholder", input: "int main() {}", want: "int main() {}"},
		{name: "repeated", input: "exemplar/exemplar.hpp", want: "foo/foo.hpp"},
	}

	r := NewReplacer("exemplar", "foo")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Replace(tt.input))
		})
	}
}

func TestReplacer_Identity(t *testing.T) {
	assert.True(t, NewReplacer("exemplar", "exemplar").Identity())
	assert.False(t, NewReplacer("exemplar", "foo").Identity())
	assert.Equal(t, "exemplar EXEMPLAR", NewReplacer("exemplar", "exemplar").Replace("exemplar EXEMPLAR"))
}

// ---------------------------------------------------------------------------
// Line helpers
// ---------------------------------------------------------------------------

func TestSplitLines_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "a\n", "a\nb", "a\r\nb\r\n", "\n\n"} {
		assert.Equal(t, s, strings.Join(splitLines(s), ""), "input %q", s)
	}
}

func TestIndentBefore(t *testing.T) {
	assert.Equal(t, "    ", indentBefore("    DESCRIPTION x", 4))
	assert.Equal(t, "\t", indentBefore("\tDESCRIPTION x", 1))
	assert.Equal(t, strings.Repeat(" ", 9), indentBefore("project( DESCRIPTION x", 9))
}

// ---------------------------------------------------------------------------
// Build file
// ---------------------------------------------------------------------------

const cmakeLists = `cmake_minimum_required(VERSION 3.25)

project(
    beman.exemplar # CMake Project Name, which is also the name of the top-level CMake target
    DESCRIPTION "A Beman library exemplar"
    LANGUAGES CXX
)

option(
    BEMAN_EXEMPLAR_BUILD_TESTS
    "Enable building tests and test infrastructure. Default: ON. Values: { ON, OFF }."
    ${PROJECT_IS_TOP_LEVEL}
)

add_subdirectory(src/beman/exemplar)
`

func TestRewriteBuildFile(t *testing.T) {
	got, hits := RewriteBuildFile(cmakeLists, "DESCRIPTION", "TODO", NewReplacer("exemplar", "foo"))

	assert.Equal(t, 1, hits)
	assert.Contains(t, got, "\n    DESCRIPTION \"TODO\"\n")
	assert.Contains(t, got, "beman.foo # CMake Project Name")
	assert.Contains(t, got, "BEMAN_FOO_BUILD_TESTS")
	assert.Contains(t, got, "add_subdirectory(src/beman/foo)")
	assert.NotContains(t, got, "exemplar")
	assert.NotContains(t, got, "EXEMPLAR")

	// No line added, dropped or reordered.
	before := splitLines(cmakeLists)
	after := splitLines(got)
	require.Len(t, after, len(before))
	for i := range before {
		if strings.Contains(before[i], "DESCRIPTION") {
			continue
		}
		assert.Equal(t, NewReplacer("exemplar", "foo").Replace(before[i]), after[i], "line %d", i)
	}
}

func TestRewriteBuildFile_DescriptionNotEscaped(t *testing.T) {
	got, _ := RewriteBuildFile("  DESCRIPTION \"x\"\n", "DESCRIPTION", `say "hi" & $HOME`, NewReplacer("exemplar", "foo"))
	assert.Equal(t, "  DESCRIPTION \"say \"hi\" & $HOME\"\n", got)
}

func TestRewriteBuildFile_KeepsCRLFAndMissingFinalNewline(t *testing.T) {
	in := "project(exemplar\r\n\tDESCRIPTION \"old\"\r\n)"
	got, hits := RewriteBuildFile(in, "DESCRIPTION", "new", NewReplacer("exemplar", "foo"))

	assert.Equal(t, 1, hits)
	assert.Equal(t, "project(foo\r\n\tDESCRIPTION \"new\"\r\n)", got)
}

func TestRewriteBuildFile_NoKeyword(t *testing.T) {
	got, hits := RewriteBuildFile("project(exemplar)\n", "DESCRIPTION", "new", NewReplacer("exemplar", "foo"))
	assert.Equal(t, 0, hits)
	assert.Equal(t, "project(foo)\n", got)
}

// ---------------------------------------------------------------------------
// Presets
// ---------------------------------------------------------------------------

const presets = `{
  "version": 6,
  "configurePresets": [
    {
      "name": "_root-config",
      "hidden": true,
      "generator": "Ninja",
      "binaryDir": "${sourceDir}/build/${presetName}",
      "installDir": "${sourceDir}/install/${presetName}",
      "cacheVariables": {
        "CMAKE_CXX_STANDARD": "20",
        "CMAKE_EXPORT_COMPILE_COMMANDS": true,
        "CMAKE_PROJECT_TOP_LEVEL_INCLUDES": "./infra/cmake/use-fetch-content.cmake"
      }
    }
  ]
}
`

func TestRewritePresets(t *testing.T) {
	got, hits := RewritePresets(presets, `"CMAKE_CXX_STANDARD":`, 26)

	assert.Equal(t, 1, hits)
	assert.Contains(t, got, "        \"CMAKE_CXX_STANDARD\": \"26\",\n")

	before := splitLines(presets)
	after := splitLines(got)
	require.Len(t, after, len(before))
	for i := range before {
		if strings.Contains(before[i], "CMAKE_CXX_STANDARD") {
			continue
		}
		assert.Equal(t, before[i], after[i], "line %d must be byte-identical", i)
	}
}

func TestRewritePresets_NoTrailingComma(t *testing.T) {
	got, hits := RewritePresets("    \"CMAKE_CXX_STANDARD\": \"20\"\n", `"CMAKE_CXX_STANDARD":`, 23)
	assert.Equal(t, 1, hits)
	assert.Equal(t, "    \"CMAKE_CXX_STANDARD\": \"23\"\n", got)
}

func TestRewritePresets_PlaceholderUntouched(t *testing.T) {
	in := "\"name\": \"exemplar\",\n"
	got, hits := RewritePresets(in, `"CMAKE_CXX_STANDARD":`, 26)
	assert.Equal(t, 0, hits)
	assert.Equal(t, in, got)
}

// ---------------------------------------------------------------------------
// README
// ---------------------------------------------------------------------------

func TestRenderReadme(t *testing.T) {
	out, err := RenderReadme(config.ProjectConfig{
		Name:        "foo",
		Owner:       "bar",
		Paper:       "P1234R5",
		CppVersion:  23,
		Description: "An optional type",
	})
	require.NoError(t, err)

	readme := string(out)
	lines := strings.Split(readme, "\n")
	assert.Contains(t, lines, "# beman.foo: An optional type")
	assert.Contains(t, readme, "https://github.com/bar/foo/actions/workflows/ci_tests.yml/badge.svg")
	assert.Contains(t, readme, "[`foo` (P1234R5)](https://wg21.link/P1234R5)")
	assert.Contains(t, readme, "BEMAN_FOO_BUILD_TESTING=OFF")
	assert.Contains(t, readme, "#include <beman/foo/TODO.hpp>")
	assert.Contains(t, readme, "Building this repository requires **C++23** or later.")
	assert.NotContains(t, readme, "exemplar")
	assert.NotContains(t, readme, "{{")
}

func TestRenderReadme_DefaultsTitle(t *testing.T) {
	p := config.NewDefaults().Project
	p.Name = "foo"
	p.Owner = "bar"

	out, err := RenderReadme(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n# beman.foo: TODO\n")
}

func TestRenderReadme_ValuesInsertedVerbatim(t *testing.T) {
	out, err := RenderReadme(config.ProjectConfig{Name: "foo", Description: "<b>*bold*</b> & `code`"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "# beman.foo: <b>*bold*</b> & `code`")
}

// ---------------------------------------------------------------------------
// Files
// ---------------------------------------------------------------------------

func TestReadText_RejectsBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0xff, 0xfe}, 0o644))

	_, err := ReadText(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotText)
}

func TestWriteAtomic_PreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	require.NoError(t, WriteAtomic(path, []byte("#!/bin/sh\necho hi\n")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "#!/bin/sh\necho hi\n", readFile(t, dir, "run.sh"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

// ---------------------------------------------------------------------------
// Sweep
// ---------------------------------------------------------------------------

func TestSweeper_SubstitutesAndReportsChanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/beman/foo/exemplar.cpp", "#include <beman/exemplar/identity.hpp>\n")
	writeFile(t, root, "src/beman/foo/CMakeLists.txt", "add_library(beman.exemplar)\n")
	writeFile(t, root, "examples/plain.cpp", "int main() {}\n")
	writeFile(t, root, "examples/guard.hpp", "#ifndef BEMAN_EXEMPLAR_HPP\n")

	s := &Sweeper{
		Root:     root,
		Trees:    []string{"src/beman/foo", "examples"},
		Replacer: NewReplacer("exemplar", "foo"),
	}
	changed, err := s.Sweep()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"src/beman/foo/CMakeLists.txt",
		"src/beman/foo/exemplar.cpp",
		"examples/guard.hpp",
	}, changed)
	assert.Equal(t, "#include <beman/foo/identity.hpp>\n", readFile(t, root, "src/beman/foo/exemplar.cpp"))
	assert.Equal(t, "#ifndef BEMAN_FOO_HPP\n", readFile(t, root, "examples/guard.hpp"))
	assert.Equal(t, "int main() {}\n", readFile(t, root, "examples/plain.cpp"))
}

func TestSweeper_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "examples/a.cpp", "exemplar\n")

	s := &Sweeper{Root: root, Trees: []string{"examples"}, Replacer: NewReplacer("exemplar", "foo"), DryRun: true}
	changed, err := s.Sweep()
	require.NoError(t, err)

	assert.Equal(t, []string{"examples/a.cpp"}, changed)
	assert.Equal(t, "exemplar\n", readFile(t, root, "examples/a.cpp"))
}

func TestSweeper_Exclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "examples/a.cpp", "exemplar\n")
	writeFile(t, root, "examples/vendor/b.cpp", "exemplar\n")
	writeFile(t, root, "examples/logo.svg", "exemplar\n")

	s := &Sweeper{
		Root:     root,
		Trees:    []string{"examples"},
		Exclude:  []string{"examples/vendor", "**/*.svg"},
		Replacer: NewReplacer("exemplar", "foo"),
	}
	changed, err := s.Sweep()
	require.NoError(t, err)

	assert.Equal(t, []string{"examples/a.cpp"}, changed)
	assert.Equal(t, "exemplar\n", readFile(t, root, "examples/vendor/b.cpp"))
	assert.Equal(t, "exemplar\n", readFile(t, root, "examples/logo.svg"))
}

func TestSweeper_MissingTree(t *testing.T) {
	s := &Sweeper{Root: t.TempDir(), Trees: []string{"examples"}, Replacer: NewReplacer("exemplar", "foo")}
	_, err := s.Sweep()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSweeper_BinaryFileAborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "examples/a.cpp", "exemplar\n")
	writeFile(t, root, "examples/z.bin", string([]byte{0xff, 0xfe, 0x00}))

	s := &Sweeper{Root: root, Trees: []string{"examples"}, Replacer: NewReplacer("exemplar", "foo")}
	changed, err := s.Sweep()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotText)
	assert.Equal(t, []string{"examples/a.cpp"}, changed, "files before the failure stay rewritten")
}

func TestSweeper_IdentityIsNoop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "examples/a.cpp", "exemplar EXEMPLAR\n")

	s := &Sweeper{Root: root, Trees: []string{"examples"}, Replacer: NewReplacer("exemplar", "exemplar")}
	changed, err := s.Sweep()
	require.NoError(t, err)
	assert.Empty(t, changed)
}

// ---------------------------------------------------------------------------
// Rewriter
// ---------------------------------------------------------------------------

// newWorkingCopy lays out a miniature exemplar with its trees already renamed
// to dirName.
func newWorkingCopy(t *testing.T, dirName string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "README.md", "# beman.exemplar\nmanual notes\n")
	writeFile(t, root, "CMakeLists.txt", cmakeLists)
	writeFile(t, root, "CMakePresets.json", presets)
	for _, tree := range []string{"src/beman", "include/beman", "tests/beman"} {
		writeFile(t, root, tree+"/"+dirName+"/exemplar.txt", "exemplar EXEMPLAR\n")
	}
	writeFile(t, root, "examples/identity_direct_usage.cpp", "#include <beman/exemplar/identity.hpp>\n")
	writeFile(t, root, ".github/workflows/ci_tests.yml", "name: exemplar CI\n")
	return root
}

func TestRewriter_Run(t *testing.T) {
	root := newWorkingCopy(t, "foo")
	cfg := config.NewDefaults()
	cfg.Project.Name = "foo"
	cfg.Project.Owner = "bar"

	rw := &Rewriter{Root: root, Project: cfg.Project, Layout: cfg.Layout, TreeDir: "foo"}
	report, err := rw.Run()
	require.NoError(t, err)

	assert.Equal(t, "README.md", report.Readme)
	assert.Equal(t, "CMakeLists.txt", report.BuildFile)
	assert.Equal(t, "CMakePresets.json", report.PresetsFile)
	assert.Equal(t, 1, report.Descriptions)
	assert.Equal(t, 1, report.Standards)
	assert.Len(t, report.SweptFiles, 5)
	assert.Len(t, report.Files(), 8)

	readme := readFile(t, root, "README.md")
	assert.Contains(t, readme, "# beman.foo: TODO")
	assert.NotContains(t, readme, "manual notes")

	assert.Contains(t, readFile(t, root, "CMakeLists.txt"), "    DESCRIPTION \"TODO\"\n")
	assert.Contains(t, readFile(t, root, "CMakePresets.json"), "\"CMAKE_CXX_STANDARD\": \"26\",")

	for _, rel := range report.SweptFiles {
		content := readFile(t, root, rel)
		assert.NotContains(t, content, "exemplar", rel)
		assert.NotContains(t, content, "EXEMPLAR", rel)
	}
}

func TestRewriter_DryRun(t *testing.T) {
	root := newWorkingCopy(t, "exemplar")
	cfg := config.NewDefaults()
	cfg.Project.Name = "foo"

	rw := &Rewriter{Root: root, Project: cfg.Project, Layout: cfg.Layout, TreeDir: "exemplar", DryRun: true}
	report, err := rw.Run()
	require.NoError(t, err)

	assert.Len(t, report.SweptFiles, 5)
	assert.Equal(t, "# beman.exemplar\nmanual notes\n", readFile(t, root, "README.md"))
	assert.Equal(t, cmakeLists, readFile(t, root, "CMakeLists.txt"))
	assert.Equal(t, presets, readFile(t, root, "CMakePresets.json"))
}

func TestRewriter_MissingBuildFile(t *testing.T) {
	root := newWorkingCopy(t, "foo")
	require.NoError(t, os.Remove(filepath.Join(root, "CMakeLists.txt")))
	cfg := config.NewDefaults()
	cfg.Project.Name = "foo"

	rw := &Rewriter{Root: root, Project: cfg.Project, Layout: cfg.Layout, TreeDir: "foo"}
	report, err := rw.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "README.md", report.Readme, "README was already written")
}

package rewrite

import (
	"fmt"
	"strconv"
	"strings"
)

// RewriteBuildFile rewrites a CMakeLists.txt. Each line containing keyword
// becomes `<indent><keyword> "<desc>"`; every other line has the
// placeholder substituted. It returns the new content and how many
// description lines were replaced.
//
// The description is inserted as given; quotes or CMake-special characters
// in it are not escaped.
func RewriteBuildFile(content, keyword, desc string, r Replacer) (string, int) {
	return rewriteMatching(content, keyword,
		func(string) string {
			return fmt.Sprintf(`%s "%s"`, keyword, desc)
		},
		r.Replace,
	)
}

// RewritePresets rewrites a CMakePresets.json. Each line containing key
// (e.g. `"CMAKE_CXX_STANDARD":`) becomes `<indent><key> "<version>"`, keeping
// a trailing comma if the original line had one. All other lines are left
// byte-identical. It returns the new content and how many lines were
// replaced.
func RewritePresets(content, key string, version int) (string, int) {
	return rewriteMatching(content, key,
		func(body string) string {
			line := key + " " + strconv.Quote(strconv.Itoa(version))
			if strings.HasSuffix(strings.TrimRight(body, " \t"), ",") {
				line += ","
			}
			return line
		},
		func(line string) string { return line },
	)
}

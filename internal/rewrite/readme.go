package rewrite

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/bemanproject/beman-init/internal/config"
)

//go:embed templates/README.md.tmpl
var templateFS embed.FS

var readmeTemplate = template.Must(
	template.New("README.md.tmpl").Option("missingkey=error").ParseFS(templateFS, "templates/README.md.tmpl"),
)

// RenderReadme produces the new project's README.md. The template sees the
// ProjectConfig directly: .Name, .NameUpper, .Owner, .Paper, .Description
// and .CppVersion. Values are inserted verbatim; Markdown or shell
// metacharacters in them are not escaped.
func RenderReadme(p config.ProjectConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := readmeTemplate.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("rendering README: %w", err)
	}
	return buf.Bytes(), nil
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bemanproject/beman-init/internal/bootstrap"
	"github.com/bemanproject/beman-init/internal/config"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // dark gray
)

// renderSummary describes a finished run: what moved, what was rewritten,
// the commit, and what the user still has to do by hand.
func renderSummary(cfg *config.Config, res *bootstrap.Result) string {
	var sb strings.Builder
	p := cfg.Project
	l := cfg.Layout

	if res.DryRun {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("Dry run: beman.%s", p.Name)))
	} else {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("Created beman.%s", p.Name)))
	}
	sb.WriteString("\n\n")

	verb := "Renamed"
	if res.DryRun {
		verb = "Would rename"
	}
	sb.WriteString(verb + ":\n")
	for _, rn := range res.Renames {
		if rn.Noop {
			fmt.Fprintf(&sb, "  %s %s\n", rn.From, dimStyle.Render("(unchanged)"))
			continue
		}
		fmt.Fprintf(&sb, "  %s -> %s\n", rn.From, rn.To)
	}

	verb = "Rewrote"
	if res.DryRun {
		verb = "Would rewrite"
	}
	fmt.Fprintf(&sb, "\n%s %d file(s):\n", verb, len(res.Files))
	for _, f := range res.Files {
		fmt.Fprintf(&sb, "  %s\n", f)
	}

	if res.DryRun {
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render("Nothing was changed."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(okStyle.Render(fmt.Sprintf("Committed %s", res.Commit)))
	fmt.Fprintf(&sb, " %q\n", l.CommitMessage)
	fmt.Fprintf(&sb, "All references to '%s' have been replaced with '%s'.\n", l.Placeholder, p.Name)
	if res.ScriptRemoved {
		fmt.Fprintf(&sb, "%s is no longer tracked; delete it from disk when you are done.\n", l.Script)
	}

	sb.WriteString("\n")
	sb.WriteString(headerStyle.Render("Next steps:"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  1. Replace every 'TODO' with real text, especially in %s.\n", l.Readme)
	sb.WriteString("  2. Replace the template 'identity' entity with your own.\n")
	sb.WriteString("  3. Trim .github/workflows/ci_tests.yml to the C++ version, compiler\n")
	sb.WriteString("     and platform combinations that make sense for the project.\n")
	return sb.String()
}

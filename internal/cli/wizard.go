package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/bemanproject/beman-init/internal/config"
)

// ErrWizardCancelled is returned when the user presses Ctrl+C or declines
// the confirmation.
var ErrWizardCancelled = errors.New("cancelled by user")

const wizardWidth = 80

// projectForm holds the form's string-typed values.
type projectForm struct {
	Name        string
	Owner       string
	Paper       string
	CppVersion  string
	Description string
}

func newProjectForm(p *config.ProjectConfig) *projectForm {
	return &projectForm{
		Name:        p.Name,
		Owner:       p.Owner,
		Paper:       p.Paper,
		CppVersion:  strconv.Itoa(p.CppVersion),
		Description: p.Description,
	}
}

// apply copies the form values back. The values have already passed the
// field validators.
func (f *projectForm) apply(p *config.ProjectConfig) {
	p.Name = strings.TrimSpace(f.Name)
	p.Owner = strings.TrimSpace(f.Owner)
	p.Paper = strings.TrimSpace(f.Paper)
	if n, err := strconv.Atoi(strings.TrimSpace(f.CppVersion)); err == nil {
		p.CppVersion = n
	}
	p.Description = f.Description
}

// RunWizard shows a form pre-filled from p, then a confirmation page, and
// writes the accepted values back into p. It returns ErrWizardCancelled if
// the user aborts; p is left untouched in that case.
func RunWizard(p *config.ProjectConfig) error {
	form := newProjectForm(p)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Same as the GitHub repository name, e.g. 'optional'.").
				Value(&form.Name).
				Validate(validateName),
			huh.NewInput().
				Title("Owner").
				Description("GitHub user or organization the repository lives under.").
				Value(&form.Owner).
				Validate(validateNonEmpty),
			huh.NewInput().
				Title("Paper").
				Description("WG21 paper the library implements, e.g. 'P2988R5'.").
				Value(&form.Paper),
			huh.NewInput().
				Title("C++ version").
				Description("Minimum C++ standard, e.g. 20, 23 or 26.").
				Value(&form.CppVersion).
				Validate(validateCppVersion),
			huh.NewInput().
				Title("Description").
				Description("One line; goes into README.md and CMakeLists.txt.").
				Value(&form.Description),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(wizardWidth).
		Run()
	if err != nil {
		return mapWizardErr(err)
	}

	confirmed := false
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Create project?").
				Description(buildSummary(form)).
				Affirmative("Create").
				Negative("Cancel").
				Value(&confirmed),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(wizardWidth).
		Run()
	if err != nil {
		return mapWizardErr(err)
	}
	if !confirmed {
		return ErrWizardCancelled
	}

	form.apply(p)
	return nil
}

// buildSummary lists the collected values for the confirmation page.
func buildSummary(f *projectForm) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:         %s\n", strings.TrimSpace(f.Name))
	fmt.Fprintf(&sb, "Owner:        %s\n", strings.TrimSpace(f.Owner))
	fmt.Fprintf(&sb, "Paper:        %s\n", strings.TrimSpace(f.Paper))
	fmt.Fprintf(&sb, "C++ version:  %s\n", strings.TrimSpace(f.CppVersion))
	fmt.Fprintf(&sb, "Description:  %s\n", f.Description)
	if flagDryRun {
		sb.WriteString("Mode:         dry run\n")
	}
	return sb.String()
}

// mapWizardErr converts huh's abort error into ErrWizardCancelled.
func mapWizardErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrWizardCancelled
	}
	return fmt.Errorf("wizard: %w", err)
}

func validateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("required")
	}
	if strings.ContainsAny(s, `/\`) {
		return errors.New("must not contain path separators")
	}
	return nil
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateCppVersion(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("must be a number")
	}
	if n <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

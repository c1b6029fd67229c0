package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/thesavant42/fluxgallery/internal/models"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// PromptForToken asks for a bearer token. Input is masked.
func PromptForToken() (string, error) {
	var token string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sign In").
				Description("Paste the access token issued by the image service").
				EchoMode(huh.EchoModePassword).
				Value(&token).
				Validate(func(s string) error {
					if strings.TrimSpace(sanitizeInput(s)) == "" {
						return fmt.Errorf("token cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return strings.TrimSpace(sanitizeInput(token)), nil
}

// ConfirmDelete asks before deleting an image. Cancelling counts as no.
func ConfirmDelete(r models.ImageRecord) (bool, error) {
	var confirmed bool

	prompt := PromptCell(r.Prompt)
	if StringWidth(prompt) > 60 {
		prompt = truncateToWidth(prompt, 60)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete image %d?", r.ID)).
				Description(prompt + "\nThis cannot be undone.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, nil
	}

	return confirmed, nil
}

// PromptForFilename asks user for an export filename
func PromptForFilename(defaultName string) (string, error) {
	var filename string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export Filename").
				Description("Enter the filename for the markdown export").
				Placeholder(defaultName).
				Value(&filename),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return normalizeFilename(filename, defaultName), nil
}

// normalizeFilename falls back to defaultName and adds a .md extension
func normalizeFilename(filename, defaultName string) string {
	filename = strings.TrimSpace(sanitizeInput(filename))
	if filename == "" {
		filename = defaultName
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".md") {
		filename = filename + ".md"
	}
	return filename
}

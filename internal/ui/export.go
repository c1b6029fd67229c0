package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thesavant42/fluxgallery/internal/models"
)

// DefaultExportFilename names an export after the service and the date
func DefaultExportFilename(service string, now time.Time) string {
	name := "fluxgallery"
	if service != "" {
		safe := strings.NewReplacer("/", "-", ":", "-", "\\", "-").Replace(service)
		name = name + "-" + safe
	}
	return fmt.Sprintf("%s-%s.md", name, now.Format("2006-01-02"))
}

// GenerateMarkdown renders the images that match the current query as a
// markdown document, in query order and across all pages.
func GenerateMarkdown(records []models.ImageRecord, state models.QueryState, service string, now time.Time) string {
	var sb strings.Builder

	if service != "" {
		sb.WriteString(fmt.Sprintf("# Flux Gallery: %s\n\n", service))
	} else {
		sb.WriteString("# Flux Gallery\n\n")
	}

	if state.SearchTerm != "" {
		sb.WriteString(fmt.Sprintf("**Search:** %s\n", escapeMarkdownCell(state.SearchTerm)))
	}
	sb.WriteString(fmt.Sprintf("**Sort:** %s\n", state.SortKey.Label()))
	sb.WriteString(fmt.Sprintf("**Images:** %d\n", len(records)))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05")))

	if len(records) == 0 {
		_, hint := EmptyState(state.SearchTerm)
		sb.WriteString("No images found. " + hint + "\n")
		return sb.String()
	}

	sb.WriteString("| ID | Prompt | Dimensions | Size | Created | Image |\n")
	sb.WriteString("|----|--------|------------|------|---------|-------|\n")

	for _, r := range records {
		link := "-"
		if r.DisplayURL != "" {
			link = fmt.Sprintf("[view](%s)", r.DisplayURL)
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			r.ID,
			escapeMarkdownCell(PromptCell(r.Prompt)),
			DimensionsCell(r),
			SizeCell(r.Size),
			FormatTimestamp(r.CreatedAt),
			link))
	}

	return sb.String()
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteMarkdown writes content to path, creating parent directories.
// It returns the absolute path written.
func WriteMarkdown(path, content string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

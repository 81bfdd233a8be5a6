package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

const (
	// DefaultMaxLineLength is the width long error messages are wrapped at.
	DefaultMaxLineLength = 80

	newline = "\n"

	colorRed   = "#FF5F5F"
	colorGray  = "#808080"
	colorGreen = "#5FD787"
)

// FormatterConfig controls how Format renders an error.
type FormatterConfig struct {
	// Verbose adds the explanation, the context table and the stack trace.
	Verbose bool

	// Color is "auto", "always" or "never".
	Color string

	MaxLineLength int
}

func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Color:         "auto",
		MaxLineLength: DefaultMaxLineLength,
	}
}

// Format renders err with its hints and, in verbose mode, its details.
func Format(err error, config FormatterConfig) string {
	if err == nil {
		return ""
	}

	useColor := shouldUseColor(config.Color)
	errorStyle := lipgloss.NewStyle()
	hintStyle := lipgloss.NewStyle()
	if useColor {
		errorStyle = errorStyle.Foreground(lipgloss.Color(colorRed))
		hintStyle = hintStyle.Foreground(lipgloss.Color(colorGray))
	}

	var out strings.Builder
	msg := err.Error()
	if config.MaxLineLength > 0 && len(msg) > config.MaxLineLength && !config.Verbose {
		msg = wrapText(msg, config.MaxLineLength)
	}
	out.WriteString(errorStyle.Render(msg))

	if hints := errors.GetAllHints(err); len(hints) > 0 {
		out.WriteString(newline)
		for _, hint := range hints {
			out.WriteString(hintStyle.Render("    hint: " + hint))
			out.WriteString(newline)
		}
	}

	if !config.Verbose {
		return out.String()
	}

	if details := errors.GetAllDetails(err); len(details) > 0 {
		out.WriteString(newline)
		out.WriteString(strings.Join(details, newline))
		out.WriteString(newline)
	}
	if ctx := formatContextTable(err, useColor); ctx != "" {
		out.WriteString(ctx)
		out.WriteString(newline)
	}
	out.WriteString(newline)
	out.WriteString(formatStackTrace(err, useColor))
	return out.String()
}

// formatContextTable renders the safe details written by ErrorBuilder.WithContext.
func formatContextTable(err error, useColor bool) string {
	var rows [][]string
	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, detail := range payload.SafeDetails {
			for _, pair := range strings.Split(detail, " ") {
				if k, v, ok := strings.Cut(pair, "="); ok {
					rows = append(rows, []string{k, v})
				}
			}
		}
	}
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Context", "Value").
		Rows(rows...)
	if useColor {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			switch {
			case row == table.HeaderRow:
				return style.Foreground(lipgloss.Color(colorGreen)).Bold(true)
			case col == 0:
				return style.Foreground(lipgloss.Color(colorGray))
			default:
				return style
			}
		})
	}
	return newline + t.String()
}

func shouldUseColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// wrapText breaks text on word boundaries so no line exceeds width, unless a single word does.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = DefaultMaxLineLength
	}

	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, newline)
}

func formatStackTrace(err error, useColor bool) string {
	style := lipgloss.NewStyle()
	if useColor {
		style = style.Foreground(lipgloss.Color(colorGray))
	}
	return style.Render(fmt.Sprintf("%+v", err))
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/benjamonnguyen/eisenhower"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
	checked     = '✔'
	unchecked   = '○'
)

type color = string

type palette struct {
	border    lipgloss.Color
	title     lipgloss.Color
	text      lipgloss.Color
	faint     lipgloss.Color
	quadrants [4]lipgloss.Color
}

var palettes = map[eisenhower.Theme]palette{
	eisenhower.ThemeLight: {
		border:    lipgloss.Color("250"),
		title:     lipgloss.Color("236"),
		text:      lipgloss.Color("238"),
		faint:     lipgloss.Color("245"),
		quadrants: [4]lipgloss.Color{"161", "28", "136", "242"},
	},
	eisenhower.ThemeDark: {
		border:    lipgloss.Color("240"),
		title:     lipgloss.Color("254"),
		text:      lipgloss.Color("250"),
		faint:     lipgloss.Color("8"),
		quadrants: [4]lipgloss.Color{"203", "114", "221", "246"},
	},
}

func colorize(c color, s string) string {
	return c + s + colorReset
}

// formatTask renders one numbered task line for the quadrant boxes and list output.
func formatTask(n int, t eisenhower.Task, dateFormat string) string {
	mark := unchecked
	if t.Completed {
		mark = checked
	}
	s := fmt.Sprintf("%d %c %s", n, mark, t.Title)
	if t.DueDate != nil {
		s += fmt.Sprintf(" (due %s)", formatDue(*t.DueDate, dateFormat))
	}
	return s
}

func formatDue(due time.Time, dateFormat string) string {
	return fmt.Sprintf("%s, %s", due.Format(dateFormat), humanize.Time(due))
}

// renderQuadrant draws one box of the matrix. number is the display number
// of the first task in the quadrant.
func renderQuadrant(p eisenhower.Priority, tasks []eisenhower.Task, number int, width int, pal palette, dateFormat string) string {
	idx := 0
	for i, q := range eisenhower.Priorities() {
		if q == p {
			idx = i
		}
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(pal.quadrants[idx])
	textStyle := lipgloss.NewStyle().Foreground(pal.text)
	doneStyle := lipgloss.NewStyle().Foreground(pal.faint).Strikethrough(true)

	lines := []string{titleStyle.Render(fmt.Sprintf("%d. %s", idx+1, p.Label()))}
	if len(tasks) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(pal.faint).Render("(empty)"))
	}
	for i, t := range tasks {
		style := textStyle
		if t.Completed {
			style = doneStyle
		}
		lines = append(lines, style.Render(formatTask(number+i, t, dateFormat)))
		if t.Description != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(pal.faint).Render("    "+t.Description))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.border).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

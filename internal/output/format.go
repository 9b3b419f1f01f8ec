// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"tood/internal/service"
)

// FormatTask formats a task line: "{N:>4}  [x] {TITLE}  (due {DATE})".
// The checkbox reflects completion. The due suffix appears only when a
// due date is set.
func FormatTask(w io.Writer, num int, task service.Task) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%4d  %s %s", num, box, normalizeTitle(task.Title))
	if task.DueDate != nil {
		line += fmt.Sprintf("  (due %s)", task.DueDate.Format("2006-01-02"))
	}
	fmt.Fprintln(w, line)
}

// FormatTaskDetail formats the multi-line detail block printed by the
// show command.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "title: %s\n", normalizeTitle(task.Title))
	if task.Description != "" {
		fmt.Fprintf(w, "description: %s\n", task.Description)
	}
	if task.DueDate != nil {
		fmt.Fprintf(w, "due: %s\n", task.DueDate.Format("2006-01-02"))
	}
	status := "active"
	if task.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "status: %s\n", status)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

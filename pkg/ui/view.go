package ui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.form != nil {
		return m.form.view()
	}

	var b strings.Builder
	header := "Tasks"
	if m.byDue {
		header = "Tasks (by due date)"
	}
	if m.moveMode {
		b.WriteString(moveStyle.Render(header + " — MOVE"))
	} else {
		b.WriteString(titleStyle.Render(header))
	}
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks. Press a to add one."))
		b.WriteString("\n")
	}

	visible := m.visibleRows()
	start, end := m.window(visible)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

func (m Model) renderRow(i int) string {
	t := m.tasks[i]
	now := m.now()

	line := fmt.Sprintf("%d. %s", i+1, t.Title)
	if t.Notes != "" {
		line += " | " + t.Notes
	}

	status := ""
	var style = mutedStyle
	switch {
	case t.Done:
		status = "done"
		style = doneStyle
	case t.Due != "":
		days, _ := daysLeft(t.Due, now)
		line += fmt.Sprintf(" | %s | %d days left", t.Due, days)
		switch {
		case days < 0:
			status = "Overdue"
			style = overdueStyle
		case days <= 4:
			status = "Needs Attention"
			style = soonStyle
		}
	}
	if status != "" {
		line += " | " + status
	}

	rendered := style.Render(line)
	if i == m.cursor {
		return selectedStyle.Render("> " + line)
	}
	return "  " + rendered
}

// visibleRows is how many task lines fit under the chrome.
func (m Model) visibleRows() int {
	rows := m.height - 5
	if rows < 1 {
		rows = len(m.tasks)
	}
	return rows
}

// window keeps the cursor inside the scrolled slice of rows.
func (m Model) window(visible int) (start, end int) {
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end = start + visible
	if end > len(m.tasks) {
		end = len(m.tasks)
	}
	return start, end
}

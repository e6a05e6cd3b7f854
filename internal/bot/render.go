package bot

import (
	"sort"
	"strings"
	"time"

	"github.com/stellarlinkco/taskbot/internal/bus"
	"github.com/stellarlinkco/taskbot/internal/task"
)

const cmdStart = "/start"

// Top-level reply-menu labels.
const (
	menuAdd     = "🆕 Add task"
	menuList    = "📋 Active tasks"
	menuHistory = "📊 Done & canceled"
	menuHelp    = "ℹ️ Help"
)

// Callback tag prefixes. The id or priority name follows the prefix.
const (
	cbPriority     = "priority_"
	cbSetPriority  = "setpriority_"
	cbTask         = "task_"
	cbEditText     = "edit_text_"
	cbEditPriority = "edit_priority_"
	cbEditDeadline = "edit_deadline_"
	cbDone         = "done_"
	cbCancel       = "cancel_"
)

const welcomeText = "Hi! I'm a task planner bot. Here's what I can do:\n" +
	"- 🆕 Add tasks (with a priority button and a deadline)\n" +
	"- 📋 Show your active tasks and edit them\n" +
	"- 📊 Show done and canceled tasks\n" +
	"- ✅ Complete tasks, ❌ cancel them and more\n" +
	"Let's go!"

const deadlinePrompt = "Enter the deadline date and time (example: 25.12.2025 14:30)\n" +
	"Or send 'no' if there is no deadline."

const deadlineFormatWarning = "⚠️ Wrong date/time format. Try again: 25.12.2025 14:30 or 'no'."

const storeErrorText = "Sorry, something went wrong. Please try again."

const previewRunes = 30

func mainMenu() [][]string {
	return [][]string{
		{menuAdd, menuList},
		{menuHistory, menuHelp},
	}
}

func priorityKeyboard(prefix string) [][]bus.Button {
	return [][]bus.Button{{
		{Label: "🔴 High", Data: prefix + string(task.PriorityHigh)},
		{Label: "🟡 Medium", Data: prefix + string(task.PriorityMedium)},
		{Label: "🟢 Low", Data: prefix + string(task.PriorityLow)},
	}}
}

func taskActionKeyboard(rawID string) [][]bus.Button {
	return [][]bus.Button{
		{
			{Label: "✏️ Text", Data: cbEditText + rawID},
			{Label: "🏷️ Priority", Data: cbEditPriority + rawID},
			{Label: "🗓️ Deadline", Data: cbEditDeadline + rawID},
		},
		{
			{Label: "✅ Complete", Data: cbDone + rawID},
			{Label: "❌ Cancel", Data: cbCancel + rawID},
		},
	}
}

// taskPreview renders the selectable list entry for a task.
func taskPreview(t task.Task) string {
	preview := t.Text
	if runes := []rune(preview); len(runes) > previewRunes {
		preview = string(runes[:previewRunes])
	}
	priority := string(t.Priority)
	if priority == "" {
		priority = "none"
	}
	return preview + "... (priority: " + priority + ")"
}

// parseDeadline validates deadline input. "no"/"нет" (any case) clears
// the deadline; otherwise the input must parse as DD.MM.YYYY HH:MM and
// is re-encoded in sortable year-first form.
func parseDeadline(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	switch strings.ToLower(trimmed) {
	case "no", "нет":
		return "", true
	}
	parsed, err := time.Parse("02.01.2006 15:04", trimmed)
	if err != nil {
		return "", false
	}
	return parsed.Format("2006-01-02 15:04"), true
}

func formatHistory(done, canceled map[string][]task.Task) string {
	var sb strings.Builder
	sb.WriteString("📊 Done and canceled tasks:\n\n")

	for _, date := range sortedDates(done) {
		sb.WriteString("📅 " + date + " (✅ Done):\n")
		for _, t := range done[date] {
			writeHistoryLine(&sb, t)
		}
	}
	for _, date := range sortedDates(canceled) {
		sb.WriteString("\n📅 " + date + " (❌ Canceled):\n")
		for _, t := range canceled[date] {
			writeHistoryLine(&sb, t)
		}
	}
	return sb.String()
}

func writeHistoryLine(sb *strings.Builder, t task.Task) {
	sb.WriteString("  - " + t.Text)
	if t.Priority != task.PriorityNone {
		sb.WriteString(" [Priority: " + string(t.Priority) + "]")
	}
	if t.DueAt != "" {
		sb.WriteString(" [Due: " + t.DueAt + "]")
	}
	sb.WriteString("\n")
}

func sortedDates(grouped map[string][]task.Task) []string {
	dates := make([]string, 0, len(grouped))
	for date := range grouped {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

package bot

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-manager/internal/model"
	"task-manager/internal/view"
)

const (
	iconOpen = "⬜"
	iconDone = "✅"
)

type categoryGroup struct {
	Name  string
	Tasks []model.Task
}

// groupByCategory buckets tasks by category name. Groups are sorted by name,
// tasks inside a group by id.
func groupByCategory(tasks []model.Task) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, task := range tasks {
		name := strings.TrimSpace(task.Category.Name)
		key := strings.ToLower(name)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, categoryGroup{Name: name})
		}
		groups[i].Tasks = append(groups[i].Tasks, task)
	}

	sort.Slice(groups, func(i, j int) bool {
		return strings.Compare(groups[i].Name, groups[j].Name) < 0
	})
	for _, group := range groups {
		sort.SliceStable(group.Tasks, func(i, j int) bool {
			return group.Tasks[i].ID < group.Tasks[j].ID
		})
	}
	return groups
}

// renderList builds the /tasks message and its toggle and delete buttons.
func renderList(state view.ListState) (string, tgbotapi.InlineKeyboardMarkup) {
	markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}

	switch state.Status {
	case view.StatusLoading:
		return "Loading...", markup
	case view.StatusFailed:
		return fmt.Sprintf("Something went wrong: %s", escape(state.Err)), markup
	}
	if len(state.Tasks) == 0 {
		return "You have no tasks. Add one with /newtask.", markup
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Tasks</b>\n")
	builder.WriteString("Use the buttons to mark a task done or delete it.\n\n")

	for _, group := range groupByCategory(state.Tasks) {
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", categoryLabel(group.Name)))
		for _, task := range group.Tasks {
			builder.WriteString(formatTask(task))

			toggle := fmt.Sprintf("%s #%d · %s", iconDone, task.ID, shortTitle(task.Title, 20))
			if task.Completed {
				toggle = fmt.Sprintf("↩️ #%d · %s", task.ID, shortTitle(task.Title, 20))
			}
			markup.InlineKeyboard = append(markup.InlineKeyboard, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(toggle, fmt.Sprintf("%s%d", cbTogglePrefix, task.ID)),
				tgbotapi.NewInlineKeyboardButtonData("\U0001F5D1 Delete", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)),
			))
		}
		builder.WriteByte('\n')
	}
	return strings.TrimSpace(builder.String()), markup
}

func formatTask(task model.Task) string {
	var b strings.Builder
	icon := iconOpen
	title := escape(normalizeTitle(task.Title))
	if task.Completed {
		icon = iconDone
		title = "<s>" + title + "</s>"
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", icon, task.ID, title))
	if task.Description != "" {
		b.WriteString(fmt.Sprintf("   📝 %s\n", escape(task.Description)))
	}
	return b.String()
}

func escape(s string) string {
	return html.EscapeString(s)
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func categoryLabel(name string) string {
	base := strings.TrimSpace(name)
	var icon string
	switch strings.ToLower(base) {
	case "personal":
		icon = "🧩"
	case "work":
		icon = "💼"
	case "school":
		icon = "🎓"
	case "hobby":
		icon = "🎨"
	default:
		icon = "🏷️"
	}
	return fmt.Sprintf("%s %s", icon, escape(normalizeTitle(base)))
}

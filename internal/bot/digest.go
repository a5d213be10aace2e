package bot

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"task-manager/internal/model"
)

// Digest summarizes the open tasks grouped by category.
func Digest(tasks []model.Task, now time.Time) string {
	var open []model.Task
	for _, task := range tasks {
		if !task.Completed {
			open = append(open, task)
		}
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Task digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	if len(open) == 0 {
		builder.WriteString("— no open tasks\n")
		return strings.TrimSpace(builder.String())
	}

	builder.WriteString(fmt.Sprintf("🔥 <b>Open tasks: %d</b>\n\n", len(open)))
	for _, group := range groupByCategory(open) {
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", categoryLabel(group.Name)))
		for _, task := range group.Tasks {
			builder.WriteString(formatTask(task))
		}
		builder.WriteByte('\n')
	}
	return strings.TrimSpace(builder.String())
}

// SendDigests sends the digest to every chat that ran /start.
func (b *Bot) SendDigests(ctx context.Context) error {
	chats := b.subscriptions()
	if len(chats) == 0 {
		return nil
	}

	tasks, err := b.tasks.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("list tasks for digest: %w", err)
	}
	text := Digest(tasks, time.Now())

	for _, chatID := range chats {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(chatID, text); err != nil {
			log.Printf("[error] send digest to %d: %v", chatID, err)
		}
	}
	return nil
}

func (b *Bot) subscribe(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[chatID] = struct{}{}
}

func (b *Bot) subscriptions() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	chats := make([]int64, 0, len(b.subscribers))
	for id := range b.subscribers {
		chats = append(chats, id)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
	return chats
}

package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/model"
	"task-manager/internal/view"
)

const chatID int64 = 100

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
	acks int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := c.(tgbotapi.CallbackConfig); ok {
		f.acks++
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	switch m := f.last().(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	default:
		t.Fatalf("unexpected message %T", m)
		return ""
	}
}

type fakeTasks struct {
	mu        sync.Mutex
	tasks     []model.Task
	nextID    uint
	created   []model.TaskInput
	createErr error
	updates   int
	deletes   int
}

func category(id uint) model.Category {
	for _, def := range model.DefaultCategories {
		if def.ID == id {
			return def
		}
	}
	return model.Category{ID: id}
}

func (f *fakeTasks) ListTasks(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Task(nil), f.tasks...), nil
}

func (f *fakeTasks) CreateTask(ctx context.Context, input model.TaskInput) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	task := model.Task{ID: f.nextID, Title: input.Title, Description: input.Description, CategoryID: input.CategoryID, Category: category(input.CategoryID)}
	f.tasks = append(f.tasks, task)
	return &task, nil
}

func (f *fakeTasks) UpdateTask(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if patch.Completed != nil {
				f.tasks[i].Completed = *patch.Completed
			}
			task := f.tasks[i]
			return &task, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeTasks) DeleteTask(ctx context.Context, id uint) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	for i, task := range f.tasks {
		if task.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return &task, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeTasks) ListCategories(ctx context.Context) ([]model.Category, error) {
	return model.DefaultCategories, nil
}

func newTestBot() (*Bot, *fakeSender, *fakeTasks) {
	s := &fakeSender{}
	tasks := &fakeTasks{}
	return newBot(s, tasks), s, tasks
}

func textMessage(text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 7, FirstName: "Sam"},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return tgbotapi.Update{Message: msg}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{MessageID: 55, Chat: &tgbotapi.Chat{ID: chatID, Type: "private"}},
		Data:    data,
	}}
}

func TestBot_NewTaskFlow(t *testing.T) {
	ctx := context.Background()
	b, s, tasks := newTestBot()

	b.handleUpdate(ctx, textMessage("/newtask"))
	assert.Contains(t, s.lastText(t), "Step 1")
	b.handleUpdate(ctx, textMessage("buy milk"))
	assert.Contains(t, s.lastText(t), "Step 2")
	b.handleUpdate(ctx, textMessage("2%"))
	assert.Contains(t, s.lastText(t), "Step 3")
	b.handleUpdate(ctx, textMessage("Work"))

	require.Len(t, tasks.created, 1)
	assert.Equal(t, model.TaskInput{Title: "buy milk", Description: "2%", CategoryID: 2}, tasks.created[0])
	assert.Equal(t, stageNone, b.stage(chatID))
	assert.Equal(t, view.Draft{}, b.controller(chatID).Draft())

	list, ok := s.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, list.Text, "Buy milk")
	markup, ok := list.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "toggle:1", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "delete:1", *markup.InlineKeyboard[0][1].CallbackData)
}

func TestBot_UnofferedCategoryAsksAgain(t *testing.T) {
	ctx := context.Background()
	b, s, tasks := newTestBot()

	for _, text := range []string{"/newtask", "title", "body", "Gardening"} {
		b.handleUpdate(ctx, textMessage(text))
	}
	assert.Empty(t, tasks.created)
	assert.Equal(t, stageCategory, b.stage(chatID))
	assert.Contains(t, s.lastText(t), "pick a category")

	b.handleUpdate(ctx, textMessage("hobby"))
	require.Len(t, tasks.created, 1)
	assert.Equal(t, uint(4), tasks.created[0].CategoryID)
}

func TestBot_CreateFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	b, s, tasks := newTestBot()
	tasks.createErr = errors.New("unavailable")

	for _, text := range []string{"/newtask", "title", "body", "School"} {
		b.handleUpdate(ctx, textMessage(text))
	}
	require.Len(t, tasks.created, 1)
	assert.Equal(t, stageCategory, b.stage(chatID))
	assert.Equal(t, view.Draft{Title: "title", Description: "body", CategoryID: 3}, b.controller(chatID).Draft())
	assert.NotContains(t, s.lastText(t), "unavailable")

	tasks.createErr = nil
	b.handleUpdate(ctx, textMessage("School"))
	assert.Len(t, tasks.created, 2)
	assert.Equal(t, stageNone, b.stage(chatID))
}

func TestBot_Cancel(t *testing.T) {
	ctx := context.Background()
	b, s, _ := newTestBot()

	b.handleUpdate(ctx, textMessage("/newtask"))
	b.handleUpdate(ctx, textMessage("title"))
	b.handleUpdate(ctx, textMessage(btnCancelDialog))
	assert.Equal(t, stageNone, b.stage(chatID))
	assert.Equal(t, view.Draft{}, b.controller(chatID).Draft())
	assert.Contains(t, s.lastText(t), "cancelled")
}

func TestBot_ToggleAndDeleteCallbacks(t *testing.T) {
	ctx := context.Background()
	b, s, tasks := newTestBot()
	tasks.tasks = []model.Task{{ID: 1, Title: "a", Category: category(1)}, {ID: 2, Title: "b", Category: category(2)}}
	tasks.nextID = 2

	b.handleUpdate(ctx, textMessage("/tasks"))

	b.handleUpdate(ctx, callback("toggle:1"))
	assert.Equal(t, 1, tasks.updates)
	assert.True(t, tasks.tasks[0].Completed)
	edit, ok := s.last().(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 55, edit.MessageID)
	assert.Contains(t, edit.Text, "<s>A</s>")

	b.handleUpdate(ctx, callback("delete:2"))
	assert.Equal(t, 1, tasks.deletes)
	assert.Len(t, tasks.tasks, 1)
	assert.NotContains(t, s.lastText(t), "#2")
	assert.Equal(t, 2, s.acks)
}

func TestBot_CallbackBeforeListLoads(t *testing.T) {
	ctx := context.Background()
	b, _, tasks := newTestBot()
	tasks.tasks = []model.Task{{ID: 3, Title: "c", Category: category(3)}}

	b.handleUpdate(ctx, callback("toggle:3"))
	assert.True(t, tasks.tasks[0].Completed)
}

func TestBot_Categories(t *testing.T) {
	ctx := context.Background()
	b, s, _ := newTestBot()

	b.handleUpdate(ctx, textMessage("/categories"))
	text := s.lastText(t)
	for _, def := range model.DefaultCategories {
		assert.Contains(t, text, def.Name)
	}
}

func TestBot_DigestGoesToSubscribers(t *testing.T) {
	ctx := context.Background()
	b, s, tasks := newTestBot()
	tasks.tasks = []model.Task{
		{ID: 1, Title: "open", Category: category(1)},
		{ID: 2, Title: "done", Completed: true, Category: category(1)},
	}

	require.NoError(t, b.SendDigests(ctx))
	assert.Empty(t, s.sent)

	b.handleUpdate(ctx, textMessage("/start"))
	sentBefore := len(s.sent)
	require.NoError(t, b.SendDigests(ctx))
	require.Len(t, s.sent, sentBefore+1)

	msg := s.last().(tgbotapi.MessageConfig)
	assert.Equal(t, chatID, msg.ChatID)
	assert.Contains(t, msg.Text, "Open")
	assert.NotContains(t, msg.Text, "Done")
}

func TestDigest(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	text := Digest(nil, now)
	assert.Contains(t, text, "2025-03-14")
	assert.Contains(t, text, "no open tasks")

	text = Digest([]model.Task{
		{ID: 5, Title: "write report", Category: category(2)},
		{ID: 2, Title: "call mom", Description: "sunday", Category: category(1)},
		{ID: 3, Title: "paint", Completed: true, Category: category(4)},
	}, now)
	assert.Contains(t, text, "Open tasks: 2")
	assert.Less(t, strings.Index(text, "Personal"), strings.Index(text, "Work"))
	assert.Contains(t, text, "📝 sunday")
	assert.NotContains(t, text, "Hobby")
}

func TestCategoryValue(t *testing.T) {
	assert.Equal(t, "1", categoryValue("Personal"))
	assert.Equal(t, "4", categoryValue(" hobby "))
	assert.Equal(t, "2", categoryValue("2"))
	assert.Equal(t, "Select a category", categoryValue("Select a category"))
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "Short", shortTitle("short", 10))
	assert.Equal(t, "Abcd…", shortTitle("abcdefgh", 5))
}

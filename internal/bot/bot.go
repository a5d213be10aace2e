package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-manager/internal/model"
	"task-manager/internal/view"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stageCategory
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "delete:"
)

// TaskAPI is what the bot needs from the task manager.
type TaskAPI interface {
	view.API
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// sender is the part of tgbotapi.BotAPI used to talk to chats.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot serves the task manager over Telegram. Every chat gets its own
// view.Controller holding that chat's draft and task list.
type Bot struct {
	api    *tgbotapi.BotAPI
	client sender
	tasks  TaskAPI

	mu            sync.Mutex
	conversations map[int64]conversationStage
	controllers   map[int64]*view.Controller
	subscribers   map[int64]struct{}
}

func New(token string, tasks TaskAPI) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, tasks)
	b.api = api
	return b, nil
}

func newBot(client sender, tasks TaskAPI) *Bot {
	return &Bot{
		client:        client,
		tasks:         tasks,
		conversations: make(map[int64]conversationStage),
		controllers:   make(map[int64]*view.Controller),
		subscribers:   make(map[int64]struct{}),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}

	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
			log.Printf("[error] handle callback: %v", err)
		}
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("[error] handle message: %v", err)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		return b.cancel(chatID)
	}

	if msg.IsCommand() {
		log.Printf("[info] command from chat=%d: /%s", chatID, msg.Command())
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	if stage := b.stage(chatID); stage != stageNone {
		return b.handleConversation(ctx, chatID, stage, strings.TrimSpace(msg.Text))
	}

	return b.sendText(chatID, "I didn't get that. Send /newtask to add a task or /help for the list of commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(chatID)
	case "newtask":
		return b.startNewTask(chatID)
	case "tasks":
		return b.handleListTasks(ctx, chatID)
	case "categories":
		return b.handleCategories(ctx, chatID)
	case "cancel":
		return b.cancel(chatID)
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	b.subscribe(msg.Chat.ID)

	name := "there"
	if msg.From != nil && strings.TrimSpace(msg.From.FirstName) != "" {
		name = strings.TrimSpace(msg.From.FirstName)
	}

	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep track of your tasks.</b>\n"+
		"You will get a digest of open tasks from time to time.\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

const helpText = "Commands:\n" +
	"• /newtask — add a task step by step\n" +
	"• /tasks — show tasks, toggle or delete them with the buttons\n" +
	"• /categories — list categories\n" +
	"• /cancel — cancel the current input\n" +
	"• /help — this message"

func (b *Bot) handleHelp(chatID int64) error {
	return b.sendText(chatID, "ℹ️ <b>Help</b>\n"+helpText)
}

func (b *Bot) cancel(chatID int64) error {
	b.setStage(chatID, stageNone)
	b.controller(chatID).Dispatch(view.Reset{})
	return b.sendText(chatID, "⏪ Task input cancelled.")
}

func (b *Bot) startNewTask(chatID int64) error {
	log.Printf("[info] start new task conversation chat=%d", chatID)
	b.controller(chatID).Dispatch(view.Reset{})
	b.setStage(chatID, stageTitle)
	return b.sendWithReplyMarkup(chatID, "🆕 New task.\n<b>Step 1:</b> what is the title?", cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, chatID int64, stage conversationStage, text string) error {
	ctrl := b.controller(chatID)

	switch stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The title can't be empty. What is the title?", cancelKeyboard())
		}
		ctrl.Dispatch(view.FieldChanged{Field: view.FieldTitle, Value: text})
		b.setStage(chatID, stageDescription)
		return b.sendWithReplyMarkup(chatID, "<b>Step 2:</b> add a short description.", cancelKeyboard())
	case stageDescription:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The description can't be empty. Add a short description.", cancelKeyboard())
		}
		ctrl.Dispatch(view.FieldChanged{Field: view.FieldDescription, Value: text})
		b.setStage(chatID, stageCategory)
		return b.sendWithReplyMarkup(chatID, "<b>Step 3:</b> pick a category.", categoryKeyboard())
	case stageCategory:
		ctrl.Dispatch(view.FieldChanged{Field: view.FieldCategory, Value: categoryValue(text)})
		return b.finishTask(ctx, chatID, ctrl)
	default:
		b.setStage(chatID, stageNone)
		return b.sendText(chatID, "Input was reset. Start again with /newtask.")
	}
}

// finishTask submits the chat's draft. When the draft is refused the category
// question is asked again and the draft stays as it is.
func (b *Bot) finishTask(ctx context.Context, chatID int64, ctrl *view.Controller) error {
	task, err := ctrl.Submit(ctx)
	if err != nil {
		return b.sendWithReplyMarkup(chatID, "<b>Step 3:</b> pick a category.", categoryKeyboard())
	}
	b.setStage(chatID, stageNone)

	log.Printf("[info] task created id=%d chat=%d", task.ID, chatID)
	summary := fmt.Sprintf("✅ <b>Task saved</b>\n• <b>ID:</b> %d\n• <b>Title:</b> %s\n• <b>Category:</b> %s",
		task.ID, escape(normalizeTitle(task.Title)), categoryLabel(task.Category.Name))
	if err := b.sendText(chatID, summary); err != nil {
		return err
	}
	return b.sendTaskList(chatID, ctrl.List())
}

func (b *Bot) handleListTasks(ctx context.Context, chatID int64) error {
	ctrl := b.controller(chatID)
	ctrl.Mount(ctx)
	return b.sendTaskList(chatID, ctrl.List())
}

func (b *Bot) handleCategories(ctx context.Context, chatID int64) error {
	categories, err := b.tasks.ListCategories(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Couldn't load categories: %s", escape(err.Error())))
	}
	if len(categories) == 0 {
		return b.sendText(chatID, "There are no categories yet.")
	}
	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, cat := range categories {
		builder.WriteString(fmt.Sprintf("• %s\n", categoryLabel(cat.Name)))
	}
	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

func (b *Bot) sendTaskList(chatID int64, state view.ListState) error {
	text, markup := renderList(state)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(markup.InlineKeyboard) > 0 {
		msg.ReplyMarkup = markup
	} else {
		msg.ReplyMarkup = mainMenuKeyboard()
	}
	_, err := b.client.Send(msg)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.client.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("[error] callback ack: %v", err)
	}

	chatID := cb.Message.Chat.ID
	ctrl := b.controller(chatID)
	if ctrl.List().Status != view.StatusReady {
		ctrl.Mount(ctx)
	}

	var err error
	switch {
	case strings.HasPrefix(cb.Data, cbTogglePrefix):
		taskID, perr := parseTaskID(cb.Data, cbTogglePrefix)
		if perr != nil {
			return nil
		}
		log.Printf("[info] callback toggle chat=%d task=%d", chatID, taskID)
		err = ctrl.Toggle(ctx, taskID)
	case strings.HasPrefix(cb.Data, cbDeletePrefix):
		taskID, perr := parseTaskID(cb.Data, cbDeletePrefix)
		if perr != nil {
			return nil
		}
		log.Printf("[info] callback delete chat=%d task=%d", chatID, taskID)
		err = ctrl.Delete(ctx, taskID)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return b.editTaskList(chatID, cb.Message.MessageID, ctrl.List())
}

func (b *Bot) editTaskList(chatID int64, messageID int, state view.ListState) error {
	text, markup := renderList(state)
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup)
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := b.client.Send(edit)
	return err
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	if b.stage(msg.Chat.ID) != stageNone {
		return false, nil
	}
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTask(msg.Chat.ID)
	case strings.ToLower(menuLabelTasks):
		return true, b.handleListTasks(ctx, msg.Chat.ID)
	case strings.ToLower(menuLabelCategories):
		return true, b.handleCategories(ctx, msg.Chat.ID)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg.Chat.ID)
	default:
		return false, nil
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.client.Send(msg)
	return err
}

func (b *Bot) controller(chatID int64) *view.Controller {
	b.mu.Lock()
	defer b.mu.Unlock()
	ctrl, ok := b.controllers[chatID]
	if !ok {
		ctrl = view.NewController(b.tasks)
		b.controllers[chatID] = ctrl
	}
	return ctrl
}

func (b *Bot) stage(chatID int64) conversationStage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[chatID]
}

func (b *Bot) setStage(chatID int64, stage conversationStage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if stage == stageNone {
		delete(b.conversations, chatID)
		return
	}
	b.conversations[chatID] = stage
}

func parseTaskID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

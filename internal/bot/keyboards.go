package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-manager/internal/view"
)

const (
	btnCancelDialog     = "⏪ Cancel input"
	menuLabelNewTask    = "➕ New task"
	menuLabelTasks      = "📋 Tasks"
	menuLabelCategories = "📂 Categories"
	menuLabelHelp       = "ℹ️ Help"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelNewTask),
			tgbotapi.NewKeyboardButton(menuLabelTasks),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCategories),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancelDialog),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// categoryKeyboard offers the fixed category choices, two per row. The
// placeholder option is not offered.
func categoryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, opt := range view.Categories {
		if opt.ID == 0 {
			continue
		}
		row = append(row, tgbotapi.NewKeyboardButton(opt.Label))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancelDialog)))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// categoryValue turns a category button label into the picker value. Other
// text is passed through for the draft reducer to judge.
func categoryValue(text string) string {
	value := strings.TrimSpace(text)
	for _, opt := range view.Categories {
		if opt.ID != 0 && strings.EqualFold(value, opt.Label) {
			return strconv.FormatUint(uint64(opt.ID), 10)
		}
	}
	return value
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancelDialog) || value == "cancel"
}

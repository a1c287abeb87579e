package model

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot API methods the bot calls.
const (
	MethodSendMessage         = "sendMessage"
	MethodEditMessageText     = "editMessageText"
	MethodAnswerCallbackQuery = "answerCallbackQuery"
)

const ParseModeHTML = tgbotapi.ModeHTML

// Button is either a callback button (CallbackData set) or a link button (URL set).
type Button struct {
	Label        string
	CallbackData string
	URL          string
}

func CallbackButton(label, data string) Button {
	return Button{Label: label, CallbackData: data}
}

func URLButton(label, url string) Button {
	return Button{Label: label, URL: url}
}

// Keyboard is an inline keyboard: ordered rows of ordered buttons.
type Keyboard [][]Button

// Markup converts the keyboard to the Bot API reply_markup shape.
func (k Keyboard) Markup() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(k))
	for _, row := range k {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.CallbackData))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// OutboundRequest is one call to the Bot API.
type OutboundRequest struct {
	Method          string
	ChatID          int64
	MessageID       int64
	Text            string
	ParseMode       string
	Keyboard        Keyboard
	CallbackQueryID string
}

// Params renders the JSON body for the request's method.
func (r OutboundRequest) Params() map[string]any {
	p := make(map[string]any)
	if r.Method == MethodAnswerCallbackQuery {
		p["callback_query_id"] = r.CallbackQueryID
		if r.Text != "" {
			p["text"] = r.Text
		}
		return p
	}

	p["chat_id"] = r.ChatID
	p["text"] = r.Text
	if r.MessageID != 0 {
		p["message_id"] = r.MessageID
	}
	if r.ParseMode != "" {
		p["parse_mode"] = r.ParseMode
	}
	if len(r.Keyboard) > 0 {
		p["reply_markup"] = r.Keyboard.Markup()
	}
	return p
}

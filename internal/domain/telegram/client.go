package telegram

import "gopkg.in/telebot.v3"

// Sender delivers operator messages to a Telegram chat.
type Sender interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}

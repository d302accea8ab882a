package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the middleware replies through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Middleware wraps update handling.
type Middleware interface {
	Handle(update tgbotapi.Update, next func(tgbotapi.Update))
}

// Chain applies middleware in order; the first one sees the update first.
func Chain(handler func(tgbotapi.Update), mws ...Middleware) func(tgbotapi.Update) {
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], handler
		handler = func(u tgbotapi.Update) {
			mw.Handle(u, next)
		}
	}
	return handler
}

// ids extracts the sender and chat of a message update.
func ids(update tgbotapi.Update) (userID, chatID int64, ok bool) {
	msg := update.Message
	if msg == nil {
		return 0, 0, false
	}
	if msg.From != nil {
		userID = msg.From.ID
	}
	if msg.Chat != nil {
		chatID = msg.Chat.ID
	}
	return userID, chatID, true
}

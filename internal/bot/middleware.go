package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// withTyping shows the typing indicator before the handler runs. Composed
// around every dispatched handler.
func (b *Bot) withTyping(next handlerFunc) handlerFunc {
	return func(message *tgbotapi.Message) {
		action := tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping)
		if _, err := b.api.Request(action); err != nil {
			b.log.Warn().Err(err).Int64("chat_id", message.Chat.ID).Msg("sending chat action")
		}

		next(message)
	}
}

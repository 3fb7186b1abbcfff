package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// choicesKeyboard renders a constrained one-time keyboard, one option per
// row. Used for the category selection prompt.
func choicesKeyboard(choices []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, choice := range choices {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(choice),
		))
	}

	return tgbotapi.NewOneTimeReplyKeyboard(rows...)
}

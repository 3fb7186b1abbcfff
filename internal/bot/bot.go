package bot

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/finance_chat_bot/internal/logger"
	"github.com/ivanoskov/finance_chat_bot/internal/model"
	"github.com/ivanoskov/finance_chat_bot/internal/service"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	dialogs *service.DialogManager
	log     *logger.Logger
}

func NewBot(token string, dialogs *service.DialogManager, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:     api,
		dialogs: dialogs,
		log:     log,
	}, nil
}

// Start runs the bot in long polling mode.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		b.handleUpdate(update)
	}

	return nil
}

// HandleWebhook is the entry point for incoming webhook updates.
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	b.handleUpdate(update)
	return nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	b.withTyping(b.route(update.Message))(update.Message)
}

type handlerFunc func(*tgbotapi.Message)

// route picks the handler for a message. Commands map to flow entry points;
// everything else continues the sender's current dialogue, whatever it is.
func (b *Bot) route(message *tgbotapi.Message) handlerFunc {
	if !message.IsCommand() {
		return b.onText
	}

	switch message.Command() {
	case "start":
		return b.onStart
	case "help":
		return b.onHelp
	case "login":
		return b.onLogin
	case "getbudgets":
		return b.onBudgets
	case "getcategories":
		return b.onCategories
	case "addincome":
		return b.onAddIncome
	case "addexpense":
		return b.onAddExpense
	default:
		// unknown commands are state-interpreted like any other text:
		// field data mid-flow, "unknown command" when idle
		return b.onText
	}
}

func (b *Bot) onStart(message *tgbotapi.Message) {
	reply := b.dialogs.Greet(context.Background(), username(message), fullName(message))
	b.send(message.Chat.ID, reply)
}

func (b *Bot) onHelp(message *tgbotapi.Message) {
	b.send(message.Chat.ID, b.dialogs.Help())
}

func (b *Bot) onLogin(message *tgbotapi.Message) {
	b.send(message.Chat.ID, b.dialogs.BeginLogin(username(message)))
}

func (b *Bot) onBudgets(message *tgbotapi.Message) {
	reply := b.dialogs.ShowBudgets(context.Background(), username(message))
	b.send(message.Chat.ID, reply)
}

func (b *Bot) onCategories(message *tgbotapi.Message) {
	reply := b.dialogs.ShowCategories(context.Background(), username(message))
	b.send(message.Chat.ID, reply)
}

func (b *Bot) onAddIncome(message *tgbotapi.Message) {
	reply := b.dialogs.BeginTransaction(context.Background(), username(message), model.FlowAddIncome)
	b.send(message.Chat.ID, reply)
}

func (b *Bot) onAddExpense(message *tgbotapi.Message) {
	reply := b.dialogs.BeginTransaction(context.Background(), username(message), model.FlowAddExpense)
	b.send(message.Chat.ID, reply)
}

func (b *Bot) onText(message *tgbotapi.Message) {
	reply := b.dialogs.HandleText(context.Background(), username(message), message.Text)
	b.send(message.Chat.ID, reply)
}

func (b *Bot) send(chatID int64, reply service.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Choices) > 0 {
		msg.ReplyMarkup = choicesKeyboard(reply.Choices)
	}
	if reply.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	if _, err := b.api.Send(msg); err != nil {
		b.log.Err(err).Int64("chat_id", chatID).Msg("sending message")
	}
}

// username is the stable identity string credentials are keyed by, falling
// back to the numeric id for users without a public username.
func username(message *tgbotapi.Message) string {
	if message.From.UserName != "" {
		return "@" + message.From.UserName
	}
	return strconv.FormatInt(message.From.ID, 10)
}

func fullName(message *tgbotapi.Message) string {
	return strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
}

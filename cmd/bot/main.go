package main

import (
	"context"

	"github.com/ivanoskov/finance_chat_bot/internal/bot"
	"github.com/ivanoskov/finance_chat_bot/internal/config"
	"github.com/ivanoskov/finance_chat_bot/internal/finance"
	"github.com/ivanoskov/finance_chat_bot/internal/logger"
	"github.com/ivanoskov/finance_chat_bot/internal/repository"
	"github.com/ivanoskov/finance_chat_bot/internal/service"
)

func main() {
	log := logger.NewLogger("bot")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	repo, err := repository.NewSQLiteRepository(context.Background(), cfg.SQLitePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("opening credential store")
	}
	defer repo.Close()

	client := finance.NewClient(cfg.FinanceAPIURL, cfg.FinanceAPITimeout)
	dialogs := service.NewDialogManager(client, repo, log)

	b, err := bot.NewBot(cfg.TelegramToken, dialogs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("starting bot")
	}

	log.Info().Msg("bot started in long polling mode")
	if err := b.Start(); err != nil {
		log.Fatal().Err(err).Msg("bot stopped")
	}
}

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

// Request is the incoming API gateway request.
type Request struct {
	Body string `json:"body"`
}

// Response is the API gateway response.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler processes one webhook update per invocation.
func Handler(ctx context.Context, request Request) (*Response, error) {
	log := logger.NewLogger("function")

	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return errorResponse(err)
	}

	client := finance.NewClient(cfg.FinanceAPIURL, cfg.FinanceAPITimeout)
	dialogs := service.NewDialogManager(client, repo, log)

	b, err := bot.NewBot(cfg.TelegramToken, dialogs, log)
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// entry point for local testing only; the platform invokes Handler
}

package repository

import (
	"context"
	"errors"

	"github.com/ivanoskov/finance_chat_bot/internal/model"
)

// ErrNoCredential is returned by Get when the user has never logged in.
var ErrNoCredential = errors.New("no credential stored")

// CredentialRepository persists the mapping from a chat username to the
// remote finance api key. Save is an upsert: re-login replaces the stored
// key and never produces a second row for the same username.
type CredentialRepository interface {
	Get(ctx context.Context, username string) (model.UserCredential, error)
	Save(ctx context.Context, username, apiKey string) error
}

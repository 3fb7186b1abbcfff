package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"github.com/ivanoskov/finance_chat_bot/internal/model"
)

// SupabaseRepository stores credentials in a supabase "users" table. Used by
// the serverless entry point, which has no local filesystem to keep a
// database in.
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

func (r *SupabaseRepository) Get(ctx context.Context, username string) (model.UserCredential, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Eq("username", username).
		Limit(1, "").
		Execute()
	if err != nil {
		return model.UserCredential{}, fmt.Errorf("reading credential: %w", err)
	}

	var creds []model.UserCredential
	if err := json.Unmarshal(data, &creds); err != nil {
		return model.UserCredential{}, fmt.Errorf("parsing credential: %w", err)
	}
	if len(creds) == 0 {
		return model.UserCredential{}, ErrNoCredential
	}

	return creds[0], nil
}

func (r *SupabaseRepository) Save(ctx context.Context, username, apiKey string) error {
	cred := model.UserCredential{Username: username, APIKey: apiKey}

	// upsert on the username conflict key, so concurrent saves cannot
	// produce duplicate rows
	_, _, err := r.client.From("users").
		Insert(cred, true, "username", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}

	return nil
}

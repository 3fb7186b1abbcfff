// Package finance is the client for the remote finance ledger service.
//
// The client is stateless: every call carries the caller's api key and no
// session affinity exists between calls. Callers treat every returned error
// the same way, whether it was a transport failure, a non-success status or
// a malformed body; the service deliberately does not distinguish "key is
// wrong" from "server is down".
package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ivanoskov/finance_chat_bot/internal/model"
)

// Client talks to the remote finance service.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the service at baseURL. Every request is
// bounded by timeout; a request that outlives it fails like any other
// remote error.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
	}
}

// Session is the result of a successful login.
type Session struct {
	APIKey string `json:"api_key"`
}

// Created describes a transaction accepted by the remote side.
type Created struct {
	ID string `json:"id"`
}

// Login exchanges a user-supplied secret for the canonical api key. An error
// means the secret was not accepted; it is not a retryable condition.
func (c *Client) Login(ctx context.Context, secret string) (Session, error) {
	var session Session
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"api_key": secret}).
		SetResult(&session).
		Post("/login")
	if err != nil {
		return Session{}, fmt.Errorf("login request: %w", err)
	}
	if resp.IsError() {
		return Session{}, fmt.Errorf("login: remote returned %s", resp.Status())
	}
	if session.APIKey == "" {
		return Session{}, fmt.Errorf("login: no api key in response")
	}

	return session, nil
}

// Budgets lists the budgets visible to the given api key.
func (c *Client) Budgets(ctx context.Context, apiKey string) ([]model.Budget, error) {
	var budgets []model.Budget
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", apiKey).
		SetResult(&budgets).
		Get("/budget")
	if err != nil {
		return nil, fmt.Errorf("budgets request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("budgets: remote returned %s", resp.Status())
	}

	return budgets, nil
}

// Categories lists the categories visible to the given api key.
func (c *Client) Categories(ctx context.Context, apiKey string) ([]model.Category, error) {
	var categories []model.Category
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", apiKey).
		SetResult(&categories).
		Get("/category")
	if err != nil {
		return nil, fmt.Errorf("categories request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("categories: remote returned %s", resp.Status())
	}

	return categories, nil
}

// PostTransaction submits a fully-built draft. The remote side effect may
// have happened even when an error is returned, so callers must never
// resubmit automatically.
func (c *Client) PostTransaction(ctx context.Context, apiKey string, draft model.TransactionDraft) (Created, error) {
	var created Created
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", apiKey).
		SetBody(draft).
		SetResult(&created).
		Post("/transaction")
	if err != nil {
		return Created{}, fmt.Errorf("transaction request: %w", err)
	}
	if resp.IsError() {
		return Created{}, fmt.Errorf("transaction: remote returned %s", resp.Status())
	}

	return created, nil
}

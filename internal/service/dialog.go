// Package service holds the conversation state machine driving the bot's
// multi-turn dialogues.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ivanoskov/finance_chat_bot/internal/finance"
	"github.com/ivanoskov/finance_chat_bot/internal/logger"
	"github.com/ivanoskov/finance_chat_bot/internal/model"
	"github.com/ivanoskov/finance_chat_bot/internal/repository"
)

// FinanceAPI is the slice of the remote ledger the dialogues need.
type FinanceAPI interface {
	Login(ctx context.Context, secret string) (finance.Session, error)
	Budgets(ctx context.Context, apiKey string) ([]model.Budget, error)
	Categories(ctx context.Context, apiKey string) ([]model.Category, error)
	PostTransaction(ctx context.Context, apiKey string, draft model.TransactionDraft) (finance.Created, error)
}

// CredentialStore is the credential persistence the dialogues need.
type CredentialStore interface {
	Get(ctx context.Context, username string) (model.UserCredential, error)
	Save(ctx context.Context, username, apiKey string) error
}

// Reply is what the transport should show the user. Choices, when present,
// are rendered as a constrained choice keyboard.
type Reply struct {
	Text     string
	Choices  []string
	Markdown bool
}

const (
	msgProvideKey     = "Provide api key:"
	msgBadKey         = "Bad api key. Retry again."
	msgLoggedIn       = "You are logged in. Use /help to see available commands."
	msgNotLoggedIn    = "You are not logged in. Just use /login command and provide your api key."
	msgProvideTitle   = "Provide title"
	msgChooseCategory = "Choose category:"
	msgProvideAmount  = "Provide amount"
	msgInvalidAmount  = "Amount must be a positive number. Provide amount"
	msgCreated        = "Created!"
	msgRemoteFailed   = "Something went wrong. Try again later."
	msgNoBudgets      = "You have no budgets yet."
	msgNoCategories   = "You have no categories yet."
)

const helpText = "*Commands:*\n" +
	"/login - authenticate with your api key\n" +
	"/getbudgets - list your budgets\n" +
	"/getcategories - list your categories\n" +
	"/addincome - record an income\n" +
	"/addexpense - record an expense"

// DialogManager is the per-user conversation state machine. Each incoming
// message is interpreted in the context of the sender's current state: the
// same literal text means different things mid-login, mid-flow or idle.
//
// All processing for one user is serialized by that user's session lock,
// held across the remote calls, so at most one state transition is in
// flight per user at any time. Different users proceed independently.
type DialogManager struct {
	api   FinanceAPI
	creds CredentialStore
	log   *logger.Logger
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// session carries one user's conversation state and the lock serializing
// that user's processing.
type session struct {
	mu    sync.Mutex
	state model.ConversationState
}

func NewDialogManager(api FinanceAPI, creds CredentialStore, log *logger.Logger) *DialogManager {
	return &DialogManager{
		api:      api,
		creds:    creds,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (m *DialogManager) session(username string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[username]
	if !ok {
		s = &session{}
		m.sessions[username] = s
	}
	return s
}

// Greet handles /start: any in-progress dialogue is dropped and the user is
// told whether they are logged in.
func (m *DialogManager) Greet(ctx context.Context, username, fullName string) Reply {
	s := m.session(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()

	status := msgNotLoggedIn
	if _, err := m.creds.Get(ctx, username); err == nil {
		status = msgLoggedIn
	}

	return Reply{Text: fmt.Sprintf("Hi, %s!\n%s", fullName, status)}
}

// Help returns the static command summary.
func (m *DialogManager) Help() Reply {
	return Reply{Text: helpText, Markdown: true}
}

// BeginLogin handles /login: the next free-text message will be treated as
// the user's api key.
func (m *DialogManager) BeginLogin(username string) Reply {
	s := m.session(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Reset()
	s.state.Flow = model.FlowLogin

	return Reply{Text: msgProvideKey}
}

// BeginTransaction starts an add_income or add_expense flow. The flow is
// gated on a stored credential; without one no state transition happens.
func (m *DialogManager) BeginTransaction(ctx context.Context, username string, flow model.Flow) Reply {
	s := m.session(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()

	if _, err := m.creds.Get(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNoCredential) {
			return Reply{Text: msgNotLoggedIn}
		}
		m.log.Err(err).Str("username", username).Msg("reading credential")
		return Reply{Text: msgRemoteFailed}
	}

	s.state.Flow = flow
	s.state.Step = 0
	s.state.Draft = make(map[string]string)

	return Reply{Text: msgProvideTitle}
}

// ShowBudgets handles /getbudgets.
func (m *DialogManager) ShowBudgets(ctx context.Context, username string) Reply {
	s := m.session(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()

	cred, err := m.creds.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNoCredential) {
			return Reply{Text: msgNotLoggedIn}
		}
		m.log.Err(err).Str("username", username).Msg("reading credential")
		return Reply{Text: msgRemoteFailed}
	}

	budgets, err := m.api.Budgets(ctx, cred.APIKey)
	if err != nil {
		m.log.Err(err).Str("username", username).Msg("listing budgets")
		return Reply{Text: msgRemoteFailed}
	}
	if len(budgets) == 0 {
		return Reply{Text: msgNoBudgets}
	}

	var sb strings.Builder
	sb.WriteString("Your budgets:\n")
	for _, budget := range budgets {
		fmt.Fprintf(&sb, "• %s: %s to %s\n", budget.Name, budget.PeriodStart, budget.PeriodEnd)
	}

	return Reply{Text: sb.String()}
}

// ShowCategories handles /getcategories.
func (m *DialogManager) ShowCategories(ctx context.Context, username string) Reply {
	s := m.session(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()

	cred, err := m.creds.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNoCredential) {
			return Reply{Text: msgNotLoggedIn}
		}
		m.log.Err(err).Str("username", username).Msg("reading credential")
		return Reply{Text: msgRemoteFailed}
	}

	categories, err := m.api.Categories(ctx, cred.APIKey)
	if err != nil {
		m.log.Err(err).Str("username", username).Msg("listing categories")
		return Reply{Text: msgRemoteFailed}
	}
	if len(categories) == 0 {
		return Reply{Text: msgNoCategories}
	}

	var sb strings.Builder
	sb.WriteString("Your categories:\n")
	for _, category := range categories {
		fmt.Fprintf(&sb, "• %s\n", category.Type)
	}

	return Reply{Text: sb.String()}
}

// HandleText continues whatever dialogue the user is in. State decides the
// meaning of the text; content is only looked at afterwards.
func (m *DialogManager) HandleText(ctx context.Context, username, text string) Reply {
	s := m.session(username)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.Flow {
	case model.FlowLogin:
		return m.finishLogin(ctx, s, username, text)
	case model.FlowAddIncome, model.FlowAddExpense:
		return m.collectField(ctx, s, username, text)
	default:
		return Reply{Text: unknownCommand(text)}
	}
}

// finishLogin treats the text as the user's secret. One attempt only: a
// rejected key resets to idle and the user re-issues /login.
func (m *DialogManager) finishLogin(ctx context.Context, s *session, username, secret string) Reply {
	s.state.Reset()

	sess, err := m.api.Login(ctx, secret)
	if err != nil {
		m.log.Warn().Err(err).Str("username", username).Msg("login rejected")
		return Reply{Text: msgBadKey}
	}

	if err := m.creds.Save(ctx, username, sess.APIKey); err != nil {
		m.log.Err(err).Str("username", username).Msg("saving credential")
		return Reply{Text: msgRemoteFailed}
	}

	m.log.Info().Str("username", username).Msg("user logged in")
	return Reply{Text: msgLoggedIn}
}

// collectField consumes one field of the active transaction flow.
func (m *DialogManager) collectField(ctx context.Context, s *session, username, text string) Reply {
	st := &s.state

	switch model.TransactionFields[st.Step] {
	case "title":
		st.Draft["title"] = text

		// the category prompt offers live remote options, so the list is
		// fetched before advancing
		cred, err := m.creds.Get(ctx, username)
		if err != nil {
			st.Reset()
			if errors.Is(err, repository.ErrNoCredential) {
				return Reply{Text: msgNotLoggedIn}
			}
			m.log.Err(err).Str("username", username).Msg("reading credential")
			return Reply{Text: msgRemoteFailed}
		}

		categories, err := m.api.Categories(ctx, cred.APIKey)
		if err != nil {
			st.Reset()
			m.log.Err(err).Str("username", username).Msg("listing categories")
			return Reply{Text: msgRemoteFailed}
		}

		st.Choices = make([]string, 0, len(categories))
		for _, category := range categories {
			st.Choices = append(st.Choices, category.Type)
		}
		st.Step++

		return Reply{Text: msgChooseCategory, Choices: st.Choices}

	case "category":
		if !contains(st.Choices, text) {
			// re-offer rather than abandon: the user already answered once
			return Reply{Text: msgChooseCategory, Choices: st.Choices}
		}
		st.Draft["category"] = text
		st.Step++

		return Reply{Text: msgProvideAmount}

	case "amount":
		// validate only; the user's exact text is what gets submitted
		amount, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil || !amount.IsPositive() {
			return Reply{Text: msgInvalidAmount}
		}
		st.Draft["amount"] = strings.TrimSpace(text)

		return m.submit(ctx, s, username)
	}

	st.Reset()
	return Reply{Text: unknownCommand(text)}
}

// submit assembles the draft and posts it once. The draft is cleared and the
// state returns to idle regardless of outcome; a failed post is reported,
// never retried, since the remote side effect may already have happened.
func (m *DialogManager) submit(ctx context.Context, s *session, username string) Reply {
	st := &s.state

	draft := model.TransactionDraft{
		Title:    st.Draft["title"],
		Category: st.Draft["category"],
		Amount:   st.Draft["amount"],
		Type:     st.Flow.TransactionType(),
	}
	draft.GenerateID()
	draft.StampDate(m.now())
	st.Reset()

	cred, err := m.creds.Get(ctx, username)
	if err != nil {
		m.log.Err(err).Str("username", username).Msg("reading credential")
		return Reply{Text: msgRemoteFailed}
	}

	created, err := m.api.PostTransaction(ctx, cred.APIKey, draft)
	if err != nil {
		m.log.Err(err).Str("username", username).Msg("posting transaction")
		return Reply{Text: msgRemoteFailed}
	}

	m.log.Info().
		Str("username", username).
		Str("transaction_id", created.ID).
		Str("type", draft.Type).
		Msg("transaction created")

	return Reply{Text: msgCreated}
}

func unknownCommand(text string) string {
	return fmt.Sprintf("I don't know %q command :(", text)
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

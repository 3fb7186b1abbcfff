package model

// Flow identifies the multi-turn dialogue a user is currently in.
type Flow string

const (
	FlowNone       Flow = ""
	FlowLogin      Flow = "login"
	FlowAddIncome  Flow = "add_income"
	FlowAddExpense Flow = "add_expense"
)

// TransactionFields is the ordered field sequence collected by the
// add_income and add_expense flows, one field per incoming message.
var TransactionFields = []string{"title", "category", "amount"}

// TransactionType returns the transaction type a flow produces, or "" for
// flows that do not build a transaction.
func (f Flow) TransactionType() string {
	switch f {
	case FlowAddIncome:
		return "income"
	case FlowAddExpense:
		return "expense"
	}
	return ""
}

// ConversationState tracks where a single user is inside a flow. It lives
// in memory only; a restart drops every in-progress dialogue.
//
// Draft is non-nil exactly while a transaction flow is active. Choices caches
// the category options offered to the user so their answer can be checked
// against what they were shown.
type ConversationState struct {
	Flow    Flow
	Step    int
	Draft   map[string]string
	Choices []string
}

// Reset returns the state to idle, discarding any in-progress draft.
func (s *ConversationState) Reset() {
	s.Flow = FlowNone
	s.Step = 0
	s.Draft = nil
	s.Choices = nil
}

// Idle reports whether no flow is in progress.
func (s *ConversationState) Idle() bool {
	return s.Flow == FlowNone
}

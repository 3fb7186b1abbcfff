package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionDraft is the fully assembled record submitted to the finance
// service. It is built entirely client-side from the collected fields plus a
// client-stamped date and id; it is submitted whole or not at all.
type TransactionDraft struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	Type       string `json:"type"` // "income" or "expense"
	OccurredOn string `json:"occurred_on"`
}

// GenerateID assigns a new UUID if the draft has none yet.
func (d *TransactionDraft) GenerateID() {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
}

// StampDate records the submission date on the draft.
func (d *TransactionDraft) StampDate(now time.Time) {
	d.OccurredOn = now.Format("2006-01-02")
}

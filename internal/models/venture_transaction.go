package models

import (
	"time"

	"github.com/google/uuid"
)

type VentureTransactionType string

const (
	VentureTransactionTypeContribution VentureTransactionType = "CONTRIBUTION"
	VentureTransactionTypePurchase     VentureTransactionType = "PURCHASE"
	VentureTransactionTypeCashout      VentureTransactionType = "CASHOUT"
	VentureTransactionTypeRefund       VentureTransactionType = "REFUND"
)

// VentureTransaction is one entry in a venture's append-only money ledger.
// Amount is signed: positive rows are inflows (contributions), negative rows
// are outflows (purchases, refunds, cashouts). The venture balance is the
// plain sum over all rows.
type VentureTransaction struct {
	ID        uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	VentureID uint                   `gorm:"not null;index" json:"venture_id"`
	Type      VentureTransactionType `gorm:"size:50;not null;index" json:"type"`
	Username  string                 `gorm:"size:255" json:"username"` // display name
	Amount    int64                  `gorm:"not null" json:"amount"`
	Label     string                 `gorm:"size:255" json:"label"`
	CreatedAt time.Time              `gorm:"index" json:"created_at"`
}

func (VentureTransaction) TableName() string {
	return "venture_transactions"
}

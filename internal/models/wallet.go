package models

import (
	"time"

	"github.com/google/uuid"
)

type WalletTransactionType string

const (
	WalletTransactionTypeTopup  WalletTransactionType = "TOPUP"
	WalletTransactionTypeDeduct WalletTransactionType = "DEDUCT"
)

// Wallet holds a user's current balance. The balance is kept alongside the
// append-only transaction log and updated in the same database transaction
// as every log append.
type Wallet struct {
	AuthUsername string    `gorm:"size:255;primaryKey" json:"auth_username"`
	Balance      int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// WalletTransaction is one entry in a user's append-only wallet history.
// Amount is always positive; the type carries the direction.
type WalletTransaction struct {
	ID           uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	AuthUsername string                `gorm:"size:255;not null;index" json:"auth_username"`
	Type         WalletTransactionType `gorm:"size:50;not null" json:"type"`
	Amount       int64                 `gorm:"not null" json:"amount"`
	Label        string                `gorm:"size:255" json:"label"`
	CreatedAt    time.Time             `gorm:"index" json:"created_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

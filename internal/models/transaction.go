package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

type Transaction struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID       `json:"userId" gorm:"type:uuid;index;not null"`
	GoalID     *uuid.UUID      `json:"goalId" gorm:"type:uuid;index"`
	Type       string          `json:"type" gorm:"not null"` // income, expense
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);not null"`
	Category   string          `json:"category" gorm:"not null;default:'other'"`
	Note       *string         `json:"note"`
	Date       string          `json:"date" gorm:"size:10;index;not null"`
	ReceiptURL *string         `json:"receiptUrl"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Transaction DTOs
type CreateTransactionRequest struct {
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Note     *string         `json:"note"`
	Date     string          `json:"date"`
	GoalID   *uuid.UUID      `json:"goalId"`
}

type UpdateTransactionRequest struct {
	Type     *string          `json:"type"`
	Amount   *decimal.Decimal `json:"amount"`
	Category *string          `json:"category"`
	Note     *string          `json:"note"`
	Date     *string          `json:"date"`
	GoalID   *uuid.UUID       `json:"goalId"`
}

type FinanceSummary struct {
	Month      string                     `json:"month"`
	Income     decimal.Decimal            `json:"income"`
	Expense    decimal.Decimal            `json:"expense"`
	Balance    decimal.Decimal            `json:"balance"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/forge-app/forge-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MonthLayout = "2006-01"

// MonthBounds returns the first and last day keys of a YYYY-MM month.
func MonthBounds(month string) (string, string, error) {
	start, err := time.ParseInLocation(MonthLayout, month, time.UTC)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	end := start.AddDate(0, 1, -1)
	return DayKey(start), DayKey(end), nil
}

// MonthSummary totals a user's transactions for one month. Category totals
// cover expenses only.
func MonthSummary(ctx context.Context, db *gorm.DB, userID uuid.UUID, month string) (models.FinanceSummary, error) {
	from, to, err := MonthBounds(month)
	if err != nil {
		return models.FinanceSummary{}, err
	}

	var txns []models.Transaction
	if err := db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Find(&txns).Error; err != nil {
		return models.FinanceSummary{}, err
	}

	summary := models.FinanceSummary{
		Month:      month,
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		ByCategory: make(map[string]decimal.Decimal),
	}
	for _, t := range txns {
		switch t.Type {
		case models.TransactionIncome:
			summary.Income = summary.Income.Add(t.Amount)
		case models.TransactionExpense:
			summary.Expense = summary.Expense.Add(t.Amount)
			summary.ByCategory[t.Category] = summary.ByCategory[t.Category].Add(t.Amount)
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary, nil
}

package handlers

import (
	"strings"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/forge-app/forge-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func validTransactionType(t string) bool {
	return t == models.TransactionIncome || t == models.TransactionExpense
}

// GetTransactions lists transactions newest first, optionally narrowed by
// ?from=, ?to= (inclusive day keys), ?type= and ?category=.
func GetTransactions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if from := c.Query("from"); from != "" {
		if _, err := services.ParseDay(from); err != nil {
			return badRequest("from must be YYYY-MM-DD")
		}
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		if _, err := services.ParseDay(to); err != nil {
			return badRequest("to must be YYYY-MM-DD")
		}
		query = query.Where("date <= ?", to)
	}
	if t := c.Query("type"); t != "" {
		if !validTransactionType(t) {
			return badRequest("type must be income or expense")
		}
		query = query.Where("type = ?", t)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var txns []models.Transaction
	if err := query.Order("date DESC, created_at DESC").Find(&txns).Error; err != nil {
		return storageError("load transactions", err)
	}
	return c.JSON(txns)
}

func CreateTransaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if !validTransactionType(req.Type) {
		return badRequest("Type must be income or expense")
	}
	if !req.Amount.IsPositive() {
		return badRequest("Amount must be greater than zero")
	}
	tz, err := tzOffset(c, userID)
	if err != nil {
		return err
	}
	date, err := services.NormalizeDay(req.Date, tz, now())
	if err != nil {
		return badRequest("Invalid date")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "other"
	}
	if err := checkGoalLink(req.GoalID, userID); err != nil {
		return err
	}

	txn := models.Transaction{
		UserID:   userID,
		GoalID:   req.GoalID,
		Type:     req.Type,
		Amount:   req.Amount,
		Category: category,
		Note:     req.Note,
		Date:     date,
	}
	if err := database.DB.Create(&txn).Error; err != nil {
		return storageError("create transaction", err)
	}

	WS.Send(userID, WSEvent{Type: EventTransactionUpdated, Data: txn})
	return c.Status(fiber.StatusCreated).JSON(txn)
}

func UpdateTransaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	txnID, err := parseID(c, "id", "transaction")
	if err != nil {
		return err
	}

	var txn models.Transaction
	if err := findOwned(&txn, txnID, userID, "Transaction"); err != nil {
		return err
	}

	var req models.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	if req.Type != nil {
		if !validTransactionType(*req.Type) {
			return badRequest("Type must be income or expense")
		}
		txn.Type = *req.Type
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return badRequest("Amount must be greater than zero")
		}
		txn.Amount = *req.Amount
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			category = "other"
		}
		txn.Category = category
	}
	if req.Note != nil {
		txn.Note = req.Note
	}
	if req.Date != nil {
		d, err := services.ParseDay(*req.Date)
		if err != nil {
			return badRequest("Date must be YYYY-MM-DD")
		}
		txn.Date = services.DayKey(d)
	}
	if req.GoalID != nil {
		if err := checkGoalLink(req.GoalID, userID); err != nil {
			return err
		}
		txn.GoalID = req.GoalID
	}

	if err := database.DB.Save(&txn).Error; err != nil {
		return storageError("update transaction", err)
	}

	WS.Send(userID, WSEvent{Type: EventTransactionUpdated, Data: txn})
	return c.JSON(txn)
}

func DeleteTransaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	txnID, err := parseID(c, "id", "transaction")
	if err != nil {
		return err
	}

	var txn models.Transaction
	if err := findOwned(&txn, txnID, userID, "Transaction"); err != nil {
		return err
	}

	if err := database.DB.Delete(&txn).Error; err != nil {
		return storageError("delete transaction", err)
	}

	WS.Send(userID, WSEvent{Type: EventTransactionDeleted, Data: fiber.Map{"id": txn.ID}})
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

// GetFinanceSummary totals ?month=YYYY-MM, the client's current month by default.
func GetFinanceSummary(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	month := c.Query("month")
	if month == "" {
		tz, err := tzOffset(c, userID)
		if err != nil {
			return err
		}
		month = services.ClientDay(now(), tz).Format(services.MonthLayout)
	}

	summary, err := services.MonthSummary(c.UserContext(), database.DB, userID, month)
	if err != nil {
		if _, _, perr := services.MonthBounds(month); perr != nil {
			return badRequest("month must be YYYY-MM")
		}
		return storageError("load finance summary", err)
	}
	return c.JSON(summary)
}

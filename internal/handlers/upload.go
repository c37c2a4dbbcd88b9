package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/middleware"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxReceiptSize = 5 * 1024 * 1024

// UploadDir is where receipt images are written; it is served under /uploads.
var UploadDir = "uploads"

var receiptExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".pdf": true}

// UploadReceipt attaches an image or PDF to a transaction.
func UploadReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	txnID, err := parseID(c, "id", "transaction")
	if err != nil {
		return err
	}

	var txn models.Transaction
	if err := findOwned(&txn, txnID, userID, "Transaction"); err != nil {
		return err
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return badRequest("No receipt file provided")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !receiptExtensions[ext] {
		return badRequest("Only jpg, png, webp and pdf receipts are allowed")
	}
	if file.Size > maxReceiptSize {
		return badRequest("Receipt must be under 5MB")
	}

	if err := os.MkdirAll(UploadDir, 0755); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create uploads directory")
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveFile(file, filepath.Join(UploadDir, filename)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save receipt")
	}

	url := "/uploads/" + filename
	if err := database.DB.Model(&txn).Update("receipt_url", url).Error; err != nil {
		return storageError("update transaction", err)
	}
	txn.ReceiptURL = &url

	WS.Send(userID, WSEvent{Type: EventTransactionUpdated, Data: txn})
	return c.JSON(txn)
}

package handlers

import (
	"errors"
	"strconv"

	"celora/internal/repositories"
	"celora/internal/services/card"
	"celora/internal/services/ledger"
	"celora/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TransactionHandler serves the transaction posting and history endpoints.
type TransactionHandler struct {
	cards        card.Service
	ledger       ledger.Service
	transactions repositories.TransactionRepository
}

func NewTransactionHandler(cards card.Service, ledgerSvc ledger.Service, transactions repositories.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{
		cards:        cards,
		ledger:       ledgerSvc,
		transactions: transactions,
	}
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		CardID           uint                   `json:"card_id"`
		Type             string                 `json:"type"`
		Amount           string                 `json:"amount"`
		Currency         string                 `json:"currency"`
		MerchantName     string                 `json:"merchant_name"`
		MerchantCategory string                 `json:"merchant_category"`
		Description      string                 `json:"description"`
		Metadata         map[string]interface{} `json:"metadata"`
		Source           string                 `json:"source"`
		Destination      string                 `json:"destination"`
		Fee              string                 `json:"fee"`
		Confirmation     float64                `json:"confirmation"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}
	fee := decimal.Zero
	if input.Fee != "" {
		if fee, err = decimal.NewFromString(input.Fee); err != nil {
			return response.BadRequest(c, "Invalid fee")
		}
	}

	tx, assessment, err := h.cards.CreateTransaction(c.Context(), claims.UserID, input.CardID, card.CreateTransactionInput{
		Type:             input.Type,
		Amount:           amount,
		Currency:         input.Currency,
		MerchantName:     input.MerchantName,
		MerchantCategory: input.MerchantCategory,
		Description:      input.Description,
		Metadata:         input.Metadata,
		Source:           input.Source,
		Destination:      input.Destination,
		Fee:              fee,
		Confirmation:     input.Confirmation,
	})
	if err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound), errors.Is(err, ledger.ErrCardNotFound):
			return response.NotFound(c, "Card not found")
		case errors.Is(err, card.ErrNotOwner):
			return response.Forbidden(c, "Access denied")
		case errors.Is(err, ledger.ErrRiskBlocked):
			return response.Error(c, fiber.StatusUnprocessableEntity, "Transaction blocked by risk scoring")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return response.BadRequest(c, "Insufficient funds")
		case errors.Is(err, ledger.ErrInvalidAmount),
			errors.Is(err, ledger.ErrInvalidOperation),
			errors.Is(err, ledger.ErrCurrencyMismatch),
			errors.Is(err, ledger.ErrCardClosed):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, ledger.ErrConflict):
			return response.Conflict(c, "Concurrent balance update, retry")
		}
		return response.ServerError(c, "Failed to process transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Transaction processed",
		"data": fiber.Map{
			"transaction": tx,
			"risk":        assessment,
		},
	})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transaction id")
	}

	tx, err := h.transactions.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		return response.ServerError(c, "Failed to get transaction")
	}
	if tx.UserID != claims.UserID && claims.Role != "admin" {
		return response.Forbidden(c, "Access denied")
	}

	return response.Success(c, "Transaction retrieved", tx)
}

func (h *TransactionHandler) ListCardTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	cardID, err := parseCardID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card id")
	}

	if _, err := h.cards.GetCard(c.Context(), cardID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound):
			return response.NotFound(c, "Card not found")
		case errors.Is(err, card.ErrNotOwner):
			return response.Forbidden(c, "Access denied")
		}
		return response.ServerError(c, "Failed to get card")
	}

	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := h.transactions.GetByCardIDPaged(c.Context(), cardID, limit, offset)
	if err != nil {
		return response.ServerError(c, "Failed to list transactions")
	}

	return response.Success(c, "Transactions retrieved", fiber.Map{
		"transactions": txs,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *TransactionHandler) ReverseTransaction(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transaction id")
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	tx, err := h.ledger.Reverse(c.Context(), uint(id), claims.UserID, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTransactionNotFound):
			return response.NotFound(c, "Transaction not found")
		case errors.Is(err, ledger.ErrInvalidOperation):
			return response.Conflict(c, err.Error())
		case errors.Is(err, ledger.ErrConflict):
			return response.Conflict(c, "Concurrent balance update, retry")
		}
		return response.ServerError(c, "Failed to reverse transaction")
	}

	return response.Success(c, "Transaction reversed", tx)
}

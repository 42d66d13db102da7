package handlers

import (
	"errors"
	"strconv"

	"celora/internal/models"
	"celora/internal/repositories"
	"celora/internal/services/card"
	"celora/internal/services/ledger"
	"celora/internal/services/topup"
	"celora/internal/utils"
	"celora/internal/utils/response"
	"celora/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CardHandler serves the virtual card lifecycle endpoints.
type CardHandler struct {
	cards  card.Service
	ledger ledger.Service
	topups topup.Service
	links  repositories.LinkRepository
}

func NewCardHandler(cards card.Service, ledgerSvc ledger.Service, topups topup.Service, links repositories.LinkRepository) *CardHandler {
	return &CardHandler{
		cards:  cards,
		ledger: ledgerSvc,
		topups: topups,
		links:  links,
	}
}

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func parseCardID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *CardHandler) CreateCard(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	newCard, err := h.cards.CreateCard(c.Context(), claims.UserID, input.Currency)
	if err != nil {
		if errors.Is(err, card.ErrInvalidCurrency) {
			return response.BadRequest(c, "Unsupported currency")
		}
		return response.ServerError(c, "Failed to create card")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Card created",
		"data":    newCard,
	})
}

func (h *CardHandler) GetCard(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	cardID, err := parseCardID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card id")
	}

	found, err := h.cards.GetCard(c.Context(), cardID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound):
			return response.NotFound(c, "Card not found")
		case errors.Is(err, card.ErrNotOwner):
			return response.Forbidden(c, "Access denied")
		}
		return response.ServerError(c, "Failed to get card")
	}

	return response.Success(c, "Card retrieved", found)
}

func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	cards, err := h.cards.ListCards(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to list cards")
	}

	return response.Success(c, "Cards retrieved", cards)
}

func (h *CardHandler) UpdateStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	cardID, err := parseCardID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card id")
	}

	var input struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.cards.UpdateCardStatus(c.Context(), cardID, claims.UserID, input.Status, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound):
			return response.NotFound(c, "Card not found")
		case errors.Is(err, card.ErrNotOwner):
			return response.Forbidden(c, "Access denied")
		case errors.Is(err, card.ErrIllegalTransition):
			return response.Conflict(c, err.Error())
		}
		return response.ServerError(c, "Failed to update card status")
	}

	return response.Success(c, "Card status updated", result)
}

func (h *CardHandler) AddFunds(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	cardID, err := parseCardID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card id")
	}

	// Ownership check before touching the balance path.
	if _, err := h.cards.GetCard(c.Context(), cardID, claims.UserID); err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound):
			return response.NotFound(c, "Card not found")
		case errors.Is(err, card.ErrNotOwner):
			return response.Forbidden(c, "Access denied")
		}
		return response.ServerError(c, "Failed to get card")
	}

	var input struct {
		Amount     string `json:"amount"`
		Currency   string `json:"currency"`
		SourceType string `json:"source_type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return response.BadRequest(c, card.AmountMustBePositive)
	}

	result, err := h.cards.AddFunds(c.Context(), cardID, amount, input.Currency, input.SourceType)
	if err != nil {
		return response.ServerError(c, "Failed to add funds")
	}
	if !result.Success {
		return response.BadRequest(c, result.Reason)
	}

	return response.Success(c, "Funds added", result)
}

func (h *CardHandler) Reconcile(c *fiber.Ctx) error {
	cardID, err := parseCardID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid card id")
	}

	result, err := h.ledger.ReconcileCard(c.Context(), cardID)
	if err != nil {
		if errors.Is(err, ledger.ErrCardNotFound) {
			return response.NotFound(c, "Card not found")
		}
		return response.ServerError(c, "Failed to reconcile card")
	}

	return response.Success(c, "Reconciliation complete", result)
}

func (h *CardHandler) CreateLink(c *fiber.Ctx) error {
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

	var input struct {
		FundingWalletRef string `json:"funding_wallet_ref"`
		FundingCurrency  string `json:"funding_currency"`
		FundingExpiry    string `json:"funding_expiry"`
		AutoTopupEnabled bool   `json:"auto_topup_enabled"`
		Threshold        string `json:"threshold"`
		TopupAmount      string `json:"topup_amount"`
		Pin              string `json:"pin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if input.FundingWalletRef == "" {
		return response.BadRequest(c, "Funding wallet reference is required")
	}
	// Card-number style references must pass a checksum and carry an
	// unexpired date.
	if len(input.FundingWalletRef) >= 13 && len(input.FundingWalletRef) <= 19 {
		if !validation.LuhnValid(input.FundingWalletRef) {
			return response.BadRequest(c, "Invalid funding card number")
		}
		if input.FundingExpiry == "" {
			return response.BadRequest(c, "Funding card expiry is required")
		}
	}
	if input.FundingExpiry != "" {
		if err := validation.ValidateExpiry(input.FundingExpiry); err != nil {
			return response.BadRequest(c, err.Error())
		}
	}

	threshold := decimal.Zero
	topupAmount := decimal.Zero
	if input.Threshold != "" {
		if threshold, err = decimal.NewFromString(input.Threshold); err != nil {
			return response.BadRequest(c, "Invalid threshold")
		}
	}
	if input.TopupAmount != "" {
		if topupAmount, err = decimal.NewFromString(input.TopupAmount); err != nil {
			return response.BadRequest(c, "Invalid top-up amount")
		}
	}

	link := &models.CardWalletLink{
		CardID:           cardID,
		UserID:           claims.UserID,
		FundingWalletRef: input.FundingWalletRef,
		FundingCurrency:  input.FundingCurrency,
		FundingExpiry:    input.FundingExpiry,
		AutoTopupEnabled: input.AutoTopupEnabled,
		Threshold:        threshold,
		TopupAmount:      topupAmount,
	}
	if input.Pin != "" {
		hash, herr := utils.HashPin(input.Pin)
		if herr != nil {
			return response.ServerError(c, "Failed to secure pin")
		}
		link.PinHash = hash
	}

	if err := h.links.CreateLink(link); err != nil {
		return response.ServerError(c, "Failed to create link")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Link created",
		"data":    link,
	})
}

func (h *CardHandler) EvaluateTopup(c *fiber.Ctx) error {
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

	var input struct {
		Pin string `json:"pin"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request format")
		}
	}

	cx, err := h.topups.EvaluateCard(c.Context(), cardID, input.Pin)
	if err != nil {
		switch {
		case errors.Is(err, topup.ErrLinkNotFound):
			return response.NotFound(c, "Card has no funding link")
		case errors.Is(err, topup.ErrPinInvalid):
			return response.Forbidden(c, "Invalid funding link pin")
		case errors.Is(err, topup.ErrLinkLocked):
			return response.Error(c, fiber.StatusLocked, "Funding link locked after repeated failed pin attempts")
		case errors.Is(err, topup.ErrUpstreamTimeout):
			return response.Error(c, fiber.StatusServiceUnavailable, "Funding source unavailable, held for review")
		case errors.Is(err, topup.ErrConversionFailed):
			return response.Conflict(c, err.Error())
		}
		return response.ServerError(c, "Failed to evaluate top-up")
	}
	if cx == nil {
		return response.Success(c, "No top-up required", nil)
	}

	return response.Success(c, "Top-up executed", cx)
}

// ListConversions returns the cross-platform conversion history for a card.
func (h *CardHandler) ListConversions(c *fiber.Ctx) error {
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

	cxs, err := h.links.GetConversionsByCardID(cardID)
	if err != nil {
		return response.ServerError(c, "Failed to list conversions")
	}

	return response.Success(c, "Conversions retrieved", cxs)
}

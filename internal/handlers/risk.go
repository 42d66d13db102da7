package handlers

import (
	"time"

	"celora/internal/services/risk"
	"celora/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// RiskHandler exposes the scoring engine read-only, for operator tooling.
type RiskHandler struct {
	engine *risk.Engine
}

func NewRiskHandler(engine *risk.Engine) *RiskHandler {
	return &RiskHandler{engine: engine}
}

// ScoreEvent scores a hypothetical event without touching any balance.
func (h *RiskHandler) ScoreEvent(c *fiber.Ctx) error {
	var input struct {
		Amount       string  `json:"amount"`
		Fee          string  `json:"fee"`
		Timestamp    string  `json:"timestamp"`
		Source       string  `json:"source"`
		Destination  string  `json:"destination"`
		Confirmation float64 `json:"confirmation"`
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

	ts := time.Now().UTC()
	if input.Timestamp != "" {
		if ts, err = time.Parse(time.RFC3339, input.Timestamp); err != nil {
			return response.BadRequest(c, "Invalid timestamp, expected RFC3339")
		}
	}

	assessment := h.engine.ScoreTransaction(risk.Event{
		Amount:       amount,
		Fee:          fee,
		Timestamp:    ts,
		Source:       input.Source,
		Destination:  input.Destination,
		Confirmation: input.Confirmation,
	}, time.Now().UTC())

	return response.Success(c, "Event scored", assessment)
}

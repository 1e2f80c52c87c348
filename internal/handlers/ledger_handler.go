package handlers

import (
	"net/http"
	"time"

	"taller_manager/internal/models"
	"taller_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService services.LedgerService
}

func NewLedgerHandler(ledgerService services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

func (h *LedgerHandler) RecordMovement(c *gin.Context) {
	var req struct {
		Type        models.MovementType `json:"type"`
		Amount      float64             `json:"amount"`
		Description string              `json:"description"`
		OrderID     *uint               `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	movement, err := h.ledgerService.RecordMovement(req.Type, req.Amount, req.Description, req.OrderID, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *LedgerHandler) ListMovements(c *gin.Context) {
	const layout = "2006-01-02"

	endDate := time.Now()
	startDate := endDate.AddDate(0, -1, 0)

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return
		}
		startDate = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return
		}
		// Include the whole end day.
		endDate = parsed.AddDate(0, 0, 1)
	}

	movements, err := h.ledgerService.GetMovements(startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

package handlers

import (
	"net/http"

	"taller_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService  services.OrderService
	statusService services.StatusService
	ledgerService services.LedgerService
	returnService services.ReturnService
}

func NewOrderHandler(
	orderService services.OrderService,
	statusService services.StatusService,
	ledgerService services.LedgerService,
	returnService services.ReturnService,
) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		statusService: statusService,
		ledgerService: ledgerService,
		returnService: returnService,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	input.UserID = currentUserID(c)

	result, err := h.orderService.CreateOrder(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	aggregate, err := h.orderService.GetOrderAggregate(orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, aggregate)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.orderService.UpdateOrder(orderID, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.StatusChangeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	input.UserID = currentUserID(c)

	result, err := h.statusService.ChangeStatus(orderID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) RecordAbono(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	summary, err := h.ledgerService.RecordAbono(orderID, req.Amount, req.Note, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *OrderHandler) ListAbonos(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	abonos, err := h.ledgerService.GetAbonos(orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"abonos": abonos})
}

func (h *OrderHandler) RegisterReturn(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input services.ReturnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.returnService.RegisterReturn(orderID, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "returned"})
}

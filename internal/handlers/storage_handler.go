package handlers

import (
	"net/http"

	"taller_manager/internal/services"

	"github.com/gin-gonic/gin"
)

type StorageHandler struct {
	allocationService services.AllocationService
}

func NewStorageHandler(allocationService services.AllocationService) *StorageHandler {
	return &StorageHandler{allocationService: allocationService}
}

// ListDrawers exposes drawer and code availability so the front desk can
// offer free slots during intake.
func (h *StorageHandler) ListDrawers(c *gin.Context) {
	drawers, err := h.allocationService.ListDrawers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drawers": drawers})
}

package handlers

import (
	"net/http"
	"strconv"

	"taller_manager/internal/apperrors"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": err.Error()})
}

// currentUserID reads the id the auth middleware stored, nil when absent.
func currentUserID(c *gin.Context) *uint {
	value, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := value.(uint)
	if !ok {
		return nil
	}
	return &id
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ store *Store }

func RegisterRoutes(r gin.IRoutes, store *Store) {
	h := &Handler{store: store}
	r.GET("/users", h.List)
}

// GET /users（ドロップダウン用）
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		status, code := http.StatusInternalServerError, "INTERNAL"
		if errors.Is(err, ErrSourceUnavailable) {
			status, code = http.StatusServiceUnavailable, "UNAVAILABLE"
		}
		c.JSON(status, gin.H{"error": gin.H{"code": code, "message": "users are unavailable"}})
		return
	}
	c.JSON(http.StatusOK, list)
}

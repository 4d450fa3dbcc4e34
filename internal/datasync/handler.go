package datasync

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// RegisterRoutes: 認証ミドルウェアは呼び出し側のグループで付ける
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/sync", h.Sync)
}

// POST /admin/sync
func (h *Handler) Sync(c *gin.Context) {
	res, err := h.svc.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNothingToSync) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": err.Error()}})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": gin.H{"code": "UNAVAILABLE", "message": err.Error()}, "job_id": res.JobID})
		return
	}
	c.JSON(http.StatusCreated, res)
}

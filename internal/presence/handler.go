package presence

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// user_id 省略時は 0 扱い
	r.GET("/mean_time_weekday/", h.MeanTimeWeekday)
	r.GET("/mean_time_weekday/:user_id", h.MeanTimeWeekday)
	r.GET("/presence_weekday/", h.PresenceWeekday)
	r.GET("/presence_weekday/:user_id", h.PresenceWeekday)
	r.GET("/mean_start_end_time/", h.MeanStartEnd)
	r.GET("/mean_start_end_time/:user_id", h.MeanStartEnd)
}

// ---------- handlers ----------

func (h *Handler) MeanTimeWeekday(c *gin.Context) {
	uid, ok := userIDParam(c)
	if !ok {
		return
	}
	res, err := h.svc.MeanTimeWeekday(c.Request.Context(), uid)
	if err != nil {
		c.JSON(toHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) PresenceWeekday(c *gin.Context) {
	uid, ok := userIDParam(c)
	if !ok {
		return
	}
	res, err := h.svc.PresenceWeekday(c.Request.Context(), uid)
	if err != nil {
		c.JSON(toHTTPStatus(err), newErrDTO(err))
		return
	}
	if len(res) == 0 {
		c.JSON(http.StatusOK, []any{})
		return
	}
	out := make([]any, 0, len(res)+1)
	out = append(out, presenceHeader)
	for _, r := range res {
		out = append(out, r)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) MeanStartEnd(c *gin.Context) {
	uid, ok := userIDParam(c)
	if !ok {
		return
	}
	res, err := h.svc.MeanStartEnd(c.Request.Context(), uid)
	if err != nil {
		c.JSON(toHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func userIDParam(c *gin.Context) (int, bool) {
	v := c.Param("user_id")
	if v == "" {
		return 0, true
	}
	uid, err := strconv.Atoi(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("user_id must be an integer")))
		return 0, false
	}
	return uid, true
}

type errDTO struct {
	Error *APIError `json:"error"`
}

func newErrDTO(err error) errDTO {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return errDTO{Error: apiErr}
	}
	return errDTO{Error: ErrInternal(err.Error())}
}

package api

import (
	"net/http"

	"github.com/Domenick1991/travelbackoffice/internal/service/lookup"
	"github.com/gin-gonic/gin"
)

const sessionHeader = "X-Session-Key"

type LookupHandler struct {
	service lookup.LookupUseCase
}

func NewLookupHandler(service lookup.LookupUseCase) *LookupHandler {
	return &LookupHandler{service: service}
}

func (h *LookupHandler) Register(router *gin.RouterGroup) {
	router.GET("/customers", h.customers)
}

// customers debounces per X-Session-Key. Callers without one share a key per
// client address.
func (h *LookupHandler) customers(c *gin.Context) {
	key := c.GetHeader(sessionHeader)
	if key == "" {
		key = c.ClientIP()
	}
	candidates, err := h.service.Search(c.Request.Context(), key, c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

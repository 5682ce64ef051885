package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/Domenick1991/travelbackoffice/internal/service/directory"
	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	service directory.DirectoryUseCase
}

func NewDirectoryHandler(service directory.DirectoryUseCase) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

func (h *DirectoryHandler) Register(router *gin.RouterGroup) {
	router.GET("/agencies", h.list(h.service.Agencies))
	router.GET("/users", h.list(h.service.Users))
}

func (h *DirectoryHandler) list(load func(context.Context) ([]domain.DirectoryOption, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		options, err := load(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, options)
	}
}

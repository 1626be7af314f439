package handler

import (
	"net/http"

	"equipment_search_backend/internal/search/service"
	"equipment_search_backend/internal/search/transport"
	"equipment_search_backend/platform/httpkit"
	"equipment_search_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgRepeatedParam    = "query parameter supplied more than once"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)
}

func (h *Handler) Search(c *gin.Context) {
	// Gin binds repeated parameters to the first value; a repeated q is a
	// structurally invalid request and must not silently search the first.
	if len(c.Request.URL.Query()["q"]) > 1 {
		httpkit.Error(c, http.StatusBadRequest, msgRepeatedParam, nil)
		return
	}

	var req transport.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

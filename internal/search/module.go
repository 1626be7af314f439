package search

import (
	apphttp "equipment_search_backend/internal/http"
	"equipment_search_backend/internal/search/handler"
	"equipment_search_backend/internal/search/repository"
	"equipment_search_backend/internal/search/service"
	"equipment_search_backend/platform/config"
	"equipment_search_backend/platform/logger"
	"equipment_search_backend/platform/typesense"
	"equipment_search_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(engine *typesense.Client, cfg config.SearchConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(engine)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/search")
	if ctx.SearchRateLimiter != nil {
		group.Use(ctx.SearchRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)

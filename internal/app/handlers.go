package app

import (
	httpserver "github.com/openshelf/catalog-intake-backend/internal/http"
	"github.com/openshelf/catalog-intake-backend/internal/http/handlers"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type Handlers struct {
	Book    *handlers.BookHandler
	File    *handlers.FileHandler
	Intake  *handlers.IntakeHandler
	Rule    *handlers.RuleHandler
	Mapping *handlers.MappingHandler
	Article *handlers.ArticleHandler
	Health  *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Book:    handlers.NewBookHandler(log, services.Book, services.Selection),
		File:    handlers.NewFileHandler(log, services.File),
		Intake:  handlers.NewIntakeHandler(log, services.Intake),
		Rule:    handlers.NewRuleHandler(log, services.Rule),
		Mapping: handlers.NewMappingHandler(log, services.Mapping),
		Article: handlers.NewArticleHandler(log, services.Article),
		Health:  handlers.NewHealthHandler(),
	}
}

func wireServer(log *logger.Logger, h Handlers) *httpserver.Server {
	log.Info("Wiring router...")
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:            log,
		BookHandler:    h.Book,
		FileHandler:    h.File,
		IntakeHandler:  h.Intake,
		RuleHandler:    h.Rule,
		MappingHandler: h.Mapping,
		ArticleHandler: h.Article,
		HealthHandler:  h.Health,
	})
}

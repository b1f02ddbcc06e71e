package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/openshelf/catalog-intake-backend/internal/http/handlers"
	httpMW "github.com/openshelf/catalog-intake-backend/internal/http/middleware"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	BookHandler    *httpH.BookHandler
	FileHandler    *httpH.FileHandler
	IntakeHandler  *httpH.IntakeHandler
	RuleHandler    *httpH.RuleHandler
	MappingHandler *httpH.MappingHandler
	ArticleHandler *httpH.ArticleHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Catalog table
		if cfg.BookHandler != nil {
			api.GET("/books", cfg.BookHandler.List)
			api.PUT("/books/:id", cfg.BookHandler.Update)
			api.DELETE("/books", cfg.BookHandler.Delete)
			api.GET("/books/export", cfg.BookHandler.Export)

			api.GET("/selection/:key", cfg.BookHandler.GetSelection)
			api.PUT("/selection/:key", cfg.BookHandler.PutSelection)
			api.DELETE("/selection/:key", cfg.BookHandler.ClearSelection)
		}

		// Articles
		if cfg.ArticleHandler != nil {
			api.POST("/books/:id/articles", cfg.ArticleHandler.Generate)
			api.GET("/books/:id/articles", cfg.ArticleHandler.Get)
			api.DELETE("/books/:id/articles", cfg.ArticleHandler.Delete)
		}

		// Files
		if cfg.FileHandler != nil {
			api.POST("/upload", cfg.FileHandler.Upload)
			api.POST("/file", cfg.FileHandler.Register)
		}

		// Intake pipeline
		if cfg.IntakeHandler != nil {
			api.POST("/intake", cfg.IntakeHandler.CreateBatch)
			api.GET("/intake/:id", cfg.IntakeHandler.GetBatch)
			api.POST("/intake/book", cfg.IntakeHandler.BookUpsert)
		}

		// Rules
		if cfg.RuleHandler != nil {
			api.GET("/rules", cfg.RuleHandler.ListPublisherRules)
			api.PUT("/rules/:id", cfg.RuleHandler.UpdatePublisherRule)
			api.GET("/preprocess-rules", cfg.RuleHandler.ListPreprocessRules)
			api.PUT("/preprocess-rules/:id", cfg.RuleHandler.UpdatePreprocessRule)
		}

		// Field mapping
		if cfg.MappingHandler != nil {
			api.GET("/mapping", cfg.MappingHandler.List)
			api.PUT("/mapping/:id", cfg.MappingHandler.Update)
		}
	}

	return r
}

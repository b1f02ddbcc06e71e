package app

import (
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/services"
)

type Services struct {
	File      services.FileService
	Intake    services.IntakeService
	Book      services.BookService
	Selection services.SelectionService
	Rule      services.RuleService
	Mapping   services.MappingService
	Article   services.ArticleService
}

func wireServices(db *gorm.DB, log *logger.Logger, repoSet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var cache services.PageCache
	if clients.PageCache != nil {
		cache = clients.PageCache
	}

	fileService := services.NewFileService(db, log, clients.Bucket, repoSet.StoredFile)
	intakeService := services.NewIntakeService(db, log, fileService, clients.Agent)
	bookService := services.NewBookService(db, log, repoSet.Book, cache)
	selectionService := services.NewSelectionService(log)
	ruleService := services.NewRuleService(db, log, repoSet.PublisherRule, repoSet.PreprocessRule, clients.Agent)
	mappingService := services.NewMappingService(db, log, repoSet.FieldMapping, clients.Agent)
	articleService := services.NewArticleService(db, log, repoSet.BookArticle, clients.Agent)

	return Services{
		File:      fileService,
		Intake:    intakeService,
		Book:      bookService,
		Selection: selectionService,
		Rule:      ruleService,
		Mapping:   mappingService,
		Article:   articleService,
	}
}

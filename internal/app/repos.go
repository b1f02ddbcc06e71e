package app

import (
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/data/repos"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type Repos struct {
	Book           repos.BookRepo
	StoredFile     repos.StoredFileRepo
	PublisherRule  repos.PublisherRuleRepo
	PreprocessRule repos.PreprocessRuleRepo
	FieldMapping   repos.FieldMappingRepo
	BookArticle    repos.BookArticleRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Book:           repos.NewBookRepo(db, log),
		StoredFile:     repos.NewStoredFileRepo(db, log),
		PublisherRule:  repos.NewPublisherRuleRepo(db, log),
		PreprocessRule: repos.NewPreprocessRuleRepo(db, log),
		FieldMapping:   repos.NewFieldMappingRepo(db, log),
		BookArticle:    repos.NewBookArticleRepo(db, log),
	}
}

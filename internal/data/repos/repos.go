package repos

import (
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/data/repos/catalog"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type BookRepo = catalog.BookRepo
type StoredFileRepo = catalog.StoredFileRepo
type PublisherRuleRepo = catalog.PublisherRuleRepo
type PreprocessRuleRepo = catalog.PreprocessRuleRepo
type FieldMappingRepo = catalog.FieldMappingRepo
type BookArticleRepo = catalog.BookArticleRepo

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return catalog.NewBookRepo(db, baseLog)
}

func NewStoredFileRepo(db *gorm.DB, baseLog *logger.Logger) StoredFileRepo {
	return catalog.NewStoredFileRepo(db, baseLog)
}

func NewPublisherRuleRepo(db *gorm.DB, baseLog *logger.Logger) PublisherRuleRepo {
	return catalog.NewPublisherRuleRepo(db, baseLog)
}

func NewPreprocessRuleRepo(db *gorm.DB, baseLog *logger.Logger) PreprocessRuleRepo {
	return catalog.NewPreprocessRuleRepo(db, baseLog)
}

func NewFieldMappingRepo(db *gorm.DB, baseLog *logger.Logger) FieldMappingRepo {
	return catalog.NewFieldMappingRepo(db, baseLog)
}

func NewBookArticleRepo(db *gorm.DB, baseLog *logger.Logger) BookArticleRepo {
	return catalog.NewBookArticleRepo(db, baseLog)
}

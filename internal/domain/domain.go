package domain

import (
	"github.com/openshelf/catalog-intake-backend/internal/domain/catalog"
)

type (
	ArticleType    = catalog.ArticleType
	Book           = catalog.Book
	StoredFile     = catalog.StoredFile
	PublisherRule  = catalog.PublisherRule
	PreprocessRule = catalog.PreprocessRule
	FieldMapping   = catalog.FieldMapping
	BookArticle    = catalog.BookArticle
)

const (
	ArticleTypeNormal = catalog.ArticleTypeNormal
	ArticleTypeRAG    = catalog.ArticleTypeRAG
)

package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type BookArticleRepo interface {
	GetByBookAndType(dbc dbctx.Context, bookID uuid.UUID, articleType types.ArticleType) (*types.BookArticle, error)
	Upsert(dbc dbctx.Context, article *types.BookArticle) (*types.BookArticle, error)
	DeleteByBookAndType(dbc dbctx.Context, bookID uuid.UUID, articleType types.ArticleType) error
}

type bookArticleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookArticleRepo(db *gorm.DB, baseLog *logger.Logger) BookArticleRepo {
	return &bookArticleRepo{db: db, log: baseLog.With("repo", "BookArticleRepo")}
}

func (r *bookArticleRepo) GetByBookAndType(dbc dbctx.Context, bookID uuid.UUID, articleType types.ArticleType) (*types.BookArticle, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.BookArticle
	if err := transaction.WithContext(dbc.Ctx).
		Where("book_id = ? AND type = ?", bookID, articleType).
		First(&result).Error; err != nil {
		if IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// Upsert writes the article set for a (book, type) pair, replacing any
// previous generation.
func (r *bookArticleRepo) Upsert(dbc dbctx.Context, article *types.BookArticle) (*types.BookArticle, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if article == nil || article.BookID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}

	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "book_id"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"content_oriented", "promotional", "threat_based", "updated_at",
			}),
		}).
		Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

func (r *bookArticleRepo) DeleteByBookAndType(dbc dbctx.Context, bookID uuid.UUID, articleType types.ArticleType) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if bookID == uuid.Nil {
		return apperrors.ErrInvalidArgument
	}

	res := transaction.WithContext(dbc.Ctx).
		Where("book_id = ? AND type = ?", bookID, articleType).
		Delete(&types.BookArticle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

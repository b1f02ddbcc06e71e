package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/clients/docagent"
	"github.com/openshelf/catalog-intake-backend/internal/data/repos"
	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

// ArticleService fronts the agent's article generation and persists the
// three styled texts per (book, type).
type ArticleService interface {
	Generate(ctx context.Context, bookID uuid.UUID, articleType types.ArticleType, customStyle string) (*types.BookArticle, error)
	Get(ctx context.Context, bookID uuid.UUID, articleType types.ArticleType) (*types.BookArticle, error)
	Delete(ctx context.Context, bookID uuid.UUID, articleType types.ArticleType) error
}

type articleService struct {
	db          *gorm.DB
	log         *logger.Logger
	articleRepo repos.BookArticleRepo
	agent       docagent.Client
}

func NewArticleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	articleRepo repos.BookArticleRepo,
	agent docagent.Client,
) ArticleService {
	return &articleService{
		db:          db,
		log:         baseLog.With("service", "ArticleService"),
		articleRepo: articleRepo,
		agent:       agent,
	}
}

func validArticleType(t types.ArticleType) bool {
	return t == types.ArticleTypeNormal || t == types.ArticleTypeRAG
}

func (as *articleService) Generate(ctx context.Context, bookID uuid.UUID, articleType types.ArticleType, customStyle string) (*types.BookArticle, error) {
	if bookID == uuid.Nil || !validArticleType(articleType) {
		return nil, apperrors.ErrInvalidArgument
	}

	// Regeneration passes the existing article id so the agent can reuse
	// its prior context.
	articleID := ""
	if existing, err := as.articleRepo.GetByBookAndType(dbctx.Context{Ctx: ctx}, bookID, articleType); err == nil {
		articleID = existing.ID.String()
	}

	set, err := as.agent.GenerateArticle(ctx, bookID, articleID, customStyle)
	if err != nil {
		as.log.Error("Article generation failed", "book_id", bookID, "type", articleType, "error", err)
		return nil, fmt.Errorf("generate articles: %w", err)
	}

	article := &types.BookArticle{
		BookID:          bookID,
		Type:            articleType,
		ContentOriented: set.ContentOriented,
		Promotional:     set.Promotional,
		ThreatBased:     set.ThreatBased,
	}
	saved, err := as.articleRepo.Upsert(dbctx.Context{Ctx: ctx}, article)
	if err != nil {
		return nil, fmt.Errorf("save articles: %w", err)
	}
	return saved, nil
}

func (as *articleService) Get(ctx context.Context, bookID uuid.UUID, articleType types.ArticleType) (*types.BookArticle, error) {
	if bookID == uuid.Nil || !validArticleType(articleType) {
		return nil, apperrors.ErrInvalidArgument
	}
	return as.articleRepo.GetByBookAndType(dbctx.Context{Ctx: ctx}, bookID, articleType)
}

func (as *articleService) Delete(ctx context.Context, bookID uuid.UUID, articleType types.ArticleType) error {
	if bookID == uuid.Nil || !validArticleType(articleType) {
		return apperrors.ErrInvalidArgument
	}
	return as.articleRepo.DeleteByBookAndType(dbctx.Context{Ctx: ctx}, bookID, articleType)
}

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/openshelf/catalog-intake-backend/internal/data/repos/testutil"
	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
)

func TestBookArticleRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewBookArticleRepo(db, testutil.Logger(t))
	bookRepo := NewBookRepo(db, testutil.Logger(t))

	book := seedBook(t, bookRepo, dbc, "article target", 1.0)

	first := &types.BookArticle{
		BookID:          book.ID,
		Type:            types.ArticleTypeNormal,
		ContentOriented: "第一版內容導向",
		Promotional:     "第一版促銷",
		ThreatBased:     "第一版急迫",
	}
	if _, err := repo.Upsert(dbc, first); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	second := &types.BookArticle{
		BookID:          book.ID,
		Type:            types.ArticleTypeNormal,
		ContentOriented: "第二版內容導向",
		Promotional:     "第二版促銷",
		ThreatBased:     "第二版急迫",
	}
	if _, err := repo.Upsert(dbc, second); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	got, err := repo.GetByBookAndType(dbc, book.ID, types.ArticleTypeNormal)
	if err != nil {
		t.Fatalf("GetByBookAndType: %v", err)
	}
	if got.ContentOriented != "第二版內容導向" {
		t.Fatalf("upsert did not replace: %q", got.ContentOriented)
	}

	// Different type is a separate row.
	if _, err := repo.GetByBookAndType(dbc, book.ID, types.ArticleTypeRAG); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("rag type: err=%v, want ErrNotFound", err)
	}

	if err := repo.DeleteByBookAndType(dbc, book.ID, types.ArticleTypeNormal); err != nil {
		t.Fatalf("DeleteByBookAndType: %v", err)
	}
	if err := repo.DeleteByBookAndType(dbc, book.ID, types.ArticleTypeNormal); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("second delete: err=%v, want ErrNotFound", err)
	}
	if _, err := repo.Upsert(dbc, &types.BookArticle{Type: types.ArticleTypeNormal}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("Upsert without book id: err=%v, want ErrInvalidArgument", err)
	}
}

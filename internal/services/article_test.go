package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
)

type fakeBookArticleRepo struct {
	mu   sync.Mutex
	rows []*types.BookArticle
}

func (f *fakeBookArticleRepo) GetByBookAndType(_ dbctx.Context, bookID uuid.UUID, articleType types.ArticleType) (*types.BookArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.BookID == bookID && r.Type == articleType {
			return r, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeBookArticleRepo) Upsert(_ dbctx.Context, article *types.BookArticle) (*types.BookArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if article == nil || article.BookID == uuid.Nil {
		return nil, apperrors.ErrInvalidArgument
	}
	for i, r := range f.rows {
		if r.BookID == article.BookID && r.Type == article.Type {
			article.ID = r.ID
			f.rows[i] = article
			return article, nil
		}
	}
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	f.rows = append(f.rows, article)
	return article, nil
}

func (f *fakeBookArticleRepo) DeleteByBookAndType(_ dbctx.Context, bookID uuid.UUID, articleType types.ArticleType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.BookID == bookID && r.Type == articleType {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func TestArticleServiceGeneratePersistsAndRegenerates(t *testing.T) {
	repo := &fakeBookArticleRepo{}
	agent := &fakeAgent{}
	svc := NewArticleService(nil, testLogger(t), repo, agent)

	ctx := context.Background()
	bookID := uuid.New()

	first, err := svc.Generate(ctx, bookID, types.ArticleTypeNormal, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first.ContentOriented == "" || first.Promotional == "" || first.ThreatBased == "" {
		t.Fatalf("article set incomplete: %+v", first)
	}
	// First generation has no prior article id to hand the agent.
	if !strings.Contains(agent.articleCalls[0], bookID.String()+"//") {
		t.Fatalf("first call = %q", agent.articleCalls[0])
	}

	second, err := svc.Generate(ctx, bookID, types.ArticleTypeNormal, "文青風")
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("regeneration replaced the row id: %s vs %s", second.ID, first.ID)
	}
	if !strings.Contains(agent.articleCalls[1], first.ID.String()) {
		t.Fatalf("regeneration should pass the existing article id: %q", agent.articleCalls[1])
	}

	got, err := svc.Get(ctx, bookID, types.ArticleTypeNormal)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("Get returned %s, want %s", got.ID, first.ID)
	}

	if err := svc.Delete(ctx, bookID, types.ArticleTypeNormal); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, bookID, types.ArticleTypeNormal); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("after delete: err=%v", err)
	}
}

func TestArticleServiceGenerateValidation(t *testing.T) {
	svc := NewArticleService(nil, testLogger(t), &fakeBookArticleRepo{}, &fakeAgent{})
	ctx := context.Background()

	if _, err := svc.Generate(ctx, uuid.Nil, types.ArticleTypeNormal, ""); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("nil book id: err=%v", err)
	}
	if _, err := svc.Generate(ctx, uuid.New(), types.ArticleType("weird"), ""); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("bad type: err=%v", err)
	}

	failing := &fakeAgent{generateErr: errors.New("agent down")}
	svc = NewArticleService(nil, testLogger(t), &fakeBookArticleRepo{}, failing)
	if _, err := svc.Generate(ctx, uuid.New(), types.ArticleTypeNormal, ""); err == nil {
		t.Fatal("expected error when agent fails")
	}
}

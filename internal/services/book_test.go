package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/standard"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func seedBooks(t *testing.T, repo *fakeBookRepo, n int) []*types.Book {
	t.Helper()
	books := make([]*types.Book, n)
	for i := 0; i < n; i++ {
		books[i] = &types.Book{
			ID:        uuid.New(),
			Content:   datatypes.NewJSONType(standard.Normalize(map[string]string{"書名": fmt.Sprintf("book-%d", i)})),
			Relevance: float64(i),
		}
	}
	if _, err := repo.Create(dbc(), books); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return books
}

func TestBookServiceListCachesPages(t *testing.T) {
	repo := &fakeBookRepo{}
	cache := newFakePageCache()
	svc := NewBookService(nil, testLogger(t), repo, cache)
	seedBooks(t, repo, 5)

	ctx := context.Background()
	for _, page := range []int{2, 1, 2} {
		got, err := svc.List(ctx, page, 2)
		if err != nil {
			t.Fatalf("List page %d: %v", page, err)
		}
		if got.Pagination.Total != 5 || got.Pagination.TotalPages != 3 {
			t.Fatalf("pagination = %+v", got.Pagination)
		}
	}

	// Pages 2 and 1 fetched once each; the third request hit the cache.
	if repo.listCalls != 2 {
		t.Fatalf("repo list calls = %d, want 2", repo.listCalls)
	}
	if cache.hits != 1 {
		t.Fatalf("cache hits = %d, want 1", cache.hits)
	}
}

func TestBookServiceListOrdersByRelevance(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(nil, testLogger(t), repo, newFakePageCache())
	seedBooks(t, repo, 4)

	got, err := svc.List(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(got.Data); i++ {
		if got.Data[i].Relevance > got.Data[i-1].Relevance {
			t.Fatalf("relevance not descending at %d", i)
		}
	}
}

func TestBookServiceDeleteInvalidatesCache(t *testing.T) {
	repo := &fakeBookRepo{}
	cache := newFakePageCache()
	svc := NewBookService(nil, testLogger(t), repo, cache)
	books := seedBooks(t, repo, 3)

	ctx := context.Background()
	if _, err := svc.List(ctx, 1, 10); err != nil {
		t.Fatalf("List: %v", err)
	}

	deleted, err := svc.Delete(ctx, []uuid.UUID{books[0].ID})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	got, err := svc.List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(got.Data) != 2 {
		t.Fatalf("post-delete page has %d rows, want 2 (stale cache?)", len(got.Data))
	}

	if _, err := svc.Delete(ctx, nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("Delete empty: err=%v, want ErrInvalidArgument", err)
	}
	if _, err := svc.Delete(ctx, []uuid.UUID{uuid.New()}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Delete stale: err=%v, want ErrNotFound", err)
	}
}

func TestBookServiceUpdateValidation(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(nil, testLogger(t), repo, newFakePageCache())
	books := seedBooks(t, repo, 1)

	ctx := context.Background()
	name := "新供應商"
	if err := svc.Update(ctx, books[0].ID, UpdateBookInput{SupplierName: &name}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if books[0].SupplierName != "新供應商" {
		t.Fatalf("supplier_name = %q", books[0].SupplierName)
	}

	if err := svc.Update(ctx, books[0].ID, UpdateBookInput{}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("empty update: err=%v, want ErrInvalidArgument", err)
	}
	if err := svc.Update(ctx, uuid.New(), UpdateBookInput{SupplierName: &name}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown id: err=%v, want ErrNotFound", err)
	}
}

func TestBookServiceExportCSV(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(nil, testLogger(t), repo, newFakePageCache())

	content := standard.Normalize(map[string]string{
		"主要商品名稱": `含"引號", 與逗號`,
		"商品簡介":   "第一行\n第二行",
	})
	book := &types.Book{ID: uuid.New(), Content: datatypes.NewJSONType(content), Relevance: 1}
	if _, err := repo.Create(dbc(), []*types.Book{book}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	filename, data, err := svc.ExportCSV(context.Background(), []uuid.UUID{book.ID})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !strings.HasPrefix(filename, "books_export_") || !strings.HasSuffix(filename, ".csv") {
		t.Fatalf("filename = %q", filename)
	}
	if !bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")) {
		t.Fatal("missing UTF-8 BOM")
	}
	body := string(data)
	if !strings.Contains(body, `"含""引號"", 與逗號"`) {
		t.Fatalf("quoting wrong: %q", body)
	}
	if !strings.Contains(body, "\"第一行\n第二行\"") {
		t.Fatalf("embedded newline not quoted: %q", body)
	}
	// Header row leads with the first schema key.
	if !strings.HasPrefix(strings.TrimPrefix(body, "\xEF\xBB\xBF"), "供應商代碼") {
		t.Fatalf("header row wrong: %q", body[:60])
	}
}

func TestBookServiceExportCSVFailsOnMissingID(t *testing.T) {
	repo := &fakeBookRepo{}
	svc := NewBookService(nil, testLogger(t), repo, newFakePageCache())
	books := seedBooks(t, repo, 1)

	missing := uuid.New()
	_, _, err := svc.ExportCSV(context.Background(), []uuid.UUID{books[0].ID, missing})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), missing.String()) {
		t.Fatalf("error should name missing id: %v", err)
	}

	if _, _, err := svc.ExportCSV(context.Background(), nil); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("empty selection: err=%v, want ErrInvalidArgument", err)
	}
}

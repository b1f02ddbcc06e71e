package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/data/repos"
	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
	"github.com/openshelf/catalog-intake-backend/internal/standard"
)

// PageCache is the slice of the redis cache the book service needs; tests
// swap in an in-memory fake.
type PageCache interface {
	Get(ctx context.Context, page, pageSize int) ([]byte, bool, error)
	Set(ctx context.Context, page, pageSize int, payload []byte) error
	Invalidate(ctx context.Context) error
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

type BookPage struct {
	Data       []*types.Book `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

type UpdateBookInput struct {
	SupplierName  *string           `json:"supplier_name"`
	PublisherName *string           `json:"publisher_name"`
	Content       map[string]string `json:"content"`
}

// BookService owns catalog listing, editing, deletion and CSV export.
// Every mutation invalidates the page cache.
type BookService interface {
	List(ctx context.Context, page, pageSize int) (*BookPage, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) error
	Delete(ctx context.Context, ids []uuid.UUID) (int64, error)
	ExportCSV(ctx context.Context, ids []uuid.UUID) (filename string, data []byte, err error)
}

type bookService struct {
	db       *gorm.DB
	log      *logger.Logger
	bookRepo repos.BookRepo
	cache    PageCache
}

func NewBookService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bookRepo repos.BookRepo,
	cache PageCache,
) BookService {
	return &bookService{
		db:       db,
		log:      baseLog.With("service", "BookService"),
		bookRepo: bookRepo,
		cache:    cache,
	}
}

func (bs *bookService) List(ctx context.Context, page, pageSize int) (*BookPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: pageSize must be positive", apperrors.ErrInvalidArgument)
	}

	if bs.cache != nil {
		raw, hit, err := bs.cache.Get(ctx, page, pageSize)
		if err != nil {
			// The cache is an accelerator, never a dependency.
			bs.log.Warn("Page cache read failed", "page", page, "error", err)
		} else if hit {
			var cached BookPage
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			bs.log.Warn("Discarding undecodable cache entry", "page", page)
		}
	}

	rows, total, err := bs.bookRepo.List(dbctx.Context{Ctx: ctx}, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	result := &BookPage{
		Data: rows,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}

	if bs.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := bs.cache.Set(ctx, page, pageSize, payload); err != nil {
				bs.log.Warn("Page cache write failed", "page", page, "error", err)
			}
		}
	}
	return result, nil
}

func (bs *bookService) Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) error {
	fields := map[string]interface{}{}
	if input.SupplierName != nil {
		fields["supplier_name"] = *input.SupplierName
	}
	if input.PublisherName != nil {
		fields["publisher_name"] = *input.PublisherName
	}
	if input.Content != nil {
		// Content is stored closed over the standard schema: every key
		// present, unknown keys dropped.
		fields["content"] = datatypes.NewJSONType(standard.Normalize(input.Content))
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidArgument)
	}

	if err := bs.bookRepo.UpdateByID(dbctx.Context{Ctx: ctx}, id, fields); err != nil {
		return err
	}
	bs.invalidate(ctx)
	return nil
}

func (bs *bookService) Delete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	deleted, err := bs.bookRepo.DeleteByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return 0, err
	}
	bs.log.Info("Deleted books", "count", deleted)
	bs.invalidate(ctx)
	return deleted, nil
}

func (bs *bookService) invalidate(ctx context.Context) {
	if bs.cache == nil {
		return
	}
	if err := bs.cache.Invalidate(ctx); err != nil {
		bs.log.Warn("Page cache invalidation failed", "error", err)
	}
}

// ExportCSV renders the selected books as an RFC 4180 CSV with a UTF-8 BOM
// so spreadsheet applications pick up the encoding. The export fails when
// any selected id cannot be resolved.
func (bs *bookService) ExportCSV(ctx context.Context, ids []uuid.UUID) (string, []byte, error) {
	if len(ids) == 0 {
		return "", nil, fmt.Errorf("%w: no ids selected", apperrors.ErrInvalidArgument)
	}

	rows, err := bs.bookRepo.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return "", nil, fmt.Errorf("export books: %w", err)
	}
	if len(rows) != len(ids) {
		found := make(map[uuid.UUID]struct{}, len(rows))
		for _, r := range rows {
			found[r.ID] = struct{}{}
		}
		var missing []string
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, id.String())
			}
		}
		return "", nil, fmt.Errorf("%w: books %s", apperrors.ErrNotFound, strings.Join(missing, ", "))
	}

	// Keep listing order in the file.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Relevance != rows[j].Relevance {
			return rows[i].Relevance > rows[j].Relevance
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})

	keys := standard.Keys()

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(keys); err != nil {
		return "", nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(keys))
	for _, row := range rows {
		content := row.Content.Data()
		for i, key := range keys {
			record[i] = content[key]
		}
		if err := w.Write(record); err != nil {
			return "", nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("flush csv: %w", err)
	}

	filename := fmt.Sprintf("books_export_%s.csv", time.Now().Format("2006-01-02"))
	return filename, buf.Bytes(), nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/openshelf/catalog-intake-backend/internal/clients/docagent"
	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
)

func dbc() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

// ---- book repo ----

type fakeBookRepo struct {
	mu        sync.Mutex
	books     []*types.Book
	listCalls int
}

func (f *fakeBookRepo) List(_ dbctx.Context, page, pageSize int) ([]*types.Book, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if pageSize < 1 {
		return nil, 0, apperrors.ErrInvalidArgument
	}

	sorted := append([]*types.Book(nil), f.books...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Relevance != sorted[j].Relevance {
			return sorted[i].Relevance > sorted[j].Relevance
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	start := (page - 1) * pageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	end := start + pageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end], int64(len(sorted)), nil
}

func (f *fakeBookRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Book
	for _, id := range ids {
		for _, b := range f.books {
			if b.ID == id {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

func (f *fakeBookRepo) Create(_ dbctx.Context, books []*types.Book) ([]*types.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range books {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		f.books = append(f.books, b)
	}
	return books, nil
}

func (f *fakeBookRepo) UpdateByID(_ dbctx.Context, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == uuid.Nil || len(fields) == 0 {
		return apperrors.ErrInvalidArgument
	}
	for _, b := range f.books {
		if b.ID == id {
			if v, ok := fields["supplier_name"].(string); ok {
				b.SupplierName = v
			}
			if v, ok := fields["publisher_name"].(string); ok {
				b.PublisherName = v
			}
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeBookRepo) DeleteByIDs(_ dbctx.Context, ids []uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(ids) == 0 {
		return 0, apperrors.ErrInvalidArgument
	}
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	var kept []*types.Book
	var deleted int64
	for _, b := range f.books {
		if _, ok := drop[b.ID]; ok {
			deleted++
			continue
		}
		kept = append(kept, b)
	}
	if deleted == 0 {
		return 0, apperrors.ErrNotFound
	}
	f.books = kept
	return deleted, nil
}

// ---- stored file repo ----

type fakeStoredFileRepo struct {
	mu    sync.Mutex
	files []*types.StoredFile
	err   error
}

func (f *fakeStoredFileRepo) CreateBatch(_ dbctx.Context, files []*types.StoredFile) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(files) == 0 {
		return nil, apperrors.ErrInvalidArgument
	}
	ids := make([]uuid.UUID, len(files))
	for i, file := range files {
		if file.ID == uuid.Nil {
			file.ID = uuid.New()
		}
		ids[i] = file.ID
		f.files = append(f.files, file)
	}
	return ids, nil
}

func (f *fakeStoredFileRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, file := range f.files {
		if file.ID == id {
			return file, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStoredFileRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.StoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.StoredFile
	for _, id := range ids {
		for _, file := range f.files {
			if file.ID == id {
				out = append(out, file)
			}
		}
	}
	return out, nil
}

// ---- bucket ----

type fakeBucket struct {
	mu        sync.Mutex
	uploaded  []string
	uploadErr error
}

func (f *fakeBucket) UploadFile(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded = append(f.uploaded, key)
	return "http://store.local/" + key, nil
}

func (f *fakeBucket) DownloadFile(_ context.Context, key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeBucket) DeleteFile(_ context.Context, _ string) error { return nil }

func (f *fakeBucket) GetPublicURL(key string) string { return "http://store.local/" + key }

// ---- doc agent ----

type fakeAgent struct {
	mu sync.Mutex

	transformCalls   []uuid.UUID
	transformV2Calls []uuid.UUID
	upsertCalls      []string
	ruleCalls        []string
	mappingCalls     map[string][]string
	articleCalls     []string

	transformErr      map[uuid.UUID]error
	failOneTransform  bool
	generated         *docagent.ArticleSet
	generateErr       error
}

func (f *fakeAgent) transformResult(fileID uuid.UUID) error {
	if f.failOneTransform {
		f.failOneTransform = false
		return errors.New("unreadable sheet")
	}
	return f.transformErr[fileID]
}

func (f *fakeAgent) Transform(_ context.Context, fileID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transformCalls = append(f.transformCalls, fileID)
	return f.transformResult(fileID)
}

func (f *fakeAgent) TransformV2(_ context.Context, fileID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transformV2Calls = append(f.transformV2Calls, fileID)
	return f.transformResult(fileID)
}

func (f *fakeAgent) UpsertBook(_ context.Context, fileID uuid.UUID, orgProdID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls = append(f.upsertCalls, fileID.String()+"/"+orgProdID)
	return f.transformErr[fileID]
}

func (f *fakeAgent) GenerateArticle(_ context.Context, bookID uuid.UUID, articleID string, customStyle string) (*docagent.ArticleSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.articleCalls = append(f.articleCalls, bookID.String()+"/"+articleID+"/"+customStyle)
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	if f.generated != nil {
		return f.generated, nil
	}
	return &docagent.ArticleSet{ContentOriented: "a", Promotional: "b", ThreatBased: "c"}, nil
}

func (f *fakeAgent) UpdateRules(_ context.Context, newRule string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ruleCalls = append(f.ruleCalls, newRule)
	return nil
}

func (f *fakeAgent) UpdateMapping(_ context.Context, preColumn string, rawColumnList []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mappingCalls == nil {
		f.mappingCalls = make(map[string][]string)
	}
	f.mappingCalls[preColumn] = rawColumnList
	return nil
}

// ---- page cache ----

type fakePageCache struct {
	mu    sync.Mutex
	gen   int
	pages map[string][]byte
	hits  int
	sets  int
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{pages: make(map[string][]byte)}
}

func (f *fakePageCache) key(page, pageSize int) string {
	return fmt.Sprintf("g%d:p%d:s%d", f.gen, page, pageSize)
}

func (f *fakePageCache) Get(_ context.Context, page, pageSize int) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.pages[f.key(page, pageSize)]
	if ok {
		f.hits++
	}
	return raw, ok, nil
}

func (f *fakePageCache) Set(_ context.Context, page, pageSize int, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.pages[f.key(page, pageSize)] = payload
	return nil
}

func (f *fakePageCache) Invalidate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	return nil
}

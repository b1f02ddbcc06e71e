package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type StoredFileRepo interface {
	CreateBatch(dbc dbctx.Context, files []*types.StoredFile) ([]uuid.UUID, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StoredFile, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.StoredFile, error)
}

type storedFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoredFileRepo(db *gorm.DB, baseLog *logger.Logger) StoredFileRepo {
	return &storedFileRepo{db: db, log: baseLog.With("repo", "StoredFileRepo")}
}

// CreateBatch inserts all files in one statement and returns their ids in
// input order. Callers rely on the ordering to pair ids back to uploads.
func (r *storedFileRepo) CreateBatch(dbc dbctx.Context, files []*types.StoredFile) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(files) == 0 {
		return nil, apperrors.ErrInvalidArgument
	}
	for _, f := range files {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&files).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	return ids, nil
}

func (r *storedFileRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StoredFile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.StoredFile
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if IsNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *storedFileRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.StoredFile, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StoredFile
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

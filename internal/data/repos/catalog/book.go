package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type BookRepo interface {
	List(dbc dbctx.Context, page, pageSize int) ([]*types.Book, int64, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Book, error)
	Create(dbc dbctx.Context, books []*types.Book) ([]*types.Book, error)
	UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type bookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo {
	return &bookRepo{db: db, log: baseLog.With("repo", "BookRepo")}
}

// List returns one page of books ordered by descending relevance with a
// stable id tiebreak, plus the total record count.
func (r *bookRepo) List(dbc dbctx.Context, page, pageSize int) ([]*types.Book, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return nil, 0, apperrors.ErrInvalidArgument
	}

	var total int64
	if err := transaction.WithContext(dbc.Ctx).Model(&types.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Book
	if err := transaction.WithContext(dbc.Ctx).
		Order("relevance DESC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *bookRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Book, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Book
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

func (r *bookRepo) Create(dbc dbctx.Context, books []*types.Book) ([]*types.Book, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(books) == 0 {
		return []*types.Book{}, nil
	}
	for _, b := range books {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// UpdateByID replaces only the named fields. Returns ErrNotFound when no
// record matches.
func (r *bookRepo) UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return apperrors.ErrInvalidArgument
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Book{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish "no such record" from "matched but unchanged".
		var count int64
		if err := transaction.WithContext(dbc.Ctx).
			Model(&types.Book{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperrors.ErrNotFound
		}
	}
	return nil
}

// DeleteByIDs removes the given books and reports how many matched. Matching
// none at all is ErrNotFound; ids with a mix of valid and stale entries
// succeed for the valid ones.
func (r *bookRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return 0, apperrors.ErrInvalidArgument
	}
	for _, id := range ids {
		if id == uuid.Nil {
			return 0, apperrors.ErrInvalidArgument
		}
	}

	res := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Book{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.ErrNotFound
	}
	return res.RowsAffected, nil
}

// IsNotFound reports whether err is the repo's missing-record signal.
func IsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

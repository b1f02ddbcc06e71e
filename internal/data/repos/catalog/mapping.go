package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type FieldMappingRepo interface {
	List(dbc dbctx.Context) ([]*types.FieldMapping, error)
	UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error
}

type fieldMappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFieldMappingRepo(db *gorm.DB, baseLog *logger.Logger) FieldMappingRepo {
	return &fieldMappingRepo{db: db, log: baseLog.With("repo", "FieldMappingRepo")}
}

func (r *fieldMappingRepo) List(dbc dbctx.Context) ([]*types.FieldMapping, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FieldMapping
	if err := transaction.WithContext(dbc.Ctx).
		Order("standard ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fieldMappingRepo) UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return apperrors.ErrInvalidArgument
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.FieldMapping{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := transaction.WithContext(dbc.Ctx).
			Model(&types.FieldMapping{}).
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

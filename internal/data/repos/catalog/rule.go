package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type PublisherRuleRepo interface {
	List(dbc dbctx.Context) ([]*types.PublisherRule, error)
	UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error
}

type publisherRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPublisherRuleRepo(db *gorm.DB, baseLog *logger.Logger) PublisherRuleRepo {
	return &publisherRuleRepo{db: db, log: baseLog.With("repo", "PublisherRuleRepo")}
}

func (r *publisherRuleRepo) List(dbc dbctx.Context) ([]*types.PublisherRule, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PublisherRule
	if err := transaction.WithContext(dbc.Ctx).
		Order("publisher_name ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *publisherRuleRepo) UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return apperrors.ErrInvalidArgument
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.PublisherRule{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := transaction.WithContext(dbc.Ctx).
			Model(&types.PublisherRule{}).
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

type PreprocessRuleRepo interface {
	List(dbc dbctx.Context) ([]*types.PreprocessRule, error)
	UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error
}

type preprocessRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreprocessRuleRepo(db *gorm.DB, baseLog *logger.Logger) PreprocessRuleRepo {
	return &preprocessRuleRepo{db: db, log: baseLog.With("repo", "PreprocessRuleRepo")}
}

func (r *preprocessRuleRepo) List(dbc dbctx.Context) ([]*types.PreprocessRule, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PreprocessRule
	if err := transaction.WithContext(dbc.Ctx).
		Order("standard_col ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *preprocessRuleRepo) UpdateByID(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil || len(fields) == 0 {
		return apperrors.ErrInvalidArgument
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.PreprocessRule{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := transaction.WithContext(dbc.Ctx).
			Model(&types.PreprocessRule{}).
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

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/clients/docagent"
	"github.com/openshelf/catalog-intake-backend/internal/data/repos"
	types "github.com/openshelf/catalog-intake-backend/internal/domain"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/dbctx"
	apperrors "github.com/openshelf/catalog-intake-backend/internal/pkg/errors"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type UpdateFieldMappingInput struct {
	Standard *string             `json:"standard"`
	PreCol   map[string][]string `json:"pre_col"`
}

// MappingService edits the long-text field mapping table and mirrors every
// alias change to the agent.
type MappingService interface {
	List(ctx context.Context) ([]*types.FieldMapping, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateFieldMappingInput) error
}

type mappingService struct {
	db          *gorm.DB
	log         *logger.Logger
	mappingRepo repos.FieldMappingRepo
	agent       docagent.Client
}

func NewMappingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	mappingRepo repos.FieldMappingRepo,
	agent docagent.Client,
) MappingService {
	return &mappingService{
		db:          db,
		log:         baseLog.With("service", "MappingService"),
		mappingRepo: mappingRepo,
		agent:       agent,
	}
}

func (ms *mappingService) List(ctx context.Context) ([]*types.FieldMapping, error) {
	rows, err := ms.mappingRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list field mappings: %w", err)
	}
	return rows, nil
}

func (ms *mappingService) Update(ctx context.Context, id uuid.UUID, input UpdateFieldMappingInput) error {
	fields := map[string]interface{}{}
	if input.Standard != nil {
		fields["standard"] = *input.Standard
	}
	if input.PreCol != nil {
		fields["pre_col"] = datatypes.NewJSONType(input.PreCol)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidArgument)
	}

	if err := ms.mappingRepo.UpdateByID(dbctx.Context{Ctx: ctx}, id, fields); err != nil {
		return err
	}

	for preColumn, rawColumns := range input.PreCol {
		if err := ms.agent.UpdateMapping(ctx, preColumn, rawColumns); err != nil {
			ms.log.Error("Failed to push mapping to agent", "mapping_id", id, "pre_column", preColumn, "error", err)
			return fmt.Errorf("push mapping to agent: %w", err)
		}
	}
	return nil
}

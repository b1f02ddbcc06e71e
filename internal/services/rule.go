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

type UpdatePublisherRuleInput struct {
	PublisherName *string `json:"publisher_name"`
	SupplierName  *string `json:"supplier_name"`
	PublisherID   *string `json:"publisher_id"`
	SupplierID    *string `json:"supplier_id"`
	Rule          *string `json:"rule"`
	Tips          *string `json:"tips"`
	Score         *int    `json:"score"`
}

type UpdatePreprocessRuleInput struct {
	StandardCol *string  `json:"standard_col"`
	Pre         []string `json:"pre"`
	Exception   *string  `json:"exception"`
	Rules       *string  `json:"rules"`
}

// RuleService edits the two rule collections and pushes rule-text changes
// onward to the agent, which applies them at extraction time.
type RuleService interface {
	ListPublisherRules(ctx context.Context) ([]*types.PublisherRule, error)
	UpdatePublisherRule(ctx context.Context, id uuid.UUID, input UpdatePublisherRuleInput) error
	ListPreprocessRules(ctx context.Context) ([]*types.PreprocessRule, error)
	UpdatePreprocessRule(ctx context.Context, id uuid.UUID, input UpdatePreprocessRuleInput) error
}

type ruleService struct {
	db                 *gorm.DB
	log                *logger.Logger
	publisherRuleRepo  repos.PublisherRuleRepo
	preprocessRuleRepo repos.PreprocessRuleRepo
	agent              docagent.Client
}

func NewRuleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	publisherRuleRepo repos.PublisherRuleRepo,
	preprocessRuleRepo repos.PreprocessRuleRepo,
	agent docagent.Client,
) RuleService {
	return &ruleService{
		db:                 db,
		log:                baseLog.With("service", "RuleService"),
		publisherRuleRepo:  publisherRuleRepo,
		preprocessRuleRepo: preprocessRuleRepo,
		agent:              agent,
	}
}

func (rs *ruleService) ListPublisherRules(ctx context.Context) ([]*types.PublisherRule, error) {
	rows, err := rs.publisherRuleRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list publisher rules: %w", err)
	}
	return rows, nil
}

func (rs *ruleService) UpdatePublisherRule(ctx context.Context, id uuid.UUID, input UpdatePublisherRuleInput) error {
	fields := map[string]interface{}{}
	if input.PublisherName != nil {
		fields["publisher_name"] = *input.PublisherName
	}
	if input.SupplierName != nil {
		fields["supplier_name"] = *input.SupplierName
	}
	if input.PublisherID != nil {
		fields["publisher_id"] = *input.PublisherID
	}
	if input.SupplierID != nil {
		fields["supplier_id"] = *input.SupplierID
	}
	if input.Rule != nil {
		fields["rule"] = *input.Rule
	}
	if input.Tips != nil {
		fields["tips"] = *input.Tips
	}
	if input.Score != nil {
		fields["score"] = *input.Score
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidArgument)
	}

	if err := rs.publisherRuleRepo.UpdateByID(dbctx.Context{Ctx: ctx}, id, fields); err != nil {
		return err
	}

	if input.Rule != nil {
		if err := rs.agent.UpdateRules(ctx, *input.Rule); err != nil {
			// The row is saved; the agent picks it up on the next sync.
			rs.log.Error("Failed to push rule to agent", "rule_id", id, "error", err)
			return fmt.Errorf("push rule to agent: %w", err)
		}
	}
	return nil
}

func (rs *ruleService) ListPreprocessRules(ctx context.Context) ([]*types.PreprocessRule, error) {
	rows, err := rs.preprocessRuleRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list preprocess rules: %w", err)
	}
	return rows, nil
}

func (rs *ruleService) UpdatePreprocessRule(ctx context.Context, id uuid.UUID, input UpdatePreprocessRuleInput) error {
	fields := map[string]interface{}{}
	if input.StandardCol != nil {
		fields["standard_col"] = *input.StandardCol
	}
	if input.Pre != nil {
		fields["pre"] = datatypes.NewJSONSlice(input.Pre)
	}
	if input.Exception != nil {
		fields["exception"] = *input.Exception
	}
	if input.Rules != nil {
		fields["rules"] = *input.Rules
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidArgument)
	}

	if err := rs.preprocessRuleRepo.UpdateByID(dbctx.Context{Ctx: ctx}, id, fields); err != nil {
		return err
	}

	if input.Rules != nil {
		if err := rs.agent.UpdateRules(ctx, *input.Rules); err != nil {
			rs.log.Error("Failed to push preprocess rule to agent", "rule_id", id, "error", err)
			return fmt.Errorf("push rule to agent: %w", err)
		}
	}
	return nil
}

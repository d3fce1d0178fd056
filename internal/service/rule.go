package service

import (
	"context"

	"github.com/priceforge/priceforge/internal/api/dto"
	ierr "github.com/priceforge/priceforge/internal/errors"
)

// RuleService manages the discount rule catalog. Configuration errors are
// caught here, at rule-load time, so the resolution hot path never sees an
// invalid rule.
type RuleService interface {
	CreateRule(ctx context.Context, req dto.CreateRuleRequest) (*dto.RuleResponse, error)
	GetRule(ctx context.Context, id string) (*dto.RuleResponse, error)
	ListRules(ctx context.Context) (*dto.ListRulesResponse, error)
	UpdateRule(ctx context.Context, id string, req dto.UpdateRuleRequest) (*dto.RuleResponse, error)
	DeleteRule(ctx context.Context, id string) error
	// CommitUsage applies the advisory usage increments of a resolution.
	// The engine never commits them itself.
	CommitUsage(ctx context.Context, req dto.CommitUsageRequest) error
}

type ruleService struct {
	ServiceParams
}

// NewRuleService creates a new rule service
func NewRuleService(params ServiceParams) RuleService {
	return &ruleService{ServiceParams: params}
}

func (s *ruleService) CreateRule(ctx context.Context, req dto.CreateRuleRequest) (*dto.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := req.ToRule(ctx)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.RuleRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.Logger.Infow("created discount rule",
		"rule_id", r.ID,
		"discount_kind", r.DiscountKind,
		"priority", r.Priority)

	return &dto.RuleResponse{DiscountRule: r}, nil
}

func (s *ruleService) GetRule(ctx context.Context, id string) (*dto.RuleResponse, error) {
	r, err := s.RuleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.RuleResponse{DiscountRule: r}, nil
}

func (s *ruleService) ListRules(ctx context.Context) (*dto.ListRulesResponse, error) {
	rules, err := s.RuleRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.RuleResponse, 0, len(rules))
	for _, r := range rules {
		items = append(items, &dto.RuleResponse{DiscountRule: r})
	}
	return &dto.ListRulesResponse{Items: items, Total: len(items)}, nil
}

func (s *ruleService) UpdateRule(ctx context.Context, id string, req dto.UpdateRuleRequest) (*dto.RuleResponse, error) {
	r, err := s.RuleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(r, ctx)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := s.RuleRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated discount rule", "rule_id", r.ID)

	return &dto.RuleResponse{DiscountRule: r}, nil
}

func (s *ruleService) DeleteRule(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("rule id is required").
			WithHint("Provide the id of the rule to delete").
			Mark(ierr.ErrValidation)
	}

	if err := s.RuleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Logger.Infow("deleted discount rule", "rule_id", id)
	return nil
}

func (s *ruleService) CommitUsage(ctx context.Context, req dto.CommitUsageRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	for _, id := range req.RuleIDs {
		if err := s.RuleRepo.IncrementUsage(ctx, id); err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to commit usage for rule %s", id).
				Mark(ierr.ErrInvalidOperation)
		}
	}

	s.Logger.Infow("committed rule usage", "rules", len(req.RuleIDs))
	return nil
}

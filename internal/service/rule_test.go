package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/priceforge/priceforge/internal/api/dto"
	ierr "github.com/priceforge/priceforge/internal/errors"
	"github.com/priceforge/priceforge/internal/testutil"
	"github.com/priceforge/priceforge/internal/types"
)

type RuleServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RuleService
}

func TestRuleService(t *testing.T) {
	suite.Run(t, new(RuleServiceSuite))
}

func (s *RuleServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRuleService(NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetStores().RuleRepo,
	))
}

func (s *RuleServiceSuite) newCreateRequest() dto.CreateRuleRequest {
	return dto.CreateRuleRequest{
		Name:            "Summer sale",
		Description:     "10 percent off everything",
		DiscountKind:    types.DiscountKindPercentage,
		Value:           decimal.NewFromInt(10),
		Currency:        "usd",
		ApplicationMode: types.ApplicationModeAccumulable,
		Priority:        1,
	}
}

func (s *RuleServiceSuite) TestCreateRule() {
	resp, err := s.service.CreateRule(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.NotEmpty(resp.ID)
	s.Contains(resp.ID, "rule_")
	s.Equal("Summer sale", resp.Name)
	s.True(resp.IsActive)
	s.Equal(types.StatusPublished, resp.Status)
}

func (s *RuleServiceSuite) TestCreateRuleValidation() {
	tests := []struct {
		name   string
		modify func(*dto.CreateRuleRequest)
	}{
		{
			name:   "missing name",
			modify: func(r *dto.CreateRuleRequest) { r.Name = "" },
		},
		{
			name:   "missing currency",
			modify: func(r *dto.CreateRuleRequest) { r.Currency = "" },
		},
		{
			name:   "unknown discount kind",
			modify: func(r *dto.CreateRuleRequest) { r.DiscountKind = "raffle" },
		},
		{
			name:   "priority below one",
			modify: func(r *dto.CreateRuleRequest) { r.Priority = 0 },
		},
		{
			name:   "percentage above 100",
			modify: func(r *dto.CreateRuleRequest) { r.Value = decimal.NewFromInt(150) },
		},
		{
			name: "usage limit below one",
			modify: func(r *dto.CreateRuleRequest) {
				limit := 0
				r.UsageLimit = &limit
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.newCreateRequest()
			tt.modify(&req)

			_, err := s.service.CreateRule(s.GetContext(), req)
			s.Error(err)
			s.True(ierr.IsValidation(err))
		})
	}
}

func (s *RuleServiceSuite) TestGetRule() {
	created, err := s.service.CreateRule(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	got, err := s.service.GetRule(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, got.ID)

	_, err = s.service.GetRule(s.GetContext(), "rule_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *RuleServiceSuite) TestListRules() {
	for i := 0; i < 3; i++ {
		req := s.newCreateRequest()
		_, err := s.service.CreateRule(s.GetContext(), req)
		s.NoError(err)
	}

	resp, err := s.service.ListRules(s.GetContext())
	s.NoError(err)
	s.Equal(3, resp.Total)
	s.Len(resp.Items, 3)
}

func (s *RuleServiceSuite) TestUpdateRule() {
	created, err := s.service.CreateRule(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	name := "Winter sale"
	value := decimal.NewFromInt(20)
	updated, err := s.service.UpdateRule(s.GetContext(), created.ID, dto.UpdateRuleRequest{
		Name:  &name,
		Value: &value,
	})
	s.NoError(err)
	s.Equal("Winter sale", updated.Name)
	s.True(updated.Value.Equal(decimal.NewFromInt(20)))

	// an update that breaks the configuration is rejected before persisting
	badValue := decimal.NewFromInt(500)
	_, err = s.service.UpdateRule(s.GetContext(), created.ID, dto.UpdateRuleRequest{Value: &badValue})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// the stored rule is untouched by the failed update
	got, err := s.service.GetRule(s.GetContext(), created.ID)
	s.NoError(err)
	s.True(got.Value.Equal(decimal.NewFromInt(20)))
}

func (s *RuleServiceSuite) TestDeleteRule() {
	created, err := s.service.CreateRule(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.NoError(s.service.DeleteRule(s.GetContext(), created.ID))

	_, err = s.service.GetRule(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	s.Error(s.service.DeleteRule(s.GetContext(), ""))
}

func (s *RuleServiceSuite) TestCommitUsage() {
	limit := 2
	req := s.newCreateRequest()
	req.UsageLimit = &limit

	created, err := s.service.CreateRule(s.GetContext(), req)
	s.NoError(err)

	s.NoError(s.service.CommitUsage(s.GetContext(), dto.CommitUsageRequest{RuleIDs: []string{created.ID}}))
	s.NoError(s.service.CommitUsage(s.GetContext(), dto.CommitUsageRequest{RuleIDs: []string{created.ID}}))

	got, err := s.service.GetRule(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(2, got.UsageCount)

	// a third commit exceeds the limit
	err = s.service.CommitUsage(s.GetContext(), dto.CommitUsageRequest{RuleIDs: []string{created.ID}})
	s.Error(err)

	// empty request is a caller mistake
	err = s.service.CommitUsage(s.GetContext(), dto.CommitUsageRequest{})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

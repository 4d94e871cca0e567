package service

import (
	"context"
	"fmt"

	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateFeeTypeRequest struct {
	Name       string `json:"name" binding:"required"`
	BaseAmount string `json:"base_amount" binding:"required"`
	Mandatory  bool   `json:"mandatory"`
	Frequency  string `json:"frequency" binding:"required,oneof=ONE_TIME MONTHLY QUARTERLY ANNUAL"`
}

type CreateBillingRuleRequest struct {
	FeeTypeID  string  `json:"fee_type_id" binding:"required"`
	TargetType string  `json:"target_type" binding:"required,oneof=CLASS SECTION SCHOOL"`
	ClassID    string  `json:"class_id"`
	SectionID  string  `json:"section_id"`
	Amount     *string `json:"amount"` // omit to inherit the fee type base amount
}

type ResolveAmountRequest struct {
	FeeTypeID string `json:"fee_type_id" binding:"required"`
	ClassID   string `json:"class_id"`
	SectionID string `json:"section_id"`
}

type ResolveAmountResponse struct {
	FeeTypeID   string `json:"fee_type_id"`
	Amount      string `json:"amount"`
	MatchedRule string `json:"matched_rule"` // CLASS, SECTION, SCHOOL or BASE when no rule applied
}

type FeeTypeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BaseAmount string `json:"base_amount"`
	Mandatory  bool   `json:"mandatory"`
	Frequency  string `json:"frequency"`
	Active     bool   `json:"active"`
}

type BillingRuleResponse struct {
	ID         string  `json:"id"`
	FeeTypeID  string  `json:"fee_type_id"`
	FeeType    string  `json:"fee_type"`
	TargetType string  `json:"target_type"`
	ClassID    *string `json:"class_id"`
	SectionID  *string `json:"section_id"`
	Amount     *string `json:"amount"`
}

// --- Interface ---

// FeeRuleService owns fee type administration and billed-amount resolution.
// Resolution is a single ordered-candidate walk: a class-scoped rule beats a
// section-scoped rule beats the whole-school default, unconditionally. Rules
// are never combined or summed.
type FeeRuleService interface {
	CreateFeeType(ctx context.Context, schoolID uuid.UUID, req CreateFeeTypeRequest) (FeeTypeResponse, error)
	ListFeeTypes(ctx context.Context, schoolID uuid.UUID, activeOnly bool) ([]FeeTypeResponse, error)
	CreateBillingRule(ctx context.Context, schoolID uuid.UUID, req CreateBillingRuleRequest) (BillingRuleResponse, error)
	ListBillingRules(ctx context.Context, schoolID uuid.UUID) ([]BillingRuleResponse, error)
	DeleteBillingRule(ctx context.Context, id string) error
	ResolveAmount(ctx context.Context, req ResolveAmountRequest) (ResolveAmountResponse, error)
}

type feeRuleService struct {
	feeTypeRepo repository.FeeTypeRepository
	ruleRepo    repository.BillingRuleRepository
}

func NewFeeRuleService(feeTypeRepo repository.FeeTypeRepository, ruleRepo repository.BillingRuleRepository) FeeRuleService {
	return &feeRuleService{feeTypeRepo: feeTypeRepo, ruleRepo: ruleRepo}
}

// --- Implementation ---

func (s *feeRuleService) CreateFeeType(ctx context.Context, schoolID uuid.UUID, req CreateFeeTypeRequest) (FeeTypeResponse, error) {
	baseAmount, err := decimal.NewFromString(req.BaseAmount)
	if err != nil {
		return FeeTypeResponse{}, fmt.Errorf("invalid base_amount: %w", err)
	}
	if baseAmount.IsNegative() {
		return FeeTypeResponse{}, fmt.Errorf("base_amount must not be negative")
	}

	feeType := model.FeeType{
		SchoolID:   schoolID,
		Name:       req.Name,
		BaseAmount: baseAmount,
		Mandatory:  req.Mandatory,
		Frequency:  req.Frequency,
		Active:     true,
	}

	if err := s.feeTypeRepo.Create(ctx, &feeType); err != nil {
		return FeeTypeResponse{}, fmt.Errorf("failed to create fee type: %w", err)
	}

	return toFeeTypeResponse(feeType), nil
}

func (s *feeRuleService) ListFeeTypes(ctx context.Context, schoolID uuid.UUID, activeOnly bool) ([]FeeTypeResponse, error) {
	feeTypes, err := s.feeTypeRepo.List(ctx, schoolID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fee types: %w", err)
	}

	result := make([]FeeTypeResponse, 0, len(feeTypes))
	for _, ft := range feeTypes {
		result = append(result, toFeeTypeResponse(ft))
	}
	return result, nil
}

func (s *feeRuleService) CreateBillingRule(ctx context.Context, schoolID uuid.UUID, req CreateBillingRuleRequest) (BillingRuleResponse, error) {
	feeTypeID, err := uuid.Parse(req.FeeTypeID)
	if err != nil {
		return BillingRuleResponse{}, fmt.Errorf("invalid fee_type_id: %w", err)
	}

	feeType, err := s.feeTypeRepo.FindByID(ctx, feeTypeID)
	if err != nil {
		return BillingRuleResponse{}, fmt.Errorf("fee type not found: %w", err)
	}

	rule := model.BillingRule{
		SchoolID:   schoolID,
		FeeTypeID:  feeTypeID,
		TargetType: req.TargetType,
	}

	switch req.TargetType {
	case model.TargetClass:
		classID, parseErr := uuid.Parse(req.ClassID)
		if parseErr != nil {
			return BillingRuleResponse{}, fmt.Errorf("class_id is required for a class-scoped rule: %w", parseErr)
		}
		rule.ClassID = &classID
	case model.TargetSection:
		sectionID, parseErr := uuid.Parse(req.SectionID)
		if parseErr != nil {
			return BillingRuleResponse{}, fmt.Errorf("section_id is required for a section-scoped rule: %w", parseErr)
		}
		rule.SectionID = &sectionID
	}

	if req.Amount != nil {
		amount, parseErr := decimal.NewFromString(*req.Amount)
		if parseErr != nil {
			return BillingRuleResponse{}, fmt.Errorf("invalid amount: %w", parseErr)
		}
		if amount.IsNegative() {
			return BillingRuleResponse{}, fmt.Errorf("amount must not be negative")
		}
		rule.Amount = &amount
	}

	// At most one rule per (fee type, target): the unique index is the
	// backstop, but reject cleanly before hitting it.
	existing, err := s.ruleRepo.ListByFeeType(ctx, feeTypeID)
	if err != nil {
		return BillingRuleResponse{}, fmt.Errorf("failed to check existing rules: %w", err)
	}
	for _, ex := range existing {
		if sameTarget(ex, rule) {
			return BillingRuleResponse{}, fmt.Errorf("a %s rule already exists for fee type %s", req.TargetType, feeType.Name)
		}
	}

	if err := s.ruleRepo.Create(ctx, &rule); err != nil {
		return BillingRuleResponse{}, fmt.Errorf("failed to create billing rule: %w", err)
	}

	rule.FeeType = feeType
	return toBillingRuleResponse(rule), nil
}

func (s *feeRuleService) ListBillingRules(ctx context.Context, schoolID uuid.UUID) ([]BillingRuleResponse, error) {
	rules, err := s.ruleRepo.List(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch billing rules: %w", err)
	}

	result := make([]BillingRuleResponse, 0, len(rules))
	for _, rule := range rules {
		result = append(result, toBillingRuleResponse(rule))
	}
	return result, nil
}

func (s *feeRuleService) DeleteBillingRule(ctx context.Context, id string) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid rule id: %w", err)
	}
	if _, err := s.ruleRepo.FindByID(ctx, ruleID); err != nil {
		return fmt.Errorf("billing rule not found: %w", err)
	}
	return s.ruleRepo.Delete(ctx, ruleID)
}

// ResolveAmount picks the amount to charge for a fee type given the student's
// class and section. Candidates are evaluated in strict specificity order —
// class, then section, then whole school — and the first match wins. A rule
// without an override amount matches and yields the fee type base amount. If
// no rule matches at all, the base amount applies.
func (s *feeRuleService) ResolveAmount(ctx context.Context, req ResolveAmountRequest) (ResolveAmountResponse, error) {
	feeTypeID, err := uuid.Parse(req.FeeTypeID)
	if err != nil {
		return ResolveAmountResponse{}, fmt.Errorf("invalid fee_type_id: %w", err)
	}

	feeType, err := s.feeTypeRepo.FindByID(ctx, feeTypeID)
	if err != nil {
		return ResolveAmountResponse{}, fmt.Errorf("fee type not found: %w", err)
	}

	var classID, sectionID *uuid.UUID
	if req.ClassID != "" {
		parsed, parseErr := uuid.Parse(req.ClassID)
		if parseErr != nil {
			return ResolveAmountResponse{}, fmt.Errorf("invalid class_id: %w", parseErr)
		}
		classID = &parsed
	}
	if req.SectionID != "" {
		parsed, parseErr := uuid.Parse(req.SectionID)
		if parseErr != nil {
			return ResolveAmountResponse{}, fmt.Errorf("invalid section_id: %w", parseErr)
		}
		sectionID = &parsed
	}

	rules, err := s.ruleRepo.ListByFeeType(ctx, feeTypeID)
	if err != nil {
		return ResolveAmountResponse{}, fmt.Errorf("failed to fetch billing rules: %w", err)
	}

	amount, matched, err := resolveAmount(feeType, rules, classID, sectionID)
	if err != nil {
		return ResolveAmountResponse{}, err
	}

	return ResolveAmountResponse{
		FeeTypeID:   feeType.ID.String(),
		Amount:      amount.StringFixed(2),
		MatchedRule: matched,
	}, nil
}

// resolveAmount is the ordered-candidate evaluator. scopes lists the
// precedence explicitly so the conflict policy lives in one place.
func resolveAmount(feeType *model.FeeType, rules []model.BillingRule, classID, sectionID *uuid.UUID) (decimal.Decimal, string, error) {
	scopes := []string{model.TargetClass, model.TargetSection, model.TargetSchool}

	for _, scope := range scopes {
		for _, rule := range rules {
			if rule.TargetType != scope {
				continue
			}
			switch scope {
			case model.TargetClass:
				if classID == nil {
					// A class-scoped rule is stored but the caller gave no
					// class: refusing beats silently falling through to a
					// broader (and possibly wrong) amount.
					return decimal.Zero, "", model.ErrAmbiguousTarget
				}
				if rule.ClassID == nil || *rule.ClassID != *classID {
					continue
				}
			case model.TargetSection:
				if sectionID == nil {
					return decimal.Zero, "", model.ErrAmbiguousTarget
				}
				if rule.SectionID == nil || *rule.SectionID != *sectionID {
					continue
				}
			}
			if rule.Amount != nil {
				return *rule.Amount, scope, nil
			}
			return feeType.BaseAmount, scope, nil
		}
	}

	return feeType.BaseAmount, "BASE", nil
}

func sameTarget(a, b model.BillingRule) bool {
	if a.TargetType != b.TargetType {
		return false
	}
	switch a.TargetType {
	case model.TargetClass:
		return a.ClassID != nil && b.ClassID != nil && *a.ClassID == *b.ClassID
	case model.TargetSection:
		return a.SectionID != nil && b.SectionID != nil && *a.SectionID == *b.SectionID
	default:
		return true
	}
}

// --- Mapping ---

func toFeeTypeResponse(ft model.FeeType) FeeTypeResponse {
	return FeeTypeResponse{
		ID:         ft.ID.String(),
		Name:       ft.Name,
		BaseAmount: ft.BaseAmount.StringFixed(2),
		Mandatory:  ft.Mandatory,
		Frequency:  ft.Frequency,
		Active:     ft.Active,
	}
}

func toBillingRuleResponse(rule model.BillingRule) BillingRuleResponse {
	resp := BillingRuleResponse{
		ID:         rule.ID.String(),
		FeeTypeID:  rule.FeeTypeID.String(),
		TargetType: rule.TargetType,
	}
	if rule.FeeType != nil {
		resp.FeeType = rule.FeeType.Name
	}
	if rule.ClassID != nil {
		s := rule.ClassID.String()
		resp.ClassID = &s
	}
	if rule.SectionID != nil {
		s := rule.SectionID.String()
		resp.SectionID = &s
	}
	if rule.Amount != nil {
		s := rule.Amount.StringFixed(2)
		resp.Amount = &s
	}
	return resp
}

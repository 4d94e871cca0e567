package repository

import (
	"context"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeeTypeRepository interface {
	Create(ctx context.Context, feeType *model.FeeType) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FeeType, error)
	List(ctx context.Context, schoolID uuid.UUID, activeOnly bool) ([]model.FeeType, error)
	Update(ctx context.Context, feeType *model.FeeType) error
}

type feeTypeRepository struct {
	db *gorm.DB
}

func NewFeeTypeRepository(db *gorm.DB) FeeTypeRepository {
	return &feeTypeRepository{db: db}
}

func (r *feeTypeRepository) Create(ctx context.Context, feeType *model.FeeType) error {
	return GetDB(ctx, r.db).Create(feeType).Error
}

func (r *feeTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.FeeType, error) {
	var feeType model.FeeType
	if err := GetDB(ctx, r.db).First(&feeType, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &feeType, nil
}

func (r *feeTypeRepository) List(ctx context.Context, schoolID uuid.UUID, activeOnly bool) ([]model.FeeType, error) {
	var feeTypes []model.FeeType
	query := GetDB(ctx, r.db).Where("school_id = ?", schoolID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Order("name").Find(&feeTypes).Error; err != nil {
		return nil, err
	}
	return feeTypes, nil
}

func (r *feeTypeRepository) Update(ctx context.Context, feeType *model.FeeType) error {
	return GetDB(ctx, r.db).Save(feeType).Error
}

type BillingRuleRepository interface {
	Create(ctx context.Context, rule *model.BillingRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BillingRule, error)
	ListByFeeType(ctx context.Context, feeTypeID uuid.UUID) ([]model.BillingRule, error)
	List(ctx context.Context, schoolID uuid.UUID) ([]model.BillingRule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type billingRuleRepository struct {
	db *gorm.DB
}

func NewBillingRuleRepository(db *gorm.DB) BillingRuleRepository {
	return &billingRuleRepository{db: db}
}

func (r *billingRuleRepository) Create(ctx context.Context, rule *model.BillingRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *billingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BillingRule, error) {
	var rule model.BillingRule
	if err := GetDB(ctx, r.db).Preload("FeeType").First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *billingRuleRepository) ListByFeeType(ctx context.Context, feeTypeID uuid.UUID) ([]model.BillingRule, error) {
	var rules []model.BillingRule
	if err := GetDB(ctx, r.db).Where("fee_type_id = ?", feeTypeID).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *billingRuleRepository) List(ctx context.Context, schoolID uuid.UUID) ([]model.BillingRule, error) {
	var rules []model.BillingRule
	if err := GetDB(ctx, r.db).Preload("FeeType").Where("school_id = ?", schoolID).Order("created_at desc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *billingRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.BillingRule{}).Error
}

package repository

import (
	"context"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SchoolRepository interface {
	Create(ctx context.Context, school *model.School) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.School, error)
	List(ctx context.Context) ([]model.School, error)
}

type schoolRepository struct {
	db *gorm.DB
}

func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(ctx context.Context, school *model.School) error {
	return GetDB(ctx, r.db).Create(school).Error
}

func (r *schoolRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.School, error) {
	var school model.School
	if err := GetDB(ctx, r.db).First(&school, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepository) List(ctx context.Context) ([]model.School, error) {
	var schools []model.School
	if err := GetDB(ctx, r.db).Order("name").Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

type ClassRepository interface {
	CreateSection(ctx context.Context, section *model.Section) error
	CreateClass(ctx context.Context, class *model.Class) error
	FindClassByID(ctx context.Context, id uuid.UUID) (*model.Class, error)
	FindSectionByID(ctx context.Context, id uuid.UUID) (*model.Section, error)
	ListClasses(ctx context.Context, schoolID uuid.UUID) ([]model.Class, error)
	ListSections(ctx context.Context, schoolID uuid.UUID) ([]model.Section, error)
}

type classRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) CreateSection(ctx context.Context, section *model.Section) error {
	return GetDB(ctx, r.db).Create(section).Error
}

func (r *classRepository) CreateClass(ctx context.Context, class *model.Class) error {
	return GetDB(ctx, r.db).Create(class).Error
}

func (r *classRepository) FindClassByID(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	var class model.Class
	if err := GetDB(ctx, r.db).Preload("Section").First(&class, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) FindSectionByID(ctx context.Context, id uuid.UUID) (*model.Section, error) {
	var section model.Section
	if err := GetDB(ctx, r.db).First(&section, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *classRepository) ListClasses(ctx context.Context, schoolID uuid.UUID) ([]model.Class, error) {
	var classes []model.Class
	if err := GetDB(ctx, r.db).Preload("Section").Where("school_id = ?", schoolID).Order("level, name").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) ListSections(ctx context.Context, schoolID uuid.UUID) ([]model.Section, error) {
	var sections []model.Section
	if err := GetDB(ctx, r.db).Where("school_id = ?", schoolID).Order("name").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

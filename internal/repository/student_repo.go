package repository

import (
	"context"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	List(ctx context.Context, schoolID uuid.UUID, classID *uuid.UUID, page, limit int) ([]model.Student, int64, error)
	Update(ctx context.Context, student *model.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return GetDB(ctx, r.db).Create(student).Error
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	var student model.Student
	if err := GetDB(ctx, r.db).Preload("Class").Preload("Class.Section").First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context, schoolID uuid.UUID, classID *uuid.UUID, page, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Student{}).Where("school_id = ?", schoolID)
	if classID != nil {
		query = query.Where("class_id = ?", *classID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Class").Where("school_id = ?", schoolID)
	if classID != nil {
		fetch = fetch.Where("class_id = ?", *classID)
	}
	if err := fetch.Order("last_name, first_name").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	return GetDB(ctx, r.db).Save(student).Error
}

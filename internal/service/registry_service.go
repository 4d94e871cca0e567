package service

import (
	"context"
	"encoding/json"
	"fmt"

	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateSectionRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateClassRequest struct {
	SectionID string `json:"section_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Level     int    `json:"level" binding:"required,min=1"`
}

type CreateStudentRequest struct {
	ClassID        string `json:"class_id"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	RegistrationNo string `json:"registration_no"`
	GuardianName   string `json:"guardian_name"`
	GuardianPhone  string `json:"guardian_phone"`
}

type StudentResponse struct {
	ID             string  `json:"id"`
	ClassID        *string `json:"class_id"`
	ClassName      string  `json:"class_name,omitempty"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	RegistrationNo string  `json:"registration_no"`
	GuardianName   string  `json:"guardian_name"`
	GuardianPhone  string  `json:"guardian_phone"`
	Active         bool    `json:"active"`
}

// --- Interface ---

// RegistryService administers the billing targets: sections, classes and
// students. It carries no financial logic of its own.
type RegistryService interface {
	CreateSection(ctx context.Context, schoolID uuid.UUID, req CreateSectionRequest) (*model.Section, error)
	ListSections(ctx context.Context, schoolID uuid.UUID) ([]model.Section, error)
	CreateClass(ctx context.Context, schoolID uuid.UUID, req CreateClassRequest) (*model.Class, error)
	ListClasses(ctx context.Context, schoolID uuid.UUID) ([]model.Class, error)
	CreateStudent(ctx context.Context, schoolID, userID uuid.UUID, req CreateStudentRequest) (StudentResponse, error)
	ListStudents(ctx context.Context, schoolID uuid.UUID, classID string, page, limit int) ([]StudentResponse, int64, error)
}

type registryService struct {
	classRepo   repository.ClassRepository
	studentRepo repository.StudentRepository
	auditRepo   repository.AuditRepository
}

func NewRegistryService(classRepo repository.ClassRepository, studentRepo repository.StudentRepository, auditRepo repository.AuditRepository) RegistryService {
	return &registryService{classRepo: classRepo, studentRepo: studentRepo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *registryService) CreateSection(ctx context.Context, schoolID uuid.UUID, req CreateSectionRequest) (*model.Section, error) {
	section := &model.Section{SchoolID: schoolID, Name: req.Name}
	if err := s.classRepo.CreateSection(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return section, nil
}

func (s *registryService) ListSections(ctx context.Context, schoolID uuid.UUID) ([]model.Section, error) {
	return s.classRepo.ListSections(ctx, schoolID)
}

func (s *registryService) CreateClass(ctx context.Context, schoolID uuid.UUID, req CreateClassRequest) (*model.Class, error) {
	sectionID, err := uuid.Parse(req.SectionID)
	if err != nil {
		return nil, fmt.Errorf("invalid section_id: %w", err)
	}
	if _, err := s.classRepo.FindSectionByID(ctx, sectionID); err != nil {
		return nil, fmt.Errorf("section not found: %w", err)
	}

	class := &model.Class{
		SchoolID:  schoolID,
		SectionID: sectionID,
		Name:      req.Name,
		Level:     req.Level,
	}
	if err := s.classRepo.CreateClass(ctx, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	return class, nil
}

func (s *registryService) ListClasses(ctx context.Context, schoolID uuid.UUID) ([]model.Class, error) {
	return s.classRepo.ListClasses(ctx, schoolID)
}

func (s *registryService) CreateStudent(ctx context.Context, schoolID, userID uuid.UUID, req CreateStudentRequest) (StudentResponse, error) {
	student := model.Student{
		SchoolID:       schoolID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		RegistrationNo: req.RegistrationNo,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
		Active:         true,
	}

	if req.ClassID != "" {
		classID, err := uuid.Parse(req.ClassID)
		if err != nil {
			return StudentResponse{}, fmt.Errorf("invalid class_id: %w", err)
		}
		if _, err := s.classRepo.FindClassByID(ctx, classID); err != nil {
			return StudentResponse{}, fmt.Errorf("class not found: %w", err)
		}
		student.ClassID = &classID
	}

	if err := s.studentRepo.Create(ctx, &student); err != nil {
		return StudentResponse{}, fmt.Errorf("failed to create student: %w", err)
	}

	details, _ := json.Marshal(map[string]string{"registration_no": req.RegistrationNo})
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		SchoolID:   schoolID,
		UserID:     &userID,
		Action:     model.ActionCreateStudent,
		EntityID:   student.ID.String(),
		EntityName: student.LastName + " " + student.FirstName,
		Details:    string(details),
	})

	return toStudentResponse(student), nil
}

func (s *registryService) ListStudents(ctx context.Context, schoolID uuid.UUID, classID string, page, limit int) ([]StudentResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var classFilter *uuid.UUID
	if classID != "" {
		parsed, err := uuid.Parse(classID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid class_id: %w", err)
		}
		classFilter = &parsed
	}

	students, total, err := s.studentRepo.List(ctx, schoolID, classFilter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch students: %w", err)
	}

	result := make([]StudentResponse, 0, len(students))
	for _, st := range students {
		result = append(result, toStudentResponse(st))
	}
	return result, total, nil
}

// --- Mapping ---

func toStudentResponse(st model.Student) StudentResponse {
	resp := StudentResponse{
		ID:             st.ID.String(),
		FirstName:      st.FirstName,
		LastName:       st.LastName,
		RegistrationNo: st.RegistrationNo,
		GuardianName:   st.GuardianName,
		GuardianPhone:  st.GuardianPhone,
		Active:         st.Active,
	}
	if st.ClassID != nil {
		s := st.ClassID.String()
		resp.ClassID = &s
	}
	if st.Class != nil {
		resp.ClassName = st.Class.Name
	}
	return resp
}

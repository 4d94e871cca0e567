package service

import (
	"context"
	"testing"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStudent(t *testing.T) {
	ctx := context.Background()
	classRepo := newFakeClassRepo()
	auditRepo := &fakeAuditRepo{}
	svc := NewRegistryService(classRepo, newFakeStudentRepo(), auditRepo)

	schoolID := uuid.New()
	userID := uuid.New()

	section, err := svc.CreateSection(ctx, schoolID, CreateSectionRequest{Name: "Collège"})
	require.NoError(t, err)

	class, err := svc.CreateClass(ctx, schoolID, CreateClassRequest{
		SectionID: section.ID.String(),
		Name:      "6e A",
		Level:     6,
	})
	require.NoError(t, err)

	resp, err := svc.CreateStudent(ctx, schoolID, userID, CreateStudentRequest{
		ClassID:        class.ID.String(),
		FirstName:      "Aminata",
		LastName:       "Diallo",
		RegistrationNo: "2026-0042",
		GuardianName:   "Mariam Diallo",
		GuardianPhone:  "+225 07 00 00 00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Aminata", resp.FirstName)
	assert.Equal(t, "2026-0042", resp.RegistrationNo)

	require.Len(t, auditRepo.logs, 1)
	assert.Equal(t, model.ActionCreateStudent, auditRepo.logs[0].Action)
	assert.Equal(t, "Diallo Aminata", auditRepo.logs[0].EntityName)
}

func TestCreateStudentUnknownClass(t *testing.T) {
	ctx := context.Background()
	svc := NewRegistryService(newFakeClassRepo(), newFakeStudentRepo(), &fakeAuditRepo{})

	_, err := svc.CreateStudent(ctx, uuid.New(), uuid.New(), CreateStudentRequest{
		ClassID:   uuid.New().String(),
		FirstName: "Aminata",
		LastName:  "Diallo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class not found")
}

func TestCreateClassRequiresSection(t *testing.T) {
	ctx := context.Background()
	svc := NewRegistryService(newFakeClassRepo(), newFakeStudentRepo(), &fakeAuditRepo{})

	_, err := svc.CreateClass(ctx, uuid.New(), CreateClassRequest{
		SectionID: uuid.New().String(),
		Name:      "6e A",
		Level:     6,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section not found")
}

func TestListStudentsFiltersByClass(t *testing.T) {
	ctx := context.Background()
	classRepo := newFakeClassRepo()
	svc := NewRegistryService(classRepo, newFakeStudentRepo(), &fakeAuditRepo{})

	schoolID := uuid.New()
	userID := uuid.New()

	section, err := svc.CreateSection(ctx, schoolID, CreateSectionRequest{Name: "Collège"})
	require.NoError(t, err)
	classA, err := svc.CreateClass(ctx, schoolID, CreateClassRequest{SectionID: section.ID.String(), Name: "6e A", Level: 6})
	require.NoError(t, err)
	classB, err := svc.CreateClass(ctx, schoolID, CreateClassRequest{SectionID: section.ID.String(), Name: "6e B", Level: 6})
	require.NoError(t, err)

	_, err = svc.CreateStudent(ctx, schoolID, userID, CreateStudentRequest{ClassID: classA.ID.String(), FirstName: "Aminata", LastName: "Diallo"})
	require.NoError(t, err)
	_, err = svc.CreateStudent(ctx, schoolID, userID, CreateStudentRequest{ClassID: classB.ID.String(), FirstName: "Moussa", LastName: "Koné"})
	require.NoError(t, err)

	all, total, err := svc.ListStudents(ctx, schoolID, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	onlyA, total, err := svc.ListStudents(ctx, schoolID, classA.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "Aminata", onlyA[0].FirstName)
}

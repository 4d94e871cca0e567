package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"scolaris/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceFixture struct {
	svc         InvoiceService
	invoiceRepo *fakeInvoiceRepo
	feeTypeRepo *fakeFeeTypeRepo
	ruleRepo    *fakeRuleRepo
	auditRepo   *fakeAuditRepo
	publisher   *recordingPublisher
	schoolID    uuid.UUID
	userID      uuid.UUID
	student     *model.Student
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	ctx := context.Background()

	schoolRepo := newFakeSchoolRepo()
	school := &model.School{Name: "Lycée Sainte-Marie", Code: "LSM", Currency: "XOF"}
	require.NoError(t, schoolRepo.Create(ctx, school))

	sectionID := uuid.New()
	classID := uuid.New()
	studentRepo := newFakeStudentRepo()
	student := &model.Student{
		SchoolID:  school.ID,
		FirstName: "Aminata",
		LastName:  "Diallo",
		ClassID:   &classID,
		Class:     &model.Class{ID: classID, SchoolID: school.ID, SectionID: sectionID, Name: "6e A"},
	}
	require.NoError(t, studentRepo.Create(ctx, student))

	f := &invoiceFixture{
		invoiceRepo: newFakeInvoiceRepo(),
		feeTypeRepo: newFakeFeeTypeRepo(),
		ruleRepo:    &fakeRuleRepo{},
		auditRepo:   &fakeAuditRepo{},
		publisher:   &recordingPublisher{},
		schoolID:    school.ID,
		userID:      uuid.New(),
		student:     student,
	}
	f.svc = NewInvoiceService(
		f.invoiceRepo, studentRepo, f.feeTypeRepo, f.ruleRepo,
		schoolRepo, newFakeSeqRepo(), f.auditRepo, fakeTxManager{}, f.publisher,
	)
	return f
}

func (f *invoiceFixture) createFeeType(t *testing.T, name, baseAmount string) *model.FeeType {
	t.Helper()
	ft := &model.FeeType{SchoolID: f.schoolID, Name: name, BaseAmount: dec(baseAmount), Frequency: model.FrequencyMonthly, Active: true}
	require.NoError(t, f.feeTypeRepo.Create(context.Background(), ft))
	return ft
}

func TestComposeInvoice(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture(t)
	tuition := f.createFeeType(t, "Scolarité", "100000")
	exam := f.createFeeType(t, "Frais d'examen", "15000")

	resp, err := f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items: []InvoiceItemRequest{
			{FeeTypeID: tuition.ID.String(), Quantity: 1, UnitPrice: strPtr("100000")},
			{FeeTypeID: exam.ID.String(), Quantity: 2, UnitPrice: strPtr("15000")},
		},
	})
	require.NoError(t, err)

	wantNo := fmt.Sprintf("FAC-LSM-%s-0001", time.Now().Format("200601"))
	assert.Equal(t, wantNo, resp.InvoiceNo)
	assert.Equal(t, "130000.00", resp.TotalAmount)
	assert.Equal(t, "0.00", resp.PaidAmount)
	assert.Equal(t, "130000.00", resp.Outstanding)
	assert.Equal(t, model.InvoicePending, resp.Status)
	assert.Equal(t, "Diallo Aminata", resp.StudentName)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Scolarité", resp.Items[0].Description)
	assert.Equal(t, "30000.00", resp.Items[1].TotalPrice)

	require.Len(t, f.auditRepo.logs, 1)
	assert.Equal(t, model.ActionComposeInvoice, f.auditRepo.logs[0].Action)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, EventInvoiceIssued, f.publisher.events[0].name)
}

func TestComposeInvoiceSequentialNumbers(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture(t)
	tuition := f.createFeeType(t, "Scolarité", "100000")

	req := ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items:     []InvoiceItemRequest{{FeeTypeID: tuition.ID.String(), Quantity: 1, UnitPrice: strPtr("100000")}},
	}

	first, err := f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, req)
	require.NoError(t, err)
	second, err := f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, req)
	require.NoError(t, err)

	period := time.Now().Format("200601")
	assert.Equal(t, fmt.Sprintf("FAC-LSM-%s-0001", period), first.InvoiceNo)
	assert.Equal(t, fmt.Sprintf("FAC-LSM-%s-0002", period), second.InvoiceNo)
}

func TestComposeInvoiceResolvesMissingPrice(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture(t)
	tuition := f.createFeeType(t, "Scolarité", "100000")

	// Class-scoped override applies to the student's class.
	override := dec("80000")
	require.NoError(t, f.ruleRepo.Create(ctx, &model.BillingRule{
		SchoolID:   f.schoolID,
		FeeTypeID:  tuition.ID,
		TargetType: model.TargetClass,
		ClassID:    f.student.ClassID,
		Amount:     &override,
	}))

	resp, err := f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items:     []InvoiceItemRequest{{FeeTypeID: tuition.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "80000.00", resp.TotalAmount)
	assert.Equal(t, "80000.00", resp.Items[0].UnitPrice)
}

func TestComposeInvoiceRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture(t)
	free := f.createFeeType(t, "Bourse", "0")

	_, err := f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items:     nil,
	})
	assert.ErrorIs(t, err, model.ErrEmptyInvoice)

	// Items that sum to zero are as empty as no items.
	_, err = f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items:     []InvoiceItemRequest{{FeeTypeID: free.ID.String(), Quantity: 1, UnitPrice: strPtr("0")}},
	})
	assert.ErrorIs(t, err, model.ErrEmptyInvoice)

	assert.Empty(t, f.publisher.events)
}

func TestCancelInvoice(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture(t)
	tuition := f.createFeeType(t, "Scolarité", "100000")

	resp, err := f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items:     []InvoiceItemRequest{{FeeTypeID: tuition.ID.String(), Quantity: 1, UnitPrice: strPtr("100000")}},
	})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelInvoice(ctx, resp.ID, f.userID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceCancelled, cancelled.Status)

	// A cancelled invoice cannot be cancelled again.
	_, err = f.svc.CancelInvoice(ctx, resp.ID, f.userID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot cancel")
}

func TestListInvoicesOverdueIsDerived(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture(t)
	tuition := f.createFeeType(t, "Scolarité", "100000")

	pastDue := time.Now().AddDate(0, 0, -10).Format(time.RFC3339)
	overdue, err := f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items:     []InvoiceItemRequest{{FeeTypeID: tuition.ID.String(), Quantity: 1, UnitPrice: strPtr("100000")}},
		DueDate:   &pastDue,
	})
	require.NoError(t, err)

	_, err = f.svc.ComposeInvoice(ctx, f.schoolID, f.userID, ComposeInvoiceRequest{
		StudentID: f.student.ID.String(),
		Items:     []InvoiceItemRequest{{FeeTypeID: tuition.ID.String(), Quantity: 1, UnitPrice: strPtr("100000")}},
	})
	require.NoError(t, err)

	list, total, err := f.svc.ListInvoices(ctx, f.schoolID, ListInvoicesFilter{Status: model.InvoiceOverdue})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, overdue.InvoiceNo, list[0].InvoiceNo)
	// The stored status stays PENDING; OVERDUE only exists in the view.
	assert.Equal(t, model.InvoiceOverdue, list[0].Status)

	stored, err := f.invoiceRepo.FindByID(ctx, uuid.MustParse(overdue.ID))
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePending, stored.Status)
}

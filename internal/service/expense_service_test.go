package service

import (
	"context"
	"testing"

	"scolaris/internal/accounting"
	"scolaris/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseFixture struct {
	svc          ExpenseService
	expenseRepo  *fakeExpenseRepo
	supplierRepo *fakeSupplierRepo
	ledgerRepo   *fakeLedgerRepo
	auditRepo    *fakeAuditRepo
	publisher    *recordingPublisher
	schoolID     uuid.UUID
	userID       uuid.UUID
}

func newExpenseFixture(t *testing.T) *expenseFixture {
	t.Helper()
	ctx := context.Background()

	schoolRepo := newFakeSchoolRepo()
	school := &model.School{Name: "Lycée Sainte-Marie", Code: "LSM", Currency: "XOF"}
	require.NoError(t, schoolRepo.Create(ctx, school))

	f := &expenseFixture{
		expenseRepo:  newFakeExpenseRepo(),
		supplierRepo: newFakeSupplierRepo(),
		ledgerRepo:   &fakeLedgerRepo{},
		auditRepo:    &fakeAuditRepo{},
		publisher:    &recordingPublisher{},
		schoolID:     school.ID,
		userID:       uuid.New(),
	}
	ledger := NewLedgerService(f.ledgerRepo, newFakeSeqRepo())
	f.svc = NewExpenseService(
		f.expenseRepo, f.supplierRepo, schoolRepo,
		f.auditRepo, ledger, fakeTxManager{}, f.publisher,
	)
	return f
}

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture(t)

	supplier := &model.Supplier{SchoolID: f.schoolID, Name: "SODECI"}
	require.NoError(t, f.supplierRepo.Create(ctx, supplier))

	resp, err := f.svc.CreateExpense(ctx, f.schoolID, f.userID, CreateExpenseRequest{
		Description: "Facture d'eau mars",
		Amount:      "45000",
		Category:    model.CategoryUtilities,
		SupplierID:  supplier.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, accounting.CodeUtilities, resp.ChargeAccount)
	assert.Equal(t, "SODECI", resp.SupplierName)
	assert.NotEmpty(t, resp.EntryNo)

	// Debit the charge account, credit Caisse.
	require.Len(t, f.ledgerRepo.entries, 2)
	assert.Equal(t, accounting.CodeUtilities, f.ledgerRepo.entries[0].AccountCode)
	assert.True(t, f.ledgerRepo.entries[0].DebitAmount.Equal(dec("45000")))
	assert.Equal(t, accounting.CodeCash, f.ledgerRepo.entries[1].AccountCode)
	assert.True(t, f.ledgerRepo.entries[1].CreditAmount.Equal(dec("45000")))

	require.Len(t, f.auditRepo.logs, 1)
	assert.Equal(t, model.ActionCreateExpense, f.auditRepo.logs[0].Action)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, EventExpenseRecorded, f.publisher.events[0].name)
}

func TestCreateExpenseRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture(t)

	_, err := f.svc.CreateExpense(ctx, f.schoolID, f.userID, CreateExpenseRequest{
		Description: "Montant nul",
		Amount:      "0",
		Category:    model.CategoryOther,
	})
	require.Error(t, err)

	_, err = f.svc.CreateExpense(ctx, f.schoolID, f.userID, CreateExpenseRequest{
		Description: "Fournisseur inconnu",
		Amount:      "1000",
		Category:    model.CategoryOther,
		SupplierID:  uuid.New().String(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supplier not found")

	assert.Empty(t, f.ledgerRepo.entries)
	assert.Empty(t, f.publisher.events)
}

func TestReverseExpense(t *testing.T) {
	ctx := context.Background()
	f := newExpenseFixture(t)

	resp, err := f.svc.CreateExpense(ctx, f.schoolID, f.userID, CreateExpenseRequest{
		Description: "Craies et cahiers",
		Amount:      "20000",
		Category:    model.CategorySupplies,
	})
	require.NoError(t, err)

	reversed, err := f.svc.ReverseExpense(ctx, resp.ID, f.userID)
	require.NoError(t, err)
	assert.True(t, reversed.Reversed)

	// Reversal credits the charge account and debits Caisse back.
	require.Len(t, f.ledgerRepo.entries, 4)
	assert.True(t, f.ledgerRepo.entries[2].IsReversal)
	assert.Equal(t, accounting.CodeSupplies, f.ledgerRepo.entries[2].AccountCode)
	assert.True(t, f.ledgerRepo.entries[2].CreditAmount.Equal(dec("20000")))
	assert.True(t, f.ledgerRepo.entries[3].DebitAmount.Equal(dec("20000")))

	_, err = f.svc.ReverseExpense(ctx, resp.ID, f.userID)
	assert.ErrorIs(t, err, model.ErrAlreadyReversed)
}

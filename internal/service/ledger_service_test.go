package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"scolaris/internal/accounting"
	"scolaris/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture() (*fakeLedgerRepo, LedgerService) {
	ledgerRepo := &fakeLedgerRepo{}
	return ledgerRepo, NewLedgerService(ledgerRepo, newFakeSeqRepo())
}

func TestPostPaymentReceived(t *testing.T) {
	ctx := context.Background()
	ledgerRepo, svc := newLedgerFixture()

	schoolID := uuid.New()
	paymentID := uuid.New()
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	entries, err := svc.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID:  schoolID,
		PaymentID: paymentID,
		Amount:    dec("50000"),
		Date:      date,
		Currency:  "XOF",
		ActorID:   uuid.New(),
		Memo:      "Paiement Diallo Aminata",
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	debit, credit := entries[0], entries[1]
	assert.Equal(t, accounting.CodeCash, debit.AccountCode)
	assert.True(t, debit.DebitAmount.Equal(dec("50000")))
	assert.True(t, debit.CreditAmount.IsZero())

	assert.Equal(t, accounting.CodeTuitionRevenue, credit.AccountCode)
	assert.True(t, credit.CreditAmount.Equal(dec("50000")))
	assert.True(t, credit.DebitAmount.IsZero())

	// Both lines share one journal number drawn per school and month.
	assert.Equal(t, "JRN-202603-000001", debit.EntryNo)
	assert.Equal(t, debit.EntryNo, credit.EntryNo)
	assert.False(t, debit.IsReversal)

	assert.Len(t, ledgerRepo.entries, 2)
}

func TestPostPaymentReceivedRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	ledgerRepo, svc := newLedgerFixture()

	_, err := svc.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID:  uuid.New(),
		PaymentID: uuid.New(),
		Amount:    decimal.Zero,
		Date:      time.Now(),
		Currency:  "XOF",
	})
	require.Error(t, err)
	assert.Empty(t, ledgerRepo.entries)
}

func TestPostExpenseIncurred(t *testing.T) {
	ctx := context.Background()
	_, svc := newLedgerFixture()

	entries, err := svc.PostExpenseIncurred(ctx, ExpenseIncurred{
		SchoolID:  uuid.New(),
		ExpenseID: uuid.New(),
		Amount:    dec("120000"),
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency:  "XOF",
		Category:  model.CategorySalaries,
		ActorID:   uuid.New(),
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, accounting.CodeSalaries, entries[0].AccountCode)
	assert.True(t, entries[0].DebitAmount.Equal(dec("120000")))
	assert.Equal(t, accounting.CodeCash, entries[1].AccountCode)
	assert.True(t, entries[1].CreditAmount.Equal(dec("120000")))
}

func TestPostExpenseIncurredUnknownCategory(t *testing.T) {
	ctx := context.Background()
	ledgerRepo, svc := newLedgerFixture()

	_, err := svc.PostExpenseIncurred(ctx, ExpenseIncurred{
		SchoolID:  uuid.New(),
		ExpenseID: uuid.New(),
		Amount:    dec("1000"),
		Date:      time.Now(),
		Currency:  "XOF",
		Category:  "TRAVEL",
	})
	require.Error(t, err)

	var unknown *model.UnknownAccountError
	assert.True(t, errors.As(err, &unknown))
	assert.Empty(t, ledgerRepo.entries)
}

func TestEntryNumbersIncrementPerMonth(t *testing.T) {
	ctx := context.Background()
	_, svc := newLedgerFixture()

	schoolID := uuid.New()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	first, err := svc.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID: schoolID, PaymentID: uuid.New(), Amount: dec("1000"), Date: march, Currency: "XOF",
	})
	require.NoError(t, err)
	second, err := svc.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID: schoolID, PaymentID: uuid.New(), Amount: dec("2000"), Date: march, Currency: "XOF",
	})
	require.NoError(t, err)
	nextMonth, err := svc.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID: schoolID, PaymentID: uuid.New(), Amount: dec("3000"), Date: april, Currency: "XOF",
	})
	require.NoError(t, err)

	assert.Equal(t, "JRN-202603-000001", first[0].EntryNo)
	assert.Equal(t, "JRN-202603-000002", second[0].EntryNo)
	assert.Equal(t, "JRN-202604-000001", nextMonth[0].EntryNo)
}

func TestReverseSwapsSides(t *testing.T) {
	ctx := context.Background()
	ledgerRepo, svc := newLedgerFixture()

	schoolID := uuid.New()
	paymentID := uuid.New()
	actorID := uuid.New()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID:  schoolID,
		PaymentID: paymentID,
		Amount:    dec("50000"),
		Date:      date,
		Currency:  "XOF",
		Memo:      "Paiement Diallo Aminata",
	})
	require.NoError(t, err)

	reversals, err := svc.Reverse(ctx, schoolID, model.RefTypePayment, paymentID, actorID, date.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, reversals, 2)

	// Sides are swapped against the original pair; the original lines stay.
	assert.Equal(t, accounting.CodeCash, reversals[0].AccountCode)
	assert.True(t, reversals[0].CreditAmount.Equal(dec("50000")))
	assert.True(t, reversals[0].DebitAmount.IsZero())
	assert.Equal(t, accounting.CodeTuitionRevenue, reversals[1].AccountCode)
	assert.True(t, reversals[1].DebitAmount.Equal(dec("50000")))

	for _, rev := range reversals {
		assert.True(t, rev.IsReversal)
		assert.Equal(t, "Extourne: Paiement Diallo Aminata", rev.Description)
	}
	assert.Len(t, ledgerRepo.entries, 4)
}

func TestReverseTwiceFails(t *testing.T) {
	ctx := context.Background()
	_, svc := newLedgerFixture()

	schoolID := uuid.New()
	paymentID := uuid.New()
	date := time.Now()

	_, err := svc.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID: schoolID, PaymentID: paymentID, Amount: dec("1000"), Date: date, Currency: "XOF",
	})
	require.NoError(t, err)

	_, err = svc.Reverse(ctx, schoolID, model.RefTypePayment, paymentID, uuid.New(), date)
	require.NoError(t, err)

	_, err = svc.Reverse(ctx, schoolID, model.RefTypePayment, paymentID, uuid.New(), date)
	assert.ErrorIs(t, err, model.ErrAlreadyReversed)
}

func TestReverseUnknownReference(t *testing.T) {
	ctx := context.Background()
	_, svc := newLedgerFixture()

	_, err := svc.Reverse(ctx, uuid.New(), model.RefTypePayment, uuid.New(), uuid.New(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no postings found")
}

func TestValidateBalanced(t *testing.T) {
	schoolID := uuid.New()
	refID := uuid.New()
	now := time.Now()

	balanced := []*model.AccountingEntry{
		line(schoolID, now, "ok", model.RefTypePayment, refID, accounting.CodeCash, dec("100"), decimal.Zero, "XOF", uuid.Nil),
		line(schoolID, now, "ok", model.RefTypePayment, refID, accounting.CodeTuitionRevenue, decimal.Zero, dec("100"), "XOF", uuid.Nil),
	}
	assert.NoError(t, validateBalanced(balanced))

	unbalanced := []*model.AccountingEntry{
		line(schoolID, now, "bad", model.RefTypePayment, refID, accounting.CodeCash, dec("100"), decimal.Zero, "XOF", uuid.Nil),
		line(schoolID, now, "bad", model.RefTypePayment, refID, accounting.CodeTuitionRevenue, decimal.Zero, dec("90"), "XOF", uuid.Nil),
	}
	assert.ErrorIs(t, validateBalanced(unbalanced), model.ErrUnbalancedPosting)

	bothSides := []*model.AccountingEntry{
		line(schoolID, now, "bad", model.RefTypePayment, refID, accounting.CodeCash, dec("100"), dec("100"), "XOF", uuid.Nil),
	}
	assert.ErrorIs(t, validateBalanced(bothSides), model.ErrUnbalancedPosting)

	negative := []*model.AccountingEntry{
		line(schoolID, now, "bad", model.RefTypePayment, refID, accounting.CodeCash, dec("-100"), decimal.Zero, "XOF", uuid.Nil),
		line(schoolID, now, "bad", model.RefTypePayment, refID, accounting.CodeTuitionRevenue, decimal.Zero, dec("-100"), "XOF", uuid.Nil),
	}
	assert.ErrorIs(t, validateBalanced(negative), model.ErrUnbalancedPosting)

	unknownAccount := []*model.AccountingEntry{
		line(schoolID, now, "bad", model.RefTypePayment, refID, "9999", dec("100"), decimal.Zero, "XOF", uuid.Nil),
		line(schoolID, now, "bad", model.RefTypePayment, refID, accounting.CodeTuitionRevenue, decimal.Zero, dec("100"), "XOF", uuid.Nil),
	}
	var unknown *model.UnknownAccountError
	assert.True(t, errors.As(validateBalanced(unknownAccount), &unknown))
}

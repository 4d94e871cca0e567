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

// seedReportLedger posts two payments of 50000 and 30000, a salary expense of
// 40000 and a reversal of the 30000 payment.
func seedReportLedger(t *testing.T, ledger LedgerService, schoolID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	_, err := ledger.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID: schoolID, PaymentID: uuid.New(), Amount: dec("50000"), Date: base, Currency: "XOF",
	})
	require.NoError(t, err)

	reversedID := uuid.New()
	_, err = ledger.PostPaymentReceived(ctx, PaymentReceived{
		SchoolID: schoolID, PaymentID: reversedID, Amount: dec("30000"), Date: base.AddDate(0, 0, 1), Currency: "XOF",
	})
	require.NoError(t, err)

	_, err = ledger.PostExpenseIncurred(ctx, ExpenseIncurred{
		SchoolID: schoolID, ExpenseID: uuid.New(), Amount: dec("40000"),
		Date: base.AddDate(0, 0, 2), Currency: "XOF", Category: model.CategorySalaries,
	})
	require.NoError(t, err)

	_, err = ledger.Reverse(ctx, schoolID, model.RefTypePayment, reversedID, uuid.New(), base.AddDate(0, 0, 3))
	require.NoError(t, err)
}

func reportPeriodForTests() (time.Time, time.Time) {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
}

func TestTrialBalance(t *testing.T) {
	ctx := context.Background()
	ledgerRepo := &fakeLedgerRepo{}
	ledger := NewLedgerService(ledgerRepo, newFakeSeqRepo())
	schoolID := uuid.New()
	seedReportLedger(t, ledger, schoolID)

	svc := NewReportService(ledgerRepo, dec("500000"))
	from, to := reportPeriodForTests()

	resp, err := svc.TrialBalance(ctx, schoolID, from, to)
	require.NoError(t, err)

	// 50000 + 30000 in, 40000 out, 30000 reversed: both grand totals carry
	// every movement including the reversal pair.
	assert.Equal(t, "150000.00", resp.TotalDebit)
	assert.Equal(t, "150000.00", resp.TotalCredit)

	byCode := make(map[string]TrialBalanceLine)
	for _, l := range resp.Lines {
		byCode[l.AccountCode] = l
	}
	cash := byCode[accounting.CodeCash]
	assert.Equal(t, "80000.00", cash.TotalDebit)
	assert.Equal(t, "70000.00", cash.TotalCredit)
	assert.Equal(t, "10000.00", cash.Balance)
	assert.Equal(t, "Caisse", cash.AccountName)
}

func TestTrialBalanceDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	ledgerRepo := &fakeLedgerRepo{}
	schoolID := uuid.New()

	// A lone debit line can only exist if something bypassed the posting
	// engine; the report must refuse to render it.
	ledgerRepo.entries = append(ledgerRepo.entries, model.AccountingEntry{
		ID:           uuid.New(),
		SchoolID:     schoolID,
		EntryDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		AccountCode:  accounting.CodeCash,
		DebitAmount:  dec("1000"),
		CreditAmount: decimal.Zero,
	})

	svc := NewReportService(ledgerRepo, decimal.Zero)
	from, to := reportPeriodForTests()

	_, err := svc.TrialBalance(ctx, schoolID, from, to)
	require.Error(t, err)

	var violation *model.InvariantViolationError
	require.True(t, errors.As(err, &violation))
	assert.True(t, violation.TotalDebit.Equal(dec("1000")))
	assert.True(t, violation.TotalCredit.IsZero())
}

func TestIncomeStatement(t *testing.T) {
	ctx := context.Background()
	ledgerRepo := &fakeLedgerRepo{}
	ledger := NewLedgerService(ledgerRepo, newFakeSeqRepo())
	schoolID := uuid.New()
	seedReportLedger(t, ledger, schoolID)

	svc := NewReportService(ledgerRepo, dec("500000"))
	from, to := reportPeriodForTests()

	resp, err := svc.IncomeStatement(ctx, schoolID, from, to)
	require.NoError(t, err)

	// The reversed 30000 nets out of revenue.
	assert.Equal(t, "50000.00", resp.Revenue)
	assert.Equal(t, "40000.00", resp.Charges)
	assert.Equal(t, "10000.00", resp.NetResult)
	assert.Equal(t, "40000.00", resp.ByCharge["Salaires"])
}

func TestBalanceSheet(t *testing.T) {
	ctx := context.Background()
	ledgerRepo := &fakeLedgerRepo{}
	ledger := NewLedgerService(ledgerRepo, newFakeSeqRepo())
	schoolID := uuid.New()
	seedReportLedger(t, ledger, schoolID)

	svc := NewReportService(ledgerRepo, dec("500000"))
	from, to := reportPeriodForTests()

	resp, err := svc.BalanceSheet(ctx, schoolID, from, to)
	require.NoError(t, err)

	assert.Equal(t, "10000.00", resp.Cash)
	assert.Equal(t, "0.00", resp.Receivable)
	assert.Equal(t, "10000.00", resp.TotalAssets)
	assert.Equal(t, "500000.00", resp.OpeningCapital)
	assert.Equal(t, "10000.00", resp.NetResult)
	assert.Equal(t, "510000.00", resp.TotalEquity)
}

func TestReportsScopedBySchool(t *testing.T) {
	ctx := context.Background()
	ledgerRepo := &fakeLedgerRepo{}
	ledger := NewLedgerService(ledgerRepo, newFakeSeqRepo())
	schoolID := uuid.New()
	seedReportLedger(t, ledger, schoolID)

	svc := NewReportService(ledgerRepo, decimal.Zero)
	from, to := reportPeriodForTests()

	resp, err := svc.TrialBalance(ctx, uuid.New(), from, to)
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, "0.00", resp.TotalDebit)
}

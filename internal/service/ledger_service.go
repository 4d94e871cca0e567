package service

import (
	"context"
	"fmt"
	"time"

	"scolaris/internal/accounting"
	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Events ---

// PaymentReceived is cash coming in: debit Caisse, credit tuition revenue.
type PaymentReceived struct {
	SchoolID  uuid.UUID
	PaymentID uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time
	Currency  string
	ActorID   uuid.UUID
	Memo      string
}

// ExpenseIncurred is cash going out: debit the category's charge account,
// credit Caisse.
type ExpenseIncurred struct {
	SchoolID  uuid.UUID
	ExpenseID uuid.UUID
	Amount    decimal.Decimal
	Date      time.Time
	Currency  string
	Category  string
	ActorID   uuid.UUID
	Memo      string
}

// --- DTOs ---

type EntryResponse struct {
	ID            string `json:"id"`
	EntryNo       string `json:"entry_no"`
	EntryDate     string `json:"entry_date"`
	Description   string `json:"description"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
	AccountCode   string `json:"account_code"`
	AccountName   string `json:"account_name"`
	DebitAmount   string `json:"debit_amount"`
	CreditAmount  string `json:"credit_amount"`
	Currency      string `json:"currency"`
	IsReversal    bool   `json:"is_reversal"`
}

type EntryListFilter struct {
	AccountCode string
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
}

// --- Interface ---

// LedgerService is the only writer of accounting entries. Every financial
// event becomes exactly one debit/credit pair; the engine refuses to persist
// a set of lines whose sides do not sum equal. Post and Reverse join the
// caller's ambient transaction, so a payment's balance update and its
// postings commit or roll back as one unit.
type LedgerService interface {
	PostPaymentReceived(ctx context.Context, ev PaymentReceived) ([]*model.AccountingEntry, error)
	PostExpenseIncurred(ctx context.Context, ev ExpenseIncurred) ([]*model.AccountingEntry, error)
	// Reverse emits a new pair with debit and credit swapped, dated now and
	// tagged as a reversal. Originals are never touched: the ledger is
	// append-only.
	Reverse(ctx context.Context, schoolID uuid.UUID, refType string, refID uuid.UUID, actorID uuid.UUID, now time.Time) ([]*model.AccountingEntry, error)
	ListEntries(ctx context.Context, schoolID uuid.UUID, filter EntryListFilter) ([]EntryResponse, int64, error)
}

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	seqRepo    repository.SequenceRepository
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, seqRepo repository.SequenceRepository) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo, seqRepo: seqRepo}
}

// --- Implementation ---

func (s *ledgerService) PostPaymentReceived(ctx context.Context, ev PaymentReceived) ([]*model.AccountingEntry, error) {
	if ev.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("payment amount must be positive, got %s", ev.Amount.StringFixed(2))
	}

	memo := ev.Memo
	if memo == "" {
		memo = "Encaissement scolarité"
	}

	debit := line(ev.SchoolID, ev.Date, memo, model.RefTypePayment, ev.PaymentID, accounting.CodeCash, ev.Amount, decimal.Zero, ev.Currency, ev.ActorID)
	credit := line(ev.SchoolID, ev.Date, memo, model.RefTypePayment, ev.PaymentID, accounting.CodeTuitionRevenue, decimal.Zero, ev.Amount, ev.Currency, ev.ActorID)

	return s.persistPair(ctx, ev.SchoolID, debit, credit, false)
}

func (s *ledgerService) PostExpenseIncurred(ctx context.Context, ev ExpenseIncurred) ([]*model.AccountingEntry, error) {
	if ev.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("expense amount must be positive, got %s", ev.Amount.StringFixed(2))
	}

	chargeCode, err := accounting.ChargeAccountFor(ev.Category)
	if err != nil {
		return nil, err
	}

	memo := ev.Memo
	if memo == "" {
		memo = "Dépense " + ev.Category
	}

	debit := line(ev.SchoolID, ev.Date, memo, model.RefTypeExpense, ev.ExpenseID, chargeCode, ev.Amount, decimal.Zero, ev.Currency, ev.ActorID)
	credit := line(ev.SchoolID, ev.Date, memo, model.RefTypeExpense, ev.ExpenseID, accounting.CodeCash, decimal.Zero, ev.Amount, ev.Currency, ev.ActorID)

	return s.persistPair(ctx, ev.SchoolID, debit, credit, false)
}

func (s *ledgerService) Reverse(ctx context.Context, schoolID uuid.UUID, refType string, refID uuid.UUID, actorID uuid.UUID, now time.Time) ([]*model.AccountingEntry, error) {
	originals, err := s.ledgerRepo.ListByReference(ctx, schoolID, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings for %s %s: %w", refType, refID, err)
	}
	if len(originals) == 0 {
		return nil, fmt.Errorf("no postings found for %s %s", refType, refID)
	}

	for _, entry := range originals {
		if entry.IsReversal {
			return nil, model.ErrAlreadyReversed
		}
	}

	reversals := make([]*model.AccountingEntry, 0, len(originals))
	for _, orig := range originals {
		rev := line(schoolID, now, "Extourne: "+orig.Description, orig.ReferenceType, orig.ReferenceID,
			orig.AccountCode, orig.CreditAmount, orig.DebitAmount, orig.Currency, actorID)
		rev.IsReversal = true
		reversals = append(reversals, rev)
	}

	if err := validateBalanced(reversals); err != nil {
		return nil, err
	}

	entryNo, err := s.nextEntryNo(ctx, schoolID, now)
	if err != nil {
		return nil, err
	}
	for _, rev := range reversals {
		rev.EntryNo = entryNo
	}

	if err := s.ledgerRepo.CreateEntries(ctx, reversals); err != nil {
		return nil, fmt.Errorf("failed to persist reversal: %w", err)
	}

	return reversals, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, schoolID uuid.UUID, filter EntryListFilter) ([]EntryResponse, int64, error) {
	entries, total, err := s.ledgerRepo.List(ctx, repository.LedgerListFilter{
		SchoolID:    schoolID,
		AccountCode: filter.AccountCode,
		From:        filter.From,
		To:          filter.To,
		Page:        filter.Page,
		Limit:       filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch ledger entries: %w", err)
	}

	result := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toEntryResponse(e))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *ledgerService) persistPair(ctx context.Context, schoolID uuid.UUID, debit, credit *model.AccountingEntry, isReversal bool) ([]*model.AccountingEntry, error) {
	pair := []*model.AccountingEntry{debit, credit}

	// Hard precondition, not a warning: nothing unbalanced ever reaches
	// storage, even though the pairs above are built balanced by
	// construction.
	if err := validateBalanced(pair); err != nil {
		return nil, err
	}

	entryNo, err := s.nextEntryNo(ctx, schoolID, debit.EntryDate)
	if err != nil {
		return nil, err
	}
	debit.EntryNo = entryNo
	credit.EntryNo = entryNo
	debit.IsReversal = isReversal
	credit.IsReversal = isReversal

	if err := s.ledgerRepo.CreateEntries(ctx, pair); err != nil {
		return nil, fmt.Errorf("failed to persist postings: %w", err)
	}

	return pair, nil
}

func (s *ledgerService) nextEntryNo(ctx context.Context, schoolID uuid.UUID, date time.Time) (string, error) {
	period := date.Format("200601")
	seq, err := s.seqRepo.Next(ctx, schoolID, repository.SeqJournal, period)
	if err != nil {
		return "", fmt.Errorf("failed to draw journal number: %w", err)
	}
	return fmt.Sprintf("JRN-%s-%06d", period, seq), nil
}

// validateBalanced checks that for one event the debit sum equals the credit
// sum, every line touches a known account, and each line carries exactly one
// side.
func validateBalanced(entries []*model.AccountingEntry) error {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, e := range entries {
		hasDebit := !e.DebitAmount.IsZero()
		hasCredit := !e.CreditAmount.IsZero()
		if hasDebit == hasCredit {
			return fmt.Errorf("%w: entry on account %s must carry exactly one of debit or credit", model.ErrUnbalancedPosting, e.AccountCode)
		}
		if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: negative amount on account %s", model.ErrUnbalancedPosting, e.AccountCode)
		}
		if !accounting.Exists(e.AccountCode) {
			return &model.UnknownAccountError{Code: e.AccountCode}
		}
		totalDebit = totalDebit.Add(e.DebitAmount)
		totalCredit = totalCredit.Add(e.CreditAmount)
	}
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits %s, credits %s", model.ErrUnbalancedPosting,
			totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}
	return nil
}

func line(schoolID uuid.UUID, date time.Time, desc, refType string, refID uuid.UUID, accountCode string, debit, credit decimal.Decimal, currency string, actorID uuid.UUID) *model.AccountingEntry {
	return &model.AccountingEntry{
		SchoolID:      schoolID,
		EntryDate:     date,
		Description:   desc,
		ReferenceType: refType,
		ReferenceID:   refID,
		AccountCode:   accountCode,
		DebitAmount:   debit,
		CreditAmount:  credit,
		Currency:      currency,
		CreatedBy:     actorID,
	}
}

// --- Mapping ---

func toEntryResponse(e model.AccountingEntry) EntryResponse {
	name, _ := accounting.NameOf(e.AccountCode)
	return EntryResponse{
		ID:            e.ID.String(),
		EntryNo:       e.EntryNo,
		EntryDate:     e.EntryDate.Format("2006-01-02"),
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID.String(),
		AccountCode:   e.AccountCode,
		AccountName:   name,
		DebitAmount:   e.DebitAmount.StringFixed(2),
		CreditAmount:  e.CreditAmount.StringFixed(2),
		Currency:      e.Currency,
		IsReversal:    e.IsReversal,
	}
}

package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain failures with direct financial consequences. Every rejection names
// the invariant it protects; handlers map these onto HTTP statuses and none
// of them is ever retried automatically.
var (
	// ErrAmbiguousTarget: a billing rule requiring a class or section id was
	// stored, but the caller resolved without supplying one.
	ErrAmbiguousTarget = errors.New("billing rule target is ambiguous: class or section id required for a stored rule")

	// ErrEmptyInvoice: an invoice must carry at least one item and a positive total.
	ErrEmptyInvoice = errors.New("invoice must have at least one item and a non-zero total")

	// ErrUnbalancedPosting: debit and credit sums of one event disagree.
	ErrUnbalancedPosting = errors.New("posting rejected: debit sum does not equal credit sum")

	// ErrDuplicateInvoiceNumber: the sequencing guarantee was violated.
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists: sequencing race detected")

	// ErrAlreadyReversed: the referenced event already has a reversal pair.
	ErrAlreadyReversed = errors.New("event has already been reversed")
)

// OverpaymentError rejects a payment that would push an invoice's paid amount
// past its total. Silent clamping is never done: truncating the applied amount
// would desynchronize the invoice balance from the ledger postings.
type OverpaymentError struct {
	InvoiceNo string
	Excess    decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds remaining balance on invoice %s by %s", e.InvoiceNo, e.Excess.StringFixed(2))
}

// UnknownAccountError signals a posting or lookup against an account code the
// chart of accounts cannot classify.
type UnknownAccountError struct {
	Code string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account code %q", e.Code)
}

// InvariantViolationError is raised by the reporting side when the ledger's
// global debit/credit totals disagree. Unlike the other failures it indicates
// data corruption rather than a bad request, so callers should surface it to
// an operator channel as well.
type InvariantViolationError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("ledger out of balance: total debits %s != total credits %s",
		e.TotalDebit.StringFixed(2), e.TotalCredit.StringFixed(2))
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type ApplyPaymentRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	InvoiceID string `json:"invoice_id"`  // optional: ad-hoc collections have no invoice
	FeeTypeID string `json:"fee_type_id"` // optional
	Amount    string `json:"amount" binding:"required"`
	Method    string `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHECK MOBILE_MONEY"`
	Reference string `json:"reference"`
	PaidAt    string `json:"paid_at"` // RFC3339; defaults to now
}

type PaymentResponse struct {
	ID          string  `json:"id"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	InvoiceID   *string `json:"invoice_id"`
	InvoiceNo   string  `json:"invoice_no,omitempty"`
	Amount      string  `json:"amount"`
	Method      string  `json:"method"`
	Reference   string  `json:"reference"`
	PaidAt      string  `json:"paid_at"`
	Reversed    bool    `json:"reversed"`
	EntryNo     string  `json:"entry_no,omitempty"` // journal number of the postings
}

type ListPaymentsFilter struct {
	StudentID string
	InvoiceID string
	Method    string
	Page      int
	Limit     int
}

// --- Interface ---

// PaymentService records incoming money. Applying a payment updates the
// invoice balance (when one is referenced) and writes the ledger pair inside
// one transaction: the operation is complete only when both exist. Recorded
// payments are immutable; corrections reverse and reissue.
type PaymentService interface {
	ApplyPayment(ctx context.Context, schoolID, userID uuid.UUID, req ApplyPaymentRequest) (PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (PaymentResponse, error)
	ListPayments(ctx context.Context, schoolID uuid.UUID, filter ListPaymentsFilter) ([]PaymentResponse, int64, error)
	ReversePayment(ctx context.Context, id string, userID uuid.UUID) (PaymentResponse, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	studentRepo repository.StudentRepository
	schoolRepo  repository.SchoolRepository
	auditRepo   repository.AuditRepository
	ledger      LedgerService
	txManager   repository.TransactionManager
	publisher   EventPublisher
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	studentRepo repository.StudentRepository,
	schoolRepo repository.SchoolRepository,
	auditRepo repository.AuditRepository,
	ledger LedgerService,
	txManager repository.TransactionManager,
	publisher EventPublisher,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		studentRepo: studentRepo,
		schoolRepo:  schoolRepo,
		auditRepo:   auditRepo,
		ledger:      ledger,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// --- Implementation ---

func (s *paymentService) ApplyPayment(ctx context.Context, schoolID, userID uuid.UUID, req ApplyPaymentRequest) (PaymentResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return PaymentResponse{}, fmt.Errorf("amount must be positive")
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid student_id: %w", err)
	}
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("student not found: %w", err)
	}

	school, err := s.schoolRepo.FindByID(ctx, schoolID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("school not found: %w", err)
	}

	paidAt := time.Now()
	if req.PaidAt != "" {
		paidAt, err = time.Parse(time.RFC3339, req.PaidAt)
		if err != nil {
			return PaymentResponse{}, fmt.Errorf("invalid paid_at: %w", err)
		}
	}

	var invoiceID *uuid.UUID
	if req.InvoiceID != "" {
		parsed, parseErr := uuid.Parse(req.InvoiceID)
		if parseErr != nil {
			return PaymentResponse{}, fmt.Errorf("invalid invoice_id: %w", parseErr)
		}
		invoiceID = &parsed
	}

	var feeTypeID *uuid.UUID
	if req.FeeTypeID != "" {
		parsed, parseErr := uuid.Parse(req.FeeTypeID)
		if parseErr != nil {
			return PaymentResponse{}, fmt.Errorf("invalid fee_type_id: %w", parseErr)
		}
		feeTypeID = &parsed
	}

	payment := model.Payment{
		SchoolID:  schoolID,
		StudentID: studentID,
		InvoiceID: invoiceID,
		FeeTypeID: feeTypeID,
		Amount:    amount,
		Method:    req.Method,
		Reference: req.Reference,
		PaidAt:    paidAt,
		CreatedBy: userID,
	}

	var invoiceNo, entryNo string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// Balance tracking only applies when an invoice is referenced;
		// ad-hoc collections still get their postings below.
		if invoiceID != nil {
			invoice, findErr := s.invoiceRepo.FindByIDForUpdate(txCtx, *invoiceID)
			if findErr != nil {
				return fmt.Errorf("invoice not found: %w", findErr)
			}
			if invoice.Status == model.InvoicePaid {
				// A settled invoice has nothing outstanding: the whole
				// amount is excess, and the caller gets told so rather
				// than a bare status complaint.
				return &model.OverpaymentError{InvoiceNo: invoice.InvoiceNo, Excess: amount}
			}
			if invoice.Status != model.InvoicePending {
				return fmt.Errorf("cannot apply payment to invoice with status %s", invoice.Status)
			}

			remaining := invoice.Outstanding()
			if amount.GreaterThan(remaining) {
				// Rejecting beats clamping: a truncated balance update would
				// no longer match the payment amount recorded in the ledger.
				return &model.OverpaymentError{InvoiceNo: invoice.InvoiceNo, Excess: amount.Sub(remaining)}
			}

			invoice.PaidAmount = invoice.PaidAmount.Add(amount)
			if invoice.PaidAmount.Equal(invoice.TotalAmount) {
				invoice.Status = model.InvoicePaid
			}
			if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
				return fmt.Errorf("failed to update invoice balance: %w", saveErr)
			}
			invoiceNo = invoice.InvoiceNo
		}

		if createErr := s.paymentRepo.Create(txCtx, &payment); createErr != nil {
			return fmt.Errorf("failed to record payment: %w", createErr)
		}

		entries, postErr := s.ledger.PostPaymentReceived(txCtx, PaymentReceived{
			SchoolID:  schoolID,
			PaymentID: payment.ID,
			Amount:    amount,
			Date:      paidAt,
			Currency:  school.Currency,
			ActorID:   userID,
			Memo:      paymentMemo(student, invoiceNo),
		})
		if postErr != nil {
			return postErr
		}
		entryNo = entries[0].EntryNo

		details, _ := json.Marshal(map[string]string{
			"amount":  amount.StringFixed(2),
			"method":  req.Method,
			"invoice": invoiceNo,
			"entry":   entryNo,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			SchoolID:   schoolID,
			UserID:     &userID,
			Action:     model.ActionApplyPayment,
			EntityID:   payment.ID.String(),
			EntityName: student.LastName + " " + student.FirstName,
			Details:    string(details),
		})
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	payment.Student = student
	resp := toPaymentResponse(payment)
	resp.InvoiceNo = invoiceNo
	resp.EntryNo = entryNo

	s.publisher.Publish(EventPaymentApplied, resp)
	return resp, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid payment id: %w", err)
	}
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("payment not found: %w", err)
	}
	return toPaymentResponse(*payment), nil
}

func (s *paymentService) ListPayments(ctx context.Context, schoolID uuid.UUID, filter ListPaymentsFilter) ([]PaymentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.PaymentListFilter{
		SchoolID: schoolID,
		Method:   filter.Method,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}
	if filter.StudentID != "" {
		studentID, err := uuid.Parse(filter.StudentID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid student_id: %w", err)
		}
		repoFilter.StudentID = &studentID
	}
	if filter.InvoiceID != "" {
		invoiceID, err := uuid.Parse(filter.InvoiceID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid invoice_id: %w", err)
		}
		repoFilter.InvoiceID = &invoiceID
	}

	payments, total, err := s.paymentRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return result, total, nil
}

// ReversePayment undoes a payment by appending a swapped ledger pair and
// rolling the invoice balance back. The payment row itself stays; it is only
// flagged so it cannot be reversed twice.
func (s *paymentService) ReversePayment(ctx context.Context, id string, userID uuid.UUID) (PaymentResponse, error) {
	paymentID, err := uuid.Parse(id)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("invalid payment id: %w", err)
	}

	var payment *model.Payment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		payment, findErr = s.paymentRepo.FindByID(txCtx, paymentID)
		if findErr != nil {
			return fmt.Errorf("payment not found: %w", findErr)
		}
		if payment.Reversed {
			return model.ErrAlreadyReversed
		}

		if _, revErr := s.ledger.Reverse(txCtx, payment.SchoolID, model.RefTypePayment, payment.ID, userID, time.Now()); revErr != nil {
			return revErr
		}

		if payment.InvoiceID != nil {
			invoice, invErr := s.invoiceRepo.FindByIDForUpdate(txCtx, *payment.InvoiceID)
			if invErr != nil {
				return fmt.Errorf("invoice not found: %w", invErr)
			}
			// Cancellation freezes the invoice amounts; the ledger reversal
			// above stands on its own and the frozen balance stays as it
			// was at cancellation time.
			if invoice.Status != model.InvoiceCancelled {
				invoice.PaidAmount = invoice.PaidAmount.Sub(payment.Amount)
				if invoice.Status == model.InvoicePaid {
					invoice.Status = model.InvoicePending
				}
				if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
					return fmt.Errorf("failed to roll back invoice balance: %w", saveErr)
				}
			}
		}

		payment.Reversed = true
		if saveErr := s.paymentRepo.Save(txCtx, payment); saveErr != nil {
			return fmt.Errorf("failed to flag payment as reversed: %w", saveErr)
		}

		return s.auditRepo.Log(txCtx, &model.AuditLog{
			SchoolID: payment.SchoolID,
			UserID:   &userID,
			Action:   model.ActionReversePayment,
			EntityID: payment.ID.String(),
		})
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	resp := toPaymentResponse(*payment)
	s.publisher.Publish(EventPaymentReversed, resp)
	return resp, nil
}

// --- Helpers ---

func paymentMemo(student *model.Student, invoiceNo string) string {
	memo := "Paiement " + student.LastName + " " + student.FirstName
	if invoiceNo != "" {
		memo += " (" + invoiceNo + ")"
	}
	return memo
}

// --- Mapping ---

func toPaymentResponse(p model.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID.String(),
		StudentID: p.StudentID.String(),
		Amount:    p.Amount.StringFixed(2),
		Method:    p.Method,
		Reference: p.Reference,
		PaidAt:    p.PaidAt.Format(time.RFC3339),
		Reversed:  p.Reversed,
	}
	if p.Student != nil {
		resp.StudentName = p.Student.LastName + " " + p.Student.FirstName
	}
	if p.InvoiceID != nil {
		s := p.InvoiceID.String()
		resp.InvoiceID = &s
	}
	return resp
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultDueDays = 30

// --- DTOs ---

type InvoiceItemRequest struct {
	FeeTypeID   string  `json:"fee_type_id" binding:"required"`
	Description string  `json:"description"` // defaults to the fee type name snapshot
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	UnitPrice   *string `json:"unit_price"` // omit to resolve via billing rules
}

type ComposeInvoiceRequest struct {
	StudentID string               `json:"student_id" binding:"required"`
	Items     []InvoiceItemRequest `json:"items" binding:"required"`
	DueDate   *string              `json:"due_date"` // RFC3339; default 30 days out
}

type InvoiceItemResponse struct {
	FeeTypeID   string `json:"fee_type_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

type InvoiceResponse struct {
	ID          string                `json:"id"`
	InvoiceNo   string                `json:"invoice_no"`
	StudentID   string                `json:"student_id"`
	StudentName string                `json:"student_name"`
	Items       []InvoiceItemResponse `json:"items"`
	TotalAmount string                `json:"total_amount"`
	PaidAmount  string                `json:"paid_amount"`
	Outstanding string                `json:"outstanding"`
	Status      string                `json:"status"` // effective status: OVERDUE is derived, never stored
	IssueDate   string                `json:"issue_date"`
	DueDate     *string               `json:"due_date"`
}

type ListInvoicesFilter struct {
	StudentID string
	Status    string // PENDING, PAID, CANCELLED or OVERDUE (derived)
	Page      int
	Limit     int
}

// --- Interface ---

// InvoiceService composes and manages invoices. Composition draws the
// per-school invoice number and persists invoice plus items in one
// transaction. No ledger postings happen at issue time: revenue is recognized
// on payment (cash basis).
type InvoiceService interface {
	ComposeInvoice(ctx context.Context, schoolID, userID uuid.UUID, req ComposeInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, schoolID uuid.UUID, filter ListInvoicesFilter) ([]InvoiceResponse, int64, error)
	CancelInvoice(ctx context.Context, id string, userID uuid.UUID) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	studentRepo repository.StudentRepository
	feeTypeRepo repository.FeeTypeRepository
	ruleRepo    repository.BillingRuleRepository
	schoolRepo  repository.SchoolRepository
	seqRepo     repository.SequenceRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	publisher   EventPublisher
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	studentRepo repository.StudentRepository,
	feeTypeRepo repository.FeeTypeRepository,
	ruleRepo repository.BillingRuleRepository,
	schoolRepo repository.SchoolRepository,
	seqRepo repository.SequenceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher EventPublisher,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		studentRepo: studentRepo,
		feeTypeRepo: feeTypeRepo,
		ruleRepo:    ruleRepo,
		schoolRepo:  schoolRepo,
		seqRepo:     seqRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// --- Implementation ---

func (s *invoiceService) ComposeInvoice(ctx context.Context, schoolID, userID uuid.UUID, req ComposeInvoiceRequest) (InvoiceResponse, error) {
	if len(req.Items) == 0 {
		return InvoiceResponse{}, model.ErrEmptyInvoice
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid student_id: %w", err)
	}

	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("student not found: %w", err)
	}

	school, err := s.schoolRepo.FindByID(ctx, schoolID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("school not found: %w", err)
	}

	now := time.Now()
	dueDate := now.AddDate(0, 0, defaultDueDays)
	if req.DueDate != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *req.DueDate)
		if parseErr != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid due_date: %w", parseErr)
		}
		dueDate = parsed
	}

	items, total, err := s.buildItems(ctx, student, req.Items)
	if err != nil {
		return InvoiceResponse{}, err
	}
	if total.IsZero() {
		return InvoiceResponse{}, model.ErrEmptyInvoice
	}

	invoice := model.Invoice{
		SchoolID:    schoolID,
		StudentID:   studentID,
		Items:       items,
		TotalAmount: total,
		PaidAmount:  decimal.Zero,
		Status:      model.InvoicePending,
		IssueDate:   now,
		DueDate:     &dueDate,
		CreatedBy:   userID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		seq, seqErr := s.seqRepo.Next(txCtx, schoolID, repository.SeqInvoice, now.Format("200601"))
		if seqErr != nil {
			return seqErr
		}
		invoice.InvoiceNo = fmt.Sprintf("FAC-%s-%s-%04d", school.Code, now.Format("200601"), seq)

		if createErr := s.invoiceRepo.Create(txCtx, &invoice); createErr != nil {
			if strings.Contains(createErr.Error(), "duplicate") {
				return model.ErrDuplicateInvoiceNumber
			}
			return fmt.Errorf("failed to create invoice: %w", createErr)
		}

		return s.logAction(txCtx, schoolID, userID, model.ActionComposeInvoice, invoice.InvoiceNo, student, map[string]string{
			"total": total.StringFixed(2),
			"items": fmt.Sprintf("%d", len(items)),
		})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice.Student = student
	resp := toInvoiceResponse(invoice, now)

	s.publisher.Publish(EventInvoiceIssued, resp)
	return resp, nil
}

// buildItems validates and prices every line. Description is snapshotted from
// the fee type at composition time; a missing unit price is resolved through
// the billing rules for the student's class and section.
func (s *invoiceService) buildItems(ctx context.Context, student *model.Student, reqs []InvoiceItemRequest) ([]model.InvoiceItem, decimal.Decimal, error) {
	var classID, sectionID *uuid.UUID
	if student.ClassID != nil {
		classID = student.ClassID
	}
	if student.Class != nil {
		sid := student.Class.SectionID
		sectionID = &sid
	}

	items := make([]model.InvoiceItem, 0, len(reqs))
	total := decimal.Zero

	for i, itemReq := range reqs {
		if itemReq.Quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("item %d: quantity must be at least 1", i+1)
		}

		feeTypeID, err := uuid.Parse(itemReq.FeeTypeID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("item %d: invalid fee_type_id: %w", i+1, err)
		}

		feeType, err := s.feeTypeRepo.FindByID(ctx, feeTypeID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("item %d: fee type not found: %w", i+1, err)
		}

		var unitPrice decimal.Decimal
		if itemReq.UnitPrice != nil {
			unitPrice, err = decimal.NewFromString(*itemReq.UnitPrice)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("item %d: invalid unit_price: %w", i+1, err)
			}
			if unitPrice.IsNegative() {
				return nil, decimal.Zero, fmt.Errorf("item %d: unit_price must not be negative", i+1)
			}
		} else {
			rules, rulesErr := s.ruleRepo.ListByFeeType(ctx, feeTypeID)
			if rulesErr != nil {
				return nil, decimal.Zero, fmt.Errorf("item %d: failed to fetch billing rules: %w", i+1, rulesErr)
			}
			unitPrice, _, err = resolveAmount(feeType, rules, classID, sectionID)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("item %d: %w", i+1, err)
			}
		}

		description := itemReq.Description
		if description == "" {
			description = feeType.Name
		}

		itemTotal := unitPrice.Mul(decimal.NewFromInt(int64(itemReq.Quantity)))
		items = append(items, model.InvoiceItem{
			FeeTypeID:   feeTypeID,
			Description: description,
			Quantity:    itemReq.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  itemTotal,
		})
		total = total.Add(itemTotal)
	}

	return items, total, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	return toInvoiceResponse(*invoice, time.Now()), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, schoolID uuid.UUID, filter ListInvoicesFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	now := time.Now()
	repoFilter := repository.InvoiceListFilter{
		SchoolID: schoolID,
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
	switch filter.Status {
	case model.InvoiceOverdue:
		// Derived view: pending invoices past their due date.
		repoFilter.DueBefore = &now
	case "":
	default:
		repoFilter.Status = filter.Status
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv, now))
	}
	return result, total, nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, id string, userID uuid.UUID) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			return fmt.Errorf("invoice not found: %w", findErr)
		}

		if invoice.Status != model.InvoicePending {
			return fmt.Errorf("cannot cancel invoice with status %s", invoice.Status)
		}

		now := time.Now()
		invoice.Status = model.InvoiceCancelled
		invoice.CancelledAt = &now

		if saveErr := s.invoiceRepo.Save(txCtx, invoice); saveErr != nil {
			return fmt.Errorf("failed to cancel invoice: %w", saveErr)
		}

		return s.logAction(txCtx, invoice.SchoolID, userID, model.ActionCancelInvoice, invoice.InvoiceNo, nil, nil)
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	reloaded, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}

	return toInvoiceResponse(*reloaded, time.Now()), nil
}

func (s *invoiceService) logAction(ctx context.Context, schoolID, userID uuid.UUID, action, entityID string, student *model.Student, details map[string]string) error {
	entityName := ""
	if student != nil {
		entityName = student.LastName + " " + student.FirstName
	}
	payload := ""
	if details != nil {
		raw, _ := json.Marshal(details)
		payload = string(raw)
	}
	return s.auditRepo.Log(ctx, &model.AuditLog{
		SchoolID:   schoolID,
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	})
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice, now time.Time) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID.String(),
		InvoiceNo:   inv.InvoiceNo,
		StudentID:   inv.StudentID.String(),
		TotalAmount: inv.TotalAmount.StringFixed(2),
		PaidAmount:  inv.PaidAmount.StringFixed(2),
		Outstanding: inv.Outstanding().StringFixed(2),
		Status:      inv.EffectiveStatus(now),
		IssueDate:   inv.IssueDate.Format("2006-01-02"),
	}
	if inv.Student != nil {
		resp.StudentName = inv.Student.LastName + " " + inv.Student.FirstName
	}
	if inv.DueDate != nil {
		due := inv.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	resp.Items = make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			FeeTypeID:   item.FeeTypeID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			TotalPrice:  item.TotalPrice.StringFixed(2),
		})
	}
	return resp
}

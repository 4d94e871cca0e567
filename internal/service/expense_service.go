package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scolaris/internal/accounting"
	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	Description string `json:"description" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=SALARIES UTILITIES SUPPLIES MAINTENANCE OTHER"`
	SupplierID  string `json:"supplier_id"`
	ReceiptURL  string `json:"receipt_url"`
	SpentAt     string `json:"spent_at"` // RFC3339; defaults to now
}

type ExpenseResponse struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	ChargeAccount string  `json:"charge_account"`
	SupplierID    *string `json:"supplier_id"`
	SupplierName  string  `json:"supplier_name,omitempty"`
	ReceiptURL    string  `json:"receipt_url"`
	SpentAt       string  `json:"spent_at"`
	Reversed      bool    `json:"reversed"`
	EntryNo       string  `json:"entry_no,omitempty"`
}

type ListExpensesFilter struct {
	Category string
	Page     int
	Limit    int
}

// --- Interface ---

// ExpenseService records outgoing money. Expenses bypass the invoice path but
// drive the same posting discipline: the expense row and its ledger pair are
// written in one transaction, and corrections go through a reversal.
type ExpenseService interface {
	CreateExpense(ctx context.Context, schoolID, userID uuid.UUID, req CreateExpenseRequest) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, schoolID uuid.UUID, filter ListExpensesFilter) ([]ExpenseResponse, int64, error)
	ReverseExpense(ctx context.Context, id string, userID uuid.UUID) (ExpenseResponse, error)
}

type expenseService struct {
	expenseRepo  repository.ExpenseRepository
	supplierRepo repository.SupplierRepository
	schoolRepo   repository.SchoolRepository
	auditRepo    repository.AuditRepository
	ledger       LedgerService
	txManager    repository.TransactionManager
	publisher    EventPublisher
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	supplierRepo repository.SupplierRepository,
	schoolRepo repository.SchoolRepository,
	auditRepo repository.AuditRepository,
	ledger LedgerService,
	txManager repository.TransactionManager,
	publisher EventPublisher,
) ExpenseService {
	return &expenseService{
		expenseRepo:  expenseRepo,
		supplierRepo: supplierRepo,
		schoolRepo:   schoolRepo,
		auditRepo:    auditRepo,
		ledger:       ledger,
		txManager:    txManager,
		publisher:    publisher,
	}
}

// --- Implementation ---

func (s *expenseService) CreateExpense(ctx context.Context, schoolID, userID uuid.UUID, req CreateExpenseRequest) (ExpenseResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ExpenseResponse{}, fmt.Errorf("amount must be positive")
	}

	// The category must map onto a charge account before anything persists.
	chargeCode, err := accounting.ChargeAccountFor(req.Category)
	if err != nil {
		return ExpenseResponse{}, err
	}

	school, err := s.schoolRepo.FindByID(ctx, schoolID)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("school not found: %w", err)
	}

	var supplierID *uuid.UUID
	var supplierName string
	if req.SupplierID != "" {
		parsed, parseErr := uuid.Parse(req.SupplierID)
		if parseErr != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid supplier_id: %w", parseErr)
		}
		supplier, findErr := s.supplierRepo.FindByID(ctx, parsed)
		if findErr != nil {
			return ExpenseResponse{}, fmt.Errorf("supplier not found: %w", findErr)
		}
		supplierID = &parsed
		supplierName = supplier.Name
	}

	spentAt := time.Now()
	if req.SpentAt != "" {
		spentAt, err = time.Parse(time.RFC3339, req.SpentAt)
		if err != nil {
			return ExpenseResponse{}, fmt.Errorf("invalid spent_at: %w", err)
		}
	}

	expense := model.Expense{
		SchoolID:    schoolID,
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
		SupplierID:  supplierID,
		ReceiptURL:  req.ReceiptURL,
		SpentAt:     spentAt,
		CreatedBy:   userID,
	}

	var entryNo string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.expenseRepo.Create(txCtx, &expense); createErr != nil {
			return fmt.Errorf("failed to record expense: %w", createErr)
		}

		entries, postErr := s.ledger.PostExpenseIncurred(txCtx, ExpenseIncurred{
			SchoolID:  schoolID,
			ExpenseID: expense.ID,
			Amount:    amount,
			Date:      spentAt,
			Currency:  school.Currency,
			Category:  req.Category,
			ActorID:   userID,
			Memo:      req.Description,
		})
		if postErr != nil {
			return postErr
		}
		entryNo = entries[0].EntryNo

		details, _ := json.Marshal(map[string]string{
			"amount":   amount.StringFixed(2),
			"category": req.Category,
			"entry":    entryNo,
		})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			SchoolID:   schoolID,
			UserID:     &userID,
			Action:     model.ActionCreateExpense,
			EntityID:   expense.ID.String(),
			EntityName: req.Description,
			Details:    string(details),
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	resp := toExpenseResponse(expense, chargeCode)
	resp.SupplierName = supplierName
	resp.EntryNo = entryNo

	s.publisher.Publish(EventExpenseRecorded, resp)
	return resp, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, schoolID uuid.UUID, filter ListExpensesFilter) ([]ExpenseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	expenses, total, err := s.expenseRepo.List(ctx, repository.ExpenseListFilter{
		SchoolID: schoolID,
		Category: filter.Category,
		Page:     filter.Page,
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	result := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		chargeCode, _ := accounting.ChargeAccountFor(e.Category)
		resp := toExpenseResponse(e, chargeCode)
		if e.Supplier != nil {
			resp.SupplierName = e.Supplier.Name
		}
		result = append(result, resp)
	}
	return result, total, nil
}

func (s *expenseService) ReverseExpense(ctx context.Context, id string, userID uuid.UUID) (ExpenseResponse, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("invalid expense id: %w", err)
	}

	var expense *model.Expense
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByID(txCtx, expenseID)
		if findErr != nil {
			return fmt.Errorf("expense not found: %w", findErr)
		}
		if expense.Reversed {
			return model.ErrAlreadyReversed
		}

		if _, revErr := s.ledger.Reverse(txCtx, expense.SchoolID, model.RefTypeExpense, expense.ID, userID, time.Now()); revErr != nil {
			return revErr
		}

		expense.Reversed = true
		if saveErr := s.expenseRepo.Save(txCtx, expense); saveErr != nil {
			return fmt.Errorf("failed to flag expense as reversed: %w", saveErr)
		}

		return s.auditRepo.Log(txCtx, &model.AuditLog{
			SchoolID: expense.SchoolID,
			UserID:   &userID,
			Action:   model.ActionReverseExpense,
			EntityID: expense.ID.String(),
		})
	})
	if err != nil {
		return ExpenseResponse{}, err
	}

	chargeCode, _ := accounting.ChargeAccountFor(expense.Category)
	resp := toExpenseResponse(*expense, chargeCode)

	s.publisher.Publish(EventExpenseReversed, resp)
	return resp, nil
}

// --- Mapping ---

func toExpenseResponse(e model.Expense, chargeCode string) ExpenseResponse {
	resp := ExpenseResponse{
		ID:            e.ID.String(),
		Description:   e.Description,
		Amount:        e.Amount.StringFixed(2),
		Category:      e.Category,
		ChargeAccount: chargeCode,
		ReceiptURL:    e.ReceiptURL,
		SpentAt:       e.SpentAt.Format(time.RFC3339),
		Reversed:      e.Reversed,
	}
	if e.SupplierID != nil {
		s := e.SupplierID.String()
		resp.SupplierID = &s
	}
	return resp
}

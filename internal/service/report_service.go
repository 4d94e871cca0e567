package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"scolaris/internal/accounting"
	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type TrialBalanceLine struct {
	AccountCode string `json:"account_code"`
	AccountName string `json:"account_name"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Balance     string `json:"balance"` // debit minus credit
}

type TrialBalanceResponse struct {
	From        string             `json:"from"`
	To          string             `json:"to"`
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  string             `json:"total_debit"`
	TotalCredit string             `json:"total_credit"`
}

type IncomeStatementResponse struct {
	From      string            `json:"from"`
	To        string            `json:"to"`
	Revenue   string            `json:"revenue"`
	Charges   string            `json:"charges"`
	ByCharge  map[string]string `json:"by_charge_account"`
	NetResult string            `json:"net_result"`
}

type BalanceSheetResponse struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Cash           string `json:"cash"`
	Receivable     string `json:"receivable"`
	TotalAssets    string `json:"total_assets"`
	OpeningCapital string `json:"opening_capital"`
	NetResult      string `json:"net_result"`
	TotalEquity    string `json:"total_equity"`
}

// --- Interface ---

// ReportService is the read side of the ledger and the only component that
// interprets account codes semantically: which codes roll up into assets,
// revenue or charges is decided here and nowhere else.
type ReportService interface {
	TrialBalance(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (TrialBalanceResponse, error)
	IncomeStatement(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (IncomeStatementResponse, error)
	BalanceSheet(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (BalanceSheetResponse, error)
}

type reportService struct {
	ledgerRepo repository.LedgerRepository
	// openingCapital is an external constant supplied by configuration, not
	// derived from the ledger.
	openingCapital decimal.Decimal
}

func NewReportService(ledgerRepo repository.LedgerRepository, openingCapital decimal.Decimal) ReportService {
	return &reportService{ledgerRepo: ledgerRepo, openingCapital: openingCapital}
}

// --- Implementation ---

func (s *reportService) TrialBalance(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (TrialBalanceResponse, error) {
	rows, err := s.accountTotals(ctx, schoolID, from, to)
	if err != nil {
		return TrialBalanceResponse{}, err
	}

	resp := TrialBalanceResponse{
		From:  from.Format("2006-01-02"),
		To:    to.Format("2006-01-02"),
		Lines: make([]TrialBalanceLine, 0, len(rows)),
	}

	grandDebit := decimal.Zero
	grandCredit := decimal.Zero
	for _, row := range rows {
		name, nameErr := accounting.NameOf(row.AccountCode)
		if nameErr != nil {
			return TrialBalanceResponse{}, nameErr
		}
		resp.Lines = append(resp.Lines, TrialBalanceLine{
			AccountCode: row.AccountCode,
			AccountName: name,
			TotalDebit:  row.TotalDebit.StringFixed(2),
			TotalCredit: row.TotalCredit.StringFixed(2),
			Balance:     row.TotalDebit.Sub(row.TotalCredit).StringFixed(2),
		})
		grandDebit = grandDebit.Add(row.TotalDebit)
		grandCredit = grandCredit.Add(row.TotalCredit)
	}

	if !grandDebit.Equal(grandCredit) {
		// Data corruption, not a bad request: report it loudly instead of
		// producing a silently wrong statement.
		violation := &model.InvariantViolationError{TotalDebit: grandDebit, TotalCredit: grandCredit}
		log.Printf("ALERT: %v (school %s)", violation, schoolID)
		return TrialBalanceResponse{}, violation
	}

	resp.TotalDebit = grandDebit.StringFixed(2)
	resp.TotalCredit = grandCredit.StringFixed(2)
	return resp, nil
}

func (s *reportService) IncomeStatement(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (IncomeStatementResponse, error) {
	rows, err := s.accountTotals(ctx, schoolID, from, to)
	if err != nil {
		return IncomeStatementResponse{}, err
	}

	revenue := decimal.Zero
	charges := decimal.Zero
	byCharge := make(map[string]string)

	for _, row := range rows {
		acct, lookErr := accounting.Lookup(row.AccountCode)
		if lookErr != nil {
			return IncomeStatementResponse{}, lookErr
		}
		switch acct.Type {
		case accounting.TypeRevenue:
			// Credit-normal: reversals land on the debit side and net out.
			revenue = revenue.Add(row.TotalCredit.Sub(row.TotalDebit))
		case accounting.TypeCharge:
			net := row.TotalDebit.Sub(row.TotalCredit)
			charges = charges.Add(net)
			byCharge[acct.Name] = net.StringFixed(2)
		}
	}

	return IncomeStatementResponse{
		From:      from.Format("2006-01-02"),
		To:        to.Format("2006-01-02"),
		Revenue:   revenue.StringFixed(2),
		Charges:   charges.StringFixed(2),
		ByCharge:  byCharge,
		NetResult: revenue.Sub(charges).StringFixed(2),
	}, nil
}

func (s *reportService) BalanceSheet(ctx context.Context, schoolID uuid.UUID, from, to time.Time) (BalanceSheetResponse, error) {
	rows, err := s.accountTotals(ctx, schoolID, from, to)
	if err != nil {
		return BalanceSheetResponse{}, err
	}

	cash := decimal.Zero
	receivable := decimal.Zero
	revenue := decimal.Zero
	charges := decimal.Zero

	for _, row := range rows {
		acct, lookErr := accounting.Lookup(row.AccountCode)
		if lookErr != nil {
			return BalanceSheetResponse{}, lookErr
		}
		net := row.TotalDebit.Sub(row.TotalCredit)
		switch {
		case acct.Code == accounting.CodeCash:
			cash = cash.Add(net)
		case acct.Code == accounting.CodeReceivable:
			receivable = receivable.Add(net)
		case acct.Type == accounting.TypeRevenue:
			revenue = revenue.Add(net.Neg())
		case acct.Type == accounting.TypeCharge:
			charges = charges.Add(net)
		}
	}

	netResult := revenue.Sub(charges)
	return BalanceSheetResponse{
		From:           from.Format("2006-01-02"),
		To:             to.Format("2006-01-02"),
		Cash:           cash.StringFixed(2),
		Receivable:     receivable.StringFixed(2),
		TotalAssets:    cash.Add(receivable).StringFixed(2),
		OpeningCapital: s.openingCapital.StringFixed(2),
		NetResult:      netResult.StringFixed(2),
		TotalEquity:    s.openingCapital.Add(netResult).StringFixed(2),
	}, nil
}

func (s *reportService) accountTotals(ctx context.Context, schoolID uuid.UUID, from, to time.Time) ([]repository.AccountTotalRow, error) {
	rows, err := s.ledgerRepo.AccountTotals(ctx, schoolID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger: %w", err)
	}
	return rows, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scolaris/internal/model"
	"scolaris/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes shared by the service tests. They implement just
// enough behavior for the flows under test: per-key sequences, invoice number
// uniqueness and ledger aggregation mirror what Postgres enforces.

var errNotFound = errors.New("record not found")

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeSeqRepo struct {
	counters map[string]int64
}

func newFakeSeqRepo() *fakeSeqRepo {
	return &fakeSeqRepo{counters: make(map[string]int64)}
}

func (f *fakeSeqRepo) Next(_ context.Context, schoolID uuid.UUID, kind, period string) (int64, error) {
	key := schoolID.String() + "/" + kind + "/" + period
	f.counters[key]++
	return f.counters[key], nil
}

type fakeLedgerRepo struct {
	entries []model.AccountingEntry
}

func (f *fakeLedgerRepo) CreateEntries(_ context.Context, entries []*model.AccountingEntry) error {
	for _, e := range entries {
		stored := *e
		if stored.ID == uuid.Nil {
			stored.ID = uuid.New()
		}
		stored.CreatedAt = time.Now()
		f.entries = append(f.entries, stored)
	}
	return nil
}

func (f *fakeLedgerRepo) ListByReference(_ context.Context, schoolID uuid.UUID, refType string, refID uuid.UUID) ([]model.AccountingEntry, error) {
	var out []model.AccountingEntry
	for _, e := range f.entries {
		if e.SchoolID == schoolID && e.ReferenceType == refType && e.ReferenceID == refID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) List(_ context.Context, filter repository.LedgerListFilter) ([]model.AccountingEntry, int64, error) {
	var out []model.AccountingEntry
	for _, e := range f.entries {
		if e.SchoolID != filter.SchoolID {
			continue
		}
		if filter.AccountCode != "" && e.AccountCode != filter.AccountCode {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLedgerRepo) AccountTotals(_ context.Context, schoolID uuid.UUID, from, to time.Time) ([]repository.AccountTotalRow, error) {
	byCode := make(map[string]*repository.AccountTotalRow)
	var order []string
	for _, e := range f.entries {
		if e.SchoolID != schoolID || e.EntryDate.Before(from) || e.EntryDate.After(to) {
			continue
		}
		row, ok := byCode[e.AccountCode]
		if !ok {
			row = &repository.AccountTotalRow{AccountCode: e.AccountCode, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
			byCode[e.AccountCode] = row
			order = append(order, e.AccountCode)
		}
		row.TotalDebit = row.TotalDebit.Add(e.DebitAmount)
		row.TotalCredit = row.TotalCredit.Add(e.CreditAmount)
	}
	out := make([]repository.AccountTotalRow, 0, len(order))
	for _, code := range order {
		out = append(out, *byCode[code])
	}
	return out, nil
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	for _, existing := range f.invoices {
		if existing.InvoiceNo == invoice.InvoiceNo {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	stored := *invoice
	f.invoices[invoice.ID] = &stored
	return nil
}

func (f *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, errNotFound
	}
	out := *inv
	return &out, nil
}

func (f *fakeInvoiceRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeInvoiceRepo) List(_ context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	var out []model.Invoice
	for _, inv := range f.invoices {
		if inv.SchoolID != filter.SchoolID {
			continue
		}
		if filter.StudentID != nil && inv.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.DueBefore != nil {
			if inv.Status != model.InvoicePending || inv.DueDate == nil || !inv.DueDate.Before(*filter.DueBefore) {
				continue
			}
		}
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeInvoiceRepo) Save(_ context.Context, invoice *model.Invoice) error {
	stored := *invoice
	f.invoices[invoice.ID] = &stored
	return nil
}

type fakeStudentRepo struct {
	students map[uuid.UUID]*model.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]*model.Student)}
}

func (f *fakeStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	stored := *student
	f.students[student.ID] = &stored
	return nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	st, ok := f.students[id]
	if !ok {
		return nil, errNotFound
	}
	out := *st
	return &out, nil
}

func (f *fakeStudentRepo) List(_ context.Context, schoolID uuid.UUID, classID *uuid.UUID, _, _ int) ([]model.Student, int64, error) {
	var out []model.Student
	for _, st := range f.students {
		if st.SchoolID != schoolID {
			continue
		}
		if classID != nil && (st.ClassID == nil || *st.ClassID != *classID) {
			continue
		}
		out = append(out, *st)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentRepo) Update(_ context.Context, student *model.Student) error {
	stored := *student
	f.students[student.ID] = &stored
	return nil
}

type fakeClassRepo struct {
	sections map[uuid.UUID]*model.Section
	classes  map[uuid.UUID]*model.Class
}

func newFakeClassRepo() *fakeClassRepo {
	return &fakeClassRepo{
		sections: make(map[uuid.UUID]*model.Section),
		classes:  make(map[uuid.UUID]*model.Class),
	}
}

func (f *fakeClassRepo) CreateSection(_ context.Context, section *model.Section) error {
	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	stored := *section
	f.sections[section.ID] = &stored
	return nil
}

func (f *fakeClassRepo) CreateClass(_ context.Context, class *model.Class) error {
	if class.ID == uuid.Nil {
		class.ID = uuid.New()
	}
	stored := *class
	f.classes[class.ID] = &stored
	return nil
}

func (f *fakeClassRepo) FindClassByID(_ context.Context, id uuid.UUID) (*model.Class, error) {
	c, ok := f.classes[id]
	if !ok {
		return nil, errNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeClassRepo) FindSectionByID(_ context.Context, id uuid.UUID) (*model.Section, error) {
	s, ok := f.sections[id]
	if !ok {
		return nil, errNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeClassRepo) ListClasses(_ context.Context, schoolID uuid.UUID) ([]model.Class, error) {
	var out []model.Class
	for _, c := range f.classes {
		if c.SchoolID == schoolID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeClassRepo) ListSections(_ context.Context, schoolID uuid.UUID) ([]model.Section, error) {
	var out []model.Section
	for _, s := range f.sections {
		if s.SchoolID == schoolID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeFeeTypeRepo struct {
	feeTypes map[uuid.UUID]*model.FeeType
}

func newFakeFeeTypeRepo() *fakeFeeTypeRepo {
	return &fakeFeeTypeRepo{feeTypes: make(map[uuid.UUID]*model.FeeType)}
}

func (f *fakeFeeTypeRepo) Create(_ context.Context, feeType *model.FeeType) error {
	if feeType.ID == uuid.Nil {
		feeType.ID = uuid.New()
	}
	stored := *feeType
	f.feeTypes[feeType.ID] = &stored
	return nil
}

func (f *fakeFeeTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.FeeType, error) {
	ft, ok := f.feeTypes[id]
	if !ok {
		return nil, errNotFound
	}
	out := *ft
	return &out, nil
}

func (f *fakeFeeTypeRepo) List(_ context.Context, schoolID uuid.UUID, activeOnly bool) ([]model.FeeType, error) {
	var out []model.FeeType
	for _, ft := range f.feeTypes {
		if ft.SchoolID != schoolID {
			continue
		}
		if activeOnly && !ft.Active {
			continue
		}
		out = append(out, *ft)
	}
	return out, nil
}

func (f *fakeFeeTypeRepo) Update(_ context.Context, feeType *model.FeeType) error {
	stored := *feeType
	f.feeTypes[feeType.ID] = &stored
	return nil
}

type fakeRuleRepo struct {
	rules []model.BillingRule
}

func (f *fakeRuleRepo) Create(_ context.Context, rule *model.BillingRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	f.rules = append(f.rules, *rule)
	return nil
}

func (f *fakeRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.BillingRule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRuleRepo) ListByFeeType(_ context.Context, feeTypeID uuid.UUID) ([]model.BillingRule, error) {
	var out []model.BillingRule
	for _, r := range f.rules {
		if r.FeeTypeID == feeTypeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) List(_ context.Context, schoolID uuid.UUID) ([]model.BillingRule, error) {
	var out []model.BillingRule
	for _, r := range f.rules {
		if r.SchoolID == schoolID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, r := range f.rules {
		if r.ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

type fakeSchoolRepo struct {
	schools map[uuid.UUID]*model.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: make(map[uuid.UUID]*model.School)}
}

func (f *fakeSchoolRepo) Create(_ context.Context, school *model.School) error {
	if school.ID == uuid.Nil {
		school.ID = uuid.New()
	}
	stored := *school
	f.schools[school.ID] = &stored
	return nil
}

func (f *fakeSchoolRepo) FindByID(_ context.Context, id uuid.UUID) (*model.School, error) {
	s, ok := f.schools[id]
	if !ok {
		return nil, errNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeSchoolRepo) List(_ context.Context) ([]model.School, error) {
	var out []model.School
	for _, s := range f.schools {
		out = append(out, *s)
	}
	return out, nil
}

type fakeAuditRepo struct {
	logs []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, schoolID uuid.UUID, _, _ int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, l := range f.logs {
		if l.SchoolID == schoolID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*model.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*model.Payment)}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	stored := *payment
	f.payments[payment.ID] = &stored
	return nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, errNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakePaymentRepo) List(_ context.Context, filter repository.PaymentListFilter) ([]model.Payment, int64, error) {
	var out []model.Payment
	for _, p := range f.payments {
		if p.SchoolID != filter.SchoolID {
			continue
		}
		if filter.StudentID != nil && p.StudentID != *filter.StudentID {
			continue
		}
		if filter.InvoiceID != nil && (p.InvoiceID == nil || *p.InvoiceID != *filter.InvoiceID) {
			continue
		}
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakePaymentRepo) Save(_ context.Context, payment *model.Payment) error {
	stored := *payment
	f.payments[payment.ID] = &stored
	return nil
}

type fakeExpenseRepo struct {
	expenses map[uuid.UUID]*model.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[uuid.UUID]*model.Expense)}
}

func (f *fakeExpenseRepo) Create(_ context.Context, expense *model.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	stored := *expense
	f.expenses[expense.ID] = &stored
	return nil
}

func (f *fakeExpenseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, errNotFound
	}
	out := *e
	return &out, nil
}

func (f *fakeExpenseRepo) List(_ context.Context, filter repository.ExpenseListFilter) ([]model.Expense, int64, error) {
	var out []model.Expense
	for _, e := range f.expenses {
		if e.SchoolID != filter.SchoolID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeExpenseRepo) Save(_ context.Context, expense *model.Expense) error {
	stored := *expense
	f.expenses[expense.ID] = &stored
	return nil
}

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (f *fakeSupplierRepo) Create(_ context.Context, supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	stored := *supplier
	f.suppliers[supplier.ID] = &stored
	return nil
}

func (f *fakeSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := f.suppliers[id]
	if !ok {
		return nil, errNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeSupplierRepo) List(_ context.Context, schoolID uuid.UUID, _, _ int) ([]model.Supplier, int64, error) {
	var out []model.Supplier
	for _, s := range f.suppliers {
		if s.SchoolID == schoolID {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeSupplierRepo) Update(_ context.Context, supplier *model.Supplier) error {
	stored := *supplier
	f.suppliers[supplier.ID] = &stored
	return nil
}

func (f *fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.suppliers, id)
	return nil
}

type fakeUserRepo struct {
	users         map[uuid.UUID]*model.User
	refreshTokens map[string]*model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[uuid.UUID]*model.User),
		refreshTokens: make(map[string]*model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserRepo) List(_ context.Context, schoolID uuid.UUID, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range f.users {
		if u.SchoolID == schoolID {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, token *model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	stored := *token
	if u, ok := f.users[token.UserID]; ok {
		stored.User = *u
	}
	f.refreshTokens[token.Token] = &stored
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	rt, ok := f.refreshTokens[token]
	if !ok {
		return nil, errNotFound
	}
	out := *rt
	return &out, nil
}

func (f *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(f.refreshTokens, token)
	return nil
}

func (f *fakeUserRepo) DeleteRefreshTokensForUser(_ context.Context, userID uuid.UUID) error {
	for token, rt := range f.refreshTokens {
		if rt.UserID == userID {
			delete(f.refreshTokens, token)
		}
	}
	return nil
}

type publishedEvent struct {
	name    string
	payload interface{}
}

type recordingPublisher struct {
	events []publishedEvent
}

func (r *recordingPublisher) Publish(event string, payload interface{}) {
	r.events = append(r.events, publishedEvent{name: event, payload: payload})
}

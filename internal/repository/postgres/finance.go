package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	incomeColumns     = `id, branch_id, category, amount, date, description, payment_method, invoice_id, created_at`
	insertIncomeQuery = `
INSERT INTO income_records(id, branch_id, category, amount, date, description, payment_method, invoice_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + incomeColumns
	selectIncomeQuery  = `SELECT ` + incomeColumns + ` FROM income_records WHERE id = $1`
	deleteIncomeQuery  = `DELETE FROM income_records WHERE id = $1`
	expenseColumns     = `id, branch_id, category, amount, date, description, vendor, payment_method, created_at`
	insertExpenseQuery = `
INSERT INTO expense_records(id, branch_id, category, amount, date, description, vendor, payment_method, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + expenseColumns
	selectExpenseQuery = `SELECT ` + expenseColumns + ` FROM expense_records WHERE id = $1`
	deleteExpenseQuery = `DELETE FROM expense_records WHERE id = $1`

	incomeByCategoryQuery = `
SELECT category, COALESCE(sum(amount), 0)
FROM income_records
WHERE ($1::uuid IS NULL OR branch_id = $1) AND date >= $2 AND date < $3
GROUP BY category
ORDER BY category`
	expenseByCategoryQuery = `
SELECT category, COALESCE(sum(amount), 0)
FROM expense_records
WHERE ($1::uuid IS NULL OR branch_id = $1) AND date >= $2 AND date < $3
GROUP BY category
ORDER BY category`
	monthlyRevenueQuery = `
SELECT to_char(date_trunc('month', date), 'YYYY-MM') AS month, COALESCE(sum(amount), 0)
FROM income_records
WHERE ($1::uuid IS NULL OR branch_id = $1) AND date >= $2 AND date < $3
GROUP BY month
ORDER BY month`
)

func scanIncome(row pgx.Row) (entities.IncomeRecord, error) {
	var r entities.IncomeRecord
	err := row.Scan(&r.ID, &r.BranchID, &r.Category, &r.Amount, &r.Date, &r.Description, &r.PaymentMethod, &r.InvoiceID, &r.CreatedAt)
	return r, err
}

func scanExpense(row pgx.Row) (entities.ExpenseRecord, error) {
	var r entities.ExpenseRecord
	err := row.Scan(&r.ID, &r.BranchID, &r.Category, &r.Amount, &r.Date, &r.Description, &r.Vendor, &r.PaymentMethod, &r.CreatedAt)
	return r, err
}

func scanCategoryTotal(r pgx.Rows) (entities.CategoryTotal, error) {
	var c entities.CategoryTotal
	err := r.Scan(&c.Category, &c.Amount)
	return c, err
}

// dateFilter adds a [From, To) filter on the date column.
func dateFilter(w *whereBuilder, f entities.ListFilter) {
	if f.BranchID != nil {
		w.add("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("category = ?", f.Status)
	}
	if f.Search != "" {
		w.add("description ILIKE ?", "%"+f.Search+"%")
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date < ?", *f.To)
	}
}

// CreateIncome books an income record.
func (p *Postgres) CreateIncome(ctx context.Context, r entities.IncomeRecord) (*entities.IncomeRecord, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	created, err := scanIncome(p.db.QueryRow(ctx, insertIncomeQuery,
		r.ID, r.BranchID, r.Category, r.Amount.Round(2), r.Date, r.Description, r.PaymentMethod, r.InvoiceID, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create income record", "error", err, "branch_id", r.BranchID)
		return nil, mapError(err, "create income")
	}
	p.log.Infow("income booked", "income_id", created.ID, "amount", created.Amount.StringFixed(2))
	return &created, nil
}

// GetIncome returns an income record.
func (p *Postgres) GetIncome(ctx context.Context, id uuid.UUID) (*entities.IncomeRecord, error) {
	r, err := scanIncome(p.db.QueryRow(ctx, selectIncomeQuery, id))
	if err != nil {
		return nil, mapError(err, "get income")
	}
	return &r, nil
}

// ListIncome filters by branch, category (Status), description and date.
func (p *Postgres) ListIncome(ctx context.Context, f entities.ListFilter) ([]entities.IncomeRecord, error) {
	var w whereBuilder
	dateFilter(&w, f)
	query := `SELECT ` + incomeColumns + ` FROM income_records` + w.sql() + ` ORDER BY date DESC, created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list income")
	}
	return collect(rows, "income", func(r pgx.Rows) (entities.IncomeRecord, error) { return scanIncome(r) })
}

// DeleteIncome removes an income record.
func (p *Postgres) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete income", deleteIncomeQuery, id)
}

// CreateExpense books an expense record.
func (p *Postgres) CreateExpense(ctx context.Context, r entities.ExpenseRecord) (*entities.ExpenseRecord, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	created, err := scanExpense(p.db.QueryRow(ctx, insertExpenseQuery,
		r.ID, r.BranchID, r.Category, r.Amount.Round(2), r.Date, r.Description, r.Vendor, r.PaymentMethod, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create expense record", "error", err, "branch_id", r.BranchID)
		return nil, mapError(err, "create expense")
	}
	p.log.Infow("expense booked", "expense_id", created.ID, "amount", created.Amount.StringFixed(2))
	return &created, nil
}

// GetExpense returns an expense record.
func (p *Postgres) GetExpense(ctx context.Context, id uuid.UUID) (*entities.ExpenseRecord, error) {
	r, err := scanExpense(p.db.QueryRow(ctx, selectExpenseQuery, id))
	if err != nil {
		return nil, mapError(err, "get expense")
	}
	return &r, nil
}

// ListExpenses filters by branch, category (Status), description and date.
func (p *Postgres) ListExpenses(ctx context.Context, f entities.ListFilter) ([]entities.ExpenseRecord, error) {
	var w whereBuilder
	dateFilter(&w, f)
	query := `SELECT ` + expenseColumns + ` FROM expense_records` + w.sql() + ` ORDER BY date DESC, created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list expenses")
	}
	return collect(rows, "expenses", func(r pgx.Rows) (entities.ExpenseRecord, error) { return scanExpense(r) })
}

// DeleteExpense removes an expense record.
func (p *Postgres) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete expense", deleteExpenseQuery, id)
}

// FinanceSummary totals income and expenses per category over [from, to).
func (p *Postgres) FinanceSummary(ctx context.Context, branchID *uuid.UUID, from, to time.Time) (entities.FinanceSummary, error) {
	sum := entities.FinanceSummary{BranchID: branchID, From: from, To: to}

	rows, err := p.db.Query(ctx, incomeByCategoryQuery, branchID, from, to)
	if err != nil {
		return sum, mapError(err, "income by category")
	}
	if sum.IncomeByCategory, err = collect(rows, "income by category", scanCategoryTotal); err != nil {
		return sum, err
	}

	rows, err = p.db.Query(ctx, expenseByCategoryQuery, branchID, from, to)
	if err != nil {
		return sum, mapError(err, "expense by category")
	}
	if sum.ExpenseByCategory, err = collect(rows, "expense by category", scanCategoryTotal); err != nil {
		return sum, err
	}

	sum.Income = totalOf(sum.IncomeByCategory)
	sum.Expense = totalOf(sum.ExpenseByCategory)
	sum.Net = sum.Income.Sub(sum.Expense)
	return sum, nil
}

func totalOf(cats []entities.CategoryTotal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cats {
		total = total.Add(c.Amount)
	}
	return total
}

// MonthlyRevenue groups income by calendar month over [from, to).
func (p *Postgres) MonthlyRevenue(ctx context.Context, branchID *uuid.UUID, from, to time.Time) ([]entities.MonthlyTotal, error) {
	rows, err := p.db.Query(ctx, monthlyRevenueQuery, branchID, from, to)
	if err != nil {
		return nil, mapError(err, "monthly revenue")
	}
	return collect(rows, "monthly revenue", func(r pgx.Rows) (entities.MonthlyTotal, error) {
		var m entities.MonthlyTotal
		err := r.Scan(&m.Month, &m.Amount)
		return m, err
	})
}

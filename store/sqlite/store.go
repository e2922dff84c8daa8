// Package sqlite provides a SQLite-backed Store implementation using
// modernc.org/sqlite (no cgo). Monetary amounts are stored as decimal
// strings and re-parsed on read so no float ever touches the data.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/finlane/gl"
	"github.com/finlane/gl/account"
	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/numbering"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/store"
	"github.com/finlane/gl/types"
)

// Store persists ledger state in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite ledger store. Call Migrate before first use.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate applies the embedded schema. Safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", gl.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ────────────────────────────────────────────────────────────────────────
// Column helpers
// ────────────────────────────────────────────────────────────────────────

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func timePtr(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

func parseDec(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return true
		}
	}
	return false
}

// mapErr translates driver errors into the engine's sentinel taxonomy so
// callers can branch on errors.Is.
func mapErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return gl.ErrAlreadyExists
	case isBusy(err):
		return fmt.Errorf("%s: %w: %v", op, gl.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// ────────────────────────────────────────────────────────────────────────
// Periods
// ────────────────────────────────────────────────────────────────────────

func (s *Store) CreatePeriod(ctx context.Context, p *period.FinancialPeriod) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO periods (
		   id, agency_id, sub_account_id, name, start_date, end_date,
		   fiscal_year, fiscal_period, status, closed_by, closed_at,
		   locked_by, locked_at, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.Scope.AgencyID, p.Scope.SubAccountID, p.Name,
		toMillis(p.StartDate), toMillis(p.EndDate),
		p.FiscalYear, p.FiscalPeriod, string(p.Status),
		p.ClosedBy, nullMillis(p.ClosedAt),
		p.LockedBy, nullMillis(p.LockedAt),
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if err != nil {
		return mapErr("create period", err)
	}
	return nil
}

const periodColumns = `id, agency_id, sub_account_id, name, start_date, end_date,
	fiscal_year, fiscal_period, status, closed_by, closed_at,
	locked_by, locked_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row rowScanner) (*period.FinancialPeriod, error) {
	var p period.FinancialPeriod
	var rawID, status string
	var startDate, endDate, createdAt, updatedAt int64
	var closedAt, lockedAt sql.NullInt64
	err := row.Scan(
		&rawID, &p.Scope.AgencyID, &p.Scope.SubAccountID, &p.Name,
		&startDate, &endDate, &p.FiscalYear, &p.FiscalPeriod, &status,
		&p.ClosedBy, &closedAt, &p.LockedBy, &lockedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID, err = id.ParsePeriodID(rawID)
	if err != nil {
		return nil, err
	}
	p.Status = period.Status(status)
	p.StartDate = fromMillis(startDate)
	p.EndDate = fromMillis(endDate)
	p.ClosedAt = timePtr(closedAt)
	p.LockedAt = timePtr(lockedAt)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return &p, nil
}

func (s *Store) GetPeriod(ctx context.Context, periodID id.PeriodID) (*period.FinancialPeriod, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+periodColumns+` FROM periods WHERE id = ?`, periodID.String())
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gl.ErrPeriodNotFound
	}
	if err != nil {
		return nil, mapErr("get period", err)
	}
	return p, nil
}

func (s *Store) GetPeriodByDate(ctx context.Context, scope types.Scope, date time.Time) (*period.FinancialPeriod, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+periodColumns+` FROM periods
		  WHERE agency_id = ? AND sub_account_id = ?
		    AND start_date <= ? AND end_date >= ?
		  ORDER BY start_date LIMIT 1`,
		scope.AgencyID, scope.SubAccountID, toMillis(date), toMillis(date))
	p, err := scanPeriod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gl.ErrPeriodNotFound
	}
	if err != nil {
		return nil, mapErr("get period by date", err)
	}
	return p, nil
}

func (s *Store) ListPeriods(ctx context.Context, scope types.Scope, opts period.ListOpts) ([]*period.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM periods
		WHERE agency_id = ? AND sub_account_id = ?`
	args := []any{scope.AgencyID, scope.SubAccountID}
	if opts.FiscalYear != 0 {
		query += ` AND fiscal_year = ?`
		args = append(args, opts.FiscalYear)
	}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY start_date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list periods", err)
	}
	defer rows.Close()

	result := make([]*period.FinancialPeriod, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, mapErr("list periods", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list periods", err)
	}
	return result, nil
}

func (s *Store) UpdatePeriod(ctx context.Context, p *period.FinancialPeriod) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE periods SET
		   name = ?, start_date = ?, end_date = ?, fiscal_year = ?,
		   fiscal_period = ?, status = ?, closed_by = ?, closed_at = ?,
		   locked_by = ?, locked_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, toMillis(p.StartDate), toMillis(p.EndDate), p.FiscalYear,
		p.FiscalPeriod, string(p.Status), p.ClosedBy, nullMillis(p.ClosedAt),
		p.LockedBy, nullMillis(p.LockedAt), toMillis(p.UpdatedAt),
		p.ID.String(),
	)
	if err != nil {
		return mapErr("update period", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gl.ErrPeriodNotFound
	}
	return nil
}

// ────────────────────────────────────────────────────────────────────────
// Accounts and balances
// ────────────────────────────────────────────────────────────────────────

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	archived := 0
	if a.Archived {
		archived = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (
		   id, agency_id, sub_account_id, code, name, type, category,
		   path, level, currency, description, archived, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Scope.AgencyID, a.Scope.SubAccountID, a.Code, a.Name,
		string(a.Type), string(a.Category), a.Path, a.Level, a.Currency,
		a.Description, archived, toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	if err != nil {
		return mapErr("create account", err)
	}
	return nil
}

const accountColumns = `id, agency_id, sub_account_id, code, name, type, category,
	path, level, currency, description, archived, created_at, updated_at`

func scanAccount(row rowScanner) (*account.Account, error) {
	var a account.Account
	var rawID, typ, category string
	var archived int
	var createdAt, updatedAt int64
	err := row.Scan(
		&rawID, &a.Scope.AgencyID, &a.Scope.SubAccountID, &a.Code, &a.Name,
		&typ, &category, &a.Path, &a.Level, &a.Currency, &a.Description,
		&archived, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID, err = id.ParseAccountID(rawID)
	if err != nil {
		return nil, err
	}
	a.Type = account.Type(typ)
	a.Category = account.Category(category)
	a.Archived = archived != 0
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return &a, nil
}

func (s *Store) GetAccount(ctx context.Context, accountID id.AccountID) (*account.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, accountID.String())
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gl.ErrAccountNotFound
	}
	if err != nil {
		return nil, mapErr("get account", err)
	}
	return a, nil
}

func (s *Store) GetAccountByCode(ctx context.Context, scope types.Scope, code string) (*account.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		  WHERE agency_id = ? AND sub_account_id = ? AND code = ?`,
		scope.AgencyID, scope.SubAccountID, code)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gl.ErrAccountNotFound
	}
	if err != nil {
		return nil, mapErr("get account by code", err)
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context, scope types.Scope, opts account.ListOpts) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE agency_id = ? AND sub_account_id = ?`
	args := []any{scope.AgencyID, scope.SubAccountID}
	if !opts.IncludeArchived {
		query += ` AND archived = 0`
	}
	if opts.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(opts.Type))
	}
	if opts.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(opts.Category))
	}
	query += ` ORDER BY code`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list accounts", err)
	}
	defer rows.Close()

	result := make([]*account.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapErr("list accounts", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list accounts", err)
	}
	return result, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	archived := 0
	if a.Archived {
		archived = 1
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET
		   code = ?, name = ?, type = ?, category = ?, path = ?, level = ?,
		   currency = ?, description = ?, archived = ?, updated_at = ?
		 WHERE id = ?`,
		a.Code, a.Name, string(a.Type), string(a.Category), a.Path, a.Level,
		a.Currency, a.Description, archived, toMillis(a.UpdatedAt),
		a.ID.String(),
	)
	if err != nil {
		return mapErr("update account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gl.ErrAccountNotFound
	}
	return nil
}

func (s *Store) ArchiveAccount(ctx context.Context, accountID id.AccountID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET archived = 1, updated_at = ? WHERE id = ?`,
		toMillis(time.Now().UTC()), accountID.String())
	if err != nil {
		return mapErr("archive account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gl.ErrAccountNotFound
	}
	return nil
}

const balanceColumns = `id, agency_id, sub_account_id, period_id, account_id, currency,
	opening_balance, closing_balance, debit_total, credit_total, created_at, updated_at`

func scanBalance(row rowScanner) (*account.Balance, error) {
	var b account.Balance
	var rawID, periodID, accountID string
	var opening, closing, debit, credit string
	var createdAt, updatedAt int64
	err := row.Scan(
		&rawID, &b.Scope.AgencyID, &b.Scope.SubAccountID, &periodID, &accountID,
		&b.Currency, &opening, &closing, &debit, &credit, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if b.ID, err = id.ParseBalanceID(rawID); err != nil {
		return nil, err
	}
	if b.PeriodID, err = id.ParsePeriodID(periodID); err != nil {
		return nil, err
	}
	if b.AccountID, err = id.ParseAccountID(accountID); err != nil {
		return nil, err
	}
	if b.OpeningBalance, err = parseDec(opening); err != nil {
		return nil, err
	}
	if b.ClosingBalance, err = parseDec(closing); err != nil {
		return nil, err
	}
	if b.DebitTotal, err = parseDec(debit); err != nil {
		return nil, err
	}
	if b.CreditTotal, err = parseDec(credit); err != nil {
		return nil, err
	}
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)
	return &b, nil
}

func (s *Store) GetBalance(ctx context.Context, periodID id.PeriodID, accountID id.AccountID, currency string) (*account.Balance, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+balanceColumns+` FROM balances
		  WHERE period_id = ? AND account_id = ? AND currency = ?`,
		periodID.String(), accountID.String(), currency)
	b, err := scanBalance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gl.ErrNotFound
	}
	if err != nil {
		return nil, mapErr("get balance", err)
	}
	return b, nil
}

func (s *Store) ListBalances(ctx context.Context, periodID id.PeriodID) ([]*account.Balance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+balanceColumns+` FROM balances WHERE period_id = ?`,
		periodID.String())
	if err != nil {
		return nil, mapErr("list balances", err)
	}
	defer rows.Close()

	result := make([]*account.Balance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, mapErr("list balances", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list balances", err)
	}
	return result, nil
}

// ────────────────────────────────────────────────────────────────────────
// Journal entries
// ────────────────────────────────────────────────────────────────────────

func (s *Store) CreateEntry(ctx context.Context, e *journal.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("create entry", err)
	}
	defer tx.Rollback()

	if err := insertEntry(ctx, tx, e); err != nil {
		return mapErr("create entry", err)
	}
	if err := insertLines(ctx, tx, e); err != nil {
		return mapErr("create entry", err)
	}
	if err := tx.Commit(); err != nil {
		return mapErr("create entry", err)
	}
	return nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, e *journal.Entry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries (
		   id, agency_id, sub_account_id, document_number, entry_date,
		   posting_date, type, description, currency_code, exchange_rate,
		   status, total_debit, total_credit, created_by, submitted_by,
		   approved_by, rejected_by, rejection_reason, posted_by, posted_at,
		   voided_by, period_id, reversal_of, reversed_by, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Scope.AgencyID, e.Scope.SubAccountID, e.DocumentNumber,
		toMillis(e.EntryDate), toMillis(e.PostingDate), string(e.Type),
		e.Description, e.CurrencyCode, e.ExchangeRate.String(),
		string(e.Status), e.TotalDebit.String(), e.TotalCredit.String(),
		e.CreatedBy, e.SubmittedBy, e.ApprovedBy, e.RejectedBy,
		e.RejectionReason, e.PostedBy, nullMillis(e.PostedAt), e.VoidedBy,
		e.PeriodID.String(), e.ReversalOf.String(), e.ReversedBy.String(),
		toMillis(e.CreatedAt), toMillis(e.UpdatedAt),
	)
	return err
}

func insertLines(ctx context.Context, tx *sql.Tx, e *journal.Entry) error {
	for _, ln := range e.Lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entry_lines (
			   id, entry_id, line_number, account_id, debit, credit,
			   description, cost_center, profit_center
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ln.ID.String(), e.ID.String(), ln.LineNumber, ln.AccountID.String(),
			ln.Debit.String(), ln.Credit.String(), ln.Description,
			ln.CostCenter, ln.ProfitCenter,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func updateEntryRow(ctx context.Context, tx *sql.Tx, e *journal.Entry) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE entries SET
		   document_number = ?, entry_date = ?, posting_date = ?, type = ?,
		   description = ?, currency_code = ?, exchange_rate = ?, status = ?,
		   total_debit = ?, total_credit = ?, created_by = ?, submitted_by = ?,
		   approved_by = ?, rejected_by = ?, rejection_reason = ?, posted_by = ?,
		   posted_at = ?, voided_by = ?, period_id = ?, reversal_of = ?,
		   reversed_by = ?, updated_at = ?
		 WHERE id = ?`,
		e.DocumentNumber, toMillis(e.EntryDate), toMillis(e.PostingDate),
		string(e.Type), e.Description, e.CurrencyCode, e.ExchangeRate.String(),
		string(e.Status), e.TotalDebit.String(), e.TotalCredit.String(),
		e.CreatedBy, e.SubmittedBy, e.ApprovedBy, e.RejectedBy,
		e.RejectionReason, e.PostedBy, nullMillis(e.PostedAt), e.VoidedBy,
		e.PeriodID.String(), e.ReversalOf.String(), e.ReversedBy.String(),
		toMillis(e.UpdatedAt), e.ID.String(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const entryColumns = `id, agency_id, sub_account_id, document_number, entry_date,
	posting_date, type, description, currency_code, exchange_rate, status,
	total_debit, total_credit, created_by, submitted_by, approved_by,
	rejected_by, rejection_reason, posted_by, posted_at, voided_by,
	period_id, reversal_of, reversed_by, created_at, updated_at`

func scanEntry(row rowScanner) (*journal.Entry, error) {
	var e journal.Entry
	var rawID, typ, status, rate, debit, credit string
	var periodID, reversalOf, reversedBy string
	var entryDate, postingDate, createdAt, updatedAt int64
	var postedAt sql.NullInt64
	err := row.Scan(
		&rawID, &e.Scope.AgencyID, &e.Scope.SubAccountID, &e.DocumentNumber,
		&entryDate, &postingDate, &typ, &e.Description, &e.CurrencyCode,
		&rate, &status, &debit, &credit, &e.CreatedBy, &e.SubmittedBy,
		&e.ApprovedBy, &e.RejectedBy, &e.RejectionReason, &e.PostedBy,
		&postedAt, &e.VoidedBy, &periodID, &reversalOf, &reversedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.ID, err = id.ParseEntryID(rawID); err != nil {
		return nil, err
	}
	e.Type = journal.EntryType(typ)
	e.Status = journal.Status(status)
	if e.ExchangeRate, err = parseDec(rate); err != nil {
		return nil, err
	}
	if e.TotalDebit, err = parseDec(debit); err != nil {
		return nil, err
	}
	if e.TotalCredit, err = parseDec(credit); err != nil {
		return nil, err
	}
	if periodID != "" {
		if e.PeriodID, err = id.ParsePeriodID(periodID); err != nil {
			return nil, err
		}
	}
	if reversalOf != "" {
		if e.ReversalOf, err = id.ParseEntryID(reversalOf); err != nil {
			return nil, err
		}
	}
	if reversedBy != "" {
		if e.ReversedBy, err = id.ParseEntryID(reversedBy); err != nil {
			return nil, err
		}
	}
	e.EntryDate = fromMillis(entryDate)
	e.PostingDate = fromMillis(postingDate)
	e.PostedAt = timePtr(postedAt)
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	return &e, nil
}

const lineColumns = `id, entry_id, line_number, account_id, debit, credit,
	description, cost_center, profit_center`

func scanLine(row rowScanner) (journal.Line, error) {
	var ln journal.Line
	var rawID, entryID, accountID, debit, credit string
	err := row.Scan(
		&rawID, &entryID, &ln.LineNumber, &accountID, &debit, &credit,
		&ln.Description, &ln.CostCenter, &ln.ProfitCenter,
	)
	if err != nil {
		return journal.Line{}, err
	}
	if ln.ID, err = id.ParseLineID(rawID); err != nil {
		return journal.Line{}, err
	}
	if ln.EntryID, err = id.ParseEntryID(entryID); err != nil {
		return journal.Line{}, err
	}
	if ln.AccountID, err = id.ParseAccountID(accountID); err != nil {
		return journal.Line{}, err
	}
	if ln.Debit, err = parseDec(debit); err != nil {
		return journal.Line{}, err
	}
	if ln.Credit, err = parseDec(credit); err != nil {
		return journal.Line{}, err
	}
	return ln, nil
}

func (s *Store) loadLines(ctx context.Context, entryID id.EntryID) ([]journal.Line, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+lineColumns+` FROM entry_lines
		  WHERE entry_id = ? ORDER BY line_number`,
		entryID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]journal.Line, 0)
	for rows.Next() {
		ln, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

func (s *Store) GetEntry(ctx context.Context, entryID id.EntryID) (*journal.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, entryID.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gl.ErrNotFound
	}
	if err != nil {
		return nil, mapErr("get entry", err)
	}
	if e.Lines, err = s.loadLines(ctx, e.ID); err != nil {
		return nil, mapErr("get entry lines", err)
	}
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, scope types.Scope, opts journal.ListOpts) ([]*journal.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries
		WHERE agency_id = ? AND sub_account_id = ?`
	args := []any{scope.AgencyID, scope.SubAccountID}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if opts.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(opts.Type))
	}
	if !opts.StartDate.IsZero() {
		query += ` AND entry_date >= ?`
		args = append(args, toMillis(opts.StartDate))
	}
	if !opts.EndDate.IsZero() {
		query += ` AND entry_date <= ?`
		args = append(args, toMillis(opts.EndDate))
	}
	query += ` ORDER BY created_at`
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list entries", err)
	}
	defer rows.Close()

	result := make([]*journal.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapErr("list entries", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list entries", err)
	}
	for _, e := range result {
		if e.Lines, err = s.loadLines(ctx, e.ID); err != nil {
			return nil, mapErr("list entry lines", err)
		}
	}
	return result, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e *journal.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("update entry", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM entries WHERE id = ?`, e.ID.String()).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return gl.ErrNotFound
	}
	if err != nil {
		return mapErr("update entry", err)
	}
	// Posted entries are immutable; the one legal mutation is flipping to
	// reversed when a reversal entry posts.
	if journal.Status(status) == journal.StatusPosted && e.Status != journal.StatusReversed {
		return gl.ErrEntryImmutable
	}

	if _, err := updateEntryRow(ctx, tx, e); err != nil {
		return mapErr("update entry", err)
	}
	// Line edits replace the whole set.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM entry_lines WHERE entry_id = ?`, e.ID.String()); err != nil {
		return mapErr("update entry", err)
	}
	if err := insertLines(ctx, tx, e); err != nil {
		return mapErr("update entry", err)
	}
	if err := tx.Commit(); err != nil {
		return mapErr("update entry", err)
	}
	return nil
}

// PostEntry flips the entry to posted and folds the balance deltas inside
// one transaction. SQLite serializes writers, so concurrent postings
// against the same balance row cannot lose increments.
func (s *Store) PostEntry(ctx context.Context, e *journal.Entry, deltas []account.Delta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("post entry", err)
	}
	defer tx.Rollback()

	n, err := updateEntryRow(ctx, tx, e)
	if err != nil {
		return mapErr("post entry", err)
	}
	if n == 0 {
		return gl.ErrNotFound
	}

	for _, d := range deltas {
		if err := foldDelta(ctx, tx, e.Scope, d); err != nil {
			return mapErr("post entry", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return mapErr("post entry", err)
	}
	return nil
}

// foldDelta applies one balance increment inside the posting transaction.
// Amounts live as decimal strings, so the arithmetic happens here rather
// than in SQL.
func foldDelta(ctx context.Context, tx *sql.Tx, scope types.Scope, d account.Delta) error {
	var rawID, opening, debit, credit string
	err := tx.QueryRowContext(ctx,
		`SELECT id, opening_balance, debit_total, credit_total FROM balances
		  WHERE period_id = ? AND account_id = ? AND currency = ?`,
		d.PeriodID.String(), d.AccountID.String(), d.Currency,
	).Scan(&rawID, &opening, &debit, &credit)

	now := toMillis(time.Now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		closing := d.Debit.Sub(d.Credit)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO balances (
			   id, agency_id, sub_account_id, period_id, account_id, currency,
			   opening_balance, closing_balance, debit_total, credit_total,
			   created_at, updated_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id.NewBalanceID().String(), scope.AgencyID, scope.SubAccountID,
			d.PeriodID.String(), d.AccountID.String(), d.Currency,
			decimal.Zero.String(), closing.String(),
			d.Debit.String(), d.Credit.String(), now, now,
		)
		return err
	}
	if err != nil {
		return err
	}

	openingDec, err := parseDec(opening)
	if err != nil {
		return err
	}
	debitDec, err := parseDec(debit)
	if err != nil {
		return err
	}
	creditDec, err := parseDec(credit)
	if err != nil {
		return err
	}
	debitDec = debitDec.Add(d.Debit)
	creditDec = creditDec.Add(d.Credit)
	closing := openingDec.Add(debitDec).Sub(creditDec)

	_, err = tx.ExecContext(ctx,
		`UPDATE balances SET
		   closing_balance = ?, debit_total = ?, credit_total = ?, updated_at = ?
		 WHERE id = ?`,
		closing.String(), debitDec.String(), creditDec.String(), now, rawID,
	)
	return err
}

func (s *Store) ListPostedLines(ctx context.Context, scope types.Scope, accountID id.AccountID, from, to time.Time) ([]*journal.PostedLine, error) {
	query := `SELECT l.id, l.entry_id, l.line_number, l.account_id, l.debit,
		l.credit, l.description, l.cost_center, l.profit_center,
		e.document_number, e.posting_date, e.description
		FROM entry_lines l
		JOIN entries e ON e.id = l.entry_id
		WHERE e.agency_id = ? AND e.sub_account_id = ?
		  AND e.status = ? AND l.account_id = ?`
	args := []any{scope.AgencyID, scope.SubAccountID, string(journal.StatusPosted), accountID.String()}
	if !from.IsZero() {
		query += ` AND e.posting_date >= ?`
		args = append(args, toMillis(from))
	}
	if !to.IsZero() {
		query += ` AND e.posting_date <= ?`
		args = append(args, toMillis(to))
	}
	query += ` ORDER BY e.posting_date, e.created_at, l.line_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list posted lines", err)
	}
	defer rows.Close()

	result := make([]*journal.PostedLine, 0)
	for rows.Next() {
		var pl journal.PostedLine
		var rawID, entryID, acctID, debit, credit string
		var postingDate int64
		err := rows.Scan(
			&rawID, &entryID, &pl.LineNumber, &acctID, &debit, &credit,
			&pl.Line.Description, &pl.CostCenter, &pl.ProfitCenter,
			&pl.DocumentNumber, &postingDate, &pl.EntryDesc,
		)
		if err != nil {
			return nil, mapErr("list posted lines", err)
		}
		if pl.Line.ID, err = id.ParseLineID(rawID); err != nil {
			return nil, err
		}
		if pl.Line.EntryID, err = id.ParseEntryID(entryID); err != nil {
			return nil, err
		}
		if pl.Line.AccountID, err = id.ParseAccountID(acctID); err != nil {
			return nil, err
		}
		if pl.Line.Debit, err = parseDec(debit); err != nil {
			return nil, err
		}
		if pl.Line.Credit, err = parseDec(credit); err != nil {
			return nil, err
		}
		pl.PostingDate = fromMillis(postingDate)
		result = append(result, &pl)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list posted lines", err)
	}
	return result, nil
}

func (s *Store) HasPostedLines(ctx context.Context, accountID id.AccountID) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM entry_lines l
		  JOIN entries e ON e.id = l.entry_id
		 WHERE l.account_id = ? AND e.status = ?
		 LIMIT 1`,
		accountID.String(), string(journal.StatusPosted)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapErr("has posted lines", err)
	}
	return true, nil
}

// ────────────────────────────────────────────────────────────────────────
// Accruals
// ────────────────────────────────────────────────────────────────────────

func (s *Store) CreateAccrual(ctx context.Context, a *accrual.Accrual) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("create accrual", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accruals (
		   id, agency_id, sub_account_id, type, description, memo,
		   currency_code, original_amount, recognized_amount, remaining_amount,
		   total_periods, recognized_periods, method, start_date, end_date,
		   accrual_account_id, expense_revenue_account_id, status, created_by,
		   created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Scope.AgencyID, a.Scope.SubAccountID, string(a.Type),
		a.Description, a.Memo, a.CurrencyCode, a.OriginalAmount.String(),
		a.RecognizedAmount.String(), a.RemainingAmount.String(),
		a.TotalPeriods, a.RecognizedPeriods, string(a.Method),
		toMillis(a.StartDate), toMillis(a.EndDate),
		a.AccrualAccountID.String(), a.ExpenseRevenueAccountID.String(),
		string(a.Status), a.CreatedBy,
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt),
	)
	if err != nil {
		return mapErr("create accrual", err)
	}
	if err := insertScheduleItems(ctx, tx, a); err != nil {
		return mapErr("create accrual", err)
	}
	if err := tx.Commit(); err != nil {
		return mapErr("create accrual", err)
	}
	return nil
}

func insertScheduleItems(ctx context.Context, tx *sql.Tx, a *accrual.Accrual) error {
	for _, item := range a.Schedule {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accrual_schedule (
			   id, accrual_id, period_number, period_date, scheduled_amount,
			   recognized_amount, status, entry_id, recognized_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID.String(), a.ID.String(), item.PeriodNumber,
			toMillis(item.PeriodDate), item.ScheduledAmount.String(),
			item.RecognizedAmount.String(), string(item.Status),
			item.EntryID.String(), nullMillis(item.RecognizedAt),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

const accrualColumns = `id, agency_id, sub_account_id, type, description, memo,
	currency_code, original_amount, recognized_amount, remaining_amount,
	total_periods, recognized_periods, method, start_date, end_date,
	accrual_account_id, expense_revenue_account_id, status, created_by,
	created_at, updated_at`

func scanAccrual(row rowScanner) (*accrual.Accrual, error) {
	var a accrual.Accrual
	var rawID, typ, method, status string
	var original, recognized, remaining string
	var accrualAcct, exprevAcct string
	var startDate, endDate, createdAt, updatedAt int64
	err := row.Scan(
		&rawID, &a.Scope.AgencyID, &a.Scope.SubAccountID, &typ, &a.Description,
		&a.Memo, &a.CurrencyCode, &original, &recognized, &remaining,
		&a.TotalPeriods, &a.RecognizedPeriods, &method, &startDate, &endDate,
		&accrualAcct, &exprevAcct, &status, &a.CreatedBy,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.ID, err = id.ParseAccrualID(rawID); err != nil {
		return nil, err
	}
	a.Type = accrual.Type(typ)
	a.Method = accrual.Method(method)
	a.Status = accrual.Status(status)
	if a.OriginalAmount, err = parseDec(original); err != nil {
		return nil, err
	}
	if a.RecognizedAmount, err = parseDec(recognized); err != nil {
		return nil, err
	}
	if a.RemainingAmount, err = parseDec(remaining); err != nil {
		return nil, err
	}
	if a.AccrualAccountID, err = id.ParseAccountID(accrualAcct); err != nil {
		return nil, err
	}
	if a.ExpenseRevenueAccountID, err = id.ParseAccountID(exprevAcct); err != nil {
		return nil, err
	}
	a.StartDate = fromMillis(startDate)
	a.EndDate = fromMillis(endDate)
	a.CreatedAt = fromMillis(createdAt)
	a.UpdatedAt = fromMillis(updatedAt)
	return &a, nil
}

func (s *Store) loadSchedule(ctx context.Context, accrualID id.AccrualID) ([]accrual.ScheduleItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, accrual_id, period_number, period_date, scheduled_amount,
		        recognized_amount, status, entry_id, recognized_at
		   FROM accrual_schedule
		  WHERE accrual_id = ? ORDER BY period_number`,
		accrualID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]accrual.ScheduleItem, 0)
	for rows.Next() {
		var item accrual.ScheduleItem
		var rawID, parentID, scheduled, recognized, status, entryID string
		var periodDate int64
		var recognizedAt sql.NullInt64
		err := rows.Scan(
			&rawID, &parentID, &item.PeriodNumber, &periodDate, &scheduled,
			&recognized, &status, &entryID, &recognizedAt,
		)
		if err != nil {
			return nil, err
		}
		if item.ID, err = id.ParseScheduleItemID(rawID); err != nil {
			return nil, err
		}
		if item.AccrualID, err = id.ParseAccrualID(parentID); err != nil {
			return nil, err
		}
		if item.ScheduledAmount, err = parseDec(scheduled); err != nil {
			return nil, err
		}
		if item.RecognizedAmount, err = parseDec(recognized); err != nil {
			return nil, err
		}
		if entryID != "" {
			if item.EntryID, err = id.ParseEntryID(entryID); err != nil {
				return nil, err
			}
		}
		item.Status = accrual.ItemStatus(status)
		item.PeriodDate = fromMillis(periodDate)
		item.RecognizedAt = timePtr(recognizedAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) GetAccrual(ctx context.Context, accrualID id.AccrualID) (*accrual.Accrual, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accrualColumns+` FROM accruals WHERE id = ?`, accrualID.String())
	a, err := scanAccrual(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gl.ErrNotFound
	}
	if err != nil {
		return nil, mapErr("get accrual", err)
	}
	if a.Schedule, err = s.loadSchedule(ctx, a.ID); err != nil {
		return nil, mapErr("get accrual schedule", err)
	}
	return a, nil
}

func (s *Store) ListAccruals(ctx context.Context, scope types.Scope, opts accrual.ListOpts) ([]*accrual.Accrual, error) {
	query := `SELECT ` + accrualColumns + ` FROM accruals
		WHERE agency_id = ? AND sub_account_id = ?`
	args := []any{scope.AgencyID, scope.SubAccountID}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(opts.Status))
	}
	if opts.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(opts.Type))
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list accruals", err)
	}
	defer rows.Close()

	result := make([]*accrual.Accrual, 0)
	for rows.Next() {
		a, err := scanAccrual(rows)
		if err != nil {
			return nil, mapErr("list accruals", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list accruals", err)
	}
	for _, a := range result {
		if a.Schedule, err = s.loadSchedule(ctx, a.ID); err != nil {
			return nil, mapErr("list accrual schedules", err)
		}
	}
	return result, nil
}

func (s *Store) UpdateAccrual(ctx context.Context, a *accrual.Accrual) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("update accrual", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE accruals SET
		   type = ?, description = ?, memo = ?, currency_code = ?,
		   original_amount = ?, recognized_amount = ?, remaining_amount = ?,
		   total_periods = ?, recognized_periods = ?, method = ?,
		   start_date = ?, end_date = ?, accrual_account_id = ?,
		   expense_revenue_account_id = ?, status = ?, created_by = ?,
		   updated_at = ?
		 WHERE id = ?`,
		string(a.Type), a.Description, a.Memo, a.CurrencyCode,
		a.OriginalAmount.String(), a.RecognizedAmount.String(),
		a.RemainingAmount.String(), a.TotalPeriods, a.RecognizedPeriods,
		string(a.Method), toMillis(a.StartDate), toMillis(a.EndDate),
		a.AccrualAccountID.String(), a.ExpenseRevenueAccountID.String(),
		string(a.Status), a.CreatedBy, toMillis(a.UpdatedAt),
		a.ID.String(),
	)
	if err != nil {
		return mapErr("update accrual", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gl.ErrNotFound
	}
	// The schedule is replaced wholesale with the header.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM accrual_schedule WHERE accrual_id = ?`, a.ID.String()); err != nil {
		return mapErr("update accrual", err)
	}
	if err := insertScheduleItems(ctx, tx, a); err != nil {
		return mapErr("update accrual", err)
	}
	if err := tx.Commit(); err != nil {
		return mapErr("update accrual", err)
	}
	return nil
}

// ────────────────────────────────────────────────────────────────────────
// Counters
// ────────────────────────────────────────────────────────────────────────

// IncrementCounter reserves the next value in a single upsert, so two
// concurrent callers can never observe the same value.
func (s *Store) IncrementCounter(ctx context.Context, scope types.Scope, rangeKey, bucket string) (int64, error) {
	key := numbering.CounterKey(scope, rangeKey, bucket)
	var value int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO counters (counter_key, value) VALUES (?, 1)
		 ON CONFLICT (counter_key) DO UPDATE SET value = value + 1
		 RETURNING value`,
		key).Scan(&value)
	if err != nil {
		return 0, mapErr("increment counter", err)
	}
	return value, nil
}

func (s *Store) PeekCounter(ctx context.Context, scope types.Scope, rangeKey, bucket string) (int64, error) {
	key := numbering.CounterKey(scope, rangeKey, bucket)
	var value int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE counter_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, mapErr("peek counter", err)
	}
	return value, nil
}

var _ store.Store = (*Store)(nil)

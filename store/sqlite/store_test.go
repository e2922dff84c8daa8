package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl"
	"github.com/finlane/gl/account"
	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/types"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "gl.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

var testScope = types.NewScope("agency_1")

func testPeriod() *period.FinancialPeriod {
	return &period.FinancialPeriod{
		Entity:       types.NewEntity(),
		ID:           id.NewPeriodID(),
		Scope:        testScope,
		Name:         "2026-01",
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		FiscalYear:   2026,
		FiscalPeriod: 1,
		Status:       period.StatusOpen,
	}
}

func testAccount(code string, typ account.Type) *account.Account {
	return &account.Account{
		Entity:   types.NewEntity(),
		ID:       id.NewAccountID(),
		Scope:    testScope,
		Code:     code,
		Name:     "Account " + code,
		Type:     typ,
		Path:     code,
		Level:    1,
		Currency: "USD",
	}
}

func testEntry(debit, credit id.AccountID, amount int64) *journal.Entry {
	e := &journal.Entry{
		Entity:       types.NewEntity(),
		ID:           id.NewEntryID(),
		Scope:        testScope,
		EntryDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		PostingDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Type:         journal.EntryTypeManual,
		Description:  "test",
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		Status:       journal.StatusDraft,
		CreatedBy:    "tester",
	}
	e.Lines = []journal.Line{
		{ID: id.NewLineID(), EntryID: e.ID, LineNumber: 1, AccountID: debit, Debit: decimal.NewFromInt(amount), Credit: decimal.Zero},
		{ID: id.NewLineID(), EntryID: e.ID, LineNumber: 2, AccountID: credit, Debit: decimal.Zero, Credit: decimal.NewFromInt(amount)},
	}
	e.TotalDebit, e.TotalCredit = e.Totals()
	return e
}

func TestPeriodRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p := testPeriod()
	if err := s.CreatePeriod(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPeriod(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != p.Name || got.Status != period.StatusOpen || got.FiscalYear != 2026 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.StartDate.Equal(p.StartDate) {
		t.Errorf("start date = %v, want %v", got.StartDate, p.StartDate)
	}

	byDate, err := s.GetPeriodByDate(ctx, testScope, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if byDate.ID != p.ID {
		t.Errorf("date lookup resolved a different period")
	}

	if _, err := s.GetPeriodByDate(ctx, testScope, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)); !errors.Is(err, gl.ErrPeriodNotFound) {
		t.Errorf("uncovered date = %v, want ErrPeriodNotFound", err)
	}

	if err := s.CreatePeriod(ctx, p); !errors.Is(err, gl.ErrAlreadyExists) {
		t.Errorf("duplicate create = %v, want ErrAlreadyExists", err)
	}
}

func TestAccountUniqueCode(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.CreateAccount(ctx, testAccount("1000", account.TypeAsset)); err != nil {
		t.Fatal(err)
	}
	dup := testAccount("1000", account.TypeAsset)
	if err := s.CreateAccount(ctx, dup); !errors.Is(err, gl.ErrAlreadyExists) {
		t.Errorf("duplicate code = %v, want ErrAlreadyExists", err)
	}

	// Same code under a different scope is fine.
	other := testAccount("1000", account.TypeAsset)
	other.Scope = types.NewScope("agency_2")
	if err := s.CreateAccount(ctx, other); err != nil {
		t.Errorf("same code in another scope rejected: %v", err)
	}
}

func TestEntryPostingFoldsBalances(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p := testPeriod()
	cash := testAccount("1000", account.TypeAsset)
	revenue := testAccount("4000", account.TypeRevenue)
	if err := s.CreatePeriod(ctx, p); err != nil {
		t.Fatal(err)
	}
	for _, a := range []*account.Account{cash, revenue} {
		if err := s.CreateAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	post := func(amount int64) *journal.Entry {
		e := testEntry(cash.ID, revenue.ID, amount)
		if err := s.CreateEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
		e.Status = journal.StatusPosted
		e.PeriodID = p.ID
		deltas := []account.Delta{
			{PeriodID: p.ID, AccountID: cash.ID, Currency: "USD", Debit: decimal.NewFromInt(amount), Credit: decimal.Zero},
			{PeriodID: p.ID, AccountID: revenue.ID, Currency: "USD", Debit: decimal.Zero, Credit: decimal.NewFromInt(amount)},
		}
		if err := s.PostEntry(ctx, e, deltas); err != nil {
			t.Fatal(err)
		}
		return e
	}

	post(500)
	post(250)

	cashBal, err := s.GetBalance(ctx, p.ID, cash.ID, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !cashBal.DebitTotal.Equal(decimal.NewFromInt(750)) {
		t.Errorf("debit total = %s, want 750", cashBal.DebitTotal)
	}
	if !cashBal.ClosingBalance.Equal(decimal.NewFromInt(750)) {
		t.Errorf("closing = %s, want 750", cashBal.ClosingBalance)
	}

	revBal, err := s.GetBalance(ctx, p.ID, revenue.ID, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !revBal.ClosingBalance.Equal(decimal.NewFromInt(-750)) {
		t.Errorf("revenue closing = %s, want -750", revBal.ClosingBalance)
	}

	lines, err := s.ListPostedLines(ctx, testScope, cash.ID,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Errorf("posted lines = %d, want 2", len(lines))
	}

	has, err := s.HasPostedLines(ctx, cash.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Errorf("HasPostedLines = false for posted account")
	}
}

func TestPostedEntryImmutable(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cash := testAccount("1000", account.TypeAsset)
	revenue := testAccount("4000", account.TypeRevenue)
	for _, a := range []*account.Account{cash, revenue} {
		if err := s.CreateAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	e := testEntry(cash.ID, revenue.ID, 100)
	if err := s.CreateEntry(ctx, e); err != nil {
		t.Fatal(err)
	}
	e.Status = journal.StatusPosted
	if err := s.PostEntry(ctx, e, nil); err != nil {
		t.Fatal(err)
	}

	e.Description = "edited"
	if err := s.UpdateEntry(ctx, e); !errors.Is(err, gl.ErrEntryImmutable) {
		t.Errorf("update posted = %v, want ErrEntryImmutable", err)
	}

	// Flipping to reversed is the one allowed mutation.
	e.Status = journal.StatusReversed
	if err := s.UpdateEntry(ctx, e); err != nil {
		t.Errorf("posted -> reversed refused: %v", err)
	}
}

func TestEntryLinesOrdered(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cash := testAccount("1000", account.TypeAsset)
	revenue := testAccount("4000", account.TypeRevenue)
	for _, a := range []*account.Account{cash, revenue} {
		if err := s.CreateAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	e := testEntry(cash.ID, revenue.ID, 42)
	if err := s.CreateEntry(ctx, e); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEntry(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(got.Lines))
	}
	for i, ln := range got.Lines {
		if ln.LineNumber != i+1 {
			t.Errorf("line %d has number %d", i, ln.LineNumber)
		}
	}
	if !got.TotalDebit.Equal(decimal.NewFromInt(42)) {
		t.Errorf("total debit = %s, want 42", got.TotalDebit)
	}
}

func TestCounters(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.IncrementCounter(ctx, testScope, "JE", "2026")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("increment = %d, want %d", got, want)
		}
	}

	// A new bucket starts its own sequence.
	got, err := s.IncrementCounter(ctx, testScope, "JE", "2027")
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("new bucket = %d, want 1", got)
	}

	peek, err := s.PeekCounter(ctx, testScope, "JE", "2026")
	if err != nil {
		t.Fatal(err)
	}
	if peek != 3 {
		t.Errorf("peek = %d, want 3", peek)
	}

	peek, err = s.PeekCounter(ctx, testScope, "JE", "never-used")
	if err != nil {
		t.Fatal(err)
	}
	if peek != 0 {
		t.Errorf("peek of unused counter = %d, want 0", peek)
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var mode string
	if err := s.db.QueryRowContext(ctx, `PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}

	var busy int
	if err := s.db.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&busy); err != nil {
		t.Fatal(err)
	}
	if busy != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busy)
	}

	var fk int
	if err := s.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestConcurrentCounterIncrements(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const n = 200
	results := make(chan int64, n)
	errs := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.IncrementCounter(ctx, testScope, "INV", "2026-09")
			if err != nil {
				errs <- err
				return
			}
			results <- got
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	// Writer contention must be absorbed by the busy timeout, not
	// surfaced to callers.
	for err := range errs {
		t.Errorf("increment failed: %v", err)
	}

	seen := make(map[int64]bool, n)
	for got := range results {
		if seen[got] {
			t.Fatalf("number %d issued twice", got)
		}
		seen[got] = true
	}
	if len(seen) != n {
		t.Fatalf("issued %d numbers, want %d", len(seen), n)
	}
}

func TestMapErrClassifiesBusy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "busy.db")
	open := func() *sql.DB {
		db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(0)")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = db.Close() })
		return db
	}
	writer := open()
	blocked := open()

	if _, err := writer.Exec(`CREATE TABLE busy_rows (n INTEGER)`); err != nil {
		t.Fatal(err)
	}
	tx, err := writer.Begin()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT INTO busy_rows (n) VALUES (1)`); err != nil {
		t.Fatal(err)
	}

	// With the write lock held and no busy timeout the second writer
	// fails immediately with SQLITE_BUSY.
	_, busyErr := blocked.Exec(`INSERT INTO busy_rows (n) VALUES (2)`)
	if busyErr == nil {
		t.Fatal("expected a busy error")
	}

	mapped := mapErr("get entry", busyErr)
	if !errors.Is(mapped, gl.ErrStorageUnavailable) {
		t.Errorf("mapped error = %v, want ErrStorageUnavailable sentinel", mapped)
	}
}

func TestAccrualRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	prepaid := testAccount("1400", account.TypeAsset)
	expense := testAccount("6000", account.TypeExpense)
	for _, a := range []*account.Account{prepaid, expense} {
		if err := s.CreateAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	a := &accrual.Accrual{
		Entity:                  types.NewEntity(),
		ID:                      id.NewAccrualID(),
		Scope:                   testScope,
		Type:                    accrual.TypePrepaidExpense,
		Description:             "Annual insurance",
		CurrencyCode:            "USD",
		OriginalAmount:          decimal.NewFromInt(300),
		RecognizedAmount:        decimal.Zero,
		RemainingAmount:         decimal.NewFromInt(300),
		TotalPeriods:            3,
		Method:                  accrual.MethodStraightLine,
		StartDate:               time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:                 time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		AccrualAccountID:        prepaid.ID,
		ExpenseRevenueAccountID: expense.ID,
		Status:                  accrual.StatusActive,
		CreatedBy:               "tester",
	}
	a.Schedule = accrual.BuildSchedule(a.OriginalAmount, a.TotalPeriods, a.Method, a.StartDate)
	for i := range a.Schedule {
		a.Schedule[i].ID = id.NewScheduleItemID()
		a.Schedule[i].AccrualID = a.ID
	}

	if err := s.CreateAccrual(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAccrual(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Schedule) != 3 {
		t.Fatalf("schedule = %d items, want 3", len(got.Schedule))
	}
	for i, item := range got.Schedule {
		if item.PeriodNumber != i+1 {
			t.Errorf("schedule item %d out of order", i)
		}
		if item.Status != accrual.ItemPending {
			t.Errorf("item %d status = %s, want pending", i, item.Status)
		}
	}

	// Recognize the first item and persist through Update.
	now := time.Now().UTC()
	got.Schedule[0].Status = accrual.ItemRecognized
	got.Schedule[0].RecognizedAmount = decimal.NewFromInt(100)
	got.Schedule[0].RecognizedAt = &now
	got.RecognizedAmount = decimal.NewFromInt(100)
	got.RemainingAmount = decimal.NewFromInt(200)
	got.RecognizedPeriods = 1
	if err := s.UpdateAccrual(ctx, got); err != nil {
		t.Fatal(err)
	}

	reread, err := s.GetAccrual(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reread.Schedule[0].Status != accrual.ItemRecognized {
		t.Errorf("recognition not persisted")
	}
	if !reread.RemainingAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("remaining = %s, want 200", reread.RemainingAmount)
	}
}

func TestNotFoundSentinels(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.GetPeriod(ctx, id.NewPeriodID()); !errors.Is(err, gl.ErrPeriodNotFound) {
		t.Errorf("period = %v, want ErrPeriodNotFound", err)
	}
	if _, err := s.GetAccount(ctx, id.NewAccountID()); !errors.Is(err, gl.ErrAccountNotFound) {
		t.Errorf("account = %v, want ErrAccountNotFound", err)
	}
	if _, err := s.GetEntry(ctx, id.NewEntryID()); !errors.Is(err, gl.ErrNotFound) {
		t.Errorf("entry = %v, want ErrNotFound", err)
	}
	if _, err := s.GetAccrual(ctx, id.NewAccrualID()); !errors.Is(err, gl.ErrNotFound) {
		t.Errorf("accrual = %v, want ErrNotFound", err)
	}
}

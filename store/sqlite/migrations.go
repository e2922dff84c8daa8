package sqlite

// schema is applied in order by Migrate. Statements are idempotent so
// Migrate is safe to run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS periods (
		id              TEXT PRIMARY KEY,
		agency_id       TEXT NOT NULL,
		sub_account_id  TEXT NOT NULL DEFAULT '',
		name            TEXT NOT NULL,
		start_date      INTEGER NOT NULL,
		end_date        INTEGER NOT NULL,
		fiscal_year     INTEGER NOT NULL,
		fiscal_period   INTEGER NOT NULL,
		status          TEXT NOT NULL,
		closed_by       TEXT NOT NULL DEFAULT '',
		closed_at       INTEGER,
		locked_by       TEXT NOT NULL DEFAULT '',
		locked_at       INTEGER,
		created_at      INTEGER NOT NULL,
		updated_at      INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_periods_scope_dates
		ON periods (agency_id, sub_account_id, start_date, end_date)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id              TEXT PRIMARY KEY,
		agency_id       TEXT NOT NULL,
		sub_account_id  TEXT NOT NULL DEFAULT '',
		code            TEXT NOT NULL,
		name            TEXT NOT NULL,
		type            TEXT NOT NULL,
		category        TEXT NOT NULL,
		path            TEXT NOT NULL DEFAULT '',
		level           INTEGER NOT NULL DEFAULT 1,
		currency        TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		archived        INTEGER NOT NULL DEFAULT 0,
		created_at      INTEGER NOT NULL,
		updated_at      INTEGER NOT NULL,
		UNIQUE (agency_id, sub_account_id, code)
	)`,

	`CREATE TABLE IF NOT EXISTS balances (
		id              TEXT PRIMARY KEY,
		agency_id       TEXT NOT NULL,
		sub_account_id  TEXT NOT NULL DEFAULT '',
		period_id       TEXT NOT NULL,
		account_id      TEXT NOT NULL,
		currency        TEXT NOT NULL,
		opening_balance TEXT NOT NULL,
		closing_balance TEXT NOT NULL,
		debit_total     TEXT NOT NULL,
		credit_total    TEXT NOT NULL,
		created_at      INTEGER NOT NULL,
		updated_at      INTEGER NOT NULL,
		UNIQUE (period_id, account_id, currency)
	)`,

	`CREATE TABLE IF NOT EXISTS entries (
		id               TEXT PRIMARY KEY,
		agency_id        TEXT NOT NULL,
		sub_account_id   TEXT NOT NULL DEFAULT '',
		document_number  TEXT NOT NULL DEFAULT '',
		entry_date       INTEGER NOT NULL,
		posting_date     INTEGER NOT NULL,
		type             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		currency_code    TEXT NOT NULL,
		exchange_rate    TEXT NOT NULL,
		status           TEXT NOT NULL,
		total_debit      TEXT NOT NULL,
		total_credit     TEXT NOT NULL,
		created_by       TEXT NOT NULL DEFAULT '',
		submitted_by     TEXT NOT NULL DEFAULT '',
		approved_by      TEXT NOT NULL DEFAULT '',
		rejected_by      TEXT NOT NULL DEFAULT '',
		rejection_reason TEXT NOT NULL DEFAULT '',
		posted_by        TEXT NOT NULL DEFAULT '',
		posted_at        INTEGER,
		voided_by        TEXT NOT NULL DEFAULT '',
		period_id        TEXT NOT NULL DEFAULT '',
		reversal_of      TEXT NOT NULL DEFAULT '',
		reversed_by      TEXT NOT NULL DEFAULT '',
		created_at       INTEGER NOT NULL,
		updated_at       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_scope_status
		ON entries (agency_id, sub_account_id, status)`,

	`CREATE TABLE IF NOT EXISTS entry_lines (
		id            TEXT PRIMARY KEY,
		entry_id      TEXT NOT NULL REFERENCES entries (id),
		line_number   INTEGER NOT NULL,
		account_id    TEXT NOT NULL,
		debit         TEXT NOT NULL,
		credit        TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		cost_center   TEXT NOT NULL DEFAULT '',
		profit_center TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entry_lines_entry
		ON entry_lines (entry_id, line_number)`,
	`CREATE INDEX IF NOT EXISTS idx_entry_lines_account
		ON entry_lines (account_id)`,

	`CREATE TABLE IF NOT EXISTS accruals (
		id                         TEXT PRIMARY KEY,
		agency_id                  TEXT NOT NULL,
		sub_account_id             TEXT NOT NULL DEFAULT '',
		type                       TEXT NOT NULL,
		description                TEXT NOT NULL DEFAULT '',
		memo                       TEXT NOT NULL DEFAULT '',
		currency_code              TEXT NOT NULL,
		original_amount            TEXT NOT NULL,
		recognized_amount          TEXT NOT NULL,
		remaining_amount           TEXT NOT NULL,
		total_periods              INTEGER NOT NULL,
		recognized_periods         INTEGER NOT NULL,
		method                     TEXT NOT NULL,
		start_date                 INTEGER NOT NULL,
		end_date                   INTEGER NOT NULL,
		accrual_account_id         TEXT NOT NULL,
		expense_revenue_account_id TEXT NOT NULL,
		status                     TEXT NOT NULL,
		created_by                 TEXT NOT NULL DEFAULT '',
		created_at                 INTEGER NOT NULL,
		updated_at                 INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS accrual_schedule (
		id                TEXT PRIMARY KEY,
		accrual_id        TEXT NOT NULL REFERENCES accruals (id),
		period_number     INTEGER NOT NULL,
		period_date       INTEGER NOT NULL,
		scheduled_amount  TEXT NOT NULL,
		recognized_amount TEXT NOT NULL,
		status            TEXT NOT NULL,
		entry_id          TEXT NOT NULL DEFAULT '',
		recognized_at     INTEGER,
		UNIQUE (accrual_id, period_number)
	)`,

	`CREATE TABLE IF NOT EXISTS counters (
		counter_key TEXT PRIMARY KEY,
		value       INTEGER NOT NULL
	)`,
}

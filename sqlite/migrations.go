package sqlite

// Migrations returns the schema statements, applied in order on every Open.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			seq  INTEGER PRIMARY KEY AUTOINCREMENT,
			id   TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL UNIQUE
		)`,

		// Every record keeps its canonical JSON form in data. last_claimed
		// duplicates the investment's lastClaimed so claims can compare and swap.
		`CREATE TABLE IF NOT EXISTS records (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT NOT NULL UNIQUE,
			kind         TEXT NOT NULL,
			date         TEXT NOT NULL,
			account_id   TEXT REFERENCES accounts(id),
			last_claimed TEXT NOT NULL DEFAULT '',
			data         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_date ON records(date, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind, date)`,
	}
}

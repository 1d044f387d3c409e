// Package history provides SQLite storage for invoice runs and delivery attempts.
// It replaces the ambient "memory" of earlier iterations with an explicit,
// queryable store that each run reads and writes through a defined interface.
package history

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Invoice history table
-- One row per billing month; regenerating an invoice updates the row
CREATE TABLE IF NOT EXISTS invoice_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    month TEXT NOT NULL,               -- YYYY-MM
    period_start TEXT NOT NULL,        -- YYYY-MM-DD
    period_end TEXT NOT NULL,          -- YYYY-MM-DD
    record_count INTEGER NOT NULL,     -- work records aggregated
    line_count INTEGER NOT NULL,       -- invoice lines produced
    grand_total TEXT NOT NULL,         -- decimal string, exact
    currency TEXT NOT NULL,
    invoice_file TEXT NOT NULL,        -- path to the rendered invoice
    generated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(month)
);

CREATE INDEX IF NOT EXISTS idx_invoice_history_month
    ON invoice_history(month);

-- Delivery history table
-- One row per delivery attempt, successful or not
CREATE TABLE IF NOT EXISTS delivery_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    month TEXT NOT NULL,               -- YYYY-MM
    channel TEXT NOT NULL,             -- e.g. 'telegram'
    destination TEXT NOT NULL,         -- chat or channel identifier
    status TEXT NOT NULL,              -- 'sent' or 'failed'
    transient INTEGER NOT NULL DEFAULT 0, -- 1 when the failure is retryable
    reason TEXT,                       -- failure reason, if any
    attempted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_delivery_history_month
    ON delivery_history(month);

-- Run metadata table
-- Stores key-value metadata about runs
CREATE TABLE IF NOT EXISTS run_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}

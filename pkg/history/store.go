package history

import (
	"database/sql"
	"fmt"
	"time"
)

// DeliveryStatus represents the outcome of a delivery attempt.
type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// InvoiceRecord represents one generated invoice.
type InvoiceRecord struct {
	ID          int64
	Month       string // YYYY-MM
	PeriodStart string // YYYY-MM-DD
	PeriodEnd   string // YYYY-MM-DD
	RecordCount int
	LineCount   int
	GrandTotal  string // decimal string, exact
	Currency    string
	InvoiceFile string
	GeneratedAt time.Time
}

// DeliveryRecord represents one delivery attempt.
type DeliveryRecord struct {
	ID          int64
	Month       string
	Channel     string
	Destination string
	Status      DeliveryStatus
	Transient   bool
	Reason      sql.NullString
	AttemptedAt time.Time
}

// Store manages invoice and delivery history operations.
type Store struct {
	conn *Connection
}

// NewStore creates a new Store instance.
func NewStore(conn *Connection) *Store {
	return &Store{conn: conn}
}

// RecordInvoice records a generated invoice.
// Regenerating the same month updates the existing row.
func (s *Store) RecordInvoice(record InvoiceRecord) error {
	query := `
		INSERT INTO invoice_history (month, period_start, period_end, record_count, line_count, grand_total, currency, invoice_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(month) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			record_count = excluded.record_count,
			line_count = excluded.line_count,
			grand_total = excluded.grand_total,
			currency = excluded.currency,
			invoice_file = excluded.invoice_file,
			generated_at = CURRENT_TIMESTAMP
	`

	_, err := s.conn.Exec(query,
		record.Month,
		record.PeriodStart,
		record.PeriodEnd,
		record.RecordCount,
		record.LineCount,
		record.GrandTotal,
		record.Currency,
		record.InvoiceFile,
	)

	if err != nil {
		return fmt.Errorf("failed to record invoice: %w", err)
	}

	return nil
}

// GetInvoice retrieves the invoice record for a month.
// Returns nil when the month has never been generated.
func (s *Store) GetInvoice(month string) (*InvoiceRecord, error) {
	query := `
		SELECT id, month, period_start, period_end, record_count, line_count, grand_total, currency, invoice_file, generated_at
		FROM invoice_history
		WHERE month = ?
	`

	var record InvoiceRecord
	err := s.conn.QueryRow(query, month).Scan(
		&record.ID,
		&record.Month,
		&record.PeriodStart,
		&record.PeriodEnd,
		&record.RecordCount,
		&record.LineCount,
		&record.GrandTotal,
		&record.Currency,
		&record.InvoiceFile,
		&record.GeneratedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice record: %w", err)
	}

	return &record, nil
}

// ListInvoices retrieves all invoice records, newest month first.
func (s *Store) ListInvoices() ([]InvoiceRecord, error) {
	query := `
		SELECT id, month, period_start, period_end, record_count, line_count, grand_total, currency, invoice_file, generated_at
		FROM invoice_history
		ORDER BY month DESC
	`

	rows, err := s.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var records []InvoiceRecord
	for rows.Next() {
		var record InvoiceRecord
		if err := rows.Scan(
			&record.ID,
			&record.Month,
			&record.PeriodStart,
			&record.PeriodEnd,
			&record.RecordCount,
			&record.LineCount,
			&record.GrandTotal,
			&record.Currency,
			&record.InvoiceFile,
			&record.GeneratedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// RecordDelivery records a delivery attempt.
func (s *Store) RecordDelivery(record DeliveryRecord) error {
	query := `
		INSERT INTO delivery_history (month, channel, destination, status, transient, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.conn.Exec(query,
		record.Month,
		record.Channel,
		record.Destination,
		string(record.Status),
		record.Transient,
		record.Reason,
	)

	if err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}

	return nil
}

// GetDeliveries retrieves delivery attempts for a month, newest first.
func (s *Store) GetDeliveries(month string) ([]DeliveryRecord, error) {
	query := `
		SELECT id, month, channel, destination, status, transient, reason, attempted_at
		FROM delivery_history
		WHERE month = ?
		ORDER BY attempted_at DESC
	`

	rows, err := s.conn.Query(query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get deliveries: %w", err)
	}
	defer rows.Close()

	var records []DeliveryRecord
	for rows.Next() {
		var record DeliveryRecord
		var status string

		if err := rows.Scan(
			&record.ID,
			&record.Month,
			&record.Channel,
			&record.Destination,
			&status,
			&record.Transient,
			&record.Reason,
			&record.AttemptedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery record: %w", err)
		}

		record.Status = DeliveryStatus(status)
		records = append(records, record)
	}

	return records, nil
}

// Stats represents history statistics.
type Stats struct {
	TotalInvoices    int
	TotalDeliveries  int
	FailedDeliveries int
	LastGenerated    sql.NullString
	LastDelivered    sql.NullString
}

// GetStats retrieves history statistics.
func (s *Store) GetStats() (*Stats, error) {
	var stats Stats

	err := s.conn.QueryRow(`SELECT COUNT(*) FROM invoice_history`).Scan(&stats.TotalInvoices)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT COUNT(*) FROM delivery_history`).Scan(&stats.TotalDeliveries)
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT COUNT(*) FROM delivery_history WHERE status = 'failed'`).Scan(&stats.FailedDeliveries)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed delivery count: %w", err)
	}

	err = s.conn.QueryRow(`SELECT MAX(generated_at) FROM invoice_history`).Scan(&stats.LastGenerated)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last generated time: %w", err)
	}

	err = s.conn.QueryRow(`SELECT MAX(attempted_at) FROM delivery_history WHERE status = 'sent'`).Scan(&stats.LastDelivered)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last delivered time: %w", err)
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value.
// Returns empty string when the key is not set.
func (s *Store) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM run_metadata WHERE key = ?`

	var value string
	err := s.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata sets a metadata value.
func (s *Store) SetMetadata(key, value string) error {
	query := `
		INSERT INTO run_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := s.conn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}

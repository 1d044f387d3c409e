package history

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewStore(conn)
}

func TestRecordInvoiceUpsert(t *testing.T) {
	store := openTestStore(t)

	record := InvoiceRecord{
		Month:       "2024-07",
		PeriodStart: "2024-07-01",
		PeriodEnd:   "2024-07-03",
		RecordCount: 3,
		LineCount:   2,
		GrandTotal:  "620",
		Currency:    "USD",
		InvoiceFile: "/tmp/invoice_2024-07.txt",
	}

	if err := store.RecordInvoice(record); err != nil {
		t.Fatalf("RecordInvoice() returned error: %v", err)
	}

	// Regenerating the same month must update, not duplicate
	record.GrandTotal = "650"
	record.LineCount = 3
	if err := store.RecordInvoice(record); err != nil {
		t.Fatalf("RecordInvoice() second call returned error: %v", err)
	}

	got, err := store.GetInvoice("2024-07")
	if err != nil {
		t.Fatalf("GetInvoice() returned error: %v", err)
	}
	if got == nil {
		t.Fatal("GetInvoice() returned nil for a recorded month")
	}
	if got.GrandTotal != "650" {
		t.Errorf("GrandTotal = %q, expected 650 after upsert", got.GrandTotal)
	}
	if got.LineCount != 3 {
		t.Errorf("LineCount = %d, expected 3 after upsert", got.LineCount)
	}

	invoices, err := store.ListInvoices()
	if err != nil {
		t.Fatalf("ListInvoices() returned error: %v", err)
	}
	if len(invoices) != 1 {
		t.Errorf("ListInvoices() returned %d rows, expected 1", len(invoices))
	}
}

func TestGetInvoiceMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetInvoice("2030-01")
	if err != nil {
		t.Fatalf("GetInvoice() returned error: %v", err)
	}
	if got != nil {
		t.Errorf("GetInvoice() = %+v, expected nil for an unknown month", got)
	}
}

func TestRecordDelivery(t *testing.T) {
	store := openTestStore(t)

	attempts := []DeliveryRecord{
		{Month: "2024-07", Channel: "telegram", Destination: "123", Status: DeliveryStatusFailed, Transient: true, Reason: sql.NullString{String: "request timed out", Valid: true}},
		{Month: "2024-07", Channel: "telegram", Destination: "123", Status: DeliveryStatusSent},
	}
	for _, attempt := range attempts {
		if err := store.RecordDelivery(attempt); err != nil {
			t.Fatalf("RecordDelivery() returned error: %v", err)
		}
	}

	got, err := store.GetDeliveries("2024-07")
	if err != nil {
		t.Fatalf("GetDeliveries() returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetDeliveries() returned %d rows, expected 2", len(got))
	}

	var failed *DeliveryRecord
	for i := range got {
		if got[i].Status == DeliveryStatusFailed {
			failed = &got[i]
		}
	}
	if failed == nil {
		t.Fatal("failed delivery attempt not found")
	}
	if !failed.Transient {
		t.Error("failed delivery should be marked transient")
	}
	if !failed.Reason.Valid || failed.Reason.String != "request timed out" {
		t.Errorf("failure reason = %v, expected 'request timed out'", failed.Reason)
	}
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordInvoice(InvoiceRecord{
		Month: "2024-07", PeriodStart: "2024-07-01", PeriodEnd: "2024-07-31",
		RecordCount: 10, LineCount: 2, GrandTotal: "620", Currency: "USD",
		InvoiceFile: "/tmp/invoice_2024-07.txt",
	}); err != nil {
		t.Fatalf("RecordInvoice() returned error: %v", err)
	}

	if err := store.RecordDelivery(DeliveryRecord{
		Month: "2024-07", Channel: "telegram", Destination: "123", Status: DeliveryStatusSent,
	}); err != nil {
		t.Fatalf("RecordDelivery() returned error: %v", err)
	}
	if err := store.RecordDelivery(DeliveryRecord{
		Month: "2024-07", Channel: "telegram", Destination: "123", Status: DeliveryStatusFailed, Transient: true,
	}); err != nil {
		t.Fatalf("RecordDelivery() returned error: %v", err)
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("GetStats() returned error: %v", err)
	}

	if stats.TotalInvoices != 1 {
		t.Errorf("TotalInvoices = %d, expected 1", stats.TotalInvoices)
	}
	if stats.TotalDeliveries != 2 {
		t.Errorf("TotalDeliveries = %d, expected 2", stats.TotalDeliveries)
	}
	if stats.FailedDeliveries != 1 {
		t.Errorf("FailedDeliveries = %d, expected 1", stats.FailedDeliveries)
	}
	if !stats.LastGenerated.Valid {
		t.Error("LastGenerated should be set")
	}
	if !stats.LastDelivered.Valid {
		t.Error("LastDelivered should be set")
	}
}

func TestMetadata(t *testing.T) {
	store := openTestStore(t)

	value, err := store.GetMetadata("last_generated_month")
	if err != nil {
		t.Fatalf("GetMetadata() returned error: %v", err)
	}
	if value != "" {
		t.Errorf("GetMetadata() = %q, expected empty for unset key", value)
	}

	if err := store.SetMetadata("last_generated_month", "2024-07"); err != nil {
		t.Fatalf("SetMetadata() returned error: %v", err)
	}
	if err := store.SetMetadata("last_generated_month", "2024-08"); err != nil {
		t.Fatalf("SetMetadata() second call returned error: %v", err)
	}

	value, err = store.GetMetadata("last_generated_month")
	if err != nil {
		t.Fatalf("GetMetadata() returned error: %v", err)
	}
	if value != "2024-08" {
		t.Errorf("GetMetadata() = %q, expected 2024-08", value)
	}
}
